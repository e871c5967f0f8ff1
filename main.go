package main

import (
	"os"

	"github.com/jandubois/checkftp/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
