package cmd

import (
	"encoding/json"
	"io"

	"github.com/jandubois/checkftp/internal/probes"
	"github.com/jandubois/checkftp/internal/probes/ftp"
	"github.com/jandubois/checkftp/internal/report"
	"github.com/spf13/cobra"
)

// ftp probe
func newFTPCmd(stdout, stderr io.Writer) *cobra.Command {
	ftpCmd := &cobra.Command{
		Use:           ftp.Name,
		Short:         "Check FTP login and directory listing, reporting a JSON probe result",
		GroupID:       probeGroupID,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, stdout, stderr)
		},
	}
	addCheckFlags(ftpCmd, report.FormatJSON)
	return ftpCmd
}

func printDescriptions(w io.Writer) error {
	descs := probes.GetAllDescriptions()
	return json.NewEncoder(w).Encode(descs)
}
