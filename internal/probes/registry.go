// Package probes provides the built-in probe registry.
package probes

import (
	"github.com/jandubois/checkftp/internal/probe"
	"github.com/jandubois/checkftp/internal/probes/ftp"
)

// GetAllDescriptions returns descriptions of all built-in probes.
func GetAllDescriptions() []probe.Description {
	return []probe.Description{
		ftp.GetDescription(),
	}
}
