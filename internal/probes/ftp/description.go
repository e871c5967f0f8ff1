package ftp

import "github.com/jandubois/checkftp/internal/probe"

// Version is the probe version reported by --describe.
const Version = "1.0.0"

// GetDescription returns the probe description.
func GetDescription() probe.Description {
	return probe.Description{
		Name:        "ftp-login",
		Description: "Log in to an FTP/FTPS server, list a directory and check timings",
		Version:     Version,
		Subcommand:  Name,
		Arguments: probe.Arguments{
			Required: map[string]probe.ArgumentSpec{
				"hostname": {
					Type:        "string",
					Description: "Host name or IP address",
				},
			},
			Optional: map[string]probe.ArgumentSpec{
				"port": {
					Type:        "number",
					Description: "Port number",
					Default:     float64(21),
				},
				"ssl": {
					Type:        "boolean",
					Description: "Use TLS for the connection",
					Default:     true,
				},
				"username": {
					Type:        "string",
					Description: "Username",
					Default:     "ftp",
				},
				"password": {
					Type:        "string",
					Description: "Password",
				},
				"path": {
					Type:        "string",
					Description: "Directory to list (default: login directory)",
				},
				"total-warning": {
					Type:        "string",
					Description: "Warning range for the total time in seconds",
				},
				"total-critical": {
					Type:        "string",
					Description: "Critical range for the total time in seconds",
				},
				"files-warning": {
					Type:        "string",
					Description: "Warning range for the directory entry count",
					Default:     "0:",
				},
				"files-critical": {
					Type:        "string",
					Description: "Critical range for the directory entry count",
					Default:     "2:",
				},
				"timeout": {
					Type:        "number",
					Description: "Abort the check after this many seconds",
					Default:     float64(10),
				},
				"output": {
					Type:        "string",
					Description: "Output format",
					Default:     "json",
					Enum:        []string{"nagios", "json", "table"},
				},
			},
		},
	}
}
