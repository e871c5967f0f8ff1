package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jandubois/checkftp/internal/config"
	"github.com/jandubois/checkftp/internal/probe"
	"github.com/jandubois/checkftp/internal/report"
	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags "-X github.com/jandubois/checkftp/cmd.Version=..."
var Version = "dev"

const probeGroupID = "probes"

// checkName prefixes every status line.
const checkName = "FTP"

// exitError carries the plugin exit code out of cobra.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "check-ftp",
		Short: "Check FTP/FTPS login and directory listing",
		Long: `check-ftp connects to an FTP server, logs in, lists a directory and
quits, measuring how long each step takes. Timings and the number of
directory entries are checked against warning and critical ranges, and
the result is reported in monitoring plugin format with a matching
exit code.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(stdout, "check-ftp version %s\n", Version)
				return nil
			}
			if describe, _ := cmd.Flags().GetBool("describe"); describe {
				return printDescriptions(stdout)
			}
			return runCheck(cmd, stdout, stderr)
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.AddGroup(&cobra.Group{ID: probeGroupID, Title: "Built-in Probes:"})

	rootCmd.Flags().Bool("version", false, "Print version and exit")
	rootCmd.Flags().Bool("describe", false, "Output built-in probe descriptions as JSON array")
	addCheckFlags(rootCmd, report.FormatNagios)

	rootCmd.AddCommand(newFTPCmd(stdout, stderr))
	return rootCmd
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	return execute(os.Args[1:], os.Stdout, os.Stderr)
}

func execute(args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd(stdout, stderr)
	rootCmd.SetArgs(args)

	cmd, err := rootCmd.ExecuteC()
	if err == nil {
		return probe.StatusOK.ExitCode()
	}
	var exit *exitError
	if errors.As(err, &exit) {
		return exit.code
	}

	// Flag parsing errors never reach runCheck.
	return report.NewFormatter(outputFormat(cmd), stdout, checkName).RenderError(err)
}

// outputFormat returns the format cmd reports in: the --output value when it
// was parsed before the error, otherwise the command's default.
func outputFormat(cmd *cobra.Command) report.Format {
	if cmd == nil {
		return report.FormatNagios
	}
	flag := cmd.Flags().Lookup("output")
	if flag == nil {
		return report.FormatNagios
	}
	if format, err := report.ParseFormat(flag.Value.String()); err == nil {
		return format
	}
	if format, err := report.ParseFormat(flag.DefValue); err == nil {
		return format
	}
	return report.FormatNagios
}

func addCheckFlags(cmd *cobra.Command, output report.Format) {
	defaults := config.Default()
	flags := cmd.Flags()
	flags.SetNormalizeFunc(config.NormalizeFlagName)

	flags.StringP("hostname", "H", "", "Host name or IP address (required)")
	flags.IntP("port", "p", defaults.Port, "Port number")
	flags.BoolP("ssl", "S", defaults.SSL, "Use explicit TLS (AUTH TLS) for the connection")
	flags.Bool("no-ssl", false, "Connect without TLS")
	flags.Bool("implicit-tls", false, "Use implicit TLS (FTPS, usually port 990)")
	flags.Bool("tls-verify", false, "Verify the server certificate")
	flags.StringP("username", "U", defaults.Username, "Username")
	flags.StringP("password", "P", "", "Password (or CHECK_FTP_PASSWORD env var)")
	flags.String("path", "", "Directory to list (default: login directory)")
	flags.StringP("total-warning", "w", defaults.TotalWarning, "Warning range for the total time in seconds")
	flags.StringP("total-critical", "c", defaults.TotalCritical, "Critical range for the total time in seconds")
	flags.String("fw", defaults.FilesWarning, "Warning range for the directory entry count")
	flags.String("fc", defaults.FilesCritical, "Critical range for the directory entry count")
	flags.Bool("exclude-dot-entries", false, "Do not count . and .. in the directory entry count")
	flags.IntP("timeout", "t", defaults.TimeoutSeconds, "Abort the check after this many seconds")
	flags.CountP("verbose", "v", "Increase output verbosity (up to -vvv)")
	flags.BoolP("debug", "D", false, "Log the FTP protocol dialogue to stderr")
	flags.StringP("output", "o", string(output), "Output format (nagios, json, table)")
	flags.String("config", "", "YAML file with default flag values")

	flags.MarkHidden("no-ssl")
}
