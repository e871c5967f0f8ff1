package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jandubois/checkftp/internal/check"
	"github.com/jandubois/checkftp/internal/config"
	"github.com/jandubois/checkftp/internal/probes/ftp"
	"github.com/jandubois/checkftp/internal/report"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// passwordEnv supplies the password when neither the flag nor the config
// file sets one.
const passwordEnv = "CHECK_FTP_PASSWORD"

func runCheck(cmd *cobra.Command, stdout, stderr io.Writer) error {
	cfg, err := loadConfig(cmd.Flags())
	setupLogging(stderr, cfg.Verbose, cfg.Debug)

	formatter := report.NewFormatter(cfg.Format(), stdout, checkName)
	formatter.SetVerbose(cfg.Verbose)
	formatter.SetSummary(ftp.Summary)

	if err == nil {
		err = cfg.Validate()
	}
	var contexts check.Contexts
	if err == nil {
		contexts, err = cfg.Contexts()
	}
	if err != nil {
		slog.Debug("invalid configuration", "error", err)
		return exitCode(formatter.RenderError(err))
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			slog.Info("shutdown signal received")
			cancel()
		case <-ctx.Done():
		}
	}()

	target := cfg.Target(stderr)
	slog.Debug("starting check", "addr", target.Addr(), "user", target.Username,
		"tls", target.TLS, "implicit_tls", target.ImplicitTLS, "timeout", target.Timeout)

	obs := ftp.NewProber().Run(ctx, target)
	outcome := check.Evaluate(obs, contexts)
	return exitCode(formatter.Render(outcome))
}

func exitCode(code int) error {
	if code == 0 {
		return nil
	}
	return &exitError{code: code}
}

// loadConfig merges the config file, the flags and the environment. The
// returned config is usable for choosing an output format even when err is
// set.
func loadConfig(flags *pflag.FlagSet) (config.CheckConfig, error) {
	cfg := config.Default()
	cfg.Output, _ = flags.GetString("output")

	if path, _ := flags.GetString("config"); path != "" {
		if err := config.ApplyFile(flags, path); err != nil {
			return cfg, err
		}
	}

	cfg.Hostname, _ = flags.GetString("hostname")
	cfg.Port, _ = flags.GetInt("port")
	cfg.SSL, _ = flags.GetBool("ssl")
	if noSSL, _ := flags.GetBool("no-ssl"); noSSL {
		cfg.SSL = false
	}
	cfg.ImplicitTLS, _ = flags.GetBool("implicit-tls")
	cfg.TLSVerify, _ = flags.GetBool("tls-verify")
	cfg.Username, _ = flags.GetString("username")
	cfg.Password, _ = flags.GetString("password")
	cfg.Path, _ = flags.GetString("path")
	cfg.TotalWarning, _ = flags.GetString("total-warning")
	cfg.TotalCritical, _ = flags.GetString("total-critical")
	cfg.FilesWarning, _ = flags.GetString("fw")
	cfg.FilesCritical, _ = flags.GetString("fc")
	cfg.ExcludeDotEntries, _ = flags.GetBool("exclude-dot-entries")
	cfg.TimeoutSeconds, _ = flags.GetInt("timeout")
	cfg.Verbose, _ = flags.GetCount("verbose")
	cfg.Debug, _ = flags.GetBool("debug")
	cfg.Output, _ = flags.GetString("output")

	// Password from env if not provided via flag or config file
	if cfg.Password == "" {
		cfg.Password = os.Getenv(passwordEnv)
	}
	return cfg, nil
}

// setupLogging sends diagnostics to stderr so stdout only carries the
// plugin output.
func setupLogging(w io.Writer, verbose int, debug bool) {
	level := slog.LevelWarn
	switch {
	case debug || verbose >= 3:
		level = slog.LevelDebug
	case verbose == 2:
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}
