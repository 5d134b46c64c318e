package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/nmeacheck/internal/app"
	"github.com/bft-labs/nmeacheck/internal/cliconfig"
	"github.com/bft-labs/nmeacheck/pkg/log"
)

var longHelp = strings.TrimSpace(`
nmeacheck reads NMEA sentences from one serial device or file and verifies
their checksums. Valid sentences are forwarded unchanged to the output device
or file; every sentence can additionally be written to audit logs
(<prefix>_all.log, <prefix>_ok.log, <prefix>_wrong.log).

Lines without '$' and '*' are dropped. Output devices may be '/dev/ptmx';
the pseudo-terminal slave path is logged on startup.

Configuration is read from the config file, then NMEACHECK_* environment
variables, then flags; later sources win.
`)

var exampleUsage = strings.TrimSpace(`
  nmeacheck -d -t /dev/ttyUSB0 /dev/ttyUSB1
  nmeacheck --follow track.nmea /dev/ptmx
  nmeacheck --config $HOME/.nmeacheck/config.toml
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	zl, _ := log.NewConsoleLogger(cliconfig.DefaultLogLevel)

	root := &cobra.Command{
		Use:           "nmeacheck [flags] INPUT [OUTPUT]",
		Short:         "Verify NMEA checksums and forward valid sentences",
		Long:          longHelp,
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if len(args) > 0 {
				cfg.Input = args[0]
				changed["input"] = true
			}
			if len(args) > 1 {
				cfg.Output = args[1]
				changed["output"] = true
			}

			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}
			if cfgFile != "" && (cfgPath != "" || cliconfig.FileExists(cfgFile)) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := log.NewConsoleLogger(cfg.LogLevel)
			if err != nil {
				return err
			}
			zl = logger

			zl.Info().Str("version", getVersion()).Interface("config", cfg).Msg("nmeacheck")

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return app.Run(ctx, cfg, app.Options{
				Logger:  log.NewZerologAdapter(zl),
				Console: os.Stdout,
			})
		},
	}

	root.SetArgs(args)

	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.nmeacheck/config.toml)")

	root.Flags().BoolVarP(&cfg.Audit, "audit", "d", cfg.Audit, "log all data to <prefix>_[all|ok|wrong].log")
	root.Flags().BoolVarP(&cfg.Timestamp, "timestamp", "t", cfg.Timestamp, "include timestamp in log data (never in output)")
	root.Flags().StringVar(&cfg.AuditDir, "audit-dir", cfg.AuditDir, "directory for audit logs")
	root.Flags().StringVar(&cfg.AuditPrefix, "audit-prefix", cfg.AuditPrefix, "audit log file name prefix")
	root.Flags().IntVar(&cfg.AuditMaxSizeMB, "audit-max-size", cfg.AuditMaxSizeMB, "rotate audit logs at this size in MB (0 disables rotation)")
	root.Flags().IntVar(&cfg.AuditMaxBackups, "audit-max-backups", cfg.AuditMaxBackups, "rotated audit logs to keep (0 keeps all)")

	root.Flags().IntVar(&cfg.Baud, "baud", cfg.Baud, "baud rate for device input/output")
	root.Flags().BoolVar(&cfg.Follow, "follow", cfg.Follow, "keep reading a file input as it grows instead of exiting at end of file")
	root.Flags().DurationVar(&cfg.FollowPoll, "follow-poll", cfg.FollowPoll, "re-read interval in follow mode when no change is reported")
	root.Flags().StringVar(&cfg.Overflow, "overflow", cfg.Overflow, "over-long lines: split (excess starts next line) or discard (drop excess up to line feed)")
	root.Flags().IntVar(&cfg.MaxLine, "max-line", cfg.MaxLine, "maximum stored bytes per line")

	root.Flags().StringVar(&cfg.StatsFile, "stats-file", cfg.StatsFile, "write final counters as JSON to this path")
	root.Flags().BoolVarP(&cfg.Quiet, "quiet", "q", cfg.Quiet, "do not print the per-sentence trace to stdout")
	root.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "diagnostic log level (debug, info, warn, error)")
	if err := root.Flags().MarkHidden("follow-poll"); err != nil {
		zl.Info().Err(err).Msg("failed to hide follow-poll flag")
	}

	if err := root.Execute(); err != nil {
		zl.Error().Err(err).Msg("nmeacheck")
		return 1
	}
	return 0
}
