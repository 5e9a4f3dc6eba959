package cmd

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/grovetools/clueitems/catalogue"
	"github.com/grovetools/clueitems/cli"
	"github.com/grovetools/clueitems/config"
	"github.com/grovetools/clueitems/errors"
	"github.com/grovetools/clueitems/internal/daemon/collector"
	"github.com/grovetools/clueitems/internal/daemon/engine"
	"github.com/grovetools/clueitems/internal/daemon/event"
	"github.com/grovetools/clueitems/internal/daemon/pidfile"
	"github.com/grovetools/clueitems/internal/daemon/server"
	"github.com/grovetools/clueitems/pkg/paths"
)

// NewDaemonCmd returns the daemon command with subcommands.
func NewDaemonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run the progress daemon",
		Long: `The daemon consumes host events, keeps the collection log panel current
and serves it over a unix socket.`,
	}

	cmd.AddCommand(newDaemonStartCmd())
	cmd.AddCommand(newDaemonStopCmd())
	cmd.AddCommand(newDaemonStatusCmd())

	return cmd
}

type startFlags struct {
	tail      string
	recording string
	fromStart bool
	poll      bool
	ws        string
	record    bool
	noWatch   bool
}

// collectors returns the feeds selected by the flags.
func (f startFlags) collectors(profile string, settings *config.Manager) []collector.Collector {
	var cs []collector.Collector
	if f.tail != "" {
		tc := collector.NewTailCollector(f.tail, f.fromStart)
		if f.poll {
			tc = tc.WithPolling()
		}
		cs = append(cs, tc)
	}
	if f.ws != "" {
		cs = append(cs, collector.NewWebSocketCollector(f.ws))
	}
	if f.recording != "" {
		cs = append(cs, collector.NewFileCollector(f.recording, false))
	}
	if !f.noWatch {
		cs = append(cs, collector.NewConfigCollector(profile, settings, 0))
	}
	return cs
}

func newDaemonStartCmd() *cobra.Command {
	var flags startFlags

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the daemon",
		Long:  "Start the clueitems daemon in foreground mode.",
		Example: `  # Follow a host event log
  clueitems daemon start --tail ~/.runelite/clueitems/events.jsonl

  # Read events from a websocket bridge and record the session
  clueitems daemon start --ws ws://localhost:8765/events --record`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := cli.GetOptions(cmd)
			if err != nil {
				return err
			}
			if err := paths.EnsureDirs(); err != nil {
				return fmt.Errorf("failed to create directories: %w", err)
			}
			// The daemon always keeps a log file unless one is configured.
			if os.Getenv("CLUEITEMS_LOG_FILE") == "" {
				_ = os.Setenv("CLUEITEMS_LOG_FILE", paths.LogPath())
			}
			logger := cli.GetLogger(cmd, "clueitemsd")

			// 1. Acquire Lock
			pidPath := paths.PidFilePath()
			if err := pidfile.Acquire(pidPath); err != nil {
				return fmt.Errorf("failed to start: %w", err)
			}
			defer func() {
				if err := pidfile.Release(pidPath); err != nil {
					logger.Errorf("Failed to release pidfile: %v", err)
				}
			}()

			// 2. Open the profile and seed it from a settings document
			profile, closeProfile, err := openProfile(opts)
			if err != nil {
				return err
			}
			defer func() { _ = closeProfile() }()
			settings := config.NewManager(profile)

			if err := importSettings(opts.ConfigFile, settings); err != nil {
				return err
			}

			running := &server.RunningConfig{
				Profile:   opts.Profile,
				Store:     opts.Store,
				StartedAt: time.Now(),
			}

			var recorder *event.Writer
			if flags.record {
				running.Record = filepath.Join(paths.RecordingsDir(),
					fmt.Sprintf("session-%s.jsonl.zst", running.StartedAt.Format("20060102-150405")))
				recorder, err = event.Create(running.Record)
				if err != nil {
					return fmt.Errorf("failed to create recording: %w", err)
				}
				defer func() {
					if err := recorder.Close(); err != nil {
						logger.WithError(err).Warn("Failed to close recording")
					}
				}()
			}

			// 3. Setup Engine and collectors
			eng := engine.New(engine.Options{
				Catalogue: catalogue.Default(),
				Settings:  settings,
				Recorder:  recorder,
				Logger:    logger.WithField("component", "engine"),
			})
			collectors := flags.collectors(opts.Profile, settings)
			if len(collectors) == 0 {
				return errors.New(errors.ErrCodeInvalidInput, "no event feeds: pass --tail, --ws or --recording, or drop --no-watch")
			}
			for _, c := range collectors {
				eng.Register(c)
				running.Feeds = append(running.Feeds, c.Name())
			}

			// 4. Setup Server with engine
			srv := server.New(logger.WithField("component", "server"))
			srv.SetEngine(eng)
			srv.SetSettings(settings)
			srv.SetRunningConfig(running)

			// 5. Handle Signals
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// 6. Serve until a signal arrives or the feeds end
			logger.WithField("pid", os.Getpid()).WithField("feeds", running.Feeds).Info("Starting daemon")
			return serve(ctx, stop, logger, eng, srv, opts.Socket)
		},
	}

	cmd.Flags().StringVar(&flags.tail, "tail", "", "Follow a JSONL event log")
	cmd.Flags().BoolVar(&flags.fromStart, "from-start", false, "Read the followed log from its beginning")
	cmd.Flags().BoolVar(&flags.poll, "poll", false, "Poll the followed log instead of using file notifications")
	cmd.Flags().StringVar(&flags.ws, "ws", "", "Read events from a websocket URL")
	cmd.Flags().StringVar(&flags.recording, "recording", "", "Feed a recorded session once (.jsonl or .jsonl.zst)")
	cmd.Flags().BoolVar(&flags.record, "record", false, "Record every event to the recordings directory")
	cmd.Flags().BoolVar(&flags.noWatch, "no-watch", false, "Do not watch the profile for external changes")

	return cmd
}

// serve runs the engine and the socket server until ctx is done or every
// feed has ended, then stops both. It returns the engine's error.
func serve(ctx context.Context, stop context.CancelFunc, logger *logrus.Entry, eng *engine.Engine, srv *server.Server, socket string) error {
	engineDone := make(chan error, 1)
	go func() { engineDone <- eng.Run(ctx) }()
	serverDone := make(chan error, 1)
	go func() { serverDone <- srv.ListenAndServe(socket) }()

	var engineErr error
	select {
	case <-ctx.Done():
		logger.Info("Received stop signal")
		engineErr = <-engineDone
	case engineErr = <-engineDone:
		logger.Info("Event feeds ended")
		stop()
	case err := <-serverDone:
		stop()
		<-engineDone
		if err == nil || stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server shutdown error: %v", err)
	}
	if err := <-serverDone; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		logger.Errorf("Server error: %v", err)
	}

	if engineErr != nil {
		return fmt.Errorf("event feeds stopped: %w", engineErr)
	}
	return nil
}

func newDaemonStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the running daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			pidPath := paths.PidFilePath()

			running, pid, err := pidfile.IsRunning(pidPath)
			if err != nil {
				return fmt.Errorf("error checking status: %w", err)
			}

			if !running {
				fmt.Fprintln(cmd.OutOrStdout(), "Daemon is not running")
				return nil
			}

			process, err := os.FindProcess(pid)
			if err != nil {
				return fmt.Errorf("failed to find process %d: %w", pid, err)
			}

			if err := process.Signal(syscall.SIGTERM); err != nil {
				return fmt.Errorf("failed to send stop signal: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Sent SIGTERM to process %d\n", pid)
			return nil
		},
	}
}

func newDaemonStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check daemon status",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := cli.GetOptions(cmd)
			if err != nil {
				return err
			}

			running, pid, err := pidfile.IsRunning(paths.PidFilePath())
			if err != nil {
				return fmt.Errorf("error: %w", err)
			}

			if running {
				fmt.Fprintf(cmd.OutOrStdout(), "Running (PID: %d)\nSocket: %s\n", pid, opts.Socket)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Stopped")
				os.Exit(1) // Return non-zero for stopped state (useful for scripts)
			}
			return nil
		},
	}
}
