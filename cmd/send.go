package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/grovetools/clueitems/catalogue"
	"github.com/grovetools/clueitems/cli"
	"github.com/grovetools/clueitems/errors"
	"github.com/grovetools/clueitems/internal/daemon/event"
	"github.com/grovetools/clueitems/pkg/daemon"
)

// NewSendCmd returns the send command.
func NewSendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send <event-json | ->",
		Short: "Deliver host events to the running daemon",
		Long: `Deliver one event given as JSON, or one event per line from stdin when the
argument is "-".`,
		Example: `  clueitems send '{"type":"game_state","state":"LOGGED_IN"}'
  clueitems send '{"type":"container","container_id":95,"items":[{"id":1635,"quantity":1}]}'
  cat session.jsonl | clueitems send -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := cli.GetOptions(cmd)
			if err != nil {
				return err
			}

			client := daemon.NewRemoteClient(opts.Socket)
			defer client.Close()
			if !client.IsRunning() {
				return daemon.ErrNotRunning
			}

			var in io.Reader = strings.NewReader(args[0])
			if args[0] == "-" {
				in = cmd.InOrStdin()
			}
			sent, err := sendLines(cmd, client, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Sent %d event(s)\n", sent)
			return nil
		},
	}
}

func sendLines(cmd *cobra.Command, client daemon.Client, in io.Reader) (int, error) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	sent, line := 0, 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		ev, err := event.Decode([]byte(text))
		if err != nil {
			return sent, errors.EventDecode("input", line, err)
		}
		if err := client.Submit(cmd.Context(), ev); err != nil {
			return sent, err
		}
		sent++
	}
	return sent, scanner.Err()
}

// NewHighlightCmd returns the highlight command.
func NewHighlightCmd() *cobra.Command {
	var events string

	cmd := &cobra.Command{
		Use:   "highlight <interface> <item-id>",
		Short: "Report whether an item is marked in an interface",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := cli.GetOptions(cmd)
			if err != nil {
				return err
			}

			kind, err := catalogue.ParseInterfaceKind(args[0])
			if err != nil {
				return errors.Wrap(err, errors.ErrCodeInvalidInput, "invalid interface")
			}
			itemID, err := strconv.Atoi(args[1])
			if err != nil {
				return errors.Wrap(err, errors.ErrCodeInvalidInput, "invalid item id")
			}

			profile, closeProfile, err := openProfile(opts)
			if err != nil {
				return err
			}
			defer func() { _ = closeProfile() }()

			cat := catalogue.Default()
			client := daemon.New(opts.Socket, func() daemon.Client {
				return daemon.NewLocalClient(cat, profile, events)
			})
			defer client.Close()

			highlight, err := client.Highlight(cmd.Context(), kind, itemID)
			if err != nil {
				return err
			}

			if opts.JSONOutput {
				return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
					"interface": kind.String(),
					"item":      itemID,
					"highlight": highlight,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), highlight)
			return nil
		},
	}

	cmd.Flags().StringVar(&events, "events", "", "Recorded session to replay when the daemon is not running")
	return cmd
}
