package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/saeidalz13/ocean-storm/config"
	"github.com/saeidalz13/ocean-storm/models/connection"
	"github.com/saeidalz13/ocean-storm/models/match"
	"github.com/saeidalz13/ocean-storm/render"
)

var playFlags struct {
	room  string
	relay string
	codec string
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a match in the terminal",
	Long: `Connects to a relay and starts a match. Without --room a new room is
opened and its id printed so the opponent can join with --room <id>.

` + helpText,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(func(cfg *config.Config) {
			flags := cmd.Flags()
			if flags.Changed("relay") {
				cfg.RelayURL = playFlags.relay
			}
			if flags.Changed("codec") {
				cfg.Codec = playFlags.codec
			}
		})
		if err != nil {
			return err
		}

		codec, err := connection.CodecByName(cfg.Codec)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return play(ctx, cfg, codec, playFlags.room, os.Stdin, os.Stdout)
	},
}

func init() {
	flags := playCmd.Flags()
	flags.StringVar(&playFlags.room, "room", "", "room id to join; empty opens a new room")
	flags.StringVar(&playFlags.relay, "relay", "", "relay websocket url")
	flags.StringVar(&playFlags.codec, "codec", connection.CodecNameJSON, "wire codec: json or msgpack, must match the opponent")

	rootCmd.AddCommand(playCmd)
}

func play(ctx context.Context, cfg *config.Config, codec connection.Codec, roomID string, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	transport := connection.NewWsTransport(cfg.RelayURL, roomID, codec)
	transport.OnRoomAssigned(func(id string) {
		fmt.Fprintf(out, "room %s opened, waiting for an opponent to join with --room %s\n", id, id)
	})

	text := render.NewText(out)
	// whoever opens the room breaks a tie on the first shot
	session, err := match.NewSession(transport, text, match.WithHost(roomID == ""))
	if err != nil {
		return err
	}
	loop := match.NewLoop(session)

	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	if cfg.PlayerName != "" {
		fmt.Fprintf(out, "welcome %s\n", cfg.PlayerName)
	}
	fmt.Fprintln(out, helpText)
	_ = text.Show()

	lines := scanLines(ctx, in)
	for {
		select {
		case err := <-done:
			return err

		case line, ok := <-lines:
			if !ok {
				cancel()
				return <-done
			}

			cmd, err := parseCommand(line, text)
			if err == errEmptyCommand {
				continue
			}
			if err != nil {
				fmt.Fprintln(out, err)
				continue
			}

			if !loop.Submit(cmd.action) {
				fmt.Fprintf(out, "%s not possible right now (%s)\n", cmd.name, phaseOf(loop))
			}
			if cmd.quit {
				cancel()
				return <-done
			}
		}
	}
}

// scanLines feeds input lines until in is exhausted or ctx is done.
// The channel is closed when the reader goroutine returns.
func scanLines(ctx context.Context, in io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}

func phaseOf(loop *match.Loop) match.Phase {
	var phase match.Phase
	loop.Submit(func(s *match.Session) bool {
		phase = s.Phase()
		return true
	})
	return phase
}
