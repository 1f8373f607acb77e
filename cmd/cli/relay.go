package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/saeidalz13/ocean-storm/api"
	"github.com/saeidalz13/ocean-storm/config"
	"github.com/saeidalz13/ocean-storm/db"
	"github.com/saeidalz13/ocean-storm/models/connection"
)

var relayFlags struct {
	port        int
	stage       string
	codec       string
	databaseURL string
}

var relayCmd = &cobra.Command{
	Use:   "relay",
	Short: "Run the relay server",
	Long: `Runs the websocket relay. A player connecting without a room id opens a
room and is told its id; the second player joins with ?room=<id>. Frames are
forwarded as they are. With a database configured, rooms and paired matches
are counted per server address.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(func(cfg *config.Config) {
			flags := cmd.Flags()
			if flags.Changed("port") {
				cfg.Port = relayFlags.port
			}
			if flags.Changed("stage") {
				cfg.Stage = relayFlags.stage
			}
			if flags.Changed("codec") {
				cfg.Codec = relayFlags.codec
			}
			if flags.Changed("database-url") {
				cfg.DatabaseURL = relayFlags.databaseURL
			}
		})
		if err != nil {
			return err
		}

		codec, err := connection.CodecByName(cfg.Codec)
		if err != nil {
			return err
		}

		opts := []api.Option{
			api.WithPort(cfg.Port),
			api.WithStage(cfg.Stage),
			api.WithCodec(codec),
		}
		if cfg.DatabaseURL != "" {
			psql := db.MustConnectToDb(cfg.DatabaseURL, cfg.MigrationDir)
			defer psql.Close()
			opts = append(opts, api.WithDb(psql))
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return api.NewServer(opts...).ListenAndServe(ctx)
	},
}

func init() {
	flags := relayCmd.Flags()
	flags.IntVar(&relayFlags.port, "port", 8000, "port to listen on")
	flags.StringVar(&relayFlags.stage, "stage", config.StageDev, "dev or prod")
	flags.StringVar(&relayFlags.codec, "codec", connection.CodecNameJSON, "wire codec: json or msgpack")
	flags.StringVar(&relayFlags.databaseURL, "database-url", "", "postgres url for analytics")

	rootCmd.AddCommand(relayCmd)
}
