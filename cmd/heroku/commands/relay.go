package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fivetwenty-io/heroku-client/internal/constants"
	herokuhttp "github.com/fivetwenty-io/heroku-client/internal/http"
	"github.com/fivetwenty-io/heroku-client/internal/relay"
	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewRelayCommand creates the relay command group.
func NewRelayCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "relay",
		Short: "Run a NATS relay",
		Long:  "Forward Heroku requests received over NATS to the Heroku APIs",
	}

	cmd.AddCommand(newRelayServeCommand())

	return cmd
}

func newRelayServeCommand() *cobra.Command {
	var queue string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve relay requests",
		Long:  "Subscribe to the relay subject and perform each request with the HTTP dispatcher until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()
			if config.RelayURL == "" {
				return constants.ErrRelayURLRequired
			}

			logger := newLogger(cmd.ErrOrStderr())
			defer func() { _ = logger.Sync() }()

			conn, err := nats.Connect(config.RelayURL,
				nats.Name("heroku-relay"),
				nats.DrainTimeout(constants.RelayDrainTimeout),
			)
			if err != nil {
				return fmt.Errorf("failed to connect to NATS: %w", err)
			}
			defer conn.Close()

			dispatcher := herokuhttp.NewDispatcher(
				herokuhttp.WithLogger(logger),
				herokuhttp.WithDebug(viper.GetBool("verbose")),
				herokuhttp.WithTimeout(constants.DefaultHTTPTimeout),
			)

			server, err := relay.NewServer(conn, dispatcher, config.RelaySubject, queue, logger)
			if err != nil {
				return err
			}

			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}

			ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
			defer stop()

			return server.Serve(ctx)
		},
	}

	cmd.Flags().StringVar(&queue, "queue", constants.DefaultRelayQueue, "NATS queue group shared by relay servers")

	return cmd
}
