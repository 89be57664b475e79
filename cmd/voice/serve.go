package main

import (
	"github.com/spf13/cobra"

	"voice-coding/internal/application"
	"voice-coding/internal/server"
	"voice-coding/internal/transcript"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the normalizer and transcription over a local HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := server.Options{
				Addr:      a.cfg.Server.Addr,
				AuthToken: a.cfg.Server.AuthToken,
				RateLimit: a.cfg.Server.RateLimit,
			}
			if addr != "" {
				opts.Addr = addr
			}

			transcriber := application.NewTranscriber(a.speechToText(), transcript.Normalize, a.logger)
			srv := server.New(opts, transcriber, transcript.Normalize, a.logger)

			ctx := cmd.Context()
			if err := srv.Start(ctx); err != nil {
				return err
			}
			<-ctx.Done()
			a.logger.Info("shutting down")
			return srv.Stop()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")

	return cmd
}
