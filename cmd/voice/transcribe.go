package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"voice-coding/internal/application"
	"voice-coding/internal/transcript"
)

func newTranscribeCmd(a *app) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "transcribe <file.wav>",
		Short: "Transcribe a recording and print the normalized text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading recording: %w", err)
			}

			normalize := transcript.Normalize
			if raw {
				normalize = func(s string) string { return s }
			}

			result, err := application.NewTranscriber(a.speechToText(), normalize, a.logger).
				Transcribe(cmd.Context(), data)
			if err != nil {
				return err
			}
			if !result.Delivered() {
				a.logger.Info("nothing to print", "reason", result.Skipped)
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), result.Text)
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "print the transcript without normalization")

	return cmd
}
