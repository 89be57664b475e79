package main

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"voice-coding/internal/application"
	"voice-coding/internal/capture"
	"voice-coding/internal/infra/audio"
	"voice-coding/internal/infra/clipboard"
)

func newDictateCmd(a *app) *cobra.Command {
	var printOnly, copyOnly bool

	cmd := &cobra.Command{
		Use:   "dictate",
		Short: "Push-to-talk dictation: Enter starts and stops recording",
		Long: "Press Enter to start recording and Enter again to stop. The recording is transcribed, " +
			"normalized and pasted into the focused window.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg

			session := capture.NewSession(audio.NewMicrophone(a.logger), a.logger,
				capture.WithFormat(capture.Format{
					SampleRate:      cfg.Audio.SampleRate,
					Channels:        cfg.Audio.Channels,
					FramesPerBuffer: cfg.Audio.FramesPerBuffer,
				}),
				capture.WithMinDuration(cfg.MinDuration()),
			)

			var output application.Output
			if printOnly || !cfg.PasteEnabled() {
				output = application.NewPrinter(cmd.OutOrStdout())
			} else {
				output = clipboard.NewPaster(cfg.PasteDelay(), !copyOnly, cfg.Output.RestoreClipboard, a.logger)
			}

			var opts []application.DictationOption
			if cfg.Audio.ArchiveDir != "" {
				opts = append(opts, application.WithArchiver(audio.NewArchive(cfg.Audio.ArchiveDir)))
			}

			dictation := application.NewDictation(session, a.speechToText(), output, a.notifier(), a.logger, opts...)

			fmt.Fprintln(cmd.ErrOrStderr(), "Press Enter to start recording, Enter again to stop. Ctrl+C quits.")
			return ignoreCanceled(dictation.Run(cmd.Context(), lines(cmd.Context(), cmd.InOrStdin())))
		},
	}

	cmd.Flags().BoolVar(&printOnly, "print", false, "print text to stdout instead of pasting it")
	cmd.Flags().BoolVar(&copyOnly, "copy", false, "copy text to the clipboard without sending the paste keystroke")

	return cmd
}

// lines emits one toggle per line read from r and closes the channel at EOF.
func lines(ctx context.Context, r io.Reader) <-chan struct{} {
	ch := make(chan struct{})
	go func() {
		defer close(ch)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case ch <- struct{}{}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}
