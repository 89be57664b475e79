package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"voice-coding/config"
	"voice-coding/internal/application"
	"voice-coding/internal/infra/desktop"
	"voice-coding/internal/infra/openai"
	"voice-coding/internal/infra/pushover"
	"voice-coding/internal/memory"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	configPath string
	cfg        *config.Config
	logger     *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "voice",
		Short:        "Dictate code by voice",
		Long:         "Push-to-talk dictation for programmers: record, transcribe, turn spoken symbols and casing commands into code, and paste.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = setupLogger(cfg.Log, cmd.ErrOrStderr())
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", config.DefaultPath, "path to config file")

	root.AddCommand(newDictateCmd(a))
	root.AddCommand(newNormalizeCmd())
	root.AddCommand(newTranscribeCmd(a))
	root.AddCommand(newServeCmd(a))
	root.AddCommand(newMemoryCmd(a))
	root.AddCommand(newDevicesCmd())

	return root
}

// speechToText builds the Whisper client, primed with the vocabulary memory
// file when one is found.
func (a *app) speechToText() application.SpeechToText {
	if a.cfg.OpenAI.APIKey == "" {
		a.logger.Warn("no OpenAI API key configured, transcription disabled")
		return &application.NoopSTT{}
	}

	client := openai.NewWhisperClientWithURL(
		a.cfg.OpenAI.APIKey,
		a.cfg.OpenAI.Model,
		a.cfg.OpenAI.Language,
		a.cfg.OpenAI.BaseURL,
	)

	cwd, _ := os.Getwd()
	home, _ := os.UserHomeDir()
	content, path, err := memory.Load(cwd, home)
	switch {
	case err != nil:
		a.logger.Warn("loading memory file", "error", err)
	case path != "":
		client.SetPrompt(content)
		a.logger.Debug("using memory file as prompt", "path", path)
	}
	return client
}

func (a *app) notifier() application.Notifier {
	var notifiers application.MultiNotifier
	if a.cfg.Notify.Desktop {
		notifiers = append(notifiers, desktop.NewNotifier(""))
	}
	if p := a.cfg.Notify.Pushover; p.Enabled {
		notifiers = append(notifiers, pushover.NewClient(p.Token, p.UserKey))
	}
	if len(notifiers) == 0 {
		return &application.NoopNotifier{}
	}
	return notifiers
}

// ignoreCanceled treats an interrupt as a clean exit.
func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func setupLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}
