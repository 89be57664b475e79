package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"voice-coding/internal/memory"
)

func newMemoryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "memory",
		Short: "Show which vocabulary memory file would prime transcription",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return err
			}
			home, _ := os.UserHomeDir()

			content, path, err := memory.Load(cwd, home)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if path == "" {
				fmt.Fprintf(out, "no memory file found (create %s or ./%s/%s)\n",
					memory.GlobalPath(home), memory.DirName, memory.FileName)
				return nil
			}
			fmt.Fprintf(out, "%s (%d bytes)\n", path, len(content))
			a.logger.Debug("memory file resolved", "path", path)
			return nil
		},
	}
}
