package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"voice-coding/internal/infra/audio"
)

func newDevicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List audio input devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			devices, err := audio.ListInputDevices()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, d := range devices {
				marker := " "
				if d.Default {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %s [%s] %d ch @ %.0f Hz\n", marker, d.Name, d.HostAPI, d.Channels, d.SampleRate)
			}
			return nil
		},
	}
}
