package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"voice-coding/internal/transcript"
)

func newNormalizeCmd() *cobra.Command {
	var listRules bool

	cmd := &cobra.Command{
		Use:   "normalize [text...]",
		Short: "Apply casing commands and spoken-symbol rules to text",
		Long:  "Normalizes the arguments joined by spaces, or each line of stdin when no arguments are given.",
		Example: `  voice normalize camel case user id double equals five
  echo "snake case max retries equals three" | voice normalize`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if listRules {
				for _, r := range transcript.Rules() {
					fmt.Fprintf(out, "%-16s %q\n", r.Phrase, r.Literal)
				}
				return nil
			}

			if len(args) > 0 {
				fmt.Fprintln(out, transcript.Normalize(strings.Join(args, " ")))
				return nil
			}

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				fmt.Fprintln(out, transcript.Normalize(scanner.Text()))
			}
			return scanner.Err()
		},
	}

	cmd.Flags().BoolVar(&listRules, "rules", false, "list the spoken-symbol rules in the order they apply")

	return cmd
}
