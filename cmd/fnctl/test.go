package main

import (
	"fmt"
	"os"

	"github.com/eagraf/fnconsole/internal/testevent"
	"github.com/spf13/cobra"
)

var testCmd = &cobra.Command{
	Use:   "test <function>",
	Short: "Run a test event through an installed function",
	Long:  `Run a test event through an installed function. Without --event the sample event is sent.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eventFile, _ := cmd.Flags().GetString("event")
		rawHeaders, _ := cmd.Flags().GetStringArray("header")
		headers, err := parseHeaders(rawHeaders)
		if err != nil {
			return err
		}

		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		card, err := s.card(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		harness := testevent.New(card)
		harness.Open()
		if eventFile != "" {
			content, err := os.ReadFile(eventFile)
			if err != nil {
				return fmt.Errorf("reading event: %w", err)
			}
			harness.SetContent(string(content))
		}
		for k, v := range headers {
			harness.SetHeader(k, v)
		}

		res, err := harness.Run(cmd.Context())
		if err != nil {
			return err
		}
		return renderJSON(cmd.OutOrStdout(), res)
	},
}

func init() {
	testCmd.Flags().String("event", "", "File holding the event content")
	testCmd.Flags().StringArray("header", nil, "Event header as key=value, repeatable")

	rootCmd.AddCommand(testCmd)
}
