package main

import (
	"fmt"
	"strings"

	"github.com/eagraf/fnconsole/internal/details"
	"github.com/spf13/cobra"
)

func loadDetails(cmd *cobra.Command, name string) (*details.View, error) {
	s, err := newSession(cmd)
	if err != nil {
		return nil, err
	}
	card, err := s.card(cmd.Context(), name)
	if err != nil {
		return nil, err
	}
	view := details.New(card, s.gateway)
	err = view.Load(cmd.Context())
	if err != nil {
		return nil, err
	}
	return view, nil
}

var detailsCmd = &cobra.Command{
	Use:   "details <function>",
	Short: "Show a function's versions, source tree and readme",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		readme, _ := cmd.Flags().GetBool("readme")
		view, err := loadDetails(cmd, args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		versions := view.Versions()
		if len(versions) == 0 {
			versions = []string{view.SelectedVersion()}
		}
		fmt.Fprintf(out, "Versions: %s\n\n", strings.Join(versions, ", "))
		renderTree(out, view.Tree())
		if readme {
			fmt.Fprintf(out, "\n%s\n", view.Readme())
		}
		return nil
	},
}

var catCmd = &cobra.Command{
	Use:   "cat <function> <path or key>",
	Short: "Print a source file of a function",
	Long:  `Print a source file of a function, addressed by its path or by the key shown in the details tree.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		view, err := loadDetails(cmd, args[0])
		if err != nil {
			return err
		}

		content, err := view.SelectPath(cmd.Context(), args[1])
		if err != nil {
			content, err = view.SelectFile(cmd.Context(), args[1])
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), content)
		return nil
	},
}

func init() {
	detailsCmd.Flags().Bool("readme", false, "Also print the readme")

	rootCmd.AddCommand(detailsCmd, catCmd)
}
