package main

import (
	"fmt"

	"github.com/eagraf/fnconsole/internal/clone"
	"github.com/eagraf/fnconsole/internal/config"
	"github.com/spf13/cobra"
)

var cloneCmd = &cobra.Command{
	Use:   "clone [kind]",
	Short: "Print how to clone an example repository",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rawProtocol, _ := cmd.Flags().GetString("protocol")
		protocol, err := clone.ParseProtocol(rawProtocol)
		if err != nil {
			return err
		}

		cfg, err := config.NewConfig()
		if err != nil {
			return err
		}
		dialog := clone.New(cfg.CloneRepositories())

		out := cmd.OutOrStdout()
		if len(args) == 0 {
			for _, kind := range dialog.Kinds() {
				fmt.Fprintln(out, kind)
			}
			return nil
		}

		command, err := dialog.Command(args[0], protocol)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, command)

		download, err := dialog.DownloadURL(args[0])
		if err == nil {
			fmt.Fprintf(out, "Download ZIP: %s\n", download)
		}
		return nil
	},
}

func init() {
	cloneCmd.Flags().String("protocol", "https", "Clone over https or ssh")

	rootCmd.AddCommand(cloneCmd)
}
