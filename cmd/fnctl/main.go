package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const version = "v0.1.0"

var rootCmd = &cobra.Command{
	Use:           "fnctl",
	Short:         "fnctl - browse, install and test functions",
	Long:          `fnctl lists the functions known to the backend, installs, updates and uninstalls them, shows their source and runs test events through them.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	Run: func(cmd *cobra.Command, args []string) {
		if versionFlag, _ := cmd.Flags().GetBool("version"); versionFlag {
			fmt.Println(version)
			return
		}
		cmd.Help()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of fnctl",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")

	rootCmd.PersistentFlags().String("api-url", "", "Backend API URL")
	rootCmd.PersistentFlags().String("token", "", "Bearer token for the backend")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("poll", false, "Poll the function list instead of subscribing to the event stream")

	flagKeys := map[string]string{
		"api-url":   "api_url",
		"token":     "auth_token",
		"log-level": "log_level",
	}
	for flag, key := range flagKeys {
		err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag))
		if err != nil {
			panic(err)
		}
	}
}

func main() {
	// ctx.Done() returns when SIGINT is received.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		cancel()
		os.Exit(1)
	}
}
