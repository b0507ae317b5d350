package cmd

import (
	"fmt"
	"github.com/ValentinKolb/ephemeral/cmd/path"
	"github.com/ValentinKolb/ephemeral/cmd/serve"
	"github.com/ValentinKolb/ephemeral/cmd/util"
	"github.com/spf13/cobra"
	"os"
)

const (
	Version = "0.3.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "ephemeral",
		Short: "in-memory path store",
		Long: fmt.Sprintf(`ephemeral (v%s)

An in-memory store of hierarchical paths served over a line protocol.
Every request line has the form "VERB /path PROTOCOL", e.g. "GET /a/b HTTP/1.1",
and is answered with a single reply line.`, Version),
		SilenceUsage: true,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of ephemeral",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("ephemeral v%s\n", Version)
		},
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add Commands
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(path.PathCommands)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "reply-format"
	RootCmd.PersistentFlags().String(key, "text", util.WrapString("format of the reply lines (text, json). Client and server must use the same format"))
	key = "transport"
	RootCmd.PersistentFlags().String(key, "tcp", util.WrapString("transport to use (tcp, unix)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
