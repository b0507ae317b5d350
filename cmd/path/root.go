package path

import (
	"github.com/ValentinKolb/ephemeral/cmd/util"
	"github.com/ValentinKolb/ephemeral/rpc/client"
	"github.com/ValentinKolb/ephemeral/rpc/common"
	"github.com/spf13/cobra"
)

var (
	pathClient client.IPathClient

	// PathCommands represents the path command group
	PathCommands = &cobra.Command{
		Use:                "path",
		Short:              "Perform path operations against an ephemeral server",
		PersistentPreRunE:  setupPathClient,
		PersistentPostRunE: closePathClient,
	}
)

func init() {
	// Add common RPC flags to the path command
	util.SetupRPCClientFlags(PathCommands)

	// Add subcommands
	PathCommands.AddCommand(getCmd)
	PathCommands.AddCommand(postCmd)
	PathCommands.AddCommand(deleteCmd)
	PathCommands.AddCommand(headCmd)
	PathCommands.AddCommand(rawCmd)
	PathCommands.AddCommand(perfTestCmd)
}

// setupPathClient initializes the RPC path client
func setupPathClient(cmd *cobra.Command, _ []string) error {
	// Only warnings, the command output goes to stdout as well
	if err := common.InitLoggers("warn"); err != nil {
		return err
	}

	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	// Get client configuration components
	config := util.GetClientConfig()

	// Get serializer and transport
	s, err := util.GetSerializer()
	if err != nil {
		return err
	}

	t, err := util.GetTransport()
	if err != nil {
		return err
	}

	// Create the path client
	pathClient, err = client.NewRPCClient(
		*config,
		t,
		s,
	)

	return err
}

func closePathClient(_ *cobra.Command, _ []string) error {
	if pathClient == nil {
		return nil
	}
	return pathClient.Close()
}
