package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/canvas/internal/cli"
	"github.com/aretw0/canvas/internal/presentation/graph"
	"github.com/aretw0/canvas/internal/runtime"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the revision graph as Mermaid",
	Long: `Outputs a Mermaid diagram (graph TD) of the revision state machine.
With --session the path of that session's runs is highlighted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, _ := cmd.Flags().GetString("session")
		if sessionID == "" {
			fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(runtime.Graph(), nil))
			return nil
		}

		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := cli.Build(cmd.Context(), *cfg, logger)
		if err != nil {
			return err
		}
		defer st.Close()

		state, err := st.Sessions.Load(cmd.Context(), sessionID)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(st.Engine.Inspect(), graph.OverlayFromState(state)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("session", "", "Overlay the visited path of a stored session")
}
