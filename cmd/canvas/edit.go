package main

import (
	"os"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aretw0/canvas/internal/cli"
	"github.com/aretw0/canvas/internal/presentation/tui"
	"github.com/aretw0/canvas/pkg/domain"
)

var editCmd = &cobra.Command{
	Use:   "edit <file.md>",
	Short: "Revise a markdown file interactively",
	Long: `Runs one revision against a markdown file: either a theme rewrite
(--op language|format|copyedit) or an edit of a selection (--select).
The proposed change is shown as a colored diff and written back once approved.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		op, _ := cmd.Flags().GetString("op")
		selection, _ := cmd.Flags().GetString("select")
		request, _ := cmd.Flags().GetString("message")
		sessionID, _ := cmd.Flags().GetString("session")
		yes, _ := cmd.Flags().GetBool("yes")
		noRender, _ := cmd.Flags().GetBool("no-render")

		// Theme rewrites from the CLI are reviewed like highlight edits.
		if review, _ := cmd.Flags().GetBool("review"); review {
			cfg.Engine.ThemeApproval = true
		}

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		st, err := cli.Build(sigCtx, *cfg, logger)
		if err != nil {
			return err
		}
		defer st.Close()

		opts := cli.EditOptions{
			Path:        args[0],
			Operation:   domain.Operation(op),
			Selection:   selection,
			Request:     request,
			SessionID:   sessionID,
			AutoApprove: yes,
			Input:       os.Stdin,
			Output:      cmd.OutOrStdout(),
			Profile:     termenv.Ascii,
		}

		if term.IsTerminal(int(os.Stdout.Fd())) {
			opts.Profile = termenv.EnvColorProfile()
			tui.PrintBanner(cmd.ErrOrStderr())
			if !noRender {
				width, _, err := term.GetSize(int(os.Stdout.Fd()))
				if err != nil {
					width = 0
				}
				if render, err := tui.NewRenderer(width); err == nil {
					opts.Render = render
				}
			}
		}

		_, err = cli.Edit(sigCtx, st, opts)
		return err
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().String("op", "", "Theme operation: language, format or copyedit")
	editCmd.Flags().String("select", "", "Exact text to rewrite")
	editCmd.Flags().StringP("message", "m", "", "What to change, in natural language")
	editCmd.Flags().String("session", "", "Keep the revision history in the configured store under this session ID")
	editCmd.Flags().BoolP("yes", "y", false, "Approve the proposal without asking")
	editCmd.Flags().Bool("review", true, "Ask for approval of theme rewrites too")
	editCmd.Flags().Bool("no-render", false, "Skip the rendered preview of the result")
}
