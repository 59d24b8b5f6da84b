package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tacogips/headsync/internal/app"
	"github.com/tacogips/headsync/internal/config"
)

// headCmd represents the head command
var headCmd = &cobra.Command{
	Use:   "head <owner/repo>",
	Short: "Print the commit HEAD points to",
	Long: `Resolve a repository's HEAD the same way download does.

Examples:
  headsync head radium/project-configuration
  headsync head octocat/Hello-World --forge github --head-source api`,
	Args: cobra.ExactArgs(1),
	RunE: runHead,
}

// Head command flags
var (
	headShort      bool
	headHeadSource string
)

func init() {
	headCmd.Flags().BoolVar(&headShort, "short", false, "Print the abbreviated commit id")
	headCmd.Flags().StringVar(&headHeadSource, FlagHeadSource, config.DefaultHeadSource, DescHeadSource)
}

func runHead(cmd *cobra.Command, args []string) error {
	ref, err := app.ResolveHead(cmd.Context(), app.HeadOptions{
		Env:        app.Env{Config: loadedConfig},
		Repository: args[0],
	})
	if err != nil {
		return err
	}

	if headShort {
		fmt.Fprintln(cmd.OutOrStdout(), ref.Short())
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), ref)
	return nil
}
