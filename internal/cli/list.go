package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tacogips/headsync/internal/app"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list <owner/repo>",
	Short: "List the files a download would fetch",
	Long: `List the repository tree in the order a download fetches it.

Examples:
  headsync list radium/project-configuration
  headsync list radium/project-configuration --path nitpick
  headsync list radium/project-configuration --format yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

// List command flags
var (
	listPath   string
	listFormat string
)

func init() {
	listCmd.Flags().StringVar(&listPath, FlagPath, "", DescPath)
	listCmd.Flags().StringVar(&listFormat, FlagFormat, FormatText, DescFormat)
}

func runList(cmd *cobra.Command, args []string) error {
	if err := validateFormat(listFormat); err != nil {
		return err
	}

	tree, err := app.List(cmd.Context(), app.ListOptions{
		Env:        app.Env{Config: loadedConfig},
		Repository: args[0],
		Path:       listPath,
	})
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if handled, err := writeStructured(w, listFormat, tree); handled {
		return err
	}
	for _, f := range tree.Files {
		fmt.Fprintln(w, f)
	}
	return nil
}
