package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tacogips/headsync/internal/app"
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify <destination>",
	Short: "Check a downloaded directory against its manifest",
	Long: `Re-hash every file listed in the destination's manifest and report
files that changed or disappeared. Exits with an error when any did.

Examples:
  headsync verify ./project-configuration
  headsync verify ./out --manifest XXH3`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

// Verify command flags
var (
	verifyManifest string
	verifyFormat   string
)

func init() {
	verifyCmd.Flags().StringVar(&verifyManifest, FlagManifest, "", DescManifest)
	verifyCmd.Flags().StringVar(&verifyFormat, FlagFormat, FormatText, DescFormat)
}

func runVerify(cmd *cobra.Command, args []string) error {
	if err := validateFormat(verifyFormat); err != nil {
		return err
	}

	result, err := app.Verify(app.VerifyOptions{
		Env:         app.Env{Config: loadedConfig},
		Destination: args[0],
		Manifest:    verifyManifest,
	})
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if handled, err := writeStructured(w, verifyFormat, result); handled {
		if err != nil {
			return err
		}
	} else {
		for _, p := range result.Mismatched {
			fmt.Fprintf(w, "MISMATCH %s\n", p)
		}
		for _, p := range result.Missing {
			fmt.Fprintf(w, "MISSING  %s\n", p)
		}
	}

	if !result.Clean() {
		return fmt.Errorf("%d of %d files failed verification", len(result.Mismatched)+len(result.Missing),
			len(result.OK)+len(result.Mismatched)+len(result.Missing))
	}
	if verifyFormat == FormatText {
		printSuccess(fmt.Sprintf("%d files match %s", len(result.OK), result.ManifestPath))
	}
	return nil
}
