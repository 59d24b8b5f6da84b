package cli

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/tacogips/headsync/internal/app"
	"github.com/tacogips/headsync/internal/config"
	"github.com/tacogips/headsync/internal/repo/download"
	"github.com/tacogips/headsync/internal/repo/model"
)

// downloadCmd represents the download command
var downloadCmd = &cobra.Command{
	Use:   "download <owner/repo> <destination>",
	Short: "Download a repository at HEAD and write its manifest",
	Long: `Download every file of a repository at its HEAD commit.

The remote tree is listed breadth-first, HEAD is resolved once, and the files
are fetched by a fixed number of workers. After every file is written, a
manifest with one hash per file is written into the destination.

Examples:
  headsync download radium/project-configuration ./project-configuration
  headsync download radium/project-configuration ./out -c 8
  headsync download https://gitea.radium.group/radium/project-configuration.git ./out --force
  headsync download octocat/Hello-World ./hello --forge github --format json`,
	Args: cobra.ExactArgs(2),
	RunE: runDownload,
}

// Download command flags
var (
	downloadConcurrency int
	downloadForce       bool
	downloadFormat      string
	downloadStrict      bool
	downloadAlgorithm   string
	downloadHeadSource  string
)

func init() {
	flags := downloadCmd.Flags()
	flags.IntVarP(&downloadConcurrency, FlagConcurrency, "c", config.DefaultConcurrency, DescConcurrency)
	flags.BoolVarP(&downloadForce, FlagForce, "f", false, DescForce)
	flags.StringVar(&downloadFormat, FlagFormat, FormatText, DescFormat)
	flags.BoolVar(&downloadStrict, FlagStrict, false, DescStrict)
	flags.StringVar(&downloadAlgorithm, FlagAlgorithm, string(model.HashSHA256), DescAlgorithm)
	flags.StringVar(&downloadHeadSource, FlagHeadSource, config.DefaultHeadSource, DescHeadSource)
}

func runDownload(cmd *cobra.Command, args []string) error {
	repository, destination := args[0], args[1]

	if err := validateFormat(downloadFormat); err != nil {
		return err
	}

	// Reject bad options before asking about the destination
	if loadedConfig.Concurrency <= 0 {
		return app.NewValidationError("invalid download options", download.ErrInvalidConcurrency)
	}

	fs := afero.NewOsFs()
	if err := confirmDestination(fs, destination, downloadForce); err != nil {
		return err
	}

	printInfo(fmt.Sprintf("Repository: %s", repository))
	printInfo(fmt.Sprintf("Destination: %s", destination))

	spinner := startSpinner("Listing repository tree...")
	var total int
	var done atomic.Int32

	result, err := app.Download(cmd.Context(), app.DownloadOptions{
		Env:         app.Env{Config: loadedConfig, Fs: fs},
		Repository:  repository,
		Destination: destination,
		Concurrency: loadedConfig.Concurrency,
		OnListed: func(files []string) {
			total = len(files)
			updateSpinner(spinner, fmt.Sprintf("Downloading %d files...", total))
		},
		OnFile: func(path string, size int) {
			n := done.Add(1)
			updateSpinner(spinner, fmt.Sprintf("Downloading %d/%d: %s", n, total, path))
		},
	})
	stopSpinner(spinner)

	if err != nil {
		printErrorMsg(fmt.Sprintf("Download failed: %v", err))
		return err
	}

	return writeDownloadSummary(cmd.OutOrStdout(), downloadFormat, result)
}

// writeDownloadSummary prints result in the requested format.
func writeDownloadSummary(w io.Writer, format string, result *app.DownloadResult) error {
	if handled, err := writeStructured(w, format, result); handled {
		return err
	}

	if globalQuiet {
		return nil
	}

	printSuccess(fmt.Sprintf("Downloaded %s at %s", result.Repository, model.HeadRef(result.Head).Short()))
	fmt.Fprintf(w, "Summary:\n")
	fmt.Fprintf(w, "  Files:       %d (%d directories)\n", len(result.Files), result.Directories)
	fmt.Fprintf(w, "  Size:        %s\n", formatBytes(result.Bytes))
	fmt.Fprintf(w, "  Batches:     %v\n", result.Batches)
	fmt.Fprintf(w, "  Manifest:    %s (%s)\n", result.ManifestPath, result.Algorithm)
	fmt.Fprintf(w, "  Digest:      %s\n", result.Digest)
	fmt.Fprintf(w, "  Elapsed:     %s\n", result.Elapsed.Round(time.Millisecond))
	return nil
}
