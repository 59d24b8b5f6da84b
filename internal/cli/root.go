package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tacogips/headsync/internal/config"
	"github.com/tacogips/headsync/internal/debug"
)

// Global flags
var (
	globalConfigPath string
	globalForge      string
	globalBaseURL    string
	globalAPIURL     string
	globalTimeout    time.Duration
	globalNoColor    bool
	globalQuiet      bool
	globalDebug      bool
)

// loadedConfig is the configuration for the running command.
var loadedConfig *config.Config

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "headsync",
	Short: "Download a repository's HEAD through its hosting API",
	Long: `headsync downloads every file of a repository at its HEAD commit through
the hosting API (Gitea by default, GitHub optionally) and writes a checksum
manifest next to the files.

Use "headsync download <owner/repo> <destination>" to:
  1. List the remote tree breadth-first
  2. Resolve HEAD with git ls-remote
  3. Fetch every file at that commit with N workers
  4. Write the SHA256 manifest`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		printError(err)
		stop()
		os.Exit(1)
	}
}

func init() {
	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&globalConfigPath, FlagConfig, "", DescConfig)
	flags.StringVar(&globalForge, FlagForge, config.DefaultForge, DescForge)
	flags.StringVar(&globalBaseURL, FlagBaseURL, "", DescBaseURL)
	flags.StringVar(&globalAPIURL, FlagAPIURL, "", DescAPIURL)
	flags.DurationVar(&globalTimeout, FlagTimeout, config.DefaultTimeout, DescTimeout)
	flags.BoolVar(&globalNoColor, FlagNoColor, false, DescNoColor)
	flags.BoolVarP(&globalQuiet, FlagQuiet, "q", false, DescQuiet)
	flags.BoolVar(&globalDebug, FlagDebug, false, DescDebug)

	// Add subcommands
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(headCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup configures logging and output, then loads the configuration with
// the command's flags layered on top.
func setup(cmd *cobra.Command, args []string) error {
	debug.SetDebug(globalDebug)
	configureOutput(globalNoColor, globalQuiet)

	if cmd == versionCmd {
		return nil
	}

	loader := config.NewLoader()
	if err := loader.BindFlags(cmd.Flags()); err != nil {
		return err
	}
	cfg, err := loader.Load(globalConfigPath)
	if err != nil {
		return err
	}
	if cfg.Forge == "github" && cfg.Token == "" {
		cfg.Token = ghCLIToken()
	}

	debug.DebugValue("[cli] config", cfg)
	loadedConfig = cfg
	return nil
}
