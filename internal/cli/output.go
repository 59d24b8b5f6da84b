package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"
)

// Output formats for command summaries.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// configureOutput applies the global color and quiet settings to pterm.
func configureOutput(noColor, quiet bool) {
	if noColor {
		pterm.DisableColor()
	} else {
		pterm.EnableColor()
	}
	if quiet {
		pterm.DisableOutput()
	} else {
		pterm.EnableOutput()
	}
}

// printInfo prints an informational message
func printInfo(msg string) {
	if globalQuiet {
		return
	}
	pterm.Info.Println(msg)
}

// printSuccess prints a success message
func printSuccess(msg string) {
	if globalQuiet {
		return
	}
	pterm.Success.Println(msg)
}

// printWarning prints a warning message
func printWarning(msg string) {
	if globalQuiet {
		return
	}
	pterm.Warning.Println(msg)
}

// printErrorMsg prints an error message to stderr, even in quiet mode
func printErrorMsg(msg string) {
	fmt.Fprintln(os.Stderr, pterm.Error.Sprint(msg))
}

// printError prints a command error to stderr
func printError(err error) {
	printErrorMsg(err.Error())
}

// startSpinner starts a progress spinner. It returns nil in quiet mode.
func startSpinner(msg string) *pterm.SpinnerPrinter {
	if globalQuiet {
		return nil
	}
	spinner, err := pterm.DefaultSpinner.
		WithStyle(pterm.NewStyle(pterm.FgCyan)).
		WithRemoveWhenDone(true).
		Start(msg)
	if err != nil {
		return nil
	}
	return spinner
}

// updateSpinner replaces the spinner text.
func updateSpinner(s *pterm.SpinnerPrinter, msg string) {
	if s != nil {
		s.UpdateText(msg)
	}
}

// stopSpinner stops s; nil is ignored.
func stopSpinner(s *pterm.SpinnerPrinter) {
	if s != nil {
		_ = s.Stop()
	}
}

// formatBytes formats bytes as human-readable string
func formatBytes(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	return humanize.Bytes(uint64(bytes))
}

// validateFormat checks a --format value.
func validateFormat(format string) error {
	switch format {
	case FormatText, FormatJSON, FormatYAML:
		return nil
	default:
		return fmt.Errorf("invalid format %q (expected %s, %s or %s)", format, FormatText, FormatJSON, FormatYAML)
	}
}

// writeStructured renders v as JSON or YAML. Text output is handled by the
// caller; writeStructured returns false for it.
func writeStructured(w io.Writer, format string, v any) (bool, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return true, fmt.Errorf("failed to marshal output: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return true, err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, fmt.Errorf("failed to marshal output: %w", err)
		}
		return true, enc.Close()
	default:
		return false, nil
	}
}
