package cli

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/afero"

	"github.com/tacogips/headsync/internal/app"
)

// confirm asks a yes/no question. Tests replace it.
var confirm = func(message string) (bool, error) {
	var ok bool
	prompt := &survey.Confirm{
		Message: message,
		Default: false,
		Help:    "Existing files with the same path are overwritten; other files are left alone.",
	}
	if err := survey.AskOne(prompt, &ok); err != nil {
		return false, err
	}
	return ok, nil
}

// confirmDestination checks that writing into dest is acceptable. A missing
// or empty directory always is; otherwise force or an interactive yes is
// required.
func confirmDestination(fs afero.Fs, dest string, force bool) error {
	empty, err := app.DestinationIsEmpty(fs, dest)
	if err != nil {
		return fmt.Errorf("failed to inspect destination: %w", err)
	}
	if empty || force {
		return nil
	}

	ok, err := confirm(fmt.Sprintf("%s is not empty. Download into it anyway?", dest))
	if err != nil {
		return fmt.Errorf("failed to confirm destination: %w", err)
	}
	if !ok {
		return fmt.Errorf("aborted: destination %s is not empty (use --%s to skip this check)", dest, FlagForce)
	}
	return nil
}
