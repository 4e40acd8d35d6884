package main

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"

	"github.com/zx06/keybridge/internal/errors"
)

// promptValue asks for the secret with masked input. The form renders on
// stderr so stdout stays machine-readable.
var promptValue = func(service, key string) (string, error) {
	var value string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title(fmt.Sprintf("Secret for %s / %s", service, key)).
			EchoMode(huh.EchoModePassword).
			Value(&value),
	)).WithOutput(os.Stderr)

	if err := form.Run(); err != nil {
		if stderrors.Is(err, huh.ErrUserAborted) {
			return "", errors.New(errors.CodeCfgInvalid, "input aborted", nil)
		}
		return "", errors.Wrap(errors.CodeInternal, "failed to read value", nil, err)
	}
	return value, nil
}
