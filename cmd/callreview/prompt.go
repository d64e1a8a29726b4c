package main

import (
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// promptConfirm asks the reviewer a yes/no question. It is a package variable
// so tests can stub it out. Non-interactive input always answers no, so piped
// invocations fail safe instead of hanging.
var promptConfirm = confirmInteractive

func confirmInteractive(in io.Reader, out io.Writer, question string) bool {
	f, ok := in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return false
	}

	var proceed bool
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(question).
			Affirmative("Continue").
			Negative("Cancel").
			Value(&proceed),
	)).WithInput(in).WithOutput(out)

	if err := form.Run(); err != nil {
		return false
	}
	return proceed
}
