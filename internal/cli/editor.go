package cli

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// openEditorFunc launches the editor on a task draft; tests replace it.
var openEditorFunc = openEditor

// editorEnv lists the variables naming an editor, most specific first.
var editorEnv = []string{"ZENTASKS_EDITOR", "VISUAL", "EDITOR"}

const fallbackEditor = "vi"

// editorCommand splits the configured editor into program and arguments,
// so values like "code --wait" work.
func editorCommand(lookup func(string) string) (string, []string) {
	for _, key := range editorEnv {
		if fields := strings.Fields(lookup(key)); len(fields) > 0 {
			return fields[0], fields[1:]
		}
	}
	return fallbackEditor, nil
}

// openEditor blocks until the editor exits. The draft is left in place on failure.
func openEditor(draftPath string) error {
	name, args := editorCommand(os.Getenv)

	cmd := exec.Command(name, append(args, draftPath)...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("editor %s exited with status %d", name, exitErr.ExitCode())
		}
		return fmt.Errorf("start editor %s: %w", name, err)
	}
	return nil
}
