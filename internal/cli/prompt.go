package cli

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// promptPassword asks for a password on the terminal with echo disabled.
// Non-interactive stdin (pipes, CI) returns an empty password instead of
// blocking; the connect attempt then proceeds passwordless.
func promptPassword(username string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", nil
	}

	fmt.Fprintf(os.Stderr, "Password for %s: ", username)
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(raw), nil
}
