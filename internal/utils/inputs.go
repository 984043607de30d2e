package utils

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Confirm asks a yes/no question on w and reads the answer from r. An empty
// answer picks defaultYes; anything unrecognised asks again. EOF counts as no.
func Confirm(prompt string, defaultYes bool, r io.Reader, w io.Writer) bool {
	hint := "[y/N]"
	if defaultYes {
		hint = "[Y/n]"
	}

	scanner := bufio.NewScanner(r)
	for {
		_, _ = fmt.Fprintf(w, "%s %s: ", prompt, hint)
		if !scanner.Scan() {
			_, _ = fmt.Fprintln(w)
			return false
		}

		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "":
			return defaultYes
		case "y", "yes":
			return true
		case "n", "no":
			return false
		}
	}
}
