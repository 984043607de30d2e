package utils

import (
	"bytes"
	"strings"
	"testing"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		defaultYes bool
		want       bool
	}{
		{"yes", "y\n", false, true},
		{"yes word", "YES\n", false, true},
		{"no", "n\n", true, false},
		{"trimmed", "  y  \n", false, true},
		{"empty takes default no", "\n", false, false},
		{"empty takes default yes", "\n", true, true},
		{"eof is no", "", true, false},
		{"retry on invalid", "maybe\ny\n", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got := Confirm("Delete task?", tt.defaultYes, strings.NewReader(tt.input), &out)
			if got != tt.want {
				t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestConfirmPromptHint(t *testing.T) {
	var out bytes.Buffer
	Confirm("Delete task?", false, strings.NewReader("n\n"), &out)
	if !strings.Contains(out.String(), "Delete task? [y/N]: ") {
		t.Errorf("prompt = %q", out.String())
	}

	out.Reset()
	Confirm("Delete task?", true, strings.NewReader("\n"), &out)
	if !strings.Contains(out.String(), "[Y/n]") {
		t.Errorf("prompt = %q", out.String())
	}
}

func TestConfirmRepromptsOnInvalid(t *testing.T) {
	var out bytes.Buffer
	Confirm("Delete task?", false, strings.NewReader("what\nn\n"), &out)
	if strings.Count(out.String(), "Delete task?") != 2 {
		t.Errorf("expected two prompts, got %q", out.String())
	}
}
