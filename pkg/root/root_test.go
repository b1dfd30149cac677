package root

import (
	"bytes"
	"errors"
	"testing"
)

func TestSetInfo(t *testing.T) {
	// Save original values
	origUse := rootCmd.Use
	origShort := rootCmd.Short
	origLong := rootCmd.Long
	defer func() {
		rootCmd.Use = origUse
		rootCmd.Short = origShort
		rootCmd.Long = origLong
	}()

	use := "test-app"
	short := "Test Short"
	long := "Test Long Description"

	SetInfo(use, short, long)

	if rootCmd.Use != use {
		t.Errorf("Expected Use to be %s, got %s", use, rootCmd.Use)
	}
	if rootCmd.Short != short {
		t.Errorf("Expected Short to be %s, got %s", short, rootCmd.Short)
	}
	if rootCmd.Long != long {
		t.Errorf("Expected Long to be %s, got %s", long, rootCmd.Long)
	}
}

func TestVersionFlag(t *testing.T) {
	orig := Version
	defer SetVersion(orig)

	SetVersion("1.2.3")

	var out bytes.Buffer
	cmd := GetRoot()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--version"})
	defer cmd.SetArgs(nil)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Contains(out.Bytes(), []byte("1.2.3")) {
		t.Errorf("Expected version output to contain 1.2.3, got %q", out.String())
	}
}

func TestMessage(t *testing.T) {
	tests := map[string]string{
		"template not found: /tmp/t.txt": "Template not found: /tmp/t.txt",
		"[2/3] failed to send to a@x.com": "[2/3] failed to send to a@x.com",
		"SMTP error: timeout":             "SMTP error: timeout",
		"":                                "",
	}
	for in, want := range tests {
		if got := Message(errors.New(in)); got != want {
			t.Errorf("Message(%q) = %q, want %q", in, got, want)
		}
	}
}
