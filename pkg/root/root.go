package root

import (
	"fmt"
	"os"
	"unicode"
	"unicode/utf8"

	"github.com/spf13/cobra"
)

// Version is overridden at build time with -ldflags "-X github.com/pixelvide/postcli/pkg/root.Version=..."
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:           "postcli",
	Short:         "Send personalized plaintext emails from a CSV",
	Long:          `postcli sends templated plaintext emails to a contact list, one at a time, and records every outcome in a send log so interrupted campaigns resume where they stopped.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on any error
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "[err] %s\n", Message(err))
		os.Exit(1)
	}
}

// Message renders err for the operator, starting with a capital letter
func Message(err error) string {
	msg := err.Error()
	r, size := utf8.DecodeRuneInString(msg)
	if r == utf8.RuneError {
		return msg
	}
	return string(unicode.ToUpper(r)) + msg[size:]
}

// SetInfo overrides the root command's help text
func SetInfo(use, short, long string) {
	rootCmd.Use = use
	rootCmd.Short = short
	rootCmd.Long = long
}

// SetVersion overrides the version printed by --version
func SetVersion(version string) {
	Version = version
	rootCmd.Version = version
}

func GetRoot() *cobra.Command {
	return rootCmd
}
