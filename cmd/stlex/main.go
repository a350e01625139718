package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"stlex/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "stlex",
	Short: "IEC 61131-3 Structured Text tokenizer",
	Long:  `stlex splits Structured Text sources into classified tokens for highlighting and inspection`,
	// Errors are printed by main so that trace dumps follow them.
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := applyColorFlag(cmd); err != nil {
			return err
		}
		return loadCLIConfig(cmd)
	},
}

// main registers subcommands and persistent flags, then executes the root command.
// If command execution returns an error, the process exits with status code 1.
func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(highlightCmd)
	rootCmd.AddCommand(guessCmd)
	rootCmd.AddCommand(keywordsCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().String("config", "", "path to stlex.toml (default: search upward from the working directory)")
	rootCmd.PersistentFlags().String("trace", "", "trace output file (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-mode", "stream", "trace storage mode (stream|ring|both)")
	rootCmd.PersistentFlags().Int("trace-ring-size", 4096, "events kept in the trace ring buffer")
	rootCmd.PersistentFlags().Bool("timings", false, "print phase timings to stderr")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to file on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a Go runtime trace to file")

	if err := rootCmd.Execute(); err != nil {
		rootCmd.PrintErrln("error:", err)
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
