package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

type colorMode string

const (
	colorAuto colorMode = "auto"
	colorOn   colorMode = "on"
	colorOff  colorMode = "off"
)

func readColorMode(value string) (colorMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return colorAuto, nil
	case "on", "always":
		return colorOn, nil
	case "off", "never":
		return colorOff, nil
	default:
		return "", fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
}

// applyColorFlag sets the fatih/color global switch from --color.
// NO_COLOR is honored by color itself in auto mode.
func applyColorFlag(cmd *cobra.Command) error {
	value, err := cmd.Flags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	mode, err := readColorMode(value)
	if err != nil {
		return err
	}
	switch mode {
	case colorOn:
		color.NoColor = false
	case colorOff:
		color.NoColor = true
	default:
		color.NoColor = color.NoColor || !isTerminal(os.Stdout)
	}
	return nil
}

// newRenderer returns a lipgloss renderer for out that follows --color.
func newRenderer(cmd *cobra.Command, out io.Writer) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(out)
	value, _ := cmd.Flags().GetString("color")
	mode, _ := readColorMode(value)
	switch mode {
	case colorOn:
		r.SetColorProfile(termenv.ANSI256)
	case colorOff:
		r.SetColorProfile(termenv.Ascii)
	}
	return r
}
