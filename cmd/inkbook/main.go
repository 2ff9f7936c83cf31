package main

import (
	"context"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/fang"
	"github.com/mark3labs/inkbook/internal/logger"
	"github.com/mark3labs/inkbook/internal/tui/theme"
	"github.com/spf13/cobra"
)

const (
	logoText1 = "▀ █▄ █ █▄▀ █▄▄ █▀█ █▀█ █▄▀"
	logoText2 = "█ █ ▀█ █ █ █▄█ █▄█ █▄█ █ █"
)

// Version set via ldflags during build
var version = "dev"

func main() {
	// Ensure logger is closed on exit
	defer func() { _ = logger.Close() }()

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "inkbook",
	Short: "Tattoo appointment booking wizard for the terminal",
}

// renderLogo colors the logo with a primary to secondary gradient.
func renderLogo() string {
	t := theme.NewCatppuccinMocha()
	return strings.Join([]string{
		gradient(logoText1, t.Primary, t.Secondary),
		gradient(logoText2, t.Primary, t.Secondary),
	}, "\n")
}

func gradient(text, from, to string) string {
	runes := []rune(text)
	if len(runes) < 2 {
		return text
	}
	var b strings.Builder
	for i, r := range runes {
		c := theme.Blend(from, to, float64(i)/float64(len(runes)-1))
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render(string(r)))
	}
	return b.String()
}

func init() {
	// Set Long description with logo
	rootCmd.Long = renderLogo() + `

inkbook walks a client through booking a tattoo appointment: artist, idea,
placement, size, date and time, budget and contact details, then a review
before the request is sent. Every step is journaled to an embedded NATS
JetStream bus and can run submit hooks for the studio.

The same booking engine can be driven by agents over MCP with 'inkbook serve'.`

	rootCmd.AddCommand(bookCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(setupCmd)
}
