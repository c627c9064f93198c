package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ANSI color codes for terminal styling.
const (
	ansiReset     = "\033[0m"
	ansiCyan      = "\033[96m" // bright cyan (light blue)
	ansiUnderline = "\033[4m"
)

type welcomeBannerOptions struct {
	Version    string
	ListenAddr string
	Provider   string
	Model      string
}

func printWelcomeBanner(w io.Writer, opts welcomeBannerOptions) {
	width := terminalWidth(w)
	useANSI := isTerminalWriter(w)

	logo := []string{
		"    _                    _   _         _    ___ ",
		"   / \\   __ _  ___ _ __ | |_(_) ___   / \\  |_ _|",
		"  / _ \\ / _` |/ _ \\ '_ \\| __| |/ __| / _ \\  | | ",
		" / ___ \\ (_| |  __/ | | | |_| | (__ / ___ \\ | | ",
		"/_/   \\_\\__, |\\___|_| |_|\\__|_|\\___/_/   \\_\\___|",
		"        |___/                                   ",
	}

	fmt.Fprintln(w)
	for _, line := range logo {
		fmt.Fprintln(w, center(line, width))
	}
	fmt.Fprintln(w)

	if version := strings.TrimSpace(opts.Version); version != "" {
		fmt.Fprintln(w, center(fmt.Sprintf("Version: %s", version), width))
	}
	if provider := strings.TrimSpace(opts.Provider); provider != "" {
		fmt.Fprintln(w, center(fmt.Sprintf("Provider: %s (%s)", provider, strings.TrimSpace(opts.Model)), width))
	}
	if addr := strings.TrimSpace(opts.ListenAddr); addr != "" {
		line := fmt.Sprintf("API: %s", styleURL("http://"+addr+"/v1/agent/chat", useANSI))
		fmt.Fprintln(w, centerWithAnsi(line, width))
	}
	fmt.Fprintln(w)
}

func isTerminalWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return 0
	}
	return width
}

func styleURL(url string, enabled bool) string {
	if !enabled {
		return url
	}
	return fmt.Sprintf("%s%s%s%s", ansiCyan, ansiUnderline, url, ansiReset)
}

func center(text string, width int) string {
	if width <= 0 {
		// Fallback for non-interactive outputs.
		return "    " + text
	}

	textLen := len([]rune(text))
	if textLen >= width {
		return text
	}

	padding := (width - textLen) / 2
	return strings.Repeat(" ", padding) + text
}

func stripAnsi(s string) string {
	result := s
	result = strings.ReplaceAll(result, ansiReset, "")
	result = strings.ReplaceAll(result, ansiCyan, "")
	result = strings.ReplaceAll(result, ansiUnderline, "")
	return result
}

func centerWithAnsi(text string, width int) string {
	if width <= 0 {
		return "    " + text
	}

	visibleText := stripAnsi(text)
	textLen := len([]rune(visibleText))
	if textLen >= width {
		return text
	}

	padding := (width - textLen) / 2
	return strings.Repeat(" ", padding) + text
}
