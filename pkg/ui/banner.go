package ui

import (
	"fmt"
	"strings"
)

const (
	reset       = "\033[0m"
	bold        = "\033[1m"
	outlineGray = "\033[38;5;244m"
	beeYellow   = "\033[38;5;226m"
	honeyOrange = "\033[38;5;214m"
	alertRed    = "\033[38;5;196m"
	mint        = "\033[38;5;121m"
	seafoam     = "\033[38;5;49m"
	cobalt      = "\033[38;5;33m"
	deepIndigo  = "\033[38;5;61m"
	fuchsia     = "\033[38;5;177m"
	lensFlame   = "\033[38;5;208m"
)

// Banner renders a colored proclens wordmark.
func Banner() string {
	var b strings.Builder

	letters := [][]string{
		{"██████╗ ", "██╔══██╗", "██████╔╝", "██╔═══╝ ", "██║     ", "╚═╝     "},
		{"██████╗ ", "██╔══██╗", "██████╔╝", "██╔══██╗", "██║  ██║", "╚═╝  ╚═╝"},
		{" ██████╗ ", "██╔═══██╗", "██║   ██║", "██║   ██║", "╚██████╔╝", " ╚═════╝ "},
		{" ██████╗", "██╔════╝", "██║     ", "██║     ", "╚██████╗", " ╚═════╝"},
		{"██╗     ", "██║     ", "██║     ", "██║     ", "███████╗", "╚══════╝"},
		{"███████╗", "██╔════╝", "█████╗  ", "██╔══╝  ", "███████╗", "╚══════╝"},
		{"███╗   ██╗", "████╗  ██║", "██╔██╗ ██║", "██║╚██╗██║", "██║ ╚████║", "╚═╝  ╚═══╝"},
		{"███████╗", "██╔════╝", "███████╗", "╚════██║", "███████║", "╚══════╝"},
	}
	gradient := []string{lensFlame, honeyOrange, beeYellow, mint, seafoam, cobalt, deepIndigo, fuchsia}
	rows := make([]string, len(letters[0]))
	for i, letter := range letters {
		color := gradient[i%len(gradient)]
		for row := 0; row < len(letter); row++ {
			rows[row] += color + letter[row] + " "
		}
	}
	for _, line := range rows {
		b.WriteString(bold + line + reset + "\n")
	}

	b.WriteString("\n")
	b.WriteString(bold + lensFlame + "proclens" + reset + "  •  process usage lens\n\n")

	return b.String()
}

// Meter renders pct as a fixed-width bar, colored by how close it is to full.
func Meter(label string, pct float64, width int) string {
	if width <= 0 {
		width = 20
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := int(pct / 100 * float64(width))
	color := mint
	switch {
	case pct >= 90:
		color = alertRed
	case pct >= 60:
		color = honeyOrange
	}
	bar := color + strings.Repeat("█", filled) + outlineGray + strings.Repeat("░", width-filled) + reset
	return fmt.Sprintf("%-4s %s %5.1f%%", label, bar, pct)
}

// Alert highlights a line that reports an active alert.
func Alert(text string) string {
	return bold + alertRed + "[!] " + text + reset
}
