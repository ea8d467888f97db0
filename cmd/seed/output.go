// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6"))
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#7C3AED")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

func success(format string, args ...any) {
	fmt.Println(successStyle.Render("✓") + " " + fmt.Sprintf(format, args...))
}

func warning(format string, args ...any) {
	fmt.Println(warningStyle.Render("!") + " " + fmt.Sprintf(format, args...))
}

func failure(format string, args ...any) {
	fmt.Fprintln(os.Stderr, errorStyle.Render("✗")+" "+fmt.Sprintf(format, args...))
}

func info(format string, args ...any) {
	fmt.Println(infoStyle.Render("•") + " " + fmt.Sprintf(format, args...))
}

func section(title string) {
	fmt.Println()
	fmt.Println(titleStyle.Render(title))
	fmt.Println(mutedStyle.Render(strings.Repeat("─", lipgloss.Width(title))))
}
