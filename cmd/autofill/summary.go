package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	shiftService "github.com/cmlabs-hris/shift-autofill/internal/service/shift"
)

var titleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#5B8DEF"))

var okStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#3FB950"))

var failStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#FF6B6B"))

var boxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("#444444")).
	Padding(0, 1)

func summary(providerName string, year, month int, report shiftService.Report) string {
	title := titleStyle.Render(fmt.Sprintf("%s %04d-%02d", providerName, year, month))

	status := okStyle.Render(report.State.String())
	if report.State == shiftService.StateCancelled {
		status = failStyle.Render(report.State.String())
	}

	failed := okStyle.Render("no failed days")
	if n := report.Result.Len(); n > 0 {
		failed = failStyle.Render(fmt.Sprintf("%d failed day(s)", n))
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		title,
		"status:    "+status,
		fmt.Sprintf("attempted: %d day(s)", len(report.Attempted)),
		"result:    "+failed,
	)
	return boxStyle.Render(body)
}
