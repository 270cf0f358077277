package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tradeforge/tradeforge/internal/types"
)

// Style definitions.
var (
	// TitleStyle for headers.
	TitleStyle = lipgloss.NewStyle().Bold(true)

	// LabelStyle for summary row labels.
	LabelStyle = lipgloss.NewStyle().Faint(true).Width(18)

	// ErrorStyle for error messages.
	ErrorStyle = lipgloss.NewStyle().Bold(true)
)

// FormatSignedPercent renders a percentage with its direction indicator.
func FormatSignedPercent(value float64) string {
	formatted := fmt.Sprintf("%.2f%%", value)

	if value > 0 {
		return formatted + " ▲"
	} else if value < 0 {
		return formatted + " ▼"
	}

	return formatted
}

// RenderSummary renders a human readable result summary for the terminal.
func RenderSummary(result *types.BacktestResult) string {
	var b strings.Builder

	row := func(label, value string) {
		b.WriteString(LabelStyle.Render(label))
		b.WriteString(value)
		b.WriteString("\n")
	}

	b.WriteString(TitleStyle.Render("Backtest " + result.ID))
	b.WriteString("\n")

	row("Strategy", result.StrategyName)
	row("Period", fmt.Sprintf("%s ~ %s",
		result.StartTime.Format("2006-01-02"), result.EndTime.Format("2006-01-02")))
	row("Initial capital", fmt.Sprintf("%.0f", result.InitialCapital))
	row("Final capital", fmt.Sprintf("%.0f", result.FinalCapital))
	row("Total return", FormatSignedPercent(result.TotalReturn))
	row("Annual return", FormatSignedPercent(result.AnnualReturn))
	row("Max drawdown", fmt.Sprintf("%.2f%%", result.MaxDrawdown))
	row("Sharpe ratio", fmt.Sprintf("%.2f", result.SharpeRatio))
	row("Trades", fmt.Sprintf("%d (win rate %.1f%%)", result.TotalTrades, result.WinRate))
	row("Profit factor", fmt.Sprintf("%.2f", result.ProfitFactor))
	row("Total fees", fmt.Sprintf("%.2f", result.TotalFees))

	return b.String()
}
