package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/lox/blackjack-ev/internal/chart"
	"github.com/lox/blackjack-ev/internal/deck"
)

// DumpChartCmd prints the embedded basic-strategy chart for a rule
// preset as a lipgloss table, one row per hand class and one column per
// dealer upcard, mirroring original_source's BasicStrategyChart Display
// implementation.
type DumpChartCmd struct {
	Rules string `kong:"default='6d-h17-das-dany',help='Rule preset: 6d-h17-das-dany or 1d-h17-ndas-d10'"`
}

func (c *DumpChartCmd) Run() error {
	r, err := presetByName(c.Rules)
	if err != nil {
		return err
	}
	ch, err := chart.ForRules(r)
	if err != nil {
		return err
	}

	headers := []string{"Hand"}
	for _, up := range deck.Ranks {
		headers = append(headers, up.String())
	}

	var rows [][]string
	for _, class := range ch.Rows() {
		row := []string{class.String()}
		for _, up := range deck.Ranks {
			actions, ok := ch.ActionsFor(class, up)
			if !ok || len(actions) == 0 {
				row = append(row, "-")
				continue
			}
			row = append(row, string(actions[0].Letter()))
		}
		rows = append(rows, row)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headers...).
		Rows(rows...)

	fmt.Printf("%s\n\n%s\n", r.String(), t.String())
	return nil
}
