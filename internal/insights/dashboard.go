package insights

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"sort"
)

//go:embed templates/dashboard.html
var dashboardHTML string

var dashboardTemplate = template.Must(
	template.New("dashboard").Funcs(template.FuncMap{
		"money": func(v float64) string { return fmt.Sprintf("€%.2f", v) },
	}).Parse(dashboardHTML),
)

type labeledAmount struct {
	Label  string
	Amount float64
}

// dashboardView flattens the report's maps into ordered rows for rendering.
type dashboardView struct {
	Report     *Report
	Days       []labeledAmount // chronological
	Categories []labeledAmount // largest spend first
}

// RenderDashboard renders the report as a standalone HTML page.
func RenderDashboard(report *Report) ([]byte, error) {
	view := dashboardView{
		Report:     report,
		Days:       sortedByLabel(report.SpendingByDay),
		Categories: sortedByAmount(report.SpendingByCategory),
	}

	var buf bytes.Buffer
	if err := dashboardTemplate.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("rendering dashboard: %w", err)
	}
	return buf.Bytes(), nil
}

func sortedByLabel(m map[string]float64) []labeledAmount {
	rows := toRows(m)
	sort.Slice(rows, func(i, j int) bool { return rows[i].Label < rows[j].Label })
	return rows
}

func sortedByAmount(m map[string]float64) []labeledAmount {
	rows := toRows(m)
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Amount != rows[j].Amount {
			return rows[i].Amount > rows[j].Amount
		}
		return rows[i].Label < rows[j].Label
	})
	return rows
}

func toRows(m map[string]float64) []labeledAmount {
	rows := make([]labeledAmount, 0, len(m))
	for label, amount := range m {
		rows = append(rows, labeledAmount{Label: label, Amount: amount})
	}
	return rows
}
