package cli

import (
	"fmt"
	"strings"

	"constructhub/internal/budget"
	"constructhub/internal/cost"
	"constructhub/internal/model"
	"constructhub/internal/revenue"
)

// StageRows 每个阶段一行：名称、状态、花费（含任务花费）
func StageRows(stages []model.Stage) [][]string {
	rows := make([][]string, 0, len(stages)+2)
	var total int64
	for _, s := range stages {
		c := cost.Parse(s.Cost)
		for _, t := range s.Tasks {
			c += cost.Parse(t.Cost)
		}
		total += c
		rows = append(rows, []string{stageName(s), string(s.Status), cost.Format(c)})
	}
	rows = append(rows, []string{"---"}, []string{"TOTAL", "", cost.Format(total)})
	return rows
}

// RenderBudget 渲染单个项目的预算和进度
func RenderBudget(p model.Project) string {
	ov := budget.NewOverview(p)

	var b strings.Builder
	title := p.Name
	if title == "" {
		title = p.ID
	}
	b.WriteString(RenderTitle(strings.ToUpper(title)))
	b.WriteString("\n\n")

	b.WriteString(RenderTable(Table{
		Title:   "Budget",
		Headers: []string{"Metric", "Amount"},
		Rows: [][]string{
			{"Initial Budget", cost.Format(ov.InitialBudget)},
			{"Total Budget", cost.Format(ov.TotalBudget)},
			{"Cost Incurred", cost.Format(ov.CostIncurred)},
			{"Remaining", cost.Format(ov.RemainingBudget)},
			{"Spent", fmt.Sprintf("%d%%", ov.BudgetSpentPercent)},
		},
	}))
	b.WriteString("\n")

	if len(p.TaskTimeline) > 0 {
		b.WriteString(RenderTable(Table{
			Title:   "Stages",
			Headers: []string{"Stage", "Status", "Cost"},
			Rows:    StageRows(p.TaskTimeline),
		}))
		b.WriteString("\n")
	}

	pr := ov.Progress
	b.WriteString("  ")
	b.WriteString(headerStyle.Render("Progress"))
	b.WriteString("\n  ")
	b.WriteString(RenderProgressBar(pr.PercentComplete, 30))
	b.WriteString(fmt.Sprintf("  %d/%d stages completed\n", pr.CompletedStages, pr.TotalStages))
	if pr.CurrentPhase != nil {
		b.WriteString("  ")
		b.WriteString(mutedStyle.Render("Current phase: " + stageName(*pr.CurrentPhase)))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderRevenue 渲染月度收入表和汇总
func RenderRevenue(r revenue.Report) string {
	var b strings.Builder
	b.WriteString(RenderTitle("REVENUE"))
	b.WriteString("\n\n")

	rows := make([][]string, 0, len(r.Monthly)+2)
	var total int64
	for _, m := range r.Monthly {
		total += m.Total
		rows = append(rows, []string{m.Label, cost.Format(m.Invoices), cost.Format(m.Consultations), cost.Format(m.Total)})
	}
	rows = append(rows, []string{"---"}, []string{"TOTAL", "", "", cost.Format(total)})

	b.WriteString(RenderTable(Table{
		Title:   fmt.Sprintf("Last %d Months", len(r.Monthly)),
		Headers: []string{"Month", "Invoices", "Consultations", "Total"},
		Rows:    rows,
	}))
	b.WriteString("\n")

	sb := r.StatusBreakdown
	b.WriteString(RenderTable(Table{
		Title:   "Summary",
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Year to Date", cost.Format(r.TotalYTD)},
			{"This Month", cost.Format(r.ThisMonth)},
			{"Outstanding Invoices", fmt.Sprintf("%d", r.OutstandingInvoices)},
			{"Paid / Pending / Overdue", fmt.Sprintf("%d%% / %d%% / %d%%", sb.Paid, sb.Pending, sb.Overdue)},
		},
	}))

	if r.Undated > 0 {
		b.WriteString("  ")
		b.WriteString(dimStyle.Render(fmt.Sprintf("%d record(s) without a readable date were skipped", r.Undated)))
		b.WriteString("\n")
	}
	return b.String()
}

func stageName(s model.Stage) string {
	if s.Name == "" {
		return "(unnamed)"
	}
	return s.Name
}
