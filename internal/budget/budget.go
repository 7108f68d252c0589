// Package budget reduces a project timeline into its money and progress figures.
// Both figures are pure functions of the stage list.
package budget

import (
	"math"

	"constructhub/internal/cost"
	"constructhub/internal/model"
)

// Summary is the cost-based view of a timeline.
type Summary struct {
	TotalBudget     int64 `json:"totalBudget"`
	CostIncurred    int64 `json:"costIncurred"`
	RemainingBudget int64 `json:"remainingBudget"`
}

// Summarize totals every stage and task cost. Cost of completed stages and
// tasks counts as incurred, the rest as remaining.
func Summarize(stages []model.Stage) Summary {
	var total, remaining int64
	for _, stage := range stages {
		stageCost := cost.Parse(stage.Cost)
		total += stageCost
		if !stage.Status.Completed() {
			remaining += stageCost
		}
		for _, task := range stage.Tasks {
			taskCost := cost.Parse(task.Cost)
			total += taskCost
			if !task.Status.Completed() {
				remaining += taskCost
			}
		}
	}
	return Summary{
		TotalBudget:     total,
		CostIncurred:    total - remaining,
		RemainingBudget: remaining,
	}
}

// SpentPercent is the share of the budget already incurred, rounded.
// Not to be confused with Progress.PercentComplete, which counts stages.
func (s Summary) SpentPercent() int {
	if s.TotalBudget == 0 {
		return 0
	}
	return int(math.Round(100 * float64(s.CostIncurred) / float64(s.TotalBudget)))
}

// Progress is the stage-count view of a timeline.
type Progress struct {
	PercentComplete int          `json:"percentComplete"`
	CompletedStages int          `json:"completedStages"`
	TotalStages     int          `json:"totalStages"`
	CurrentPhase    *model.Stage `json:"currentPhase"`
}

// CalculateProgress counts completed stages. The current phase is the first
// stage not yet completed, or the last stage once everything is done.
func CalculateProgress(stages []model.Stage) Progress {
	p := Progress{TotalStages: len(stages)}
	if len(stages) == 0 {
		return p
	}

	for i := range stages {
		if stages[i].Status.Completed() {
			p.CompletedStages++
		} else if p.CurrentPhase == nil {
			p.CurrentPhase = &stages[i]
		}
	}
	if p.CurrentPhase == nil {
		p.CurrentPhase = &stages[len(stages)-1]
	}
	p.PercentComplete = int(math.Round(100 * float64(p.CompletedStages) / float64(p.TotalStages)))
	return p
}

// Overview puts both metrics side by side under distinct names.
type Overview struct {
	Summary
	BudgetSpentPercent int      `json:"budgetSpentPercent"`
	Progress           Progress `json:"progress"`
	InitialBudget      int64    `json:"initialBudget"`
}

func NewOverview(p model.Project) Overview {
	summary := Summarize(p.TaskTimeline)
	return Overview{
		Summary:            summary,
		BudgetSpentPercent: summary.SpentPercent(),
		Progress:           CalculateProgress(p.TaskTimeline),
		InitialBudget:      cost.Parse(p.InitialBudget),
	}
}
