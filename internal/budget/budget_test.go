package budget_test

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"constructhub/internal/budget"
	"constructhub/internal/model"
)

func stage(name string, status model.StageStatus, c any, tasks ...model.Task) model.Stage {
	return model.Stage{Name: name, Status: status, Cost: c, Tasks: tasks}
}

func task(status model.StageStatus, c any) model.Task {
	return model.Task{Name: "task", Status: status, Cost: c}
}

var _ = Describe("Summarize", func() {
	It("returns zeros for an empty timeline", func() {
		Expect(budget.Summarize(nil)).To(Equal(budget.Summary{}))
		Expect(budget.Summarize([]model.Stage{})).To(Equal(budget.Summary{}))
	})

	It("splits stage and task costs by completion", func() {
		stages := []model.Stage{
			stage("Foundation", model.StageCompleted, "₦1,000,000",
				task(model.StageCompleted, 200000),
				task(model.StagePending, "50,000"),
			),
			stage("Frame", model.StageInProgress, 500000,
				task(model.StageCompleted, "₦100,000"),
			),
			stage("Roof", model.StagePending, nil),
		}

		s := budget.Summarize(stages)
		Expect(s.TotalBudget).To(Equal(int64(1850000)))
		Expect(s.RemainingBudget).To(Equal(int64(550000)))
		Expect(s.CostIncurred).To(Equal(int64(1300000)))
	})

	It("treats missing tasks as none", func() {
		s := budget.Summarize([]model.Stage{stage("Only", model.StagePending, 10)})
		Expect(s).To(Equal(budget.Summary{TotalBudget: 10, RemainingBudget: 10}))
	})

	It("always satisfies total = incurred + remaining", func() {
		r := rand.New(rand.NewSource(7))
		statuses := []model.StageStatus{model.StagePending, model.StageOngoing, model.StageInProgress, model.StageCompleted, model.StageUnknown}
		for range 200 {
			var stages []model.Stage
			for range r.Intn(6) {
				var tasks []model.Task
				for range r.Intn(4) {
					tasks = append(tasks, task(statuses[r.Intn(len(statuses))], r.Int63n(1_000_000)))
				}
				stages = append(stages, stage("s", statuses[r.Intn(len(statuses))], r.Int63n(5_000_000), tasks...))
			}
			s := budget.Summarize(stages)
			Expect(s.TotalBudget).To(Equal(s.CostIncurred + s.RemainingBudget))
			Expect(budget.Summarize(stages)).To(Equal(s))
		}
	})

	It("reports the cost-based spent percentage", func() {
		Expect(budget.Summary{TotalBudget: 3, CostIncurred: 1}.SpentPercent()).To(Equal(33))
		Expect(budget.Summary{TotalBudget: 3, CostIncurred: 2}.SpentPercent()).To(Equal(67))
		Expect(budget.Summary{}.SpentPercent()).To(Equal(0))
	})
})

var _ = Describe("CalculateProgress", func() {
	It("is zero with no current phase for an empty timeline", func() {
		p := budget.CalculateProgress(nil)
		Expect(p.PercentComplete).To(Equal(0))
		Expect(p.CurrentPhase).To(BeNil())
	})

	It("counts completed stages", func() {
		stages := []model.Stage{
			stage("A", model.StageCompleted, 0),
			stage("B", model.StageCompleted, 0),
			stage("C", model.StageOngoing, 0),
			stage("D", model.StagePending, 0),
		}
		p := budget.CalculateProgress(stages)
		Expect(p.PercentComplete).To(Equal(50))
		Expect(p.CompletedStages).To(Equal(2))
		Expect(p.TotalStages).To(Equal(4))
		Expect(p.CurrentPhase.Name).To(Equal("C"))
	})

	It("picks the first incomplete stage even after a completed one", func() {
		stages := []model.Stage{
			stage("A", model.StagePending, 0),
			stage("B", model.StageCompleted, 0),
		}
		Expect(budget.CalculateProgress(stages).CurrentPhase.Name).To(Equal("A"))
	})

	It("falls back to the last stage when all are completed", func() {
		stages := []model.Stage{
			stage("A", model.StageCompleted, 0),
			stage("B", model.StageCompleted, 0),
		}
		p := budget.CalculateProgress(stages)
		Expect(p.PercentComplete).To(Equal(100))
		Expect(p.CurrentPhase.Name).To(Equal("B"))
	})

	It("rounds to the nearest percent", func() {
		stages := []model.Stage{
			stage("A", model.StageCompleted, 0),
			stage("B", model.StagePending, 0),
			stage("C", model.StagePending, 0),
		}
		Expect(budget.CalculateProgress(stages).PercentComplete).To(Equal(33))
	})
})

var _ = Describe("NewOverview", func() {
	It("keeps the two percentages apart", func() {
		p := model.Project{
			InitialBudget: "₦5,000,000",
			TaskTimeline: []model.Stage{
				stage("A", model.StageCompleted, 100),
				stage("B", model.StagePending, 900),
			},
		}
		o := budget.NewOverview(p)
		Expect(o.BudgetSpentPercent).To(Equal(10))
		Expect(o.Progress.PercentComplete).To(Equal(50))
		Expect(o.InitialBudget).To(Equal(int64(5000000)))
		Expect(o.TotalBudget).To(Equal(int64(1000)))
	})
})
