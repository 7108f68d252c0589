package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgconn"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"constructhub/internal/model"
	"constructhub/pkg/docstore"
)

var _ = Describe("ProjectRepository.SetStageStatus", func() {
	var (
		db   *mockQuerier
		repo *ProjectRepository
		ctx  = context.Background()
	)

	BeforeEach(func() {
		db = &mockQuerier{tag: pgconn.NewCommandTag("UPDATE 1")}
		repo = NewProjectRepository(docstore.New(db, zap.NewNop()), zap.NewNop())
	})

	It("touches only the status of the chosen stage", func() {
		Expect(repo.SetStageStatus(ctx, "p1", 2, model.StageCompleted)).To(Succeed())

		Expect(db.execs).To(HaveLen(1))
		args := db.execs[0].args
		Expect(args[0]).To(Equal(model.CollectionProjects))
		Expect(args[2]).To(Equal([]string{"taskTimeline", "2", "status"}))
		Expect(string(args[3].([]byte))).To(Equal(`"Completed"`))
		Expect(db.execs[0].sql).To(ContainSubstring("jsonb_set"))
	})

	It("maps a missing project or stage to ErrNotFound", func() {
		db.tag = pgconn.NewCommandTag("UPDATE 0")
		Expect(repo.SetStageStatus(ctx, "p1", 7, model.StageCompleted)).To(MatchError(docstore.ErrNotFound))
	})
})
