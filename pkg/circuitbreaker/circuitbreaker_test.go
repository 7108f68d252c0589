package circuitbreaker_test

import (
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"constructhub/pkg/circuitbreaker"
)

var _ = Describe("CircuitBreaker", func() {
	var (
		cb      *circuitbreaker.CircuitBreaker
		now     time.Time
		failing = func() error { return errors.New("endpoint down") }
		ok      = func() error { return nil }
	)

	BeforeEach(func() {
		now = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
		cb = circuitbreaker.NewCircuitBreaker(circuitbreaker.Config{
			FailureThreshold:    3,
			SuccessThreshold:    2,
			Timeout:             30 * time.Second,
			HalfOpenMaxRequests: 1,
		}).WithClock(func() time.Time { return now })
	})

	It("opens after consecutive failures", func() {
		for i := 0; i < 3; i++ {
			Expect(cb.Execute(failing)).To(MatchError("endpoint down"))
		}
		Expect(cb.GetState()).To(Equal(circuitbreaker.StateOpen))

		called := false
		err := cb.Execute(func() error { called = true; return nil })
		Expect(err).To(MatchError(circuitbreaker.ErrCircuitBreakerOpen))
		Expect(called).To(BeFalse())
	})

	It("resets the failure count on success", func() {
		Expect(cb.Execute(failing)).To(HaveOccurred())
		Expect(cb.Execute(failing)).To(HaveOccurred())
		Expect(cb.Execute(ok)).To(Succeed())
		Expect(cb.Execute(failing)).To(HaveOccurred())
		Expect(cb.GetState()).To(Equal(circuitbreaker.StateClosed))
	})

	It("half-opens after the timeout and closes after enough successes", func() {
		for i := 0; i < 3; i++ {
			_ = cb.Execute(failing)
		}
		now = now.Add(31 * time.Second)

		Expect(cb.Execute(ok)).To(Succeed())
		Expect(cb.GetState()).To(Equal(circuitbreaker.StateHalfOpen))
		Expect(cb.Execute(ok)).To(Succeed())
		Expect(cb.GetState()).To(Equal(circuitbreaker.StateClosed))
	})

	It("re-opens on a failure while half-open", func() {
		for i := 0; i < 3; i++ {
			_ = cb.Execute(failing)
		}
		now = now.Add(31 * time.Second)

		Expect(cb.Execute(failing)).To(HaveOccurred())
		Expect(cb.GetState()).To(Equal(circuitbreaker.StateOpen))
	})

	It("returns to closed on Reset", func() {
		for i := 0; i < 3; i++ {
			_ = cb.Execute(failing)
		}
		cb.Reset()
		Expect(cb.GetState()).To(Equal(circuitbreaker.StateClosed))
		Expect(cb.Execute(ok)).To(Succeed())
	})
})
