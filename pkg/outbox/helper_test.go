package outbox_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"constructhub/pkg/outbox"
)

var _ = Describe("NewEvent", func() {
	It("encodes the payload as a pending event", func() {
		ev, err := outbox.NewEvent("live_update", "u-1", "live_update.posted", map[string]string{"update_id": "u-1"})
		Expect(err).NotTo(HaveOccurred())
		Expect(ev.Status).To(Equal(outbox.StatusPending))
		Expect(ev.AggregateID).To(Equal("u-1"))
		Expect(ev.Payload).To(MatchJSON(`{"update_id":"u-1"}`))
	})

	It("rejects a missing routing key", func() {
		_, err := outbox.NewEvent("live_update", "u-1", "", nil)
		Expect(err).To(HaveOccurred())
	})

	It("surfaces encoding errors", func() {
		_, err := outbox.NewEvent("live_update", "u-1", "live_update.posted", map[string]any{"bad": make(chan int)})
		Expect(err).To(MatchError(ContainSubstring("marshal outbox payload")))
	})
})
