package delivery_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"constructhub/internal/delivery"
	"constructhub/pkg/circuitbreaker"
	"constructhub/pkg/trace"
)

var _ = Describe("PushClient", func() {
	var (
		server   *httptest.Server
		received delivery.PushMessage
		traceID  string
		status   int
		calls    atomic.Int32
	)

	BeforeEach(func() {
		status = http.StatusOK
		calls.Store(0)
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			traceID = r.Header.Get(trace.HeaderName)
			_ = json.NewDecoder(r.Body).Decode(&received)
			w.WriteHeader(status)
		}))
		DeferCleanup(server.Close)
	})

	It("posts the recipient list with the trace header", func() {
		client := delivery.NewPushClient(server.URL, time.Second, zap.NewNop())
		ctx := trace.WithContext(context.Background(), "trace-1")

		err := client.Push(ctx, delivery.PushMessage{Title: "t", Body: "b", UserIDs: []string{"u1", "u2"}, ActionURL: "/projects/p1"})
		Expect(err).NotTo(HaveOccurred())
		Expect(received.UserIDs).To(ConsistOf("u1", "u2"))
		Expect(received.ActionURL).To(Equal("/projects/p1"))
		Expect(traceID).To(Equal("trace-1"))
	})

	It("returns an error on a non-2xx answer and opens after repeated failures", func() {
		status = http.StatusBadGateway
		client := delivery.NewPushClient(server.URL, time.Second, zap.NewNop())
		msg := delivery.PushMessage{Title: "t", UserIDs: []string{"u1"}}

		for range 3 {
			Expect(client.Push(context.Background(), msg)).To(MatchError(ContainSubstring("502")))
		}
		Expect(client.Push(context.Background(), msg)).To(MatchError(circuitbreaker.ErrCircuitBreakerOpen))
		Expect(calls.Load()).To(Equal(int32(3)))
	})

	It("does nothing without a url or recipients", func() {
		Expect(delivery.NewPushClient("", time.Second, zap.NewNop()).Push(context.Background(), delivery.PushMessage{UserIDs: []string{"u"}})).To(Succeed())
		Expect(delivery.NewPushClient(server.URL, time.Second, zap.NewNop()).Push(context.Background(), delivery.PushMessage{})).To(Succeed())
		Expect(calls.Load()).To(BeZero())
	})
})

var _ = Describe("EmailClient", func() {
	var (
		server *httptest.Server
		answer string
		got    delivery.Email
	)

	BeforeEach(func() {
		answer = `{"success": true}`
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewDecoder(r.Body).Decode(&got)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(answer))
		}))
		DeferCleanup(server.Close)
	})

	It("sends the message fields", func() {
		client := delivery.NewEmailClient(server.URL, time.Second, zap.NewNop())
		err := client.Send(context.Background(), delivery.Email{To: "a@b.c", Subject: "Hi", Message: "Body", Name: "Ada"})
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal(delivery.Email{To: "a@b.c", Subject: "Hi", Message: "Body", Name: "Ada"}))
	})

	It("surfaces a rejected send", func() {
		answer = `{"success": false, "error": "mailbox full"}`
		client := delivery.NewEmailClient(server.URL, time.Second, zap.NewNop())
		Expect(client.Send(context.Background(), delivery.Email{To: "a@b.c"})).To(MatchError(ContainSubstring("mailbox full")))
	})

	It("refuses an email without an address", func() {
		client := delivery.NewEmailClient(server.URL, time.Second, zap.NewNop())
		Expect(client.Send(context.Background(), delivery.Email{Subject: "x"})).To(HaveOccurred())
	})
})
