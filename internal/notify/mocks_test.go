package notify_test

import (
	"context"
	"fmt"
	"sync"

	"constructhub/internal/delivery"
	"constructhub/internal/model"
)

type mockDirectory struct {
	users        map[string]model.User
	listAdminsFn func(ctx context.Context) ([]model.User, error)
}

func (m *mockDirectory) Resolve(_ context.Context, ref model.UserRef) (*model.User, error) {
	u, ok := m.users[ref.ID()]
	if !ok {
		return nil, fmt.Errorf("user %q not found", ref.ID())
	}
	return &u, nil
}

func (m *mockDirectory) ListAdmins(ctx context.Context) ([]model.User, error) {
	if m.listAdminsFn != nil {
		return m.listAdminsFn(ctx)
	}
	return nil, nil
}

type mockWriter struct {
	mu            sync.Mutex
	batches       map[string][]model.Notification
	createBatchFn func(audience string, n []model.Notification) error
}

func (m *mockWriter) CreateBatch(_ context.Context, audience string, n []model.Notification) error {
	if m.createBatchFn != nil {
		if err := m.createBatchFn(audience, n); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.batches == nil {
		m.batches = map[string][]model.Notification{}
	}
	m.batches[audience] = append(m.batches[audience], n...)
	return nil
}

func (m *mockWriter) recipients(audience string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for _, n := range m.batches[audience] {
		ids = append(ids, n.RecipientID)
	}
	return ids
}

type mockPusher struct {
	mu     sync.Mutex
	pushed []delivery.PushMessage
	pushFn func(ctx context.Context, msg delivery.PushMessage) error
}

func (m *mockPusher) Push(ctx context.Context, msg delivery.PushMessage) error {
	m.mu.Lock()
	m.pushed = append(m.pushed, msg)
	m.mu.Unlock()
	if m.pushFn != nil {
		return m.pushFn(ctx, msg)
	}
	return nil
}

func (m *mockPusher) messages() []delivery.PushMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]delivery.PushMessage(nil), m.pushed...)
}

type mockEmailer struct {
	mu   sync.Mutex
	sent []delivery.Email
}

func (m *mockEmailer) Send(_ context.Context, email delivery.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, email)
	return nil
}
