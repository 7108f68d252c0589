// Package notify writes in-app notifications to a set of users and fires the
// best-effort push and email side effects.
package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"constructhub/internal/delivery"
	"constructhub/internal/model"
	"constructhub/pkg/logger"
	"constructhub/pkg/metrics"
)

const (
	AudienceUsers  = "users"
	AudienceAdmins = "admins"

	resolveConcurrency = 16
)

// UserDirectory resolves user references.
type UserDirectory interface {
	Resolve(ctx context.Context, ref model.UserRef) (*model.User, error)
	ListAdmins(ctx context.Context) ([]model.User, error)
}

// NotificationWriter stores a set of notifications atomically.
type NotificationWriter interface {
	CreateBatch(ctx context.Context, audience string, notifications []model.Notification) error
}

type Pusher interface {
	Push(ctx context.Context, msg delivery.PushMessage) error
}

type Emailer interface {
	Send(ctx context.Context, email delivery.Email) error
}

// Request describes one fan-out.
type Request struct {
	UserRefs      []model.UserRef `json:"userRefs"`
	IncludeAdmins bool            `json:"includeAdmins"`
	Title         string          `json:"title"`
	Body          string          `json:"body"`
	Type          string          `json:"type"`
	RelatedID     string          `json:"relatedId,omitempty"`
	ProjectID     string          `json:"projectId,omitempty"`
	ActionURL     string          `json:"actionUrl,omitempty"`
	// SenderID is never notified.
	SenderID  string `json:"senderId,omitempty"`
	SendEmail bool   `json:"sendEmail"`
}

type Service struct {
	users   UserDirectory
	writer  NotificationWriter
	pusher  Pusher
	emailer Emailer
	logger  *zap.Logger

	now             func() time.Time
	deliveryTimeout time.Duration

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewService wires the fan-out. pusher and emailer may be nil.
func NewService(users UserDirectory, writer NotificationWriter, pusher Pusher, emailer Emailer, logger *zap.Logger) *Service {
	return &Service{
		users:           users,
		writer:          writer,
		pusher:          pusher,
		emailer:         emailer,
		logger:          logger,
		now:             time.Now,
		deliveryTimeout: 10 * time.Second,
	}
}

// WithClock replaces the time source used for createdAt.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// WithDeliveryTimeout bounds each detached push/email call.
func (s *Service) WithDeliveryTimeout(d time.Duration) *Service {
	s.deliveryTimeout = d
	return s
}

// FanOut notifies every resolvable, enabled user in req.UserRefs (and the
// admins when asked) and returns the number of unique recipients written.
// Push and email run detached; their failures are only logged. When the
// admin batch fails after the user batch succeeded, the user count is
// returned together with the error.
func (s *Service) FanOut(ctx context.Context, req Request) (int, error) {
	log := logger.WithTrace(ctx, s.logger).With(
		zap.String("type", req.Type),
		zap.String("related_id", req.RelatedID),
	)

	resolved := s.resolve(ctx, log, req.UserRefs)
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	seen := make(map[string]struct{}, len(resolved))
	var recipients []model.User
	for _, u := range resolved {
		if u == nil || !s.eligible(*u, req.SenderID, seen) {
			continue
		}
		seen[u.ID] = struct{}{}
		recipients = append(recipients, *u)
	}

	if len(recipients) > 0 {
		if err := s.writer.CreateBatch(ctx, AudienceUsers, s.build(req, recipients)); err != nil {
			log.Error("Failed to write user notifications", zap.Int("recipients", len(recipients)), zap.Error(err))
			return 0, fmt.Errorf("write user notifications: %w", err)
		}
	}
	count := len(recipients)

	if req.IncludeAdmins {
		admins, err := s.admins(ctx, req.SenderID, seen)
		if err == nil && len(admins) > 0 {
			err = s.writer.CreateBatch(ctx, AudienceAdmins, s.build(req, admins))
			if err == nil {
				recipients = append(recipients, admins...)
				count += len(admins)
			}
		}
		if err != nil {
			log.Error("Failed to notify admins", zap.Int("already_notified", count), zap.Error(err))
			s.deliver(ctx, log, req, recipients)
			return count, fmt.Errorf("notify admins: %w", err)
		}
	}

	metrics.ObserveFanOut(count)
	log.Info("Fan-out completed",
		zap.Int("refs", len(req.UserRefs)),
		zap.Int("recipients", count),
	)

	s.deliver(ctx, log, req, recipients)
	return count, nil
}

// Wait blocks until detached push and email calls have finished. Deliveries
// requested after Wait has started are dropped.
func (s *Service) Wait() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Service) resolve(ctx context.Context, log *zap.Logger, refs []model.UserRef) []*model.User {
	out := make([]*model.User, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(resolveConcurrency)
	for i, ref := range refs {
		if ref.ID() == "" {
			continue
		}
		g.Go(func() error {
			u, err := s.users.Resolve(gctx, ref)
			if err != nil {
				log.Debug("Skipping unresolved user ref", zap.String("ref", string(ref)), zap.Error(err))
				return nil
			}
			out[i] = u
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func (s *Service) admins(ctx context.Context, senderID string, seen map[string]struct{}) ([]model.User, error) {
	all, err := s.users.ListAdmins(ctx)
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	var admins []model.User
	for _, a := range all {
		if !s.eligible(a, senderID, seen) {
			continue
		}
		seen[a.ID] = struct{}{}
		admins = append(admins, a)
	}
	return admins, nil
}

func (s *Service) eligible(u model.User, senderID string, seen map[string]struct{}) bool {
	if u.ID == "" || u.Disabled {
		return false
	}
	if senderID != "" && u.ID == senderID {
		return false
	}
	_, dup := seen[u.ID]
	return !dup
}

func (s *Service) build(req Request, users []model.User) []model.Notification {
	createdAt := model.NewTimestamp(s.now().UTC())
	out := make([]model.Notification, 0, len(users))
	for _, u := range users {
		out = append(out, model.Notification{
			RecipientID: u.ID,
			Title:       req.Title,
			Body:        req.Body,
			Type:        req.Type,
			CreatedAt:   createdAt,
			RelatedID:   req.RelatedID,
			ProjectID:   req.ProjectID,
			ActionURL:   req.ActionURL,
		})
	}
	return out
}

func (s *Service) deliver(ctx context.Context, log *zap.Logger, req Request, recipients []model.User) {
	if len(recipients) == 0 {
		return
	}

	if s.pusher != nil {
		ids := make([]string, len(recipients))
		for i, u := range recipients {
			ids[i] = u.ID
		}
		msg := delivery.PushMessage{Title: req.Title, Body: req.Body, UserIDs: ids, ActionURL: req.ActionURL}
		s.detach(ctx, func(ctx context.Context) {
			if err := s.pusher.Push(ctx, msg); err != nil {
				log.Warn("Push delivery failed", zap.Int("recipients", len(ids)), zap.Error(err))
			}
		})
	}

	if req.SendEmail && s.emailer != nil {
		s.detach(ctx, func(ctx context.Context) {
			var errs []error
			for _, u := range recipients {
				if u.Email == "" {
					continue
				}
				err := s.emailer.Send(ctx, delivery.Email{To: u.Email, Subject: req.Title, Message: req.Body, Name: u.Name})
				if err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", u.ID, err))
				}
			}
			if err := errors.Join(errs...); err != nil {
				log.Warn("Email delivery failed", zap.Int("failed", len(errs)), zap.Error(err))
			}
		})
	}
}

// detach runs fn outside the caller's cancellation, bounded by deliveryTimeout.
func (s *Service) detach(ctx context.Context, fn func(ctx context.Context)) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		logger.WithTrace(ctx, s.logger).Warn("Delivery dropped during shutdown")
		return
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.deliveryTimeout)
		defer cancel()
		fn(ctx)
	}()
}
