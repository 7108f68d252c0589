package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"constructhub/internal/model"
	"constructhub/pkg/docstore"
	"constructhub/pkg/rbac"
)

type UserRepository struct {
	store  *docstore.Store
	logger *zap.Logger
}

func NewUserRepository(store *docstore.Store, logger *zap.Logger) *UserRepository {
	return &UserRepository{store: store, logger: logger}
}

// Resolve follows a user reference ("users/<id>" or a bare id).
func (r *UserRepository) Resolve(ctx context.Context, ref model.UserRef) (*model.User, error) {
	id := ref.ID()
	if id == "" {
		return nil, fmt.Errorf("%w: empty user ref", docstore.ErrNotFound)
	}
	return r.Get(ctx, id)
}

func (r *UserRepository) Get(ctx context.Context, id string) (*model.User, error) {
	doc, err := r.store.Get(ctx, model.CollectionUsers, id)
	if err != nil {
		return nil, err
	}
	var u model.User
	if err := doc.Decode(&u); err != nil {
		return nil, err
	}
	u.ID = doc.ID
	return &u, nil
}

func (r *UserRepository) ListAdmins(ctx context.Context) ([]model.User, error) {
	r.logger.Debug("Listing admins")

	docs, err := r.store.QueryByField(ctx, model.CollectionUsers, "role", rbac.RoleAdmin)
	if err != nil {
		r.logger.Error("Failed to list admins", zap.Error(err))
		return nil, err
	}
	return decodeAll(r.logger, docs, func(u *model.User, id string) { u.ID = id }), nil
}
