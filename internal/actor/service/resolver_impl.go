package service

import (
	"context"
	"errors"

	"github.com/craftline/projectledger/internal/actor/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB  *gorm.DB
	Log *zap.Logger
}

type Resolver struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewResolver(p Params) domain.Resolver {
	return &Resolver{
		db:  p.DB,
		log: p.Log.Named("actor.resolver"),
	}
}

func (r *Resolver) Resolve(ctx context.Context) (domain.Actor, error) {
	if id, ok := domain.ActorIDFromContext(ctx); ok {
		var user domain.User
		err := r.db.WithContext(ctx).Where("id = ? AND active = ?", id, true).First(&user).Error
		if err == nil {
			return domain.Actor{ID: user.ID, Name: user.Name, Role: user.Role}, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Actor{}, err
		}
		r.log.Debug("actor from context not found, falling back to first active admin")
	}

	return r.firstActiveAdmin(ctx)
}

func (r *Resolver) firstActiveAdmin(ctx context.Context) (domain.Actor, error) {
	var admin domain.User
	err := r.db.WithContext(ctx).
		Where("role = ? AND active = ?", domain.RoleAdmin, true).
		Order("created_at asc").
		First(&admin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Actor{}, domain.ErrNoActiveAdmin
		}
		return domain.Actor{}, err
	}
	return domain.Actor{ID: admin.ID, Name: admin.Name, Role: admin.Role}, nil
}
