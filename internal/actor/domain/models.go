// Package domain resolves the acting identity for audit fields.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	RoleAdmin          = "admin"
	RoleProjectManager = "project_manager"
	RoleSales          = "sales"
)

// User is a minimal staff record; only what actor resolution needs.
type User struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"type:text;not null" json:"name"`
	Email     string       `gorm:"type:text;not null;uniqueIndex" json:"email"`
	Role      string       `gorm:"type:text;not null;default:'admin'" json:"role"`
	Active    bool         `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }

// Actor is the resolved acting identity stamped onto audit fields.
type Actor struct {
	ID   snowflake.ID
	Name string
	Role string
}

// Resolver resolves the acting identity for the current request. When the
// request carries no usable identity it falls back to the first active
// admin — an intentional, documented default, not an error path.
type Resolver interface {
	Resolve(ctx context.Context) (Actor, error)
}

var ErrNoActiveAdmin = errors.New("no active admin to attribute the change to")

type actorIDKey struct{}

// WithActorID stores the acting user's ID in the context.
func WithActorID(ctx context.Context, id snowflake.ID) context.Context {
	return context.WithValue(ctx, actorIDKey{}, id)
}

// ActorIDFromContext returns the acting user's ID from context, if set.
func ActorIDFromContext(ctx context.Context) (snowflake.ID, bool) {
	if ctx == nil {
		return 0, false
	}
	id, ok := ctx.Value(actorIDKey{}).(snowflake.ID)
	return id, ok && id != 0
}
