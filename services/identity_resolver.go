package services

import (
	"context"
	"strings"

	"github.com/yeremiapane/restaurant-orders/models"
)

// IdentityResolver maps a login identifier, email or phone, to a user.
type IdentityResolver struct {
	users UserStore
}

func NewIdentityResolver(users UserStore) *IdentityResolver {
	return &IdentityResolver{users: users}
}

func (r *IdentityResolver) Resolve(ctx context.Context, identifier string) (*models.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, models.NewNotFoundError("user", identifier)
	}
	return r.users.FindByEmailOrPhone(ctx, identifier)
}
