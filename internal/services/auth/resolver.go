// Package auth resolves a telegram identity to its directory role.
package auth

import (
	"context"
	"fmt"

	"github.com/carlosmaximiano-creator/anf-labour-bot/internal/models"
)

// Directory is the user lookup the resolver depends on.
type Directory interface {
	FindByTelegramID(ctx context.Context, telegramID string) (*models.User, error)
}

// Resolver answers "who is this id and what may they do".
type Resolver struct {
	directory Directory
}

func NewResolver(directory Directory) *Resolver {
	return &Resolver{directory: directory}
}

// Resolve looks the id up in the directory. An unknown id resolves to
// RoleNone with an empty name; only a directory failure is an error.
func (r *Resolver) Resolve(ctx context.Context, telegramID string) (models.Role, string, error) {
	user, err := r.directory.FindByTelegramID(ctx, telegramID)
	if err != nil {
		return models.RoleNone, "", fmt.Errorf("resolve %s: %w", telegramID, err)
	}
	if user == nil {
		return models.RoleNone, "", nil
	}
	return user.Role, user.Name, nil
}
