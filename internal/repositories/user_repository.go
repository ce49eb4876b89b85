package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/carlosmaximiano-creator/anf-labour-bot/internal/models"
)

// usersRange skips the header row. Columns: telegram_id, name, role.
const usersRange = "Users!A2:C"

// UserRepository reads the user directory sheet.
type UserRepository struct {
	store SheetStore
}

func NewUserRepository(store SheetStore) *UserRepository {
	return &UserRepository{store: store}
}

// FindByTelegramID scans the directory for an id. Absence is a normal
// outcome and returns (nil, nil); only a store failure is an error.
func (r *UserRepository) FindByTelegramID(ctx context.Context, telegramID string) (*models.User, error) {
	rows, err := r.store.ReadRange(ctx, usersRange)
	if err != nil {
		return nil, fmt.Errorf("read users: %w", err)
	}

	id := strings.TrimSpace(telegramID)
	for _, row := range rows {
		if strings.TrimSpace(cell(row, 0)) != id {
			continue
		}
		return &models.User{
			TelegramID: id,
			Name:       strings.TrimSpace(cell(row, 1)),
			Role:       models.ParseRole(strings.TrimSpace(cell(row, 2))),
		}, nil
	}
	return nil, nil
}
