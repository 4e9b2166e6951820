package models

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/wakatop/wakatop/internal/database/dbretry"
	"github.com/wakatop/wakatop/internal/database/types"
	"go.uber.org/zap"
)

// UserModel handles database operations for registered users.
type UserModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewUser creates a new user model.
func NewUser(db *bun.DB, logger *zap.Logger) *UserModel {
	return &UserModel{
		db:     db,
		logger: logger.Named("db_user"),
	}
}

// UpsertContact saves or updates a user's username, creating the row on first
// contact. The WakaTime key is left untouched.
func (m *UserModel) UpsertContact(ctx context.Context, discordID uint64, username string) error {
	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		user := &types.User{
			DiscordID: discordID,
			Username:  username,
		}

		_, err := m.db.NewInsert().
			Model(user).
			On("CONFLICT (discord_id) DO UPDATE").
			Set("username = EXCLUDED.username").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to upsert contact: %w", err)
		}

		return nil
	})
}

// SetAPIKey saves or updates a user's WakaTime API key along with their
// current username.
func (m *UserModel) SetAPIKey(ctx context.Context, discordID uint64, username, wakaKey string) error {
	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		user := &types.User{
			DiscordID: discordID,
			Username:  username,
			WakaKey:   wakaKey,
		}

		_, err := m.db.NewInsert().
			Model(user).
			On("CONFLICT (discord_id) DO UPDATE").
			Set("username = EXCLUDED.username").
			Set("waka_key = EXCLUDED.waka_key").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to set API key: %w", err)
		}

		return nil
	})
}

// GetAllUsers returns every registered user ordered by Discord ID. Callers
// are responsible for filtering out users without an API key.
func (m *UserModel) GetAllUsers(ctx context.Context) ([]*types.User, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.User, error) {
		var users []*types.User

		err := m.db.NewSelect().
			Model(&users).
			Order("discord_id ASC").
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get users: %w", err)
		}

		return users, nil
	})
}
