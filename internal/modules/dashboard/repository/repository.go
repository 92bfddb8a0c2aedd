package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"sort"

	"revcam-dashboard/internal/modules/dashboard/types"
)

//go:embed sql/get-settings.sql
var getSettingsSQL string

//go:embed sql/upsert-setting.sql
var upsertSettingSQL string

type SettingsRepository interface {
	GetAll(ctx context.Context) (map[string]string, error)
	GetSettings(ctx context.Context) (types.Settings, error)
	SaveSettings(ctx context.Context, s types.Settings) error
}

type repositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) SettingsRepository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) GetAll(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, getSettingsSQL)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close settings rows", "error", err)
		}
	}()
	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, rows.Err()
}

// GetSettings reads stored values over the defaults. Stored settings that
// do not parse or validate are replaced by the defaults.
func (r *repositoryImpl) GetSettings(ctx context.Context) (types.Settings, error) {
	m, err := r.GetAll(ctx)
	if err != nil {
		return types.Settings{}, err
	}
	s, err := types.SettingsFromMap(m)
	if err == nil {
		err = s.Validate()
	}
	if err != nil {
		slog.Warn("stored settings invalid, using defaults", "error", err)
		return types.DefaultSettings(), nil
	}
	return s, nil
}

// SaveSettings validates s and writes every key in one transaction.
func (r *repositoryImpl) SaveSettings(ctx context.Context, s types.Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	m := s.ToMap()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, upsertSettingSQL)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, k := range keys {
		if _, err := stmt.ExecContext(ctx, k, m[k]); err != nil {
			return fmt.Errorf("upsert %s: %w", k, err)
		}
	}
	return tx.Commit()
}
