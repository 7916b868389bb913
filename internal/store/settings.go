package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

const settingsTableName = "settings"

type settingsRepo struct {
	db *sql.DB
}

func (r *settingsRepo) Get(ctx context.Context, name string) (string, bool, error) {
	query, args := builder().Select("value").
		From(entsql.Table(settingsTableName)).
		Where(entsql.EQ("name", name)).
		Query()

	var value string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get setting %q: %w", name, err)
	}
	return value, true, nil
}

func (r *settingsRepo) Set(ctx context.Context, name, value string) error {
	query, args := builder().Insert(settingsTableName).
		Columns("name", "value", "updated_at").
		Values(name, value, time.Now().UTC()).
		OnConflict(
			entsql.ConflictColumns("name"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set setting %q: %w", name, err)
	}
	return nil
}

func (r *settingsRepo) Delete(ctx context.Context, name string) error {
	query, args := builder().Delete(settingsTableName).
		Where(entsql.EQ("name", name)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete setting %q: %w", name, err)
	}
	return nil
}
