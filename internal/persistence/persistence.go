package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dbfixture"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"gopkg.in/yaml.v3"

	"admindash/auth"
	"admindash/internal/content"
)

// Open connects to the database for the given DSN and returns a bun handle
// with all models registered.
func Open(ctx context.Context, dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := sqldb.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())
	db.RegisterModel(
		(*auth.User)(nil),
		(*content.Post)(nil),
		(*content.Quote)(nil),
	)

	return db, nil
}

// Migrate creates the schema. Tables and indexes are created only when
// missing so repeated startups are safe.
func Migrate(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*auth.User)(nil),
		(*content.Post)(nil),
		(*content.Quote)(nil),
	}

	for _, model := range models {
		if _, err := db.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}

	indexes := []struct {
		name   string
		model  any
		column string
		unique bool
	}{
		{"idx_users_username", (*auth.User)(nil), "username", true},
		{"idx_users_email", (*auth.User)(nil), "email", true},
		{"idx_posts_status", (*content.Post)(nil), "status", false},
	}

	for _, idx := range indexes {
		q := db.NewCreateIndex().
			Model(idx.model).
			IfNotExists().
			Index(idx.name).
			Column(idx.column)
		if idx.unique {
			q = q.Unique()
		}
		if _, err := q.Exec(ctx); err != nil {
			return fmt.Errorf("create index %s: %w", idx.name, err)
		}
	}

	return nil
}

// SeedUsers loads the user seed file and registers each entry through the
// registration handler so seeded accounts get the same hashing and
// validation as live signups. Entries that already exist are skipped.
func SeedUsers(ctx context.Context, path string, handler *auth.RegisterUserHandler, logger auth.Logger) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed users %s: %w", path, err)
	}

	var seeds []auth.RegisterUserMessage
	if err := yaml.Unmarshal(data, &seeds); err != nil {
		return fmt.Errorf("parse seed users %s: %w", path, err)
	}

	for _, seed := range seeds {
		if _, err := handler.Execute(ctx, seed); err != nil {
			if auth.IsDuplicateIdentifier(err) {
				continue
			}
			return fmt.Errorf("seed user %s: %w", seed.Username, err)
		}
		if logger != nil {
			logger.Info("seeded user %s", seed.Username)
		}
	}

	return nil
}

// LoadFixtures loads content fixtures from the given YAML file.
func LoadFixtures(ctx context.Context, db *bun.DB, path string) error {
	if path == "" {
		return nil
	}

	dir := filepath.Dir(path)
	file := filepath.Base(path)

	fixture := dbfixture.New(db, dbfixture.WithTruncateTables())
	if err := fixture.Load(ctx, os.DirFS(dir), file); err != nil {
		return fmt.Errorf("load fixtures %s: %w", path, err)
	}

	return nil
}
