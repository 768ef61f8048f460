package auth_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"admindash/auth"
)

// setupDB opens a private in-memory database and creates the users table.
func setupDB(t *testing.T) *bun.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	require.NoError(t, err)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	_, err = db.NewCreateTable().
		Model((*auth.User)(nil)).
		IfNotExists().
		Exec(context.Background())
	require.NoError(t, err)

	for _, column := range []string{"username", "email"} {
		_, err = db.NewCreateIndex().
			Model((*auth.User)(nil)).
			IfNotExists().
			Unique().
			Index("idx_users_" + column).
			Column(column).
			Exec(context.Background())
		require.NoError(t, err)
	}

	return db
}
