package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/marketdash/internal/domain"
)

func TestDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  ClientConfig
		want string
	}{
		{
			name: "explicit dsn wins",
			cfg:  ClientConfig{DSN: " postgres://u@db/x ", Host: "ignored"},
			want: "postgres://u@db/x",
		},
		{
			name: "defaults",
			cfg:  ClientConfig{Host: "localhost", Database: "postgres", User: "postgres"},
			want: "postgres://postgres@localhost:5432/postgres?sslmode=disable",
		},
		{
			name: "escaped password",
			cfg: ClientConfig{
				Host: "db", Port: 6543, Database: "dash", User: "app",
				Password: "p@ss/word", SSLMode: "require",
			},
			want: "postgres://app:p%40ss%2Fword@db:6543/dash?sslmode=require",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DSN(tc.cfg))
		})
	}
}

func TestMigrationNames(t *testing.T) {
	names, err := migrationNames()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "001_export_log.sql", names[0])
	assert.IsNonDecreasing(t, names)
}

// newTestClient connects to MARKETDASH_TEST_POSTGRES_DSN or skips.
func newTestClient(t *testing.T) *Client {
	t.Helper()
	dsn := os.Getenv("MARKETDASH_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("MARKETDASH_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	c, err := New(ctx, ClientConfig{DSN: dsn, MaxConns: 2})
	require.NoError(t, err)
	t.Cleanup(c.Close)
	require.NoError(t, c.RunMigrations(ctx))
	return c
}

func TestExportLogStore_Integration(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	store := NewExportLogStore(c.Pool())

	// Migrations are idempotent.
	require.NoError(t, c.RunMigrations(ctx))
	require.NoError(t, c.Health(ctx))

	base := time.Now().UTC().Add(time.Hour).Truncate(time.Second)
	older := domain.ExportRecord{
		ID: uuid.NewString(), Format: domain.ExportFormatJSON,
		Filename: "polymarket_markets_a.json", Location: "/tmp/a.json",
		Records: 3, Bytes: 120, CreatedAt: base,
	}
	newer := domain.ExportRecord{
		ID: uuid.NewString(), Format: domain.ExportFormatCSV,
		Filename: "polymarket_markets_b.csv", Location: "s3://b/exports/b.csv",
		Records: 1, Bytes: 40,
		Criteria:  domain.FilterCriteria{Search: "btc", Category: "crypto", ActiveOnly: true},
		CreatedAt: base.Add(time.Minute),
	}
	require.NoError(t, store.Record(ctx, older))
	require.NoError(t, store.Record(ctx, newer))
	t.Cleanup(func() {
		_, _ = c.Pool().Exec(ctx, "DELETE FROM export_log WHERE id = ANY($1)", []string{older.ID, newer.ID})
	})

	recs, err := store.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, newer.ID, recs[0].ID)
	assert.Equal(t, older.ID, recs[1].ID)
	assert.Equal(t, newer.Criteria, recs[0].Criteria)
	assert.Equal(t, domain.ExportFormatCSV, recs[0].Format)
	assert.True(t, newer.CreatedAt.Equal(recs[0].CreatedAt))

	err = store.Record(ctx, older)
	assert.Error(t, err, "duplicate id must be rejected")
}
