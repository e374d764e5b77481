package audit

import (
	"context"
	"testing"

	"cafe-pos/internal/auth"
	"cafe-pos/internal/database/dbtest"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_WithAndWithoutActor(t *testing.T) {
	ctx := context.Background()
	l := New(dbtest.Open(t), zerolog.Nop())

	l.Record(ctx, nil, "Customer Order", "New order #1")
	l.Record(ctx, &auth.Identity{ID: 1, Name: "Haidar"}, "Archive Order", "Archived order #1")

	entries, err := l.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// newest first
	assert.Equal(t, "Archive Order", entries[0].Action)
	require.NotNil(t, entries[0].UserID)
	assert.Equal(t, uint(1), *entries[0].UserID)
	assert.Equal(t, "Haidar", entries[0].UserName)

	assert.Nil(t, entries[1].UserID)
	assert.Equal(t, SystemActor, entries[1].UserName)
	assert.False(t, entries[1].Timestamp.IsZero())
}

func TestClear_LeavesOwnEntry(t *testing.T) {
	ctx := context.Background()
	l := New(dbtest.Open(t), zerolog.Nop())
	admin := &auth.Identity{ID: 1, Name: "Haidar"}

	for i := 0; i < 3; i++ {
		l.Record(ctx, admin, "Update Stock", "x")
	}
	require.NoError(t, l.Clear(ctx, admin))

	entries, err := l.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Clear Audit Logs", entries[0].Action)
}

func TestRecord_StorageFailureIsSwallowed(t *testing.T) {
	db := dbtest.Open(t)
	l := New(db, zerolog.Nop())
	require.NoError(t, db.Migrator().DropTable("audit_logs"))

	assert.NotPanics(t, func() {
		l.Record(context.Background(), nil, "Customer Order", "lost")
	})
}
