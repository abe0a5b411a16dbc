// Package testutil holds helpers shared by package tests.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nhle/jira-issues/internal/store"
)

// NewTestStore opens an in-memory history store with every migration
// applied and closes it when the test ends.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err, "opening history store")

	t.Cleanup(func() {
		require.NoError(t, s.Close(), "closing history store")
	})

	return s
}
