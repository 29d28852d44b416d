package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := openDSN(context.Background(), fmt.Sprintf("file:test_%s?mode=memory&cache=shared&%s", name, pragmas))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func newTestStorage(t *testing.T, ttl time.Duration, now func() time.Time) *SessionStorage {
	t.Helper()

	db := openTestDB(t)
	w := NewWorker(db)
	t.Cleanup(w.Close)

	s := NewSessionStorage(db, w, ttl)
	if now != nil {
		s.nowFunc = now
	}

	return s
}
