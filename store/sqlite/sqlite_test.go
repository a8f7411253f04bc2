package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/pvf-engine/pvf"
	"github.com/warp/pvf-engine/roster"
	"github.com/warp/pvf-engine/store/sqlite"
	"github.com/warp/pvf-engine/store/storetest"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.New()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) roster.Store {
		return newTestStore(t)
	})
}

func TestNew_DatabasesArePrivate(t *testing.T) {
	// GIVEN: Two stores open at once
	a := newTestStore(t)
	b := newTestStore(t)
	ctx := context.Background()

	// WHEN: Writing to one
	require.NoError(t, a.SaveEmployees(ctx, []pvf.EmployeeRecord{{EmployeeID: 1, FirstName: "Somchai"}}))

	// THEN: The other stays empty
	list, err := b.ListEmployees(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
