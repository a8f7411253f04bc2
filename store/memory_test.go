package store_test

import (
	"testing"

	"github.com/warp/pvf-engine/roster"
	"github.com/warp/pvf-engine/store"
	"github.com/warp/pvf-engine/store/storetest"
)

func TestMemory(t *testing.T) {
	storetest.Run(t, func(t *testing.T) roster.Store {
		return store.NewMemory()
	})
}
