package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ui.json")
	s := NewStore(path, UIState{ActivePage: "products", SortField: "name"})

	assert.Equal(t, "products", s.Get().ActivePage)

	require.NoError(t, s.Update(func(st UIState) UIState {
		st.SortField = "price"
		st.SortDesc = true
		return st
	}))

	reopened := NewStore(path, UIState{})
	assert.Equal(t, "price", reopened.Get().SortField)
	assert.True(t, reopened.Get().SortDesc)
}

func TestStoreCorruptFileFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ui.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s := NewStore(path, UIState{ActivePage: "products"})
	assert.Equal(t, "products", s.Get().ActivePage)
}

func TestStoreClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ui.json")
	s := NewStore(path, UIState{ActivePage: "products"})
	require.NoError(t, s.Set(UIState{ActivePage: "sales"}))
	require.NoError(t, s.Clear())

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	assert.Equal(t, "products", s.Get().ActivePage)
}
