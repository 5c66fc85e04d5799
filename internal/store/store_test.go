package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeatlas/internal/diagram"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "diagrams.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func payload(kind string) diagram.Payload {
	return diagram.Payload{
		ID:     "id-" + kind,
		Type:   kind,
		Title:  "Title " + kind,
		Markup: "graph LR\n",
		Metadata: map[string]any{
			"node_count": float64(3),
		},
	}
}

func TestPutGet(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "demo", payload("dependency_flat")))

	got, err := s.Get(ctx, "demo", "dependency_flat")
	require.NoError(t, err)
	assert.Equal(t, payload("dependency_flat"), got)
}

func TestPutReplaces(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	p := payload("dependency_flat")
	require.NoError(t, s.Put(ctx, "demo", p))

	p.Markup = "graph TD\n"
	require.NoError(t, s.Put(ctx, "demo", p))

	got, err := s.Get(ctx, "demo", "dependency_flat")
	require.NoError(t, err)
	assert.Equal(t, "graph TD\n", got.Markup)

	records, err := s.List(ctx, "demo")
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestGetMissing(t *testing.T) {
	s := testStore(t)

	_, err := s.Get(context.Background(), "demo", "directory_tree")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListScopedToProject(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "demo", payload("dependency_flat")))
	require.NoError(t, s.Put(ctx, "demo", payload("directory_tree")))
	require.NoError(t, s.Put(ctx, "other", payload("dependency_flat")))

	records, err := s.List(ctx, "demo")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "dependency_flat", records[0].Payload.Type)
	assert.Equal(t, "directory_tree", records[1].Payload.Type)
	assert.False(t, records[0].StoredAt.IsZero())
}
