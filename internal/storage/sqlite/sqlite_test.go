package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/zookeepr/internal/record"
)

func openTemp(t *testing.T) (*SQLite, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "zookeepr.db")
	s, err := New(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func TestLoad_UnsavedCollectionIsEmpty(t *testing.T) {
	s, _ := openTemp(t)

	got, err := s.Load(context.Background(), record.Zookeeper)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSave_RoundTripAndReplace(t *testing.T) {
	s, _ := openTemp(t)
	ctx := context.Background()

	first := []record.Record{
		{"id": "0", "name": "Kim", "age": float64(40)},
		{"id": "1", "name": "Noel", "age": float64(89), "favoriteAnimal": "dog"},
	}
	require.NoError(t, s.Save(ctx, record.Zookeeper, first))

	got, err := s.Load(ctx, record.Zookeeper)
	require.NoError(t, err)
	assert.Equal(t, first, got)

	require.NoError(t, s.Save(ctx, record.Zookeeper, first[:1]))
	got, err = s.Load(ctx, record.Zookeeper)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	var rows int
	require.NoError(t, s.Db.QueryRow("SELECT COUNT(*) FROM collections").Scan(&rows))
	assert.Equal(t, 1, rows)
}

func TestNew_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage", "nested", "zookeepr.db")

	s, err := New(path)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Save(context.Background(), record.Zookeeper, nil))
	assert.FileExists(t, path)
}

func TestSave_PersistsAcrossReopen(t *testing.T) {
	s, path := openTemp(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, record.Animal, []record.Record{
		{"id": "0", "name": "Ringo", "species": "cat", "diet": "carnivore", "personalityTraits": []any{}},
	}))
	require.NoError(t, s.Close())

	reopened, err := New(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Load(ctx, record.Animal)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Ringo", got[0]["name"])

	// Collections do not bleed into each other.
	keepers, err := reopened.Load(ctx, record.Zookeeper)
	require.NoError(t, err)
	assert.Empty(t, keepers)
}
