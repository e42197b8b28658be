package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	merr "github.com/matzehuels/meru/pkg/errors"
	"github.com/matzehuels/meru/pkg/scene"
)

func testScene(t *testing.T, p scene.Params) *scene.Scene {
	t.Helper()
	sc, err := scene.Generate(p)
	require.NoError(t, err)
	return sc
}

// runStoreContract exercises behaviour every backend must share.
func runStoreContract(t *testing.T, st Store) {
	ctx := context.Background()

	tri := NewRecord(testScene(t, scene.Params{Kind: scene.KindTriangle, Rows: 6}), "six rows")
	tri.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tree := NewRecord(testScene(t, scene.Params{Kind: scene.KindTree, Depth: 3}), "")
	tree.CreatedAt = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, st.Put(ctx, tri))
	require.NoError(t, st.Put(ctx, tree))

	got, err := st.Get(ctx, tri.ID)
	require.NoError(t, err)
	assert.Equal(t, "six rows", got.Name)
	assert.Equal(t, tri.Scene.Rows, got.Scene.Rows)
	assert.True(t, tri.CreatedAt.Equal(got.CreatedAt))

	list, err := st.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, tree.ID, list[0].ID, "newest first")
	assert.Equal(t, scene.KindTree, list[0].Kind)
	assert.Equal(t, scene.KindTriangle, list[1].Kind)

	list, err = st.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	tri.Name = "renamed"
	require.NoError(t, st.Put(ctx, tri))
	got, err = st.Get(ctx, tri.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name)

	require.NoError(t, st.Delete(ctx, tri.ID))
	_, err = st.Get(ctx, tri.ID)
	assert.True(t, merr.Is(err, merr.ErrCodeNotFound), "got %v", err)
	assert.NoError(t, st.Delete(ctx, tri.ID), "deleting twice is fine")

	_, err = st.Get(ctx, "../etc/passwd")
	assert.True(t, merr.Is(err, merr.ErrCodeInvalidPath))
	assert.True(t, merr.Is(st.Put(ctx, &Record{ID: "x"}), merr.ErrCodeInvalidArgument))
}

func TestFileStore(t *testing.T) {
	st, err := NewFileStore(filepath.Join(t.TempDir(), "scenes"))
	require.NoError(t, err)
	defer st.Close()

	runStoreContract(t, st)
}

func TestFileStoreSkipsCorruptFiles(t *testing.T) {
	st, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(st.Path(), "bad.json"), []byte("{"), 0644))
	rec := NewRecord(testScene(t, scene.Params{Kind: scene.KindPatterns, Length: 2}), "")
	require.NoError(t, st.Put(context.Background(), rec))

	list, err := st.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = st.Get(context.Background(), "bad")
	assert.True(t, merr.Is(err, merr.ErrCodeInvalidFormat))
}

func TestFileStoreDefaultDir(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	st, err := NewFileStore("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(os.Getenv("XDG_DATA_HOME"), "meru", "scenes"), st.Path())
}

func TestNewRecord(t *testing.T) {
	a := NewRecord(&scene.Scene{Kind: scene.KindTriangle, Title: "t"}, "n")
	b := NewRecord(&scene.Scene{Kind: scene.KindTriangle}, "")
	assert.NotEqual(t, a.ID, b.ID)
	assert.Len(t, a.ID, 36)
	assert.NoError(t, merr.ValidateSceneID(a.ID))

	s := a.Summary()
	assert.Equal(t, scene.KindTriangle, s.Kind)
	assert.Equal(t, "t", s.Title)
	assert.Equal(t, "n", s.Name)
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("MERU_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("MERU_TEST_MONGO_URI not set")
	}
	ctx := context.Background()
	st, err := NewMongoStore(ctx, MongoConfig{
		URI:        uri,
		Database:   "meru_test",
		Collection: "scenes_" + time.Now().Format("20060102150405"),
	})
	require.NoError(t, err)
	defer func() {
		_ = st.coll.Drop(ctx)
		st.Close()
	}()

	runStoreContract(t, st)
}

func TestMongoStoreRequiresURI(t *testing.T) {
	_, err := NewMongoStore(context.Background(), MongoConfig{})
	assert.True(t, merr.Is(err, merr.ErrCodeInvalidConfig))
}
