package docstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/dshills/pixelplay/internal/engine/grid"
	"github.com/dshills/pixelplay/internal/project"
	"github.com/dshills/pixelplay/internal/project/storetest"
)

var epoch = time.UnixMilli(1_700_000_000_000)

func newProject(t *testing.T, name, owner string) *project.Project {
	t.Helper()
	g, err := grid.New(2, grid.Green)
	require.NoError(t, err)
	return project.New(name, owner, g, epoch)
}

func TestMemoryStoreContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) project.Store {
		s, err := Open("")
		require.NoError(t, err)
		return s
	})
}

func TestFileStoreContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) project.Store {
		s, err := Open(filepath.Join(t.TempDir(), "projects.json"))
		require.NoError(t, err)
		return s
	})
}

func TestDocumentShape(t *testing.T) {
	ctx := context.Background()
	s, err := Open("")
	require.NoError(t, err)

	a := newProject(t, "one", "ada")
	b := newProject(t, "two", "ada")
	c := newProject(t, "three", "bob")
	for _, p := range []*project.Project{a, b, c} {
		require.NoError(t, s.Save(ctx, p))
	}

	doc := s.Bytes()
	assert.Equal(t, int64(2), gjson.GetBytes(doc, "ada.#").Int())
	assert.Equal(t, int64(1), gjson.GetBytes(doc, "bob.#").Int())
	assert.Equal(t, "two", gjson.GetBytes(doc, "ada.1.name").String())
	assert.Equal(t, "#00FF00", gjson.GetBytes(doc, "bob.0.cells.0").String())
}

func TestOwnerKeysWithPathSyntax(t *testing.T) {
	ctx := context.Background()
	s, err := Open("")
	require.NoError(t, err)

	owners := []string{"a.b", "x*y", "who?", "odd#owner", `back\slash`}
	for _, owner := range owners {
		p := newProject(t, "art", owner)
		require.NoError(t, s.Save(ctx, p))

		list, err := s.List(ctx, owner)
		require.NoError(t, err)
		require.Len(t, list, 1, owner)
		assert.Equal(t, owner, list[0].Owner)

		got, err := s.FindByName(ctx, owner, "art")
		require.NoError(t, err)
		assert.Equal(t, p.ID, got.ID)
	}
	assert.True(t, gjson.GetBytes(s.Bytes(), `a\.b`).IsArray())
}

func TestSaveMovesBetweenOwners(t *testing.T) {
	ctx := context.Background()
	s, err := Open("")
	require.NoError(t, err)

	p := newProject(t, "gift", "ada")
	require.NoError(t, s.Save(ctx, p))
	p.Owner = "bob"
	require.NoError(t, s.Save(ctx, p))

	ada, err := s.List(ctx, "ada")
	require.NoError(t, err)
	assert.Empty(t, ada)
	assert.False(t, gjson.GetBytes(s.Bytes(), "ada").Exists())

	bob, err := s.List(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, bob, 1)
	assert.Equal(t, p.ID, bob[0].ID)
}

func TestPersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "projects.json")

	s, err := Open(path)
	require.NoError(t, err)
	p := newProject(t, "keep", "ada")
	require.NoError(t, s.Save(ctx, p))
	require.NoError(t, s.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, gjson.ValidBytes(data))

	s, err = Open(path)
	require.NoError(t, err)
	got, err := s.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files are cleaned up")
}

func TestOpenEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.json")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	s, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(s.Bytes()))
}

func TestOpenCorrupt(t *testing.T) {
	for _, data := range []string{"{not json", "[1, 2]", `"text"`} {
		path := filepath.Join(t.TempDir(), "projects.json")
		require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

		_, err := Open(path)
		assert.ErrorIs(t, err, ErrCorrupt, data)
	}
}

func TestListRejectsInvalidRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"ada":[{"id":"x","name":"n"}]}`), 0o644))

	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.List(context.Background(), "ada")
	assert.ErrorIs(t, err, project.ErrInvalidProject)
}

func TestEscapeKey(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"ada", "ada"},
		{"a.b", `a\.b`},
		{"x*y?", `x\*y\?`},
		{`a\b`, `a\\b`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, escapeKey(tt.in))
	}
}
