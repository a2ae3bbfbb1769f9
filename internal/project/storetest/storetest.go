// Package storetest checks that a project.Store behaves like every other.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/pixelplay/internal/engine/grid"
	"github.com/dshills/pixelplay/internal/project"
)

// Factory opens an empty store. The store is closed by the suite.
type Factory func(t *testing.T) project.Store

var epoch = time.UnixMilli(1_700_000_000_000)

func sample(t *testing.T, name, owner string, size int, at time.Time) *project.Project {
	t.Helper()
	g, err := grid.New(size, grid.White)
	require.NoError(t, err)
	g, err = g.Set(0, grid.Red)
	require.NoError(t, err)
	return project.New(name, owner, g, at)
}

// Run exercises open against the common Store contract.
func Run(t *testing.T, open Factory) {
	ctx := context.Background()

	t.Run("SaveAndGet", func(t *testing.T) {
		s := open(t)
		defer s.Close()

		p := sample(t, "heart", "ada", 4, epoch)
		require.NoError(t, s.Save(ctx, p))

		got, err := s.Get(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, p, got)

		g, err := got.Grid()
		require.NoError(t, err)
		c, _ := g.At(0)
		assert.Equal(t, grid.Red, c)
	})

	t.Run("GetMissing", func(t *testing.T) {
		s := open(t)
		defer s.Close()

		_, err := s.Get(ctx, "missing")
		assert.ErrorIs(t, err, project.ErrNotFound)
	})

	t.Run("SaveKeepsCreatedAt", func(t *testing.T) {
		s := open(t)
		defer s.Close()

		p := sample(t, "tree", "ada", 2, epoch)
		require.NoError(t, s.Save(ctx, p))

		later := p.Clone()
		g, err := grid.New(3, grid.Black)
		require.NoError(t, err)
		later.Update(g, epoch.Add(time.Hour))
		later.CreatedAt = epoch.Add(time.Hour).UnixMilli()
		require.NoError(t, s.Save(ctx, later))
		assert.Equal(t, p.CreatedAt, later.CreatedAt)

		got, err := s.Get(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, p.CreatedAt, got.CreatedAt)
		assert.Equal(t, epoch.Add(time.Hour).UnixMilli(), got.UpdatedAt)
		assert.Equal(t, 3, got.Size)
		assert.Len(t, got.Cells, 9)
	})

	t.Run("SaveRejectsInvalid", func(t *testing.T) {
		s := open(t)
		defer s.Close()

		tests := []struct {
			name   string
			mutate func(*project.Project)
		}{
			{"no id", func(p *project.Project) { p.ID = "" }},
			{"no name", func(p *project.Project) { p.Name = "  " }},
			{"no owner", func(p *project.Project) { p.Owner = "" }},
			{"no cells", func(p *project.Project) { p.Cells = nil }},
			{"shape mismatch", func(p *project.Project) { p.Size = 3 }},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				p := sample(t, "bad", "ada", 2, epoch)
				tt.mutate(p)
				assert.ErrorIs(t, s.Save(ctx, p), project.ErrInvalidProject)
			})
		}
	})

	t.Run("ListNewestFirstPerOwner", func(t *testing.T) {
		s := open(t)
		defer s.Close()

		old := sample(t, "old", "ada", 2, epoch)
		mid := sample(t, "mid", "ada", 2, epoch.Add(time.Minute))
		recent := sample(t, "new", "ada", 2, epoch.Add(2*time.Minute))
		other := sample(t, "theirs", "bob", 2, epoch.Add(3*time.Minute))
		for _, p := range []*project.Project{mid, other, old, recent} {
			require.NoError(t, s.Save(ctx, p))
		}

		list, err := s.List(ctx, "ada")
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, []string{"new", "mid", "old"}, []string{list[0].Name, list[1].Name, list[2].Name})

		none, err := s.List(ctx, "nobody")
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("FindByName", func(t *testing.T) {
		s := open(t)
		defer s.Close()

		first := sample(t, "cat", "ada", 2, epoch)
		second := sample(t, "cat", "ada", 2, epoch.Add(time.Minute))
		bobs := sample(t, "cat", "bob", 2, epoch.Add(time.Hour))
		for _, p := range []*project.Project{first, second, bobs} {
			require.NoError(t, s.Save(ctx, p))
		}

		got, err := s.FindByName(ctx, "ada", "cat")
		require.NoError(t, err)
		assert.Equal(t, second.ID, got.ID)

		_, err = s.FindByName(ctx, "ada", "dog")
		assert.ErrorIs(t, err, project.ErrNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		s := open(t)
		defer s.Close()

		p := sample(t, "gone", "ada", 2, epoch)
		require.NoError(t, s.Save(ctx, p))
		require.NoError(t, s.Delete(ctx, p.ID))

		_, err := s.Get(ctx, p.ID)
		assert.ErrorIs(t, err, project.ErrNotFound)
		assert.ErrorIs(t, s.Delete(ctx, p.ID), project.ErrNotFound)
	})

	t.Run("ReturnedProjectsAreCopies", func(t *testing.T) {
		s := open(t)
		defer s.Close()

		p := sample(t, "copy", "ada", 2, epoch)
		require.NoError(t, s.Save(ctx, p))
		p.Cells[1] = grid.Blue

		got, err := s.Get(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, grid.White, got.Cells[1])

		got.Cells[2] = grid.Green
		again, err := s.Get(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, grid.White, again.Cells[2])
	})

	t.Run("CancelledContext", func(t *testing.T) {
		s := open(t)
		defer s.Close()

		cctx, cancel := context.WithCancel(ctx)
		cancel()
		assert.Error(t, s.Save(cctx, sample(t, "x", "ada", 2, epoch)))
	})
}
