package project

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/pixelplay/internal/engine/grid"
)

// Project is a saved canvas. Timestamps are Unix milliseconds.
type Project struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Owner     string       `json:"owner"`
	Size      int          `json:"size"`
	Cells     []grid.Color `json:"cells"`
	CreatedAt int64        `json:"createdAt"`
	UpdatedAt int64        `json:"updatedAt"`
}

// Store persists projects.
type Store interface {
	// Save inserts p or replaces the record with the same ID. A replaced
	// record keeps its original CreatedAt, which is copied back into p.
	Save(ctx context.Context, p *Project) error

	// Get returns the project with the given ID.
	Get(ctx context.Context, id string) (*Project, error)

	// List returns an owner's projects, most recently updated first.
	List(ctx context.Context, owner string) ([]*Project, error)

	// FindByName returns the owner's most recently updated project with
	// the given name.
	FindByName(ctx context.Context, owner, name string) (*Project, error)

	// Delete removes the project with the given ID.
	Delete(ctx context.Context, id string) error

	// Close releases the store's resources.
	Close() error
}

// New creates a project from g with a fresh ID and both timestamps set to now.
func New(name, owner string, g *grid.Grid, now time.Time) *Project {
	ms := now.UnixMilli()
	return &Project{
		ID:        uuid.NewString(),
		Name:      name,
		Owner:     owner,
		Size:      g.Size(),
		Cells:     g.Cells(),
		CreatedAt: ms,
		UpdatedAt: ms,
	}
}

// Grid rebuilds the canvas stored in p.
func (p *Project) Grid() (*grid.Grid, error) {
	g, err := grid.FromCells(p.Size, p.Cells)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidProject, p.ID, err)
	}
	return g, nil
}

// Update replaces the stored canvas with g and bumps UpdatedAt.
func (p *Project) Update(g *grid.Grid, now time.Time) {
	p.Size = g.Size()
	p.Cells = g.Cells()
	p.UpdatedAt = now.UnixMilli()
}

// Created returns CreatedAt as a time.
func (p *Project) Created() time.Time {
	return time.UnixMilli(p.CreatedAt)
}

// Updated returns UpdatedAt as a time.
func (p *Project) Updated() time.Time {
	return time.UnixMilli(p.UpdatedAt)
}

// Clone returns a deep copy of p.
func (p *Project) Clone() *Project {
	c := *p
	c.Cells = append([]grid.Color(nil), p.Cells...)
	return &c
}

// Validate checks the fields every store requires.
func (p *Project) Validate() error {
	var missing []string
	if p.ID == "" {
		missing = append(missing, "id")
	}
	if strings.TrimSpace(p.Name) == "" {
		missing = append(missing, "name")
	}
	if p.Owner == "" {
		missing = append(missing, "owner")
	}
	if len(p.Cells) == 0 {
		missing = append(missing, "cells")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidProject, strings.Join(missing, ", "))
	}
	if _, err := p.Grid(); err != nil {
		return err
	}
	return nil
}

// SortNewest orders projects by UpdatedAt descending, breaking ties by name.
func SortNewest(ps []*Project) {
	slices.SortStableFunc(ps, func(a, b *Project) int {
		if c := cmp.Compare(b.UpdatedAt, a.UpdatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
}
