// Package docstore keeps every project in one JSON document keyed by owner:
//
//	{"ada": [{"id": "...", "name": "heart", ...}], "bob": [...]}
//
// The document lives in memory and, when a path is given, is rewritten to
// disk after every change.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/dshills/pixelplay/internal/project"
)

// ErrCorrupt indicates the document on disk is not a JSON object.
var ErrCorrupt = errors.New("corrupt project document")

// Store is a document-backed project.Store.
type Store struct {
	mu     sync.Mutex
	path   string
	doc    []byte
	logger *slog.Logger
}

var _ project.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store's logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// Open loads the document at path, starting empty if it does not exist.
// An empty path keeps the document in memory only.
func Open(path string, opts ...Option) (*Store, error) {
	s := &Store{
		path:   path,
		doc:    []byte("{}"),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read project document: %w", err)
		case len(strings.TrimSpace(string(data))) == 0:
		default:
			if !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsObject() {
				return nil, fmt.Errorf("%w: %s", ErrCorrupt, path)
			}
			s.doc = data
		}
	}

	s.logger.Info("project store opened", "driver", "json", "path", path)
	return s, nil
}

// Close flushes nothing; every change is already written.
func (s *Store) Close() error {
	return nil
}

// Bytes returns a copy of the current document.
func (s *Store) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.doc...)
}

// location is where a project sits in the document.
type location struct {
	owner string
	index int
	raw   string
}

func (l location) path() string {
	return escapeKey(l.owner) + "." + strconv.Itoa(l.index)
}

// findLocked scans every owner's list for id.
func (s *Store) findLocked(id string) (location, bool) {
	var loc location
	found := false
	gjson.ParseBytes(s.doc).ForEach(func(owner, list gjson.Result) bool {
		i := 0
		list.ForEach(func(_, p gjson.Result) bool {
			if p.Get("id").String() == id {
				loc = location{owner: owner.String(), index: i, raw: p.Raw}
				found = true
				return false
			}
			i++
			return true
		})
		return !found
	})
	return loc, found
}

// Save upserts p, preserving the stored CreatedAt of an existing record.
func (s *Store) Save(ctx context.Context, p *project.Project) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := p.Clone()
	doc := s.doc
	var err error
	if loc, ok := s.findLocked(p.ID); ok {
		rec.CreatedAt = gjson.Get(loc.raw, "createdAt").Int()
		if loc.owner == p.Owner {
			doc, err = sjson.SetBytes(doc, loc.path(), rec)
		} else {
			doc, err = s.removeAt(doc, loc)
			if err == nil {
				doc, err = sjson.SetBytes(doc, escapeKey(p.Owner)+".-1", rec)
			}
		}
	} else {
		doc, err = sjson.SetBytes(doc, escapeKey(p.Owner)+".-1", rec)
	}
	if err != nil {
		return fmt.Errorf("save project %s: %w", p.ID, err)
	}
	if err := s.commitLocked(doc); err != nil {
		return err
	}

	p.CreatedAt = rec.CreatedAt
	s.logger.Debug("project saved", "id", p.ID, "name", p.Name, "owner", p.Owner)
	return nil
}

// Get returns the project with the given ID.
func (s *Store) Get(ctx context.Context, id string) (*project.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	loc, ok := s.findLocked(id)
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", project.ErrNotFound, id)
	}
	return project.Unmarshal([]byte(loc.raw))
}

// List returns an owner's projects, most recently updated first.
func (s *Store) List(ctx context.Context, owner string) ([]*project.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	list := gjson.GetBytes(s.doc, escapeKey(owner))
	s.mu.Unlock()

	var out []*project.Project
	var err error
	list.ForEach(func(_, raw gjson.Result) bool {
		var p *project.Project
		p, err = project.Unmarshal([]byte(raw.Raw))
		if err != nil {
			return false
		}
		out = append(out, p)
		return true
	})
	if err != nil {
		return nil, err
	}
	project.SortNewest(out)
	return out, nil
}

// FindByName returns the owner's most recently updated project called name.
func (s *Store) FindByName(ctx context.Context, owner, name string) (*project.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	matches := gjson.GetBytes(s.doc, escapeKey(owner)+`.#(name==`+strconv.Quote(name)+`)#`)
	s.mu.Unlock()

	var best *project.Project
	for _, raw := range matches.Array() {
		p, err := project.Unmarshal([]byte(raw.Raw))
		if err != nil {
			return nil, err
		}
		if best == nil || p.UpdatedAt > best.UpdatedAt {
			best = p
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%w: %s/%s", project.ErrNotFound, owner, name)
	}
	return best, nil
}

// Delete removes the project with the given ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	loc, ok := s.findLocked(id)
	if !ok {
		return fmt.Errorf("%w: %s", project.ErrNotFound, id)
	}
	doc, err := s.removeAt(s.doc, loc)
	if err != nil {
		return fmt.Errorf("delete project %s: %w", id, err)
	}
	if err := s.commitLocked(doc); err != nil {
		return err
	}
	s.logger.Debug("project deleted", "id", id)
	return nil
}

// removeAt deletes the entry at loc, dropping the owner once their list
// is empty.
func (s *Store) removeAt(doc []byte, loc location) ([]byte, error) {
	key := escapeKey(loc.owner)
	if gjson.GetBytes(doc, key+".#").Int() <= 1 {
		return sjson.DeleteBytes(doc, key)
	}
	return sjson.DeleteBytes(doc, loc.path())
}

// commitLocked installs doc and writes it to disk.
func (s *Store) commitLocked(doc []byte) error {
	if s.path != "" {
		if err := writeAtomic(s.path, pretty.Pretty(doc)); err != nil {
			return fmt.Errorf("write project document: %w", err)
		}
	}
	s.doc = doc
	return nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".projects-*.json")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// escapeKey escapes characters that gjson and sjson treat as path syntax.
func escapeKey(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch r {
		case '\\', '.', '*', '?', '|', '#', '@', '!', '=', '<', '>', '%', '(', ')', '[', ']', '{', '}', '"', ',', ':':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
