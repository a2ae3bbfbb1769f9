package project

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/dshills/pixelplay/internal/engine/grid"
)

//go:embed project.schema.json
var schemaJSON []byte

const schemaURL = "project.schema.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func projectSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add project schema: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile(schemaURL)
	})
	return compiledSchema, schemaErr
}

// Decode reads one project record from r and validates it against the
// project schema. Cells are normalized to upper-case "#RRGGBB".
func Decode(r io.Reader) (*Project, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read project: %w", err)
	}
	return Unmarshal(data)
}

// Unmarshal is Decode for an in-memory record.
func Unmarshal(data []byte) (*Project, error) {
	if err := ValidateJSON(data); err != nil {
		return nil, err
	}

	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProject, err)
	}
	for i, c := range p.Cells {
		n, err := grid.ParseColor(string(c))
		if err != nil {
			return nil, fmt.Errorf("%w: cell %d: %w", ErrInvalidProject, i, err)
		}
		p.Cells[i] = n
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// ValidateJSON checks a raw record against the project schema.
func ValidateJSON(data []byte) error {
	sch, err := projectSchema()
	if err != nil {
		return err
	}
	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProject, err)
	}
	if err := sch.Validate(instance); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProject, err)
	}
	return nil
}

// Encode writes p to w as JSON.
func Encode(w io.Writer, p *Project) error {
	data, err := Marshal(p)
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// Marshal validates p and returns its JSON form.
func Marshal(p *Project) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode project %s: %w", p.ID, err)
	}
	return data, nil
}
