package generate

import (
	"context"
	"fmt"
	"os"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/pixelplay/internal/engine/grid"
)

// DefaultScriptTimeout bounds one Generate call.
const DefaultScriptTimeout = 5 * time.Second

// Script is a compiled Lua generator. It is not safe for concurrent use.
type Script struct {
	L          *lua.LState
	name       string
	timeout    time.Duration
	background grid.Color
	palette    []grid.Color
}

// ScriptOption configures a Script.
type ScriptOption func(*Script)

// WithTimeout bounds each Generate call. Zero disables the limit.
func WithTimeout(d time.Duration) ScriptOption {
	return func(s *Script) {
		if d >= 0 {
			s.timeout = d
		}
	}
}

// WithBackground sets the colour used when pixel returns nil.
func WithBackground(c grid.Color) ScriptOption {
	return func(s *Script) {
		s.background = c
	}
}

// WithPalette exposes colours to the script as the global table palette.
func WithPalette(p []grid.Color) ScriptOption {
	return func(s *Script) {
		s.palette = append([]grid.Color(nil), p...)
	}
}

// LoadScriptFile reads and compiles the script at path.
func LoadScriptFile(path string, opts ...ScriptOption) (*Script, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return LoadScript(path, string(src), opts...)
}

// LoadScript compiles src. name is used in error messages.
func LoadScript(name, src string, opts ...ScriptOption) (*Script, error) {
	s := &Script{
		name:       name,
		timeout:    DefaultScriptTimeout,
		background: grid.White,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(s.L)
	s.installGlobals()

	if err := s.withDeadline(context.Background(), func() error {
		return s.L.DoString(src)
	}); err != nil {
		s.L.Close()
		return nil, fmt.Errorf("load script %s: %w", name, err)
	}
	if s.L.GetGlobal("pixel").Type() != lua.LTFunction {
		s.L.Close()
		return nil, fmt.Errorf("%s: %w", name, ErrNoPixelFunc)
	}
	return s, nil
}

// openSafeLibraries opens the libraries a generator may use. io, os,
// package and debug stay closed.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
}

func (s *Script) installGlobals() {
	tbl := s.L.NewTable()
	for _, c := range s.palette {
		tbl.Append(lua.LString(c))
	}
	s.L.SetGlobal("palette", tbl)
	s.L.SetGlobal("background", lua.LString(s.background))
}

// Generate evaluates pixel for every cell of a size×size grid.
func (s *Script) Generate(ctx context.Context, size int) (*grid.Grid, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: %d", grid.ErrInvalidSize, size)
	}
	fn := s.L.GetGlobal("pixel")
	cells := make([]grid.Color, size*size)

	err := s.withDeadline(ctx, func() error {
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				c, err := s.pixel(fn, x, y, size)
				if err != nil {
					return err
				}
				cells[y*size+x] = c
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("run script %s: %w", s.name, err)
	}
	return grid.FromCells(size, cells)
}

func (s *Script) pixel(fn lua.LValue, x, y, size int) (grid.Color, error) {
	err := s.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true},
		lua.LNumber(x), lua.LNumber(y), lua.LNumber(size))
	if err != nil {
		return "", err
	}
	ret := s.L.Get(-1)
	s.L.Pop(1)

	switch v := ret.(type) {
	case *lua.LNilType:
		return s.background, nil
	case lua.LString:
		c, err := grid.ParseColor(string(v))
		if err != nil {
			return "", fmt.Errorf("%w at (%d,%d): %w", ErrBadPixel, x, y, err)
		}
		return c, nil
	default:
		return "", fmt.Errorf("%w at (%d,%d): got %s", ErrBadPixel, x, y, ret.Type())
	}
}

// withDeadline runs fn with ctx, bounded by the script timeout, installed on
// the Lua state so long-running scripts are interrupted.
func (s *Script) withDeadline(ctx context.Context, fn func() error) (err error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	s.L.SetContext(ctx)
	defer s.L.RemoveContext()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	if err := fn(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%w: %v", ctxErr, err)
		}
		return err
	}
	return nil
}

// Close releases the Lua state.
func (s *Script) Close() {
	s.L.Close()
}
