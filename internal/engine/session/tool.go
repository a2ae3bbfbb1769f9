package session

import (
	"fmt"
	"strings"
)

// Tool selects how a cell edit is applied.
type Tool int

const (
	// ToolDraw paints cells with the current colour.
	ToolDraw Tool = iota
	// ToolErase paints cells with the background colour.
	ToolErase
	// ToolFill flood-fills the region under the cell.
	ToolFill
)

// String returns the tool name.
func (t Tool) String() string {
	switch t {
	case ToolDraw:
		return "draw"
	case ToolErase:
		return "erase"
	case ToolFill:
		return "fill"
	default:
		return "unknown"
	}
}

// Draggable reports whether the tool accumulates edits over a gesture.
func (t Tool) Draggable() bool {
	return t == ToolDraw || t == ToolErase
}

// ParseTool parses a tool name.
func ParseTool(s string) (Tool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "draw", "pencil", "brush":
		return ToolDraw, nil
	case "erase", "eraser":
		return ToolErase, nil
	case "fill", "bucket":
		return ToolFill, nil
	default:
		return ToolDraw, fmt.Errorf("unknown tool %q", s)
	}
}
