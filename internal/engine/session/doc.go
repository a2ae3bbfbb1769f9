// Package session tracks pointer gestures over the canvas.
//
// A Session is a two-state machine, Idle and Dragging. Begin takes a working
// copy of the committed grid; every Apply during the gesture paints that copy;
// End hands the result back so the caller can commit the whole stroke as one
// history entry. A second Begin while Dragging is ignored.
//
//	s := session.New()
//	s.Begin(current)
//	s.Apply(3, grid.Black)
//	s.Apply(4, grid.Black)
//	stroke, changed := s.End()
//
// The package also defines Tool, the drawing tool selector.
package session
