// Package tui is the terminal front-end for the pixel engine.
//
// The canvas is drawn with each cell two columns wide, using the cell
// colour as the background. The left mouse button applies the selected
// tool and the right button erases; a press, drag and release is one undo
// step. Keys:
//
//	d e f     draw, erase, fill
//	1-9       pick palette colour
//	u ^Z      undo
//	r ^Y      redo
//	c         clear
//	+ -       next / previous canvas size
//	g         random canvas from the palette
//	s         save project
//	x         export PNG
//	q Esc     quit
package tui
