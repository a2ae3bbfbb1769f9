// Package generate produces whole canvases: random fills drawn from a
// palette, and canvases computed by a Lua script.
//
// A script defines a global function pixel(x, y, size) that returns a colour
// string for the cell at column x and row y (both 0-based):
//
//	function pixel(x, y, size)
//	  if (x + y) % 2 == 0 then return "#000000" end
//	  return palette[1 + x % #palette]
//	end
//
// Returning nil leaves the background colour. Scripts see only the base,
// table, string and math libraries, plus the globals palette and background.
package generate
