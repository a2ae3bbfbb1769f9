// Package config loads Pixelplay configuration.
//
// Configuration comes from three sources, later ones winning:
//
//  1. Built-in defaults (Default)
//  2. A TOML or YAML file, chosen by extension
//  3. PIXELPLAY_* environment variables
//
// A minimal config.toml:
//
//	owner = "ada"
//	palette = ["#000000", "#FF0000", "#00FF00"]
//
//	[canvas]
//	size = 32
//	background = "#FFFFFF"
//
//	[store]
//	driver = "sqlite"
//	path = "~/.local/share/pixelplay/projects.db"
//
// Watcher reloads the file when it changes on disk.
package config
