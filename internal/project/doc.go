// Package project defines saved pixel-art projects and the stores that
// persist them.
//
// A Project is a named, owner-scoped snapshot of a canvas. Stores are
// selected by configuration:
//
//   - sqlstore: one SQLite table, cells stored as JSON text
//   - docstore: one JSON document mapping owner to project list, kept in a
//     file or in memory
//
// Both implement Store and share the behaviour checked by storetest.
package project
