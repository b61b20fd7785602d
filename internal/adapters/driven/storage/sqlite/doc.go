// Package sqlite provides a unified SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements multiple store interfaces
// through a single database connection:
//
//   - ItemStore: item persistence
//   - SpaceStore: space persistence
//   - QueryStore: query history persistence
//
// # Schema
//
// The database schema is managed through versioned migrations embedded in the
// migrations subpackage. Item metadata and query sources are stored as JSON
// columns; the vector index itself stays in memory and is rebuilt from the
// item store on startup.
package sqlite
