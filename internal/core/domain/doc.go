// Package domain defines the core business entities for Recall.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Space: A named collection of items owned by one user
//   - Item: One stored unit of content (text note or file) plus metadata
//   - QueryRecord: A recorded question/answer exchange with its sources
//   - SearchResult: An item matched by similarity search with its score
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
