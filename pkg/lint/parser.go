package lint

import (
	"context"

	"github.com/yaklabco/relinkcheck/pkg/mdast"
)

// Parser parses Markdown content into a FileSnapshot.
//
// Implementations (e.g., parser/goldmark) must be deterministic for a given
// (flavor, path, content) tuple and free of I/O.
type Parser interface {
	// Parse converts raw Markdown bytes into a fully-populated FileSnapshot.
	//
	// The path is used for diagnostics only. The returned snapshot satisfies
	// snapshot.Path == path, its Root is a NodeDocument, and every node's File
	// points back at the snapshot. On error no partial snapshot is returned.
	Parse(ctx context.Context, path string, content []byte) (*mdast.FileSnapshot, error)
}
