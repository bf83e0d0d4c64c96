package relinks

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/relinkcheck/internal/logging"
	"github.com/yaklabco/relinkcheck/pkg/fsutil"
	"github.com/yaklabco/relinkcheck/pkg/mdast"
	"github.com/yaklabco/relinkcheck/pkg/slug"
)

// File locates the document being checked.
type File struct {
	// Path is the document path, absolute or relative to Cwd.
	// An empty Path disables the check.
	Path string

	// Cwd is the directory a relative Path is resolved against.
	// The process working directory is used when empty.
	Cwd string
}

// Abs returns the absolute document path, or "" if it cannot be resolved.
func (f File) Abs() string {
	if f.Path == "" {
		return ""
	}
	if filepath.IsAbs(f.Path) {
		return filepath.Clean(f.Path)
	}
	if f.Cwd != "" {
		if abs, err := filepath.Abs(filepath.Join(f.Cwd, f.Path)); err == nil {
			return abs
		}
	}
	abs, err := filepath.Abs(f.Path)
	if err != nil {
		return ""
	}
	return abs
}

// Options configures a Checker.
type Options struct {
	// FS resolves and reads link targets. Defaults to the host file system.
	FS FS

	// Logger receives debug output about skipped fragment checks.
	// Defaults to the package default logger.
	Logger *log.Logger
}

// Checker validates the relative links of documents.
// A Checker holds no per-document state and may be shared between
// goroutines as long as its FS is.
type Checker struct {
	fs     FS
	logger *log.Logger
}

// New returns a Checker configured by opts.
func New(opts Options) *Checker {
	c := &Checker{fs: opts.FS, logger: opts.Logger}
	if c.fs == nil {
		c.fs = fsutil.Local{FollowSymlinks: true}
	}
	if c.logger == nil {
		c.logger = logging.Default()
	}
	return c
}

// Check reports every broken reference under root to sink.
// Links written against a reference definition are not checked themselves;
// the definition they use is.
func (c *Checker) Check(root *mdast.Node, file File, sink Sink) {
	docPath := file.Abs()
	if root == nil || docPath == "" {
		return
	}

	local := CollectHeadings(root)

	//nolint:errcheck // the callback never fails
	mdast.Visit(root, func(n *mdast.Node) error {
		if n.Kind != mdast.NodeDefinition && n.Link() != nil && n.Link().IsReference() {
			return nil
		}
		if url := n.URL(); url != "" {
			c.checkURL(url, n, docPath, local, sink)
		}
		return nil
	}, mdast.NodeLink, mdast.NodeImage, mdast.NodeDefinition)
}

func (c *Checker) checkURL(url string, node *mdast.Node, docPath string, local *slug.Set, sink Sink) {
	target := Classify(url)

	switch target.Kind {
	case KindAnchor:
		if !local.Has(strings.ToLower(target.Fragment)) {
			sink.Message(
				fmt.Sprintf("Cannot find heading `%s` in this file", url),
				node, Origin(RuleMissingHeading))
		}

	case KindRelative:
		resolved := target.Resolve(docPath)

		if target.Path != "" && !c.fs.Exists(resolved) {
			sink.Message(
				fmt.Sprintf("Cannot find file `%s`", target.Path),
				node, Origin(RuleMissingFile))
			return
		}

		if target.Fragment == "" {
			return
		}

		headings, err := ExtractHeadings(c.fs, resolved)
		if err != nil {
			c.logger.Debug("skipping fragment check",
				logging.FieldPath, resolved,
				logging.FieldError, err)
			return
		}

		if !headings.Has(strings.ToLower(target.Fragment)) {
			where := target.Path
			if where == "" {
				where = "this file"
			}
			sink.Message(
				fmt.Sprintf("Cannot find heading `#%s` in `%s`", target.Fragment, where),
				node, Origin(RuleMissingHeading))
		}

	case KindRooted, KindExternal:
	}
}
