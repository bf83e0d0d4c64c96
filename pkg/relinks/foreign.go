package relinks

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"

	"github.com/yaklabco/relinkcheck/pkg/fsutil"
	"github.com/yaklabco/relinkcheck/pkg/slug"
)

var (
	// ErrUnreadable is returned when a linked file cannot be read.
	ErrUnreadable = errors.New("linked file unreadable")

	// ErrNotText is returned when a linked file holds binary data.
	ErrNotText = errors.New("linked file is not text")
)

// atxHeading matches an ATX heading line and captures its text.
var atxHeading = regexp.MustCompile(`(?m)^#{1,6}[ \t]+(.+)$`)

// ExtractHeadings reads the file at path and returns the slugs of its ATX
// headings. The file is scanned line by line, not parsed, so setext
// headings and headings inside code blocks are treated like any other line.
func ExtractHeadings(fs FS, path string) (*slug.Set, error) {
	content, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnreadable, path, err)
	}

	if !fsutil.IsText(content) {
		return nil, fmt.Errorf("%w: %s", ErrNotText, path)
	}

	set := slug.NewSet()
	slugger := slug.New()

	for _, match := range atxHeading.FindAllSubmatch(content, -1) {
		text := bytes.TrimRight(match[1], "\r")
		set.Add(slugger.Slug(string(text)))
	}

	return set, nil
}
