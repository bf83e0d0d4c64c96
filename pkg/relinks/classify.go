package relinks

import (
	"net/url"
	"path/filepath"
	"strings"
)

// Kind classifies a link destination.
type Kind uint8

const (
	// KindRelative is a path relative to the document, with an optional fragment.
	KindRelative Kind = iota

	// KindAnchor is a fragment into the document itself ("#frag").
	KindAnchor

	// KindRooted is a site-rooted path ("/docs/x.md"). Not checked.
	KindRooted

	// KindExternal is an absolute URL with a scheme. Not checked.
	KindExternal
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindRelative:
		return "relative"
	case KindAnchor:
		return "anchor"
	case KindRooted:
		return "rooted"
	case KindExternal:
		return "external"
	default:
		return "unknown"
	}
}

// Target is a classified link destination.
type Target struct {
	Kind Kind

	// URL is the destination as written.
	URL string

	// Path is the part before the first '#', verbatim. Relative targets only.
	Path string

	// Fragment is the part after the first '#', in its original case.
	Fragment string

	// HasFragment records whether the destination contained '#'.
	HasFragment bool
}

// Schemes whose URLs need an authority or path to be valid.
//
//nolint:gochecknoglobals // Read-only lookup table.
var specialSchemes = map[string]bool{
	"http":  true,
	"https": true,
	"ws":    true,
	"wss":   true,
	"ftp":   true,
}

// Classify sorts a link destination into one of the target kinds.
func Classify(raw string) Target {
	switch {
	case strings.HasPrefix(raw, "#"):
		return Target{Kind: KindAnchor, URL: raw, Fragment: raw[1:], HasFragment: true}
	case strings.HasPrefix(raw, "/"):
		return Target{Kind: KindRooted, URL: raw}
	case isAbsoluteURL(raw):
		return Target{Kind: KindExternal, URL: raw}
	}

	path, fragment, found := strings.Cut(raw, "#")
	return Target{
		Kind:        KindRelative,
		URL:         raw,
		Path:        path,
		Fragment:    fragment,
		HasFragment: found,
	}
}

// isAbsoluteURL reports whether raw parses as a URL on its own, without a
// base: it needs a scheme, and for web schemes something after the colon.
func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return false
	}
	if specialSchemes[u.Scheme] {
		return u.Host != "" || u.Opaque != "" || u.Path != ""
	}
	return true
}

// Resolve returns the file the target points at for a document at docPath.
// An empty path refers to the document itself.
func (t Target) Resolve(docPath string) string {
	if t.Path == "" {
		return docPath
	}
	return filepath.Join(filepath.Dir(docPath), filepath.FromSlash(t.Path))
}
