// Package goldmark adapts github.com/yuin/goldmark to the mdast tree.
package goldmark

import (
	"context"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/relinkcheck/pkg/mdast"
)

// Flavor identifies the Markdown flavor supported by the parser.
const (
	FlavorCommonMark = "commonmark"
	FlavorGFM        = "gfm"
)

// Parser builds mdast trees with goldmark.
type Parser struct {
	flavor string
	md     goldmark.Markdown
}

// New creates a parser for the given flavor.
// Unknown flavors fall back to CommonMark.
func New(flavor string) *Parser {
	f := flavorOrDefault(flavor)
	return &Parser{
		flavor: f,
		md:     newGoldmarkInstance(f),
	}
}

// Flavor returns the configured Markdown flavor.
func (p *Parser) Flavor() string {
	return p.flavor
}

// Parse converts raw Markdown into a FileSnapshot.
//
// Every node carries the byte range it covers in the content. Link
// reference definitions, which goldmark only keeps in its parse context,
// are restored as NodeDefinition nodes in source order.
func (p *Parser) Parse(ctx context.Context, path string, content []byte) (*mdast.FileSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	snapshot := mdast.NewFileSnapshot(path, copyContent(content))

	pc := parser.NewContext()
	gmDoc := p.md.Parser().Parse(text.NewReader(snapshot.Content), parser.WithContext(pc))

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	snapshot.Root = newMapper(snapshot.Content).mapDocument(gmDoc)
	restoreDefinitions(snapshot, gmDoc, pc)
	mdast.SetFile(snapshot.Root, snapshot)

	return snapshot, nil
}

func flavorOrDefault(flavor string) string {
	switch flavor {
	case FlavorCommonMark, FlavorGFM:
		return flavor
	default:
		return FlavorCommonMark
	}
}

//nolint:ireturn // goldmark.Markdown is an external interface type
func newGoldmarkInstance(flavor string) goldmark.Markdown {
	var opts []goldmark.Option

	if flavor == FlavorGFM {
		opts = append(opts, goldmark.WithExtensions(extension.GFM))
	}

	return goldmark.New(opts...)
}

// copyContent keeps the snapshot independent of the caller's buffer.
func copyContent(content []byte) []byte {
	if content == nil {
		return nil
	}
	cp := make([]byte, len(content))
	copy(cp, content)
	return cp
}
