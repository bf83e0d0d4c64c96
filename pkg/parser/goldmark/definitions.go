package goldmark

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/util"

	"github.com/yaklabco/relinkcheck/pkg/mdast"
)

// definitionLine matches the start of a link reference definition,
// optionally behind blockquote markers, list markers or indentation.
// Group 1 is that prefix, group 2 the label, group 3 the destination.
var definitionLine = regexp.MustCompile(
	`^((?:[ \t]*(?:>|[-+*][ \t]|\d{1,9}[.)][ \t]))*[ \t]*)\[((?:\\.|[^\\\[\]])+)\]:[ \t]*(<[^<>]*>|\S+)?`,
)

// restoreDefinitions adds a NodeDefinition for every link reference
// definition goldmark consumed while parsing.
//
// goldmark drops definitions from the tree and keeps only the resolved
// references in its parse context. Lines still owned by a leaf block
// (paragraph, heading, code, HTML) cannot hold a definition, every other
// line matching the definition syntax is confirmed against the context.
func restoreDefinitions(snapshot *mdast.FileSnapshot, gmDoc ast.Node, pc parser.Context) {
	if len(pc.References()) == 0 {
		return
	}

	owned := ownedLines(snapshot, gmDoc)

	for i, info := range snapshot.Lines {
		if owned[i+1] {
			continue
		}

		line := snapshot.Content[info.StartOffset:info.NewlineStart]
		match := definitionLine.FindSubmatchIndex(line)
		if match == nil {
			continue
		}

		label := string(line[match[4]:match[5]])
		if _, ok := pc.Reference(util.ToLinkReference([]byte(label))); !ok {
			continue
		}

		end := info.NewlineStart
		var destination string
		if match[6] >= 0 {
			destination = string(line[match[6]:match[7]])
		} else if i+1 < len(snapshot.Lines) {
			next := snapshot.Lines[i+1]
			if fields := strings.Fields(string(snapshot.Content[next.StartOffset:next.NewlineStart])); len(fields) > 0 {
				destination = strings.TrimLeft(fields[0], ">")
				end = next.NewlineStart
			}
		}

		def := mdast.NewNode(mdast.NodeDefinition)
		def.Block = mdast.NewBlockAttrs().WithDefinition(&mdast.LinkAttrs{
			Destination:    string(decode([]byte(unwrapDestination(destination)))),
			ReferenceLabel: label,
		})
		mdast.SetRange(def, info.StartOffset+match[4]-1, end)

		prefix := line[match[2]:match[3]]
		insertDefinition(snapshot.Root, def,
			bytes.ContainsRune(prefix, '>'),
			len(bytes.TrimLeft(prefix, "> \t")) > 0 || startsIndented(prefix))
	}
}

// ownedLines returns the 1-based numbers of lines covered by leaf blocks.
func ownedLines(snapshot *mdast.FileSnapshot, gmDoc ast.Node) map[int]bool {
	owned := make(map[int]bool)

	//nolint:errcheck // the walker never fails
	ast.Walk(gmDoc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || n.Type() != ast.TypeBlock {
			return ast.WalkContinue, nil
		}

		lines := n.Lines()
		for i := range lines.Len() {
			line, _ := snapshot.LineAt(lines.At(i).Start)
			owned[line] = true
		}

		return ast.WalkContinue, nil
	})

	return owned
}

// startsIndented reports whether the text after any '>' markers begins
// with whitespace, which places a definition inside a list item.
func startsIndented(prefix []byte) bool {
	rest := prefix
	if i := bytes.LastIndexByte(prefix, '>'); i >= 0 {
		rest = prefix[i+1:]
		if len(rest) > 0 && rest[0] == ' ' {
			rest = rest[1:]
		}
	}
	return len(rest) > 0
}

func unwrapDestination(dest string) string {
	if len(dest) >= 2 && dest[0] == '<' && dest[len(dest)-1] == '>' {
		return dest[1 : len(dest)-1]
	}
	return dest
}

// insertDefinition places def in the tree at its source position. It
// descends into blockquotes only for quoted lines and into lists only for
// lines that carry a list marker or indentation.
func insertDefinition(root, def *mdast.Node, quoted, listed bool) {
	offset := def.Range.StartOffset
	parent := root

	for {
		next := containerAt(parent, offset, quoted, listed)
		if next == nil {
			break
		}
		parent = next
	}

	for child := parent.FirstChild; child != nil; child = child.Next {
		if child.Range.IsKnown() && child.Range.StartOffset > offset {
			mdast.InsertBefore(child, def)
			return
		}
	}

	mdast.AppendChild(parent, def)
}

// containerAt returns the child container of parent that offset falls in,
// counting the gap up to the next sibling as part of a container.
func containerAt(parent *mdast.Node, offset int, quoted, listed bool) *mdast.Node {
	for child := parent.FirstChild; child != nil; child = child.Next {
		switch child.Kind {
		case mdast.NodeBlockquote:
			if !quoted {
				continue
			}
		case mdast.NodeList, mdast.NodeListItem:
			if !listed {
				continue
			}
		default:
			continue
		}

		if !child.Range.IsKnown() || child.Range.StartOffset > offset {
			continue
		}

		if next := child.Next; next != nil && next.Range.IsKnown() && next.Range.StartOffset <= offset {
			continue
		}

		return child
	}
	return nil
}
