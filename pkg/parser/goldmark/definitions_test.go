package goldmark_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/relinkcheck/pkg/mdast"
	"github.com/yaklabco/relinkcheck/pkg/parser/goldmark"
)

func definitions(snap *mdast.FileSnapshot) []*mdast.Node {
	return mdast.FindByKind(snap.Root, mdast.NodeDefinition)
}

func TestDefinitions_TopLevel(t *testing.T) {
	t.Parallel()

	src := "# Title\n\n[one]: ./one.md\n\nBody [one].\n\n[two]: <two words.md> \"Title\"\n"
	snap := parse(t, goldmark.FlavorCommonMark, src)

	defs := definitions(snap)
	require.Len(t, defs, 2)

	assert.Equal(t, "./one.md", defs[0].URL())
	assert.Equal(t, "one", defs[0].Link().ReferenceLabel)
	assert.Equal(t, "[one]: ./one.md", string(defs[0].Text()))
	assert.Equal(t, 3, defs[0].SourcePosition().StartLine)

	assert.Equal(t, "two words.md", defs[1].URL())

	kinds := make([]mdast.NodeKind, 0, 4)
	for _, c := range snap.Root.Children() {
		kinds = append(kinds, c.Kind)
	}
	assert.Equal(t, []mdast.NodeKind{
		mdast.NodeHeading,
		mdast.NodeDefinition,
		mdast.NodeParagraph,
		mdast.NodeDefinition,
	}, kinds)
}

func TestDefinitions_Unused(t *testing.T) {
	t.Parallel()

	snap := parse(t, goldmark.FlavorGFM, "[orphan]: #nowhere\n")

	defs := definitions(snap)
	require.Len(t, defs, 1)
	assert.Equal(t, "#nowhere", defs[0].URL())
}

func TestDefinitions_DestinationOnNextLine(t *testing.T) {
	t.Parallel()

	snap := parse(t, goldmark.FlavorCommonMark, "[next]:\n  next.md\n")

	defs := definitions(snap)
	require.Len(t, defs, 1)
	assert.Equal(t, "next.md", defs[0].URL())
}

func TestDefinitions_Duplicates(t *testing.T) {
	t.Parallel()

	snap := parse(t, goldmark.FlavorCommonMark, "[d]: first.md\n[d]: second.md\n")

	defs := definitions(snap)
	require.Len(t, defs, 2)
	assert.Equal(t, "first.md", defs[0].URL())
	assert.Equal(t, "second.md", defs[1].URL())
}

func TestDefinitions_InContainers(t *testing.T) {
	t.Parallel()

	src := "> quoted\n>\n> [q]: q.md\n\n- item\n\n  [l]: l.md\n\nafter\n"
	snap := parse(t, goldmark.FlavorCommonMark, src)

	defs := definitions(snap)
	require.Len(t, defs, 2)

	assert.Equal(t, "q.md", defs[0].URL())
	assert.Equal(t, mdast.NodeBlockquote, defs[0].Parent.Kind)

	assert.Equal(t, "l.md", defs[1].URL())
	assert.Equal(t, mdast.NodeListItem, defs[1].Parent.Kind)
}

func TestDefinitions_NotFromCodeOrParagraphs(t *testing.T) {
	t.Parallel()

	src := "```\n[z]: fenced.md\n```\n\n    [z]: indented.md\n\nIntro text\n[z]: paragraph.md\n\n[z]: real.md\n"
	snap := parse(t, goldmark.FlavorCommonMark, src)

	defs := definitions(snap)
	require.Len(t, defs, 1)
	assert.Equal(t, "real.md", defs[0].URL())
}

func TestDefinitions_UnmatchedLabelIsText(t *testing.T) {
	t.Parallel()

	snap := parse(t, goldmark.FlavorCommonMark, "<div>\n[h]: html.md\n</div>\n")

	assert.Empty(t, definitions(snap))
}

func TestDefinitions_DocumentOrder(t *testing.T) {
	t.Parallel()

	src := "[a]: a.md\n\n> [b]: b.md\n\n- x\n\n  [c]: c.md\n\n[d]: d.md\n"
	snap := parse(t, goldmark.FlavorCommonMark, src)

	var urls []string
	require.NoError(t, mdast.Visit(snap.Root, func(n *mdast.Node) error {
		urls = append(urls, n.URL())
		return nil
	}, mdast.NodeDefinition))

	assert.Equal(t, []string{"a.md", "b.md", "c.md", "d.md"}, urls)
}
