package relinks_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/relinkcheck/pkg/mdast"
	gmparser "github.com/yaklabco/relinkcheck/pkg/parser/goldmark"
	"github.com/yaklabco/relinkcheck/pkg/relinks"
)

func parse(t *testing.T, src string) *mdast.Node {
	t.Helper()

	snap, err := gmparser.New(gmparser.FlavorGFM).Parse(context.Background(), "doc.md", []byte(src))
	require.NoError(t, err)

	return snap.Root
}

// quietChecker returns a checker over fs whose debug output lands in the
// returned buffer.
func quietChecker(fs relinks.FS) (*relinks.Checker, *bytes.Buffer) {
	var buf bytes.Buffer

	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

	return relinks.New(relinks.Options{FS: fs, Logger: logger}), &buf
}

func reasons(messages []relinks.Message) []string {
	out := make([]string, 0, len(messages))
	for _, m := range messages {
		out = append(out, m.Reason)
	}
	return out
}
