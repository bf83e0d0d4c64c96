package rules

import (
	"fmt"
	"strings"

	"github.com/yaklabco/relinkcheck/internal/logging"
	"github.com/yaklabco/relinkcheck/pkg/fsutil"
	"github.com/yaklabco/relinkcheck/pkg/lint"
	"github.com/yaklabco/relinkcheck/pkg/mdast"
	"github.com/yaklabco/relinkcheck/pkg/relinks"
	"github.com/yaklabco/relinkcheck/pkg/slug"
)

// Memo keys shared by the relative-link rules.
const (
	reportKey   = "relinks.report"
	headingsKey = "relinks.headings"
)

// minSuggestionPrefix is the shortest shared prefix worth suggesting.
const minSuggestionPrefix = 2

// MissingFileRule reports relative links whose target file does not exist.
type MissingFileRule struct {
	lint.BaseRule
}

// NewMissingFileRule creates the missing-file rule.
func NewMissingFileRule() *MissingFileRule {
	return &MissingFileRule{
		BaseRule: lint.NewBaseRule(
			relinks.RuleMissingFile,
			"file-reference",
			"Relative links must point to files that exist",
			"links",
		),
	}
}

// Apply reports the missing-file findings for the current document.
func (r *MissingFileRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	return diagnose(ctx, r.ID(), r.Name(), nil)
}

// MissingHeadingRule reports fragments that name no heading of their target.
type MissingHeadingRule struct {
	lint.BaseRule
}

// NewMissingHeadingRule creates the missing-heading rule.
func NewMissingHeadingRule() *MissingHeadingRule {
	return &MissingHeadingRule{
		BaseRule: lint.NewBaseRule(
			relinks.RuleMissingHeading,
			"heading-reference",
			"Link fragments must match a heading in the target document",
			"links",
		),
	}
}

// Apply reports the missing-heading findings for the current document.
func (r *MissingHeadingRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	return diagnose(ctx, r.ID(), r.Name(), suggestHeading)
}

// diagnose converts the memoised report's messages for one rule into diagnostics.
func diagnose(
	ctx *lint.RuleContext,
	ruleID, ruleName string,
	suggest func(*lint.RuleContext, *mdast.Node) string,
) ([]lint.Diagnostic, error) {
	if ctx.Root == nil || ctx.File == nil {
		return nil, nil
	}
	if ctx.Cancelled() {
		return nil, fmt.Errorf("rule cancelled: %w", ctx.Ctx.Err())
	}

	messages := report(ctx).ByRule(ruleID)
	diags := make([]lint.Diagnostic, 0, len(messages))
	for _, msg := range messages {
		builder := lint.NewDiagnostic(ruleID, msg.Node, msg.Reason).
			WithSource(msg.Source).
			WithRuleName(ruleName)
		if msg.Node != nil {
			builder.WithTarget(msg.Node.URL())
		}
		if suggest != nil {
			if hint := suggest(ctx, msg.Node); hint != "" {
				builder.WithSuggestion(hint)
			}
		}
		diags = append(diags, builder.Build())
	}

	return diags, nil
}

// report runs the checker once per document; both rules read the result.
func report(ctx *lint.RuleContext) *relinks.Collector {
	return lint.Memoize(ctx, reportKey, func() *relinks.Collector {
		collector := &relinks.Collector{}
		newChecker(ctx).Check(ctx.Root, document(ctx), collector)
		return collector
	})
}

func newChecker(ctx *lint.RuleContext) *relinks.Checker {
	return relinks.New(relinks.Options{
		FS:     linkFS(ctx),
		Logger: logging.FromContext(ctx.Ctx),
	})
}

func linkFS(ctx *lint.RuleContext) fsutil.Local {
	follow := true
	if ctx.Config != nil {
		follow = ctx.Config.FollowSymlinks
	}
	return fsutil.Local{FollowSymlinks: follow}
}

func document(ctx *lint.RuleContext) relinks.File {
	return relinks.File{Path: ctx.File.Path, Cwd: ctx.WorkingDir}
}

// suggestHeading proposes the known slug closest to the broken fragment.
func suggestHeading(ctx *lint.RuleContext, node *mdast.Node) string {
	if node == nil {
		return ""
	}

	target := relinks.Classify(node.URL())
	var known *slug.Set

	switch target.Kind {
	case relinks.KindAnchor:
		known = lint.Memoize(ctx, headingsKey, func() *slug.Set {
			return relinks.CollectHeadings(ctx.Root)
		})
	case relinks.KindRelative:
		docPath := document(ctx).Abs()
		if docPath == "" {
			return ""
		}
		set, err := relinks.ExtractHeadings(linkFS(ctx), target.Resolve(docPath))
		if err != nil {
			return ""
		}
		known = set
	case relinks.KindRooted, relinks.KindExternal:
		return ""
	}

	best := closestSlug(strings.ToLower(target.Fragment), known.Values())
	if best == "" {
		return ""
	}
	if target.Kind == relinks.KindRelative {
		return fmt.Sprintf("Did you mean `%s#%s`?", target.Path, best)
	}
	return fmt.Sprintf("Did you mean `#%s`?", best)
}

// closestSlug returns the candidate sharing the longest prefix with want.
// Ties go to the candidate closest in length, then to the earliest one.
// Returns "" when no candidate shares at least minSuggestionPrefix bytes.
func closestSlug(want string, candidates []string) string {
	best, bestPrefix, bestDelta := "", 0, 0
	for _, candidate := range candidates {
		prefix := commonPrefix(want, candidate)
		if prefix < minSuggestionPrefix {
			continue
		}
		delta := abs(len(candidate) - len(want))
		if prefix > bestPrefix || (prefix == bestPrefix && delta < bestDelta) {
			best, bestPrefix, bestDelta = candidate, prefix, delta
		}
	}
	return best
}

func commonPrefix(a, b string) int {
	n := min(len(a), len(b))
	for i := range n {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
