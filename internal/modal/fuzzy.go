package modal

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/sahilm/fuzzy"

	"github.com/marcus/bookleaf/internal/plugin"
	"github.com/marcus/bookleaf/internal/styles"
)

// MatchRange is a byte range of matched characters in a trigger.
type MatchRange struct {
	Start int
	End   int
}

// filterMatch is one visible quick panel row.
type filterMatch struct {
	index  int // into the panel's original items
	score  int // higher is better
	ranges []MatchRange
}

// triggerSource exposes item triggers to the fuzzy matcher.
type triggerSource []plugin.QuickPanelItem

func (s triggerSource) String(i int) string { return s[i].Trigger }

func (s triggerSource) Len() int { return len(s) }

// filterItems returns the items whose trigger fuzzy-matches query, best
// first. Equal scores and an empty query keep the original item order.
func filterItems(items []plugin.QuickPanelItem, query string) []filterMatch {
	if query == "" {
		out := make([]filterMatch, len(items))
		for i := range items {
			out[i] = filterMatch{index: i}
		}
		return out
	}

	matches := fuzzy.FindFrom(query, triggerSource(items))
	out := make([]filterMatch, 0, len(matches))
	for _, m := range matches {
		out = append(out, filterMatch{
			index:  m.Index,
			score:  m.Score,
			ranges: matchRanges(m.Str, m.MatchedIndexes),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].score != out[j].score {
			return out[i].score > out[j].score
		}
		return out[i].index < out[j].index
	})
	return out
}

// matchRanges merges the byte offsets of matched runes into ranges.
func matchRanges(text string, indexes []int) []MatchRange {
	var ranges []MatchRange
	for _, i := range indexes {
		if i < 0 || i >= len(text) {
			continue
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		if n := len(ranges); n > 0 && ranges[n-1].End == i {
			ranges[n-1].End = i + size
			continue
		}
		ranges = append(ranges, MatchRange{Start: i, End: i + size})
	}
	return ranges
}

// highlightMatches renders text with matched ranges emphasised. Ranges past
// the end of text (after truncation) are clipped.
func highlightMatches(text string, ranges []MatchRange, selected bool) string {
	base := styles.ListItemNormal
	hl := styles.FuzzyMatchChar
	if selected {
		base = styles.ListItemSelected
		hl = hl.Background(styles.BgTertiary)
	}
	if len(ranges) == 0 {
		return base.Render(text)
	}

	var b strings.Builder
	lastEnd := 0
	for _, r := range ranges {
		if r.Start >= len(text) {
			break
		}
		if r.Start < lastEnd {
			continue
		}
		end := min(r.End, len(text))
		if r.Start > lastEnd {
			b.WriteString(base.Render(text[lastEnd:r.Start]))
		}
		b.WriteString(hl.Render(text[r.Start:end]))
		lastEnd = end
	}
	if lastEnd < len(text) {
		b.WriteString(base.Render(text[lastEnd:]))
	}
	return b.String()
}
