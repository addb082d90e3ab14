package sqltest

import (
	"sort"
	"strings"

	"github.com/ai8future/encryptsql/token"
)

// Apply splices tokens into sql in ascending start order. A token starting
// inside an already replaced span is skipped.
func Apply(sql string, tokens []token.Token) string {
	sorted := append([]token.Token(nil), tokens...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].StartIndex() < sorted[j].StartIndex() })

	var b strings.Builder
	cursor := 0
	for _, t := range sorted {
		if t.StartIndex() < cursor {
			continue
		}
		b.WriteString(sql[cursor:t.StartIndex()])
		b.WriteString(t.String())
		cursor = t.StopIndex() + 1
	}
	b.WriteString(sql[cursor:])
	return b.String()
}

// Overlapping returns the first pair of tokens whose spans intersect.
func Overlapping(tokens []token.Token) (token.Token, token.Token, bool) {
	sorted := append([]token.Token(nil), tokens...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].StartIndex() < sorted[j].StartIndex() })
	for i := 1; i < len(sorted); i++ {
		if sorted[i].StartIndex() <= sorted[i-1].StopIndex() {
			return sorted[i-1], sorted[i], true
		}
	}
	return nil, nil, false
}
