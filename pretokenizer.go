package tiktoken

import (
	"time"

	"github.com/dlclark/regexp2"

	"github.com/tiktoken-go/tiktoken/internal/bpeerr"
)

// matchTimeout bounds a single regex match attempt. regexp2 is a
// backtracking engine; a timeout turns a pathological input into an error
// instead of a hang.
const matchTimeout = 10 * time.Second

// pretokenizer segments raw text into the chunks the merge engine runs
// over independently (spec.md 4.3). Segmentation never crosses a rune
// boundary, and unmatched input cannot occur: the alternatives of every
// shipped pattern together cover letters, digits, other non-space
// characters and whitespace (the final `\s+`), so every character lies in
// some match.
type pretokenizer struct {
	re *regexp2.Regexp
}

func newPretokenizer(pattern string) (*pretokenizer, error) {
	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return nil, &bpeerr.RegexError{Pattern: pattern, Err: err}
	}
	re.MatchTimeout = matchTimeout
	return &pretokenizer{re: re}, nil
}

// split returns text's pretokenizer chunks in order.
func (p *pretokenizer) split(text string) ([]string, error) {
	var pieces []string
	m, err := p.re.FindStringMatch(text)
	if err != nil {
		return nil, &bpeerr.RegexError{Pattern: p.re.String(), Err: err}
	}
	for m != nil {
		pieces = append(pieces, m.String())
		m, err = p.re.FindNextMatch(m)
		if err != nil {
			return nil, &bpeerr.RegexError{Pattern: p.re.String(), Err: err}
		}
	}
	return pieces, nil
}
