package tiktoken

import (
	"sort"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/tiktoken-go/tiktoken/internal/bpeerr"
)

// specialMatcher finds the next occurrence of any reserved marker string in
// a text, regardless of whether the caller's policy permits it. Grounded
// in the teacher's unused specialsPat field and in the pack's
// compileSpecialTokensRegex/findNextSpecialToken pattern of precompiling
// one alternation over all markers rather than scanning for each in turn.
type specialMatcher struct {
	re *regexp2.Regexp
}

func newSpecialMatcher(specials map[string]Rank) (*specialMatcher, error) {
	if len(specials) == 0 {
		return &specialMatcher{}, nil
	}
	names := make([]string, 0, len(specials))
	for name := range specials {
		names = append(names, name)
	}
	// Longest-first, so that if one marker were ever a prefix of another,
	// the alternation would prefer the longer marker at the same offset.
	// assertNoOverlap (specialtrie.go) is the real guarantee; this is a
	// defensive tiebreak.
	sort.Slice(names, func(i, j int) bool { return len(names[i]) > len(names[j]) })

	alts := make([]string, len(names))
	for i, n := range names {
		alts[i] = regexp2.Escape(n)
	}
	pattern := strings.Join(alts, "|")

	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return nil, &bpeerr.RegexError{Pattern: pattern, Err: err}
	}
	re.MatchTimeout = matchTimeout
	return &specialMatcher{re: re}, nil
}

// next reports the marker (if any) occurring earliest in text, and its
// byte offsets [start, end) within text.
func (s *specialMatcher) next(text string) (marker string, start, end int, found bool, err error) {
	if s.re == nil || text == "" {
		return "", 0, 0, false, nil
	}
	m, err := s.re.FindStringMatch(text)
	if err != nil {
		return "", 0, 0, false, &bpeerr.RegexError{Pattern: s.re.String(), Err: err}
	}
	if m == nil {
		return "", 0, 0, false, nil
	}
	return m.String(), m.Index, m.Index + m.Length, true, nil
}

// specialSegment is one chunk of a specials-aware scan: either ordinary
// text destined for the pretokenizer and merge engine, or a single special
// token marker.
type specialSegment struct {
	text    string
	special string // "" for an ordinary segment
}

// segmentBySpecials walks text once, searching from a cursor for the next
// occurrence of any reserved marker (spec.md 4.4). A marker the caller
// allows ends the current ordinary segment and becomes its own special
// segment; a marker the caller disallows fails the whole call; a marker
// that is neither allowed nor disallowed is left alone — the search
// resumes past just its first byte, and its text stays part of the
// ordinary segment being built, to be re-encountered as ordinary text once
// the pre-tokenizer runs over it.
func segmentBySpecials(text string, matcher *specialMatcher, isAllowed, isDisallowed func(string) bool) ([]specialSegment, error) {
	if matcher == nil || matcher.re == nil {
		return []specialSegment{{text: text}}, nil
	}

	var segments []specialSegment
	segStart := 0
	searchFrom := 0
	for searchFrom < len(text) {
		marker, start, end, found, err := matcher.next(text[searchFrom:])
		if err != nil {
			return nil, err
		}
		if !found {
			break
		}
		absStart, absEnd := searchFrom+start, searchFrom+end

		switch {
		case isAllowed(marker):
			if absStart > segStart {
				segments = append(segments, specialSegment{text: text[segStart:absStart]})
			}
			segments = append(segments, specialSegment{special: marker})
			segStart = absEnd
			searchFrom = absEnd
		case isDisallowed(marker):
			return nil, &bpeerr.DisallowedSpecialToken{Marker: marker}
		default:
			searchFrom = absStart + 1
		}
	}
	if segStart < len(text) {
		segments = append(segments, specialSegment{text: text[segStart:]})
	}
	return segments, nil
}
