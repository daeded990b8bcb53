package urlpattern

import (
	"fmt"
	"regexp"
	"strings"
)

// segment is one '/'-separated element of a resolved pattern.
type segment struct {
	literal  string
	slot     int // parameter index, -1 for literals
	optional bool
	kind     slotKind
}

func (s segment) isSlot() bool {
	return s.slot >= 0
}

// Segment is one element of a URL chain produced for reverse building.
type Segment struct {
	Value       string
	Placeholder bool
}

// Spec is the compiled URL pattern of one execute method. It is immutable
// and safe for concurrent use.
type Spec struct {
	// Regexp matches a parameter path: the part of the request path after
	// the action, without leading or trailing '/'.
	Regexp *regexp.Regexp

	// Vars names the capture groups in order, one per path parameter.
	Vars []string

	// Source is the resolved pattern, e.g. "sea/{}/land".
	Source string

	// Specified reports whether the pattern was declared rather than derived.
	Specified bool

	segments []segment
}

// Match matches a parameter path. It returns the captured values and, for
// each, whether it was present. Absent values only occur for optional slots.
func (s *Spec) Match(paramPath string) ([]string, []bool, bool) {
	idx := s.Regexp.FindStringSubmatchIndex(paramPath)
	if idx == nil {
		return nil, nil, false
	}

	n := len(s.Vars)
	values := make([]string, n)
	present := make([]bool, n)
	for i := 0; i < n; i++ {
		start, end := idx[2*(i+1)], idx[2*(i+1)+1]
		if start < 0 {
			continue
		}
		values[i] = paramPath[start:end]
		present[i] = true
	}
	return values, present, true
}

// Chain builds the segment chain for the given values. present may be nil
// when every value is present.
func (s *Spec) Chain(values []string, present []bool) ([]Segment, error) {
	if len(values) != len(s.Vars) {
		return nil, fmt.Errorf("urlpattern: %q needs %d values, got %d", s.Source, len(s.Vars), len(values))
	}

	chain := make([]Segment, 0, len(s.segments))
	absent := false
	for _, seg := range s.segments {
		if !seg.isSlot() {
			chain = append(chain, Segment{Value: seg.literal})
			continue
		}

		has := present == nil || present[seg.slot]
		if !has {
			if !seg.optional {
				return nil, fmt.Errorf("urlpattern: missing required value for %s in %q", s.Vars[seg.slot], s.Source)
			}
			absent = true
			continue
		}
		if absent {
			return nil, fmt.Errorf("urlpattern: %s is present after an absent optional value in %q", s.Vars[seg.slot], s.Source)
		}

		v := values[seg.slot]
		if re := slotValidators[seg.kind]; !re.MatchString(v) {
			return nil, fmt.Errorf("urlpattern: value %q for %s doesn't match, expected %q", v, s.Vars[seg.slot], re.String())
		}
		chain = append(chain, Segment{Value: v, Placeholder: true})
	}
	return chain, nil
}

// Path joins a chain into a parameter path.
func Path(chain []Segment) string {
	parts := make([]string, len(chain))
	for i, seg := range chain {
		parts[i] = seg.Value
	}
	return strings.Join(parts, "/")
}

// LiteralCount returns the number of literal segments.
func (s *Spec) LiteralCount() int {
	n := 0
	for _, seg := range s.segments {
		if !seg.isSlot() {
			n++
		}
	}
	return n
}

// ConstrainedCount returns the number of slots narrower than the general
// sub-pattern (numeric or UUID).
func (s *Spec) ConstrainedCount() int {
	n := 0
	for _, seg := range s.segments {
		if seg.isSlot() && seg.kind != slotGeneral {
			n++
		}
	}
	return n
}

// OptionalCount returns the number of optional slots.
func (s *Spec) OptionalCount() int {
	n := 0
	for _, seg := range s.segments {
		if seg.optional {
			n++
		}
	}
	return n
}
