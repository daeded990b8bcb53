package restful

import (
	"strings"

	"github.com/vitalvas/flute/deferr"
)

// cursor joins action words back into declared hyphenate groups. Groups are
// consumed left to right, each exactly once, so a group that reappears at a
// deeper resource level is matched by position, not by name.
type cursor struct {
	raw      []string
	groups   [][]string
	consumed int
}

func newCursor(hyphenate []string) (*cursor, error) {
	c := &cursor{raw: hyphenate, groups: make([][]string, len(hyphenate))}
	for i, g := range hyphenate {
		words := strings.Split(g, "-")
		if len(words) < 2 {
			return nil, deferr.New("restful", g, "hyphenate group %q has no hyphen", g).
				WithAdvice("declare only multi-word resource names; single words need no declaration").
				WithExamples("(x) Restful(\"products\")", "(o) Restful(\"ballet-dancers\")")
		}
		for _, w := range words {
			if w == "" || w != strings.ToLower(w) {
				return nil, deferr.New("restful", g, "hyphenate group %q must be lower-case words joined by single hyphens", g).
					WithExamples("(x) Restful(\"ballet--dancers\")", "(x) Restful(\"Ballet-Dancers\")", "(o) Restful(\"ballet-dancers\")")
			}
		}
		c.groups[i] = words
	}
	return c, nil
}

// join returns the resource names for words, hyphen-joining runs that match
// the next unconsumed group.
func (c *cursor) join(words []string) []string {
	out := make([]string, 0, len(words))
	for i := 0; i < len(words); {
		if c.consumed < len(c.groups) && hasWordsAt(words, i, c.groups[c.consumed]) {
			out = append(out, c.raw[c.consumed])
			i += len(c.groups[c.consumed])
			c.consumed++
			continue
		}
		out = append(out, words[i])
		i++
	}
	return out
}

func (c *cursor) finish(words []string) error {
	if c.consumed == len(c.groups) {
		return nil
	}
	return deferr.New("restful", strings.Join(words, " "),
		"hyphenate group %q is not found in the action words %v", c.raw[c.consumed], words).
		WithAdvice("every group must appear in the action name, in resource order, once per declaration").
		WithExamples(
			"(x) balletDancers.Restful(\"greatest-products\")",
			"(o) balletDancersGreatestProducts.Restful(\"ballet-dancers\", \"greatest-products\")",
		)
}

func hasWordsAt(words []string, at int, group []string) bool {
	if at+len(group) > len(words) {
		return false
	}
	for i, g := range group {
		if words[at+i] != g {
			return false
		}
	}
	return true
}

// CheckHyphenate verifies that the hyphenate groups are well formed and are
// all consumed by actionWords.
func CheckHyphenate(actionWords, hyphenate []string) error {
	c, err := newCursor(hyphenate)
	if err != nil {
		return err
	}
	c.join(actionWords)
	return c.finish(actionWords)
}
