package urlpattern

import (
	"fmt"
	"regexp"
	"sync"
)

// patternCache shares compiled expressions between executes. Two executes
// with the same resolved pattern and slot kinds compile to the same source,
// so the cache stays bounded by the number of distinct routes.
type patternCache struct {
	compiled sync.Map // map[string]*regexp.Regexp
}

var cache = &patternCache{}

func (c *patternCache) compile(expr string) (*regexp.Regexp, error) {
	if v, ok := c.compiled.Load(expr); ok {
		return v.(*regexp.Regexp), nil
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}

	actual, _ := c.compiled.LoadOrStore(expr, re)
	return actual.(*regexp.Regexp), nil
}

// slotValidators holds the anchored form of each slot sub-pattern, used to
// check values while building URLs.
var slotValidators = func() map[slotKind]*regexp.Regexp {
	m := make(map[slotKind]*regexp.Regexp, len(slotPatterns))
	for kind, sub := range slotPatterns {
		m[kind] = regexp.MustCompile(fmt.Sprintf("^%s$", sub))
	}
	return m
}()
