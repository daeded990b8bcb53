package restful

import (
	"strings"

	"github.com/vitalvas/flute/urlpattern"
)

// Segment is one literal or placeholder element of a URL chain.
type Segment = urlpattern.Segment

// MappingResource is the request side of a forward conversion.
type MappingResource struct {
	// RequestPath is the raw request path.
	RequestPath string

	// MappingPath is the working path, cleaned and possibly prefix-stripped.
	MappingPath string
}

// MappingOption is the result of a forward conversion.
type MappingOption struct {
	// PathFilter rewrites the mapping path before action resolution.
	// It is nil when the path is not restful.
	PathFilter func(path string) string

	// Restful reports whether the router judged the path restful.
	Restful bool
}

// ReverseResource is the input of a reverse conversion.
type ReverseResource struct {
	// ActionWords are the lower-cased words of the action name,
	// e.g. [ballet dancers greatest products].
	ActionWords []string

	// Hyphenate are the declared hyphenate groups of the action in
	// resource order, e.g. [ballet-dancers greatest-products].
	Hyphenate []string

	// Chain is the execute's literal and placeholder segments.
	Chain []Segment
}

// ReverseOption is the result of a reverse conversion.
type ReverseOption struct {
	// URLFilter replaces the path part of a built URL with the restful
	// path, keeping any query or fragment. It is nil when not restful.
	URLFilter func(url string) string

	// Restful reports whether the URL was converted.
	Restful bool
}

// Router converts between natural resource paths, where every id follows
// its resource name, and mapping paths, where resource names come first
// and ids last:
//
//	/products/1/purchases/2/  <->  /products/purchases/1/2/
type Router interface {
	// IsRestfulPath reports whether path follows the resource/id layout.
	IsRestfulPath(path string) bool

	// ToMappingPath converts a natural path into its mapping path.
	ToMappingPath(path string) string

	// ToReversePath builds the natural path for an action and chain.
	ToReversePath(res ReverseResource) (string, error)

	// Mapping judges a request and returns the path filter to apply.
	Mapping(res MappingResource) MappingOption

	// Reverse returns the URL filter for building a restful URL.
	Reverse(res ReverseResource) (ReverseOption, error)
}

var (
	_ Router = (*NumericRouter)(nil)
	_ Router = (*PairRouter)(nil)
)

// classifier marks which segments of a path are ids.
type classifier func(segments []string) []bool

// base holds the conversion logic shared by the router kinds.
type base struct {
	classify  classifier
	isRestful func(segments []string) bool
}

func (b *base) IsRestfulPath(path string) bool {
	segments, _ := splitPath(path)
	if len(segments) == 0 {
		return false
	}
	return b.isRestful(segments)
}

// ToMappingPath splits hyphenated resource names into words and moves ids
// to the end, keeping their order. Already canonical paths are returned
// unchanged.
func (b *base) ToMappingPath(path string) string {
	segments, trailing := splitPath(path)
	if len(segments) == 0 {
		return path
	}

	ids := b.classify(segments)
	literals := make([]string, 0, len(segments))
	var values []string
	for i, seg := range segments {
		if ids[i] {
			values = append(values, seg)
			continue
		}
		for _, word := range strings.Split(seg, "-") {
			if word != "" {
				literals = append(literals, word)
			}
		}
	}
	return joinPath(append(literals, values...), trailing)
}

func (b *base) ToReversePath(res ReverseResource) (string, error) {
	cur, err := newCursor(res.Hyphenate)
	if err != nil {
		return "", err
	}
	resources := cur.join(res.ActionWords)
	if err := cur.finish(res.ActionWords); err != nil {
		return "", err
	}

	literals := resources
	var values []string
	for _, seg := range res.Chain {
		if seg.Placeholder {
			values = append(values, seg.Value)
			continue
		}
		literals = append(literals, seg.Value)
	}
	return joinPath(interleave(literals, values), true), nil
}

func (b *base) Mapping(res MappingResource) MappingOption {
	if !b.IsRestfulPath(res.MappingPath) {
		return MappingOption{}
	}
	return MappingOption{PathFilter: b.ToMappingPath, Restful: true}
}

func (b *base) Reverse(res ReverseResource) (ReverseOption, error) {
	if len(res.ActionWords) == 0 {
		return ReverseOption{}, nil
	}
	path, err := b.ToReversePath(res)
	if err != nil {
		return ReverseOption{}, err
	}
	filter := func(url string) string {
		if i := strings.IndexAny(url, "?#"); i >= 0 {
			return path + url[i:]
		}
		return path
	}
	return ReverseOption{URLFilter: filter, Restful: true}, nil
}

// interleave places the i-th value after the i-th literal. Values beyond
// the literals are appended in order.
func interleave(literals, values []string) []string {
	out := make([]string, 0, len(literals)+len(values))
	for i := 0; i < len(literals) || i < len(values); i++ {
		if i < len(literals) {
			out = append(out, literals[i])
		}
		if i < len(values) {
			out = append(out, values[i])
		}
	}
	return out
}

func splitPath(path string) ([]string, bool) {
	trailing := strings.HasSuffix(path, "/")
	var segments []string
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	return segments, trailing
}

func joinPath(segments []string, trailing bool) string {
	if len(segments) == 0 {
		return "/"
	}
	p := "/" + strings.Join(segments, "/")
	if trailing {
		p += "/"
	}
	return p
}
