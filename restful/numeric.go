package restful

// NumericOption configures a NumericRouter.
type NumericOption func(*NumericRouter)

// WithIDMatcher adds a predicate recognizing non-numeric id segments,
// e.g. "sku:A-100".
func WithIDMatcher(fn func(segment string) bool) NumericOption {
	return func(r *NumericRouter) {
		r.idMatchers = append(r.idMatchers, fn)
	}
}

// NumericRouter treats all-digit segments, and segments accepted by an id
// matcher, as resource ids.
type NumericRouter struct {
	base
	idMatchers []func(string) bool
}

// NewNumericRouter returns a numeric id router.
func NewNumericRouter(opts ...NumericOption) *NumericRouter {
	r := &NumericRouter{}
	for _, opt := range opts {
		opt(r)
	}
	r.classify = r.classifyIDs
	r.isRestful = r.judge
	return r
}

// IsID reports whether segment is a resource id.
func (r *NumericRouter) IsID(segment string) bool {
	if isDigits(segment) {
		return true
	}
	for _, fn := range r.idMatchers {
		if fn(segment) {
			return true
		}
	}
	return false
}

func (r *NumericRouter) classifyIDs(segments []string) []bool {
	ids := make([]bool, len(segments))
	for i, seg := range segments {
		ids[i] = r.IsID(seg)
	}
	return ids
}

// judge accepts resource/id alternation. Two literals in a row are only
// allowed at the end, where the second names an execute; longer literal runs
// cannot be told apart from nested resources without ids.
func (r *NumericRouter) judge(segments []string) bool {
	if r.IsID(segments[0]) {
		return false
	}
	run := 0
	for i, seg := range segments {
		if r.IsID(seg) {
			if run == 0 {
				return false
			}
			run = 0
			continue
		}
		run++
		if run > 2 || (run == 2 && i != len(segments)-1) {
			return false
		}
	}
	return true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
