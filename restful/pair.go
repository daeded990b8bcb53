package restful

// PairRouter treats every second segment as an id, whatever its shape:
// resource names sit at even positions and ids at odd ones.
//
// A trailing execute name after an id is therefore read as another id:
// /products/1/purchases/price/ maps to /products/purchases/1/price/.
//
// IsRestfulPath rejects only an empty path and a leading all-digit segment.
// Runs of names such as /sea/land/piari/ are refused by NumericRouter alone.
type PairRouter struct {
	base
}

// NewPairRouter returns a position based router.
func NewPairRouter() *PairRouter {
	r := &PairRouter{}
	r.classify = classifyPairs
	r.isRestful = judgePairs
	return r
}

func classifyPairs(segments []string) []bool {
	ids := make([]bool, len(segments))
	for i := range segments {
		ids[i] = i%2 == 1
	}
	return ids
}

func judgePairs(segments []string) bool {
	return !isDigits(segments[0])
}
