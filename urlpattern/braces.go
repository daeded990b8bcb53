package urlpattern

import "fmt"

// braceIndices returns the start and end+1 indices of each {...} pair in s.
// Nested braces are rejected because a placeholder never carries a pattern.
func braceIndices(s string) ([]int, error) {
	var (
		idxs  []int
		level int
	)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			if level > 0 {
				return nil, fmt.Errorf("nested '{' at index %d in %q", i, s)
			}
			level++
			idxs = append(idxs, i)
		case '}':
			if level == 0 {
				return nil, fmt.Errorf("'}' without '{' at index %d in %q", i, s)
			}
			level--
			idxs = append(idxs, i+1)
		}
	}
	if level != 0 {
		return nil, fmt.Errorf("'{' without '}' at index %d in %q", idxs[len(idxs)-1], s)
	}
	return idxs, nil
}
