package match

import "strings"

// similarity scores two already-normalized strings in [0,1]. Containment
// scores by length ratio; otherwise the shared prefix length counts against
// the longer string.
func similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	longer, shorter := ra, rb
	if len(rb) > len(ra) {
		longer, shorter = rb, ra
	}
	if len(longer) == 0 {
		return 1.0
	}
	if strings.Contains(string(longer), string(shorter)) {
		return float64(len(shorter)) / float64(len(longer))
	}

	n := len(shorter)
	match := 0
	for i := 0; i < n; i++ {
		if ra[i] != rb[i] {
			break
		}
		match++
	}
	return float64(match) / float64(len(longer))
}
