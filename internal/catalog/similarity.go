package catalog

import "strings"

// similarity scores how well an utterance mentions a candidate key.
// Free-text product mentions are rarely exact catalog names (plurals,
// partial names, typos), so the score is the better of a whole-string
// ratio and a per-token ratio: for each token of the key, the best
// normalized-Levenshtein match among the utterance tokens, averaged over
// the key's tokens. Both inputs must already be normalized.
func similarity(utterance, key string) float64 {
	if utterance == "" || key == "" {
		return 0
	}
	if utterance == key {
		return 1
	}

	score := normalizedLevenshtein(utterance, key)

	keyTokens := strings.Fields(key)
	utteranceTokens := strings.Fields(utterance)
	if len(keyTokens) == 0 || len(utteranceTokens) == 0 {
		return score
	}

	var sum float64
	for _, kt := range keyTokens {
		best := 0.0
		for _, ut := range utteranceTokens {
			if s := normalizedLevenshtein(kt, ut); s > best {
				best = s
			}
		}
		sum += best
	}
	if tokenScore := sum / float64(len(keyTokens)); tokenScore > score {
		score = tokenScore
	}
	return score
}

func normalizedLevenshtein(a, b string) float64 {
	ar := []rune(a)
	br := []rune(b)
	if len(ar) == 0 && len(br) == 0 {
		return 1
	}
	maxLen := len(ar)
	if len(br) > maxLen {
		maxLen = len(br)
	}
	return 1 - float64(levenshtein(ar, br))/float64(maxLen)
}

func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
