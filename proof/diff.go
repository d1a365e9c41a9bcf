package proof

import "strings"

// MarkDiff renders a word-level diff of an original and corrected text pair.
// Words are aligned with a longest common subsequence; each run of words
// that differs is wrapped in ** on both sides, unchanged words are left
// bare. Output whitespace is normalized to single spaces.
//
// Identical inputs come back unmarked. An empty original against a
// non-empty correction marks the whole correction, and vice versa.
func MarkDiff(original, corrected string) (string, string) {
	origWords := strings.Fields(original)
	corrWords := strings.Fields(corrected)

	matchedOrig, matchedCorr := lcsMatches(origWords, corrWords)

	return markRuns(origWords, matchedOrig), markRuns(corrWords, matchedCorr)
}

// markRuns joins words back together, wrapping each maximal run of
// unmatched words in **.
func markRuns(words []string, matched []bool) string {
	var out []string
	for i := 0; i < len(words); {
		if matched[i] {
			out = append(out, words[i])
			i++
			continue
		}
		j := i
		for j < len(words) && !matched[j] {
			j++
		}
		out = append(out, "**"+strings.Join(words[i:j], " ")+"**")
		i = j
	}
	return strings.Join(out, " ")
}

// lcsMatches aligns two word slices on their longest common subsequence and
// reports, per side, which positions took part in the match.
func lcsMatches(a, b []string) ([]bool, []bool) {
	n, m := len(a), len(b)

	// lcs[i][j] is the LCS length of a[i:] and b[j:].
	lcs := make([][]int, n+1)
	for i := range lcs {
		lcs[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			switch {
			case a[i] == b[j]:
				lcs[i][j] = lcs[i+1][j+1] + 1
			case lcs[i+1][j] >= lcs[i][j+1]:
				lcs[i][j] = lcs[i+1][j]
			default:
				lcs[i][j] = lcs[i][j+1]
			}
		}
	}

	matchedA := make([]bool, n)
	matchedB := make([]bool, m)
	for i, j := 0, 0; i < n && j < m; {
		switch {
		case a[i] == b[j]:
			matchedA[i] = true
			matchedB[j] = true
			i++
			j++
		case lcs[i+1][j] >= lcs[i][j+1]:
			i++
		default:
			j++
		}
	}
	return matchedA, matchedB
}
