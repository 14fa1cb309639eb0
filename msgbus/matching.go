package msgbus

// IsMatching reports whether topic matches pattern, where '*' in the
// pattern matches any run of characters (including none) and '?' matches
// exactly one character. All other characters match themselves.
func IsMatching(topic, pattern string) bool {
	n, m := len(topic), len(pattern)
	prev := make([]bool, m+1)
	curr := make([]bool, m+1)

	prev[0] = true
	for j := 1; j <= m; j++ {
		prev[j] = prev[j-1] && pattern[j-1] == '*'
	}

	for i := 1; i <= n; i++ {
		curr[0] = false
		for j := 1; j <= m; j++ {
			switch pc := pattern[j-1]; {
			case pc == '*':
				curr[j] = prev[j] || curr[j-1]
			case pc == '?' || pc == topic[i-1]:
				curr[j] = prev[j-1]
			default:
				curr[j] = false
			}
		}
		prev, curr = curr, prev
	}
	return prev[m]
}
