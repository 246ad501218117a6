package service

// levenshtein is the classic insert/delete/substitute edit distance over runes.
func levenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	al, bl := len(ra), len(rb)

	dp := make([][]int, al+1)
	for i := 0; i <= al; i++ {
		dp[i] = make([]int, bl+1)
		dp[i][0] = i
	}
	for j := 0; j <= bl; j++ {
		dp[0][j] = j
	}

	for i := 1; i <= al; i++ {
		for j := 1; j <= bl; j++ {
			cost := 0
			if ra[i-1] != rb[j-1] {
				cost = 1
			}
			// up / left / diagonal
			dp[i][j] = min3(dp[i-1][j]+1, dp[i][j-1]+1, dp[i-1][j-1]+cost)
		}
	}
	return dp[al][bl]
}

// Distance is levenshtein exported for callers outside the scorer.
func Distance(a, b string) int { return levenshtein(a, b) }

func min3(a, b, c int) int { return min(min(a, b), c) }
