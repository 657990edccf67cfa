package isogeny

// Relative costs of one step along the kernel (multiplication by the
// isogeny degree) and of pushing one point through one isogeny, in field
// multiplications.
const (
	fourMulCost   = 12
	fourEvalCost  = 8
	threeMulCost  = 12
	threeEvalCost = 4
)

// optimalStrategy returns the cheapest traversal of an isogeny chain of n
// steps. The result has n-1 entries: the first is the number of steps to
// descend before the first split, followed by the strategy of the remaining
// n-k steps and then the strategy of the k steps left behind.
func optimalStrategy(n, mulCost, evalCost int) []int {
	if n < 2 {
		return nil
	}
	cost := make([]int, n+1)
	split := make([]int, n+1)
	for i := 2; i <= n; i++ {
		best, arg := -1, 0
		for k := 1; k < i; k++ {
			c := cost[i-k] + cost[k] + k*mulCost + (i-k)*evalCost
			if best < 0 || c < best {
				best, arg = c, k
			}
		}
		cost[i], split[i] = best, arg
	}

	out := make([]int, 0, n-1)
	var flatten func(n int)
	flatten = func(n int) {
		if n < 2 {
			return
		}
		k := split[n]
		out = append(out, k)
		flatten(n - k)
		flatten(k)
	}
	flatten(n)
	return out
}
