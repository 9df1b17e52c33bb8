package utils

// NextPow2 returns the smallest power of two >= n.
func NextPow2(n int) (p int) {
	p = 1
	for p < n {
		p <<= 1
	}
	return
}
