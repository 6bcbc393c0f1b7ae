package domain

// CoalesceStr returns the first non-empty string from vals.
func CoalesceStr[S ~string](vals ...S) S {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// CoalescePositive returns the first value greater than zero, or zero.
func CoalescePositive(vals ...int) int {
	for _, v := range vals {
		if v > 0 {
			return v
		}
	}
	return 0
}
