package calculator

// DefaultFiboSet is the Fibonacci-like cadence used by the time filter.
var DefaultFiboSet = []int{3, 5, 8, 13, 21}

// FindSwings returns fractal pivots. Index i in [left, n-right) is a swing high when
// high[i] equals the max of high[i-left..i+right], and a swing low when low[i]
// equals the min of the same window. Ties on a plateau all qualify.
// A series too short for one full window yields no pivots.
func FindSwings(high, low []float64, left, right int) (swingHighs, swingLows []int) {
	n := len(high)
	if len(low) < n {
		n = len(low)
	}
	if left < 0 || right < 0 || n-right <= left {
		return nil, nil
	}

	for i := left; i < n-right; i++ {
		hi, lo := high[i], low[i]
		isHigh, isLow := true, true
		for j := i - left; j <= i+right; j++ {
			if high[j] > hi {
				isHigh = false
			}
			if low[j] < lo {
				isLow = false
			}
			if !isHigh && !isLow {
				break
			}
		}
		if isHigh {
			swingHighs = append(swingHighs, i)
		}
		if isLow {
			swingLows = append(swingLows, i)
		}
	}
	return swingHighs, swingLows
}

// BarsSinceLastPivot returns idx minus the latest pivot at or before idx,
// pooling swing highs and lows. ok is false when no such pivot exists.
func BarsSinceLastPivot(idx int, swingHighs, swingLows []int) (bars int, ok bool) {
	last := -1
	for _, list := range [2][]int{swingHighs, swingLows} {
		for _, p := range list {
			if p <= idx && p > last {
				last = p
			}
		}
	}
	if last < 0 {
		return 0, false
	}
	return idx - last, true
}

// FiboTimePass reports whether bars lies within tolerance of a member of fiboSet.
// It is always false when ok is false (no pivot).
func FiboTimePass(bars int, ok bool, fiboSet []int, tolerance int) bool {
	if !ok {
		return false
	}
	for _, f := range fiboSet {
		d := bars - f
		if d < 0 {
			d = -d
		}
		if d <= tolerance {
			return true
		}
	}
	return false
}
