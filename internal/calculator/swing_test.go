package calculator

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindSwings_Basic(t *testing.T) {
	highs := []float64{12, 11, 7, 11, 12, 13, 12, 9, 12, 13, 14}
	lows := []float64{10, 9, 5, 9, 10, 11, 10, 7, 10, 11, 12}

	sh, sl := FindSwings(highs, lows, 2, 2)
	assert.Equal(t, []int{5}, sh)
	assert.Equal(t, []int{2, 7}, sl)
}

func TestFindSwings_PlateauTiesQualify(t *testing.T) {
	highs := []float64{1, 2, 3, 3, 3, 2, 1}
	lows := []float64{0, 1, 2, 2, 2, 1, 0}

	sh, sl := FindSwings(highs, lows, 2, 2)
	assert.Equal(t, []int{2, 3, 4}, sh)
	assert.Empty(t, sl)
}

func TestFindSwings_TooShort(t *testing.T) {
	sh, sl := FindSwings([]float64{1, 2, 3, 4}, []float64{0, 1, 2, 3}, 2, 2)
	assert.Empty(t, sh)
	assert.Empty(t, sl)

	sh, sl = FindSwings(nil, nil, 2, 2)
	assert.Empty(t, sh)
	assert.Empty(t, sl)
}

func TestFindSwings_WindowProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 50; trial++ {
		n := 5 + rng.Intn(60)
		left, right := 1+rng.Intn(3), 1+rng.Intn(3)
		highs, lows := make([]float64, n), make([]float64, n)
		for i := range highs {
			lows[i] = float64(rng.Intn(10))
			highs[i] = lows[i] + float64(rng.Intn(5))
		}

		sh, sl := FindSwings(highs, lows, left, right)
		for _, i := range sh {
			assert.GreaterOrEqual(t, i, left)
			assert.Less(t, i, n-right)
			assert.Equal(t, maxOf(highs[i-left:i+right+1]), highs[i])
		}
		for _, i := range sl {
			assert.GreaterOrEqual(t, i, left)
			assert.Less(t, i, n-right)
			assert.Equal(t, minOf(lows[i-left:i+right+1]), lows[i])
		}
	}
}

func TestBarsSinceLastPivot(t *testing.T) {
	highs, lows := []int{3}, []int{10}

	_, ok := BarsSinceLastPivot(2, highs, lows)
	assert.False(t, ok)

	prev := -1
	for idx := 3; idx < 10; idx++ {
		n, ok := BarsSinceLastPivot(idx, highs, lows)
		assert.True(t, ok)
		assert.Equal(t, idx-3, n)
		assert.GreaterOrEqual(t, n, prev, "non-decreasing until the next pivot")
		prev = n
	}

	n, ok := BarsSinceLastPivot(10, highs, lows)
	assert.True(t, ok)
	assert.Equal(t, 0, n)

	n, ok = BarsSinceLastPivot(15, highs, lows)
	assert.True(t, ok)
	assert.Equal(t, 5, n)
}

func TestFiboTimePass(t *testing.T) {
	tests := []struct {
		name string
		bars int
		ok   bool
		tol  int
		want bool
	}{
		{"member", 5, true, 0, true},
		{"non-member", 4, true, 0, false},
		{"within tolerance", 4, true, 1, true},
		{"zero bars", 0, true, 0, false},
		{"no pivot", 5, false, 0, false},
		{"no pivot with tolerance", 3, false, 10, false},
		{"largest member", 21, true, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FiboTimePass(tt.bars, tt.ok, DefaultFiboSet, tt.tol))
		})
	}
}

func maxOf(v []float64) float64 {
	m := v[0]
	for _, x := range v[1:] {
		if x > m {
			m = x
		}
	}
	return m
}

func minOf(v []float64) float64 {
	m := v[0]
	for _, x := range v[1:] {
		if x < m {
			m = x
		}
	}
	return m
}
