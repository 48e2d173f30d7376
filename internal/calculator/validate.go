package calculator

import (
	"errors"
	"fmt"
	"math"

	"MTFSentinel/internal/model"
)

var (
	// ErrUnsortedSeries is returned when timestamps are not strictly ascending.
	ErrUnsortedSeries = errors.New("series timestamps must be strictly ascending")
	// ErrInvalidBar is returned for non-finite or negative values and for high below low.
	ErrInvalidBar = errors.New("invalid bar")
)

// ValidateSeries checks the input contract of the signal engine.
func ValidateSeries(bars []model.OHLCV) error {
	for i, b := range bars {
		for _, v := range [...]float64{b.Open, b.High, b.Low, b.Close, b.Volume} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("bar %d at %s: non-finite value: %w", i, b.Time.Format("2006-01-02 15:04"), ErrInvalidBar)
			}
		}
		if b.Open < 0 || b.High < 0 || b.Low < 0 || b.Close < 0 || b.Volume < 0 {
			return fmt.Errorf("bar %d at %s: negative value: %w", i, b.Time.Format("2006-01-02 15:04"), ErrInvalidBar)
		}
		if b.High < b.Low {
			return fmt.Errorf("bar %d at %s: high %.4f < low %.4f: %w", i, b.Time.Format("2006-01-02 15:04"), b.High, b.Low, ErrInvalidBar)
		}
		if i > 0 && !b.Time.After(bars[i-1].Time) {
			return fmt.Errorf("bar %d at %s follows %s: %w", i, b.Time, bars[i-1].Time, ErrUnsortedSeries)
		}
	}
	return nil
}
