package calculator

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"MTFSentinel/internal/model"
)

// ErrInvalidRule is returned for unparseable or non-positive bucket rules.
var ErrInvalidRule = errors.New("invalid resample rule")

// ParseRule converts a bucket rule such as "15T", "15min", "30m", "1h" or "1D" into a duration.
func ParseRule(rule string) (time.Duration, error) {
	r := strings.TrimSpace(rule)
	i := 0
	for i < len(r) && r[i] >= '0' && r[i] <= '9' {
		i++
	}
	n := 1
	if i > 0 {
		v, err := strconv.Atoi(r[:i])
		if err != nil {
			return 0, fmt.Errorf("%q: %w", rule, ErrInvalidRule)
		}
		n = v
	}

	var unit time.Duration
	switch r[i:] {
	case "S", "s", "sec":
		unit = time.Second
	case "T", "m", "min":
		unit = time.Minute
	case "H", "h":
		unit = time.Hour
	case "D", "d":
		unit = 24 * time.Hour
	default:
		return 0, fmt.Errorf("%q: unknown unit: %w", rule, ErrInvalidRule)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%q: non-positive width: %w", rule, ErrInvalidRule)
	}
	return time.Duration(n) * unit, nil
}

// Resample aggregates bars into fixed buckets aligned to the Unix epoch:
// open=first, high=max, low=min, close=last, volume=sum.
// Buckets without bars are not emitted. Each output bar is stamped with its bucket start.
// Input must be ascending; output is ascending by bucket start.
func Resample(bars []model.OHLCV, bucket time.Duration) ([]model.OHLCV, error) {
	if bucket <= 0 {
		return nil, fmt.Errorf("bucket %s: %w", bucket, ErrInvalidRule)
	}
	out := make([]model.OHLCV, 0, len(bars))
	var cur model.OHLCV
	var curStart int64
	started := false

	for _, b := range bars {
		start := bucketStart(b.Time, bucket)
		if started && start == curStart {
			if b.High > cur.High {
				cur.High = b.High
			}
			if b.Low < cur.Low {
				cur.Low = b.Low
			}
			cur.Close = b.Close
			cur.Volume += b.Volume
			continue
		}
		if started {
			out = append(out, cur)
		}
		curStart = start
		cur = model.OHLCV{
			Time:   time.Unix(0, start).In(b.Time.Location()),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		}
		started = true
	}
	if started {
		out = append(out, cur)
	}
	return out, nil
}

// bucketStart floors t to the bucket grid in Unix nanoseconds.
func bucketStart(t time.Time, bucket time.Duration) int64 {
	ns := t.UnixNano()
	w := int64(bucket)
	mod := ns % w
	if mod < 0 {
		mod += w
	}
	return ns - mod
}
