package market

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Class separates the daily and intraday adapter pools.
type Class string

const (
	Daily    Class = "daily"
	Intraday Class = "intraday"
)

// DailyResolution is the resolution label used for daily bars.
const DailyResolution = "D"

// Bar is one OHLCV record. Time is the bar open in epoch seconds.
type Bar struct {
	Time   int64   `json:"t" msgpack:"t"`
	Open   float64 `json:"o" msgpack:"o"`
	High   float64 `json:"h" msgpack:"h"`
	Low    float64 `json:"l" msgpack:"l"`
	Close  float64 `json:"c" msgpack:"c"`
	Volume float64 `json:"v" msgpack:"v"`
}

// Series is an ascending sequence of bars. A nil or empty series means no data.
type Series []Bar

// Request describes a candle fetch against a single adapter.
type Request struct {
	Symbol     string
	Resolution string // "D" or an intraday minute count such as "5"
	From       time.Time
	To         time.Time
}

// Validate checks the request invariants shared by every adapter.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Symbol) == "" {
		return fmt.Errorf("market: symbol is required")
	}
	if strings.TrimSpace(r.Resolution) == "" {
		return fmt.Errorf("market: resolution is required")
	}
	if r.To.Before(r.From) {
		return fmt.Errorf("market: window end %s precedes start %s", r.To.Format(time.RFC3339), r.From.Format(time.RFC3339))
	}
	return nil
}

// IsDaily reports whether the request targets daily bars.
func (r Request) IsDaily() bool {
	return strings.EqualFold(strings.TrimSpace(r.Resolution), DailyResolution)
}

// Valid reports whether every field carries a usable value: a positive
// timestamp, finite positive prices and a finite non-negative volume.
func (b Bar) Valid() bool {
	if b.Time <= 0 {
		return false
	}
	for _, p := range [...]float64{b.Open, b.High, b.Low, b.Close} {
		if math.IsNaN(p) || math.IsInf(p, 0) || p <= 0 {
			return false
		}
	}
	return !math.IsNaN(b.Volume) && !math.IsInf(b.Volume, 0) && b.Volume >= 0
}

// ParseBar builds a bar from provider JSON fields. It reports false when the
// timestamp or any OHLCV field is missing, null or not numeric.
func ParseBar(t, o, h, l, c, v gjson.Result, loc *time.Location) (Bar, bool) {
	ts, ok := ParseTimestamp(t, loc)
	if !ok {
		return Bar{}, false
	}
	var fields [5]float64
	for i, r := range [...]gjson.Result{o, h, l, c, v} {
		f, ok := ParseNumber(r)
		if !ok {
			return Bar{}, false
		}
		fields[i] = f
	}
	return Bar{Time: ts, Open: fields[0], High: fields[1], Low: fields[2], Close: fields[3], Volume: fields[4]}, true
}

// ParseNumber reads a JSON number or a numeric string.
func ParseNumber(v gjson.Result) (float64, bool) {
	var (
		f   float64
		err error
	)
	switch v.Type {
	case gjson.Number:
		f = v.Num
	case gjson.String:
		f, err = strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return 0, false
		}
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Normalize returns a copy of the valid bars sorted ascending by time. Bars
// sharing a timestamp keep their provider order.
func Normalize(bars []Bar) Series {
	out := make(Series, 0, len(bars))
	for _, b := range bars {
		if b.Valid() {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time < out[j].Time
	})
	return out
}

// Last returns the most recent bar.
func (s Series) Last() (Bar, bool) {
	if len(s) == 0 {
		return Bar{}, false
	}
	return s[len(s)-1], true
}

// Tail returns at most the last n bars as a new slice.
func (s Series) Tail(n int) Series {
	if n <= 0 || len(s) == 0 {
		return Series{}
	}
	start := len(s) - n
	if start < 0 {
		start = 0
	}
	out := make(Series, len(s)-start)
	copy(out, s[start:])
	return out
}

// Closes extracts close prices.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Close
	}
	return out
}

// Volumes extracts volumes.
func (s Series) Volumes() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Volume
	}
	return out
}

// CandleWindow is the columnar transport form of a series.
type CandleWindow struct {
	Resolution string    `json:"res"`
	T          []int64   `json:"t"`
	O          []float64 `json:"o"`
	H          []float64 `json:"h"`
	L          []float64 `json:"l"`
	C          []float64 `json:"c"`
	V          []float64 `json:"v"`
}

// Window converts the series into equal-length columns labelled with res.
func (s Series) Window(res string) CandleWindow {
	w := CandleWindow{
		Resolution: res,
		T:          make([]int64, len(s)),
		O:          make([]float64, len(s)),
		H:          make([]float64, len(s)),
		L:          make([]float64, len(s)),
		C:          make([]float64, len(s)),
		V:          make([]float64, len(s)),
	}
	for i, b := range s {
		w.T[i] = b.Time
		w.O[i] = b.Open
		w.H[i] = b.High
		w.L[i] = b.Low
		w.C[i] = b.Close
		w.V[i] = b.Volume
	}
	return w
}
