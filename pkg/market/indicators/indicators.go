package indicators

import (
	"math"
	"time"

	"dailyproxy-api/pkg/market"
)

// Every function here is pure. Missing results are reported as (0, false)
// and never as a zero value that could be mistaken for data.

// SMA returns the mean of exactly the last n values.
func SMA(values []float64, n int) (float64, bool) {
	if n <= 0 || len(values) < n {
		return 0, false
	}
	sum := 0.0
	for _, v := range values[len(values)-n:] {
		sum += v
	}
	return finite(sum / float64(n))
}

// TrueRange computes max(h-l, |h-prevClose|, |l-prevClose|).
func TrueRange(bar market.Bar, prevClose float64) float64 {
	highLow := bar.High - bar.Low
	highClose := math.Abs(bar.High - prevClose)
	lowClose := math.Abs(bar.Low - prevClose)
	return math.Max(highLow, math.Max(highClose, lowClose))
}

// ATR is the simple mean of the last period true ranges. It needs period+1
// bars because the first bar has no previous close.
func ATR(bars market.Series, period int) (float64, bool) {
	if period <= 0 || len(bars) < period+1 {
		return 0, false
	}
	sum := 0.0
	for i := len(bars) - period; i < len(bars); i++ {
		sum += TrueRange(bars[i], bars[i-1].Close)
	}
	return finite(sum / float64(period))
}

// AverageVolume is SMA over volumes.
func AverageVolume(bars market.Series, n int) (float64, bool) {
	return SMA(bars.Volumes(), n)
}

// PrevHighLow returns the high and low of the second-to-last bar.
func PrevHighLow(bars market.Series) (high, low float64, ok bool) {
	if len(bars) < 2 {
		return 0, 0, false
	}
	prev := bars[len(bars)-2]
	return prev.High, prev.Low, true
}

// SessionDate returns the calendar date of ts in loc.
func SessionDate(ts int64, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return time.Unix(ts, 0).In(loc).Format("2006-01-02")
}

// Session returns the trailing bars that share the calendar date of the last
// bar, evaluated in loc (UTC when nil).
func Session(bars market.Series, loc *time.Location) market.Series {
	if len(bars) == 0 {
		return market.Series{}
	}
	date := SessionDate(bars[len(bars)-1].Time, loc)
	start := len(bars) - 1
	for start > 0 && SessionDate(bars[start-1].Time, loc) == date {
		start--
	}
	out := make(market.Series, len(bars)-start)
	copy(out, bars[start:])
	return out
}

// VWAP is Σ(typical·volume)/Σvolume with typical=(h+l+c)/3. It is absent when
// the session carries no volume.
func VWAP(session market.Series) (float64, bool) {
	var pv, vol float64
	for _, b := range session {
		if b.Volume <= 0 {
			continue
		}
		typical := (b.High + b.Low + b.Close) / 3
		pv += typical * b.Volume
		vol += b.Volume
	}
	if vol <= 0 {
		return 0, false
	}
	return finite(pv / vol)
}

// DayExtrema summarises one session.
type DayExtrema struct {
	High   float64
	Low    float64
	Open   float64
	Last   float64
	LastTs int64
	Date   string
}

// Extrema returns max high, min low, first open, last close and last
// timestamp over the session.
func Extrema(session market.Series, loc *time.Location) (DayExtrema, bool) {
	if len(session) == 0 {
		return DayExtrema{}, false
	}
	first, last := session[0], session[len(session)-1]
	out := DayExtrema{
		High:   first.High,
		Low:    first.Low,
		Open:   first.Open,
		Last:   last.Close,
		LastTs: last.Time,
		Date:   SessionDate(last.Time, loc),
	}
	for _, b := range session[1:] {
		out.High = math.Max(out.High, b.High)
		out.Low = math.Min(out.Low, b.Low)
	}
	return out, true
}

func finite(v float64) (float64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
