package indicators

import (
	"time"

	"dailyproxy-api/pkg/market"
)

// Lookbacks, in daily bars, used by the daily bundle.
const (
	ATRPeriod      = 14 // average true range
	AvgVolumeDays  = 20 // average volume
	LongestAverage = 50 // longest moving average (MA50)
)

// DailyBundle holds daily-series indicators. Nil fields are absent.
type DailyBundle struct {
	MA5      *float64 `json:"ma5"`
	MA20     *float64 `json:"ma20"`
	MA50     *float64 `json:"ma50"`
	ATR14    *float64 `json:"atr14"`
	PrevHigh *float64 `json:"prev_high"`
	PrevLow  *float64 `json:"prev_low"`
	AvgVol20 *float64 `json:"avg_vol20"`
	AsOf     string   `json:"as_of"`
}

// IntradayBundle holds session indicators. Nil fields are absent.
type IntradayBundle struct {
	Resolution string   `json:"res"`
	VWAP       *float64 `json:"vwap"`
	DayHigh    *float64 `json:"day_high"`
	DayLow     *float64 `json:"day_low"`
	Open       *float64 `json:"open"`
	Last       *float64 `json:"last"`
	LastTs     *int64   `json:"last_ts"`
	AsOfDate   string   `json:"as_of_date"`
}

// Daily computes the daily bundle. It returns nil for an empty series.
func Daily(bars market.Series, loc *time.Location) *DailyBundle {
	last, ok := bars.Last()
	if !ok {
		return nil
	}
	closes := bars.Closes()
	out := &DailyBundle{
		MA5:      opt(SMA(closes, 5)),
		MA20:     opt(SMA(closes, 20)),
		MA50:     opt(SMA(closes, LongestAverage)),
		ATR14:    opt(ATR(bars, ATRPeriod)),
		AvgVol20: opt(AverageVolume(bars, AvgVolumeDays)),
		AsOf:     SessionDate(last.Time, loc),
	}
	if high, low, ok := PrevHighLow(bars); ok {
		out.PrevHigh = &high
		out.PrevLow = &low
	}
	return out
}

// Intraday computes the session bundle for the most recent day in bars. It
// returns nil for an empty series.
func Intraday(bars market.Series, res string, loc *time.Location) *IntradayBundle {
	session := Session(bars, loc)
	ext, ok := Extrema(session, loc)
	if !ok {
		return nil
	}
	return &IntradayBundle{
		Resolution: res,
		VWAP:       opt(VWAP(session)),
		DayHigh:    &ext.High,
		DayLow:     &ext.Low,
		Open:       &ext.Open,
		Last:       &ext.Last,
		LastTs:     &ext.LastTs,
		AsOfDate:   ext.Date,
	}
}

func opt(v float64, ok bool) *float64 {
	if !ok {
		return nil
	}
	return &v
}
