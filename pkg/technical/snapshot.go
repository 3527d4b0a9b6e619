package technical

import (
	"dailyproxy-api/pkg/market"
	"dailyproxy-api/pkg/market/indicators"
)

// Soft-error tags carried in Snapshot.Errors.
const (
	TagDailyNoData            = "daily_no_data"
	TagIntradayNoData         = "intraday_no_data"
	TagDailyTimeout           = "daily_timeout"
	TagIntradayTimeout        = "intraday_timeout"
	TagDailyIndicatorError    = "daily_indicator_error"
	TagIntradayIndicatorError = "intraday_indicator_error"
)

// Snapshot is the technical view of one symbol. Nil members serialize as null.
type Snapshot struct {
	Symbol   string                     `json:"symbol"`
	Daily    *indicators.DailyBundle    `json:"daily"`
	Intraday *indicators.IntradayBundle `json:"intraday"`
	Candles  *market.CandleWindow       `json:"candles"`
	Sources  Sources                    `json:"sources"`
	Errors   []string                   `json:"errors"`
	Debug    *Debug                     `json:"debug,omitempty"`
}

// Sources names the provider that served each resolution class.
type Sources struct {
	Daily    *string `json:"daily"`
	Intraday *string `json:"intraday"`
}

// Debug is attached only when the caller asks for it.
type Debug struct {
	DailyBars      int              `json:"daily_bars"`
	IntradayBars   int              `json:"intraday_bars"`
	DailyWindow    Window           `json:"daily_window"`
	IntradayWindow Window           `json:"intraday_window"`
	DailyChain     []string         `json:"daily_chain"`
	IntradayChain  []string         `json:"intraday_chain"`
	Attempts       []market.Attempt `json:"attempts"`
}

// Window is a requested time range in epoch seconds.
type Window struct {
	Resolution string `json:"res"`
	From       int64  `json:"from"`
	To         int64  `json:"to"`
}

// HasError reports whether tag was recorded.
func (s *Snapshot) HasError(tag string) bool {
	for _, e := range s.Errors {
		if e == tag {
			return true
		}
	}
	return false
}

func (s *Snapshot) addError(tag string) {
	if !s.HasError(tag) {
		s.Errors = append(s.Errors, tag)
	}
}
