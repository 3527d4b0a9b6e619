package finnhub

// Quote is the real-time quote payload.
type Quote struct {
	Symbol        string  `json:"symbol" msgpack:"symbol"`
	Current       float64 `json:"c" msgpack:"c"`
	High          float64 `json:"h" msgpack:"h"`
	Low           float64 `json:"l" msgpack:"l"`
	Open          float64 `json:"o" msgpack:"o"`
	PrevClose     float64 `json:"pc" msgpack:"pc"`
	Change        float64 `json:"d" msgpack:"d"`
	ChangePercent float64 `json:"dp" msgpack:"dp"`
	Timestamp     int64   `json:"t" msgpack:"t"`
}

// Profile is the company profile (profile2 endpoint).
type Profile struct {
	Country           string  `json:"country" msgpack:"country"`
	Currency          string  `json:"currency" msgpack:"currency"`
	Exchange          string  `json:"exchange" msgpack:"exchange"`
	IPO               string  `json:"ipo" msgpack:"ipo"`
	MarketCap         float64 `json:"marketCapitalization" msgpack:"marketCapitalization"`
	Name              string  `json:"name" msgpack:"name"`
	Phone             string  `json:"phone" msgpack:"phone"`
	SharesOutstanding float64 `json:"shareOutstanding" msgpack:"shareOutstanding"`
	Ticker            string  `json:"ticker" msgpack:"ticker"`
	WebURL            string  `json:"weburl" msgpack:"weburl"`
	Logo              string  `json:"logo" msgpack:"logo"`
	Industry          string  `json:"finnhubIndustry" msgpack:"finnhubIndustry"`
}

// NewsItem is one company news headline.
type NewsItem struct {
	Category string `json:"category" msgpack:"category"`
	Datetime int64  `json:"datetime" msgpack:"datetime"`
	Headline string `json:"headline" msgpack:"headline"`
	ID       int64  `json:"id" msgpack:"id"`
	Image    string `json:"image" msgpack:"image"`
	Related  string `json:"related" msgpack:"related"`
	Source   string `json:"source" msgpack:"source"`
	Summary  string `json:"summary" msgpack:"summary"`
	URL      string `json:"url" msgpack:"url"`
}

// Earning is one entry of the earnings calendar.
type Earning struct {
	Date            string   `json:"date" msgpack:"date"`
	EPSActual       *float64 `json:"epsActual" msgpack:"epsActual"`
	EPSEstimate     *float64 `json:"epsEstimate" msgpack:"epsEstimate"`
	Hour            string   `json:"hour" msgpack:"hour"`
	Quarter         int      `json:"quarter" msgpack:"quarter"`
	RevenueActual   *float64 `json:"revenueActual" msgpack:"revenueActual"`
	RevenueEstimate *float64 `json:"revenueEstimate" msgpack:"revenueEstimate"`
	Symbol          string   `json:"symbol" msgpack:"symbol"`
	Year            int      `json:"year" msgpack:"year"`
}
