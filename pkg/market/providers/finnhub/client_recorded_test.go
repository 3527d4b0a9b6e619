package finnhub

import (
	"context"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dnaeon/go-vcr/cassette"
	"github.com/dnaeon/go-vcr/recorder"
	"github.com/stretchr/testify/assert"

	"dailyproxy-api/pkg/market"
	"dailyproxy-api/pkg/upstream"
)

// This test uses go-vcr to record/replay a real daily candle call.
// It skips by default if cassette is absent and RECORD_CASSETTES != 1.
func TestAdapter_FetchDaily_Recorded(t *testing.T) {
	cassettePath := filepath.Join("testdata", "cassettes", "finnhub_daily")
	if _, err := os.Stat(cassettePath + ".yaml"); os.IsNotExist(err) {
		if os.Getenv("RECORD_CASSETTES") != "1" {
			t.Skipf("cassette missing; set RECORD_CASSETTES=1 to record: %s.yaml", cassettePath)
		}
		err := os.MkdirAll(filepath.Dir(cassettePath), 0o755)
		assert.NoError(t, err, "mkdir cassettes dir should succeed")
	}

	r, err := recorder.New(cassettePath)
	assert.NoError(t, err, "recorder.New should not error")
	defer func() { _ = r.Stop() }()
	r.AddFilter(func(i *cassette.Interaction) error {
		i.Request.URL = scrubToken(i.Request.URL)
		return nil
	})
	r.SetMatcher(func(req *http.Request, rec cassette.Request) bool {
		return req.Method == rec.Method && scrubToken(req.URL.String()) == rec.URL
	})

	client := NewClient(os.Getenv("FINNHUB_API_KEY"), upstream.WithHTTPClient(&http.Client{Transport: r}))
	to := time.Date(2024, 3, 1, 21, 0, 0, 0, time.UTC)
	series, err := NewAdapter("finnhub", client).Fetch(context.Background(), market.Request{
		Symbol:     "AAPL",
		Resolution: market.DailyResolution,
		From:       to.AddDate(0, 0, -30),
		To:         to,
	})
	assert.NoError(t, err, "Fetch should not error")
	assert.NotEmpty(t, series, "series should not be empty")
	for i := 1; i < len(series); i++ {
		assert.LessOrEqual(t, series[i-1].Time, series[i].Time, "bars must be ascending")
	}
}

func scrubToken(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	if q.Has("token") {
		q.Set("token", "REDACTED")
	}
	u.RawQuery = q.Encode()
	return u.String()
}
