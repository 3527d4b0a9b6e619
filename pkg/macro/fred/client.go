package fred

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"dailyproxy-api/pkg/upstream"
)

// DefaultBaseURL is the FRED API root.
const DefaultBaseURL = "https://api.stlouisfed.org/fred"

// ErrNoObservation is returned when a series has no observations.
var ErrNoObservation = errors.New("fred: no observation")

// Well-known series.
const (
	SeriesCPI = "CPIAUCSL"
)

// TreasurySeries maps tenor labels onto constant-maturity yield series.
var TreasurySeries = []struct {
	Label  string
	Series string
}{
	{"US2Y", "DGS2"},
	{"US5Y", "DGS5"},
	{"US10Y", "DGS10"},
	{"US30Y", "DGS30"},
}

// Observation is the latest data point of a series. Value is kept as the
// string FRED returns; "." marks a missing value.
type Observation struct {
	Series string `json:"series" msgpack:"series"`
	Date   string `json:"date" msgpack:"date"`
	Value  string `json:"value" msgpack:"value"`
}

// Client reads series observations from FRED.
type Client struct {
	http *upstream.Client
}

// NewClient constructs a client authenticated with apiKey.
func NewClient(apiKey string, opts ...upstream.Option) *Client {
	all := append([]upstream.Option{
		upstream.WithQueryParam("api_key", apiKey),
		upstream.WithQueryParam("file_type", "json"),
	}, opts...)
	return &Client{http: upstream.New("fred", DefaultBaseURL, all...)}
}

// Latest returns the most recent observation of seriesID.
func (c *Client) Latest(ctx context.Context, seriesID string) (*Observation, error) {
	seriesID = strings.ToUpper(strings.TrimSpace(seriesID))
	params := url.Values{}
	params.Set("series_id", seriesID)
	params.Set("sort_order", "desc")
	params.Set("limit", "1")

	var payload struct {
		Observations []struct {
			Date  string `json:"date"`
			Value string `json:"value"`
		} `json:"observations"`
	}
	if err := c.http.GetJSON(ctx, "/series/observations", params, &payload); err != nil {
		return nil, err
	}
	if len(payload.Observations) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoObservation, seriesID)
	}
	obs := payload.Observations[0]
	return &Observation{Series: seriesID, Date: obs.Date, Value: obs.Value}, nil
}
