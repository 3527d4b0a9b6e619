package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseBool(t *testing.T) {
	for _, v := range []string{"1", "true", "T", "Yes", " y "} {
		assert.True(t, ParseBool(v, false), v)
	}
	for _, v := range []string{"0", "false", "no", "off", "maybe"} {
		assert.False(t, ParseBool(v, true), v)
	}
	assert.True(t, ParseBool("", true))
	assert.False(t, ParseBool("", false))
}

func TestSplitSymbols(t *testing.T) {
	assert.Equal(t, []string{"AAPL", "TSLA", "SPY"}, SplitSymbols(" aapl,TSLA,, spy ,aapl"))
	assert.Empty(t, SplitSymbols(" , "))
}

func TestUTCStamp(t *testing.T) {
	loc := time.FixedZone("EST", -5*3600)
	ts := time.Date(2024, 3, 5, 10, 0, 0, 123456000, loc)
	assert.Equal(t, "2024-03-05T15:00:00.123456Z", UTCStamp(ts))
}
