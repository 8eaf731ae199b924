package common

import (
	"time"
)

// MarketStatus describes whether the US equity market is open.
type MarketStatus struct {
	IsOpen    bool      `json:"is_open"`
	LocalTime time.Time `json:"local_time"`
	Reason    string    `json:"reason"`
}

// marketLocation resolves the US Eastern timezone once. Falls back to a
// fixed UTC-5 zone when the tz database is unavailable.
var marketLocation = func() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.FixedZone("EST", -5*60*60)
	}
	return loc
}()

// MarketStatusAt reports whether the US equity market is open at the
// given instant. Regular session only (9:30-16:00 ET, Mon-Fri); exchange
// holidays are not modeled.
func MarketStatusAt(t time.Time) MarketStatus {
	local := t.In(marketLocation)

	switch local.Weekday() {
	case time.Saturday, time.Sunday:
		return MarketStatus{IsOpen: false, LocalTime: local, Reason: "weekend"}
	}

	minutes := local.Hour()*60 + local.Minute()
	open := 9*60 + 30
	close := 16 * 60

	if minutes < open || minutes >= close {
		return MarketStatus{IsOpen: false, LocalTime: local, Reason: "outside regular session"}
	}

	return MarketStatus{IsOpen: true, LocalTime: local, Reason: "regular session"}
}

// IsMarketOpen reports whether the US equity market is open now.
func IsMarketOpen() bool {
	return MarketStatusAt(time.Now()).IsOpen
}
