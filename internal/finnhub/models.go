package finnhub

import "time"

// ProfileResponse is the /stock/profile2 payload.
type ProfileResponse struct {
	Ticker          string  `json:"ticker"`
	Name            string  `json:"name"`
	Country         string  `json:"country"`
	Currency        string  `json:"currency"`
	Exchange        string  `json:"exchange"`
	FinnhubIndustry string  `json:"finnhubIndustry"`
	Description     string  `json:"description"`
	IPO             string  `json:"ipo"`
	MarketCap       float64 `json:"marketCapitalization"`
	WebURL          string  `json:"weburl"`
	Logo            string  `json:"logo"`
}

// NewsArticle is a single item from the /company-news payload.
type NewsArticle struct {
	ID       int64  `json:"id"`
	Category string `json:"category"`
	Headline string `json:"headline"`
	Summary  string `json:"summary"`
	Source   string `json:"source"`
	URL      string `json:"url"`
	Related  string `json:"related"`
	Unix     int64  `json:"datetime"`

	// Date is parsed from Unix after decoding.
	Date time.Time `json:"-"`
}

// NewsResponse is the /company-news payload.
type NewsResponse []NewsArticle

// QuoteResponse is the /quote payload.
type QuoteResponse struct {
	Current       float64 `json:"c"`
	Change        float64 `json:"d"`
	PercentChange float64 `json:"dp"`
	High          float64 `json:"h"`
	Low           float64 `json:"l"`
	Open          float64 `json:"o"`
	PreviousClose float64 `json:"pc"`
	Unix          int64   `json:"t"`
}
