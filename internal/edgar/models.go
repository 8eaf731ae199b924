package edgar

// searchResponse is the full-text search payload.
type searchResponse struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []searchHit `json:"hits"`
	} `json:"hits"`
}

// searchHit is a single filing match.
type searchHit struct {
	Source struct {
		DisplayNames []string `json:"display_names"`
		FileType     string   `json:"file_type"`
		FileDate     string   `json:"file_date"`
	} `json:"_source"`
	Highlight map[string][]string `json:"highlight"`
}
