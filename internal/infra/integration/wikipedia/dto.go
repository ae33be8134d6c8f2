package wikipedia

type Page struct {
	Title   string `json:"title"`
	Extract string `json:"extract"`
}

type searchResponse struct {
	Query struct {
		Search []struct {
			PageID int    `json:"pageid"`
			Title  string `json:"title"`
		} `json:"search"`
	} `json:"query"`
}

type extractResponse struct {
	Query struct {
		Pages map[string]struct {
			Title   string `json:"title"`
			Extract string `json:"extract"`
		} `json:"pages"`
	} `json:"query"`
}
