package bing

type Result struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// CompanySearch is the company evidence value. CompanyURL feeds the
// website sources.
type CompanySearch struct {
	SearchResults []Result `json:"search_results"`
	CompanyURLVal string   `json:"company_url"`
}

func (s *CompanySearch) CompanyURL() string {
	if s == nil {
		return ""
	}
	return s.CompanyURLVal
}
