package newsapi

type ArticleSource struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Article struct {
	Source      ArticleSource `json:"source"`
	Author      string        `json:"author"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	URL         string        `json:"url"`
	PublishedAt string        `json:"publishedAt"`
}

type everythingResponse struct {
	Status       string    `json:"status"`
	Message      string    `json:"message"`
	TotalResults int       `json:"totalResults"`
	Articles     []Article `json:"articles"`
}
