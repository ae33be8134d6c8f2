package website

type PresenceMeta struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Keywords    *string `json:"keywords"`
}

type Presence struct {
	MetaData    PresenceMeta      `json:"meta_data"`
	SocialLinks map[string]string `json:"social_links"`
	CompanyInfo map[string]string `json:"company_info"`
}
