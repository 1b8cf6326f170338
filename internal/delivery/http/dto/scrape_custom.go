package dto

type ScrapeCustomRequest struct {
	URL             string `json:"url"`
	CardSelector    string `json:"cardSelector"`
	TitleSelector   string `json:"titleSelector"`
	CompanySelector string `json:"companySelector"`
	RenderMode      string `json:"renderMode"`
}

type ScrapeCustomResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	ScrapedCount int    `json:"scrapedCount"`
	AddedCount   int    `json:"addedCount"`
}

// ScrapeCustomEmpty is the 404 body when the selectors matched nothing.
type ScrapeCustomEmpty struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
