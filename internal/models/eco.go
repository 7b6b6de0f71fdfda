package models

// Eco analysis
// POST Path: "/eco-analyze"

type EcoAnalyzeRequest struct {
	Body *struct {
		_           struct{} `additionalProperties:"true"`
		URL         string   `json:"url,omitempty" example:"https://shop.example/products/steel-bottle" doc:"Product page URL, echoed back as product_url"`
		Title       string   `json:"title,omitempty" example:"Stainless steel bottle 750ml" doc:"Product title"`
		Description string   `json:"description,omitempty" doc:"Product description"`
	}
}

type EcoAnalyzeResponse struct {
	Body map[string]any
}

// Banner
// GET Path: "/"

type HomeRequest struct{}

type HomeResponse struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}
