package models

type PromptRequest struct {
	Content string `json:"content" form:"content"`
	PrURL   string `json:"pr_url" form:"pr_url"`
}

type PromptResponse struct {
	GeneratedText string `json:"generated_text"`
}
