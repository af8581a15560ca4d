package services

import (
	"errors"
	"fmt"
	"os"

	"code-helper/helpers"

	"github.com/pocketbase/pocketbase/core"
)

const (
	deepSeekEndpoint = "https://api.deepseek.com"
	modelName        = "deepseek-chat"
)

var ErrMissingAPIKey = errors.New("DEEPSEEK_API_KEY is not set")

// Request body structure
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type ChatResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	Model   string `json:"model"`
	Choices []struct {
		Index        int         `json:"index"`
		Message      ChatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage map[string]int `json:"usage"`
}

// ProcessPrompt forwards the prompt verbatim to the DeepSeek chat completions
// API and returns the generated text. Single attempt, no retry.
func ProcessPrompt(app core.App, prompt string) (string, error) {
	apiKey := os.Getenv("DEEPSEEK_API_KEY")
	if apiKey == "" {
		return "", ErrMissingAPIKey
	}

	reqBody := ChatRequest{
		Model: modelName,
		Messages: []ChatMessage{
			{Role: "user", Content: prompt},
		},
		Stream: false,
	}

	headers := map[string]string{
		"Content-Type":  "application/json",
		"Authorization": "Bearer " + apiKey,
	}

	chatResp, err := helpers.MakeHTTPRequest[ChatResponse](app, "POST", apiBaseURL()+"/chat/completions", headers, nil, reqBody)
	if err != nil {
		return "", err
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no choices in DeepSeek response")
	}

	return chatResp.Choices[0].Message.Content, nil
}

func apiBaseURL() string {
	if override := os.Getenv("DEEPSEEK_API_URL"); override != "" {
		return override
	}
	return deepSeekEndpoint
}
