package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"code-helper/helpers"
	"code-helper/models"
	"code-helper/services"

	"github.com/pocketbase/pocketbase/core"
)

func SetupPromptRoutes(se *core.ServeEvent, app core.App) {
	se.Router.POST("/process-prompt", func(e *core.RequestEvent) error {
		ProcessPrompt(e, app)
		return nil
	})
}

// ProcessPrompt relays the prompt to DeepSeek and returns the generated text.
// When a PR URL is attached, the generated review is also published back to
// GitHub; that part is best effort and never fails the response.
func ProcessPrompt(e *core.RequestEvent, app core.App) {
	var req models.PromptRequest
	if err := e.BindBody(&req); err != nil {
		helpers.Error(e, http.StatusUnprocessableEntity, "Invalid request body: content must be a string")
		return
	}
	if req.Content == "" {
		helpers.Error(e, http.StatusUnprocessableEntity, "content is required")
		return
	}

	generated, err := services.ProcessPrompt(app, req.Content)
	if err != nil {
		var upstreamErr *helpers.UpstreamError
		switch {
		case errors.Is(err, services.ErrMissingAPIKey):
			helpers.Error(e, http.StatusInternalServerError, "DeepSeek API key is not configured")
		case errors.As(err, &upstreamErr):
			helpers.Error(e, http.StatusBadGateway,
				fmt.Sprintf("DeepSeek API error: %d %s", upstreamErr.StatusCode, upstreamErr.Body))
		default:
			helpers.Error(e, http.StatusBadGateway, "Failed to get response from DeepSeek: "+err.Error())
		}
		return
	}

	if req.PrURL != "" {
		comments := services.ParseReviewComments(generated)
		if err := services.CreateReview(app, req.PrURL, comments); err != nil {
			app.Logger().Error("Failed to create GitHub review", "prUrl", req.PrURL, "error", err)
		} else {
			app.Logger().Info("Created GitHub review", "prUrl", req.PrURL, "comments", len(comments))
		}
	}

	e.JSON(http.StatusOK, models.PromptResponse{GeneratedText: generated})
}
