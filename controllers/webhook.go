package controllers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"code-helper/helpers"
	"code-helper/models"
	"code-helper/services"

	"github.com/pocketbase/pocketbase/core"
)

func SetupWebhookRoutes(se *core.ServeEvent, app core.App) {
	se.Router.POST("/webhook", func(e *core.RequestEvent) error {
		GithubWebhook(e, app)
		return nil
	})
}

// verifySignature checks the X-Hub-Signature-256 header against the raw
// payload. An unset secret rejects every delivery.
func verifySignature(payload []byte, signatureHeader, secret string) bool {
	if signatureHeader == "" || secret == "" {
		return false
	}

	parts := strings.SplitN(signatureHeader, "=", 2)
	if len(parts) != 2 || parts[0] != "sha256" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(parts[1]))
}

// GithubWebhook receives GitHub events and reviews freshly opened pull
// requests. Review failures are logged, the delivery is still acked so GitHub
// does not redeliver.
func GithubWebhook(e *core.RequestEvent, app core.App) {
	body, err := io.ReadAll(e.Request.Body)
	if err != nil {
		helpers.Error(e, http.StatusBadRequest, "Failed to read request body")
		return
	}

	if !verifySignature(body, e.Request.Header.Get("X-Hub-Signature-256"), os.Getenv("GITHUB_WEBHOOK_SECRET")) {
		helpers.Error(e, http.StatusUnauthorized, "Invalid signature")
		return
	}

	if e.Request.Header.Get("X-GitHub-Event") != "pull_request" {
		e.JSON(http.StatusOK, map[string]string{"status": "success", "message": "Event received"})
		return
	}

	var payload models.PullRequestPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		helpers.Error(e, http.StatusBadRequest, "Invalid pull request payload")
		return
	}

	switch payload.Action {
	case "opened":
		if err := reviewPullRequest(app, payload); err != nil {
			app.Logger().Error("Failed to review pull request", "pr", payload.Number, "error", err)
		}
	case "closed":
		status := "closed"
		if payload.PullRequest.Merged {
			status = "merged"
		}
		app.Logger().Info("Pull request "+status, "pr", payload.Number)
	case "synchronize":
		app.Logger().Info("Pull request updated with new commits", "pr", payload.Number)
	}

	e.JSON(http.StatusOK, map[string]string{
		"status":  "success",
		"message": fmt.Sprintf("Processed %s event for PR #%d", payload.Action, payload.Number),
	})
}

// reviewPullRequest runs the full chain: fetch changes, build the review
// prompt, forward it to DeepSeek, publish the parsed comments.
func reviewPullRequest(app core.App, payload models.PullRequestPayload) error {
	info := models.PullRequestInfo{
		Number:     payload.Number,
		Title:      payload.PullRequest.Title,
		Author:     payload.PullRequest.User.Login,
		BaseBranch: payload.PullRequest.Base.Ref,
		HeadBranch: payload.PullRequest.Head.Ref,
	}

	changes, err := services.FetchPullRequestChanges(app, payload.PullRequest.URL, info.HeadBranch)
	if err != nil {
		return err
	}

	prompt := services.BuildReviewPrompt(info, changes)

	generated, err := services.ProcessPrompt(app, prompt)
	if err != nil {
		return err
	}

	comments := services.ParseReviewComments(generated)
	if err := services.CreateReview(app, payload.PullRequest.URL, comments); err != nil {
		return err
	}

	app.Logger().Info("Created GitHub review", "pr", info.Number, "comments", len(comments))
	return nil
}
