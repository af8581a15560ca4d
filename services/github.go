package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"code-helper/helpers"
	"code-helper/models"

	"github.com/pocketbase/pocketbase/core"
	"golang.org/x/oauth2"
)

const rawContentEndpoint = "https://raw.githubusercontent.com"

var ErrMissingGithubToken = errors.New("GITHUB_TOKEN is not set")

func githubClient() (*http.Client, error) {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		return nil, ErrMissingGithubToken
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	client := oauth2.NewClient(context.Background(), ts)
	client.Timeout = helpers.RequestTimeout
	return client, nil
}

type pullRequestFile struct {
	Filename    string `json:"filename"`
	Status      string `json:"status"`
	Additions   int    `json:"additions"`
	Deletions   int    `json:"deletions"`
	Patch       string `json:"patch"`
	ContentsURL string `json:"contents_url"`
}

// FetchPullRequestChanges lists the PR's changed files and fetches the
// complete content of each one from the head branch. Content fetch failures
// degrade to a placeholder so a single unreadable file does not abort the
// whole review.
func FetchPullRequestChanges(app core.App, prURL, headBranch string) (models.PullRequestChanges, error) {
	var changes models.PullRequestChanges

	client, err := githubClient()
	if err != nil {
		return changes, err
	}

	filesURL := prURL + "/files"
	app.Logger().Debug("Fetching pull request files", "url", filesURL)

	req, err := http.NewRequest("GET", filesURL, nil)
	if err != nil {
		return changes, err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := client.Do(req)
	if err != nil {
		return changes, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return changes, err
	}
	if resp.StatusCode != http.StatusOK {
		return changes, &helpers.UpstreamError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
	}

	var files []pullRequestFile
	if err := json.Unmarshal(body, &files); err != nil {
		return changes, fmt.Errorf("failed to parse pull request files: %w", err)
	}

	for _, file := range files {
		changes.ChangedFiles = append(changes.ChangedFiles, models.ChangedFile{
			Filename:        file.Filename,
			Status:          file.Status,
			Additions:       file.Additions,
			Deletions:       file.Deletions,
			Patch:           file.Patch,
			CompleteContent: fetchFileContent(app, client, file.ContentsURL, headBranch),
		})
		changes.Additions += file.Additions
		changes.Deletions += file.Deletions
	}
	changes.FilesChanged = len(files)

	return changes, nil
}

func fetchFileContent(app core.App, client *http.Client, contentsURL, headBranch string) string {
	if contentsURL == "" {
		return "No contents URL available"
	}

	// contents_url looks like https://api.github.com/repos/{owner}/{repo}/contents/{path}?ref={sha}
	parts := strings.Split(contentsURL, "/")
	if len(parts) < 8 {
		return "Invalid contents URL format"
	}
	owner := parts[4]
	repo := parts[5]
	path := strings.Join(parts[7:], "/")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}

	rawURL := fmt.Sprintf("%s/%s/%s/%s/%s", rawBaseURL(), owner, repo, headBranch, path)

	resp, err := client.Get(rawURL)
	if err != nil {
		app.Logger().Error("Failed to fetch file content", "url", rawURL, "error", err)
		return "Could not fetch complete file content"
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	if err != nil || resp.StatusCode != http.StatusOK {
		app.Logger().Error("Failed to fetch file content", "url", rawURL, "status", resp.StatusCode)
		return "Could not fetch complete file content"
	}

	return string(content)
}

func rawBaseURL() string {
	if override := os.Getenv("GITHUB_RAW_URL"); override != "" {
		return override
	}
	return rawContentEndpoint
}

type reviewRequest struct {
	Event    string                 `json:"event"`
	Body     string                 `json:"body"`
	Comments []models.ReviewComment `json:"comments"`
}

// CreateReview posts the parsed comments to the PR as a single COMMENT review.
// Posting nothing is fine: the reviews API rejects empty comment lists.
func CreateReview(app core.App, prURL string, comments []models.ReviewComment) error {
	if len(comments) == 0 {
		app.Logger().Info("No review comments parsed, skipping review creation", "prUrl", prURL)
		return nil
	}

	client, err := githubClient()
	if err != nil {
		return err
	}

	payload, err := json.Marshal(reviewRequest{
		Event:    "COMMENT",
		Body:     "Automated code review",
		Comments: comments,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", prURL+"/reviews", bytes.NewBuffer(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &helpers.UpstreamError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
	}

	return nil
}

// BuildReviewPrompt renders the PR metadata and per-file diffs into the review
// prompt, including the output format the comment parser expects back.
func BuildReviewPrompt(info models.PullRequestInfo, changes models.PullRequestChanges) string {
	var files strings.Builder
	for _, f := range changes.ChangedFiles {
		if f.Patch == "" {
			continue
		}
		fmt.Fprintf(&files, "File: %s (%s)\nComplete file content:\n%s\nChanges:\n%s\n\n",
			f.Filename, f.Status, f.CompleteContent, f.Patch)
	}

	return fmt.Sprintf(`Please review this pull request:

Title: %s
Author: %s
Branch: %s -> %s

Summary of changes:
- Files changed: %d
- Additions: %d
- Deletions: %d

Detailed changes:
%s
Please provide a code review that includes:
1. Overall assessment
2. Potential issues or bugs
3. Code style and best practices
4. Suggestions for improvements

Your response must strictly adhere to the following format:
[File path]:[Line number(s)]
Type: [Comment | Request Change]
Feedback: [Detailed feedback and reasoning here.]
Suggestion: [Explicit suggestion or corrected code snippet, if applicable.]

IMPORTANT: Use the line numbers from the complete file content to reference specific lines in your comments. The line numbers should match the actual line numbers in the complete file content.
`,
		info.Title, info.Author, info.HeadBranch, info.BaseBranch,
		changes.FilesChanged, changes.Additions, changes.Deletions,
		files.String())
}
