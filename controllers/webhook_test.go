package controllers_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase/tests"
)

func signPayload(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func webhookHeaders(secret, event string, payload []byte) map[string]string {
	return map[string]string{
		"Content-Type":        "application/json",
		"X-GitHub-Event":      event,
		"X-Hub-Signature-256": signPayload(secret, payload),
	}
}

func TestWebhookSignatureVerification(t *testing.T) {
	t.Setenv("GITHUB_WEBHOOK_SECRET", "test-secret")

	payload := []byte(`{"action":"closed","number":7,"pull_request":{"merged":true}}`)

	scenarios := []tests.ApiScenario{
		{
			Name:            "missing signature",
			Method:          http.MethodPost,
			URL:             "/webhook",
			Body:            strings.NewReader(string(payload)),
			Headers:         map[string]string{"Content-Type": "application/json"},
			ExpectedStatus:  http.StatusUnauthorized,
			ExpectedContent: []string{`Invalid signature`},
			TestAppFactory:  testAppFactory,
		},
		{
			Name:   "wrong signature",
			Method: http.MethodPost,
			URL:    "/webhook",
			Body:   strings.NewReader(string(payload)),
			Headers: map[string]string{
				"Content-Type":        "application/json",
				"X-GitHub-Event":      "pull_request",
				"X-Hub-Signature-256": signPayload("other-secret", payload),
			},
			ExpectedStatus:  http.StatusUnauthorized,
			ExpectedContent: []string{`Invalid signature`},
			TestAppFactory:  testAppFactory,
		},
		{
			Name:   "signature from a different body",
			Method: http.MethodPost,
			URL:    "/webhook",
			Body:   strings.NewReader(string(payload)),
			Headers: map[string]string{
				"Content-Type":        "application/json",
				"X-GitHub-Event":      "pull_request",
				"X-Hub-Signature-256": signPayload("test-secret", []byte(`{"tampered":true}`)),
			},
			ExpectedStatus:  http.StatusUnauthorized,
			ExpectedContent: []string{`Invalid signature`},
			TestAppFactory:  testAppFactory,
		},
		{
			Name:            "valid signature on a closed event",
			Method:          http.MethodPost,
			URL:             "/webhook",
			Body:            strings.NewReader(string(payload)),
			Headers:         webhookHeaders("test-secret", "pull_request", payload),
			ExpectedStatus:  http.StatusOK,
			ExpectedContent: []string{`"status":"success"`, `Processed closed event for PR #7`},
			TestAppFactory:  testAppFactory,
		},
	}

	for _, scenario := range scenarios {
		scenario.Test(t)
	}
}

func TestWebhookUnsetSecretRejectsEverything(t *testing.T) {
	t.Setenv("GITHUB_WEBHOOK_SECRET", "")

	payload := []byte(`{"action":"opened","number":1}`)

	scenario := tests.ApiScenario{
		Name:            "no secret configured",
		Method:          http.MethodPost,
		URL:             "/webhook",
		Body:            strings.NewReader(string(payload)),
		Headers:         webhookHeaders("", "pull_request", payload),
		ExpectedStatus:  http.StatusUnauthorized,
		ExpectedContent: []string{`Invalid signature`},
		TestAppFactory:  testAppFactory,
	}
	scenario.Test(t)
}

func TestWebhookIgnoresNonPullRequestEvents(t *testing.T) {
	t.Setenv("GITHUB_WEBHOOK_SECRET", "test-secret")

	payload := []byte(`{"zen":"Keep it logically awesome."}`)

	scenario := tests.ApiScenario{
		Name:            "ping event is acked without side effects",
		Method:          http.MethodPost,
		URL:             "/webhook",
		Body:            strings.NewReader(string(payload)),
		Headers:         webhookHeaders("test-secret", "ping", payload),
		ExpectedStatus:  http.StatusOK,
		ExpectedContent: []string{`Event received`},
		TestAppFactory:  testAppFactory,
	}
	scenario.Test(t)
}

func TestWebhookOpenedRunsFullReview(t *testing.T) {
	review := "main.go:3\nType: Comment\nFeedback: Avoid the global.\nSuggestion: Inject it."

	var reviewBody string
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/acme/widgets/pulls/7/files":
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintf(w, `[{
				"filename": "main.go",
				"status": "modified",
				"additions": 2,
				"deletions": 0,
				"patch": "@@ -1,2 +1,4 @@",
				"contents_url": "%s/repos/acme/widgets/contents/main.go?ref=abc123"
			}]`, srv.URL)
		case "/raw/acme/widgets/feature-x/main.go":
			fmt.Fprint(w, "package main\n")
		case "/chat/completions":
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, chatStub(review))
		case "/repos/acme/widgets/pulls/7/reviews":
			body, _ := io.ReadAll(r.Body)
			reviewBody = string(body)
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"id":1}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	t.Setenv("GITHUB_WEBHOOK_SECRET", "test-secret")
	t.Setenv("GITHUB_TOKEN", "test-token")
	t.Setenv("GITHUB_RAW_URL", srv.URL+"/raw")
	t.Setenv("DEEPSEEK_API_KEY", "test-key")
	t.Setenv("DEEPSEEK_API_URL", srv.URL)

	payload, err := json.Marshal(map[string]any{
		"action": "opened",
		"number": 7,
		"pull_request": map[string]any{
			"title": "Add feature x",
			"url":   srv.URL + "/repos/acme/widgets/pulls/7",
			"user":  map[string]any{"login": "octocat"},
			"base":  map[string]any{"ref": "main"},
			"head":  map[string]any{"ref": "feature-x"},
		},
		"repository": map[string]any{"url": srv.URL + "/repos/acme/widgets"},
	})
	if err != nil {
		t.Fatal(err)
	}

	scenario := tests.ApiScenario{
		Name:            "opened pull request triggers a review",
		Method:          http.MethodPost,
		URL:             "/webhook",
		Body:            strings.NewReader(string(payload)),
		Headers:         webhookHeaders("test-secret", "pull_request", payload),
		ExpectedStatus:  http.StatusOK,
		ExpectedContent: []string{`"status":"success"`, `Processed opened event for PR #7`},
		TestAppFactory:  testAppFactory,
	}
	scenario.Test(t)

	if !strings.Contains(reviewBody, `"path":"main.go"`) {
		t.Fatalf("expected a published review comment for main.go, got %q", reviewBody)
	}
	if !strings.Contains(reviewBody, `"line":3`) {
		t.Fatalf("expected the comment anchored at line 3, got %q", reviewBody)
	}
}

func TestWebhookOpenedWithoutTokenStillAcks(t *testing.T) {
	t.Setenv("GITHUB_WEBHOOK_SECRET", "test-secret")
	t.Setenv("GITHUB_TOKEN", "")

	payload := []byte(`{"action":"opened","number":12,"pull_request":{"url":"http://127.0.0.1:0/repos/a/b/pulls/12"}}`)

	scenario := tests.ApiScenario{
		Name:            "review failure does not fail the delivery",
		Method:          http.MethodPost,
		URL:             "/webhook",
		Body:            strings.NewReader(string(payload)),
		Headers:         webhookHeaders("test-secret", "pull_request", payload),
		ExpectedStatus:  http.StatusOK,
		ExpectedContent: []string{`Processed opened event for PR #12`},
		TestAppFactory:  testAppFactory,
	}
	scenario.Test(t)
}
