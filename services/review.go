package services

import (
	"regexp"
	"strconv"
	"strings"

	"code-helper/models"
)

// Matches the "[path]:[line]" or "[path]:[start-end]" header the review
// prompt instructs the model to emit. Brackets are optional since models drop
// them often enough.
var commentHeaderRe = regexp.MustCompile(`^\[?([^\[\]]+?)\]?:\[?(\d+)(?:\s*-\s*(\d+))?\]?$`)

// ParseReviewComments extracts structured review comments from the generated
// review text. Blocks that do not follow the expected format are skipped.
func ParseReviewComments(text string) []models.ReviewComment {
	comments := []models.ReviewComment{}

	var current *models.ReviewComment
	var body []string

	flush := func() {
		if current == nil {
			return
		}
		current.Body = strings.TrimSpace(strings.Join(body, "\n"))
		if current.Body != "" {
			comments = append(comments, *current)
		}
		current = nil
		body = nil
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)

		if m := commentHeaderRe.FindStringSubmatch(trimmed); m != nil {
			flush()
			lineNo, _ := strconv.Atoi(m[2])
			if m[3] != "" {
				// a line range anchors the comment at its last line
				if end, err := strconv.Atoi(m[3]); err == nil {
					lineNo = end
				}
			}
			current = &models.ReviewComment{
				Path: strings.TrimSpace(m[1]),
				Line: lineNo,
				Side: "RIGHT",
			}
			continue
		}

		if current != nil && trimmed != "" {
			body = append(body, trimmed)
		}
	}
	flush()

	return comments
}
