package models

// PullRequestPayload is the subset of the GitHub pull_request webhook event we
// act on.
type PullRequestPayload struct {
	Action      string `json:"action"`
	Number      int    `json:"number"`
	PullRequest struct {
		Title  string `json:"title"`
		URL    string `json:"url"`
		Merged bool   `json:"merged"`
		User   struct {
			Login string `json:"login"`
		} `json:"user"`
		Base struct {
			Ref string `json:"ref"`
		} `json:"base"`
		Head struct {
			Ref string `json:"ref"`
		} `json:"head"`
	} `json:"pull_request"`
	Repository struct {
		URL      string `json:"url"`
		FullName string `json:"full_name"`
	} `json:"repository"`
}

type PullRequestInfo struct {
	Number     int
	Title      string
	Author     string
	BaseBranch string
	HeadBranch string
}

type ChangedFile struct {
	Filename        string
	Status          string
	Additions       int
	Deletions       int
	Patch           string
	CompleteContent string
}

type PullRequestChanges struct {
	FilesChanged int
	Additions    int
	Deletions    int
	ChangedFiles []ChangedFile
}

// ReviewComment is a single inline comment of a GitHub PR review, in the shape
// the reviews API expects.
type ReviewComment struct {
	Path string `json:"path"`
	Line int    `json:"line"`
	Side string `json:"side"`
	Body string `json:"body"`
}
