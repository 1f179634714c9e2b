// Package prcontext collects the pull request context a review is based on:
// metadata, labels, diff, check runs, and comment history.
package prcontext

// PullRequest is the subset of PR metadata the prompt needs
type PullRequest struct {
	Owner  string
	Repo   string
	Number int

	Title      string
	Body       string
	Author     string
	BaseBranch string
	HeadBranch string
	HeadSHA    string

	Labels []string
}

// CheckRun is one CI check result on the PR head commit
type CheckRun struct {
	Name       string
	Status     string
	Conclusion string
}

// Comment is one issue-level comment on the PR
type Comment struct {
	Author    string
	Body      string
	CreatedAt string
}

// Review is one submitted PR review
type Review struct {
	Author string
	State  string
	Body   string
}

// Context is everything collected for a single review invocation
type Context struct {
	PullRequest PullRequest
	Diff        string
	CheckRuns   []CheckRun
	Comments    []Comment
	Reviews     []Review
}
