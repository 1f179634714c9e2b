package review

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mhaywood/review-raven/internal/prcontext"
)

func TestBuildPrompt_BasicSections(t *testing.T) {
	prCtx := prcontext.Context{
		PullRequest: prcontext.PullRequest{
			Owner:      "owner",
			Repo:       "repo",
			Number:     42,
			Title:      "Add retry logic",
			Body:       "Retries failed requests up to three times.",
			Author:     "octocat",
			BaseBranch: "main",
			HeadBranch: "feature/retries",
			Labels:     []string{"enhancement"},
		},
		Diff: "diff --git a/main.go b/main.go\n+retry()",
	}

	prompt, err := BuildPrompt(prCtx)
	require.NoError(t, err)

	require.Contains(t, prompt, "owner/repo")
	require.Contains(t, prompt, "PR #42: Add retry logic")
	require.Contains(t, prompt, "Author: octocat")
	require.Contains(t, prompt, "feature/retries -> main")
	require.Contains(t, prompt, "Labels: enhancement")
	require.Contains(t, prompt, "Retries failed requests up to three times.")
	require.Contains(t, prompt, "diff --git a/main.go b/main.go")

	// Empty optional sections are omitted entirely
	require.NotContains(t, prompt, "## Check Runs")
	require.NotContains(t, prompt, "## Comment History")
	require.NotContains(t, prompt, "## Previous Reviews")
}

func TestBuildPrompt_OptionalSections(t *testing.T) {
	prCtx := prcontext.Context{
		PullRequest: prcontext.PullRequest{Owner: "o", Repo: "r", Number: 1, Title: "t"},
		Diff:        "diff --git a/x b/x",
		CheckRuns: []prcontext.CheckRun{
			{Name: "build", Status: "completed", Conclusion: "failure"},
		},
		Comments: []prcontext.Comment{
			{Author: "alice", Body: "Please add tests", CreatedAt: "2026-01-02 03:04:05 UTC"},
		},
		Reviews: []prcontext.Review{
			{Author: "bob", State: "CHANGES_REQUESTED", Body: "Error handling is missing"},
		},
	}

	prompt, err := BuildPrompt(prCtx)
	require.NoError(t, err)

	require.Contains(t, prompt, "- build: completed (failure)")
	require.Contains(t, prompt, "[2026-01-02 03:04:05 UTC] alice:")
	require.Contains(t, prompt, "Please add tests")
	require.Contains(t, prompt, "bob (CHANGES_REQUESTED):")
	require.Contains(t, prompt, "Error handling is missing")
}

func TestSystemPrompt_DescribesContract(t *testing.T) {
	sp := SystemPrompt()

	require.Contains(t, sp, `"review"`)
	require.Contains(t, sp, `"fail_pass_workflow"`)
	require.Contains(t, sp, `"labels_added"`)
	require.Contains(t, sp, `"uncertain"`)
}
