package prcontext

import (
	"context"
	"fmt"
	"log"

	"github.com/google/go-github/v72/github"
)

// Collector gathers review context from the GitHub API
type Collector struct {
	client *github.Client
}

func NewCollector(client *github.Client) *Collector {
	return &Collector{client: client}
}

// Collect fetches everything needed to review one pull request. PR metadata
// and the diff are required; check runs, comments, and reviews are
// best-effort context, so failures there log a warning and leave the field
// empty rather than aborting the review.
func (c *Collector) Collect(ctx context.Context, owner, repo string, number int) (*Context, error) {
	pr, _, err := c.client.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pull request %s/%s#%d: %w", owner, repo, number, err)
	}

	prCtx := Context{
		PullRequest: convertPullRequest(owner, repo, number, pr),
	}

	diff, _, err := c.client.PullRequests.GetRaw(ctx, owner, repo, number, github.RawOptions{Type: github.Diff})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch diff for %s/%s#%d: %w", owner, repo, number, err)
	}
	prCtx.Diff = diff

	if sha := prCtx.PullRequest.HeadSHA; sha != "" {
		checkRuns, err := c.getAllCheckRuns(ctx, owner, repo, sha)
		if err != nil {
			log.Printf("[collect] Warning: could not fetch check runs: %v", err)
		}
		prCtx.CheckRuns = checkRuns
	}

	comments, err := c.getAllComments(ctx, owner, repo, number)
	if err != nil {
		log.Printf("[collect] Warning: could not fetch comments: %v", err)
	}
	prCtx.Comments = comments

	reviews, err := c.getAllReviews(ctx, owner, repo, number)
	if err != nil {
		log.Printf("[collect] Warning: could not fetch reviews: %v", err)
	}
	prCtx.Reviews = reviews

	return &prCtx, nil
}

func convertPullRequest(owner, repo string, number int, pr *github.PullRequest) PullRequest {
	labels := []string{}
	for _, label := range pr.Labels {
		if label != nil {
			labels = append(labels, label.GetName())
		}
	}

	return PullRequest{
		Owner:  owner,
		Repo:   repo,
		Number: number,

		Title:      pr.GetTitle(),
		Body:       pr.GetBody(),
		Author:     pr.GetUser().GetLogin(),
		BaseBranch: pr.GetBase().GetRef(),
		HeadBranch: pr.GetHead().GetRef(),
		HeadSHA:    pr.GetHead().GetSHA(),

		Labels: labels,
	}
}

// getAllCheckRuns retrieves all check runs for the given ref
func (c *Collector) getAllCheckRuns(ctx context.Context, owner, repo, ref string) ([]CheckRun, error) {
	var allRuns []CheckRun

	opts := &github.ListCheckRunsOptions{
		ListOptions: github.ListOptions{
			PerPage: 100,
		},
	}

	for {
		result, resp, err := c.client.Checks.ListCheckRunsForRef(ctx, owner, repo, ref, opts)
		if err != nil {
			return nil, err
		}

		for _, run := range result.CheckRuns {
			if run == nil {
				log.Println("[collect] Warning: check run unexpectedly nil")
				continue
			}
			allRuns = append(allRuns, CheckRun{
				Name:       run.GetName(),
				Status:     run.GetStatus(),
				Conclusion: run.GetConclusion(),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allRuns, nil
}

// getAllComments retrieves all issue-level comments on the PR, sorted chronologically
func (c *Collector) getAllComments(ctx context.Context, owner, repo string, number int) ([]Comment, error) {
	var allComments []Comment

	opts := &github.IssueListCommentsOptions{
		Sort:      github.Ptr("created"),
		Direction: github.Ptr("asc"),
		ListOptions: github.ListOptions{
			PerPage: 100,
		},
	}

	for {
		comments, resp, err := c.client.Issues.ListComments(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, err
		}

		for _, comment := range comments {
			if comment == nil {
				continue
			}
			allComments = append(allComments, Comment{
				Author:    comment.GetUser().GetLogin(),
				Body:      comment.GetBody(),
				CreatedAt: comment.GetCreatedAt().Format("2006-01-02 15:04:05 UTC"),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allComments, nil
}

// getAllReviews retrieves all submitted reviews on the PR
func (c *Collector) getAllReviews(ctx context.Context, owner, repo string, number int) ([]Review, error) {
	reviews, _, err := c.client.PullRequests.ListReviews(ctx, owner, repo, number, nil)
	if err != nil {
		return nil, err
	}

	var allReviews []Review
	for _, review := range reviews {
		if review == nil {
			continue
		}
		allReviews = append(allReviews, Review{
			Author: review.GetUser().GetLogin(),
			State:  review.GetState(),
			Body:   review.GetBody(),
		})
	}

	return allReviews, nil
}

// AddLabels applies the labels the model suggested to the pull request.
// Label application is advisory: the result envelope has already been
// emitted, so callers log failures instead of treating them as fatal.
func (c *Collector) AddLabels(ctx context.Context, owner, repo string, number int, labels []string) error {
	if len(labels) == 0 {
		return nil
	}
	_, _, err := c.client.Issues.AddLabelsToIssue(ctx, owner, repo, number, labels)
	if err != nil {
		return fmt.Errorf("failed to add labels %v: %w", labels, err)
	}
	return nil
}
