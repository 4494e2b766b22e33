package reporter

import (
	"context"
	"strings"

	"github.com/google/go-github/v27/github"
	"golang.org/x/oauth2"

	"github.com/distr1/solbuild/internal/manifest"
	"github.com/distr1/solbuild/internal/status"
)

// GitHubStatusReporter mirrors a solution build's outcome to a GitHub
// commit status. Grounded directly on
// cmd/autobuilder/autobuilder.go's run(), which builds the same
// oauth2.StaticTokenSource / github.NewClient pair to call
// client.Repositories.* — there to list commits driving which build
// to run next, here to publish the result of one.
type GitHubStatusReporter struct {
	client      *github.Client
	owner, repo string
	commitSHA   string
	ctx         context.Context
}

// NewGitHubStatusReporter builds a reporter that posts commit statuses
// against repoURL (an "https://github.com/owner/repo" URL, matching
// autobuilder's a.repo field) at commitSHA, authenticated with
// accessToken the same way autobuilder's -github_access_token flag
// feeds its oauth2.StaticTokenSource.
func NewGitHubStatusReporter(ctx context.Context, repoURL, commitSHA, accessToken string) *GitHubStatusReporter {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	tc := oauth2.NewClient(ctx, ts)
	owner, repo := splitRepoURL(repoURL)
	return &GitHubStatusReporter{
		client:    github.NewClient(tc),
		owner:     owner,
		repo:      repo,
		commitSHA: commitSHA,
		ctx:       ctx,
	}
}

func splitRepoURL(repoURL string) (owner, repo string) {
	parts := strings.Split(strings.TrimPrefix(repoURL, "https://github.com/"), "/")
	if len(parts) != 2 {
		return "", ""
	}
	return parts[0], parts[1]
}

func (g *GitHubStatusReporter) ReportStatus(project manifest.ResolvedManifestPath, s status.Status) {
	// Up-to-date statuses are not published; only each project's
	// build result is, via ReportBuildResult.
}

func (g *GitHubStatusReporter) ReportBuildResult(project manifest.ResolvedManifestPath, success bool) {
	state := "success"
	if !success {
		state = "failure"
	}
	statusContext := "solbuild/" + string(project)
	desc := "solution build " + state
	g.client.Repositories.CreateStatus(g.ctx, g.owner, g.repo, g.commitSHA, &github.RepoStatus{
		State:       &state,
		Context:     &statusContext,
		Description: &desc,
	})
}
