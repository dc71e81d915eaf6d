// Package gateway provides a gateway to the GitHub REST API,
// abstracting away the underlying client, credentials and error mapping.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofri/go-github-ratelimit/github_ratelimit"
	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	"github.com/naka-gawa/repo-dashboard/internal/domain"
)

const (
	// acceptHeader is the media type recommended for the REST API.
	acceptHeader = "application/vnd.github+json"

	// defaultSleepLimit caps a secondary rate limit wait when no timeout is set.
	defaultSleepLimit = time.Minute

	openPullLimit     = 100
	contributorLimit  = 3
	recentCommitLimit = 10
)

// Fetcher defines the behavior of a gateway for fetching dashboard data from GitHub.
type Fetcher interface {
	FetchRepository(ctx context.Context, ref domain.RepositoryRef) (*domain.RepositoryMetrics, error)
	CountOpenPulls(ctx context.Context, ref domain.RepositoryRef) (int, error)
	FetchTopContributors(ctx context.Context, ref domain.RepositoryRef) ([]domain.Contributor, error)
	FetchRootContents(ctx context.Context, ref domain.RepositoryRef) ([]domain.DirectoryEntry, error)
	FetchRecentCommits(ctx context.Context, ref domain.RepositoryRef) ([]domain.CommitSummary, error)
	// ProbeReadme succeeds when the repository has a readme. The body is not consumed.
	ProbeReadme(ctx context.Context, ref domain.RepositoryRef) error
	FetchUser(ctx context.Context, login string) (*domain.UserProfile, error)
}

// Options configures a GitHubGateway.
type Options struct {
	// Token is optional. Without it requests are unauthenticated and get lower rate limits.
	Token string
	// BaseURL overrides the API root, e.g. for GitHub Enterprise or tests.
	BaseURL string
	// Timeout bounds one request. With WaitSecondaryRateLimit a request may
	// additionally sleep up to Timeout before it is sent.
	Timeout time.Duration
	// WaitSecondaryRateLimit sleeps through secondary rate limits instead of failing.
	WaitSecondaryRateLimit bool
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient *github.Client
	logger     *log.Logger
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(opts Options, logger *log.Logger) (*GitHubGateway, error) {
	sleepLimit, clientTimeout := transportBudget(opts)
	var transport http.RoundTripper = http.DefaultTransport
	if opts.WaitSecondaryRateLimit {
		rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(sleepLimit, nil))
		if err != nil {
			return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
		}
		transport = rateLimitWaiter
	}
	if opts.Token != "" {
		transport = &oauth2.Transport{
			Base:   transport,
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token}),
		}
	} else {
		logger.Debug("no GitHub token configured, using unauthenticated requests")
	}

	restClient := github.NewClient(&http.Client{Transport: transport, Timeout: clientTimeout})
	if opts.BaseURL != "" {
		baseURL, err := url.Parse(strings.TrimSuffix(opts.BaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("failed to parse API base URL: %w", err)
		}
		restClient.BaseURL = baseURL
	}
	return &GitHubGateway{restClient: restClient, logger: logger}, nil
}

// transportBudget returns the longest rate limit sleep and the overall client timeout.
// The client timeout also covers the sleep, so it is extended by the sleep limit.
func transportBudget(opts Options) (sleepLimit, clientTimeout time.Duration) {
	if !opts.WaitSecondaryRateLimit {
		return 0, opts.Timeout
	}
	if opts.Timeout <= 0 {
		return defaultSleepLimit, 0
	}
	return opts.Timeout, 2 * opts.Timeout
}

// Request performs a single API call against path, relative to the API root,
// and decodes the JSON response into v. A nil v discards the body.
// Every call reaches the origin: responses are never served from a cache.
func (g *GitHubGateway) Request(ctx context.Context, method, path string, body, v any) error {
	req, err := g.restClient.NewRequest(method, path, body)
	if err != nil {
		return &TransportError{Err: err}
	}
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Cache-Control", "no-store")

	g.logger.Debug("requesting", "method", method, "path", path)
	resp, err := g.restClient.Do(ctx, req, v)
	if err := classify(resp, err); err != nil {
		g.logger.Debug("request failed", "path", path, "err", err)
		return err
	}
	return nil
}

func (g *GitHubGateway) get(ctx context.Context, path string, v any) error {
	return g.Request(ctx, http.MethodGet, path, nil, v)
}

func repoPath(ref domain.RepositoryRef, suffix string) string {
	return fmt.Sprintf("repos/%s/%s%s", url.PathEscape(ref.Owner), url.PathEscape(ref.Repo), suffix)
}

func (g *GitHubGateway) FetchRepository(ctx context.Context, ref domain.RepositoryRef) (*domain.RepositoryMetrics, error) {
	var repo github.Repository
	if err := g.get(ctx, repoPath(ref, ""), &repo); err != nil {
		return nil, fmt.Errorf("failed to fetch repository %s: %w", ref.Key(), err)
	}
	return &domain.RepositoryMetrics{
		FullName:     repo.GetFullName(),
		URL:          repo.GetHTMLURL(),
		Stars:        repo.GetStargazersCount(),
		Forks:        repo.GetForksCount(),
		Watchers:     repo.GetWatchersCount(),
		LastPushedAt: repo.GetPushedAt().Time,
		OpenIssues:   repo.GetOpenIssuesCount(),
	}, nil
}

// CountOpenPulls counts the open pull requests on the first page only,
// so repositories with more than openPullLimit of them are undercounted.
func (g *GitHubGateway) CountOpenPulls(ctx context.Context, ref domain.RepositoryRef) (int, error) {
	var pulls []*github.PullRequest
	path := repoPath(ref, fmt.Sprintf("/pulls?state=open&per_page=%d", openPullLimit))
	if err := g.get(ctx, path, &pulls); err != nil {
		return 0, fmt.Errorf("failed to list open pull requests of %s: %w", ref.Key(), err)
	}
	return len(pulls), nil
}

// FetchTopContributors keeps the API's own ordering. Anonymous contributors
// have no login, so their commit name is used instead.
func (g *GitHubGateway) FetchTopContributors(ctx context.Context, ref domain.RepositoryRef) ([]domain.Contributor, error) {
	var contributors []*github.Contributor
	path := repoPath(ref, fmt.Sprintf("/contributors?per_page=%d&anon=true", contributorLimit))
	if err := g.get(ctx, path, &contributors); err != nil {
		return nil, fmt.Errorf("failed to list contributors of %s: %w", ref.Key(), err)
	}
	if len(contributors) > contributorLimit {
		contributors = contributors[:contributorLimit]
	}
	result := make([]domain.Contributor, 0, len(contributors))
	for _, c := range contributors {
		login := c.GetLogin()
		if login == "" {
			login = c.GetName()
		}
		result = append(result, domain.Contributor{
			Login:         login,
			URL:           c.GetHTMLURL(),
			Contributions: c.GetContributions(),
		})
	}
	return result, nil
}

// FetchRootContents lists the top level of the repository, sorted by kind then name.
func (g *GitHubGateway) FetchRootContents(ctx context.Context, ref domain.RepositoryRef) ([]domain.DirectoryEntry, error) {
	var contents []*github.RepositoryContent
	if err := g.get(ctx, repoPath(ref, "/contents/"), &contents); err != nil {
		return nil, fmt.Errorf("failed to list contents of %s: %w", ref.Key(), err)
	}
	entries := make([]domain.DirectoryEntry, 0, len(contents))
	for _, c := range contents {
		entries = append(entries, domain.DirectoryEntry{
			Name: c.GetName(),
			Path: c.GetPath(),
			Kind: domain.EntryKind(c.GetType()),
			URL:  c.GetHTMLURL(),
		})
	}
	return domain.SortEntries(entries), nil
}

func (g *GitHubGateway) FetchRecentCommits(ctx context.Context, ref domain.RepositoryRef) ([]domain.CommitSummary, error) {
	var commits []*github.RepositoryCommit
	path := repoPath(ref, fmt.Sprintf("/commits?per_page=%d", recentCommitLimit))
	if err := g.get(ctx, path, &commits); err != nil {
		return nil, fmt.Errorf("failed to list commits of %s: %w", ref.Key(), err)
	}
	result := make([]domain.CommitSummary, 0, len(commits))
	for _, c := range commits {
		author := c.GetCommit().GetAuthor()
		result = append(result, domain.CommitSummary{
			Hash:        c.GetSHA(),
			Message:     domain.FirstLine(c.GetCommit().GetMessage()),
			URL:         c.GetHTMLURL(),
			CommittedAt: author.GetDate().Time,
			Author:      domain.ResolveAuthor(c.GetAuthor().GetLogin(), author.GetName()),
		})
	}
	return result, nil
}

func (g *GitHubGateway) ProbeReadme(ctx context.Context, ref domain.RepositoryRef) error {
	if err := g.get(ctx, repoPath(ref, "/readme"), nil); err != nil {
		return fmt.Errorf("failed to probe readme of %s: %w", ref.Key(), err)
	}
	return nil
}

func (g *GitHubGateway) FetchUser(ctx context.Context, login string) (*domain.UserProfile, error) {
	var user github.User
	if err := g.get(ctx, "users/"+url.PathEscape(login), &user); err != nil {
		return nil, fmt.Errorf("failed to fetch user %s: %w", login, err)
	}
	return &domain.UserProfile{
		Login:       user.GetLogin(),
		Followers:   user.GetFollowers(),
		Following:   user.GetFollowing(),
		PublicRepos: user.GetPublicRepos(),
		URL:         user.GetHTMLURL(),
	}, nil
}
