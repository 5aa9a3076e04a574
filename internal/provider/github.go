package provider

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/go-github/v74/github"

	"github.com/paulwelden/git-ranger/pkg/logging"
)

const ghPerPage = 100

// githubClient lists organization repositories. GitHub organizations are
// flat, so the recursive flag is a no-op here.
type githubClient struct {
	api *github.Client
}

func newGitHub(host, token string) (Client, error) {
	api := github.NewClient(nil)
	if host != "" && !isPublicGitHub(host) {
		var err error
		api, err = api.WithEnterpriseURLs(host, host)
		if err != nil {
			return nil, fmt.Errorf("creating github client for %s: %w", host, err)
		}
	}
	if token != "" {
		api = api.WithAuthToken(token)
	}
	return &githubClient{api: api}, nil
}

func isPublicGitHub(host string) bool {
	u, err := url.Parse(host)
	if err != nil {
		return false
	}
	return u.Host == "github.com" || u.Host == "www.github.com"
}

func (c *githubClient) ListGroupRepos(ctx context.Context, org string, recursive bool) ([]Repo, error) {
	type page struct {
		repos []*github.Repository
		next  int
	}

	var all []Repo
	opt := &github.RepositoryListByOrgOptions{
		ListOptions: github.ListOptions{PerPage: ghPerPage},
	}
	for pages := 0; ; pages++ {
		if pages >= maxPages {
			return nil, &Error{
				Kind:     KindTraversal,
				Provider: "github",
				Subject:  org,
				Err:      fmt.Errorf("repository listing exceeded %d pages", maxPages),
			}
		}
		res, err := retryRateLimited(ctx, func() (page, error) {
			repos, resp, err := c.api.Repositories.ListByOrg(ctx, org, opt)
			if err != nil {
				return page{}, ghWrapErr(org, resp, err)
			}
			return page{repos: repos, next: resp.NextPage}, nil
		})
		if err != nil {
			return nil, err
		}
		for _, r := range res.repos {
			all = append(all, Repo{
				CloneURL:    r.GetCloneURL(),
				PathInGroup: r.GetName(),
			})
		}
		if res.next == 0 || res.next == opt.Page {
			break
		}
		opt.Page = res.next
	}

	logging.Debug("Provider", "github org %s: %d repositories", org, len(all))
	return all, nil
}

func ghWrapErr(subject string, resp *github.Response, err error) error {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		after := time.Until(rateErr.Rate.Reset.Time)
		if after < 0 {
			after = 0
		}
		return &Error{Kind: KindRateLimited, Provider: "github", Subject: subject, Err: err, RetryAfter: after}
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return &Error{Kind: KindRateLimited, Provider: "github", Subject: subject, Err: err, RetryAfter: abuseErr.GetRetryAfter()}
	}

	kind := KindNetwork
	if resp != nil && resp.Response != nil {
		kind = classifyStatus(resp.StatusCode)
	}
	return &Error{Kind: kind, Provider: "github", Subject: subject, Err: err}
}
