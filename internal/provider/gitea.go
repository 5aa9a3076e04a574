package provider

import (
	"context"
	"fmt"
	"sync"
	"time"

	"code.gitea.io/sdk/gitea"

	"github.com/paulwelden/git-ranger/pkg/logging"
)

const giteaPageSize = 50

// giteaClient lists organization repositories from a Gitea instance.
// Gitea organizations are flat; the recursive flag is a no-op.
//
// The SDK probes the server version when a client is constructed, so the
// underlying client is built lazily on first use to keep provider selection
// free of network calls.
type giteaClient struct {
	host  string
	token string

	mu  sync.Mutex
	api *gitea.Client
}

func newGitea(host, token string) (Client, error) {
	if host == "" {
		return nil, fmt.Errorf("gitea provider requires an explicit host")
	}
	return &giteaClient{host: host, token: token}, nil
}

func (c *giteaClient) client(ctx context.Context) (*gitea.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.api != nil {
		c.api.SetContext(ctx)
		return c.api, nil
	}

	opts := []gitea.ClientOption{gitea.SetContext(ctx)}
	if c.token != "" {
		opts = append(opts, gitea.SetToken(c.token))
	}
	api, err := gitea.NewClient(c.host, opts...)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Provider: "gitea", Subject: c.host, Err: err}
	}
	c.api = api
	return api, nil
}

func (c *giteaClient) ListGroupRepos(ctx context.Context, org string, recursive bool) ([]Repo, error) {
	api, err := c.client(ctx)
	if err != nil {
		return nil, err
	}

	var all []Repo
	for p := 1; ; p++ {
		if p > maxPages {
			return nil, &Error{
				Kind:     KindTraversal,
				Provider: "gitea",
				Subject:  org,
				Err:      fmt.Errorf("repository listing exceeded %d pages", maxPages),
			}
		}
		opt := gitea.ListOrgReposOptions{
			ListOptions: gitea.ListOptions{Page: p, PageSize: giteaPageSize},
		}
		repos, err := retryRateLimited(ctx, func() ([]*gitea.Repository, error) {
			repos, resp, err := api.ListOrgRepos(org, opt)
			if err != nil {
				kind := KindNetwork
				if resp != nil && resp.Response != nil {
					kind = classifyStatus(resp.StatusCode)
				}
				return nil, &Error{Kind: kind, Provider: "gitea", Subject: org, Err: err, RetryAfter: retryAfterFromGitea(resp)}
			}
			return repos, nil
		})
		if err != nil {
			return nil, err
		}
		for _, r := range repos {
			all = append(all, Repo{
				CloneURL:    r.CloneURL,
				PathInGroup: r.Name,
			})
		}
		// The SDK does not surface Link-header pagination uniformly across
		// server versions, so a short page terminates the walk.
		if len(repos) < giteaPageSize {
			break
		}
	}

	logging.Debug("Provider", "gitea org %s: %d repositories", org, len(all))
	return all, nil
}

func retryAfterFromGitea(resp *gitea.Response) time.Duration {
	if resp == nil || resp.Response == nil {
		return 0
	}
	return retryAfter(resp.Header)
}
