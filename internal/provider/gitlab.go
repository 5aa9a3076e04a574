package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	gitlab "gitlab.com/gitlab-org/api/client-go"

	"github.com/paulwelden/git-ranger/pkg/logging"
)

const (
	glPerPage = 100

	// maxPages bounds any single pagination walk; a provider returning
	// self-referential pages fails here instead of looping.
	maxPages = 100

	// maxGroupNodes bounds the recursive subgroup traversal.
	maxGroupNodes = 1000
)

// gitlabClient lists group projects via the GitLab REST API, traversing
// nested subgroups with an explicit worklist instead of the server-side
// include_subgroups shortcut so the walk stays bounded and observable.
type gitlabClient struct {
	api *gitlab.Client
}

func newGitLab(host, token string) (Client, error) {
	opts := []gitlab.ClientOptionFunc{
		// Rate-limit retries are handled by our own backoff policy.
		gitlab.WithoutRetries(),
	}
	if host != "" {
		opts = append(opts, gitlab.WithBaseURL(host))
	}
	api, err := gitlab.NewClient(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating gitlab client: %w", err)
	}
	return &gitlabClient{api: api}, nil
}

func (c *gitlabClient) ListGroupRepos(ctx context.Context, group string, recursive bool) ([]Repo, error) {
	group = strings.Trim(group, "/")

	// Worklist of group identifiers: the root group by path, descendants by
	// numeric ID as the subgroup listing returns them.
	queue := []interface{}{group}

	var repos []Repo
	visited := 0
	for len(queue) > 0 {
		gid := queue[0]
		queue = queue[1:]

		visited++
		if visited > maxGroupNodes {
			return nil, &Error{
				Kind:     KindTraversal,
				Provider: "gitlab",
				Subject:  group,
				Err:      fmt.Errorf("more than %d groups visited", maxGroupNodes),
			}
		}

		projects, err := c.groupProjects(ctx, gid, group)
		if err != nil {
			return nil, err
		}
		for _, p := range projects {
			repos = append(repos, Repo{
				CloneURL:    p.HTTPURLToRepo,
				PathInGroup: relGroupPath(p.PathWithNamespace, group, p.Path),
			})
		}

		if recursive {
			subs, err := c.subGroups(ctx, gid, group)
			if err != nil {
				return nil, err
			}
			for _, sg := range subs {
				queue = append(queue, sg.ID)
			}
		}
	}

	logging.Debug("Provider", "gitlab group %s: %d repositories across %d groups", group, len(repos), visited)
	return repos, nil
}

func (c *gitlabClient) groupProjects(ctx context.Context, gid interface{}, subject string) ([]*gitlab.Project, error) {
	type page struct {
		projects []*gitlab.Project
		next     int64
	}

	var all []*gitlab.Project
	opt := &gitlab.ListGroupProjectsOptions{
		ListOptions: gitlab.ListOptions{Page: 1, PerPage: glPerPage},
	}
	for pages := 0; ; pages++ {
		if pages >= maxPages {
			return nil, &Error{
				Kind:     KindTraversal,
				Provider: "gitlab",
				Subject:  subject,
				Err:      fmt.Errorf("project listing exceeded %d pages", maxPages),
			}
		}
		res, err := retryRateLimited(ctx, func() (page, error) {
			projects, resp, err := c.api.Groups.ListGroupProjects(gid, opt, gitlab.WithContext(ctx))
			if err != nil {
				return page{}, c.wrapErr(subject, resp, err)
			}
			return page{projects: projects, next: resp.NextPage}, nil
		})
		if err != nil {
			return nil, err
		}
		all = append(all, res.projects...)
		if res.next == 0 || res.next == opt.Page {
			break
		}
		opt.Page = res.next
	}
	return all, nil
}

func (c *gitlabClient) subGroups(ctx context.Context, gid interface{}, subject string) ([]*gitlab.Group, error) {
	type page struct {
		groups []*gitlab.Group
		next   int64
	}

	var all []*gitlab.Group
	opt := &gitlab.ListSubGroupsOptions{
		ListOptions: gitlab.ListOptions{Page: 1, PerPage: glPerPage},
	}
	for pages := 0; ; pages++ {
		if pages >= maxPages {
			return nil, &Error{
				Kind:     KindTraversal,
				Provider: "gitlab",
				Subject:  subject,
				Err:      fmt.Errorf("subgroup listing exceeded %d pages", maxPages),
			}
		}
		res, err := retryRateLimited(ctx, func() (page, error) {
			groups, resp, err := c.api.Groups.ListSubGroups(gid, opt, gitlab.WithContext(ctx))
			if err != nil {
				return page{}, c.wrapErr(subject, resp, err)
			}
			return page{groups: groups, next: resp.NextPage}, nil
		})
		if err != nil {
			return nil, err
		}
		all = append(all, res.groups...)
		if res.next == 0 || res.next == opt.Page {
			break
		}
		opt.Page = res.next
	}
	return all, nil
}

func (c *gitlabClient) wrapErr(subject string, resp *gitlab.Response, err error) error {
	kind := KindNetwork
	var after time.Duration
	if resp != nil && resp.Response != nil {
		kind = classifyStatus(resp.StatusCode)
		after = retryAfter(resp.Header)
	}
	return &Error{Kind: kind, Provider: "gitlab", Subject: subject, Err: err, RetryAfter: after}
}

// relGroupPath computes a project's path relative to the requested root
// group, keeping subgroup components so nested trees land nested on disk.
func relGroupPath(pathWithNamespace, rootGroup, fallback string) string {
	if rel, ok := strings.CutPrefix(pathWithNamespace, rootGroup+"/"); ok {
		return rel
	}
	return fallback
}
