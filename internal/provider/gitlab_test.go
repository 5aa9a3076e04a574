package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGitLabForTest(t *testing.T, handler http.Handler) Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := newGitLab(srv.URL, "test-token")
	require.NoError(t, err)
	return c
}

func jsonResponse(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, body)
}

func TestGitLab_FlatGroup(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v4/groups/tools/projects", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-token", r.Header.Get("Private-Token"))
		jsonResponse(w, `[
			{"id": 1, "path": "hammer", "path_with_namespace": "tools/hammer",
			 "http_url_to_repo": "https://gitlab.example.com/tools/hammer.git"}
		]`)
	})

	c := newGitLabForTest(t, mux)

	repos, err := c.ListGroupRepos(context.Background(), "tools", false)
	require.NoError(t, err)
	require.Len(t, repos, 1)
	assert.Equal(t, "hammer", repos[0].PathInGroup)
	assert.Equal(t, "https://gitlab.example.com/tools/hammer.git", repos[0].CloneURL)
}

func TestGitLab_RecursiveSubgroups(t *testing.T) {
	// Group "tools" with two subgroups holding five projects total, the
	// layout the sync scenarios are specified against.
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v4/groups/tools/projects", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, `[
			{"id": 1, "path": "hammer", "path_with_namespace": "tools/hammer",
			 "http_url_to_repo": "https://gitlab.example.com/tools/hammer.git"}
		]`)
	})
	mux.HandleFunc("/api/v4/groups/tools/subgroups", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, `[
			{"id": 11, "path": "alpha", "full_path": "tools/alpha"},
			{"id": 12, "path": "beta", "full_path": "tools/beta"}
		]`)
	})
	mux.HandleFunc("/api/v4/groups/11/projects", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, `[
			{"id": 2, "path": "anvil", "path_with_namespace": "tools/alpha/anvil",
			 "http_url_to_repo": "https://gitlab.example.com/tools/alpha/anvil.git"},
			{"id": 3, "path": "tongs", "path_with_namespace": "tools/alpha/tongs",
			 "http_url_to_repo": "https://gitlab.example.com/tools/alpha/tongs.git"}
		]`)
	})
	mux.HandleFunc("/api/v4/groups/11/subgroups", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, `[]`)
	})
	mux.HandleFunc("/api/v4/groups/12/projects", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, `[
			{"id": 4, "path": "chisel", "path_with_namespace": "tools/beta/chisel",
			 "http_url_to_repo": "https://gitlab.example.com/tools/beta/chisel.git"},
			{"id": 5, "path": "file", "path_with_namespace": "tools/beta/file",
			 "http_url_to_repo": "https://gitlab.example.com/tools/beta/file.git"}
		]`)
	})
	mux.HandleFunc("/api/v4/groups/12/subgroups", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, `[]`)
	})

	c := newGitLabForTest(t, mux)

	repos, err := c.ListGroupRepos(context.Background(), "tools", true)
	require.NoError(t, err)
	require.Len(t, repos, 5)

	paths := make([]string, 0, len(repos))
	for _, r := range repos {
		paths = append(paths, r.PathInGroup)
	}
	assert.ElementsMatch(t, []string{"hammer", "alpha/anvil", "alpha/tongs", "beta/chisel", "beta/file"}, paths)
}

func TestGitLab_NonRecursiveSkipsSubgroups(t *testing.T) {
	subgroupsCalled := false
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v4/groups/tools/projects", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, `[]`)
	})
	mux.HandleFunc("/api/v4/groups/tools/subgroups", func(w http.ResponseWriter, r *http.Request) {
		subgroupsCalled = true
		jsonResponse(w, `[]`)
	})

	c := newGitLabForTest(t, mux)

	_, err := c.ListGroupRepos(context.Background(), "tools", false)
	require.NoError(t, err)
	assert.False(t, subgroupsCalled)
}

func TestGitLab_Pagination(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v4/groups/tools/projects", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "", "1":
			w.Header().Set("X-Next-Page", "2")
			jsonResponse(w, `[
				{"id": 1, "path": "one", "path_with_namespace": "tools/one",
				 "http_url_to_repo": "https://gitlab.example.com/tools/one.git"}
			]`)
		case "2":
			jsonResponse(w, `[
				{"id": 2, "path": "two", "path_with_namespace": "tools/two",
				 "http_url_to_repo": "https://gitlab.example.com/tools/two.git"}
			]`)
		default:
			t.Errorf("unexpected page %q", r.URL.Query().Get("page"))
		}
	})

	c := newGitLabForTest(t, mux)

	repos, err := c.ListGroupRepos(context.Background(), "tools", false)
	require.NoError(t, err)
	require.Len(t, repos, 2)
	assert.Equal(t, "one", repos[0].PathInGroup)
	assert.Equal(t, "two", repos[1].PathInGroup)
}

func TestGitLab_AuthFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		jsonResponse(w, `{"message": "401 Unauthorized"}`)
	})

	c := newGitLabForTest(t, mux)

	_, err := c.ListGroupRepos(context.Background(), "tools", false)
	require.Error(t, err)

	var perr *Error
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, KindAuth, perr.Kind)
	assert.Equal(t, "gitlab", perr.Provider)
}

func TestGitLab_GroupNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		jsonResponse(w, `{"message": "404 Group Not Found"}`)
	})

	c := newGitLabForTest(t, mux)

	_, err := c.ListGroupRepos(context.Background(), "missing", false)
	require.Error(t, err)

	var perr *Error
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, KindNotFound, perr.Kind)
	assert.Equal(t, "missing", perr.Subject)
}

func TestRelGroupPath(t *testing.T) {
	tests := []struct {
		pathWithNamespace string
		root              string
		fallback          string
		expected          string
	}{
		{"tools/hammer", "tools", "hammer", "hammer"},
		{"tools/alpha/anvil", "tools", "anvil", "alpha/anvil"},
		{"my-org/tools/hammer", "my-org/tools", "hammer", "hammer"},
		{"elsewhere/hammer", "tools", "hammer", "hammer"},
	}

	for _, test := range tests {
		got := relGroupPath(test.pathWithNamespace, test.root, test.fallback)
		assert.Equal(t, test.expected, got, "path %s root %s", test.pathWithNamespace, test.root)
	}
}
