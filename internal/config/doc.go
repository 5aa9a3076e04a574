// Package config loads and validates the ranger.yaml configuration file.
//
// The file has three sections:
//
//	providers:            # name -> endpoint {kind?, host?, token}
//	  gitlab:
//	    host: "https://gitlab.example.com"
//	    token: "${GITLAB_TOKEN}"
//	groups:               # provider name -> groups/orgs to sync
//	  gitlab:
//	    - name: "my-org/my-team"
//	      local_dir: "team-projects"
//	      recursive: true
//	repos:                # standalone repositories
//	  - url: "git@github.com:example/tool.git"
//	    local_dir: "standalone"
//
// Tokens are secret.Value references and stay unresolved through loading and
// validation; a missing environment variable only surfaces when a provider
// call or git operation actually needs the credential.
//
// Load returns an immutable Config value that callers thread through the
// sync pipeline explicitly. WriteTemplate implements `git-ranger init`.
package config
