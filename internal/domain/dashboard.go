// Package domain contains the core data structures and domain logic for the application.
package domain

import (
	"fmt"
	"time"
)

// RepositoryRef identifies one tracked repository.
type RepositoryRef struct {
	Owner string `json:"owner" mapstructure:"owner"`
	Repo  string `json:"repo" mapstructure:"repo"`
	Label string `json:"label" mapstructure:"label"`
}

// Key returns the "owner/repo" identity used by every per-repository mapping.
func (r RepositoryRef) Key() string {
	return r.Owner + "/" + r.Repo
}

// URL returns the repository's web address.
func (r RepositoryRef) URL() string {
	return fmt.Sprintf("https://github.com/%s/%s", r.Owner, r.Repo)
}

// RepositoryMetrics holds the headline numbers of a repository.
// It is replaced wholesale on every fetch.
type RepositoryMetrics struct {
	FullName     string    `json:"full_name"`
	URL          string    `json:"url"`
	Stars        int       `json:"stars"`
	Forks        int       `json:"forks"`
	Watchers     int       `json:"watchers"`
	LastPushedAt time.Time `json:"last_pushed_at"`
	OpenIssues   int       `json:"open_issues"`
}

// Contributor is one entry of a repository's top contributors.
type Contributor struct {
	Login         string `json:"login"`
	URL           string `json:"url,omitempty"`
	Contributions int    `json:"contributions"`
}

// UserProfile holds the public statistics of a single user.
type UserProfile struct {
	Login       string `json:"login"`
	Followers   int    `json:"followers"`
	Following   int    `json:"following"`
	PublicRepos int    `json:"public_repos"`
	URL         string `json:"url"`
}
