package usecase

import (
	"github.com/naka-gawa/repo-dashboard/internal/domain"
)

// Section names the fetch group an update originates from.
type Section string

const (
	SectionGeneral Section = "general"
	SectionDeep    Section = "deep"
	SectionProfile Section = "profile"
)

// Update is a single write into State. Later writes for the same key overwrite earlier ones.
type Update interface {
	apply(s *State)
}

// MetricsUpdate replaces the metrics of one repository.
type MetricsUpdate struct {
	Key     string
	Metrics domain.RepositoryMetrics
}

func (u MetricsUpdate) apply(s *State) { s.Metrics[u.Key] = u.Metrics }

// PullCountUpdate records the open pull request count of one repository.
type PullCountUpdate struct {
	Key   string
	Count int
}

func (u PullCountUpdate) apply(s *State) { s.OpenPulls[u.Key] = u.Count }

// ContributorsUpdate records the top contributors of one repository.
type ContributorsUpdate struct {
	Key          string
	Contributors []domain.Contributor
}

func (u ContributorsUpdate) apply(s *State) {
	contributors := u.Contributors
	if contributors == nil {
		contributors = []domain.Contributor{}
	}
	s.Contributors[u.Key] = contributors
}

// ContentsUpdate stores the deep-dive root listing, sorted by kind then name.
type ContentsUpdate struct {
	Entries []domain.DirectoryEntry
}

func (u ContentsUpdate) apply(s *State) {
	entries := append([]domain.DirectoryEntry{}, u.Entries...)
	s.Contents = domain.SortEntries(entries)
}

// CommitsUpdate stores the deep-dive commit history.
type CommitsUpdate struct {
	Commits []domain.CommitSummary
}

func (u CommitsUpdate) apply(s *State) {
	s.Commits = append([]domain.CommitSummary{}, u.Commits...)
}

// ReadmeUpdate stores the outcome of the readme probe.
type ReadmeUpdate struct {
	Presence domain.ReadmePresence
}

func (u ReadmeUpdate) apply(s *State) { s.Readme = u.Presence }

// ProfileUpdate stores the user profile.
type ProfileUpdate struct {
	Profile domain.UserProfile
}

func (u ProfileUpdate) apply(s *State) {
	profile := u.Profile
	s.Profile = &profile
}

// ErrorUpdate reports a failed call. Only the first error of a run is kept.
type ErrorUpdate struct {
	Section Section
	Key     string
	Err     error
}

func (u ErrorUpdate) apply(s *State) {
	if s.Err != "" {
		return
	}
	s.Err = errorMessage(u.Err)
}

// unknownErrorMessage is used when a failure carries no text of its own.
const unknownErrorMessage = "unknown error"

func errorMessage(err error) string {
	if err == nil || err.Error() == "" {
		return unknownErrorMessage
	}
	return err.Error()
}
