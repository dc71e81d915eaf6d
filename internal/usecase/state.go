package usecase

import (
	"maps"

	"github.com/naka-gawa/repo-dashboard/internal/domain"
)

// State is the partial view of one aggregation run.
// It is a value: Apply returns a new State and never mutates the receiver,
// so a snapshot handed to an observer stays consistent.
type State struct {
	Metrics      map[string]domain.RepositoryMetrics `json:"metrics"`
	OpenPulls    map[string]int                      `json:"open_pulls"`
	Contributors map[string][]domain.Contributor     `json:"contributors"`

	// Contents and Commits stay nil until their call has settled successfully.
	Contents []domain.DirectoryEntry `json:"contents"`
	Commits  []domain.CommitSummary  `json:"commits"`
	Readme   domain.ReadmePresence   `json:"readme"`

	Profile *domain.UserProfile `json:"profile"`

	// Err holds the first failure of the run, empty when none occurred.
	Err string `json:"error,omitempty"`
}

// NewState returns the empty state every run starts from.
func NewState() State {
	return State{
		Metrics:      map[string]domain.RepositoryMetrics{},
		OpenPulls:    map[string]int{},
		Contributors: map[string][]domain.Contributor{},
	}
}

// Apply returns a copy of s with u written into it.
func (s State) Apply(u Update) State {
	next := s.clone()
	u.apply(&next)
	return next
}

func (s State) clone() State {
	next := s
	next.Metrics = maps.Clone(s.Metrics)
	next.OpenPulls = maps.Clone(s.OpenPulls)
	next.Contributors = maps.Clone(s.Contributors)
	if next.Metrics == nil {
		next.Metrics = map[string]domain.RepositoryMetrics{}
	}
	if next.OpenPulls == nil {
		next.OpenPulls = map[string]int{}
	}
	if next.Contributors == nil {
		next.Contributors = map[string][]domain.Contributor{}
	}
	return next
}

// LoadingGeneral reports whether any configured repository still lacks metrics.
func (s State) LoadingGeneral(refs []domain.RepositoryRef) bool {
	for _, ref := range refs {
		if _, ok := s.Metrics[ref.Key()]; !ok {
			return true
		}
	}
	return false
}

// LoadingDeep reports whether the deep-dive listing, history or readme probe is unsettled.
func (s State) LoadingDeep() bool {
	return s.Contents == nil || s.Commits == nil || s.Readme == domain.ReadmeUnknown
}

// LoadingProfile reports whether the profile is still expected.
// A recorded error ends the wait even without a profile.
func (s State) LoadingProfile() bool {
	return s.Profile == nil && s.Err == ""
}

// HasError reports whether a failure has been recorded.
func (s State) HasError() bool {
	return s.Err != ""
}
