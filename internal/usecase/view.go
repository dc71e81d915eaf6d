package usecase

import (
	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/repo-dashboard/internal/domain"
)

// TokenHint is shown next to an error, since most failures are rate limits.
const TokenHint = "set GITHUB_TOKEN to raise the API rate limit"

// Summary holds the overview totals over the repositories that have reported so far.
type Summary struct {
	Stars               int     `json:"stars"`
	Forks               int     `json:"forks"`
	Watchers            int     `json:"watchers"`
	OpenPulls           int     `json:"open_pulls"`
	MedianContributions float64 `json:"median_contributions"`
}

// Summarize computes the overview totals of s.
func Summarize(s State) Summary {
	var stars, forks, watchers, pulls, contributions stats.Float64Data
	for _, m := range s.Metrics {
		stars = append(stars, float64(m.Stars))
		forks = append(forks, float64(m.Forks))
		watchers = append(watchers, float64(m.Watchers))
	}
	for _, n := range s.OpenPulls {
		pulls = append(pulls, float64(n))
	}
	for _, top := range s.Contributors {
		for _, c := range top {
			contributions = append(contributions, float64(c.Contributions))
		}
	}

	median, err := contributions.Median()
	if err != nil {
		median = 0
	}
	return Summary{
		Stars:               total(stars),
		Forks:               total(forks),
		Watchers:            total(watchers),
		OpenPulls:           total(pulls),
		MedianContributions: median,
	}
}

// total sums data, treating an empty set as zero.
func total(data stats.Float64Data) int {
	sum, err := data.Sum()
	if err != nil {
		return 0
	}
	return int(sum)
}

// RepositoryLink is a configured repository with its web address.
type RepositoryLink struct {
	domain.RepositoryRef
	URL string `json:"url"`
}

// EntryLink is a deep-dive listing entry with a link to browse it.
type EntryLink struct {
	domain.DirectoryEntry
	BrowseURL string `json:"browse_url"`
}

// View is the snapshot handed to presentation: the state plus every derived flag.
type View struct {
	State
	Repositories []RepositoryLink `json:"repositories"`
	// Contents shadows State.Contents in JSON, adding browse links; nil while loading.
	Contents       []EntryLink `json:"contents"`
	LoadingGeneral bool        `json:"loading_general"`
	LoadingDeep    bool        `json:"loading_deep"`
	LoadingProfile bool        `json:"loading_profile"`
	Summary        Summary     `json:"summary"`
	Hint           string      `json:"hint,omitempty"`
}

// NewView derives the presentation snapshot of s for the configured refs.
func NewView(refs []domain.RepositoryRef, s State) View {
	v := View{
		State:          s,
		Repositories:   make([]RepositoryLink, 0, len(refs)),
		LoadingGeneral: s.LoadingGeneral(refs),
		LoadingDeep:    s.LoadingDeep(),
		LoadingProfile: s.LoadingProfile(),
		Summary:        Summarize(s),
	}
	for _, ref := range refs {
		v.Repositories = append(v.Repositories, RepositoryLink{RepositoryRef: ref, URL: ref.URL()})
	}
	if s.Contents != nil && len(refs) > 0 {
		deep := refs[0]
		v.Contents = make([]EntryLink, 0, len(s.Contents))
		for _, e := range s.Contents {
			v.Contents = append(v.Contents, EntryLink{DirectoryEntry: e, BrowseURL: e.BrowseURL(deep)})
		}
	}
	if s.HasError() {
		v.Hint = TokenHint
	}
	return v
}
