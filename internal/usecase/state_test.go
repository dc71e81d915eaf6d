package usecase

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/repo-dashboard/internal/domain"
)

func TestState_ApplyDoesNotMutateReceiver(t *testing.T) {
	before := NewState()
	after := before.Apply(MetricsUpdate{Key: "octo/alpha", Metrics: domain.RepositoryMetrics{Stars: 1}})

	assert.Empty(t, before.Metrics)
	assert.Equal(t, 1, after.Metrics["octo/alpha"].Stars)

	overwritten := after.Apply(MetricsUpdate{Key: "octo/alpha", Metrics: domain.RepositoryMetrics{Stars: 2}})
	assert.Equal(t, 1, after.Metrics["octo/alpha"].Stars)
	assert.Equal(t, 2, overwritten.Metrics["octo/alpha"].Stars)
}

func TestState_ZeroValueApply(t *testing.T) {
	var s State
	s = s.Apply(PullCountUpdate{Key: "octo/alpha", Count: 4})
	assert.Equal(t, 4, s.OpenPulls["octo/alpha"])
}

func TestState_LoadingPredicates(t *testing.T) {
	refs := []domain.RepositoryRef{alpha, beta}
	s := NewState()

	assert.True(t, s.LoadingGeneral(refs))
	assert.True(t, s.LoadingDeep())
	assert.True(t, s.LoadingProfile())

	s = s.Apply(MetricsUpdate{Key: alpha.Key()})
	assert.True(t, s.LoadingGeneral(refs))
	s = s.Apply(MetricsUpdate{Key: beta.Key()})
	assert.False(t, s.LoadingGeneral(refs))

	s = s.Apply(ContentsUpdate{Entries: []domain.DirectoryEntry{}})
	s = s.Apply(CommitsUpdate{})
	assert.True(t, s.LoadingDeep(), "readme still unknown")
	s = s.Apply(ReadmeUpdate{Presence: domain.ReadmeAbsent})
	assert.False(t, s.LoadingDeep())

	s = s.Apply(ErrorUpdate{Section: SectionProfile, Err: errors.New("GitHub API 404: Not Found")})
	assert.False(t, s.LoadingProfile(), "an error ends profile loading")
	assert.Nil(t, s.Profile)
}

func TestState_FirstErrorWins(t *testing.T) {
	s := NewState().
		Apply(ErrorUpdate{Section: SectionGeneral, Err: errors.New("first")}).
		Apply(ErrorUpdate{Section: SectionDeep, Err: errors.New("second")})

	assert.Equal(t, "first", s.Err)
}

func TestState_ErrorWithoutMessage(t *testing.T) {
	s := NewState().Apply(ErrorUpdate{Section: SectionGeneral, Err: errors.New("")})
	assert.Equal(t, "unknown error", s.Err)
}

func TestState_ContentsUpdateSorts(t *testing.T) {
	input := []domain.DirectoryEntry{
		{Name: "b.c", Kind: domain.KindFile},
		{Name: "src", Kind: domain.KindDir},
		{Name: "a.c", Kind: domain.KindFile},
	}
	s := NewState().Apply(ContentsUpdate{Entries: input})

	assert.Equal(t, []domain.DirectoryEntry{
		{Name: "src", Kind: domain.KindDir},
		{Name: "a.c", Kind: domain.KindFile},
		{Name: "b.c", Kind: domain.KindFile},
	}, s.Contents)
	assert.Equal(t, "b.c", input[0].Name, "caller's slice is left untouched")
}

func TestSummarize(t *testing.T) {
	s := NewState().
		Apply(MetricsUpdate{Key: alpha.Key(), Metrics: domain.RepositoryMetrics{Stars: 10, Forks: 1, Watchers: 10}}).
		Apply(MetricsUpdate{Key: beta.Key(), Metrics: domain.RepositoryMetrics{Stars: 5, Forks: 2, Watchers: 5}}).
		Apply(PullCountUpdate{Key: alpha.Key(), Count: 3}).
		Apply(ContributorsUpdate{Key: alpha.Key(), Contributors: []domain.Contributor{{Contributions: 9}, {Contributions: 1}}}).
		Apply(ContributorsUpdate{Key: beta.Key(), Contributors: []domain.Contributor{{Contributions: 4}}})

	assert.Equal(t, Summary{Stars: 15, Forks: 3, Watchers: 15, OpenPulls: 3, MedianContributions: 4}, Summarize(s))
	assert.Equal(t, Summary{}, Summarize(NewState()))
}

func TestNewView(t *testing.T) {
	refs := []domain.RepositoryRef{alpha}
	s := NewState().
		Apply(MetricsUpdate{Key: alpha.Key()}).
		Apply(ErrorUpdate{Section: SectionProfile, Err: errors.New("GitHub API 403: rate limited")})

	v := NewView(refs, s)
	assert.False(t, v.LoadingGeneral)
	assert.True(t, v.LoadingDeep)
	assert.False(t, v.LoadingProfile)
	assert.Equal(t, TokenHint, v.Hint)

	data, err := json.Marshal(v)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "GitHub API 403: rate limited", decoded["error"])
	assert.Equal(t, "unknown", decoded["readme"])
	assert.Equal(t, true, decoded["loading_deep"])
	assert.Contains(t, decoded, "metrics")

	assert.Empty(t, NewView(refs, NewState()).Hint)
}

func TestNewView_Links(t *testing.T) {
	refs := []domain.RepositoryRef{alpha, beta}
	s := NewState().Apply(ContentsUpdate{Entries: []domain.DirectoryEntry{
		{Name: "README.md", Path: "README.md", Kind: domain.KindFile},
		{Name: "src", Path: "src", Kind: domain.KindDir},
	}})

	v := NewView(refs, s)
	require.Len(t, v.Repositories, 2)
	assert.Equal(t, "https://github.com/octo/alpha", v.Repositories[0].URL)
	assert.Equal(t, "https://github.com/octo/beta", v.Repositories[1].URL)
	require.Len(t, v.Contents, 2)
	assert.Equal(t, "src", v.Contents[0].Name)
	assert.Equal(t, "https://github.com/octo/alpha/tree/main/src", v.Contents[0].BrowseURL)

	data, err := json.Marshal(v)
	require.NoError(t, err)

	var decoded struct {
		Repositories []map[string]any `json:"repositories"`
		Contents     []map[string]any `json:"contents"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded.Repositories, 2)
	assert.Equal(t, "https://github.com/octo/alpha", decoded.Repositories[0]["url"])
	assert.Equal(t, "alpha", decoded.Repositories[0]["repo"])
	require.Len(t, decoded.Contents, 2)
	assert.Equal(t, "https://github.com/octo/alpha/tree/main/README.md", decoded.Contents[1]["browse_url"])
	assert.Equal(t, "README.md", decoded.Contents[1]["name"])

	loading := NewView(refs, NewState())
	assert.Nil(t, loading.Contents)
	data, err = json.Marshal(loading)
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Nil(t, raw["contents"], "contents stay null while loading")
}
