// Package usecase contains the business logic of the application.
package usecase

import (
	"context"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/naka-gawa/repo-dashboard/internal/domain"
	"github.com/naka-gawa/repo-dashboard/internal/gateway"
)

// Observer receives the state after every write of a run.
type Observer func(State)

// Aggregator is the use case for building the dashboard state.
// It launches every fetch group and is the only writer of the run's State.
type Aggregator struct {
	fetcher gateway.Fetcher
	refs    []domain.RepositoryRef
	user    string
	logger  *log.Logger
}

// NewAggregator creates a new Aggregator instance.
// The first ref is the target of the deep dive.
func NewAggregator(fetcher gateway.Fetcher, refs []domain.RepositoryRef, user string, logger *log.Logger) *Aggregator {
	return &Aggregator{
		fetcher: fetcher,
		refs:    refs,
		user:    user,
		logger:  logger,
	}
}

// Refs returns the configured repositories.
func (a *Aggregator) Refs() []domain.RepositoryRef {
	return a.refs
}

// Run performs one aggregation from an empty State and returns the final one.
//
// Fetch groups run concurrently and report through a channel; Run applies
// their updates one at a time and passes each new State to observe, which may
// be nil. Failures never stop unrelated groups: the first one is kept in
// State.Err. When ctx is cancelled Run returns immediately and results still
// in flight are discarded.
func (a *Aggregator) Run(ctx context.Context, observe Observer) State {
	a.logger.Info("starting aggregation", "repos", len(a.refs), "user", a.user)

	updates := make(chan Update)
	send := func(u Update) {
		select {
		case updates <- u:
		case <-ctx.Done():
		}
	}

	// A plain Group: one failing ref must not cancel the others.
	var eg errgroup.Group
	for _, ref := range a.refs {
		eg.Go(func() error {
			return a.fetchMetadata(ctx, ref, send)
		})
	}
	if len(a.refs) > 0 {
		deep := a.refs[0]
		eg.Go(func() error { return a.fetchContents(ctx, deep, send) })
		eg.Go(func() error { return a.fetchCommits(ctx, deep, send) })
		eg.Go(func() error {
			a.probeReadme(ctx, deep, send)
			return nil
		})
	}
	eg.Go(func() error { return a.fetchProfile(ctx, send) })

	go func() {
		if err := eg.Wait(); err != nil {
			a.logger.Debug("fetch groups finished with errors", "first", err)
		}
		close(updates)
	}()

	state := NewState()
	for {
		select {
		case <-ctx.Done():
			a.logger.Debug("aggregation torn down, discarding pending results")
			return state
		case u, ok := <-updates:
			if !ok {
				a.logger.Info("aggregation complete", "error", state.HasError())
				return state
			}
			if ctx.Err() != nil {
				return state
			}
			if e, isErr := u.(ErrorUpdate); isErr {
				a.logger.Warn("fetch failed", "section", e.Section, "ref", e.Key, "err", e.Err)
			}
			state = state.Apply(u)
			if observe != nil {
				observe(state)
			}
		}
	}
}

// fetchMetadata runs the sequential chain for one repository.
// The first failure aborts the remaining calls of this chain only.
func (a *Aggregator) fetchMetadata(ctx context.Context, ref domain.RepositoryRef, send func(Update)) error {
	key := ref.Key()
	fail := func(err error) error {
		send(ErrorUpdate{Section: SectionGeneral, Key: key, Err: err})
		return err
	}

	metrics, err := a.fetcher.FetchRepository(ctx, ref)
	if err != nil {
		return fail(err)
	}
	send(MetricsUpdate{Key: key, Metrics: *metrics})

	count, err := a.fetcher.CountOpenPulls(ctx, ref)
	if err != nil {
		return fail(err)
	}
	send(PullCountUpdate{Key: key, Count: count})

	contributors, err := a.fetcher.FetchTopContributors(ctx, ref)
	if err != nil {
		return fail(err)
	}
	send(ContributorsUpdate{Key: key, Contributors: contributors})

	a.logger.Debug("repository metadata fetched", "ref", key)
	return nil
}

func (a *Aggregator) fetchContents(ctx context.Context, ref domain.RepositoryRef, send func(Update)) error {
	entries, err := a.fetcher.FetchRootContents(ctx, ref)
	if err != nil {
		send(ErrorUpdate{Section: SectionDeep, Key: ref.Key(), Err: err})
		return err
	}
	send(ContentsUpdate{Entries: entries})
	return nil
}

func (a *Aggregator) fetchCommits(ctx context.Context, ref domain.RepositoryRef, send func(Update)) error {
	commits, err := a.fetcher.FetchRecentCommits(ctx, ref)
	if err != nil {
		send(ErrorUpdate{Section: SectionDeep, Key: ref.Key(), Err: err})
		return err
	}
	send(CommitsUpdate{Commits: commits})
	return nil
}

// probeReadme never reports an error: any failure means the readme is absent.
func (a *Aggregator) probeReadme(ctx context.Context, ref domain.RepositoryRef, send func(Update)) {
	if err := a.fetcher.ProbeReadme(ctx, ref); err != nil {
		if gateway.IsNotFound(err) {
			a.logger.Debug("readme not found", "ref", ref.Key())
		} else {
			a.logger.Debug("readme check failed, treating as absent", "ref", ref.Key(), "err", err)
		}
		send(ReadmeUpdate{Presence: domain.ReadmeAbsent})
		return
	}
	send(ReadmeUpdate{Presence: domain.ReadmePresent})
}

func (a *Aggregator) fetchProfile(ctx context.Context, send func(Update)) error {
	profile, err := a.fetcher.FetchUser(ctx, a.user)
	if err != nil {
		send(ErrorUpdate{Section: SectionProfile, Key: a.user, Err: err})
		return err
	}
	send(ProfileUpdate{Profile: *profile})
	return nil
}
