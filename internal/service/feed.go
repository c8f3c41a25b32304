package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/rcliao/wellness-profile/internal/recommend"
)

// Video is one search result from the video collaborator.
type Video struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Channel         string  `json:"channel,omitempty"`
	DurationSeconds float64 `json:"duration_seconds,omitempty"`
	URL             string  `json:"url,omitempty"`
	Source          string  `json:"source,omitempty"`
	Query           string  `json:"query,omitempty"`
}

// VideoSearcher runs one search query.
type VideoSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]Video, error)
}

// FeedOptions sizes the blended feed.
type FeedOptions struct {
	Size        int
	PerQuery    int
	Concurrency int
}

func (o FeedOptions) withDefaults() FeedOptions {
	if o.Size <= 0 {
		o.Size = 10
	}
	if o.PerQuery <= 0 {
		o.PerQuery = 5
	}
	if o.Concurrency <= 0 {
		o.Concurrency = 4
	}
	return o
}

// Feed is a blended list of videos plus the plan that produced it.
type Feed struct {
	Plan       recommend.Plan       `json:"plan"`
	Allocation recommend.Allocation `json:"allocation"`
	Videos     []Video              `json:"videos"`
	Failed     []string             `json:"failed_queries,omitempty"`
}

const (
	sourceProfile     = "profile"
	sourceBehavior    = "behavior"
	sourceExploration = "exploration"
)

// Feed searches every planned query concurrently and blends the results by
// the mixing ratio. Failed queries are reported and skipped; the call fails
// only when every query fails.
func (e *Engine) Feed(ctx context.Context, userID string) (*Feed, error) {
	if e.searcher == nil {
		return nil, ErrNoSearcher
	}
	plan, err := e.Recommend(ctx, userID)
	if err != nil {
		return nil, err
	}

	type job struct {
		source string
		query  string
	}
	var jobs []job
	for _, q := range plan.Queries.Profile {
		jobs = append(jobs, job{sourceProfile, q})
	}
	for _, q := range plan.Queries.Behavior {
		jobs = append(jobs, job{sourceBehavior, q})
	}
	for _, q := range plan.Queries.Exploration {
		jobs = append(jobs, job{sourceExploration, q})
	}

	results := make([][]Video, len(jobs))
	var (
		mu     sync.Mutex
		failed []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.feed.Concurrency)
	for i, j := range jobs {
		g.Go(func() error {
			videos, err := e.searcher.Search(gctx, j.query, e.feed.PerQuery)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				e.log.Warn("video search failed", "user_id", userID, "query", j.query, "error", err)
				mu.Lock()
				failed = append(failed, j.query)
				mu.Unlock()
				return nil
			}
			for k := range videos {
				videos[k].Source = j.source
				videos[k].Query = j.query
			}
			results[i] = videos
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(jobs) > 0 && len(failed) == len(jobs) {
		return nil, fmt.Errorf("video search: all %d queries failed", len(jobs))
	}

	pools := map[string][][]Video{}
	for i, j := range jobs {
		pools[j.source] = append(pools[j.source], results[i])
	}
	alloc := plan.Ratio.Allocate(e.feed.Size)
	videos := blend(e.feed.Size, []sourceQuota{
		{sourceProfile, alloc.Profile, pools[sourceProfile]},
		{sourceBehavior, alloc.Behavior, pools[sourceBehavior]},
		{sourceExploration, alloc.Exploration, pools[sourceExploration]},
	})

	e.log.Info("feed built", "user_id", userID, "videos", len(videos), "failed", len(failed), "regime", plan.Ratio.Regime)
	return &Feed{Plan: *plan, Allocation: alloc, Videos: videos, Failed: failed}, nil
}

type sourceQuota struct {
	source string
	quota  int
	pools  [][]Video
}

// blend takes each source's quota round-robin across its queries, then
// backfills any shortfall from whatever is left, and finally interleaves
// the sources so the feed does not start with one long block.
func blend(size int, sources []sourceQuota) []Video {
	seen := map[string]bool{}
	key := func(v Video) string {
		if v.ID != "" {
			return v.ID
		}
		return strings.ToLower(v.Title + "|" + v.Channel)
	}

	picked := make([][]Video, len(sources))
	cursors := make([][]int, len(sources))
	for i, s := range sources {
		cursors[i] = make([]int, len(s.pools))
	}
	// next pops the next unseen video for source i, or false when drained.
	next := func(i int) (Video, bool) {
		s := sources[i]
		for q := range s.pools {
			for cursors[i][q] < len(s.pools[q]) {
				v := s.pools[q][cursors[i][q]]
				cursors[i][q]++
				if !seen[key(v)] {
					seen[key(v)] = true
					return v, true
				}
			}
		}
		return Video{}, false
	}
	// roundRobin pulls one video from each query in turn.
	roundRobin := func(i, n int) {
		s := sources[i]
		for len(picked[i]) < n {
			got := false
			for q := range s.pools {
				if len(picked[i]) >= n {
					break
				}
				for cursors[i][q] < len(s.pools[q]) {
					v := s.pools[q][cursors[i][q]]
					cursors[i][q]++
					if !seen[key(v)] {
						seen[key(v)] = true
						picked[i] = append(picked[i], v)
						got = true
						break
					}
				}
			}
			if !got {
				return
			}
		}
	}

	total := 0
	for i, s := range sources {
		roundRobin(i, s.quota)
		total += len(picked[i])
	}
	for i := range sources {
		for total < size {
			v, ok := next(i)
			if !ok {
				break
			}
			picked[i] = append(picked[i], v)
			total++
		}
	}

	out := make([]Video, 0, total)
	for round := 0; len(out) < total; round++ {
		for i := range picked {
			if round < len(picked[i]) {
				out = append(out, picked[i][round])
			}
		}
	}
	return out
}
