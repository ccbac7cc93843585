package refresh

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/hypertrend/trendwatch/internal/board"
	"github.com/hypertrend/trendwatch/internal/logging"
	"github.com/hypertrend/trendwatch/internal/store"
)

// maxConcurrentLoads limits parallel series reads while seeding.
const maxConcurrentLoads = 5

// Seed populates the board from the store at session start: every
// tracked keyword's series is loaded, scored and ranked before any
// provider call happens. Keywords without stored samples are skipped.
// Returns the number of entries added.
func Seed(ctx context.Context, st *store.Store, b *board.Board, region string) (int, error) {
	keywords, err := st.Keywords()
	if err != nil {
		return 0, err
	}
	if len(keywords) == 0 {
		return 0, nil
	}

	samples := make([][]int, len(keywords))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLoads)
	for i, kw := range keywords {
		g.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			points, err := st.Series(kw.ID, region)
			if err != nil {
				return err
			}
			values := make([]int, len(points))
			for j, p := range points {
				values[j] = p.Interest
			}
			samples[i] = values
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	// Add in store order so the result is deterministic; ranking is by
	// trend score regardless of insertion order.
	added := 0
	for i, kw := range keywords {
		if len(samples[i]) == 0 {
			continue
		}
		if b.Add(kw.ID, kw.Keyword, samples[i]) {
			added++
		}
	}

	logging.Info("seeded leaderboard", "keywords", added, "tracked", len(keywords))
	return added, nil
}
