package e2e

import (
	"os"
	"path/filepath"
	"time"

	"github.com/hypertrend/trendwatch/internal/store"
)

// seedFixtureDB creates ~/.trendwatch/trends.db under homeDir with two
// keywords that have deterministic series, so the leaderboard renders
// without any provider.
func seedFixtureDB(homeDir string) error {
	dataDir := filepath.Join(homeDir, ".trendwatch")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return err
	}
	st, err := store.Open(filepath.Join(dataDir, "trends.db"))
	if err != nil {
		return err
	}
	defer st.Close()

	base := time.Now().UTC().Add(-6 * time.Hour)
	fixtures := []struct {
		keyword string
		values  []int
	}{
		{"fixture-rising", []int{20, 20, 30, 50, 80}},
		{"fixture-steady", []int{40, 40, 40, 40, 40}},
	}
	for _, f := range fixtures {
		id, err := st.UpsertKeyword(f.keyword)
		if err != nil {
			return err
		}
		points := make([]store.Point, len(f.values))
		for i, v := range f.values {
			points[i] = store.Point{TS: base.Add(time.Duration(i) * time.Hour), Interest: v}
		}
		if err := st.SaveSeries(id, "", points); err != nil {
			return err
		}
	}
	return nil
}
