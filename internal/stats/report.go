// Package stats contains review statistics calculations and reporting.
package stats

import (
	"context"
	"io"

	"github.com/okrav/glossa/internal/model"
	"github.com/okrav/glossa/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Sessions []model.SessionAggregate
	Words    []model.WordAggregate
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	sessions, err := st.ListReviewSessions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}
	words, err := st.ListWordAggregates(ctx, cfg.Lang)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Sessions: sessions,
		Words:    words,
	}, nil
}

// Render writes the full plain-text report: summary, hardest words, and
// the retention trend.
func (r Report) Render(w io.Writer, curveWindow int) error {
	if err := RenderSummary(w, r.Sessions); err != nil {
		return err
	}
	if err := RenderWordTable(w, r.Words); err != nil {
		return err
	}
	return RenderTrend(w, r.Sessions, curveWindow)
}
