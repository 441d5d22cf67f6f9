package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"portfolio_backend/internal/feature/holdings/domain"
)

// RefreshReport summarizes one refresh cycle.
type RefreshReport struct {
	Loaded      int
	Resolved    int
	Failed      int
	Written     int
	WriteFailed int
	Cooldowns   int
	Duration    time.Duration
}

// RefreshUsecase loads every holding, fetches fresh quotes and writes the
// resolved prices back to storage.
type RefreshUsecase struct {
	repo    HoldingRepository
	fetcher *BatchFetcher
	now     func() time.Time
}

// NewRefreshUsecase creates a RefreshUsecase.
func NewRefreshUsecase(repo HoldingRepository, fetcher *BatchFetcher) *RefreshUsecase {
	return &RefreshUsecase{repo: repo, fetcher: fetcher, now: time.Now}
}

// RefreshAll runs one refresh cycle.
//
// A load failure aborts the cycle before any quote is fetched and is returned
// wrapped in domain.ErrStorage. Write failures are logged per holding and never
// stop the remaining writes; they are only counted in the report.
//
// Only prices resolved in this cycle are written. Stale prices read from
// storage are left alone so an old value cannot overwrite a newer one written
// by a concurrent cycle.
func (u *RefreshUsecase) RefreshAll(ctx context.Context) (RefreshReport, error) {
	start := u.now()
	var rep RefreshReport

	hs, err := u.repo.List(ctx)
	if err != nil {
		slog.Error("refresh aborted: failed to load holdings", "error", err)
		return rep, fmt.Errorf("%w: list holdings: %w", domain.ErrStorage, err)
	}
	rep.Loaded = len(hs)

	res := u.fetcher.FetchBatch(ctx, hs)
	rep.Cooldowns = res.Cooldowns
	rep.Resolved = res.Resolved()
	rep.Failed = res.Failed()

	for i, q := range res.Results {
		if !q.OK() {
			continue
		}
		h := res.Holdings[i]
		if err := u.repo.SetCurrentPrice(ctx, h.ID, *q.Price); err != nil {
			rep.WriteFailed++
			slog.Error("failed to update holding price",
				"holding_id", h.ID, "ticker", h.Ticker, "price", *q.Price, "error", err)
			continue
		}
		rep.Written++
	}

	rep.Duration = u.now().Sub(start)
	slog.Info("refresh finished",
		"loaded", rep.Loaded, "resolved", rep.Resolved, "failed", rep.Failed,
		"written", rep.Written, "write_failed", rep.WriteFailed,
		"cooldowns", rep.Cooldowns, "duration", rep.Duration)
	return rep, nil
}

// Run adapts RefreshAll to the scheduler's job signature.
func (u *RefreshUsecase) Run(ctx context.Context) error {
	_, err := u.RefreshAll(ctx)
	return err
}
