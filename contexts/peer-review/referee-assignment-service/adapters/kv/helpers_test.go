package kvadapter

import (
	"io"
	"log/slog"
	"time"

	"refdesk/contexts/peer-review/referee-assignment-service/adapters/memory"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

var testNow = time.Date(2026, time.March, 2, 9, 30, 0, 0, time.UTC)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRepositories() (*memory.Store, *PaperRepository, *AssignmentIndex, *ReviewRequestStore) {
	store := memory.NewStore()
	logger := quietLogger()
	return store,
		NewPaperRepository(store, fixedClock{now: testNow}, logger),
		NewAssignmentIndex(store, logger),
		NewReviewRequestStore(store, logger)
}
