package participation_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/matchday-app/matchday-api/internal/participation"
)

func TestEnsureMatchForScheduleIsIdempotent(t *testing.T) {
	store := newMemStore()
	store.addSchedule(7, "2026-09-12")
	svc := newLedger(store)
	ctx := context.Background()

	first, err := svc.EnsureMatchForSchedule(ctx, 7, "organizer")
	require.NoError(t, err)
	require.Equal(t, int64(7), first.ScheduleID)

	second, err := svc.EnsureMatchForSchedule(ctx, 7, "someone-else")
	require.NoError(t, err)
	require.Equal(t, first.MatchID, second.MatchID, "both callers must observe the same match")

	m := store.match(first.MatchID)
	require.Equal(t, "organizer", m.CreatorID, "creator is set only on first creation")
	require.Equal(t, 10, m.MaxPlayers)
	require.Equal(t, time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC), m.MatchDate)
}

func TestEnsureMatchForScheduleConcurrent(t *testing.T) {
	store := newMemStore()
	store.addSchedule(7, "2026-09-12")
	svc := newLedger(store)

	const callers = 20
	refs := make([]participation.MatchRef, callers)
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			refs[i], errs[i] = svc.EnsureMatchForSchedule(context.Background(), 7, "organizer")
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		require.Equal(t, refs[0].MatchID, refs[i].MatchID, "every caller must observe the one match bound to the slot")
	}
}

func TestEnsureMatchForScheduleUnknownSlot(t *testing.T) {
	store := newMemStore()
	svc := newLedger(store)

	_, err := svc.EnsureMatchForSchedule(context.Background(), 99, "organizer")
	require.ErrorIs(t, err, participation.ErrNotFound)
}

func TestEnsureMatchForScheduleMalformedDay(t *testing.T) {
	store := newMemStore()
	svc := newLedger(store)

	for _, day := range []string{"saturday", "12-09-2026", "2026-13-40", ""} {
		store.addSchedule(5, day)
		_, err := svc.EnsureMatchForSchedule(context.Background(), 5, "organizer")
		require.ErrorIs(t, err, participation.ErrInvalidSchedule, "day %q must be rejected", day)
	}
}

func TestEnsureMatchForScheduleRefreshesSlotFields(t *testing.T) {
	store := newMemStore()
	store.addSchedule(7, "2026-09-12")
	svc := newLedger(store)
	ctx := context.Background()

	ref, err := svc.EnsureMatchForSchedule(ctx, 7, "organizer")
	require.NoError(t, err)

	// the field manager moves the slot to another day
	store.addSchedule(7, "2026-09-19")

	again, err := svc.EnsureMatchForSchedule(ctx, 7, "someone-else")
	require.NoError(t, err)
	require.Equal(t, ref.MatchID, again.MatchID)

	m := store.match(ref.MatchID)
	require.Equal(t, time.Date(2026, 9, 19, 0, 0, 0, 0, time.UTC), m.MatchDate, "denormalized slot fields are refreshed")
	require.Equal(t, "organizer", m.CreatorID, "participation-related fields stay untouched")
}
