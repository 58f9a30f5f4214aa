package participation_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matchday-app/matchday-api/internal/model"
	"github.com/matchday-app/matchday-api/internal/participation"
)

func roster(size int, confirmed int) []model.MatchParticipant {
	out := make([]model.MatchParticipant, 0, size)
	for i := 0; i < size; i++ {
		out = append(out, model.MatchParticipant{
			ID:        int64(i + 1),
			MatchID:   1,
			UserID:    fmt.Sprintf("user-%d", i),
			Team:      model.TeamPurple,
			Status:    model.ParticipantAccepted,
			Confirmed: i < confirmed,
		})
	}
	return out
}

func TestCanStart(t *testing.T) {
	cap := participation.DefaultCapacity()

	tests := []struct {
		name string
		in   []model.MatchParticipant
		want bool
	}{
		{"empty roster", nil, false},
		{"partial roster all confirmed", roster(6, 6), false},
		{"full roster none confirmed", roster(10, 0), false},
		{"full roster one unconfirmed", roster(10, 9), false},
		{"full roster all confirmed", roster(10, 10), true},
		{"oversized roster", roster(11, 11), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, participation.CanStart(tt.in, cap))
		})
	}
}

func TestCanStartRespectsCapacityPolicy(t *testing.T) {
	cap := participation.Capacity{MaxPlayers: 4, TeamSize: 2}
	require.True(t, participation.CanStart(roster(4, 4), cap))
	require.False(t, participation.CanStart(roster(10, 10), cap))
}
