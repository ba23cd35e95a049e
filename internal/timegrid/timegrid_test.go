package timegrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartsCoverGrid(t *testing.T) {
	starts := Starts()
	require.Len(t, starts, 99)
	assert.Equal(t, 480, starts[0])
	assert.Equal(t, 970, starts[len(starts)-1])
	for i := 1; i < len(starts); i++ {
		assert.Equal(t, StepMinutes, starts[i]-starts[i-1])
	}
}

func TestOverlapsSymmetric(t *testing.T) {
	cases := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd int
		want                       bool
	}{
		{"nested", 540, 640, 560, 590, true},
		{"partial", 540, 640, 600, 700, true},
		{"identical", 540, 640, 540, 640, true},
		{"touching", 540, 640, 640, 700, false},
		{"disjoint", 480, 530, 600, 650, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd))
			assert.Equal(t, tc.want, Overlaps(tc.bStart, tc.bEnd, tc.aStart, tc.aEnd))
		})
	}
}

func TestMergeCoalescesTouchingIntervals(t *testing.T) {
	merged := Merge([]Interval{{600, 650}, {480, 530}, {530, 560}, {640, 700}})
	require.Equal(t, []Interval{{480, 560}, {600, 700}}, merged)
}

func TestMergeKeepsDisjointIntervals(t *testing.T) {
	merged := Merge([]Interval{{480, 530}, {535, 560}})
	require.Equal(t, []Interval{{480, 530}, {535, 560}}, merged)
}

func TestMergeEmpty(t *testing.T) {
	assert.Nil(t, Merge(nil))
}

func TestParseClock(t *testing.T) {
	mins, err := ParseClock("09:05")
	require.NoError(t, err)
	assert.Equal(t, 545, mins)

	mins, err = ParseClock("23:59")
	require.NoError(t, err)
	assert.Equal(t, 1439, mins)

	for _, raw := range []string{"9:05", "24:00", "12:60", "1200", "", "ab:cd"} {
		_, err := ParseClock(raw)
		assert.Error(t, err, raw)
	}
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "08:00", FormatMinutes(480))
	assert.Equal(t, "16:10", FormatMinutes(970))
	assert.Equal(t, "08:00", FormatStartSpan(480, 480))
	assert.Equal(t, "08:00–08:35 (every 5 min)", FormatStartSpan(480, 515))
}

func TestFreeStartsAvoidBusyIntervals(t *testing.T) {
	busy := []Interval{{480, 580}}
	free := FreeStarts(busy)
	require.NotEmpty(t, free)
	assert.Equal(t, 580, free[0])
	for _, start := range free {
		assert.False(t, Overlaps(start, start+BlockMinutes, 480, 580))
	}
}

func TestFreeStartsOpenDay(t *testing.T) {
	assert.Equal(t, Starts(), FreeStarts(nil))
}
