package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_IsYesterday(t *testing.T) {
	loc := time.UTC

	now := time.Date(2024, 3, 10, 8, 30, 0, 0, loc)
	require.True(t, IsYesterday(time.Date(2024, 3, 9, 23, 59, 0, 0, loc), now, loc))
	require.False(t, IsYesterday(time.Date(2024, 3, 8, 23, 59, 0, 0, loc), now, loc))
	require.False(t, IsYesterday(now, now, loc))
}

func Test_IsYesterday_acrossDSTBoundary(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 2024-03-10 is the US spring-forward day (23 wall-clock hours).
	last := time.Date(2024, 3, 9, 22, 0, 0, 0, loc)
	now := time.Date(2024, 3, 10, 21, 30, 0, 0, loc)
	require.True(t, IsYesterday(last, now, loc))
	require.False(t, SameDay(last, now, loc))
}

func Test_SameDay(t *testing.T) {
	loc := time.UTC
	a := time.Date(2024, 5, 1, 0, 0, 1, 0, loc)
	b := time.Date(2024, 5, 1, 23, 59, 59, 0, loc)
	require.True(t, SameDay(a, b, loc))
	require.False(t, SameDay(a, b.Add(time.Second), loc))
}
