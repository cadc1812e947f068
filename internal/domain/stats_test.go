package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testSession(date time.Time, location string, result SessionResult, fish ...FishSpecies) Session {
	s := NewSession(location)
	s.Date = date
	s.OverallResult = result
	s.FishCaught = fish
	return s
}

func TestComputeStatsExample(t *testing.T) {
	sessions := []Session{
		testSession(day(2024, 1, 5), "Clearwater Lake", ResultGood, FishPerch, FishPerch, FishPike),
		testSession(day(2024, 1, 10), "Clearwater Lake", ResultPoor),
	}

	stats := ComputeStats(sessions)

	assert.Equal(t, 2, stats.TotalSessions)
	assert.Equal(t, 1, stats.GoodSessions)
	assert.Equal(t, 0, stats.NormalSessions)
	assert.Equal(t, 1, stats.PoorSessions)

	require.NotNil(t, stats.MostCommonFish)
	assert.Equal(t, FishPerch, *stats.MostCommonFish)

	require.NotNil(t, stats.BestDay)
	assert.True(t, stats.BestDay.Equal(day(2024, 1, 5)))
}

func TestComputeStatsEmptyCollection(t *testing.T) {
	stats := ComputeStats(nil)

	assert.Equal(t, 0, stats.TotalSessions)
	assert.Equal(t, 0, stats.GoodSessions)
	assert.Equal(t, 0, stats.NormalSessions)
	assert.Equal(t, 0, stats.PoorSessions)
	assert.Nil(t, stats.MostCommonFish)
	assert.Nil(t, stats.BestIceCondition)
	assert.Nil(t, stats.BestDay)
}

func TestComputeStatsResultCountsSum(t *testing.T) {
	sessions := []Session{
		testSession(day(2024, 1, 1), "A", ResultGood),
		testSession(day(2024, 1, 2), "B", ResultNormal),
		testSession(day(2024, 1, 3), "C", ResultNormal),
		testSession(day(2024, 1, 4), "D", ResultPoor),
	}

	stats := ComputeStats(sessions)

	assert.Equal(t, len(sessions), stats.TotalSessions)
	assert.Equal(t, stats.TotalSessions, stats.GoodSessions+stats.NormalSessions+stats.PoorSessions)
}

func TestComputeStatsFishTieBreak(t *testing.T) {
	// Perch and Pike both end at two catches; Pike reaches two first, so
	// Pike wins.
	sessions := []Session{
		testSession(day(2024, 1, 1), "A", ResultNormal, FishPerch, FishPike, FishPike),
		testSession(day(2024, 1, 2), "B", ResultNormal, FishPerch),
	}

	stats := ComputeStats(sessions)

	require.NotNil(t, stats.MostCommonFish)
	assert.Equal(t, FishPike, *stats.MostCommonFish)
}

func TestComputeStatsBestIceCondition(t *testing.T) {
	thin := testSession(day(2024, 1, 1), "A", ResultGood)
	thin.IceCondition = IceThin
	thick1 := testSession(day(2024, 1, 2), "B", ResultGood)
	thick1.IceCondition = IceThick
	thick2 := testSession(day(2024, 1, 3), "C", ResultGood)
	thick2.IceCondition = IceThick
	// Poor sessions never contribute, whatever their ice.
	poorThin := testSession(day(2024, 1, 4), "D", ResultPoor)
	poorThin.IceCondition = IceThin

	stats := ComputeStats([]Session{thin, thick1, thick2, poorThin})

	require.NotNil(t, stats.BestIceCondition)
	assert.Equal(t, IceThick, *stats.BestIceCondition)
}

func TestComputeStatsBestIceAbsentWithoutGoodSessions(t *testing.T) {
	sessions := []Session{
		testSession(day(2024, 1, 1), "A", ResultNormal),
		testSession(day(2024, 1, 2), "B", ResultPoor),
	}

	stats := ComputeStats(sessions)

	assert.Nil(t, stats.BestIceCondition)
	assert.Nil(t, stats.BestDay)
}

func TestComputeStatsBestDayUsesTripDate(t *testing.T) {
	early := testSession(day(2024, 1, 5), "A", ResultGood)
	late := testSession(day(2024, 2, 1), "B", ResultGood)
	// CreatedAt newer than both trip dates must not matter.
	early.CreatedAt = day(2024, 3, 1)

	stats := ComputeStats([]Session{early, late})

	require.NotNil(t, stats.BestDay)
	assert.True(t, stats.BestDay.Equal(day(2024, 2, 1)))
}

func TestFishFrequency(t *testing.T) {
	sessions := []Session{
		testSession(day(2024, 1, 1), "A", ResultNormal, FishPerch, FishPike),
		testSession(day(2024, 1, 2), "B", ResultNormal, FishPerch, FishTrout),
	}

	freq := FishFrequency(sessions)

	require.Len(t, freq, 3)
	assert.Equal(t, FishCount{Species: FishPerch, Count: 2}, freq[0])
	// Equal counts keep first-seen order.
	assert.Equal(t, FishCount{Species: FishPike, Count: 1}, freq[1])
	assert.Equal(t, FishCount{Species: FishTrout, Count: 1}, freq[2])
}

func TestSessionsForFish(t *testing.T) {
	withPike := testSession(day(2024, 1, 1), "A", ResultNormal, FishPike)
	without := testSession(day(2024, 1, 2), "B", ResultNormal, FishPerch)

	got := SessionsForFish([]Session{withPike, without}, FishPike)

	require.Len(t, got, 1)
	assert.Equal(t, withPike.ID, got[0].ID)
}

func TestCalendarHelpers(t *testing.T) {
	d := day(2024, 1, 5)
	morning := testSession(d.Add(8*time.Hour), "A", ResultPoor)
	evening := testSession(d.Add(18*time.Hour), "B", ResultNormal)
	other := testSession(day(2024, 1, 6), "C", ResultGood)
	sessions := []Session{morning, evening, other}

	assert.Len(t, SessionsOn(sessions, d), 2)
	assert.True(t, HasSessionOn(sessions, d))
	assert.False(t, HasSessionOn(sessions, day(2024, 1, 7)))

	best, ok := BestResultOn(sessions, d)
	require.True(t, ok)
	assert.Equal(t, ResultNormal, best)

	best, ok = BestResultOn(sessions, day(2024, 1, 6))
	require.True(t, ok)
	assert.Equal(t, ResultGood, best)

	_, ok = BestResultOn(sessions, day(2024, 1, 7))
	assert.False(t, ok)
}
