package export

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akorhonen/icefish-log/internal/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sample(date time.Time, location string) domain.Session {
	s := domain.NewSession(location)
	s.Date = date
	return s
}

func TestToCSVFormat(t *testing.T) {
	s := sample(day(2024, 1, 5), "Clearwater Lake")
	s.WaterType = domain.WaterRiver
	s.IceCondition = domain.IceThick
	s.Weather = []domain.WeatherCondition{domain.WeatherCold, domain.WeatherSnow}
	s.FishCaught = []domain.FishSpecies{domain.FishPerch, domain.FishPerch, domain.FishPike}
	s.OverallResult = domain.ResultGood
	s.Notes = "great morning"

	got := ToCSV([]domain.Session{s})

	want := Header + "\n" +
		"5/1/2024,Clearwater Lake,River,Thick,Cold; Snow,Perch; Perch; Pike,Good,great morning\n"
	assert.Equal(t, want, got)
}

func TestToCSVSortsByAscendingDate(t *testing.T) {
	late := sample(day(2024, 2, 1), "Late")
	early := sample(day(2024, 1, 1), "Early")

	got := ToCSV([]domain.Session{late, early})

	lines := strings.Split(strings.TrimSpace(got), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "1/1/2024,Early"))
	assert.True(t, strings.HasPrefix(lines[2], "1/2/2024,Late"))
}

func TestToCSVSubstitutesDelimiters(t *testing.T) {
	s := sample(day(2024, 1, 5), "North Bay, Pier 3")
	s.Notes = "cold,\nwindy"

	got := ToCSV([]domain.Session{s})

	lines := strings.Split(strings.TrimSpace(got), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "5/1/2024,North Bay; Pier 3,Lake,Normal,,,Normal,cold; windy", lines[1])
	// Each data row keeps exactly seven separators for naive consumers.
	assert.Equal(t, 7, strings.Count(lines[1], ","))
}

func TestCSVRoundTrip(t *testing.T) {
	s := sample(day(2024, 1, 5), "Clearwater Lake")
	s.Weather = []domain.WeatherCondition{domain.WeatherWindy}
	s.FishCaught = []domain.FishSpecies{domain.FishTrout, domain.FishOther}
	s.OverallResult = domain.ResultPoor
	s.Notes = "slow afternoon"

	imported, err := FromCSV(strings.NewReader(ToCSV([]domain.Session{s})))
	require.NoError(t, err)
	require.Len(t, imported, 1)

	got := imported[0]
	assert.NotEqual(t, s.ID, got.ID, "import assigns fresh ids")
	assert.True(t, got.Date.Equal(s.Date), "date-only precision survives")
	assert.Equal(t, s.Location, got.Location)
	assert.Equal(t, s.WaterType, got.WaterType)
	assert.Equal(t, s.IceCondition, got.IceCondition)
	assert.Equal(t, s.Weather, got.Weather)
	assert.Equal(t, s.FishCaught, got.FishCaught)
	assert.Equal(t, s.OverallResult, got.OverallResult)
	assert.Equal(t, s.Notes, got.Notes)
}

func TestFromCSVSkipsMalformedRows(t *testing.T) {
	input := Header + "\n" +
		"5/1/2024,Clearwater Lake,Lake,Normal,,,Good,\n" +
		"not-a-date,Somewhere,Lake,Normal,,,Good,\n" +
		"6/1/2024,,Lake,Normal,,,Good,\n" +
		"truncated,row\n" +
		"7/1/2024,Deep Hole,Atlantis,Slushy,Cold; Meteor,Perch; Kraken,Epic,\n"

	imported, err := FromCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, imported, 2)

	assert.Equal(t, "Clearwater Lake", imported[0].Location)

	// The last row survives with lenient enum decoding.
	lenient := imported[1]
	assert.Equal(t, domain.WaterLake, lenient.WaterType)
	assert.Equal(t, domain.IceNormal, lenient.IceCondition)
	assert.Equal(t, []domain.WeatherCondition{domain.WeatherCold}, lenient.Weather)
	assert.Equal(t, []domain.FishSpecies{domain.FishPerch}, lenient.FishCaught)
	assert.Equal(t, domain.ResultNormal, lenient.OverallResult)
}

func TestFromCSVWithoutHeader(t *testing.T) {
	imported, err := FromCSV(strings.NewReader("5/1/2024,Spot,Lake,Normal,,,Normal,\n"))
	require.NoError(t, err)
	assert.Len(t, imported, 1)
}
