// Package export implements the flat CSV serialization of the logbook.
//
// The format is intentionally not RFC 4180: fields are never quoted.
// Instead, commas inside free-text fields are replaced with semicolons
// and newlines with spaces, so the output stays parseable by a naive
// comma split. Existing exports use this format, so it is kept as-is.
package export

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/akorhonen/icefish-log/internal/domain"
)

// Header is the fixed CSV column row
const Header = "Date,Location,Water Type,Ice Condition,Weather,Fish Caught,Result,Notes"

// dateLayout is a short day/month/year date with no time component
const dateLayout = "2/1/2006"

const listSeparator = "; "

// ToCSV renders the collection as CSV, one row per session sorted by
// ascending trip date.
func ToCSV(sessions []domain.Session) string {
	sorted := append([]domain.Session(nil), sessions...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	var b strings.Builder
	b.WriteString(Header)
	b.WriteByte('\n')

	for _, s := range sorted {
		weather := make([]string, len(s.Weather))
		for i, w := range s.Weather {
			weather[i] = string(w)
		}
		fish := make([]string, len(s.FishCaught))
		for i, f := range s.FishCaught {
			fish[i] = string(f)
		}

		fmt.Fprintf(&b, "%s,%s,%s,%s,%s,%s,%s,%s\n",
			s.Date.Format(dateLayout),
			sanitize(s.Location),
			s.WaterType,
			s.IceCondition,
			strings.Join(weather, listSeparator),
			strings.Join(fish, listSeparator),
			s.OverallResult,
			sanitize(s.Notes),
		)
	}

	return b.String()
}

// FromCSV parses rows positionally in the export column order. The header
// row is skipped if present. Rows that fail to produce a date or location
// are dropped; enum values decode leniently. Imported sessions get fresh
// ids and creation stamps, since the CSV carries neither.
func FromCSV(r io.Reader) ([]domain.Session, error) {
	sessions := make([]domain.Session, 0)

	scanner := bufio.NewScanner(r)
	first := true
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if first {
			first = false
			if line == Header {
				continue
			}
		}
		if line == "" {
			continue
		}

		session, ok := parseRow(line)
		if !ok {
			continue
		}
		sessions = append(sessions, session)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}

	return sessions, nil
}

func parseRow(line string) (domain.Session, bool) {
	cols := strings.SplitN(line, ",", 8)
	if len(cols) < 8 {
		return domain.Session{}, false
	}

	date, err := time.Parse(dateLayout, cols[0])
	if err != nil {
		return domain.Session{}, false
	}
	if cols[1] == "" {
		return domain.Session{}, false
	}

	session := domain.NewSession(cols[1])
	session.Date = date
	session.WaterType = domain.ParseWaterType(cols[2])
	session.IceCondition = domain.ParseIceCondition(cols[3])
	session.Weather = domain.ParseWeatherList(splitList(cols[4]))
	session.FishCaught = domain.ParseFishList(splitList(cols[5]))
	session.OverallResult = domain.ParseSessionResult(cols[6])
	session.Notes = cols[7]
	return session, true
}

func splitList(field string) []string {
	if field == "" {
		return nil
	}
	parts := strings.Split(field, ";")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

func sanitize(field string) string {
	field = strings.ReplaceAll(field, ",", ";")
	field = strings.ReplaceAll(field, "\n", " ")
	return field
}
