package domain

import (
	"sort"
	"time"
)

// FishingStats represents aggregate values derived from the full session
// collection. It is recomputed on every change and never persisted.
// Optional fields are nil when no session supports them.
type FishingStats struct {
	TotalSessions    int           `json:"totalSessions"`
	MostCommonFish   *FishSpecies  `json:"mostCommonFish,omitempty"`
	BestIceCondition *IceCondition `json:"bestIceCondition,omitempty"`
	BestDay          *time.Time    `json:"bestDay,omitempty"`
	GoodSessions     int           `json:"goodSessions"`
	NormalSessions   int           `json:"normalSessions"`
	PoorSessions     int           `json:"poorSessions"`
}

// FishCount represents how often one species appears across all sessions
type FishCount struct {
	Species FishSpecies `json:"species"`
	Count   int         `json:"count"`
}

// ComputeStats derives FishingStats from the collection. An empty
// collection yields the zero result rather than an error.
//
// Tie-break rule for MostCommonFish and BestIceCondition: counts are
// accumulated in collection iteration order and the winner is the first
// value to reach the maximum count (strict > comparison), which makes the
// result deterministic for a given collection order.
func ComputeStats(sessions []Session) FishingStats {
	stats := FishingStats{TotalSessions: len(sessions)}

	fishCounts := make(map[FishSpecies]int)
	best := 0
	for _, s := range sessions {
		for _, f := range s.FishCaught {
			fishCounts[f]++
			if fishCounts[f] > best {
				best = fishCounts[f]
				sp := f
				stats.MostCommonFish = &sp
			}
		}
	}

	iceCounts := make(map[IceCondition]int)
	best = 0
	for _, s := range sessions {
		if s.OverallResult != ResultGood {
			continue
		}
		iceCounts[s.IceCondition]++
		if iceCounts[s.IceCondition] > best {
			best = iceCounts[s.IceCondition]
			ic := s.IceCondition
			stats.BestIceCondition = &ic
		}
	}

	// Best day: the Good session with the latest trip date.
	for _, s := range sessions {
		if s.OverallResult != ResultGood {
			continue
		}
		if stats.BestDay == nil || s.Date.After(*stats.BestDay) {
			d := s.Date
			stats.BestDay = &d
		}
	}

	for _, s := range sessions {
		switch s.OverallResult {
		case ResultGood:
			stats.GoodSessions++
		case ResultNormal:
			stats.NormalSessions++
		case ResultPoor:
			stats.PoorSessions++
		}
	}

	return stats
}

// FishFrequency returns per-species catch counts sorted by count
// descending; equal counts keep first-seen order.
func FishFrequency(sessions []Session) []FishCount {
	counts := make(map[FishSpecies]int)
	var order []FishSpecies
	for _, s := range sessions {
		for _, f := range s.FishCaught {
			if counts[f] == 0 {
				order = append(order, f)
			}
			counts[f]++
		}
	}

	out := make([]FishCount, 0, len(order))
	for _, sp := range order {
		out = append(out, FishCount{Species: sp, Count: counts[sp]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// SessionsForFish returns the sessions that recorded a catch of the
// given species, preserving input order.
func SessionsForFish(sessions []Session, sp FishSpecies) []Session {
	out := make([]Session, 0)
	for _, s := range sessions {
		if s.CaughtFish(sp) {
			out = append(out, s)
		}
	}
	return out
}

// SessionsOn returns the sessions whose trip date falls on the same
// calendar day as the given time, in the day's local zone.
func SessionsOn(sessions []Session, day time.Time) []Session {
	out := make([]Session, 0)
	for _, s := range sessions {
		if sameDay(s.Date, day) {
			out = append(out, s)
		}
	}
	return out
}

// HasSessionOn reports whether any session took place on the given day.
func HasSessionOn(sessions []Session, day time.Time) bool {
	for _, s := range sessions {
		if sameDay(s.Date, day) {
			return true
		}
	}
	return false
}

// BestResultOn returns the best result recorded on the given day
// (Good beats Normal beats Poor). The second return is false when no
// session took place that day.
func BestResultOn(sessions []Session, day time.Time) (SessionResult, bool) {
	found := false
	result := ResultPoor
	for _, s := range sessions {
		if !sameDay(s.Date, day) {
			continue
		}
		found = true
		switch s.OverallResult {
		case ResultGood:
			return ResultGood, true
		case ResultNormal:
			result = ResultNormal
		}
	}
	return result, found
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.In(b.Location()).Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
