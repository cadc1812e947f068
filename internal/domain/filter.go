package domain

import "strings"

// FilterCriteria describes which sessions should pass the filtered view.
// Nil pointer fields and an empty search string mean "no criterion"; all
// active criteria must hold for a session to pass.
type FilterCriteria struct {
	Fish       *FishSpecies
	Result     *SessionResult
	WaterType  *WaterType
	SearchText string
}

// IsZero reports whether no criterion is active.
func (c FilterCriteria) IsZero() bool {
	return c.Fish == nil && c.Result == nil && c.WaterType == nil && c.SearchText == ""
}

// Matches reports whether the session satisfies every active criterion.
func (c FilterCriteria) Matches(s Session) bool {
	if c.Fish != nil && !s.CaughtFish(*c.Fish) {
		return false
	}
	if c.Result != nil && s.OverallResult != *c.Result {
		return false
	}
	if c.WaterType != nil && s.WaterType != *c.WaterType {
		return false
	}
	if c.SearchText != "" {
		q := strings.ToLower(c.SearchText)
		if !strings.Contains(strings.ToLower(s.Location), q) &&
			!strings.Contains(strings.ToLower(s.Notes), q) {
			return false
		}
	}
	return true
}

// Apply filters the collection, preserving input order. With no active
// criteria the input is passed through as-is.
func (c FilterCriteria) Apply(sessions []Session) []Session {
	if c.IsZero() {
		return sessions
	}
	out := make([]Session, 0, len(sessions))
	for _, s := range sessions {
		if c.Matches(s) {
			out = append(out, s)
		}
	}
	return out
}
