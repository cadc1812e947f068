package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Sentinel errors surfaced through the service layer.
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidSession  = errors.New("invalid session: location is required")
)

// WaterType represents the kind of water body a session took place on
type WaterType string

const (
	WaterLake      WaterType = "Lake"
	WaterRiver     WaterType = "River"
	WaterReservoir WaterType = "Reservoir"
)

// ParseWaterType decodes a raw value, falling back to Lake for anything
// unknown so one bad record never poisons a whole load.
func ParseWaterType(raw string) WaterType {
	switch WaterType(raw) {
	case WaterLake, WaterRiver, WaterReservoir:
		return WaterType(raw)
	}
	return WaterLake
}

// IceCondition represents the ice thickness observed during a session
type IceCondition string

const (
	IceThin   IceCondition = "Thin"
	IceNormal IceCondition = "Normal"
	IceThick  IceCondition = "Thick"
)

// ParseIceCondition decodes a raw value, falling back to Normal.
func ParseIceCondition(raw string) IceCondition {
	switch IceCondition(raw) {
	case IceThin, IceNormal, IceThick:
		return IceCondition(raw)
	}
	return IceNormal
}

// WeatherCondition represents one observed weather trait
type WeatherCondition string

const (
	WeatherCold  WeatherCondition = "Cold"
	WeatherWindy WeatherCondition = "Windy"
	WeatherSnow  WeatherCondition = "Snow"
	WeatherClear WeatherCondition = "Clear"
)

// ParseWeatherList decodes raw values, dropping unknown members.
func ParseWeatherList(raw []string) []WeatherCondition {
	out := make([]WeatherCondition, 0, len(raw))
	for _, r := range raw {
		switch WeatherCondition(r) {
		case WeatherCold, WeatherWindy, WeatherSnow, WeatherClear:
			out = append(out, WeatherCondition(r))
		}
	}
	return out
}

// FishSpecies represents a catchable species
type FishSpecies string

const (
	FishPerch    FishSpecies = "Perch"
	FishPike     FishSpecies = "Pike"
	FishWalleye  FishSpecies = "Walleye"
	FishTrout    FishSpecies = "Trout"
	FishBass     FishSpecies = "Bass"
	FishCrappie  FishSpecies = "Crappie"
	FishBluegill FishSpecies = "Bluegill"
	FishOther    FishSpecies = "Other"
)

// ParseFishSpecies decodes a raw value. The second return reports whether
// the value named a known species.
func ParseFishSpecies(raw string) (FishSpecies, bool) {
	switch FishSpecies(raw) {
	case FishPerch, FishPike, FishWalleye, FishTrout,
		FishBass, FishCrappie, FishBluegill, FishOther:
		return FishSpecies(raw), true
	}
	return "", false
}

// ParseFishList decodes raw values, dropping unknown members.
func ParseFishList(raw []string) []FishSpecies {
	out := make([]FishSpecies, 0, len(raw))
	for _, r := range raw {
		if sp, ok := ParseFishSpecies(r); ok {
			out = append(out, sp)
		}
	}
	return out
}

// SessionResult represents the overall outcome of a session
type SessionResult string

const (
	ResultPoor   SessionResult = "Poor"
	ResultNormal SessionResult = "Normal"
	ResultGood   SessionResult = "Good"
)

// ParseSessionResult decodes a raw value, falling back to Normal.
func ParseSessionResult(raw string) SessionResult {
	switch SessionResult(raw) {
	case ResultPoor, ResultNormal, ResultGood:
		return SessionResult(raw)
	}
	return ResultNormal
}

// Session represents one logged ice-fishing trip
type Session struct {
	ID            string             `json:"id"`
	Date          time.Time          `json:"date"`
	Location      string             `json:"location"`
	WaterType     WaterType          `json:"waterType"`
	IceCondition  IceCondition       `json:"iceCondition"`
	Weather       []WeatherCondition `json:"weather"`
	FishCaught    []FishSpecies      `json:"fishCaught"`
	OverallResult SessionResult      `json:"overallResult"`
	Notes         string             `json:"notes"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

// NewSession creates a session with a fresh id and default field values.
func NewSession(location string) Session {
	now := time.Now()
	return Session{
		ID:            uuid.New().String(),
		Date:          now,
		Location:      location,
		WaterType:     WaterLake,
		IceCondition:  IceNormal,
		Weather:       []WeatherCondition{},
		FishCaught:    []FishSpecies{},
		OverallResult: ResultNormal,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Validate reports whether the session is acceptable to the store.
// Construction boundaries are expected to enforce this already; the check
// here guards against inconsistent collaborators.
func (s Session) Validate() error {
	if s.ID == "" || s.Location == "" {
		return ErrInvalidSession
	}
	if !s.UpdatedAt.IsZero() && !s.CreatedAt.IsZero() && s.UpdatedAt.Before(s.CreatedAt) {
		return ErrInvalidSession
	}
	return nil
}

// CaughtFish reports whether the session recorded at least one catch of
// the given species.
func (s Session) CaughtFish(sp FishSpecies) bool {
	for _, f := range s.FishCaught {
		if f == sp {
			return true
		}
	}
	return false
}
