package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/akorhonen/icefish-log/internal/domain"
)

// LogbookService owns the authoritative in-memory session collection and
// is the single path for mutations. The collection is sourced from the
// repository's snapshot feed: mutations go to the repository and the
// local state only changes when the feed confirms them. The filtered view
// and statistics are recomputed in full on every change; collections are
// personal-logbook sized, so a total recompute is cheaper than getting an
// incremental cache wrong.
type LogbookService struct {
	repo   domain.SessionRepository
	logger *zap.Logger

	mu          sync.Mutex
	sessions    []domain.Session
	filtered    []domain.Session
	stats       domain.FishingStats
	criteria    domain.FilterCriteria
	loading     bool
	lastError   string
	onChange    []func()
	unsubscribe func()
}

// NewLogbookService creates the service and subscribes it to the
// repository's snapshot feed. Call Close to cancel the subscription.
func NewLogbookService(repo domain.SessionRepository, logger *zap.Logger) *LogbookService {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &LogbookService{
		repo:   repo,
		logger: logger,
	}
	s.unsubscribe = repo.Subscribe(s.applySnapshot)
	return s
}

// Close cancels the repository subscription
func (s *LogbookService) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

// OnChange registers a callback fired after every observable state
// change. Callbacks run outside the service lock; they may read state but
// must not block for long.
func (s *LogbookService) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = append(s.onChange, fn)
	s.mu.Unlock()
}

// Load replaces the authoritative collection from storage. On failure the
// prior collection is left intact and the error is surfaced through
// LastError.
func (s *LogbookService) Load(ctx context.Context) error {
	s.setLoading(true)

	sessions, err := s.repo.Load(ctx)

	s.mu.Lock()
	s.loading = false
	if err != nil {
		s.lastError = err.Error()
		s.mu.Unlock()
		s.fireChange()
		s.logger.Warn("load failed", zap.Error(err))
		return err
	}
	s.lastError = ""
	s.replaceLocked(sessions)
	s.mu.Unlock()
	s.fireChange()

	s.logger.Info("sessions loaded", zap.Int("count", len(sessions)))
	return nil
}

// Add persists a new session. The local collection is updated by the
// snapshot feed once storage confirms the write, never optimistically.
func (s *LogbookService) Add(ctx context.Context, session domain.Session) error {
	if err := session.Validate(); err != nil {
		s.recordError(err)
		return err
	}

	s.setLoading(true)
	err := s.repo.Save(ctx, session)
	s.finishMutation(err)
	return err
}

// Update stamps UpdatedAt and persists the session. Storage does not
// distinguish create from update by id, so this is an upsert.
func (s *LogbookService) Update(ctx context.Context, session domain.Session) error {
	session.UpdatedAt = time.Now()
	if err := session.Validate(); err != nil {
		s.recordError(err)
		return err
	}

	s.setLoading(true)
	err := s.repo.Save(ctx, session)
	s.finishMutation(err)
	return err
}

// Delete removes a session by id
func (s *LogbookService) Delete(ctx context.Context, id string) error {
	s.setLoading(true)
	err := s.repo.Delete(ctx, id)
	s.finishMutation(err)
	return err
}

// ResetAll removes every session
func (s *LogbookService) ResetAll(ctx context.Context) error {
	s.setLoading(true)
	err := s.repo.DeleteAll(ctx)
	s.finishMutation(err)
	return err
}

// SetFishFilter sets or clears the species criterion
func (s *LogbookService) SetFishFilter(fish *domain.FishSpecies) {
	s.mu.Lock()
	s.criteria.Fish = fish
	s.refilterLocked()
	s.mu.Unlock()
	s.fireChange()
}

// SetResultFilter sets or clears the result criterion
func (s *LogbookService) SetResultFilter(result *domain.SessionResult) {
	s.mu.Lock()
	s.criteria.Result = result
	s.refilterLocked()
	s.mu.Unlock()
	s.fireChange()
}

// SetWaterTypeFilter sets or clears the water type criterion
func (s *LogbookService) SetWaterTypeFilter(waterType *domain.WaterType) {
	s.mu.Lock()
	s.criteria.WaterType = waterType
	s.refilterLocked()
	s.mu.Unlock()
	s.fireChange()
}

// SetSearchText sets the free-text criterion; empty means no criterion
func (s *LogbookService) SetSearchText(text string) {
	s.mu.Lock()
	s.criteria.SearchText = text
	s.refilterLocked()
	s.mu.Unlock()
	s.fireChange()
}

// ClearFilters resets every criterion
func (s *LogbookService) ClearFilters() {
	s.mu.Lock()
	s.criteria = domain.FilterCriteria{}
	s.refilterLocked()
	s.mu.Unlock()
	s.fireChange()
}

// Sessions returns a copy of the authoritative collection
func (s *LogbookService) Sessions() []domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Session(nil), s.sessions...)
}

// Get returns the session with the given id from the authoritative
// collection
func (s *LogbookService) Get(id string) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.sessions {
		if sess.ID == id {
			return sess, nil
		}
	}
	return domain.Session{}, domain.ErrSessionNotFound
}

// FilteredSessions returns a copy of the current filtered view
func (s *LogbookService) FilteredSessions() []domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Session(nil), s.filtered...)
}

// Stats returns the statistics derived from the full collection.
// Filter state never affects them.
func (s *LogbookService) Stats() domain.FishingStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Criteria returns the current filter criteria
func (s *LogbookService) Criteria() domain.FilterCriteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.criteria
}

// IsLoading reports whether a persistence operation is in flight
func (s *LogbookService) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// LastError returns the message of the most recent persistence failure,
// or an empty string
func (s *LogbookService) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// FishFrequency returns per-species catch counts over the full collection
func (s *LogbookService) FishFrequency() []domain.FishCount {
	return domain.FishFrequency(s.Sessions())
}

// SessionsForFish returns sessions that caught the given species
func (s *LogbookService) SessionsForFish(sp domain.FishSpecies) []domain.Session {
	return domain.SessionsForFish(s.Sessions(), sp)
}

// SessionsOn returns the sessions on a calendar day
func (s *LogbookService) SessionsOn(day time.Time) []domain.Session {
	return domain.SessionsOn(s.Sessions(), day)
}

// BestResultOn returns the best result recorded on a calendar day
func (s *LogbookService) BestResultOn(day time.Time) (domain.SessionResult, bool) {
	return domain.BestResultOn(s.Sessions(), day)
}

// applySnapshot is the subscription callback: it replaces the
// authoritative collection and recomputes both derived views.
func (s *LogbookService) applySnapshot(snapshot []domain.Session) {
	s.mu.Lock()
	s.replaceLocked(snapshot)
	s.mu.Unlock()
	s.fireChange()
}

func (s *LogbookService) replaceLocked(sessions []domain.Session) {
	s.sessions = append([]domain.Session(nil), sessions...)
	s.refilterLocked()
	s.stats = domain.ComputeStats(s.sessions)
}

func (s *LogbookService) refilterLocked() {
	s.filtered = s.criteria.Apply(s.sessions)
}

func (s *LogbookService) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
	s.fireChange()
}

// finishMutation clears the loading flag and records the outcome of a
// save or delete. Successful mutations update local state only through
// the snapshot feed, which has already run by the time this executes.
func (s *LogbookService) finishMutation(err error) {
	s.mu.Lock()
	s.loading = false
	if err != nil {
		s.lastError = err.Error()
	}
	s.mu.Unlock()
	s.fireChange()
	if err != nil {
		s.logger.Warn("persistence operation failed", zap.Error(err))
	}
}

func (s *LogbookService) recordError(err error) {
	s.mu.Lock()
	s.lastError = err.Error()
	s.mu.Unlock()
	s.fireChange()
}

func (s *LogbookService) fireChange() {
	s.mu.Lock()
	fns := make([]func(), len(s.onChange))
	copy(fns, s.onChange)
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}
