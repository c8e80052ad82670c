// Package fakes содержит in-memory реализации зависимостей usecase для тестов.
package fakes

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	expertRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/expert"
	sessionRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/session"
	"github.com/m04kA/SMC-ConsultationService/internal/integrations/notifier"
)

// Sessions хранилище сессий в памяти
type Sessions struct {
	mu        sync.Mutex
	Items     map[int64]*domain.Session
	Updates   int
	UpdateErr error
	GetErr    error
}

// NewSessions создает хранилище с сессиями
func NewSessions(sessions ...*domain.Session) *Sessions {
	f := &Sessions{Items: make(map[int64]*domain.Session)}
	for _, s := range sessions {
		f.Items[s.ID] = s
	}
	return f
}

func (f *Sessions) GetByID(_ context.Context, id int64) (*domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	s, ok := f.Items[id]
	if !ok {
		return nil, sessionRepo.ErrSessionNotFound
	}
	c := *s
	return &c, nil
}

func (f *Sessions) Update(_ context.Context, s *domain.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.UpdateErr != nil {
		return f.UpdateErr
	}
	if _, ok := f.Items[s.ID]; !ok {
		return sessionRepo.ErrSessionNotFound
	}
	c := *s
	f.Items[s.ID] = &c
	f.Updates++
	return nil
}

func (f *Sessions) List(_ context.Context, filter domain.SessionsFilter) ([]*domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]*domain.Session, 0)
	for _, s := range f.sorted() {
		if filter.ClientID != nil && s.ClientID != *filter.ClientID {
			continue
		}
		if filter.ExpertID != nil && s.ExpertID != *filter.ExpertID {
			continue
		}
		if filter.Status != nil && s.Status != *filter.Status {
			continue
		}
		result = append(result, s)
	}
	return result, nil
}

func (f *Sessions) ListDueForCompletion(_ context.Context, now time.Time, limit int) ([]*domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]*domain.Session, 0)
	for _, s := range f.sorted() {
		if s.Status == domain.StatusConfirmed && !s.EndsAt.After(now) && len(result) < limit {
			result = append(result, s)
		}
	}
	return result, nil
}

func (f *Sessions) ListDueForReminder(_ context.Context, now, until time.Time, limit int) ([]*domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]*domain.Session, 0)
	for _, s := range f.sorted() {
		if s.Status != domain.StatusConfirmed || s.ReminderSentAt != nil {
			continue
		}
		if s.StartsAt.After(now) && !s.StartsAt.After(until) && len(result) < limit {
			result = append(result, s)
		}
	}
	return result, nil
}

func (f *Sessions) ListStalePending(_ context.Context, createdBefore, now time.Time, limit int) ([]*domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]*domain.Session, 0)
	for _, s := range f.sorted() {
		if s.Status != domain.StatusPending || s.PaymentStatus == domain.PaymentPaid {
			continue
		}
		if (!s.CreatedAt.After(createdBefore) || !s.StartsAt.After(now)) && len(result) < limit {
			result = append(result, s)
		}
	}
	return result, nil
}

func (f *Sessions) MarkReminderSent(_ context.Context, id int64, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.Items[id]
	if !ok || s.ReminderSentAt != nil {
		return false, nil
	}
	s.ReminderSentAt = &at
	return true, nil
}

// Get возвращает сохраненную сессию без копирования
func (f *Sessions) Get(id int64) *domain.Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Items[id]
}

func (f *Sessions) sorted() []*domain.Session {
	result := make([]*domain.Session, 0, len(f.Items))
	for _, s := range f.Items {
		c := *s
		result = append(result, &c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// Experts хранилище экспертов в памяти
type Experts struct {
	mu        sync.Mutex
	Items     map[int64]*domain.Expert
	Schedules []*domain.ExpertSchedule
}

// NewExperts создает хранилище с экспертами
func NewExperts(experts ...*domain.Expert) *Experts {
	f := &Experts{Items: make(map[int64]*domain.Expert)}
	for _, e := range experts {
		f.Items[e.ID] = e
	}
	return f
}

func (f *Experts) GetByID(_ context.Context, id int64) (*domain.Expert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.Items[id]
	if !ok {
		return nil, expertRepo.ErrExpertNotFound
	}
	c := *e
	return &c, nil
}

func (f *Experts) ReplaceSchedule(_ context.Context, schedule *domain.ExpertSchedule) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.Items[schedule.ExpertID]
	if !ok {
		return expertRepo.ErrExpertNotFound
	}
	e.Timezone = schedule.Timezone
	e.SlotDurationMinutes = schedule.SlotDurationMinutes
	e.Availability = schedule.Availability
	e.BreakTimes = schedule.BreakTimes
	f.Schedules = append(f.Schedules, schedule)
	return nil
}

func (f *Experts) AddCompletedSession(_ context.Context, id int64, earnings float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.Items[id]
	if !ok {
		return expertRepo.ErrExpertNotFound
	}
	e.Stats.CompletedSessions++
	e.Stats.TotalSessions++
	e.Stats.TotalEarnings += earnings
	return nil
}

func (f *Experts) AddCancelledSession(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.Items[id]
	if !ok {
		return expertRepo.ErrExpertNotFound
	}
	e.Stats.CancelledSessions++
	return nil
}

func (f *Experts) ApplyRating(_ context.Context, id int64, rating int) (float64, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.Items[id]
	if !ok {
		return 0, 0, expertRepo.ErrExpertNotFound
	}
	n := float64(e.Stats.ReviewCount)
	e.Stats.Rating = (e.Stats.Rating*n + float64(rating)) / (n + 1)
	e.Stats.ReviewCount++
	return e.Stats.Rating, e.Stats.ReviewCount, nil
}

// Get возвращает сохраненного эксперта без копирования
func (f *Experts) Get(id int64) *domain.Expert {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Items[id]
}

// Accounts кредитные балансы в памяти
type Accounts struct {
	mu       sync.Mutex
	Balances map[int64]float64
}

// NewAccounts создает пустые балансы
func NewAccounts() *Accounts {
	return &Accounts{Balances: make(map[int64]float64)}
}

func (f *Accounts) GetByUserID(_ context.Context, userID int64) (*domain.ClientAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &domain.ClientAccount{UserID: userID, CreditBalance: f.Balances[userID]}, nil
}

func (f *Accounts) Debit(_ context.Context, userID int64, amount float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Balances[userID] -= amount
	return nil
}

func (f *Accounts) Credit(_ context.Context, userID int64, amount float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Balances[userID] += amount
	return nil
}

// Ledger журнал в памяти
type Ledger struct {
	mu      sync.Mutex
	Entries []*domain.LedgerEntry
}

func (f *Ledger) Create(_ context.Context, entry *domain.LedgerEntry) (*domain.LedgerEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry.ID = int64(len(f.Entries) + 1)
	f.Entries = append(f.Entries, entry)
	return entry, nil
}

func (f *Ledger) ListBySession(_ context.Context, sessionID int64) ([]*domain.LedgerEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]*domain.LedgerEntry, 0)
	for _, e := range f.Entries {
		if e.SessionID == sessionID {
			result = append(result, e)
		}
	}
	return result, nil
}

// Types типы записей по порядку
func (f *Ledger) Types() []domain.LedgerEntryType {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]domain.LedgerEntryType, 0, len(f.Entries))
	for _, e := range f.Entries {
		result = append(result, e.Type)
	}
	return result
}

// Notifier запоминает поставленные в очередь события
type Notifier struct {
	mu     sync.Mutex
	Events []notifier.Event
	Reject bool
}

func (f *Notifier) Enqueue(event notifier.Event) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Reject {
		return false
	}
	f.Events = append(f.Events, event)
	return true
}

// Sent события, отправленные получателю
func (f *Notifier) Sent(recipientID int64) []notifier.EventType {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]notifier.EventType, 0)
	for _, e := range f.Events {
		if e.RecipientID == recipientID {
			result = append(result, e.Type)
		}
	}
	return result
}

// Cache счетчик сбросов кэша доступности
type Cache struct {
	mu          sync.Mutex
	Invalidated []int64
}

func (f *Cache) Invalidate(_ context.Context, expertID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Invalidated = append(f.Invalidated, expertID)
	return nil
}

// TxManager выполняет функцию сразу, без транзакции
type TxManager struct {
	Calls int
}

func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.Calls++
	return fn(ctx)
}

func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.Calls++
	return fn(ctx)
}

// Events счетчик событий бронирования
type Events struct {
	mu     sync.Mutex
	Counts map[string]int
}

func (e *Events) IncBookingEvent(event string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Counts == nil {
		e.Counts = make(map[string]int)
	}
	e.Counts[event]++
}

// Count значение счетчика
func (e *Events) Count(event string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Counts[event]
}

// Clock фиксированное время
type Clock struct {
	At time.Time
}

func (c Clock) Now() time.Time { return c.At }

// Logger ничего не пишет
type Logger struct{}

func (Logger) Info(string, ...interface{})  {}
func (Logger) Warn(string, ...interface{})  {}
func (Logger) Error(string, ...interface{}) {}
