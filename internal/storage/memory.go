package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gearswap/gearswap-api/internal/apperrors"
	"github.com/gearswap/gearswap-api/internal/models"
)

// MemoryStorage is a mutex-guarded in-memory Storage, used by the test
// suites and for local development without a database.
type MemoryStorage struct {
	mu       sync.RWMutex
	users    map[uuid.UUID]models.User
	items    map[uuid.UUID]models.Item
	trades   map[uuid.UUID]models.Trade
	messages map[uuid.UUID][]models.Message // keyed by trade id, append order

	seq     map[uuid.UUID]int // trade insertion order, tiebreak for equal timestamps
	nextSeq int
}

var _ Storage = (*MemoryStorage)(nil)

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		users:    make(map[uuid.UUID]models.User),
		items:    make(map[uuid.UUID]models.Item),
		trades:   make(map[uuid.UUID]models.Trade),
		messages: make(map[uuid.UUID][]models.Message),
		seq:      make(map[uuid.UUID]int),
	}
}

// --- Users ---

func (s *MemoryStorage) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == user.Username {
			return fmt.Errorf("username %q taken: %w", user.Username, apperrors.ErrConflict)
		}
	}

	user.ID = uuid.New()
	user.CreatedAt = time.Now().UTC()
	s.users[user.ID] = *user
	return nil
}

func (s *MemoryStorage) GetUser(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user: %w", apperrors.ErrNotFound)
	}
	return &u, nil
}

func (s *MemoryStorage) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user: %w", apperrors.ErrNotFound)
}

func (s *MemoryStorage) UpdateUser(_ context.Context, id uuid.UUID, upd models.UserUpdate) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user: %w", apperrors.ErrNotFound)
	}
	applyUserUpdate(&u, upd)
	s.users[id] = u
	return &u, nil
}

// --- Items ---

func (s *MemoryStorage) GetItems(_ context.Context, filters ItemFilters) ([]models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var items []models.Item
	for _, it := range s.items {
		if filters.Status != "" && it.Status != filters.Status {
			continue
		}
		if filters.Category != "" && it.Category != filters.Category {
			continue
		}
		if filters.Search != "" && !matchesSearch(it, filters.Search) {
			continue
		}
		items = append(items, it)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func matchesSearch(it models.Item, search string) bool {
	return containsFold(it.Title, search) || containsFold(it.Description, search)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func (s *MemoryStorage) GetItem(_ context.Context, id uuid.UUID) (*models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	it, ok := s.items[id]
	if !ok {
		return nil, fmt.Errorf("item: %w", apperrors.ErrNotFound)
	}
	return &it, nil
}

func (s *MemoryStorage) CreateItem(_ context.Context, item *models.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item.Status == "" {
		item.Status = models.ItemAvailable
	}
	if item.Images == nil {
		item.Images = []string{}
	}
	item.ID = uuid.New()
	item.CreatedAt = time.Now().UTC()
	s.items[item.ID] = *item
	return nil
}

func (s *MemoryStorage) UpdateItem(_ context.Context, id uuid.UUID, upd models.ItemUpdate) (*models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.items[id]
	if !ok {
		return nil, fmt.Errorf("item: %w", apperrors.ErrNotFound)
	}
	applyItemUpdate(&it, upd)
	s.items[id] = it
	return &it, nil
}

func (s *MemoryStorage) DeleteItem(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return fmt.Errorf("item: %w", apperrors.ErrNotFound)
	}
	delete(s.items, id)
	return nil
}

func (s *MemoryStorage) SetItemStatus(_ context.Context, id uuid.UUID, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.items[id]
	if !ok {
		return fmt.Errorf("item: %w", apperrors.ErrNotFound)
	}
	it.Status = status
	s.items[id] = it
	return nil
}

// --- Trades ---

func (s *MemoryStorage) CreateTrade(_ context.Context, trade *models.Trade) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if trade.Status == "" {
		trade.Status = models.TradeRequested
	}
	trade.ID = uuid.New()
	now := time.Now().UTC()
	trade.CreatedAt = now
	trade.UpdatedAt = now
	s.trades[trade.ID] = *trade
	s.seq[trade.ID] = s.nextSeq
	s.nextSeq++
	return nil
}

func (s *MemoryStorage) GetTrade(_ context.Context, id uuid.UUID) (*models.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.trades[id]
	if !ok {
		return nil, fmt.Errorf("trade: %w", apperrors.ErrNotFound)
	}
	return &t, nil
}

func (s *MemoryStorage) GetTradesForUser(_ context.Context, userID uuid.UUID) ([]models.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var trades []models.Trade
	for _, t := range s.trades {
		if t.RequesterID == userID || t.OwnerID == userID {
			trades = append(trades, t)
		}
	}
	sort.Slice(trades, func(i, j int) bool {
		if !trades[i].CreatedAt.Equal(trades[j].CreatedAt) {
			return trades[i].CreatedAt.After(trades[j].CreatedAt)
		}
		return s.seq[trades[i].ID] > s.seq[trades[j].ID]
	})
	return trades, nil
}

func (s *MemoryStorage) UpdateTradeStatus(_ context.Context, id uuid.UUID, expectedStatus, newStatus string) (*models.Trade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.trades[id]
	if !ok {
		return nil, fmt.Errorf("trade: %w", apperrors.ErrNotFound)
	}
	if t.Status != expectedStatus {
		return nil, fmt.Errorf("trade status changed concurrently: %w", apperrors.ErrConflict)
	}
	t.Status = newStatus
	t.UpdatedAt = time.Now().UTC()
	s.trades[id] = t
	return &t, nil
}

// --- Messages ---

func (s *MemoryStorage) CreateMessage(_ context.Context, msg *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg.ID = uuid.New()
	msg.CreatedAt = time.Now().UTC()
	s.messages[msg.TradeID] = append(s.messages[msg.TradeID], *msg)
	return nil
}

func (s *MemoryStorage) GetMessages(_ context.Context, tradeID uuid.UUID) ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.messages[tradeID]
	out := make([]models.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}
