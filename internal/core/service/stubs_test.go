package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/barterqween/barter-api/internal/core/domain"
	"github.com/barterqween/barter-api/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory stub repositories. They mirror the filters the real Mongo
// repositories apply, including the compare-and-swap status update.
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	byID      map[string]*domain.User
	createErr error
	incErr    error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func (r *stubUserRepo) add(u *domain.User) { clone := *u; r.byID[u.ID] = &clone }

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, u := range r.byID {
		if u.Email == user.Email {
			return domain.ErrUserExists
		}
	}
	clone := *user
	r.byID[user.ID] = &clone
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) UpdateProfile(_ context.Context, id string, upd ports.ProfileUpdate) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if upd.DisplayName != nil {
		u.DisplayName = *upd.DisplayName
	}
	if upd.AvatarURL != nil {
		u.AvatarURL = *upd.AvatarURL
	}
	if upd.Bio != nil {
		u.Bio = *upd.Bio
	}
	if upd.Location != nil {
		u.Location = *upd.Location
	}
	u.UpdatedAt = time.Now().UTC()
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) IncrementCounters(_ context.Context, id string, itemsDelta, tradesDelta int64) error {
	if r.incErr != nil {
		return r.incErr
	}
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.ItemsCount += itemsDelta
	u.TradesCount += tradesDelta
	return nil
}

func (r *stubUserRepo) SetCounters(_ context.Context, id string, itemsCount, tradesCount int64) error {
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.ItemsCount = itemsCount
	u.TradesCount = tradesCount
	return nil
}

func (r *stubUserRepo) AllIDs(_ context.Context) ([]string, error) {
	ids := make([]string, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

type stubItemRepo struct {
	byID      map[string]*domain.Item
	createErr error
	deleteErr error
}

func newStubItemRepo() *stubItemRepo {
	return &stubItemRepo{byID: make(map[string]*domain.Item)}
}

func (r *stubItemRepo) add(i *domain.Item) { clone := *i; r.byID[i.ID] = &clone }

func (r *stubItemRepo) Create(_ context.Context, item *domain.Item) error {
	if r.createErr != nil {
		return r.createErr
	}
	clone := *item
	r.byID[item.ID] = &clone
	return nil
}

func (r *stubItemRepo) FindByID(_ context.Context, id string) (*domain.Item, error) {
	i, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	clone := *i
	return &clone, nil
}

func (r *stubItemRepo) Update(_ context.Context, id, ownerID string, upd ports.ItemUpdate) (*domain.Item, error) {
	i, ok := r.byID[id]
	if !ok || i.UserID != ownerID {
		return nil, domain.ErrItemNotFound
	}
	if upd.Title != nil {
		i.Title = *upd.Title
	}
	if upd.Description != nil {
		i.Description = *upd.Description
	}
	if upd.Category != nil {
		i.Category = *upd.Category
	}
	if upd.Condition != nil {
		i.Condition = *upd.Condition
	}
	if upd.Images != nil {
		i.Images = *upd.Images
	}
	i.UpdatedAt = time.Now().UTC()
	clone := *i
	return &clone, nil
}

func (r *stubItemRepo) Delete(_ context.Context, id, ownerID string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	i, ok := r.byID[id]
	if !ok || i.UserID != ownerID {
		return domain.ErrItemNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubItemRepo) List(_ context.Context, f ports.ListItemsFilter) ([]*domain.Item, int64, error) {
	var matched []*domain.Item
	for _, i := range r.byID {
		if f.Category != "" && string(i.Category) != f.Category {
			continue
		}
		if f.Search != "" {
			q := strings.ToLower(f.Search)
			if !strings.Contains(strings.ToLower(i.Title), q) &&
				!strings.Contains(strings.ToLower(i.Description), q) {
				continue
			}
		}
		clone := *i
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(a, b int) bool { return matched[a].CreatedAt.After(matched[b].CreatedAt) })

	total := int64(len(matched))
	skip := (f.Page - 1) * f.Limit
	if skip < 0 {
		skip = 0
	}
	if skip > len(matched) {
		return nil, total, nil
	}
	end := skip + f.Limit
	if f.Limit <= 0 || end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], total, nil
}

func (r *stubItemRepo) ListByOwner(_ context.Context, ownerID string) ([]*domain.Item, error) {
	var out []*domain.Item
	for _, i := range r.byID {
		if i.UserID == ownerID {
			clone := *i
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].CreatedAt.After(out[b].CreatedAt) })
	return out, nil
}

func (r *stubItemRepo) CountByOwner(_ context.Context, ownerID string) (int64, error) {
	var n int64
	for _, i := range r.byID {
		if i.UserID == ownerID {
			n++
		}
	}
	return n, nil
}

type stubTradeRepo struct {
	byID      map[string]*domain.Trade
	createErr error
}

func newStubTradeRepo() *stubTradeRepo {
	return &stubTradeRepo{byID: make(map[string]*domain.Trade)}
}

func (r *stubTradeRepo) add(t *domain.Trade) { clone := *t; r.byID[t.ID] = &clone }

func (r *stubTradeRepo) Create(_ context.Context, trade *domain.Trade) error {
	if r.createErr != nil {
		return r.createErr
	}
	clone := *trade
	r.byID[trade.ID] = &clone
	return nil
}

func (r *stubTradeRepo) FindByID(_ context.Context, id string) (*domain.Trade, error) {
	t, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrTradeNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *stubTradeRepo) FindByIdempotencyKey(_ context.Context, key string) (*domain.Trade, error) {
	for _, t := range r.byID {
		if t.IdempotencyKey == key {
			clone := *t
			return &clone, nil
		}
	}
	return nil, domain.ErrTradeNotFound
}

func (r *stubTradeRepo) UpdateStatus(_ context.Context, id string, from, to domain.TradeStatus, at time.Time) (*domain.Trade, error) {
	t, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrTradeNotFound
	}
	if t.Status != from {
		return nil, domain.ErrTradeConflict
	}
	t.Status = to
	t.UpdatedAt = at
	clone := *t
	return &clone, nil
}

func (r *stubTradeRepo) RejectOtherPending(_ context.Context, itemID, exceptID string, at time.Time) (int64, error) {
	var n int64
	for _, t := range r.byID {
		if t.ItemID == itemID && t.ID != exceptID && t.Status == domain.TradePending {
			t.Status = domain.TradeRejected
			t.UpdatedAt = at
			n++
		}
	}
	return n, nil
}

func (r *stubTradeRepo) InvalidatePendingByItem(_ context.Context, itemID string, at time.Time) (int64, error) {
	var n int64
	for _, t := range r.byID {
		if t.ItemID == itemID && t.Status == domain.TradePending {
			t.Status = domain.TradeInvalidated
			t.UpdatedAt = at
			n++
		}
	}
	return n, nil
}

func (r *stubTradeRepo) ListBySender(_ context.Context, senderID string) ([]*domain.Trade, error) {
	var out []*domain.Trade
	for _, t := range r.byID {
		if t.SenderID == senderID {
			clone := *t
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].CreatedAt.After(out[b].CreatedAt) })
	return out, nil
}

func (r *stubTradeRepo) ListByRecipient(_ context.Context, recipientID string) ([]*domain.Trade, error) {
	var out []*domain.Trade
	for _, t := range r.byID {
		if t.RecipientID == recipientID {
			clone := *t
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].CreatedAt.After(out[b].CreatedAt) })
	return out, nil
}

func (r *stubTradeRepo) CountCompletedByUser(_ context.Context, userID string) (int64, error) {
	var n int64
	for _, t := range r.byID {
		if t.Status == domain.TradeCompleted && (t.SenderID == userID || t.RecipientID == userID) {
			n++
		}
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Transaction stub. Snapshots the three stub stores before fn and restores
// them when fn fails, so tests exercise real all-or-nothing semantics.
// ---------------------------------------------------------------------------

type stubTx struct {
	users  *stubUserRepo
	items  *stubItemRepo
	trades *stubTradeRepo
}

func (tx *stubTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	usersSnap := snapshotMap(tx.users.byID)
	itemsSnap := snapshotMap(tx.items.byID)
	tradesSnap := snapshotMap(tx.trades.byID)

	if err := fn(ctx); err != nil {
		tx.users.byID = usersSnap
		tx.items.byID = itemsSnap
		tx.trades.byID = tradesSnap
		return err
	}
	return nil
}

func snapshotMap[V any](m map[string]*V) map[string]*V {
	snap := make(map[string]*V, len(m))
	for k, v := range m {
		clone := *v
		snap[k] = &clone
	}
	return snap
}

// ---------------------------------------------------------------------------
// Dedup and blob-cleanup stubs.
// ---------------------------------------------------------------------------

type stubDeduper struct {
	claims   map[string]bool
	claimErr error
}

func newStubDeduper() *stubDeduper {
	return &stubDeduper{claims: make(map[string]bool)}
}

func (d *stubDeduper) Claim(_ context.Context, key string) (bool, error) {
	if d.claimErr != nil {
		return false, d.claimErr
	}
	if d.claims[key] {
		return false, nil
	}
	d.claims[key] = true
	return true, nil
}

func (d *stubDeduper) Release(_ context.Context, key string) error {
	delete(d.claims, key)
	return nil
}

type stubCleaner struct {
	destroyed []string
	err       error
}

func (c *stubCleaner) Destroy(_ context.Context, publicIDs []string) error {
	if c.err != nil {
		return c.err
	}
	c.destroyed = append(c.destroyed, publicIDs...)
	return nil
}
