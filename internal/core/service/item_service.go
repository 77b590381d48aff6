package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/barterqween/barter-api/internal/api/metrics"
	"github.com/barterqween/barter-api/internal/core/domain"
	"github.com/barterqween/barter-api/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// AssetCleaner abstracts blob-store deletion (Cloudinary). Used to destroy
// image assets orphaned by an item delete or an image replacement.
type AssetCleaner interface {
	Destroy(ctx context.Context, publicIDs []string) error
}

// ItemService implements the listing manager. Ownership checks happen here,
// not in the client: update and delete refuse any actor but the owner.
type ItemService struct {
	items   ports.ItemRepository
	users   ports.UserRepository
	trades  ports.TradeRepository
	tx      ports.TxManager
	cleaner AssetCleaner
	log     zerolog.Logger
}

func NewItemService(
	items ports.ItemRepository,
	users ports.UserRepository,
	trades ports.TradeRepository,
	tx ports.TxManager,
	cleaner AssetCleaner,
	log zerolog.Logger,
) *ItemService {
	return &ItemService{items: items, users: users, trades: trades, tx: tx, cleaner: cleaner, log: log}
}

// Create validates and persists a new listing. The owner's display name and
// avatar are snapshotted onto the item, and items_count is incremented in the
// same transaction as the insert.
func (s *ItemService) Create(ctx context.Context, input ports.CreateItemInput) (*domain.Item, error) {
	category := domain.Category(input.Category)
	if !category.Valid() {
		return nil, domain.ErrInvalidCategory
	}
	condition := domain.Condition(input.Condition)
	if !condition.Valid() {
		return nil, domain.ErrInvalidCondition
	}
	if len(input.Images) < domain.MinItemImages || len(input.Images) > domain.MaxItemImages {
		return nil, domain.ErrImageCount
	}

	owner, err := s.users.FindByID(ctx, input.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("create item: owner: %w", err)
	}

	now := time.Now().UTC()
	item := &domain.Item{
		ID:          uuid.NewString(),
		UserID:      owner.ID,
		Title:       input.Title,
		Description: input.Description,
		Category:    category,
		Condition:   condition,
		Images:      input.Images,
		OwnerName:   owner.DisplayName,
		OwnerAvatar: owner.AvatarURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.items.Create(ctx, item); err != nil {
			return err
		}
		return s.users.IncrementCounters(ctx, owner.ID, 1, 0)
	})
	if err != nil {
		s.log.Error().Err(err).Str("owner_id", owner.ID).Msg("failed to create item")
		return nil, err
	}

	metrics.ItemsCreatedTotal.WithLabelValues(string(category)).Inc()
	s.log.Info().Str("item_id", item.ID).Str("owner_id", owner.ID).Str("category", string(category)).Msg("item created")

	return item, nil
}

// Get returns a single listing.
func (s *ItemService) Get(ctx context.Context, id string) (*domain.Item, error) {
	return s.items.FindByID(ctx, id)
}

// Update applies a partial edit to a listing. Non-owners get ErrForbidden
// regardless of what their client rendered.
func (s *ItemService) Update(ctx context.Context, input ports.UpdateItemInput) (*domain.Item, error) {
	upd := input.Update
	if upd.Category != nil && !upd.Category.Valid() {
		return nil, domain.ErrInvalidCategory
	}
	if upd.Condition != nil && !upd.Condition.Valid() {
		return nil, domain.ErrInvalidCondition
	}
	if upd.Images != nil && (len(*upd.Images) < domain.MinItemImages || len(*upd.Images) > domain.MaxItemImages) {
		return nil, domain.ErrImageCount
	}

	existing, err := s.items.FindByID(ctx, input.ItemID)
	if err != nil {
		return nil, err
	}
	if existing.UserID != input.OwnerID {
		return nil, domain.ErrForbidden
	}
	if upd.Empty() {
		return existing, nil
	}

	updated, err := s.items.Update(ctx, input.ItemID, input.OwnerID, upd)
	if err != nil {
		return nil, err
	}

	// Images replaced: the old assets are orphans now.
	if upd.Images != nil {
		s.destroyOrphans(ctx, orphanedPublicIDs(existing.Images, *upd.Images))
	}

	s.log.Info().Str("item_id", updated.ID).Msg("item updated")
	return updated, nil
}

// Delete removes a listing. One transaction covers the document delete, the
// items_count decrement, and the invalidation of every pending trade that
// references the item. Blob cleanup runs after commit, best effort.
func (s *ItemService) Delete(ctx context.Context, ownerID, itemID string) error {
	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item.UserID != ownerID {
		return domain.ErrForbidden
	}

	var invalidated int64
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.items.Delete(ctx, itemID, ownerID); err != nil {
			return err
		}
		if err := s.users.IncrementCounters(ctx, ownerID, -1, 0); err != nil {
			return err
		}
		invalidated, err = s.trades.InvalidatePendingByItem(ctx, itemID, time.Now().UTC())
		return err
	})
	if err != nil {
		s.log.Error().Err(err).Str("item_id", itemID).Msg("failed to delete item")
		return err
	}

	metrics.ItemsDeletedTotal.Inc()
	if invalidated > 0 {
		metrics.TradeTransitionsTotal.WithLabelValues(string(domain.TradeInvalidated)).Add(float64(invalidated))
	}
	s.log.Info().
		Str("item_id", itemID).
		Str("owner_id", ownerID).
		Int64("trades_invalidated", invalidated).
		Msg("item deleted")

	s.destroyOrphans(ctx, orphanedPublicIDs(item.Images, nil))
	return nil
}

// List returns a page of the public feed, newest first.
func (s *ItemService) List(ctx context.Context, input ports.ListItemsInput) (*ports.ListItemsResult, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	items, total, err := s.items.List(ctx, ports.ListItemsFilter{
		Category: input.Category,
		Search:   input.Search,
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return nil, err
	}

	totalPages := int(total) / limit
	if int(total)%limit != 0 {
		totalPages++
	}

	return &ports.ListItemsResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// ListByOwner returns every listing owned by ownerID.
func (s *ItemService) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Item, error) {
	return s.items.ListByOwner(ctx, ownerID)
}

func (s *ItemService) destroyOrphans(ctx context.Context, publicIDs []string) {
	if s.cleaner == nil || len(publicIDs) == 0 {
		return
	}
	if err := s.cleaner.Destroy(ctx, publicIDs); err != nil {
		s.log.Warn().Err(err).Strs("public_ids", publicIDs).Msg("failed to destroy orphaned assets")
	}
}

// orphanedPublicIDs returns the public IDs present in old but absent from new.
func orphanedPublicIDs(old, next []domain.ItemImage) []string {
	kept := make(map[string]struct{}, len(next))
	for _, img := range next {
		if img.PublicID != "" {
			kept[img.PublicID] = struct{}{}
		}
	}
	var orphans []string
	for _, img := range old {
		if img.PublicID == "" {
			continue
		}
		if _, ok := kept[img.PublicID]; !ok {
			orphans = append(orphans, img.PublicID)
		}
	}
	return orphans
}
