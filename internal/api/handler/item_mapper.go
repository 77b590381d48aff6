package handler

import (
	"github.com/barterqween/barter-api/internal/core/domain"
	"github.com/barterqween/barter-api/internal/core/ports"
)

// --- Request → Service input ---

func toCreateItemInput(req createItemRequest, ownerID string) ports.CreateItemInput {
	return ports.CreateItemInput{
		OwnerID:     ownerID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Condition:   req.Condition,
		Images:      toDomainImages(req.Images),
	}
}

func toItemUpdate(req updateItemRequest) ports.ItemUpdate {
	upd := ports.ItemUpdate{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Category != nil {
		category := domain.Category(*req.Category)
		upd.Category = &category
	}
	if req.Condition != nil {
		condition := domain.Condition(*req.Condition)
		upd.Condition = &condition
	}
	if req.Images != nil {
		images := toDomainImages(*req.Images)
		upd.Images = &images
	}
	return upd
}

func toDomainImages(reqs []itemImageRequest) []domain.ItemImage {
	images := make([]domain.ItemImage, len(reqs))
	for i, img := range reqs {
		images[i] = domain.ItemImage{URL: img.URL, PublicID: img.PublicID}
	}
	return images
}

// --- Domain → HTTP response ---

func toItemResponse(item *domain.Item) itemResponse {
	images := make([]itemImageResponse, len(item.Images))
	for i, img := range item.Images {
		images[i] = itemImageResponse{URL: img.URL, PublicID: img.PublicID}
	}
	return itemResponse{
		ID:          item.ID,
		UserID:      item.UserID,
		Title:       item.Title,
		Description: item.Description,
		Category:    string(item.Category),
		Condition:   string(item.Condition),
		Images:      images,
		MainImage:   item.MainImage(),
		OwnerName:   item.OwnerName,
		OwnerAvatar: item.OwnerAvatar,
		CreatedAt:   item.CreatedAt.UTC(),
		UpdatedAt:   item.UpdatedAt.UTC(),
	}
}

func toItemResponses(items []*domain.Item) []itemResponse {
	out := make([]itemResponse, len(items))
	for i, item := range items {
		out[i] = toItemResponse(item)
	}
	return out
}

func toListItemsResponse(r *ports.ListItemsResult) listItemsResponse {
	return listItemsResponse{
		Data: toItemResponses(r.Items),
		Pagination: paginationResponse{
			Total:      r.Total,
			Page:       r.Page,
			Limit:      r.Limit,
			TotalPages: r.TotalPages,
		},
	}
}
