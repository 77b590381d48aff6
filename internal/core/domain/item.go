package domain

import (
	"errors"
	"time"
)

var ErrItemNotFound = errors.New("item not found")
var ErrForbidden = errors.New("access forbidden")
var ErrInvalidCategory = errors.New("invalid category")
var ErrInvalidCondition = errors.New("invalid condition")
var ErrImageCount = errors.New("items require between 1 and 5 images")

// Category is the closed set of listing categories.
type Category string

const (
	CategoryElectronics Category = "Electronics"
	CategoryClothing    Category = "Clothing"
	CategoryBooks       Category = "Books"
	CategoryHomeGarden  Category = "Home & Garden"
	CategorySports      Category = "Sports"
	CategoryToys        Category = "Toys"
	CategoryOther       Category = "Other"
)

var categories = map[Category]struct{}{
	CategoryElectronics: {},
	CategoryClothing:    {},
	CategoryBooks:       {},
	CategoryHomeGarden:  {},
	CategorySports:      {},
	CategoryToys:        {},
	CategoryOther:       {},
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	_, ok := categories[c]
	return ok
}

// Condition grades the physical state of a listed item.
type Condition string

const (
	ConditionNew     Condition = "new"
	ConditionLikeNew Condition = "like-new"
	ConditionGood    Condition = "good"
	ConditionFair    Condition = "fair"
	ConditionPoor    Condition = "poor"
)

func (c Condition) Valid() bool {
	switch c {
	case ConditionNew, ConditionLikeNew, ConditionGood, ConditionFair, ConditionPoor:
		return true
	}
	return false
}

const (
	MinItemImages = 1
	MaxItemImages = 5
)

// ItemImage is one entry in an item's ordered image list. PublicID is the
// blob-store handle needed to destroy the asset when the item goes away.
type ItemImage struct {
	URL      string `json:"url" bson:"url"`
	PublicID string `json:"public_id,omitempty" bson:"public_id,omitempty"`
}

// Item is a tradable listing owned by one user. OwnerName and OwnerAvatar are
// a creation-time snapshot of the owner's profile; they are display hints,
// never inputs to authorization.
type Item struct {
	ID          string      `json:"id" bson:"_id"`
	UserID      string      `json:"user_id" bson:"user_id"`
	Title       string      `json:"title" bson:"title"`
	Description string      `json:"description" bson:"description"`
	Category    Category    `json:"category" bson:"category"`
	Condition   Condition   `json:"condition" bson:"condition"`
	Images      []ItemImage `json:"images" bson:"images"`
	OwnerName   string      `json:"owner_name" bson:"owner_name"`
	OwnerAvatar string      `json:"owner_avatar,omitempty" bson:"owner_avatar,omitempty"`
	CreatedAt   time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" bson:"updated_at"`
}

// MainImage returns the first image URL, or "" for legacy documents with an
// empty list.
func (i *Item) MainImage() string {
	if len(i.Images) == 0 {
		return ""
	}
	return i.Images[0].URL
}
