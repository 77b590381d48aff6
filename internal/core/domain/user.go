package domain

import (
	"errors"
	"time"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")

// User models a marketplace account: identity, public profile, and the
// denormalized activity counters shown on the profile page.
//
// ItemsCount and TradesCount are projections: items_count is the number of
// live items owned by the user, trades_count the number of trades the user
// participated in that reached completed. Both are written in the same
// transaction as the operation that changes them and repaired by the
// reconciler if they ever drift.
type User struct {
	ID           string    `json:"id" bson:"_id"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	DisplayName  string    `json:"display_name" bson:"display_name"`
	AvatarURL    string    `json:"avatar_url,omitempty" bson:"avatar_url,omitempty"`
	Bio          string    `json:"bio,omitempty" bson:"bio,omitempty"`
	Location     string    `json:"location,omitempty" bson:"location,omitempty"`
	ItemsCount   int64     `json:"items_count" bson:"items_count"`
	TradesCount  int64     `json:"trades_count" bson:"trades_count"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}
