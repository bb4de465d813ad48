package types

import (
  "time"
  "github.com/google/uuid"
)

// Subscription is a follower edge between two users. The follower != author
// rule is enforced at the service boundary, not by storage.
type Subscription struct {
  ID          uuid.UUID   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  UserID      uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_subscription_pair;column:user_id" json:"user_id"`
  AuthorID    uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_subscription_pair;column:author_id" json:"author_id"`
  CreatedAt   time.Time   `gorm:"not null;default:now()" json:"created_at"`
}

func (Subscription) TableName() string {
  return "subscription"
}
