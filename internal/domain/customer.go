package domain

import "time"

// Customer is a brokerage account holder. The order engine only reads it;
// customers are created by seeding or by an external onboarding flow.
type Customer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
