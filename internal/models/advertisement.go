package models

import "time"

// Advertisement is a ledger row: the remaining prepaid budget and the click count
// of one published image. Name is the image file stem ("1", "2", ...).
type Advertisement struct {
	ID              uint      `gorm:"primaryKey" json:"-"`
	Name            string    `gorm:"uniqueIndex;size:32;not null" json:"name"`
	RemainingBudget float64   `gorm:"type:decimal(12,2);not null" json:"remaining_budget"`
	ClickCount      int64     `gorm:"not null;default:0" json:"click_count"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
