package models

import "time"

// User représente un compte enregistré. Il n'est jamais modifié ni supprimé.
type User struct {
	ID                  uint      `gorm:"primaryKey" json:"-"`
	Username            string    `gorm:"uniqueIndex;size:64;not null" json:"username"`
	PasswordHash        string    `gorm:"not null" json:"-"`
	PhoneNumber         string    `gorm:"size:32" json:"phone_number"`
	RegistrationAddress string    `gorm:"size:50" json:"registration_address"`
	CreatedAt           time.Time `gorm:"autoCreateTime" json:"created_at"`
}
