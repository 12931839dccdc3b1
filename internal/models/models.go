// Package models holds the gorm models persisted in the SQLite database.
package models

// All returns every model managed by migrations.
func All() []interface{} {
	return []interface{}{&User{}, &Advertisement{}, &ClickOperation{}, &Session{}}
}
