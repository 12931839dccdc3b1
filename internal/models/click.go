package models

import "time"

// AnonymousUser is recorded as the acting user of clicks made without a session.
const AnonymousUser = "ANONYMOUS"

// ClickTimeLayout is the rendering format of ClickOperation timestamps.
const ClickTimeLayout = "2006-01-02 15:04:05"

// ClickOperation represents one successful click-through stored in the operation log.
// Rows are append-only.
type ClickOperation struct {
	// ID is the primary key; its order is the insertion order of the log
	ID uint `gorm:"primaryKey" json:"id"`

	// AdvertisementName references Advertisement.Name
	// - index: the stats command counts operations per advertisement
	AdvertisementName string `gorm:"index;size:32;not null" json:"advertisement_name"`

	// ActingUser is the session username, or AnonymousUser
	ActingUser string `gorm:"size:64;not null" json:"acting_user"`

	// ProofReference is the path of the readiness artifact at click time
	ProofReference string `gorm:"size:255" json:"proof_reference"`

	// OriginAddress stores the client IP
	// - size:50: sufficient for both IPv4 and IPv6 addresses
	OriginAddress string `gorm:"size:50" json:"origin_address"`

	// Timestamp records the moment the click was accepted
	Timestamp time.Time `json:"-"`
}

// ClickTime returns the timestamp in ClickTimeLayout.
func (o ClickOperation) ClickTime() string {
	return o.Timestamp.Format(ClickTimeLayout)
}
