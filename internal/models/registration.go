package models

import "time"

// Registration records a single product usage event. The user, product,
// location and purpose names are denormalized copies taken at creation
// time; later renames never rewrite history. Registrations are immutable
// once created.
type Registration struct {
	ID          string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserName    string    `gorm:"column:user_name;index;not null" json:"user"`
	ProductName string    `gorm:"column:product_name;index;not null" json:"product"`
	Location    string    `gorm:"not null" json:"location"`
	Purpose     string    `gorm:"not null" json:"purpose"`
	Timestamp   time.Time `gorm:"index" json:"timestamp"`
	Date        string    `gorm:"size:10" json:"date"` // YYYY-MM-DD
	Time        string    `gorm:"size:5" json:"time"`  // HH:MM
	QRCode      string    `gorm:"column:qr_code" json:"qrcode,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (Registration) TableName() string {
	return "registrations"
}
