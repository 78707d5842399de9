package models

import "time"

// Product is a registrable catalog item. QRCode is the scan payload
// printed on the physical label; CategoryID is a soft reference, a
// deleted category leaves it dangling on purpose.
type Product struct {
	ID             string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Name           string    `gorm:"index;not null" json:"name"`
	QRCode         string    `gorm:"column:qr_code;index" json:"qrcode,omitempty"`
	CategoryID     string    `gorm:"column:category_id;index" json:"categoryId,omitempty"`
	AttachmentURL  string    `gorm:"column:attachment_url" json:"attachmentUrl,omitempty"`
	AttachmentName string    `gorm:"column:attachment_name" json:"attachmentName,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (Product) TableName() string {
	return "products"
}

// Category groups products for filtering.
type Category struct {
	ID        string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Name      string    `gorm:"unique;not null" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Category) TableName() string {
	return "categories"
}

// Location is a plain named place; the name is the identity.
type Location struct {
	Name      string    `gorm:"primaryKey" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Location) TableName() string {
	return "locations"
}

// Purpose is a plain named reason for taking a product.
type Purpose struct {
	Name      string    `gorm:"primaryKey" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Purpose) TableName() string {
	return "purposes"
}
