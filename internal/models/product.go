package models

import (
	"time"
)

// ProductImage describes an uploaded image attachment.
type ProductImage struct {
	FileName string `json:"fileName,omitempty"`
	FilePath string `json:"filePath,omitempty"`
	FileType string `json:"fileType,omitempty"`
	FileSize string `json:"fileSize,omitempty"`
}

// IsZero reports whether no image has been attached.
func (i ProductImage) IsZero() bool {
	return i == ProductImage{}
}

// Product is an inventory item owned by a single user.
type Product struct {
	ID          string       `json:"_id"`
	UserID      string       `json:"user"`
	Name        string       `json:"name"`
	ItemCode    string       `json:"itemCode,omitempty"`
	Category    string       `json:"category"`
	Quantity    string       `json:"quantity"`
	Price       string       `json:"price"`
	Description string       `json:"description"`
	Image       ProductImage `json:"image"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}
