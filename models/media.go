package models

import "time"

// VariantType identifies a derived rendition of a media item.
type VariantType string

const (
	VariantOriginal  VariantType = "ORIGINAL"
	VariantThumbnail VariantType = "THUMBNAIL"
	VariantWebP      VariantType = "WEBP"
	VariantAVIF      VariantType = "AVIF"
)

// MediaVariant is a derived rendition (thumbnail, web format) of a media item.
// Variants are produced by out-of-band processing; this service only stores and
// returns them.
type MediaVariant struct {
	VariantType VariantType `json:"variantType"`
	Width       *int        `json:"width,omitempty"`
	Height      *int        `json:"height,omitempty"`
	Bytes       int64       `json:"bytes"`
	StorageKey  string      `json:"storageKey"`
	CdnURL      string      `json:"cdnUrl,omitempty"`
}

// Media is the metadata record for one uploaded file. The file bytes themselves
// never pass through this service; clients PUT them straight to object storage
// with a presigned URL.
//
// UserID and StorageKey are fixed at creation. Checksum, Width and Height are
// set once, at upload confirmation.
type Media struct {
	ID         string         `gorm:"primaryKey;size:36" json:"id"`
	UserID     string         `gorm:"size:64;index;not null" json:"user_id"`
	JournalID  string         `gorm:"size:64;index" json:"journal_id"`
	FileName   string         `gorm:"size:512;not null" json:"file_name"`
	MimeType   string         `gorm:"size:128;not null" json:"mime_type"`
	Bytes      int64          `gorm:"not null" json:"bytes"`
	Checksum   string         `gorm:"size:128" json:"checksum"`
	Width      *int           `json:"width"`
	Height     *int           `json:"height"`
	StorageKey string         `gorm:"size:1024;not null" json:"storage_key"`
	CdnURL     string         `gorm:"size:1024" json:"cdn_url"`
	Tags       []string       `gorm:"serializer:json;type:text" json:"tags"`
	Variants   []MediaVariant `gorm:"serializer:json;type:text" json:"variants"`
	Status     MediaStatus    `gorm:"size:16;index;not null;default:UPLOADING" json:"status"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// TableName pins the table name; the default pluralization of "media" is wrong.
func (Media) TableName() string {
	return "media"
}
