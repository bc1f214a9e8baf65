package models

import "time"

// MediaView is the API representation of a media record.
type MediaView struct {
	ID         string         `json:"id"`
	UserID     string         `json:"userId"`
	JournalID  string         `json:"journalId,omitempty"`
	Filename   string         `json:"filename"`
	MimeType   string         `json:"mimeType"`
	Checksum   string         `json:"checksum,omitempty"`
	StorageKey string         `json:"storageKey"`
	CdnURL     string         `json:"cdnUrl,omitempty"`
	Bytes      int64          `json:"bytes"`
	Width      *int           `json:"width,omitempty"`
	Height     *int           `json:"height,omitempty"`
	Tags       []string       `json:"tags"`
	Variants   []MediaVariant `json:"variants"`
	Status     MediaStatus    `json:"status"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

// NewMediaView converts a stored record into its API form. Nil tag and variant
// slices become empty arrays so clients never see null.
func NewMediaView(m *Media) MediaView {
	view := MediaView{
		ID:         m.ID,
		UserID:     m.UserID,
		JournalID:  m.JournalID,
		Filename:   m.FileName,
		MimeType:   m.MimeType,
		Checksum:   m.Checksum,
		StorageKey: m.StorageKey,
		CdnURL:     m.CdnURL,
		Bytes:      m.Bytes,
		Width:      m.Width,
		Height:     m.Height,
		Tags:       m.Tags,
		Variants:   m.Variants,
		Status:     m.Status,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
	if view.Tags == nil {
		view.Tags = []string{}
	}
	if view.Variants == nil {
		view.Variants = []MediaVariant{}
	}
	return view
}
