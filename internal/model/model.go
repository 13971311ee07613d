package model

import "time"

type Item struct {
	ID    string `json:"id"`
	Title string `json:"title"`

	Attachments []Attachment `json:"attachments,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewItem builds an unsaved item. Identity and timestamps are assigned by the
// store when the item is created.
func NewItem(title string) Item {
	return Item{Title: title}
}

type Attachment struct {
	ID           string `json:"id"`
	ItemID       string `json:"itemId"`
	OriginalName string `json:"originalName"`
	MimeType     string `json:"mimeType,omitempty"`
	SizeBytes    int64  `json:"sizeBytes"`
	Sha256Hex    string `json:"sha256"`

	// Path is workspace-relative, slash separated (resources/attachments/<id>/<name>).
	Path string `json:"path"`

	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	// Source is the capability that produced the media ("camera" or "media_library").
	Source string `json:"source,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

type Event struct {
	ID       string    `json:"id"`
	TS       time.Time `json:"ts"`
	Type     string    `json:"type"`
	EntityID string    `json:"entityId"`
	Payload  any       `json:"payload"`
}
