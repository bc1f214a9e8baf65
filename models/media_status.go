package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MediaStatus describes where a media item is in its upload lifecycle.
type MediaStatus string

const (
	StatusUploading MediaStatus = "UPLOADING"
	StatusReady     MediaStatus = "READY"
	StatusFailed    MediaStatus = "FAILED"
	StatusDeleted   MediaStatus = "DELETED"
)

// statusLabels maps internal status names to their wire labels. The historical
// labels are inconsistent in casing ("uploading" vs "Ready") and preserved as-is
// for client compatibility.
var statusLabels = map[MediaStatus]string{
	StatusUploading: "uploading",
	StatusReady:     "Ready",
	StatusFailed:    "Failed",
	StatusDeleted:   "Deleted",
}

// Label returns the wire form of the status.
func (s MediaStatus) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// Valid reports whether s is one of the known statuses.
func (s MediaStatus) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// ParseMediaStatus accepts either the internal name ("UPLOADING") or the wire
// label ("uploading"), case-insensitively.
func ParseMediaStatus(v string) (MediaStatus, error) {
	for status, label := range statusLabels {
		if strings.EqualFold(v, string(status)) || strings.EqualFold(v, label) {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown media status: %q", v)
}

// MarshalJSON serializes the status as its wire label.
func (s MediaStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Label())
}

// UnmarshalJSON parses either representation back into a status.
func (s *MediaStatus) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	parsed, err := ParseMediaStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
