package storage

import "time"

// Asset represents a file or directory inside the workspace.
type Asset struct {
	Path        string    `json:"path"`
	URL         string    `json:"url,omitempty"`
	IsDir       bool      `json:"isDir"`
	Mode        string    `json:"mode,omitempty"`
	Size        int64     `json:"size,omitempty"`
	ModTime     time.Time `json:"modTime,omitempty"`
	ContentType string    `json:"contentType,omitempty"`
}
