package terminal

import "github.com/viant/plexor/service/session"

// CreateOutput confirms terminal creation.
type CreateOutput struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// RunOutput carries the collected command output.
type RunOutput struct {
	Terminal string `json:"terminal"`
	Command  string `json:"command"`
	Output   string `json:"output"`
	Status   int    `json:"status"`
}

// BackgroundOutput confirms a background launch.
type BackgroundOutput struct {
	Terminal string `json:"terminal"`
	Message  string `json:"message"`
}

// CloseOutput reports which terminals were closed and which kept.
type CloseOutput struct {
	Closed []string `json:"closed"`
	Kept   []string `json:"kept,omitempty"`
}

// ListOutput describes the registered terminals.
type ListOutput struct {
	Terminals []session.Info `json:"terminals"`
}
