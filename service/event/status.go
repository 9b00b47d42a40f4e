package event

import "log"

// StatusEvent reports a run or step state change to whoever listens on the
// status stream. Message carries the human readable detail: the tool call
// text on start, the error on failure, the corrected call on remediation.
type StatusEvent struct {
	RunID   string `json:"runID"`
	StepID  string `json:"stepID,omitempty"`
	Ordinal int    `json:"ordinal,omitempty"`
	Tool    string `json:"tool,omitempty"`
	State   string `json:"state"`
	Message string `json:"message,omitempty"`
}

// LogStatus is the default status listener, it writes each event to the
// standard logger.
func LogStatus(anEvent *Event[StatusEvent]) {
	if anEvent == nil {
		return
	}
	data := anEvent.Data
	if data.Tool != "" {
		log.Printf("[%v] %v step %d %v: %v", data.RunID, data.State, data.Ordinal, data.Tool, data.Message)
		return
	}
	log.Printf("[%v] %v: %v", data.RunID, data.State, data.Message)
}
