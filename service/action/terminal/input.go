package terminal

import (
	"strings"

	"github.com/viant/plexor/service/session"
)

// CreateInput requests a new named terminal.
type CreateInput struct {
	Name string `json:"name" description:"name for the new terminal"`
}

// RunInput executes a command in a terminal and waits for completion.
type RunInput struct {
	Command      string `json:"command" description:"shell command to execute"`
	TerminalName string `json:"terminal_name,omitempty" description:"terminal to run in, default terminal when empty"`
	TimeoutMs    int    `json:"timeout_ms,omitempty" description:"max wait time before timing out the command"`
	Unmarkable   bool   `json:"unmarkable,omitempty" description:"complete on output inactivity instead of the status marker"`
}

func (i *RunInput) Init() {
	if i.TerminalName == "" {
		i.TerminalName = session.DefaultName
	}
}

// BackgroundInput launches a long-running command such as a dev server.
type BackgroundInput struct {
	Command      string `json:"command" description:"command to keep running in the terminal"`
	TerminalName string `json:"terminal_name,omitempty" description:"terminal to occupy, default terminal when empty"`
}

func (i *BackgroundInput) Init() {
	if i.TerminalName == "" {
		i.TerminalName = session.DefaultName
	}
}

// CloseInput closes terminals, optionally keeping some alive.
type CloseInput struct {
	Keep string `json:"keep,omitempty" description:"comma separated terminal names to keep alive"`
}

// KeepNames splits the keep list into trimmed names.
func (i *CloseInput) KeepNames() []string {
	if i.Keep == "" {
		return nil
	}
	var ret []string
	for _, name := range strings.Split(i.Keep, ",") {
		if name = strings.TrimSpace(name); name != "" {
			ret = append(ret, name)
		}
	}
	return ret
}

// ListInput lists the registered terminals.
type ListInput struct{}
