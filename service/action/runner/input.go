package runner

import (
	"fmt"
	"strings"

	"github.com/viant/afs/url"
)

const defaultHostURL = "ssh://localhost/"

// Host identifies the machine commands run on. The zero credentials value
// resolves through the local secret store.
type Host struct {
	URL         string `json:"url"`
	Credentials string `json:"credentials,omitempty"`
}

// IsLocal reports whether the host addresses the local machine.
func (h *Host) IsLocal() bool {
	return url.Host(h.URL) == "localhost"
}

// Input defines parameters for one-shot command execution
type Input struct {
	Host         *Host             `json:"host,omitempty" description:"target host, localhost when omitted"`
	Script       string            `json:"script,omitempty" description:"newline separated commands"`
	Commands     []string          `json:"commands,omitempty" description:"commands to run in order"`
	Directory    string            `json:"directory,omitempty" description:"working directory"`
	Env          map[string]string `json:"env,omitempty" description:"environment variables"`
	AbortOnError *bool             `json:"abort_on_error,omitempty" description:"stop after the first failing command"`
	TimeoutMs    int               `json:"timeout_ms,omitempty" description:"per command timeout in milliseconds"`
}

// Init applies defaults
func (i *Input) Init() {
	if i.Host == nil {
		i.Host = &Host{URL: defaultHostURL}
	}
	if i.Host.URL == "" {
		i.Host.URL = defaultHostURL
	}
	if len(i.Commands) == 0 && i.Script != "" {
		for _, line := range strings.Split(i.Script, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				i.Commands = append(i.Commands, line)
			}
		}
	}
}

// Validate checks required fields
func (i *Input) Validate() error {
	if len(i.Commands) == 0 {
		return fmt.Errorf("commands were empty")
	}
	return nil
}
