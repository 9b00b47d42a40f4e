package plan

// Call is one parsed tool invocation: a wire name with its keyword arguments.
type Call struct {
	Name string            `json:"name"`
	Args map[string]string `json:"args,omitempty"`
	Raw  string            `json:"raw,omitempty"`
}

// Arg returns the named argument and whether it was supplied.
func (c *Call) Arg(name string) (string, bool) {
	if c.Args == nil {
		return "", false
	}
	value, ok := c.Args[name]
	return value, ok
}

// Warning records a recoverable extraction defect, such as a recognized call
// whose parentheses never balance.
type Warning struct {
	Name     string `json:"name"`
	Position int    `json:"position"`
	Message  string `json:"message"`
}

// Plan holds the ordered call expressions extracted from planner text together
// with any recoverable warnings raised along the way. Expressions appear in
// their original textual order.
type Plan struct {
	Expressions []string  `json:"expressions"`
	Warnings    []Warning `json:"warnings,omitempty"`
}

// IsEmpty reports whether extraction found no calls at all.
func (p *Plan) IsEmpty() bool {
	return p == nil || len(p.Expressions) == 0
}
