package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Arg declares one wire argument a tool method accepts.
type Arg struct {
	Name        string
	Description string
	Required    bool
	DataType    string // string when empty; int and bool are checked on validation
}

// Args is the wire-argument schema carried by a method signature.
type Args []Arg

func (a Args) Lookup(name string) *Arg {
	for i := range a {
		if a[i].Name == name {
			return &a[i]
		}
	}
	return nil
}

// Validate checks supplied arguments against the schema: every required
// argument must be present, every supplied name must be declared, and typed
// arguments must parse as their declared type.
func (a Args) Validate(values map[string]string) error {
	var issues []string
	for _, arg := range a {
		if !arg.Required {
			continue
		}
		if _, ok := values[arg.Name]; !ok {
			issues = append(issues, fmt.Sprintf("missing required argument %q", arg.Name))
		}
	}
	for name, value := range values {
		arg := a.Lookup(name)
		if arg == nil {
			issues = append(issues, fmt.Sprintf("unknown argument %q", name))
			continue
		}
		switch arg.DataType {
		case "", "string":
		case "int":
			if _, err := strconv.Atoi(value); err != nil {
				issues = append(issues, fmt.Sprintf("argument %q: expected int, had %q", name, value))
			}
		case "bool":
			if _, err := strconv.ParseBool(value); err != nil {
				issues = append(issues, fmt.Sprintf("argument %q: expected bool, had %q", name, value))
			}
		default:
			issues = append(issues, fmt.Sprintf("argument %q: unsupported type %q", name, arg.DataType))
		}
	}
	if len(issues) > 0 {
		return fmt.Errorf("invalid arguments: %s", strings.Join(issues, "; "))
	}
	return nil
}
