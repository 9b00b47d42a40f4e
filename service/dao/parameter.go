package dao

// Parameter is a named List filter; the run DAOs understand a "State"
// parameter holding one state or a list of acceptable states.
type Parameter struct {
	Name  string
	Value interface{}
}

// NewParameter creates a parameter; a single value stays scalar, several
// become a slice.
func NewParameter(name string, values ...string) *Parameter {
	if len(values) == 1 {
		return &Parameter{Name: name, Value: values[0]}
	}
	return &Parameter{Name: name, Value: values}
}
