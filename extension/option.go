package extension

// Option customizes one Types lookup.
type Option func(*Types)

// WithImports sets the package aliases used to resolve the type name.
func WithImports(imports Imports) Option {
	return func(t *Types) {
		t.imports = imports
	}
}
