package types

// Service is the contract every tool service implements. A service groups one
// or more named methods; the plan executor resolves a call name to a service
// method through the action registry.
type Service interface {
	Name() string
	Methods() Signatures
	Method(name string) (Executable, error)
}
