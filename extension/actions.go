package extension

import (
	"log"
	"sort"
	"sync"

	"github.com/viant/plexor/model/types"
	"github.com/viant/x"
)

// DataTypeIniter lets a service register its input and output types when it
// is added to the registry.
type DataTypeIniter interface {
	InitTypes(types *Types)
}

// Binding resolves one tool wire name to the service method that implements
// it, together with the argument schema the executor validates against.
type Binding struct {
	Tool      string
	Service   string
	Signature *types.Signature
	Handler   types.Executable
}

// Actions provides the tool service registry. Every method a registered
// service exposes becomes a tool addressable by its wire name.
type Actions struct {
	types    *Types
	services map[string]types.Service
	tools    map[string]*Binding
	mux      sync.RWMutex
}

func (s *Actions) Types() *Types {
	return s.types
}

// Lookup returns a service by name
func (s *Actions) Lookup(name string) types.Service {
	s.mux.RLock()
	defer s.mux.RUnlock()
	return s.services[name]
}

// LookupTool resolves a tool wire name to its binding.
func (s *Actions) LookupTool(tool string) (*Binding, bool) {
	s.mux.RLock()
	defer s.mux.RUnlock()
	binding, ok := s.tools[tool]
	return binding, ok
}

// Tools returns the registered tool vocabulary in sorted order.
func (s *Actions) Tools() []string {
	s.mux.RLock()
	defer s.mux.RUnlock()
	ret := make([]string, 0, len(s.tools))
	for tool := range s.tools {
		ret = append(ret, tool)
	}
	sort.Strings(ret)
	return ret
}

// Signatures returns the signatures of every registered tool in vocabulary
// order, the raw material for planner prompts.
func (s *Actions) Signatures() []types.Signature {
	s.mux.RLock()
	defer s.mux.RUnlock()
	names := make([]string, 0, len(s.tools))
	for tool := range s.tools {
		names = append(names, tool)
	}
	sort.Strings(names)
	ret := make([]types.Signature, 0, len(names))
	for _, name := range names {
		ret = append(ret, *s.tools[name].Signature)
	}
	return ret
}

// Register registers a service and indexes each of its methods under the
// method name as a tool.
func (s *Actions) Register(service types.Service) {
	s.mux.Lock()
	defer s.mux.Unlock()

	if typer, ok := service.(DataTypeIniter); ok {
		typer.InitTypes(s.types)
	}
	s.services[service.Name()] = service

	signatures := service.Methods()
	for i := range signatures {
		signature := signatures[i]
		handler, err := service.Method(signature.Name)
		if err != nil {
			log.Printf("service %v: method %v not resolvable: %v", service.Name(), signature.Name, err)
			continue
		}
		if previous, ok := s.tools[signature.Name]; ok && previous.Service != service.Name() {
			log.Printf("tool %v redefined, %v replaces %v", signature.Name, service.Name(), previous.Service)
		}
		s.tools[signature.Name] = &Binding{
			Tool:      signature.Name,
			Service:   service.Name(),
			Signature: &signature,
			Handler:   handler,
		}
	}
}

// NewActions creates a new action service
func NewActions(goTypes ...*x.Type) *Actions {
	ret := &Actions{
		types:    NewTypes(),
		services: make(map[string]types.Service),
		tools:    make(map[string]*Binding),
	}
	for _, t := range goTypes {
		if t != nil {
			ret.types.Register(t)
		}
	}
	return ret
}
