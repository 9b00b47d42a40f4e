// Package criteria compiles query parameters into entity predicates.
package criteria

import "github.com/viant/plexor/service/dao"

// StateFilter compiles the optional State parameter into a predicate over a
// state value. Without a State parameter every state matches. The parameter
// value may be a single state or a list of acceptable states.
func StateFilter(parameters []*dao.Parameter) func(state string) bool {
	for _, parameter := range parameters {
		if parameter == nil || parameter.Name != "State" {
			continue
		}
		switch expect := parameter.Value.(type) {
		case string:
			return func(state string) bool { return state == expect }
		case []string:
			accepted := make(map[string]bool, len(expect))
			for _, value := range expect {
				accepted[value] = true
			}
			return func(state string) bool { return accepted[state] }
		}
	}
	return func(string) bool { return true }
}
