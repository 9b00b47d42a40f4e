// Package policy provides optional declarative rules that can be applied on
// top of a running plan, for example to require human approval for selected
// tools or to block them outright.
package policy
