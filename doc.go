// Package plexor provides a plan execution engine backed by persistent shell
// sessions.
//
// A plan is free text containing tool calls written as
// name(key="value", ...). The engine extracts the recognized calls, executes
// them strictly in order through registered tool services and, when a step
// fails, asks an external planner for a corrected call before retrying,
// bounded by a per-step attempt budget.
//
// The engine comes with pluggable service layers such as:
//
//   - session   – named, long-lived shell terminals sharing one workspace
//   - extension – tool registry binding wire names to typed Go services
//   - executor  – single call execution with argument validation and output screening
//   - processor – sequential run execution with bounded remediation
//
// Plexor is designed to be embedded in host applications.  End-users
// typically interact with the engine via the high-level Service façade
// exposed by the root package:
//
//	srv, _ := plexor.New(ctx, plexor.WithPlanner(myPlanner))
//	rt := srv.Runtime()
//	run, wait, _ := rt.ExecutePlan(ctx, `run_command(command="go test ./...")`)
//	run, _ = wait(time.Minute)
//
// For more details see the README and individual sub-packages.
package plexor
