// Package processor runs plans. It turns planner text into an ordered run
// of steps and executes them strictly sequentially, one foreground loop per
// run, because later steps depend on earlier side effects. A failed step is
// handed to the external planner for a corrected call that replaces it in
// place; the step is retried until it succeeds or its attempt budget is
// exhausted, which fails the whole run.
package processor
