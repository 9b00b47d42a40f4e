package types

import "context"

type executionContextKey string

// ExecutionContextKey carries run and step identity into tool invocations.
var ExecutionContextKey = executionContextKey("execution-context")

// EnsureExecutionContext attaches key/value pairs to the execution context,
// creating the carrier map when absent.
func EnsureExecutionContext(ctx context.Context, pairs ...string) context.Context {
	v := ctx.Value(ExecutionContextKey)
	if v == nil {
		ctx = context.WithValue(ctx, ExecutionContextKey, map[string]any{})
	}
	values := ctx.Value(ExecutionContextKey).(map[string]any)
	for i := 0; i+1 < len(pairs); i += 2 {
		values[pairs[i]] = pairs[i+1]
	}
	return ctx
}

// ExecutionValue reads a value previously attached with EnsureExecutionContext.
func ExecutionValue(ctx context.Context, key string) (any, bool) {
	v := ctx.Value(ExecutionContextKey)
	if v == nil {
		return nil, false
	}
	values, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	ret, ok := values[key]
	return ret, ok
}
