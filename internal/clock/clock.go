package clock

import "time"

// NowFunc supplies the timestamps recorded on runs and steps. Override in
// tests for determinism.
var NowFunc = time.Now

// Now is a thin wrapper around NowFunc.
func Now() time.Time { return NowFunc() }
