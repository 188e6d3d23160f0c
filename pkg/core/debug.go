package core

// DebugMode gates stack capture during render panic recovery. On by default;
// turn it off in production builds where stack capture is too costly.
var DebugMode = true

// SetDebugMode toggles DebugMode.
func SetDebugMode(enabled bool) {
	DebugMode = enabled
}
