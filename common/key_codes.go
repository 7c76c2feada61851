package common

// Virtual key codes for cross-platform input handling.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyR     = 82  // R key (ASCII)
	KeySpace = 32  // Spacebar (ASCII)
	KeyEsc   = 256 // Escape key (GLFW)

	Key1 = 49 // 1 key (ASCII)
	Key9 = 57 // 9 key (ASCII)
)

// Arrow keys (GLFW)
const (
	KeyRight = 262
	KeyLeft  = 263
	KeyDown  = 264
	KeyUp    = 265
)

// DigitIndex maps the digit keys 1..9 to a zero-based selection index.
//
// Parameters:
//   - keyCode: the key code reported by the window
//
// Returns:
//   - int: the zero-based index (0 for Key1)
//   - bool: false if keyCode is not one of Key1..Key9
func DigitIndex(keyCode uint32) (int, bool) {
	if keyCode < Key1 || keyCode > Key9 {
		return 0, false
	}
	return int(keyCode - Key1), true
}
