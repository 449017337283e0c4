package common

// OptString returns a pointer to the string argument if it was supplied.
// An explicit empty string is a deliberate value (it clears a field), so
// presence and emptiness are kept distinct.
func OptString(args map[string]interface{}, key string) *string {
	if v, ok := args[key].(string); ok {
		return &v
	}
	return nil
}

// StringArg returns the string argument and whether it was supplied
// non-empty.
func StringArg(args map[string]interface{}, key string) (string, bool) {
	v, ok := args[key].(string)
	return v, ok && v != ""
}

// IntArg returns the numeric argument as int64, or the fallback when it is
// absent. JSON numbers arrive as float64.
func IntArg(args map[string]interface{}, key string, fallback int64) int64 {
	if v, ok := args[key].(float64); ok {
		return int64(v)
	}
	return fallback
}
