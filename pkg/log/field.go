package log

// Field is a single structured key/value pair attached to a log entry.
type Field struct {
	Key   string
	Value any
}

// F builds a Field from an arbitrary key/value pair.
func F(key string, value any) Field { return Field{Key: key, Value: value} }

// Str builds a string Field.
func Str(key, value string) Field { return Field{Key: key, Value: value} }

// Int builds an int Field.
func Int(key string, value int) Field { return Field{Key: key, Value: value} }

// Int64 builds an int64 Field.
func Int64(key string, value int64) Field { return Field{Key: key, Value: value} }

// Uint32 builds a uint32 Field.
func Uint32(key string, value uint32) Field { return Field{Key: key, Value: value} }

// Uint16 builds a uint16 Field.
func Uint16(key string, value uint16) Field { return Field{Key: key, Value: value} }

// Bool builds a bool Field.
func Bool(key string, value bool) Field { return Field{Key: key, Value: value} }

// Err builds an "error" Field from an error value. A nil error is still
// recorded so callers can log "error=<nil>" without a branch.
func Err(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Component builds a "component" Field, the tag WithComponent uses.
func Component(name string) Field { return Field{Key: ComponentKey, Value: name} }
