package log

import "time"

// Field is a single piece of structured context.
type Field struct {
	Key   string
	Value interface{}
}

// Well-known field keys.
const (
	ComponentKey = "component"
	ErrorKey     = "error"
)

func F(key string, value interface{}) Field { return Field{Key: key, Value: value} }
func Str(key, value string) Field { return Field{Key: key, Value: value} }
func Int(key string, value int) Field { return Field{Key: key, Value: value} }
func Int64(key string, value int64) Field { return Field{Key: key, Value: value} }
func Bool(key string, value bool) Field { return Field{Key: key, Value: value} }
func Duration(key string, d time.Duration) Field { return Field{Key: key, Value: d} }
func Component(name string) Field { return Field{Key: ComponentKey, Value: name} }

// Err attaches err under the "error" key. A nil error is kept as nil.
func Err(err error) Field { return Field{Key: ErrorKey, Value: err} }
