// Package reply turns an arbitrary webhook payload into the text shown to the user.
package reply

import "github.com/tidwall/gjson"

// Fallback is returned when the payload matches none of the known shapes.
const Fallback = "Sorry, I could not get a response."

// Shape identifies which payload shape produced a reply.
type Shape int

const (
	ShapeFallback Shape = iota
	ShapeOutput         // [{"output": "..."}]
	ShapeReply          // {"reply": "..."}
	ShapeMessage        // {"message": "..."}
)

// String returns the shape name
func (s Shape) String() string {
	switch s {
	case ShapeOutput:
		return "output"
	case ShapeReply:
		return "reply"
	case ShapeMessage:
		return "message"
	default:
		return "fallback"
	}
}

// Result is the outcome of resolving a payload.
type Result struct {
	Text  string
	Shape Shape
}

// matcher inspects a payload and reports whether it recognised it.
type matcher struct {
	shape Shape
	match func(payload gjson.Result) (string, bool)
}

// matchers are tried in order; the first match wins.
var matchers = []matcher{
	{ShapeOutput, matchOutput},
	{ShapeReply, fieldMatcher("reply")},
	{ShapeMessage, fieldMatcher("message")},
}

// Resolve runs the payload through the known shapes and returns the first match,
// or the fallback text.
func Resolve(payload gjson.Result) Result {
	for _, m := range matchers {
		if text, ok := m.match(payload); ok {
			return Result{Text: text, Shape: m.shape}
		}
	}
	return Result{Text: Fallback, Shape: ShapeFallback}
}

// Extract returns the reply text for payload.
func Extract(payload gjson.Result) string {
	return Resolve(payload).Text
}

// matchOutput recognises a non-empty array whose first element is an object
// with a string "output" field.
func matchOutput(payload gjson.Result) (string, bool) {
	if !payload.IsArray() {
		return "", false
	}
	items := payload.Array()
	if len(items) == 0 {
		return "", false
	}
	return stringField(items[0], "output")
}

func fieldMatcher(name string) func(gjson.Result) (string, bool) {
	return func(payload gjson.Result) (string, bool) {
		return stringField(payload, name)
	}
}

// stringField returns obj[name] when obj is an object and the field is a JSON string.
func stringField(obj gjson.Result, name string) (string, bool) {
	if !obj.IsObject() {
		return "", false
	}
	field := obj.Get(name)
	if field.Type != gjson.String {
		return "", false
	}
	return field.Str, true
}
