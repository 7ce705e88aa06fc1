package demo

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Renderable values know how to show themselves as a result.
type Renderable interface {
	Render() string
}

// Temperature renders as "21.5°".
type Temperature struct {
	Value    float64 `json:"value"`
	Location string  `json:"location,omitempty"`
}

func (t Temperature) Render() string {
	return formatFloat(t.Value) + "°"
}

// TemperatureSeries renders as "[12°, 30°]".
type TemperatureSeries []Temperature

func (s TemperatureSeries) Render() string {
	parts := make([]string, len(s))
	for i, t := range s {
		parts[i] = t.Render()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Emoji renders as itself.
type Emoji string

func (e Emoji) Render() string { return string(e) }

// Array renders only its length, as "[3]".
type Array[T any] []T

func (a Array[T]) Render() string {
	return "[" + strconv.Itoa(len(a)) + "]"
}

// Render formats any computation result for display. Renderable values win;
// scalars print plainly; anything else is shown as indented JSON.
func Render(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case Renderable:
		return v.Render()
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(v)
	case float32:
		return formatFloat(float64(v))
	case float64:
		return formatFloat(v)
	case error:
		return v.Error()
	case fmt.Stringer:
		return v.String()
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
