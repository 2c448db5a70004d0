package docstore

import (
	"reflect"
	"testing"
	"time"
)

func TestStringField(t *testing.T) {
	fields := map[string]any{"name": "Alice", "age": 42, "gone": nil}

	if got, err := String(fields, "name"); err != nil || got != "Alice" {
		t.Fatalf("name: %q %v", got, err)
	}
	if got, err := String(fields, "missing"); err != nil || got != "" {
		t.Fatalf("missing: %q %v", got, err)
	}
	if got, err := String(fields, "gone"); err != nil || got != "" {
		t.Fatalf("null: %q %v", got, err)
	}
	if _, err := String(fields, "age"); err == nil {
		t.Fatalf("expected type error")
	}
}

func TestStringSliceField(t *testing.T) {
	fields := map[string]any{
		"typed": []string{"a", "b"},
		"json":  []any{"a", "b"},
		"mixed": []any{"a", 1},
		"wrong": "a,b",
	}

	want := []string{"a", "b"}
	if got, err := StringSlice(fields, "typed"); err != nil || !reflect.DeepEqual(got, want) {
		t.Fatalf("typed: %v %v", got, err)
	}
	if got, err := StringSlice(fields, "json"); err != nil || !reflect.DeepEqual(got, want) {
		t.Fatalf("json: %v %v", got, err)
	}
	if got, err := StringSlice(fields, "missing"); err != nil || got != nil {
		t.Fatalf("missing: %v %v", got, err)
	}
	if _, err := StringSlice(fields, "mixed"); err == nil {
		t.Fatalf("expected element type error")
	}
	if _, err := StringSlice(fields, "wrong"); err == nil {
		t.Fatalf("expected type error")
	}
}

func TestTimeFieldRoundTrip(t *testing.T) {
	when := time.Date(2025, 6, 1, 12, 30, 45, 123456789, time.UTC)
	fields := map[string]any{"at": EncodeTime(when), "bad": "yesterday"}

	got, err := Time(fields, "at")
	if err != nil || !got.Equal(when) {
		t.Fatalf("at: %s %v", got, err)
	}
	if got, err := Time(fields, "missing"); err != nil || !got.IsZero() {
		t.Fatalf("missing: %s %v", got, err)
	}
	if _, err := Time(fields, "bad"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestEncodeTimeOrdersLexically(t *testing.T) {
	earlier := EncodeTime(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	later := EncodeTime(time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC))
	if !(earlier < later) {
		t.Fatalf("expected %q < %q", earlier, later)
	}
}

func TestTimePtrField(t *testing.T) {
	when := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	fields := map[string]any{"deadline": EncodeTime(when)}

	got, err := TimePtr(fields, "deadline")
	if err != nil || got == nil || !got.Equal(when) {
		t.Fatalf("deadline: %v %v", got, err)
	}
	if got, err := TimePtr(fields, "missing"); err != nil || got != nil {
		t.Fatalf("missing: %v %v", got, err)
	}
}
