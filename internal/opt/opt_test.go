package opt

import (
	"encoding/json"
	"testing"
)

type sample struct {
	Distance Value[float64] `json:"distance_m"`
	Label    Value[string]  `json:"label"`
	RSSI     Value[int]     `json:"rssi"`
}

func TestValue_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name         string
		in           string
		wantDistance *float64
		wantLabel    *string
	}{
		{name: "present", in: `{"distance_m": 1.5, "label": "ok"}`, wantDistance: ptr(1.5), wantLabel: ptr("ok")},
		{name: "null", in: `{"distance_m": null, "label": null}`},
		{name: "missing", in: `{}`},
		{name: "zero is present", in: `{"distance_m": 0, "label": ""}`, wantDistance: ptr(0.0), wantLabel: ptr("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s sample
			if err := json.Unmarshal([]byte(tt.in), &s); err != nil {
				t.Fatalf("Unmarshal() err = %v; want nil", err)
			}
			if got := s.Distance.Ptr(); !equalPtr(got, tt.wantDistance) {
				t.Errorf("Distance = %v; want %v", got, tt.wantDistance)
			}
			if got := s.Label.Ptr(); !equalPtr(got, tt.wantLabel) {
				t.Errorf("Label = %v; want %v", got, tt.wantLabel)
			}
		})
	}
}

func TestValue_UnmarshalJSON_wrongType(t *testing.T) {
	var s sample
	if err := json.Unmarshal([]byte(`{"rssi": "strong"}`), &s); err == nil {
		t.Fatal("Unmarshal() err = nil; want type error")
	}
}

func TestValue_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(sample{Distance: Some(2.5)})
	if err != nil {
		t.Fatalf("Marshal() err = %v", err)
	}
	want := `{"distance_m":2.5,"label":null,"rssi":null}`
	if string(b) != want {
		t.Errorf("Marshal() = %s; want %s", b, want)
	}
}

func TestValue_Or(t *testing.T) {
	if got := None[int]().Or(7); got != 7 {
		t.Errorf("None.Or(7) = %d; want 7", got)
	}
	if got := Some(3).Or(7); got != 3 {
		t.Errorf("Some(3).Or(7) = %d; want 3", got)
	}
	if FromPtr[int](nil).IsSome() {
		t.Error("FromPtr(nil).IsSome() = true; want false")
	}
}

func ptr[T any](v T) *T { return &v }

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
