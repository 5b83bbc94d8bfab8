package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

type slotRequest struct {
	Day    string `json:"day" validate:"required,weekday"`
	Start  string `json:"startTime" validate:"required,hhmm"`
	Status string `json:"status" validate:"omitempty,outcome"`
}

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	if err := Register(v); err != nil {
		t.Fatalf("failed to register rules: %v", err)
	}
	return v
}

func TestCustomTags(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		name  string
		req   slotRequest
		valid bool
	}{
		{"valid", slotRequest{Day: "Monday", Start: "09:30", Status: "pass"}, true},
		{"lowercase day and status", slotRequest{Day: "friday", Start: "23:59", Status: "FAIL"}, true},
		{"unknown day", slotRequest{Day: "Funday", Start: "09:30"}, false},
		{"hour out of range", slotRequest{Day: "Monday", Start: "24:00"}, false},
		{"missing colon", slotRequest{Day: "Monday", Start: "0930"}, false},
		{"bad status", slotRequest{Day: "Monday", Start: "09:30", Status: "maybe"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.req)
			if tt.valid && err != nil {
				t.Fatalf("expected valid, got %v", err)
			}
			if !tt.valid && err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestFieldNamesUseJSONTags(t *testing.T) {
	v := newValidator(t)

	err := v.Struct(slotRequest{Day: "Monday"})
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) != 1 {
		t.Fatalf("expected one validation error, got %v", err)
	}
	if verrs[0].Field() != "startTime" {
		t.Fatalf("expected json field name startTime, got %s", verrs[0].Field())
	}
}

func TestRegisterBindingsIdempotent(t *testing.T) {
	if err := RegisterBindings(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := RegisterBindings(); err != nil {
		t.Fatalf("unexpected error on second call: %v", err)
	}
}
