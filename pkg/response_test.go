package pkg

import (
	"encoding/json"
	"testing"
)

func TestNewResponse(t *testing.T) {
	r := NewResponse(201, map[string]string{"ok": "y"}, "created")
	if r.Code != 201 || r.Message != "created" {
		t.Fatalf("mismatch: %+v", r)
	}
	m := r.Data.(map[string]string)
	if m["ok"] != "y" {
		t.Fatalf("data mismatch: %+v", r.Data)
	}
}

func TestNewError_OmitsEmptyOptionalFields(t *testing.T) {
	b, err := json.Marshal(NewError("not_found", "not found"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"error":{"code":"not_found","message":"not found"}}`
	if string(b) != want {
		t.Fatalf("want %s, got %s", want, b)
	}
}
