package dashboard

import (
	"errors"
	"testing"
)

func TestNormalizeDefinition_Defaults(t *testing.T) {
	out, err := NormalizeDefinition(nil)
	if err != nil {
		t.Fatal(err)
	}

	widgets, ok := out["widgets"].([]any)
	if !ok || len(widgets) != 0 {
		t.Errorf("expected empty widgets array, got %v", out["widgets"])
	}

	layout, ok := out["layout"].(map[string]any)
	if !ok {
		t.Fatalf("expected layout object, got %v", out["layout"])
	}
	grid, ok := layout["grid"].(map[string]any)
	if !ok || grid["cols"] != 12 {
		t.Errorf("expected default grid with 12 cols, got %v", layout)
	}

	tm, ok := out["time"].(map[string]any)
	if !ok || tm["mode"] != "picker" || tm["default"] != "last_30_days" {
		t.Errorf("expected default time document, got %v", out["time"])
	}
}

func TestNormalizeDefinition_JSONString(t *testing.T) {
	out, err := NormalizeDefinition(`{"widgets":[{"kind":"kpi"}],"custom":true}`)
	if err != nil {
		t.Fatal(err)
	}
	widgets, ok := out["widgets"].([]any)
	if !ok || len(widgets) != 1 {
		t.Errorf("expected one widget, got %v", out["widgets"])
	}
	if out["custom"] != true {
		t.Error("extra fields must survive normalization")
	}
	if _, ok := out["layout"].(map[string]any); !ok {
		t.Error("layout must be defaulted")
	}
}

func TestNormalizeDefinition_BadStringFallsThrough(t *testing.T) {
	// An unparsable string stays a string, which is not an object.
	_, err := NormalizeDefinition("not json")
	if !errors.Is(err, ErrDefinitionNotObject) {
		t.Fatalf("expected ErrDefinitionNotObject, got %v", err)
	}
}

func TestNormalizeDefinition_NonObject(t *testing.T) {
	for _, in := range []any{42, []any{"a"}, true} {
		if _, err := NormalizeDefinition(in); !errors.Is(err, ErrDefinitionNotObject) {
			t.Errorf("NormalizeDefinition(%v): expected ErrDefinitionNotObject, got %v", in, err)
		}
	}
}

func TestNormalizeDefinition_PreservesExistingSubFields(t *testing.T) {
	in := map[string]any{
		"time":   map[string]any{"mode": "fixed"},
		"layout": map[string]any{"grid": map[string]any{"cols": 6}},
	}
	out, err := NormalizeDefinition(in)
	if err != nil {
		t.Fatal(err)
	}
	if out["time"].(map[string]any)["mode"] != "fixed" {
		t.Error("explicit time document must be preserved")
	}
	if out["layout"].(map[string]any)["grid"].(map[string]any)["cols"] != 6 {
		t.Error("explicit layout document must be preserved")
	}
	if _, mutated := in["widgets"]; mutated {
		t.Error("input map must not be mutated")
	}
}

func TestNormalizeVisibility(t *testing.T) {
	if NormalizeVisibility("public") != VisibilityPublic {
		t.Error("public must normalize to public")
	}
	if NormalizeVisibility(" PUBLIC ") != VisibilityPublic {
		t.Error("visibility comparison is case-insensitive")
	}
	for _, v := range []string{"", "private", "hidden"} {
		if NormalizeVisibility(v) != VisibilityPrivate {
			t.Errorf("NormalizeVisibility(%q) should be private", v)
		}
	}
}
