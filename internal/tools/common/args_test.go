package common

import "testing"

func TestOptString(t *testing.T) {
	args := map[string]interface{}{
		"present": "value",
		"empty":   "",
		"number":  42.0,
	}

	if got := OptString(args, "present"); got == nil || *got != "value" {
		t.Errorf("OptString(present) = %v", got)
	}
	// An explicit empty string stays distinguishable from absence.
	if got := OptString(args, "empty"); got == nil || *got != "" {
		t.Errorf("OptString(empty) = %v", got)
	}
	if got := OptString(args, "missing"); got != nil {
		t.Errorf("OptString(missing) = %v, want nil", got)
	}
	if got := OptString(args, "number"); got != nil {
		t.Errorf("OptString(number) = %v, want nil", got)
	}
}

func TestStringArg(t *testing.T) {
	args := map[string]interface{}{
		"name":  "jane",
		"blank": "",
	}

	if v, ok := StringArg(args, "name"); !ok || v != "jane" {
		t.Errorf("StringArg(name) = %q, %v", v, ok)
	}
	if _, ok := StringArg(args, "blank"); ok {
		t.Error("StringArg(blank) should report not supplied")
	}
	if _, ok := StringArg(args, "missing"); ok {
		t.Error("StringArg(missing) should report not supplied")
	}
}

func TestIntArg(t *testing.T) {
	args := map[string]interface{}{
		"size": 30.0,
		"text": "nope",
	}

	if got := IntArg(args, "size", 50); got != 30 {
		t.Errorf("IntArg(size) = %d", got)
	}
	if got := IntArg(args, "missing", 50); got != 50 {
		t.Errorf("IntArg(missing) = %d, want fallback", got)
	}
	if got := IntArg(args, "text", 50); got != 50 {
		t.Errorf("IntArg(text) = %d, want fallback", got)
	}
}
