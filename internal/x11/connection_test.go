package x11

import (
	"errors"
	"testing"
)

func TestDial_NoDisplay(t *testing.T) {
	t.Setenv("DISPLAY", "")

	if _, err := Dial(""); !errors.Is(err, ErrNoDisplay) {
		t.Fatalf("Dial(\"\") error = %v, want ErrNoDisplay", err)
	}
}
