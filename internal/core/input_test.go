package core

import "testing"

func TestInputFrame(t *testing.T) {
	f := NewInputFrame()
	if !f.Empty() {
		t.Error("new frame should be empty")
	}

	f.Set(ActionHold)
	if !f.Has(ActionHold) || f.Has(ActionHardDrop) {
		t.Error("Has() should report only the set action")
	}

	clone := f.Clone()
	f.Clear()
	if !f.Empty() {
		t.Error("Clear() should empty the frame")
	}
	if !clone.Has(ActionHold) {
		t.Error("Clone() should be independent of the original")
	}
}

func TestZeroInputFrame(t *testing.T) {
	var f InputFrame
	if f.Has(ActionPause) {
		t.Error("zero frame should have no actions")
	}
	f.Set(ActionPause)
	if !f.Has(ActionPause) {
		t.Error("Set() on zero frame should allocate")
	}
}

func TestActionString(t *testing.T) {
	if ActionRotateCCW.String() != "RotateCCW" {
		t.Errorf("String() = %q", ActionRotateCCW.String())
	}
	if Action(999).String() != "Unknown" {
		t.Error("unknown actions should stringify as Unknown")
	}
}
