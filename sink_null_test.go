// sink_null_test.go: tests for the drain-and-drop sink
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package dendron

import "testing"

func TestNullSinkDropsEverything(t *testing.T) {
	s := NewNullSink(NullSinkName)
	defer s.Finalize()

	s.Push("app", Critical, "this goes nowhere")
	s.Flush() // must not panic, nothing to observe

	if s.Name() != NullSinkName {
		t.Fatalf("expected name %q, got %q", NullSinkName, s.Name())
	}
}

func TestNullSinkRotateAndFinalizeAreSafe(t *testing.T) {
	s := NewNullSink(NullSinkName)
	s.Rotate()
	s.Finalize() // must not block or panic
}
