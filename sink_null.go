// sink_null.go: the always-present drain-and-drop sink
//
// Grounded on original_source's sink_to_nowhere.hpp: a Sink subclass
// whose flush does nothing but discard. dendron still routes it through
// sinkBase (spec §3 says every non-Multisink Sink owns a Ring) so the
// same Put/Commit/backpressure contract applies uniformly, but its
// consume hook simply drops the Event instead of rendering it.
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package dendron

// NullSinkName is the reserved name installed by LoggingSystem
// construction (spec §4.7, §4.6's "reserved name *").
const NullSinkName = "*"

// NullSink drains and drops every event it receives.
type NullSink struct {
	*sinkBase
}

// NewNullSink constructs a Null sink under the given name. LoggingSystem
// always installs one under NullSinkName at construction.
func NewNullSink(name string) *NullSink {
	base := newSinkBase(sinkBaseOptions{
		name:       name,
		latency:    0,
		dest:       noopDestination{},
		rotateFn:   nil,
		consume:    func(*sinkBase, *Event) {},
		bufferSize: 4096,
	})
	return &NullSink{sinkBase: base}
}
