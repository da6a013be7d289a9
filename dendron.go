// dendron.go: structured, asynchronous, multi-sink logging for
// server-class applications
//
// Producers emit through a Logger leaf bound to a Group; Groups form an
// inheritance tree supplying sink and level defaults with override/reset
// semantics; a LoggingSystem registry ties sinks, groups, and loggers
// together and can be built declaratively from a YAML document via a
// chain of Configurators. See group.go, logger.go, system.go,
// configurator.go, and the concrete sink_*.go files for the pieces.
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package dendron

// New builds a LoggingSystem from one or more configurators and applies
// them immediately (spec §6's "Construct LoggingSystem with zero or
// more configurators" followed by configure()). Most applications only
// need this single entry point; NewLoggingSystem plus a manual Configure
// call is available for callers who want to inspect the topology or
// install a dendronwatch.Watcher between construction and configuration.
func New(configurators ...Configurator) (*LoggingSystem, Result) {
	system := NewLoggingSystem(configurators...)
	return system, system.Configure()
}
