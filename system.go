// system.go: the registry of sinks, groups, and live loggers (spec §2 C7,
// §4.7)
//
// Grounded on original_source/logging_system.hpp for the responsibility
// split (one registry owning sinks and groups, handing out loggers by
// weak reference) and on agilira-iris/management.go's mutator-returns-
// bool-on-missing-name idiom. The weak-reference logger registry is
// implemented with the standard library's weak package (Go 1.24), which
// gives dendron the same "registry doesn't keep loggers alive" shared/
// weak-ownership split the spec's Design Notes (§9) call for, without
// reaching for a hand-rolled finalizer scheme.
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package dendron

import (
	"sync"
	"sync/atomic"
	"weak"
)

type systemState int32

const (
	stateUnconfigured systemState = iota
	stateConfiguring
	stateConfigured
)

// LoggingSystem is the registry described in spec §3/§4.7: a single
// monitor lock guards the three name->entity maps, but the hot producer
// path (Sink.Push, Logger.emit) never touches it.
type LoggingSystem struct {
	mu sync.Mutex // the monitor lock; covers sinks/groups/loggers only

	sinks   map[string]Sink
	groups  map[string]*Group
	loggers map[string]weak.Pointer[Logger]

	fallbackGroup *Group

	configurators []Configurator
	state         int32 // systemState, atomic
}

// NewLoggingSystem constructs a registry with the always-present null
// sink installed under NullSinkName (spec §3) and the given configurator
// chain, applied later by Configure.
func NewLoggingSystem(configurators ...Configurator) *LoggingSystem {
	return &LoggingSystem{
		sinks:         map[string]Sink{NullSinkName: NewNullSink(NullSinkName)},
		groups:        make(map[string]*Group),
		loggers:       make(map[string]weak.Pointer[Logger]),
		configurators: configurators,
	}
}

// Configure invokes the configurator chain exactly once (spec §4.7).
// A second call returns a Result with HasError set and raises
// ErrCodeAlreadyConfigured to the installed error handler, rather than
// mutating topology again.
func (s *LoggingSystem) Configure() Result {
	if !atomic.CompareAndSwapInt32(&s.state, int32(stateUnconfigured), int32(stateConfiguring)) {
		err := newError(ErrCodeAlreadyConfigured, "Configure called more than once")
		reportError(err)
		return Result{HasError: true, Message: "E: logging system already configured"}
	}

	result := Result{}
	for _, c := range s.configurators {
		result = result.merge(c.Apply(s))
	}

	s.mu.Lock()
	if s.fallbackGroup == nil && len(s.groups) > 0 {
		// No configurator designated a fallback (YAMLConfigurator already
		// picks its document's first root group): a root group becomes
		// fallback. With several root groups, which one is picked follows
		// map iteration order and is not defined.
		for _, g := range s.groups {
			if g.Parent() == nil {
				s.fallbackGroup = g
				break
			}
		}
	}
	s.mu.Unlock()

	atomic.StoreInt32(&s.state, int32(stateConfigured))
	return result
}

func (s *LoggingSystem) configured() bool {
	return atomic.LoadInt32(&s.state) == int32(stateConfigured)
}

// GetLogger resolves or creates a logger named name. If one already
// exists and is still live, it is returned unchanged (remaining
// arguments are ignored, spec §4.7). Otherwise groupName is resolved,
// falling back to the designated fallback group (with a warning event
// pushed under the internal logger name to the null sink, see warnf) if
// it doesn't exist.
func (s *LoggingSystem) GetLogger(name, groupName string, sinkName *string, level *Level) (*Logger, error) {
	if !s.configured() {
		return nil, newError(ErrCodeInvalidConfig, "GetLogger called before Configure")
	}

	s.mu.Lock()
	if wp, ok := s.loggers[name]; ok {
		if lg := wp.Value(); lg != nil {
			s.mu.Unlock()
			return lg, nil
		}
		delete(s.loggers, name)
	}

	group, ok := s.groups[groupName]
	if !ok {
		group = s.fallbackGroup
		s.mu.Unlock()
		s.warnf("unknown group %q, falling back to %q", groupName, fallbackName(group))
		s.mu.Lock()
	}

	lg := newLogger(name, group)
	if sinkName != nil {
		if sink, ok := s.sinks[*sinkName]; ok {
			lg.SetSink(sink)
		}
	}
	if level != nil {
		lg.SetLevel(*level)
	}
	s.loggers[name] = weak.Make(lg)
	s.mu.Unlock()
	return lg, nil
}

func fallbackName(g *Group) string {
	if g == nil {
		return "*"
	}
	return g.Name()
}

// warnf pushes a warning Event under the internal logger name to the null
// sink, which discards it, for diagnostics that aren't errors (unknown
// group fallback, duplicate-name overwrite). It holds the registry lock
// only while looking the sink up, never during the Push.
func (s *LoggingSystem) warnf(format string, args ...any) {
	s.mu.Lock()
	sink, ok := s.sinks[NullSinkName]
	s.mu.Unlock()
	if !ok {
		return
	}
	sink.Push(internalLoggerName, Warning, format, args...)
}

// MakeSink installs sink under its own Name(). A name collision
// overwrites the previous entry with a warning (spec §4.7).
func (s *LoggingSystem) MakeSink(sink Sink) {
	s.mu.Lock()
	_, existed := s.sinks[sink.Name()]
	s.sinks[sink.Name()] = sink
	s.mu.Unlock()
	if existed {
		s.warnf("sink %q redefined, overwriting previous definition", sink.Name())
	}
}

// Sink returns the sink registered under name, if any.
func (s *LoggingSystem) Sink(name string) (Sink, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sk, ok := s.sinks[name]
	return sk, ok
}

// MakeGroup installs a root group named name with the given sink/level.
// A name collision overwrites the previous entry with a warning.
func (s *LoggingSystem) MakeGroup(name string, sink Sink, level Level) *Group {
	g := newGroup(name, sink, level)
	s.mu.Lock()
	_, existed := s.groups[name]
	s.groups[name] = g
	s.mu.Unlock()
	if existed {
		s.warnf("group %q redefined, overwriting previous definition", name)
	}
	return g
}

// Group returns the group registered under name, if any.
func (s *LoggingSystem) Group(name string) (*Group, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.groups[name]
	return g, ok
}

// SetFallbackGroup designates the group registered under name as the
// fallback used by GetLogger for unknown group names (spec §6). Returns
// false if no such group is registered.
func (s *LoggingSystem) SetFallbackGroup(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.groups[name]
	if !ok {
		return false
	}
	s.fallbackGroup = g
	return true
}

// CallRotateForAllSinks forwards Rotate to every registered sink (spec §6).
func (s *LoggingSystem) CallRotateForAllSinks() {
	s.mu.Lock()
	sinks := make([]Sink, 0, len(s.sinks))
	for _, sk := range s.sinks {
		sinks = append(sinks, sk)
	}
	s.mu.Unlock()
	for _, sk := range sinks {
		sk.Rotate()
	}
}

// liveLoggersOn returns every currently-live logger attached to group,
// used by group mutators to refresh loggers after propagation
// (spec §4.6 step 4). Dead weak references are pruned opportunistically.
func (s *LoggingSystem) liveLoggersOn(groups map[*Group]bool) []*Logger {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Logger
	for name, wp := range s.loggers {
		lg := wp.Value()
		if lg == nil {
			delete(s.loggers, name)
			continue
		}
		if groups[lg.Group()] {
			out = append(out, lg)
		}
	}
	return out
}

// --- Group mutators (spec §4.7, §4.6) ---

// SetSinkOfGroup overrides the named group's sink and propagates the
// change to non-overriding descendants and their live loggers. Returns
// false if the group doesn't exist.
func (s *LoggingSystem) SetSinkOfGroup(name string, sink Sink) bool {
	g, ok := s.Group(name)
	if !ok {
		return false
	}
	g.setSinkLocal(sink, true)
	refreshed := bfsPropagate(g,
		func(c *Group) bool { return c.SinkOverridden() },
		func(c *Group) { c.refreshSinkFromParent(c.Parent()) },
	)
	s.refreshLoggers(append(refreshed, g))
	return true
}

// ResetSinkOfGroup clears the named group's sink override, reverting to
// its parent's effective sink (a no-op on sink value if the group has no
// parent, spec §8 round-trip property).
func (s *LoggingSystem) ResetSinkOfGroup(name string) bool {
	g, ok := s.Group(name)
	if !ok {
		return false
	}
	if p := g.Parent(); p != nil {
		g.setSinkLocal(p.Sink(), false)
	} else {
		g.setSinkLocal(g.Sink(), false)
	}
	refreshed := bfsPropagate(g,
		func(c *Group) bool { return c.SinkOverridden() },
		func(c *Group) { c.refreshSinkFromParent(c.Parent()) },
	)
	s.refreshLoggers(append(refreshed, g))
	return true
}

// SetLevelOfGroup overrides the named group's level and propagates.
func (s *LoggingSystem) SetLevelOfGroup(name string, level Level) bool {
	g, ok := s.Group(name)
	if !ok {
		return false
	}
	g.setLevelLocal(level, true)
	refreshed := bfsPropagate(g,
		func(c *Group) bool { return c.LevelOverridden() },
		func(c *Group) { c.refreshLevelFromParent(c.Parent()) },
	)
	s.refreshLoggers(append(refreshed, g))
	return true
}

// ResetLevelOfGroup clears the named group's level override.
func (s *LoggingSystem) ResetLevelOfGroup(name string) bool {
	g, ok := s.Group(name)
	if !ok {
		return false
	}
	if p := g.Parent(); p != nil {
		g.setLevelLocal(p.Level(), false)
	} else {
		g.setLevelLocal(g.Level(), false)
	}
	refreshed := bfsPropagate(g,
		func(c *Group) bool { return c.LevelOverridden() },
		func(c *Group) { c.refreshLevelFromParent(c.Parent()) },
	)
	s.refreshLoggers(append(refreshed, g))
	return true
}

// SetParentOfGroup reattaches group name under parentName, refreshing
// every non-overriding descendant's sink and level. Fails with
// ErrCodeGroupCycle if parentName transitively descends from name
// (spec §4.6) — except the direct two-node swap (parentName's current
// parent is name itself), which first detaches parentName, promoting it
// to root, and then proceeds with the reattachment rather than failing.
func (s *LoggingSystem) SetParentOfGroup(name, parentName string) (bool, error) {
	g, ok := s.Group(name)
	if !ok {
		return false, nil
	}
	parent, ok := s.Group(parentName)
	if !ok {
		return false, nil
	}
	if parent.Parent() == g {
		g.detachChild(parent)
		parent.mu.Lock()
		parent.parent = nil
		parent.mu.Unlock()
	} else if isDescendantOf(parent, g) {
		return true, newError(ErrCodeGroupCycle, "setParent would create a cycle: "+parentName+" descends from "+name)
	}

	if old := g.Parent(); old != nil {
		old.detachChild(g)
	}
	g.mu.Lock()
	g.parent = parent
	g.mu.Unlock()
	parent.attachChild(g)

	refreshed := s.refreshFromParentIfNotOverridden(g)
	s.refreshLoggers(append(refreshed, g))
	return true, nil
}

// UnsetParentOfGroup promotes the named group to root (spec §6's
// unsetParent); non-overridden properties keep their last effective
// values since there is no longer a parent to inherit from.
func (s *LoggingSystem) UnsetParentOfGroup(name string) bool {
	g, ok := s.Group(name)
	if !ok {
		return false
	}
	if old := g.Parent(); old != nil {
		old.detachChild(g)
	}
	g.mu.Lock()
	g.parent = nil
	g.mu.Unlock()
	return true
}

// refreshFromParentIfNotOverridden re-reads sink/level for g from its
// (new) parent for whichever properties g does not override, then
// propagates further down g's own subtree exactly as a property mutation
// would (spec §4.6: a parent change affects both properties at once).
func (s *LoggingSystem) refreshFromParentIfNotOverridden(g *Group) []*Group {
	parent := g.Parent()
	if parent == nil {
		return nil
	}
	if !g.SinkOverridden() {
		g.refreshSinkFromParent(parent)
	}
	if !g.LevelOverridden() {
		g.refreshLevelFromParent(parent)
	}
	return bfsPropagate(g,
		func(c *Group) bool { return c.SinkOverridden() && c.LevelOverridden() },
		func(c *Group) {
			if !c.SinkOverridden() {
				c.refreshSinkFromParent(c.Parent())
			}
			if !c.LevelOverridden() {
				c.refreshLevelFromParent(c.Parent())
			}
		},
	)
}

// refreshLoggers updates every live logger attached to one of groups
// (spec §4.6 step 4).
func (s *LoggingSystem) refreshLoggers(groups []*Group) {
	set := make(map[*Group]bool, len(groups))
	for _, g := range groups {
		set[g] = true
	}
	for _, lg := range s.liveLoggersOn(set) {
		lg.refreshFromGroup()
	}
}

// --- Logger mutators ---

// SetSinkOfLogger overrides the named logger's sink.
func (s *LoggingSystem) SetSinkOfLogger(name string, sink Sink) bool {
	lg, ok := s.liveLoggerNamed(name)
	if !ok {
		return false
	}
	lg.SetSink(sink)
	return true
}

// ResetSinkOfLogger clears the named logger's sink override.
func (s *LoggingSystem) ResetSinkOfLogger(name string) bool {
	lg, ok := s.liveLoggerNamed(name)
	if !ok {
		return false
	}
	lg.ResetSink()
	return true
}

// SetLevelOfLogger overrides the named logger's level.
func (s *LoggingSystem) SetLevelOfLogger(name string, level Level) bool {
	lg, ok := s.liveLoggerNamed(name)
	if !ok {
		return false
	}
	lg.SetLevel(level)
	return true
}

// ResetLevelOfLogger clears the named logger's level override.
func (s *LoggingSystem) ResetLevelOfLogger(name string) bool {
	lg, ok := s.liveLoggerNamed(name)
	if !ok {
		return false
	}
	lg.ResetLevel()
	return true
}

// SetGroupOfLogger rebinds the named logger to a different group.
func (s *LoggingSystem) SetGroupOfLogger(name, groupName string) bool {
	lg, ok := s.liveLoggerNamed(name)
	if !ok {
		return false
	}
	g, ok := s.Group(groupName)
	if !ok {
		return false
	}
	lg.rebind(g)
	return true
}

func (s *LoggingSystem) liveLoggerNamed(name string) (*Logger, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wp, ok := s.loggers[name]
	if !ok {
		return nil, false
	}
	lg := wp.Value()
	if lg == nil {
		delete(s.loggers, name)
		return nil, false
	}
	return lg, true
}
