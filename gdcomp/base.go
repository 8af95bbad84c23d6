// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gdcomp

import (
	"strings"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/griddyn/gdmode"
)

// AlertSink receives change alerts posted by components (spec.md §9: no
// upward pointer walk, components post to a queue instead).
type AlertSink interface {
	PostAlert(Alert)
}

// Base is the embeddable struct every concrete Component embeds, providing
// the fields common to the whole tree (spec.md §3 "GridComponent"): the
// flags bitset, OffsetTable, input/output sizes, base electrical
// quantities, local state/derivative caches, owned sub-objects, and the
// generic CoreObject identity fields.
type Base struct {
	id     int
	userId int
	name   string
	role   Role
	parent Component
	self   Component // set by Init to the embedding concrete type, for Find/Get dispatch

	Flags Flags
	Table *gdmode.Table

	InputSize  int
	OutputSize int

	SysFreqHz   float64
	BasePowerMVA float64
	BaseVoltageKV float64

	// LocalState/LocalDerivative hold this component's own states when it
	// is evaluated disconnected from a global solve (mode.Local).
	LocalState      []float64
	LocalDerivative []float64

	subObjects []Component
	byUserId   map[string]map[int]Component

	alertSink AlertSink

	outputTagCache map[string]int // name -> GetOutput index, populated lazily (spec.md §9)
}

// Init must be called by every concrete component's constructor with the
// embedding type itself, so CoreObject dispatch (Find, Set, ...) can reach
// the concrete overrides through the self-referential self field.
func (b *Base) Init(self Component, name string) {
	b.self = self
	b.name = name
	b.Table = gdmode.NewTable()
	b.byUserId = make(map[string]map[int]Component)
	b.outputTagCache = make(map[string]int)
}

func (b *Base) Id() int          { return b.id }
func (b *Base) UserId() int      { return b.userId }
func (b *Base) Name() string     { return b.name }
func (b *Base) Parent() Component { return b.parent }
func (b *Base) Role() Role       { return b.role }
func (b *Base) SetRole(r Role)   { b.role = r }

func (b *Base) OffsetTable() *gdmode.Table { return b.Table }

// AddSubObject adopts ownership of c: assigns it a user id unique among
// siblings of its concrete type name, sets its non-owning parent
// back-reference, and propagates this component's alert sink so changes
// deep in the tree still reach the simulation (spec.md §3 "Ownership").
func (b *Base) AddSubObject(c Component) error {
	if c == nil {
		return chk.Err("cannot add a nil sub-object to %q", b.name)
	}
	b.subObjects = append(b.subObjects, c)
	tn := typeNameOf(c)
	n := 0
	for _, s := range b.subObjects {
		if typeNameOf(s) == tn {
			n++
		}
	}
	if cb := baseOf(c); cb != nil {
		cb.userId = n
	}
	b.AssignUserId(c, tn, n)
	if bc, ok := c.(interface{ setParent(Component) }); ok {
		bc.setParent(b.self)
	}
	if bc, ok := c.(interface{ propagateAlertSink(AlertSink) }); ok && b.alertSink != nil {
		bc.propagateAlertSink(b.alertSink)
	}
	return nil
}

// setParent and propagateAlertSink are invoked reflectively (via the small
// interfaces above) so Base need not expose them on the public Component
// contract; every concrete type embedding *Base gets them for free.
func (b *Base) setParent(p Component) { b.parent = p }
func (b *Base) propagateAlertSink(s AlertSink) {
	b.alertSink = s
	for _, c := range b.subObjects {
		if bc, ok := c.(interface{ propagateAlertSink(AlertSink) }); ok {
			bc.propagateAlertSink(s)
		}
	}
}

// SetAlertSink designates the root's sink; called once by the simulation
// driver on the root Area.
func (b *Base) SetAlertSink(s AlertSink) { b.propagateAlertSink(s) }

// PostAlert forwards an alert to the configured sink, if any.
func (b *Base) PostAlert(code AlertCode, change gdmode.ChangeCode) {
	if b.alertSink == nil {
		return
	}
	b.alertSink.PostAlert(Alert{Source: b.self, Code: code, Change: change})
}

// RemoveSubObject destroys ownership of the named direct child.
func (b *Base) RemoveSubObject(name string) error {
	for i, c := range b.subObjects {
		if c.Name() == name {
			b.subObjects = append(b.subObjects[:i], b.subObjects[i+1:]...)
			return nil
		}
	}
	return chk.Err("no sub-object named %q on %q", name, b.name)
}

// ReplaceSubObject swaps the named child for a new one, preserving position.
func (b *Base) ReplaceSubObject(name string, c Component) error {
	for i, old := range b.subObjects {
		if old.Name() == name {
			b.subObjects[i] = c
			if bc, ok := c.(interface{ setParent(Component) }); ok {
				bc.setParent(b.self)
			}
			return nil
		}
	}
	return chk.Err("no sub-object named %q on %q to replace", name, b.name)
}

// SubObjects returns the owned children in insertion order (spec.md §5
// "sub-objects are evaluated in the order they were added").
func (b *Base) SubObjects() []Component { return b.subObjects }

// Find resolves a dotted path: the first segment names a direct child (by
// Name()), the remainder is delegated recursively.
func (b *Base) Find(name string) Component {
	head, rest, hasRest := cutDot(name)
	for _, c := range b.subObjects {
		if c.Name() == head {
			if !hasRest {
				return c
			}
			return c.Find(rest)
		}
	}
	return nil
}

// SubObject returns the index'th child whose concrete type name matches
// typeName (the name the child's TypeName method returns), or nil.
func (b *Base) SubObject(typeName string, index int) Component {
	n := 0
	for _, c := range b.subObjects {
		if typeNameOf(c) == typeName {
			if n == index {
				return c
			}
			n++
		}
	}
	return nil
}

// FindByUserId looks up a child of the given type by its assigned user id.
func (b *Base) FindByUserId(typeName string, id int) Component {
	if m, ok := b.byUserId[typeName]; ok {
		return m[id]
	}
	return nil
}

// AssignUserId records c's user id under its type name for FindByUserId.
// AddSubObject passes c's 1-based position among its same-type siblings.
func (b *Base) AssignUserId(c Component, typeName string, id int) {
	if b.byUserId[typeName] == nil {
		b.byUserId[typeName] = make(map[int]Component)
	}
	b.byUserId[typeName][id] = c
}

func cutDot(name string) (head, rest string, hasRest bool) {
	i := strings.IndexByte(name, '.')
	if i < 0 {
		return name, "", false
	}
	return name[:i], name[i+1:], true
}

func typeNameOf(c Component) string {
	if t, ok := c.(interface{ TypeName() string }); ok {
		return t.TypeName()
	}
	return ""
}

// CacheOutputTag caches a name -> GetOutput index mapping, avoiding repeated
// string lookups on hot paths like GetOutput("voltage") (spec.md §9).
func (b *Base) CacheOutputTag(name string, tag int) { b.outputTagCache[name] = tag }

// OutputTag returns a previously cached tag and whether it was found.
func (b *Base) OutputTag(name string) (int, bool) {
	tag, ok := b.outputTagCache[name]
	return tag, ok
}
