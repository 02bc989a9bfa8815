package generator

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/cmmoran/komodelgen/pkg/model"
)

// Style is the binding style a class is rendered with.
type Style int

const (
	StyleDefault          Style = iota // host dialect's own rendering
	StyleWrappedClass                  // class with observable members
	StyleWrappedInterface              // interface describing the observable contract
	StylePlain                         // class with plain typed members
)

func (s Style) String() string {
	switch s {
	case StyleDefault:
		return "default"
	case StyleWrappedClass:
		return "wrapped-class"
	case StyleWrappedInterface:
		return "wrapped-interface"
	case StylePlain:
		return "plain"
	default:
		return fmt.Sprintf("Style(%d)", int(s))
	}
}

func (s Style) valid() bool {
	return s >= StyleDefault && s <= StylePlain
}

// ErrUnknownStyle is returned by ParseStyle for names it does not recognise.
var ErrUnknownStyle = errors.New("unknown binding style")

// ParseStyle maps a style name onto a Style. The knockout-era names
// ko-class, ko-interface and poco are accepted as aliases.
func ParseStyle(name string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "default":
		return StyleDefault, nil
	case "wrapped-class", "class", "ko-class", "observable":
		return StyleWrappedClass, nil
	case "wrapped-interface", "interface", "ko-interface":
		return StyleWrappedInterface, nil
	case "plain", "poco":
		return StylePlain, nil
	}
	return StyleDefault, errors.WithHint(
		errors.Wrapf(ErrUnknownStyle, "%q", name),
		"use wrapped-class, wrapped-interface, plain or default",
	)
}

// TagRegistry maps classes and enums to binding styles, keyed by model ID so
// two declarations sharing a name in different modules stay distinct.
//
// A registry is not safe for concurrent use; configure it before generation
// and do not share it between overlapping runs.
type TagRegistry struct {
	tags map[model.ID]Style
}

func NewTagRegistry() *TagRegistry {
	return &TagRegistry{tags: make(map[model.ID]Style)}
}

// Set assigns s to d, overwriting any earlier assignment. StyleDefault is
// the absence of a tag: setting it drops d's assignment.
func (r *TagRegistry) Set(d model.Declaration, s Style) {
	if d == nil {
		return
	}
	if !s.valid() {
		panic(fmt.Sprintf("invalid binding style %d", int(s)))
	}
	if s == StyleDefault {
		delete(r.tags, d.ID())
		return
	}
	r.tags[d.ID()] = s
}

// Get returns the style assigned to d, if any.
func (r *TagRegistry) Get(d model.Declaration) (Style, bool) {
	if d == nil {
		return StyleDefault, false
	}
	s, ok := r.tags[d.ID()]
	return s, ok
}

// Resolve returns the style assigned to d, or StyleDefault.
func (r *TagRegistry) Resolve(d model.Declaration) Style {
	s, _ := r.Get(d)
	return s
}

func (r *TagRegistry) Len() int {
	return len(r.tags)
}

// Clear drops every assignment.
func (r *TagRegistry) Clear() {
	clear(r.tags)
}

// For returns a chainable builder that assigns styles to d.
func (r *TagRegistry) For(d model.Declaration) *MemberConfig {
	return &MemberConfig{registry: r, member: d}
}

// MemberConfig assigns a binding style to one declaration.
type MemberConfig struct {
	registry *TagRegistry
	member   model.Declaration
}

func (c *MemberConfig) Member() model.Declaration { return c.member }

func (c *MemberConfig) AsWrappedClass() *MemberConfig {
	c.registry.Set(c.member, StyleWrappedClass)
	return c
}

func (c *MemberConfig) AsWrappedInterface() *MemberConfig {
	c.registry.Set(c.member, StyleWrappedInterface)
	return c
}

func (c *MemberConfig) AsPlain() *MemberConfig {
	c.registry.Set(c.member, StylePlain)
	return c
}
