package model

import (
	"strings"
)

// ID identifies a class or enum within one Model. IDs are assigned in
// creation order and never reused, so they are stable for the lifetime of the
// model and safe to key registries by.
type ID uint64

// Declaration is a module member that can carry a binding style: a class or an enum.
type Declaration interface {
	ID() ID
	DeclName() string
	DeclModule() *Module
	FullName() string
}

type Model struct {
	Modules []*Module

	nextID ID
}

func New() *Model {
	return &Model{}
}

// NewModule appends a module. An empty name denotes the root module, which is
// emitted without a namespace wrapper.
func (m *Model) NewModule(name string) *Module {
	mod := &Module{Name: name, model: m}
	m.Modules = append(m.Modules, mod)
	return mod
}

// Module returns the first module with the given name.
func (m *Model) Module(name string) *Module {
	for _, mod := range m.Modules {
		if mod.Name == name {
			return mod
		}
	}
	return nil
}

// Lookup finds a class or enum by its full name (Module.Name + "." + Name).
func (m *Model) Lookup(fullName string) Declaration {
	for _, mod := range m.Modules {
		for _, c := range mod.Classes {
			if c.FullName() == fullName {
				return c
			}
		}
		for _, e := range mod.Enums {
			if e.FullName() == fullName {
				return e
			}
		}
	}
	return nil
}

func (m *Model) id() ID {
	m.nextID++
	return m.nextID
}

type Module struct {
	Name    string // host namespace, "" for root
	Classes []*Class
	Enums   []*Enum

	model *Model
}

// NewClass appends a class to the module.
func (m *Module) NewClass(name string) *Class {
	c := &Class{id: m.model.id(), Name: name, Module: m}
	m.Classes = append(m.Classes, c)
	return c
}

// NewEnum appends an enum to the module.
func (m *Module) NewEnum(name string, values ...EnumValue) *Enum {
	e := &Enum{id: m.model.id(), Name: name, Module: m, Values: values}
	m.Enums = append(m.Enums, e)
	return e
}

// Find returns the class or enum named name declared directly in m.
func (m *Module) Find(name string) Declaration {
	for _, c := range m.Classes {
		if c.Name == name {
			return c
		}
	}
	for _, e := range m.Enums {
		if e.Name == name {
			return e
		}
	}
	return nil
}

type Class struct {
	Name             string
	Module           *Module
	GenericArguments []*TypeRef // ordered; parameters on a definition
	Base             *TypeRef   // nil when the class has no base type
	Properties       []*Member
	Fields           []*Member
	Constants        []*Constant
	Ignored          bool

	id ID
}

func (c *Class) ID() ID              { return c.id }
func (c *Class) DeclName() string    { return c.Name }
func (c *Class) DeclModule() *Module { return c.Module }
func (c *Class) FullName() string    { return fullName(c.Module, c.Name) }

// Extends sets the base type and returns c.
func (c *Class) Extends(base *TypeRef) *Class {
	c.Base = base
	return c
}

// Generic appends generic arguments and returns c.
func (c *Class) Generic(args ...*TypeRef) *Class {
	c.GenericArguments = append(c.GenericArguments, args...)
	return c
}

func (c *Class) AddProperty(name string, t *TypeRef) *Member {
	p := &Member{Name: name, Type: t}
	c.Properties = append(c.Properties, p)
	return p
}

func (c *Class) AddField(name string, t *TypeRef) *Member {
	f := &Member{Name: name, Type: t}
	c.Fields = append(c.Fields, f)
	return f
}

func (c *Class) AddConstant(name string, t *TypeRef, value string) *Constant {
	k := &Constant{Member: Member{Name: name, Type: t}, Value: value}
	c.Constants = append(c.Constants, k)
	return k
}

// HasMembers reports whether c declares any property or field.
func (c *Class) HasMembers() bool {
	return len(c.Properties) > 0 || len(c.Fields) > 0
}

type Enum struct {
	Name    string
	Module  *Module
	Values  []EnumValue
	Ignored bool

	id ID
}

func (e *Enum) ID() ID              { return e.id }
func (e *Enum) DeclName() string    { return e.Name }
func (e *Enum) DeclModule() *Module { return e.Module }
func (e *Enum) FullName() string    { return fullName(e.Module, e.Name) }

type EnumValue struct {
	Name  string
	Value string // literal, emitted verbatim
}

type Member struct {
	Name     string
	Type     *TypeRef
	Optional bool
	Ignored  bool
}

type Constant struct {
	Member
	Value string // literal; string-typed values are quoted on emission
}

func fullName(m *Module, name string) string {
	if m == nil || m.Name == "" {
		return name
	}
	var b strings.Builder
	b.Grow(len(m.Name) + 1 + len(name))
	b.WriteString(m.Name)
	b.WriteByte('.')
	b.WriteString(name)
	return b.String()
}
