package generator

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/cmmoran/komodelgen/pkg/model"
)

const arraySuffix = "[]"

// formatter resolves the emitted identifier of any type reference.
type formatter struct {
	tags       *TagRegistry
	converters ConversionRegistry
	moduleName func(*model.Module) string
}

// needsInterfacePrefix is true for untagged classes and wrapped interfaces.
// Plain and wrapped classes keep their bare name. The declaration emitter
// consults the registry on its own, so an untagged class is referenced with
// the prefix no matter how its declaration is rendered.
func (f *formatter) needsInterfacePrefix(c *model.Class) bool {
	switch f.tags.Resolve(c) {
	case StyleDefault, StyleWrappedInterface:
		return true
	}
	return false
}

// className renders a class name with its interface prefix and generic
// arguments. args overrides the class's own generic arguments when non-empty.
func (f *formatter) className(c *model.Class, args []*model.TypeRef) (string, error) {
	name := c.Name
	if f.needsInterfacePrefix(c) {
		name = "I" + name
	}
	if len(args) == 0 {
		args = c.GenericArguments
	}
	if len(args) == 0 {
		return name, nil
	}

	rendered := make([]string, len(args))
	for i, a := range args {
		var (
			s   string
			err error
		)
		if a != nil && a.Kind == model.KindCollection {
			s, err = f.propertyType(a)
		} else {
			s, err = f.qualifiedName(a)
		}
		if err != nil {
			return "", errors.Wrapf(err, "generic argument %d of %s", i, c.FullName())
		}
		rendered[i] = s
	}
	return name + "<" + strings.Join(rendered, ", ") + ">", nil
}

// typeName renders t without module qualification.
func (f *formatter) typeName(t *model.TypeRef) (string, error) {
	if t == nil {
		return "", errors.Wrap(ErrUnresolvableType, "nil type reference")
	}
	if s, ok := f.converters.Convert(t); ok {
		return s, nil
	}

	switch t.Kind {
	case model.KindClass:
		if t.Class == nil {
			return "", errors.Wrap(ErrUnresolvableType, "class reference without a class")
		}
		return f.className(t.Class, t.Args)
	case model.KindEnum:
		if t.Enum == nil {
			return "", errors.Wrap(ErrUnresolvableType, "enum reference without an enum")
		}
		return t.Enum.Name, nil
	case model.KindGenericParam:
		if t.Name == "" {
			return "", errors.Wrap(ErrUnresolvableType, "unnamed generic parameter")
		}
		return t.Name, nil
	case model.KindCollection:
		return f.typeName(t.Elem)
	case model.KindPrimitive:
		return "", errors.WithHintf(
			errors.Wrapf(ErrUnresolvableType, "%q has no registered rendering", t.Name),
			"register a converter for %q or declare it in the model", t.Name,
		)
	}
	return "", errors.Wrapf(ErrUnresolvableType, "type of kind %s", t.Kind)
}

// qualifiedName renders t prefixed with its module name. Collections resolve
// to their element's name without the array suffix.
func (f *formatter) qualifiedName(t *model.TypeRef) (string, error) {
	name, err := f.typeName(t)
	if err != nil {
		return "", err
	}
	if f.converters.IsConverted(t.HostName()) {
		return name, nil
	}

	var mod *model.Module
	switch t.Kind {
	case model.KindClass:
		mod = t.Class.Module
	case model.KindEnum:
		mod = t.Enum.Module
	case model.KindCollection:
		return f.qualifiedName(t.Elem)
	}
	if mod == nil {
		return name, nil
	}
	if prefix := f.moduleName(mod); prefix != "" {
		return prefix + "." + name, nil
	}
	return name, nil
}

// propertyType renders the declared type of a member: the qualified name,
// with one array suffix per collection level.
func (f *formatter) propertyType(t *model.TypeRef) (string, error) {
	if t != nil && t.Kind == model.KindCollection {
		elem, err := f.propertyType(t.Elem)
		if err != nil {
			return "", err
		}
		return elem + arraySuffix, nil
	}
	return f.qualifiedName(t)
}

// baseName renders the extends target of c, dropping the qualifier of c's own
// module since the declaration already sits inside that namespace.
func (f *formatter) baseName(c *model.Class) (string, error) {
	base := c.Base
	if base == nil {
		return "", nil
	}
	switch base.Kind {
	case model.KindClass:
		if base.Class == nil {
			return "", errors.Wrapf(ErrUnresolvableBaseType, "class %s", c.FullName())
		}
	case model.KindPrimitive, model.KindGenericParam:
		if base.Name == "" {
			return "", errors.Wrapf(ErrUnresolvableBaseType, "class %s", c.FullName())
		}
	default:
		return "", errors.Wrapf(ErrUnresolvableBaseType, "class %s extends a %s", c.FullName(), base.Kind)
	}

	name, err := f.qualifiedName(base)
	if err != nil {
		return "", errors.Mark(errors.Wrapf(err, "base type of %s", c.FullName()), ErrUnresolvableBaseType)
	}
	if name == "" {
		return "", errors.Wrapf(ErrUnresolvableBaseType, "class %s", c.FullName())
	}
	if own := f.moduleName(c.Module); own != "" {
		name = strings.TrimPrefix(name, own+".")
	}
	return name, nil
}
