package generator

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/cmmoran/komodelgen/pkg/model"
)

// appendClass renders c according to its binding style and records it as
// generated. A class already generated in this run is skipped.
func (g *Generator) appendClass(sb *scriptBuilder, c *model.Class, output Output) error {
	if g.generated.Has(c.ID()) {
		return nil
	}

	style := g.tags.Resolve(c)
	if g.opts.AnnotateStyles {
		sb.AppendLineIndented("// " + c.Name + " (" + style.String() + ")")
	}

	var err error
	switch style {
	case StyleWrappedClass:
		err = g.appendConcreteClass(sb, c, output, formObservable)
	case StylePlain:
		err = g.appendConcreteClass(sb, c, output, formPlain)
	case StyleWrappedInterface:
		err = g.appendInterface(sb, c, output, formObservableSpec)
	case StyleDefault:
		err = g.appendInterface(sb, c, output, formDefault)
	}
	if err != nil {
		return err
	}

	g.generated.Set(c.ID(), c)
	g.log.Debug("emitted class", "class", c.FullName(), "style", style.String())
	return nil
}

func (g *Generator) visibility(d model.Declaration, typeName string) string {
	if g.opts.Visibility(d, typeName) {
		return "export "
	}
	return ""
}

// appendConcreteClass renders a class declaration. A derived class gets a
// zero-argument constructor delegating to its base, which the dialect
// requires once fields are initialized inline.
func (g *Generator) appendConcreteClass(sb *scriptBuilder, c *model.Class, output Output, form memberForm) error {
	typeName, err := g.format.className(c, nil)
	if err != nil {
		return err
	}
	baseName, err := g.format.baseName(c)
	if err != nil {
		return err
	}

	// render the body first so a failing member leaves no partial declaration
	body := newScriptBuilder(g.opts.Indentation)
	body.level = sb.level
	if err = g.appendMembers(body, c, output, form); err != nil {
		return err
	}

	sb.AppendIndented(g.visibility(c, typeName) + "class " + typeName)
	if baseName != "" {
		sb.AppendLine(" extends " + baseName + " {")
		sb.Indent()
		sb.AppendLineIndented("constructor() {")
		sb.Indent()
		sb.AppendLineIndented("super();")
		sb.Dedent()
		sb.AppendLineIndented("}")
		sb.Dedent()
	} else {
		sb.AppendLine(" {")
	}
	sb.Append(body.String())
	sb.AppendLineIndented("}")
	return nil
}

// appendInterface renders an interface declaration. Wrapped interfaces force
// every member into the observable signature form; untagged classes fall
// back to the dialect's plain interface rendering. As with classes, the
// extends clause drops the qualifier of c's own module.
func (g *Generator) appendInterface(sb *scriptBuilder, c *model.Class, output Output, form memberForm) error {
	typeName, err := g.format.className(c, nil)
	if err != nil {
		return err
	}
	baseName, err := g.format.baseName(c)
	if err != nil {
		return err
	}

	body := newScriptBuilder(g.opts.Indentation)
	body.level = sb.level
	if err = g.appendMembers(body, c, output, form); err != nil {
		return err
	}

	sb.AppendIndented(g.visibility(c, typeName) + "interface " + typeName)
	if baseName != "" {
		sb.Append(" extends " + baseName)
	}
	sb.AppendLine(" {")
	sb.Append(body.String())
	sb.AppendLineIndented("}")
	return nil
}

func (g *Generator) appendEnum(sb *scriptBuilder, e *model.Enum) {
	constSpecifier := ""
	if g.opts.ConstEnums {
		constSpecifier = "const "
	}
	sb.AppendLineIndented(g.visibility(e, e.Name) + constSpecifier + "enum " + e.Name + " {")
	sb.Indent()
	for i, v := range e.Values {
		line := v.Name
		if v.Value != "" {
			line += " = " + v.Value
		}
		if i < len(e.Values)-1 {
			line += ","
		}
		sb.AppendLineIndented(line)
	}
	sb.Dedent()
	sb.AppendLineIndented("}")
}

// appendConstants renders c's constants as static members of an exported class.
func (g *Generator) appendConstants(sb *scriptBuilder, c *model.Class) error {
	if len(c.Constants) == 0 {
		return nil
	}
	typeName, err := g.format.className(c, nil)
	if err != nil {
		return err
	}

	lines := make([]string, 0, len(c.Constants))
	for _, k := range c.Constants {
		if k == nil || k.Ignored {
			continue
		}
		propType, err := g.format.propertyType(k.Type)
		if err != nil {
			return errors.Wrapf(err, "constant %s.%s", c.FullName(), k.Name)
		}
		lines = append(lines, "static "+g.opts.MemberName(&k.Member)+": "+propType+" = "+constantValue(k)+";")
	}

	sb.AppendLineIndented("export class " + typeName + " {")
	sb.Indent()
	for _, l := range lines {
		sb.AppendLineIndented(l)
	}
	sb.Dedent()
	sb.AppendLineIndented("}")
	return nil
}

func constantValue(k *model.Constant) string {
	if !k.Type.IsString() {
		return k.Value
	}
	if len(k.Value) >= 2 && (strings.HasPrefix(k.Value, `"`) && strings.HasSuffix(k.Value, `"`) ||
		strings.HasPrefix(k.Value, "'") && strings.HasSuffix(k.Value, "'")) {
		return k.Value
	}
	return strconv.Quote(k.Value)
}
