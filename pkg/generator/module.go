package generator

import (
	"slices"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/cmmoran/komodelgen/pkg/model"
)

// appendModule renders one module. Nothing is written when the module has
// nothing worth emitting for output.
func (g *Generator) appendModule(sb *scriptBuilder, mod *model.Module, output Output) error {
	classes := make([]*model.Class, 0, len(mod.Classes))
	for _, c := range mod.Classes {
		if g.skip(c, c.Ignored) {
			continue
		}
		classes = append(classes, c)
	}
	// declared order is kept: sorting would break inheritance

	baseClasses := make(map[string]bool)
	for _, c := range classes {
		if c.Base != nil {
			if name := c.Base.HostName(); name != "" {
				baseClasses[name] = true
			}
		}
	}

	enums := make([]*model.Enum, 0, len(mod.Enums))
	for _, e := range mod.Enums {
		if g.skip(e, e.Ignored) {
			continue
		}
		enums = append(enums, e)
	}
	slices.SortStableFunc(enums, func(a, b *model.Enum) int { return strings.Compare(a.Name, b.Name) })

	if reason := skipReason(output, classes, enums); reason != "" {
		g.log.Debug("skipping module", "module", mod.Name, "reason", reason)
		return nil
	}

	moduleName := g.moduleName(mod)
	header := moduleName != ""
	if header {
		if output != OutputEnums && !output.Has(OutputConstants) {
			if g.opts.Mode == ModeDefinitions {
				sb.Append("declare ")
			} else {
				sb.Append("export ")
			}
		}
		keyword := "module"
		if g.opts.Mode == ModeDefinitions {
			keyword = "namespace"
		}
		sb.AppendLine(keyword + " " + moduleName + " {")
		sb.Indent()
	}

	if output.Has(OutputEnums) {
		for _, e := range enums {
			g.appendEnum(sb, e)
		}
	}

	if output.Has(OutputProperties) || output.Has(OutputFields) {
		inModule := make(map[model.ID]*model.Class, len(classes))
		for _, c := range classes {
			inModule[c.ID()] = c
		}
		visiting := make(map[model.ID]bool)

		// base classes first so every extends clause resolves
		for _, c := range classes {
			if baseClasses[c.FullName()] {
				if err := g.appendClassChain(sb, c, output, inModule, visiting); err != nil {
					return err
				}
			}
		}
		for _, c := range classes {
			if !baseClasses[c.FullName()] {
				if err := g.appendClassChain(sb, c, output, inModule, visiting); err != nil {
					return err
				}
			}
		}
	}

	if output.Has(OutputConstants) {
		for _, c := range classes {
			if err := g.appendConstants(sb, c); err != nil {
				return err
			}
		}
	}

	if header {
		sb.Dedent()
		sb.AppendLine("}")
	}
	return nil
}

// appendClassChain emits the in-module base chain of c before c itself, so
// inheritance deeper than one level still defines before use.
func (g *Generator) appendClassChain(sb *scriptBuilder, c *model.Class, output Output, inModule map[model.ID]*model.Class, visiting map[model.ID]bool) error {
	if g.generated.Has(c.ID()) {
		return nil
	}
	if visiting[c.ID()] {
		return errors.Wrapf(ErrInheritanceCycle, "class %s", c.FullName())
	}
	visiting[c.ID()] = true
	defer delete(visiting, c.ID())

	if c.Base != nil && c.Base.Kind == model.KindClass && c.Base.Class != nil {
		if base, ok := inModule[c.Base.Class.ID()]; ok {
			if err := g.appendClassChain(sb, base, output, inModule, visiting); err != nil {
				return err
			}
		}
	}
	return g.appendClass(sb, c, output)
}

// skip reports whether a class or enum is left out of emission: ignored,
// excluded by name, or rendered through a registered conversion.
func (g *Generator) skip(d model.Declaration, ignored bool) bool {
	if ignored || g.opts.Converters.IsConverted(d.FullName()) {
		return true
	}
	for _, ex := range g.opts.ExcludeTypes {
		if strings.EqualFold(ex, d.DeclName()) || strings.EqualFold(ex, d.FullName()) {
			return true
		}
	}
	return false
}

func skipReason(output Output, classes []*model.Class, enums []*model.Enum) string {
	switch {
	case output == OutputEnums && len(enums) == 0:
		return "no enums"
	case output == OutputProperties && len(classes) == 0:
		return "no classes"
	case len(enums) == 0 && len(classes) == 0:
		return "empty"
	case output == OutputProperties && !slices.ContainsFunc(classes, (*model.Class).HasMembers):
		return "no members"
	case output == OutputConstants && !slices.ContainsFunc(classes, func(c *model.Class) bool { return len(c.Constants) > 0 }):
		return "no constants"
	}
	return ""
}
