// Package generator renders a type model as TypeScript-style declarations.
//
// Each class is rendered in the binding style recorded for it in a
// TagRegistry:
//
//   - StyleWrappedClass: a class whose members are observable accessors
//     initialized inline (`name: Observable<T> = observable(null);`)
//   - StyleWrappedInterface: an interface describing the same observable
//     contract, signatures only
//   - StylePlain: a class with plain typed members
//   - StyleDefault (no tag): the dialect's own interface rendering
//
// References to a class carry an `I` prefix when the class is untagged or a
// wrapped interface, independently of how its declaration was rendered.
//
// Within a module, enums come first, then every class some other class
// extends, then the rest, then constants. A Generator is single-threaded;
// it shares its TagRegistry with the caller and must not run concurrently.
package generator

import (
	"log/slog"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/elliotchance/orderedmap/v3"

	"github.com/cmmoran/komodelgen/pkg/model"
)

type Generator struct {
	opts       Options
	output     Output
	tags       *TagRegistry
	log        *slog.Logger
	format     *formatter
	moduleName func(*model.Module) string

	// generated records classes already declared in the current run, in
	// emission order. Reset at the start of every run.
	generated *orderedmap.OrderedMap[model.ID, *model.Class]
}

// ModuleOutput is the text emitted for one module.
type ModuleOutput struct {
	Module *model.Module
	Name   string // resolved module name, "" when no namespace was opened
	Text   string
}

// New builds a Generator. A nil registry is replaced by an empty one.
func New(tags *TagRegistry, opts ...Option) (*Generator, error) {
	o := NewOptions()
	for _, fn := range opts {
		fn(o)
	}
	return NewWithOpts(tags, o)
}

func NewWithOpts(tags *TagRegistry, opts *Options) (*Generator, error) {
	if err := opts.Normalize(); err != nil {
		return nil, errors.Wrap(err, "generator options")
	}
	if tags == nil {
		tags = NewTagRegistry()
	}

	g := &Generator{
		opts:      *opts,
		output:    opts.Output(),
		tags:      tags,
		log:       opts.Logger,
		generated: orderedmap.NewOrderedMap[model.ID, *model.Class](),
	}

	switch {
	case opts.ModuleNamespace != "":
		forced := opts.ModuleNamespace
		g.moduleName = func(*model.Module) string { return forced }
	case opts.IgnoreModuleNamespaces:
		g.moduleName = func(*model.Module) string { return "" }
	default:
		g.moduleName = func(m *model.Module) string {
			if m == nil {
				return ""
			}
			return m.Name
		}
	}

	g.format = &formatter{
		tags:       tags,
		converters: opts.Converters,
		moduleName: g.moduleName,
	}
	return g, nil
}

func (g *Generator) Tags() *TagRegistry { return g.tags }

func (g *Generator) Options() Options { return g.opts }

// Generate renders every module of m and concatenates the blocks in module
// order. On error nothing is returned: a failed module aborts the run.
func (g *Generator) Generate(m *model.Model) (string, error) {
	outs, err := g.GenerateModules(m)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, o := range outs {
		b.WriteString(o.Text)
	}
	return b.String(), nil
}

// GenerateModules renders each module of m separately. Modules with nothing
// to emit are left out.
func (g *Generator) GenerateModules(m *model.Model) ([]ModuleOutput, error) {
	g.generated = orderedmap.NewOrderedMap[model.ID, *model.Class]()
	if m == nil {
		return nil, nil
	}

	outs := make([]ModuleOutput, 0, len(m.Modules))
	for _, mod := range m.Modules {
		sb := newScriptBuilder(g.opts.Indentation)
		if err := g.appendModule(sb, mod, g.output); err != nil {
			return nil, errors.Wrapf(err, "module %q", mod.Name)
		}
		if sb.Len() == 0 {
			continue
		}
		outs = append(outs, ModuleOutput{
			Module: mod,
			Name:   g.moduleName(mod),
			Text:   sb.String(),
		})
	}

	g.log.Debug("generation finished", "modules", len(outs), "classes", g.generated.Len())
	return outs, nil
}

// Generated lists the classes declared by the last run, in emission order.
func (g *Generator) Generated() []*model.Class {
	out := make([]*model.Class, 0, g.generated.Len())
	for el := g.generated.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value)
	}
	return out
}
