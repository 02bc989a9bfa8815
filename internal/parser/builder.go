package parser

import (
	"go/ast"
	goparser "go/parser"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/cmmoran/komodelgen/pkg/generator"
	"github.com/cmmoran/komodelgen/pkg/model"
)

// builder turns a Document into a model graph.
type builder struct {
	parser *Parser

	byFullName map[string]model.Declaration
	byName     map[string][]model.Declaration
}

func newBuilder(p *Parser) *builder {
	return &builder{
		parser:     p,
		byFullName: make(map[string]model.Declaration),
		byName:     make(map[string][]model.Declaration),
	}
}

// buildAll is the main entrypoint:
//  1. Create shells for every module, class and enum.
//  2. Populate generics, base types, members and constants.
//  3. Record binding styles.
func (b *builder) buildAll() error {
	doc := b.parser.Doc
	m := b.parser.Model

	// 1) shells
	classes := make([]*model.Class, 0)
	classDocs := make([]ClassDoc, 0)
	for _, md := range doc.Modules {
		mod := m.Module(md.Name)
		if mod == nil {
			mod = m.NewModule(md.Name)
		}
		for _, ed := range md.Enums {
			values := make([]model.EnumValue, len(ed.Values))
			for i, v := range ed.Values {
				values[i] = model.EnumValue{Name: v.Name, Value: v.Value}
			}
			e := mod.NewEnum(ed.Name, values...)
			e.Ignored = ed.Ignored
			if err := b.register(e); err != nil {
				return err
			}
		}
		for _, cd := range md.Classes {
			c := mod.NewClass(cd.Name)
			c.Ignored = cd.Ignored
			if err := b.register(c); err != nil {
				return err
			}
			classes = append(classes, c)
			classDocs = append(classDocs, cd)
		}
	}

	// 2) populate
	for i, c := range classes {
		if err := b.populate(c, classDocs[i]); err != nil {
			return errors.Wrapf(err, "class %s", c.FullName())
		}
	}

	// 3) styles
	for i, c := range classes {
		if classDocs[i].Style == "" {
			continue
		}
		style, err := generator.ParseStyle(classDocs[i].Style)
		if err != nil {
			return errors.Wrapf(err, "class %s", c.FullName())
		}
		b.parser.Tags.Set(c, style)
	}
	return nil
}

func (b *builder) register(d model.Declaration) error {
	full := d.FullName()
	if _, exists := b.byFullName[full]; exists {
		return errors.Wrapf(ErrDuplicateDeclaration, "%s", full)
	}
	b.byFullName[full] = d
	b.byName[d.DeclName()] = append(b.byName[d.DeclName()], d)
	return nil
}

func (b *builder) populate(c *model.Class, cd ClassDoc) error {
	for _, g := range cd.Generics {
		c.Generic(model.Param(strings.TrimSpace(g)))
	}

	if cd.Base != "" {
		base, err := b.resolve(c, cd.Base)
		if err != nil {
			return errors.Wrap(err, "base")
		}
		c.Extends(base)
	}

	for _, md := range cd.Properties {
		t, err := b.resolveMember(c, md)
		if err != nil {
			return err
		}
		p := c.AddProperty(md.Name, t)
		p.Optional, p.Ignored = md.Optional, md.Ignored
	}
	for _, md := range cd.Fields {
		t, err := b.resolveMember(c, md)
		if err != nil {
			return err
		}
		f := c.AddField(md.Name, t)
		f.Optional, f.Ignored = md.Optional, md.Ignored
	}
	for _, kd := range cd.Constants {
		t, err := b.resolve(c, kd.Type)
		if err != nil {
			return errors.Wrapf(err, "constant %s", kd.Name)
		}
		k := c.AddConstant(kd.Name, t, kd.Value)
		k.Ignored = kd.Ignored
	}
	return nil
}

func (b *builder) resolveMember(c *model.Class, md MemberDoc) (*model.TypeRef, error) {
	t, err := b.resolve(c, md.Type)
	if err != nil {
		return nil, errors.Wrapf(err, "member %s", md.Name)
	}
	if md.Enumerable {
		t.Enumerable = true
	}
	return t, nil
}

// resolve parses a Go-syntax type expression in the scope of c.
func (b *builder) resolve(c *model.Class, expr string) (*model.TypeRef, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, errors.Wrap(ErrBadTypeExpression, "empty type")
	}
	x, err := goparser.ParseExpr(expr)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "type %q", expr), ErrBadTypeExpression)
	}
	return b.resolveTypeExpr(c, x, expr)
}

// resolveTypeExpr resolves an ast.Expr into a TypeRef graph.
func (b *builder) resolveTypeExpr(c *model.Class, x ast.Expr, src string) (*model.TypeRef, error) {
	switch t := x.(type) {
	case *ast.Ident:
		return b.resolveName(c, t.Name), nil

	case *ast.SelectorExpr:
		name, ok := selectorName(t)
		if !ok {
			break
		}
		if d, ok := b.byFullName[name]; ok {
			return declRef(d), nil
		}
		// qualified host name such as time.Time, left to the converters
		return model.Primitive(name), nil

	case *ast.StarExpr:
		return b.resolveTypeExpr(c, t.X, src)

	case *ast.ParenExpr:
		return b.resolveTypeExpr(c, t.X, src)

	case *ast.ArrayType:
		elem, err := b.resolveTypeExpr(c, t.Elt, src)
		if err != nil {
			return nil, err
		}
		return model.CollectionOf(elem), nil

	case *ast.IndexExpr:
		return b.instantiate(c, t.X, []ast.Expr{t.Index}, src)

	case *ast.IndexListExpr:
		return b.instantiate(c, t.X, t.Indices, src)

	case *ast.MapType:
		return nil, errors.WithHint(
			errors.Wrapf(ErrBadTypeExpression, "%q", src),
			"map types have no declaration form; model them as a class",
		)
	}
	return nil, errors.Wrapf(ErrBadTypeExpression, "%q", src)
}

// instantiate applies type arguments to a generic class reference.
func (b *builder) instantiate(c *model.Class, base ast.Expr, indices []ast.Expr, src string) (*model.TypeRef, error) {
	ref, err := b.resolveTypeExpr(c, base, src)
	if err != nil {
		return nil, err
	}
	if ref.Kind != model.KindClass {
		return nil, errors.WithHint(
			errors.Wrapf(ErrBadTypeExpression, "%q: type arguments on non-class %s", src, ref.HostName()),
			"only classes declared in the model can be instantiated",
		)
	}
	args := make([]*model.TypeRef, len(indices))
	for i, ix := range indices {
		if args[i], err = b.resolveTypeExpr(c, ix, src); err != nil {
			return nil, err
		}
	}
	ref.Args = args
	return ref, nil
}

// resolveName looks an identifier up: c's generic parameters, c's module,
// then a name unique across the model. Anything else is a primitive.
func (b *builder) resolveName(c *model.Class, name string) *model.TypeRef {
	for _, g := range c.GenericArguments {
		if g.Kind == model.KindGenericParam && g.Name == name {
			return model.Param(name)
		}
	}
	if d := c.Module.Find(name); d != nil {
		return declRef(d)
	}
	if ds := b.byName[name]; len(ds) == 1 {
		return declRef(ds[0])
	}
	if name == model.StringType {
		return model.String()
	}
	return model.Primitive(name)
}

func declRef(d model.Declaration) *model.TypeRef {
	switch v := d.(type) {
	case *model.Class:
		return model.ClassRef(v)
	case *model.Enum:
		return model.EnumRef(v)
	}
	return nil
}

// selectorName flattens a.b.C into "a.b.C".
func selectorName(sel *ast.SelectorExpr) (string, bool) {
	switch x := sel.X.(type) {
	case *ast.Ident:
		return x.Name + "." + sel.Sel.Name, true
	case *ast.SelectorExpr:
		prefix, ok := selectorName(x)
		if !ok {
			return "", false
		}
		return prefix + "." + sel.Sel.Name, true
	}
	return "", false
}
