package generator

import (
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/cmmoran/komodelgen/pkg/model"
)

// zoo builds module M with a plain Animal and a wrapped Dog extending it.
func zoo() (*model.Model, *TagRegistry) {
	m := model.New()
	mod := m.NewModule("M")
	animal := mod.NewClass("Animal")
	animal.AddProperty("name", model.String())
	dog := mod.NewClass("Dog").Extends(model.ClassRef(animal))
	dog.AddProperty("tricks", model.CollectionOf(model.String()))

	tags := NewTagRegistry()
	tags.For(animal).AsPlain()
	tags.For(dog).AsWrappedClass()
	return m, tags
}

func lines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

func TestGenerate_Scenario(t *testing.T) {
	m, tags := zoo()
	g, err := New(tags)
	require.NoError(t, err)

	got, err := g.Generate(m)
	require.NoError(t, err)

	want := []string{
		"declare namespace M {",
		"\tclass Animal {",
		"\t\tname: string;",
		"\t}",
		"\tclass Dog extends Animal {",
		"\t\tconstructor() {",
		"\t\t\tsuper();",
		"\t\t}",
		"\t\ttricks: ObservableArray<string> = observableArray([]);",
		"\t}",
		"}",
	}
	if diff := cmp.Diff(want, lines(got)); diff != "" {
		t.Errorf("Generate() mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, []string{"M.Animal", "M.Dog"}, fullNames(g.Generated()))
}

func fullNames(cs []*model.Class) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.FullName()
	}
	return out
}

func TestGenerate_MemberForms(t *testing.T) {
	m := model.New()
	mod := m.NewModule("F")
	build := func(name string) *model.Class {
		c := mod.NewClass(name)
		c.AddProperty("title", model.String())
		c.AddProperty("count", model.Primitive("int"))
		c.AddProperty("names", model.CollectionOf(model.String()))
		c.AddProperty("tags", &model.TypeRef{Kind: model.KindPrimitive, Name: "TagList", Enumerable: true})
		return c
	}
	wc, wi, pl := build("WC"), build("WI"), build("PL")
	build("DF")

	tags := NewTagRegistry()
	tags.For(wc).AsWrappedClass()
	tags.For(wi).AsWrappedInterface()
	tags.For(pl).AsPlain()

	conv := NewConverters().RegisterAs("TagList", "string[]")
	g, err := New(tags, WithConverters(conv))
	require.NoError(t, err)
	got, err := g.Generate(m)
	require.NoError(t, err)

	want := []string{
		"declare namespace F {",
		"\tclass WC {",
		"\t\ttitle: Observable<string> = observable(null);",
		"\t\tcount: Observable<number> = observable(null);",
		"\t\tnames: ObservableArray<string> = observableArray([]);",
		"\t\ttags: ObservableArray<string> = observableArray([]);",
		"\t}",
		"\tinterface IWI {",
		"\t\ttitle: Observable<string>;",
		"\t\tcount: Observable<number>;",
		"\t\tnames: ObservableArray<string>;",
		"\t\ttags: ObservableArray<string>;",
		"\t}",
		"\tclass PL {",
		"\t\ttitle: string;",
		"\t\tcount: number;",
		"\t\tnames: string[];",
		"\t\ttags: string[];",
		"\t}",
		"\tinterface IDF {",
		"\t\ttitle: string;",
		"\t\tcount: number;",
		"\t\tnames: string[];",
		"\t\ttags: string[];",
		"\t}",
		"}",
	}
	if diff := cmp.Diff(want, lines(got)); diff != "" {
		t.Errorf("Generate() mismatch (-want +got):\n%s", diff)
	}

	// wrapped interface members are signatures only
	var inInterface bool
	for _, l := range lines(got) {
		switch {
		case strings.Contains(l, "interface IWI"):
			inInterface = true
		case inInterface && strings.TrimSpace(l) == "}":
			inInterface = false
		case inInterface:
			require.NotContains(t, l, "=")
			require.True(t, strings.HasSuffix(l, ">;"), l)
		}
	}
}

func TestGenerate_References(t *testing.T) {
	m := model.New()
	mod := m.NewModule("R")
	plain := mod.NewClass("Plain")
	plain.AddProperty("id", model.Primitive("int"))
	untagged := mod.NewClass("Untagged")
	untagged.AddProperty("id", model.Primitive("int"))
	holder := mod.NewClass("Holder")
	holder.AddProperty("p", model.ClassRef(plain))
	holder.AddProperty("u", model.ClassRef(untagged))
	holder.AddProperty("us", model.CollectionOf(model.ClassRef(untagged)))

	tags := NewTagRegistry()
	tags.For(plain).AsPlain()
	tags.For(holder).AsPlain()

	g, err := New(tags, WithOutput(OutputProperties))
	require.NoError(t, err)
	got, err := g.Generate(m)
	require.NoError(t, err)

	require.Contains(t, got, "\tinterface IUntagged {\n")
	require.Contains(t, got, "\t\tp: R.Plain;\n")
	require.Contains(t, got, "\t\tu: R.IUntagged;\n")
	require.Contains(t, got, "\t\tus: R.IUntagged[];\n")
}

func TestGenerate_Idempotent(t *testing.T) {
	m, tags := zoo()
	g, err := New(tags, WithMode(ModeClasses))
	require.NoError(t, err)

	first, err := g.Generate(m)
	require.NoError(t, err)
	second, err := g.Generate(m)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Len(t, g.Generated(), 2)
	require.True(t, strings.HasPrefix(first, "export module M {\n"))
	require.Contains(t, first, "\texport class Dog extends Animal {\n")
}

func TestGenerate_BaseBeforeDerived(t *testing.T) {
	m := model.New()
	mod := m.NewModule("O")
	c := mod.NewClass("C")
	b := mod.NewClass("B")
	a := mod.NewClass("A")
	c.Extends(model.ClassRef(b))
	b.Extends(model.ClassRef(a))
	for _, k := range []*model.Class{a, b, c} {
		k.AddProperty("x", model.Primitive("int"))
	}

	g, err := New(nil)
	require.NoError(t, err)
	_, err = g.Generate(m)
	require.NoError(t, err)
	require.Equal(t, []string{"O.A", "O.B", "O.C"}, fullNames(g.Generated()))
}

func TestGenerate_EmptyModule(t *testing.T) {
	m := model.New()
	m.NewModule("Nothing")
	withEnum := m.NewModule("E")
	withEnum.NewEnum("Kind", model.EnumValue{Name: "A"})

	g, err := New(nil)
	require.NoError(t, err)
	outs, err := g.GenerateModules(m)
	require.NoError(t, err)
	require.Len(t, outs, 1)
	require.Equal(t, "E", outs[0].Name)
	require.NotContains(t, outs[0].Text, "Nothing")
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name  string
		build func(mod *model.Module)
		want  error
	}{
		{
			name: "unresolvable member type",
			build: func(mod *model.Module) {
				mod.NewClass("A").AddProperty("w", model.Primitive("Widget"))
			},
			want: ErrUnresolvableType,
		},
		{
			name: "unresolvable base type",
			build: func(mod *model.Module) {
				mod.NewClass("A").Extends(model.Primitive("Missing")).AddProperty("x", model.Primitive("int"))
			},
			want: ErrUnresolvableBaseType,
		},
		{
			name: "base type of the wrong kind",
			build: func(mod *model.Module) {
				mod.NewClass("A").Extends(model.CollectionOf(model.String())).AddProperty("x", model.Primitive("int"))
			},
			want: ErrUnresolvableBaseType,
		},
		{
			name: "inheritance cycle",
			build: func(mod *model.Module) {
				a := mod.NewClass("A")
				b := mod.NewClass("B")
				a.Extends(model.ClassRef(b)).AddProperty("x", model.Primitive("int"))
				b.Extends(model.ClassRef(a)).AddProperty("y", model.Primitive("int"))
			},
			want: ErrInheritanceCycle,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := model.New()
			tt.build(m.NewModule("X"))
			g, err := New(nil)
			require.NoError(t, err)

			out, err := g.Generate(m)
			require.Error(t, err)
			require.Empty(t, out)
			require.Truef(t, errors.Is(err, tt.want), "got %v, want %v", err, tt.want)
		})
	}
}

func TestGenerate_ModuleNames(t *testing.T) {
	m, tags := zoo()

	g, err := New(tags, WithIgnoreModuleNamespaces())
	require.NoError(t, err)
	got, err := g.Generate(m)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(got, "class Animal {\n\tname: string;\n}\n"), got)

	g, err = New(tags, WithIgnoreModuleNamespaces(), WithModuleNamespace("Forced"))
	require.NoError(t, err)
	got, err = g.Generate(m)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(got, "declare namespace Forced {\n"), got)
}

func TestGenerate_Exclusions(t *testing.T) {
	m, tags := zoo()
	mod := m.Module("M")
	mod.NewClass("Hidden").Ignored = true
	mod.NewClass("Secret").AddProperty("x", model.Primitive("int"))

	g, err := New(tags, WithExcludeTypes("m.secret"))
	require.NoError(t, err)
	got, err := g.Generate(m)
	require.NoError(t, err)
	require.NotContains(t, got, "Hidden")
	require.NotContains(t, got, "Secret")
}

func TestGenerate_SkipRules(t *testing.T) {
	tests := []struct {
		name   string
		output Output
		build  func(mod *model.Module)
		keep   bool
	}{
		{
			name:   "properties only, no members",
			output: OutputProperties,
			build:  func(mod *model.Module) { mod.NewClass("Bare") },
		},
		{
			name:   "properties only, with members",
			output: OutputProperties,
			build: func(mod *model.Module) {
				mod.NewClass("Full").AddProperty("x", model.Primitive("int"))
			},
			keep: true,
		},
		{
			name:   "constants only, no constants",
			output: OutputConstants,
			build: func(mod *model.Module) {
				mod.NewClass("Full").AddProperty("x", model.Primitive("int"))
			},
		},
		{
			name:   "constants only, with constants",
			output: OutputConstants,
			build: func(mod *model.Module) {
				mod.NewClass("Limits").AddConstant("Max", model.Primitive("int"), "3")
			},
			keep: true,
		},
		{
			name:   "enums only, no enums",
			output: OutputEnums,
			build: func(mod *model.Module) {
				mod.NewClass("Full").AddProperty("x", model.Primitive("int"))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := model.New()
			tt.build(m.NewModule("S"))
			g, err := New(nil, WithOutput(tt.output))
			require.NoError(t, err)

			outs, err := g.GenerateModules(m)
			require.NoError(t, err)
			if !tt.keep {
				require.Empty(t, outs)
				return
			}
			require.Len(t, outs, 1)
			require.Equal(t, "S", outs[0].Name)
		})
	}
}

func TestGenerate_InterfaceExtendsOwnModule(t *testing.T) {
	m := model.New()
	mod := m.NewModule("I")
	base := mod.NewClass("Base")
	base.AddProperty("id", model.Primitive("int"))
	spec := mod.NewClass("Contract").Extends(model.ClassRef(base))
	spec.AddProperty("name", model.String())

	tags := NewTagRegistry()
	tags.For(spec).AsWrappedInterface()

	g, err := New(tags)
	require.NoError(t, err)
	got, err := g.Generate(m)
	require.NoError(t, err)
	require.Contains(t, got, "\tinterface IContract extends IBase {\n")
}
