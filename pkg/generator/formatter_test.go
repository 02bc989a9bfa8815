package generator

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"

	"github.com/cmmoran/komodelgen/pkg/model"
)

func newTestFormatter(tags *TagRegistry) *formatter {
	return &formatter{
		tags:       tags,
		converters: NewConverters(),
		moduleName: func(m *model.Module) string { return m.Name },
	}
}

func TestFormatter_ClassName(t *testing.T) {
	m := model.New()
	mod := m.NewModule("N")
	tags := NewTagRegistry()

	tests := []struct {
		style *Style
		want  string
	}{
		{style: nil, want: "IC"},
		{style: ptr(StyleDefault), want: "IC"},
		{style: ptr(StyleWrappedInterface), want: "IC"},
		{style: ptr(StyleWrappedClass), want: "C"},
		{style: ptr(StylePlain), want: "C"},
	}
	f := newTestFormatter(tags)
	for _, tt := range tests {
		c := mod.NewClass("C")
		if tt.style != nil {
			tags.Set(c, *tt.style)
		}
		got, err := f.className(c, nil)
		require.NoError(t, err)
		require.Equal(t, tt.want, got)
	}
}

func ptr[T any](v T) *T { return &v }

func TestFormatter_Generics(t *testing.T) {
	m := model.New()
	mod := m.NewModule("N")
	tags := NewTagRegistry()
	pair := mod.NewClass("Pair").Generic(model.Param("K"), model.Param("V"))
	item := mod.NewClass("Item")
	tags.For(pair).AsPlain()
	tags.For(item).AsPlain()
	f := newTestFormatter(tags)

	got, err := f.className(pair, nil)
	require.NoError(t, err)
	require.Equal(t, "Pair<K, V>", got)

	ref := model.ClassRef(pair, model.String(), model.CollectionOf(model.ClassRef(item)))
	got, err = f.propertyType(ref)
	require.NoError(t, err)
	require.Equal(t, "N.Pair<string, N.Item[]>", got)

	got, err = f.propertyType(model.CollectionOf(model.CollectionOf(model.Primitive("int"))))
	require.NoError(t, err)
	require.Equal(t, "number[][]", got)
}

func TestFormatter_BaseName(t *testing.T) {
	m := model.New()
	own := m.NewModule("Own")
	other := m.NewModule("Other")
	tags := NewTagRegistry()
	f := newTestFormatter(tags)

	local := own.NewClass("Local")
	remote := other.NewClass("Remote")
	tags.For(remote).AsWrappedClass()

	c := own.NewClass("C").Extends(model.ClassRef(local))
	got, err := f.baseName(c)
	require.NoError(t, err)
	require.Equal(t, "ILocal", got)

	c.Extends(model.ClassRef(remote))
	got, err = f.baseName(c)
	require.NoError(t, err)
	require.Equal(t, "Other.Remote", got)

	c.Extends(nil)
	got, err = f.baseName(c)
	require.NoError(t, err)
	require.Empty(t, got)

	c.Extends(model.Primitive("Nope"))
	_, err = f.baseName(c)
	require.True(t, errors.Is(err, ErrUnresolvableBaseType))
	require.True(t, errors.Is(err, ErrUnresolvableType))
}

func TestFormatter_Unresolvable(t *testing.T) {
	f := newTestFormatter(NewTagRegistry())
	_, err := f.typeName(model.Primitive("Widget"))
	require.True(t, errors.Is(err, ErrUnresolvableType))
	require.Contains(t, errors.FlattenHints(err), "Widget")

	_, err = f.typeName(nil)
	require.True(t, errors.Is(err, ErrUnresolvableType))
}
