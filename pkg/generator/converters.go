package generator

import (
	"github.com/cmmoran/komodelgen/pkg/model"
)

// ConvertFunc renders a host type directly as a dialect type.
type ConvertFunc func(t *model.TypeRef) string

// ConversionRegistry renders host types that map straight onto a dialect
// type. Classes and enums with a registered conversion are treated as
// primitives and never get a declaration of their own.
type ConversionRegistry interface {
	IsConverted(hostName string) bool
	Convert(t *model.TypeRef) (string, bool)
}

// Converters is the default ConversionRegistry, keyed by host name.
type Converters struct {
	funcs map[string]ConvertFunc
}

var defaultConversions = map[string]string{
	"string":    "string",
	"char":      "string",
	"bool":      "boolean",
	"boolean":   "boolean",
	"byte":      "number",
	"rune":      "number",
	"int":       "number",
	"int8":      "number",
	"int16":     "number",
	"int32":     "number",
	"int64":     "number",
	"uint":      "number",
	"uint8":     "number",
	"uint16":    "number",
	"uint32":    "number",
	"uint64":    "number",
	"float32":   "number",
	"float64":   "number",
	"decimal":   "number",
	"double":    "number",
	"number":    "number",
	"any":       "any",
	"object":    "any",
	"Date":      "Date",
	"DateTime":  "Date",
	"time.Time": "Date",
	"Guid":      "string",
	"uuid":      "string",
	"TimeSpan":  "string",
	"duration":  "string",
}

// NewConverters returns a registry preloaded with the host primitives.
func NewConverters() *Converters {
	c := EmptyConverters()
	for host, ts := range defaultConversions {
		c.RegisterAs(host, ts)
	}
	return c
}

// EmptyConverters returns a registry with nothing registered.
func EmptyConverters() *Converters {
	return &Converters{funcs: make(map[string]ConvertFunc)}
}

// Register installs fn for hostName, replacing any earlier conversion.
func (c *Converters) Register(hostName string, fn ConvertFunc) *Converters {
	c.funcs[hostName] = fn
	return c
}

// RegisterAs renders hostName as the fixed dialect name.
func (c *Converters) RegisterAs(hostName, name string) *Converters {
	return c.Register(hostName, func(*model.TypeRef) string { return name })
}

func (c *Converters) IsConverted(hostName string) bool {
	if hostName == "" {
		return false
	}
	_, ok := c.funcs[hostName]
	return ok
}

func (c *Converters) Convert(t *model.TypeRef) (string, bool) {
	fn, ok := c.funcs[t.HostName()]
	if !ok {
		return "", false
	}
	return fn(t), true
}
