package parser

// Document is the on-disk form of a type model. The same shape decodes from
// YAML, JSON and TOML.
type Document struct {
	// Converters renders host names directly as dialect names, e.g. Money: number.
	Converters map[string]string `json:"converters,omitempty" yaml:"converters,omitempty" toml:"converters,omitempty"`
	Modules    []ModuleDoc       `json:"modules" yaml:"modules" toml:"modules"`
}

type ModuleDoc struct {
	Name    string     `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Enums   []EnumDoc  `json:"enums,omitempty" yaml:"enums,omitempty" toml:"enums,omitempty"`
	Classes []ClassDoc `json:"classes,omitempty" yaml:"classes,omitempty" toml:"classes,omitempty"`
}

type EnumDoc struct {
	Name    string         `json:"name" yaml:"name" toml:"name"`
	Values  []EnumValueDoc `json:"values,omitempty" yaml:"values,omitempty" toml:"values,omitempty"`
	Ignored bool           `json:"ignored,omitempty" yaml:"ignored,omitempty" toml:"ignored,omitempty"`
}

type EnumValueDoc struct {
	Name  string `json:"name" yaml:"name" toml:"name"`
	Value string `json:"value,omitempty" yaml:"value,omitempty" toml:"value,omitempty"`
}

type ClassDoc struct {
	Name       string        `json:"name" yaml:"name" toml:"name"`
	Style      string        `json:"style,omitempty" yaml:"style,omitempty" toml:"style,omitempty"`
	Generics   []string      `json:"generics,omitempty" yaml:"generics,omitempty" toml:"generics,omitempty"`
	Base       string        `json:"base,omitempty" yaml:"base,omitempty" toml:"base,omitempty"`
	Properties []MemberDoc   `json:"properties,omitempty" yaml:"properties,omitempty" toml:"properties,omitempty"`
	Fields     []MemberDoc   `json:"fields,omitempty" yaml:"fields,omitempty" toml:"fields,omitempty"`
	Constants  []ConstantDoc `json:"constants,omitempty" yaml:"constants,omitempty" toml:"constants,omitempty"`
	Ignored    bool          `json:"ignored,omitempty" yaml:"ignored,omitempty" toml:"ignored,omitempty"`
}

type MemberDoc struct {
	Name       string `json:"name" yaml:"name" toml:"name"`
	Type       string `json:"type" yaml:"type" toml:"type"`
	Optional   bool   `json:"optional,omitempty" yaml:"optional,omitempty" toml:"optional,omitempty"`
	Ignored    bool   `json:"ignored,omitempty" yaml:"ignored,omitempty" toml:"ignored,omitempty"`
	Enumerable bool   `json:"enumerable,omitempty" yaml:"enumerable,omitempty" toml:"enumerable,omitempty"` // host type iterates though it is not a collection
}

type ConstantDoc struct {
	Name    string `json:"name" yaml:"name" toml:"name"`
	Type    string `json:"type" yaml:"type" toml:"type"`
	Value   string `json:"value" yaml:"value" toml:"value"`
	Ignored bool   `json:"ignored,omitempty" yaml:"ignored,omitempty" toml:"ignored,omitempty"`
}
