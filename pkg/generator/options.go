package generator

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/cmmoran/komodelgen/pkg/model"
)

// Mode selects between ambient declarations and an implementation file.
type Mode string

const (
	ModeDefinitions Mode = "definitions" // declare namespace X { ... }
	ModeClasses     Mode = "classes"     // export module X { ... }
)

// Output is the set of declaration kinds a run emits.
type Output uint8

const (
	OutputProperties Output = 1 << iota
	OutputEnums
	OutputFields
	OutputConstants
)

const (
	OutputStandard = OutputProperties | OutputFields | OutputEnums
	OutputAll      = OutputStandard | OutputConstants
)

var outputNames = []struct {
	name string
	flag Output
}{
	{"properties", OutputProperties},
	{"enums", OutputEnums},
	{"fields", OutputFields},
	{"constants", OutputConstants},
}

// Has reports whether every flag in f is set.
func (o Output) Has(f Output) bool { return o&f == f }

// Names lists the set flags in canonical order.
func (o Output) Names() []string {
	out := make([]string, 0, len(outputNames))
	for _, n := range outputNames {
		if o.Has(n.flag) {
			out = append(out, n.name)
		}
	}
	return out
}

// ParseOutput folds names like "properties" or "enums" into an Output.
func ParseOutput(names ...string) (Output, error) {
	var o Output
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		if name == "all" {
			o |= OutputAll
			continue
		}
		flag, ok := outputFlag(name)
		if !ok {
			return 0, errors.WithHint(
				errors.Newf("unknown output kind %q", raw),
				"valid kinds are properties, fields, enums, constants and all",
			)
		}
		o |= flag
	}
	return o, nil
}

func outputFlag(name string) (Output, bool) {
	for _, n := range outputNames {
		if n.name == name {
			return n.flag, true
		}
	}
	return 0, false
}

// Wrappers names the observable accessor types and their factories.
type Wrappers struct {
	Type         string `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty" mapstructure:"type,omitempty"`
	ArrayType    string `json:"array_type,omitempty" yaml:"array_type,omitempty" toml:"array_type,omitempty" mapstructure:"array_type,omitempty"`
	Factory      string `json:"factory,omitempty" yaml:"factory,omitempty" toml:"factory,omitempty" mapstructure:"factory,omitempty"`
	ArrayFactory string `json:"array_factory,omitempty" yaml:"array_factory,omitempty" toml:"array_factory,omitempty" mapstructure:"array_factory,omitempty"`
}

func DefaultWrappers() Wrappers {
	return Wrappers{
		Type:         "Observable",
		ArrayType:    "ObservableArray",
		Factory:      "observable",
		ArrayFactory: "observableArray",
	}
}

func KnockoutWrappers() Wrappers {
	return Wrappers{
		Type:         "KnockoutObservable",
		ArrayType:    "KnockoutObservableArray",
		Factory:      "ko.observable",
		ArrayFactory: "ko.observableArray",
	}
}

// fill copies any empty name from def.
func (w *Wrappers) fill(def Wrappers) {
	if w.Type == "" {
		w.Type = def.Type
	}
	if w.ArrayType == "" {
		w.ArrayType = def.ArrayType
	}
	if w.Factory == "" {
		w.Factory = def.Factory
	}
	if w.ArrayFactory == "" {
		w.ArrayFactory = def.ArrayFactory
	}
}

// VisibilityFunc decides whether a declaration is exported.
type VisibilityFunc func(d model.Declaration, typeName string) bool

// MemberNameFunc renders the identifier of a property, field or constant.
type MemberNameFunc func(m *model.Member) string

// Options control generation and the file plumbing around it.
//
// InFile                 – model document to load (CLI only)
// OutDir                 – output directory (CLI only)
// OutFile                – output filename (CLI only)
// Mode                   – definitions (ambient) or classes (implementation)
// Emit                   – declaration kinds: properties, fields, enums, constants
// IgnoreModuleNamespaces – blank out every module name
// ModuleNamespace        – force one module name for everything; wins over IgnoreModuleNamespaces
// WrapperPreset          – "default" or "knockout"; fills unset Wrappers names
// ConstEnums             – emit `const enum`
// Indentation            – one indentation step
// AnnotateStyles         – prefix each class with a `// Name (style)` comment
// ExcludeTypes           – class/enum names (or full names) to skip, case-insensitive
type Options struct {
	InFile                 string   `json:"in_file,omitempty" yaml:"in_file,omitempty" toml:"in_file,omitempty" mapstructure:"in_file,omitempty"`
	OutDir                 string   `json:"out_dir,omitempty" yaml:"out_dir,omitempty" toml:"out_dir,omitempty" mapstructure:"out_dir,omitempty"`
	OutFile                string   `json:"out_file,omitempty" yaml:"out_file,omitempty" toml:"out_file,omitempty" mapstructure:"out_file,omitempty"`
	Mode                   Mode     `json:"mode,omitempty" yaml:"mode,omitempty" toml:"mode,omitempty" mapstructure:"mode,omitempty"`
	Emit                   []string `json:"emit,omitempty" yaml:"emit,omitempty" toml:"emit,omitempty" mapstructure:"emit,omitempty"`
	IgnoreModuleNamespaces bool     `json:"ignore_module_namespaces,omitempty" yaml:"ignore_module_namespaces,omitempty" toml:"ignore_module_namespaces,omitempty" mapstructure:"ignore_module_namespaces,omitempty"`
	ModuleNamespace        string   `json:"module_namespace,omitempty" yaml:"module_namespace,omitempty" toml:"module_namespace,omitempty" mapstructure:"module_namespace,omitempty"`
	Wrappers               Wrappers `json:"wrappers,omitempty" yaml:"wrappers,omitempty" toml:"wrappers,omitempty" mapstructure:"wrappers,omitempty"`
	WrapperPreset          string   `json:"wrapper_preset,omitempty" yaml:"wrapper_preset,omitempty" toml:"wrapper_preset,omitempty" mapstructure:"wrapper_preset,omitempty"`
	ConstEnums             bool     `json:"const_enums,omitempty" yaml:"const_enums,omitempty" toml:"const_enums,omitempty" mapstructure:"const_enums,omitempty"`
	Indentation            string   `json:"indentation,omitempty" yaml:"indentation,omitempty" toml:"indentation,omitempty" mapstructure:"indentation,omitempty"`
	AnnotateStyles         bool     `json:"annotate_styles,omitempty" yaml:"annotate_styles,omitempty" toml:"annotate_styles,omitempty" mapstructure:"annotate_styles,omitempty"`
	ExcludeTypes           []string `json:"exclude_types,omitempty" yaml:"exclude_types,omitempty" toml:"exclude_types,omitempty" mapstructure:"exclude_types,omitempty"`

	Logger     *slog.Logger       `json:"-" yaml:"-" toml:"-" mapstructure:"-"`
	Converters ConversionRegistry `json:"-" yaml:"-" toml:"-" mapstructure:"-"`
	Visibility VisibilityFunc     `json:"-" yaml:"-" toml:"-" mapstructure:"-"`
	MemberName MemberNameFunc     `json:"-" yaml:"-" toml:"-" mapstructure:"-"`
}

func NewOptions() *Options {
	return &Options{
		InFile:        "model.yaml",
		OutDir:        "typings",
		Mode:          ModeDefinitions,
		Emit:          OutputStandard.Names(),
		WrapperPreset: "default",
		Indentation:   "\t",
	}
}

// Normalize fills defaults and validates the option set.
func (o *Options) Normalize() error {
	switch o.Mode {
	case "":
		o.Mode = ModeDefinitions
	case ModeDefinitions, ModeClasses:
	default:
		return errors.WithHint(
			errors.Newf("unknown generation mode %q", o.Mode),
			"use definitions or classes",
		)
	}
	if len(o.Emit) == 0 {
		o.Emit = OutputStandard.Names()
	}
	if _, err := ParseOutput(o.Emit...); err != nil {
		return err
	}

	switch strings.ToLower(o.WrapperPreset) {
	case "", "default":
		o.Wrappers.fill(DefaultWrappers())
	case "knockout", "ko":
		o.Wrappers.fill(KnockoutWrappers())
	default:
		return errors.WithHint(
			errors.Newf("unknown wrapper preset %q", o.WrapperPreset),
			"use default or knockout",
		)
	}

	if o.Indentation == "" {
		o.Indentation = "\t"
	}
	if strings.Contains(o.InFile, ".") {
		o.InFile, _ = filepath.Abs(o.InFile)
	}
	if len(o.OutDir) == 0 {
		o.OutDir = "typings"
	}
	if strings.Contains(o.OutDir, ".") {
		o.OutDir, _ = filepath.Abs(o.OutDir)
	}
	if len(o.OutFile) == 0 {
		if o.Mode == ModeClasses {
			o.OutFile = "models.ts"
		} else {
			o.OutFile = "models.d.ts"
		}
	}
	for i := range o.ExcludeTypes {
		o.ExcludeTypes[i] = strings.TrimSpace(o.ExcludeTypes[i])
	}

	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Converters == nil {
		o.Converters = NewConverters()
	}
	if o.Visibility == nil {
		mode := o.Mode
		o.Visibility = func(model.Declaration, string) bool { return mode == ModeClasses }
	}
	if o.MemberName == nil {
		o.MemberName = defaultMemberName
	}
	return nil
}

// Output returns the parsed Emit set. Call after Normalize.
func (o *Options) Output() Output {
	out, _ := ParseOutput(o.Emit...)
	return out
}

func defaultMemberName(m *model.Member) string {
	if m.Optional {
		return m.Name + "?"
	}
	return m.Name
}

// functional option pattern ---------------------------------------------------

type Option func(*Options)

func WithInFile(f string) Option             { return func(o *Options) { o.InFile = f } }
func WithOutDir(d string) Option             { return func(o *Options) { o.OutDir = d } }
func WithOutFile(f string) Option            { return func(o *Options) { o.OutFile = f } }
func WithMode(m Mode) Option                 { return func(o *Options) { o.Mode = m } }
func WithOutput(out Output) Option           { return func(o *Options) { o.Emit = out.Names() } }
func WithIgnoreModuleNamespaces() Option     { return func(o *Options) { o.IgnoreModuleNamespaces = true } }
func WithModuleNamespace(name string) Option { return func(o *Options) { o.ModuleNamespace = name } }
func WithWrappers(w Wrappers) Option         { return func(o *Options) { o.Wrappers = w } }
func WithKnockout() Option                   { return func(o *Options) { o.WrapperPreset = "knockout" } }
func WithConstEnums() Option                 { return func(o *Options) { o.ConstEnums = true } }
func WithIndentation(s string) Option        { return func(o *Options) { o.Indentation = s } }
func WithAnnotateStyles() Option             { return func(o *Options) { o.AnnotateStyles = true } }
func WithLogger(l *slog.Logger) Option       { return func(o *Options) { o.Logger = l } }
func WithConverters(c ConversionRegistry) Option {
	return func(o *Options) { o.Converters = c }
}
func WithVisibility(fn VisibilityFunc) Option { return func(o *Options) { o.Visibility = fn } }
func WithMemberName(fn MemberNameFunc) Option { return func(o *Options) { o.MemberName = fn } }
func WithExcludeTypes(names ...string) Option {
	return func(o *Options) {
		for _, n := range names {
			o.ExcludeTypes = append(o.ExcludeTypes, strings.TrimSpace(n))
		}
	}
}
