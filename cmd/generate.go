package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/cmmoran/komodelgen/pkg/action/generate"
)

func init() {
	rootCmd.AddCommand(NewGenerateCommand())
}

// generatorFlags maps flag names to keys under the `generator` config section.
var generatorFlags = map[string]string{
	"model":                    "generator.in_file",
	"out-dir":                  "generator.out_dir",
	"out-file":                 "generator.out_file",
	"mode":                     "generator.mode",
	"emit":                     "generator.emit",
	"wrapper-preset":           "generator.wrapper_preset",
	"const-enums":              "generator.const_enums",
	"module-namespace":         "generator.module_namespace",
	"ignore-module-namespaces": "generator.ignore_module_namespaces",
	"indentation":              "generator.indentation",
	"annotate-styles":          "generator.annotate_styles",
	"exclude-types":            "generator.exclude_types",
}

func addGeneratorFlags(fs *pflag.FlagSet) {
	fs.StringP("model", "m", "model.yaml", "model document to load (.yaml, .json or .toml)")
	fs.StringP("out-dir", "o", "typings", "directory to write declarations")
	fs.StringP("out-file", "f", "", "output file (default models.d.ts, or models.ts in classes mode)")
	fs.String("mode", "definitions", "definitions (declare namespace) or classes (export module)")
	fs.StringSliceP("emit", "e", []string{"properties", "fields", "enums"}, "declaration kinds to emit: properties, fields, enums, constants, all")
	fs.String("wrapper-preset", "default", "observable wrapper names: default or knockout")
	fs.Bool("const-enums", false, "emit const enums")
	fs.String("module-namespace", "", "force one namespace name for every module")
	fs.Bool("ignore-module-namespaces", false, "emit every module without a namespace")
	fs.String("indentation", "\t", "one indentation step")
	fs.Bool("annotate-styles", false, "prefix each class with a comment naming its binding style")
	fs.StringSliceP("exclude-types", "t", []string{}, "class or enum names to skip")
}

// bindGeneratorFlags binds c's flags and the matching KOMODELGEN_GENERATOR_*
// env vars to the generator config keys. Binding happens at run time so
// commands sharing flag names do not shadow each other.
func bindGeneratorFlags(c *cobra.Command) error {
	for name, key := range generatorFlags {
		if err := viper.BindEnv(key); err != nil {
			return err
		}
		if f := c.Flags().Lookup(name); f != nil {
			if err := viper.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}
	return nil
}

func NewGenerateCommand() *cobra.Command {
	var watch bool

	// generateCmd represents the komodelgen generate command
	var generateCmd = &cobra.Command{
		Use:   "generate",
		Short: "generate declarations",
		Long:  "Load a model document and write its typed declarations",
		PreRunE: func(c *cobra.Command, args []string) error {
			return bindGeneratorFlags(c)
		},
		RunE: func(c *cobra.Command, args []string) error {
			opts, err := loadOptions()
			if err != nil {
				return err
			}
			if !watch {
				_, err = generate.Generate(opts)
				return err
			}

			ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return generate.Watch(ctx, opts, func(res *generate.Result, err error) {
				if err != nil {
					opts.Logger.Error("generation failed", "error", err)
				}
			})
		},
	}
	addGeneratorFlags(generateCmd.Flags())
	generateCmd.Flags().BoolVarP(&watch, "watch", "w", false, "regenerate whenever the model document changes")

	return generateCmd
}
