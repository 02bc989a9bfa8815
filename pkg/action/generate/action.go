package generate

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"

	"github.com/cmmoran/komodelgen/internal/parser"
	"github.com/cmmoran/komodelgen/pkg/generator"
)

// Result describes one written declaration file.
type Result struct {
	File    string
	Modules []string
	Classes int
}

// Generate loads the model document opts.InFile, renders it and writes
// opts.OutDir/opts.OutFile. Converters declared in the document are used
// unless opts already carries a ConversionRegistry.
func Generate(opts *generator.Options) (*Result, error) {
	p, err := parser.ParseFile(opts.InFile)
	if err != nil {
		return nil, err
	}
	if opts.Converters == nil {
		opts.Converters = p.Converters
	}

	g, err := generator.NewWithOpts(p.Tags, opts)
	if err != nil {
		return nil, err
	}
	outs, err := g.GenerateModules(p.Model)
	if err != nil {
		return nil, err
	}

	res := &Result{
		File:    filepath.Clean(filepath.Join(opts.OutDir, opts.OutFile)),
		Modules: make([]string, 0, len(outs)),
		Classes: len(g.Generated()),
	}
	var text []byte
	for _, o := range outs {
		res.Modules = append(res.Modules, o.Module.Name)
		text = append(text, o.Text...)
	}

	if err = os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create output directory")
	}
	if err = os.WriteFile(res.File, text, 0o644); err != nil {
		return nil, errors.Wrap(err, "write declarations")
	}
	opts.Logger.Info("wrote declarations", "file", res.File, "modules", len(res.Modules), "classes", res.Classes)
	return res, nil
}

// Watch runs Generate once and again every time the model document changes,
// until ctx is done. Each outcome is passed to report; a failed run does not
// stop the watch.
func Watch(ctx context.Context, opts *generator.Options, report func(*Result, error)) error {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create watcher")
	}
	defer func() { _ = w.Close() }()

	// watch the directory: editors often replace the file rather than write it
	target := filepath.Clean(opts.InFile)
	if err = w.Add(filepath.Dir(target)); err != nil {
		return errors.Wrapf(err, "watch %s", filepath.Dir(target))
	}

	run := func() {
		o := *opts
		report(Generate(&o))
	}
	run()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				opts.Logger.Debug("model document changed", "file", ev.Name, "op", ev.Op.String())
				run()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			opts.Logger.Warn("watch error", "error", err)
		}
	}
}
