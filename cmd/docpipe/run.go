package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	flag "github.com/spf13/pflag"

	"github.com/askiada/go-docpipeline/internal/builtin"
	"github.com/askiada/go-docpipeline/internal/config"
	"github.com/askiada/go-docpipeline/pkg/pipeline"
	"github.com/askiada/go-docpipeline/pkg/pipeline/drawer"
	"github.com/askiada/go-docpipeline/pkg/pipeline/measure"
	"github.com/askiada/go-docpipeline/pkg/pipeline/model"
)

const (
	exitSuccess     = 0
	exitError       = 1
	exitUnsupported = 2
)

var ErrNoInput = errors.New("no input file")

func run(ctx context.Context, args []string, stdout io.Writer) int {
	reg := builtin.NewRegistry()

	err := convertFiles(ctx, reg, args, stdout)
	if err == nil {
		return exitSuccess
	}

	slog.Error("conversion failed", slog.String("error", err.Error()))

	if _, ok := pipeline.IsUnsupportedDataType(err); ok {
		return exitUnsupported
	}

	return exitError
}

// parseArgs registers the flags of every known pipeline, the selected ones are only known once
// the config is loaded.
func parseArgs(reg *pipeline.Registry, args []string) (*flag.FlagSet, *cliFlags, error) {
	fs := flag.NewFlagSet("docpipe", flag.ContinueOnError)
	f := addFlags(fs)

	all, err := reg.Resolve(reg.Names())
	if err != nil {
		return nil, nil, err
	}

	all.AddFlags(fs, nil)

	if len(args) > 0 {
		args = args[1:]
	}

	if err := fs.Parse(args); err != nil {
		return nil, nil, errors.Wrap(err, "unable to parse flags")
	}

	return fs, f, nil
}

func loadConfig(fs *flag.FlagSet, f *cliFlags) (*config.Config, *koanf.Koanf, error) {
	_, k, err := config.Load(f.config)
	if err != nil {
		return nil, nil, err
	}

	overrides := map[string]struct {
		key   string
		value any
	}{
		pipelinesFlag:   {"pipelines", f.pipelines},
		concurrencyFlag: {"concurrency", f.concurrency},
		outputDirFlag:   {"output.dir", f.outputDir},
		drawFlag:        {"draw.file", f.draw},
	}
	for name, o := range overrides {
		if fs.Changed(name) {
			if err := k.Set(o.key, o.value); err != nil {
				return nil, nil, errors.Wrapf(err, "unable to override %s", o.key)
			}
		}
	}

	if f.verbose {
		if err := k.Set("log.level", "debug"); err != nil {
			return nil, nil, errors.Wrap(err, "unable to override log.level")
		}
	}

	cfg, err := config.Unmarshal(k)
	if err != nil {
		return nil, nil, err
	}

	return cfg, k, nil
}

func convertFiles(ctx context.Context, reg *pipeline.Registry, args []string, stdout io.Writer) error {
	fs, f, err := parseArgs(reg, args)
	if err != nil {
		return err
	}

	if f.list {
		for _, name := range reg.Names() {
			fmt.Fprintln(stdout, name)
		}

		return nil
	}

	cfg, k, err := loadConfig(fs, f)
	if err != nil {
		return err
	}

	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	msr := measure.NewDefaultMeasure()
	hooks := []model.RunnerHook{measure.RunnerMeasure(msr)}

	if cfg.Draw.File != "" {
		hooks = append(hooks, drawer.RunnerDrawer(drawer.NewDOTDrawer(cfg.Draw.File), msr))
	}

	runner, err := reg.NewRunnerFromConfig(k, fs, pipeline.RunnerLogger(logger), pipeline.RunnerHooks(hooks...))
	if err != nil {
		return errors.Wrap(err, "unable to create runner")
	}

	logger.Info("runner ready",
		slog.Any("pipelines", cfg.Pipelines),
		slog.Any("supported_types", runner.SupportedTypes().Sorted()))

	items, ids, err := readInputs(fs.Args(), f.dataType, logger)
	if err != nil {
		return err
	}

	results, err := pipeline.ConvertAll(ctx, runner, items, cfg.Concurrency)
	if err != nil {
		return err
	}

	out, err := newOutputWriter(cfg.Output.Dir, items)
	if err != nil {
		return err
	}

	for i, res := range results {
		path, err := out.write(res)
		if err != nil {
			return err
		}

		logger.Info("converted",
			slog.String("id", ids[i]),
			slog.String("filename", res.Filename),
			slog.String("type", res.Type),
			slog.String("output", path))
		fmt.Fprintln(stdout, path)
	}

	logMetrics(logger, msr)

	return runner.Finish()
}

// readInputs returns the items to convert and an id per item used to follow it in the logs.
func readInputs(paths []string, dataType string, logger *slog.Logger) ([]model.WorkItem, []string, error) {
	if len(paths) == 0 {
		return nil, nil, ErrNoInput
	}

	items := make([]model.WorkItem, 0, len(paths))
	ids := make([]string, 0, len(paths))

	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "unable to read %s", path)
		}

		itemType := dataType
		if itemType == "" {
			itemType = builtin.TypeForFilename(path)
		}

		id := uuid.NewString()
		ids = append(ids, id)

		logger.Debug("queued input",
			slog.String("id", id),
			slog.String("filename", path),
			slog.String("type", itemType))

		items = append(items, model.WorkItem{Content: content, Filename: path, Type: itemType})
	}

	return items, ids, nil
}

// outputWriter picks a distinct output path per result. Inputs are never overwritten and two
// results never share a path.
type outputWriter struct {
	dir    string
	used   map[string]struct{}
	inputs []os.FileInfo
}

func newOutputWriter(dir string, items []model.WorkItem) (*outputWriter, error) {
	w := &outputWriter{dir: dir, used: make(map[string]struct{}, len(items)*2)}

	for _, item := range items {
		abs, err := filepath.Abs(item.Filename)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to resolve %s", item.Filename)
		}

		w.used[abs] = struct{}{}

		if info, err := os.Stat(item.Filename); err == nil {
			w.inputs = append(w.inputs, info)
		}
	}

	return w, nil
}

func (w *outputWriter) write(item *model.WorkItem) (string, error) {
	base := filepath.Base(item.Filename)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	ext := builtin.ExtensionForType(item.Type)

	for i := 0; ; i++ {
		path := filepath.Join(w.dir, outputName(stem, ext, i))

		abs, err := filepath.Abs(path)
		if err != nil {
			return "", errors.Wrapf(err, "unable to resolve %s", path)
		}

		if _, ok := w.used[abs]; ok || w.isInput(path) {
			continue
		}

		w.used[abs] = struct{}{}

		if err := os.WriteFile(path, item.Content, 0o600); err != nil {
			return "", errors.Wrapf(err, "unable to write %s", path)
		}

		return path, nil
	}
}

// isInput catches inputs reached through another path, a symlink for instance.
func (w *outputWriter) isInput(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	for _, input := range w.inputs {
		if os.SameFile(info, input) {
			return true
		}
	}

	return false
}

func outputName(stem, ext string, attempt int) string {
	switch attempt {
	case 0:
		return stem + ext
	case 1:
		return stem + ".converted" + ext
	default:
		return fmt.Sprintf("%s.converted-%d%s", stem, attempt, ext)
	}
}

func logMetrics(logger *slog.Logger, msr measure.Measure) {
	for name, mt := range msr.AllMetrics() {
		logger.Debug("step metrics",
			slog.String("step", name),
			slog.Int64("applied", mt.Applied()),
			slog.Int64("skipped", mt.Skipped()),
			slog.Duration("avg", mt.AVGDuration()))
	}
}
