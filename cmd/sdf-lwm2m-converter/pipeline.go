package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/sdf-lwm2m/converter-go/internal/fileio"
	"github.com/sdf-lwm2m/converter-go/pkg/convert"
	"github.com/sdf-lwm2m/converter-go/pkg/diag"
	eventlog "github.com/sdf-lwm2m/converter-go/pkg/log"
	"github.com/sdf-lwm2m/converter-go/pkg/lwm2m"
	"github.com/sdf-lwm2m/converter-go/pkg/sdf"
	"github.com/sdf-lwm2m/converter-go/pkg/validate"
	"github.com/sdf-lwm2m/converter-go/pkg/xmltree"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitStrict  = 2
)

type pipeline struct {
	opts   *options
	logger *slog.Logger
	run    *eventlog.Run
	stdout io.Writer

	report  diag.Report
	invalid int // documents that failed validation
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: opts.logLevel}))

	events := []eventlog.Logger{eventlog.NewSlogAdapter(logger)}
	if opts.eventLog != "" {
		file, err := eventlog.NewFileLogger(opts.eventLog)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitFailure
		}
		defer func() {
			if err := file.Close(); err != nil {
				logger.Error("closing event log", "path", opts.eventLog, "error", err)
			}
		}()
		events = append(events, file)
	}

	direction := eventlog.DirectionToSDF
	if opts.toLwM2M {
		direction = eventlog.DirectionToLwM2M
	}
	p := &pipeline{
		opts:   opts,
		logger: logger,
		run:    eventlog.NewRun(eventlog.NewMultiLogger(events...), direction),
		stdout: stdout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("starting conversion", "run_id", p.run.ID(), "direction", direction.String(), "roundtrip", opts.roundtrip)
	if opts.toSDF {
		err = p.lwm2mToSDF(ctx)
	} else {
		err = p.sdfToLwM2M()
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}

	fmt.Fprintf(stdout, "diagnostics: %s\n", p.report.Summary())
	if p.opts.strict && (p.invalid > 0 || p.report.HasErrors()) {
		logger.Warn("strict mode failure", "invalid_documents", p.invalid, "errors", p.report.HasErrors())
		return exitStrict
	}
	return exitOK
}

func (p *pipeline) options() convert.Options {
	return p.opts.cfg.Options()
}

// record merges a stage's diagnostics into the run report and the event log.
func (p *pipeline) record(stage eventlog.Stage, source string, r *diag.Report) {
	p.run.Report(stage, source, r)
	p.report.Merge(r)
}

func (p *pipeline) fail(stage eventlog.Stage, source string, err error) error {
	p.run.Fail(stage, source, err)
	return err
}

func (p *pipeline) lwm2mToSDF(ctx context.Context) error {
	src := p.opts.clusterXML
	p.run.Start(eventlog.StageParse, src)

	paths, err := fileio.WalkClusters(src)
	if err != nil {
		return p.fail(eventlog.StageParse, src, err)
	}
	if len(paths) == 0 {
		return p.fail(eventlog.StageParse, src, fmt.Errorf("no *.xml files in %s", src))
	}
	docs, err := fileio.ReadSources(paths)
	if err != nil {
		return p.fail(eventlog.StageParse, src, err)
	}

	var grouping lwm2m.Grouping = lwm2m.Ungrouped{}
	if p.opts.deviceXML != "" {
		root, err := fileio.LoadXML(p.opts.deviceXML)
		if err != nil {
			return p.fail(eventlog.StageParse, p.opts.deviceXML, err)
		}
		var devReport diag.Report
		dev, err := lwm2m.ParseDevice(root, &devReport)
		p.record(eventlog.StageParse, p.opts.deviceXML, &devReport)
		if err != nil {
			return p.fail(eventlog.StageParse, p.opts.deviceXML, fmt.Errorf("%s: %w", p.opts.deviceXML, err))
		}
		grouping = dev
	}

	objects, parsed, err := convert.ParseBatch(ctx, docs, p.opts.workers)
	if err != nil {
		return p.fail(eventlog.StageParse, src, err)
	}
	p.record(eventlog.StageParse, src, parsed)
	p.run.Finish(eventlog.StageParse, src, len(objects), parsed.Len())
	if len(objects) == 0 {
		return p.fail(eventlog.StageParse, src, fmt.Errorf("no readable Objects in %s", src))
	}
	p.logger.Debug("parsed cluster documents", "files", len(paths), "objects", len(objects))

	model := lwm2m.NewModel(grouping, objects)
	if p.opts.roundtrip {
		p.run.Start(eventlog.StageRoundTrip, "")
		rt := convert.RoundTripLwM2M(model, p.options())
		checkResources(rt.Final, rt.Report)
		p.record(eventlog.StageRoundTrip, "", rt.Report)
		p.run.Finish(eventlog.StageRoundTrip, "", len(rt.Final.Objects), rt.Report.Len())
		p.logger.Info("round trip finished", "differences", len(rt.Differences))
		return p.writeLwM2M(rt.Final)
	}

	p.run.Start(eventlog.StageTranslate, "")
	res := convert.ToSDF(model, p.options())
	p.record(eventlog.StageTranslate, "", res.Report)
	p.run.Finish(eventlog.StageTranslate, "", len(model.Objects), res.Report.Len())
	return p.writeSDF(res.Model, res.Mapping)
}

func (p *pipeline) sdfToLwM2M() error {
	src := p.opts.sdfModel
	p.run.Start(eventlog.StageParse, src)
	model, mapping, err := fileio.LoadSDF(src, p.opts.sdfMapping)
	if err != nil {
		return p.fail(eventlog.StageParse, src, err)
	}
	p.run.Finish(eventlog.StageParse, src, countObjects(model), 0)

	if p.opts.roundtrip {
		p.run.Start(eventlog.StageRoundTrip, "")
		rt := convert.RoundTripSDF(model, mapping, p.options())
		p.record(eventlog.StageRoundTrip, "", rt.Report)
		p.run.Finish(eventlog.StageRoundTrip, "", len(rt.Intermediate.Model.Objects), rt.Report.Len())
		p.logger.Info("round trip finished", "differences", len(rt.Differences))
		return p.writeSDF(rt.Final.Model, rt.Final.Mapping)
	}

	p.run.Start(eventlog.StageTranslate, "")
	res := convert.ToLwM2M(model, mapping)
	checkResources(res.Model, res.Report)
	p.record(eventlog.StageTranslate, "", res.Report)
	p.run.Finish(eventlog.StageTranslate, "", len(res.Model.Objects), res.Report.Len())
	return p.writeLwM2M(res.Model)
}

// checkResources reports, as errors, resources that would be written with
// Undefined operations, or an Undefined type outside Execute.
func checkResources(model lwm2m.Model, report *diag.Report) {
	for _, o := range model.Objects {
		for _, id := range o.IDs() {
			if err := o.Resources[id].Validate(); err != nil {
				report.Error(diag.KindVocabularyMismatch, o.ResourcePath(id), "%v", err)
			}
		}
	}
}

func countObjects(m *sdf.Model) int {
	n := 0
	m.Objects(func(string, string, *sdf.Object) { n++ })
	return n
}

func (p *pipeline) prepareOutput() error {
	dir := filepath.Dir(p.opts.output)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	return nil
}

func (p *pipeline) writeSDF(model *sdf.Model, mapping *sdf.Mapping) error {
	out := p.opts.output
	p.run.Start(eventlog.StageWrite, out)
	if err := p.prepareOutput(); err != nil {
		return p.fail(eventlog.StageWrite, out, err)
	}
	modelPath, mappingPath := fileio.SDFFilenames(out)
	for _, f := range []struct {
		path string
		v    any
	}{{modelPath, model}, {mappingPath, mapping}} {
		if err := fileio.SaveJSON(f.path, f.v); err != nil {
			return p.fail(eventlog.StageWrite, f.path, err)
		}
		fmt.Fprintf(p.stdout, "wrote %s\n", f.path)
	}
	p.run.Finish(eventlog.StageWrite, out, countObjects(model), 0)

	if p.opts.validate == "" {
		return nil
	}
	return p.validateJSON(modelPath, mappingPath)
}

func (p *pipeline) validateJSON(paths ...string) error {
	p.run.Start(eventlog.StageValidate, p.opts.validate)
	schema, err := validate.LoadSchema(p.opts.validate)
	if err != nil {
		return p.fail(eventlog.StageValidate, p.opts.validate, err)
	}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return p.fail(eventlog.StageValidate, path, fmt.Errorf("reading %s: %w", path, err))
		}
		res, err := schema.Validate(data)
		if err != nil {
			return p.fail(eventlog.StageValidate, path, fmt.Errorf("%s: %w", path, err))
		}
		p.recordValidation(path, res)
	}
	p.run.Finish(eventlog.StageValidate, p.opts.validate, len(paths), 0)
	return nil
}

func (p *pipeline) writeLwM2M(model lwm2m.Model) error {
	out := p.opts.output
	p.run.Start(eventlog.StageWrite, out)
	if err := p.prepareOutput(); err != nil {
		return p.fail(eventlog.StageWrite, out, err)
	}
	docs := model.Serialize()
	devicePath, clusterPaths := fileio.LwM2MFilenames(out, len(docs.Clusters))

	type output struct {
		path string
		root *xmltree.Element
	}
	var outputs []output
	if docs.Device != nil {
		outputs = append(outputs, output{devicePath, docs.Device})
	}
	for i, c := range docs.Clusters {
		outputs = append(outputs, output{clusterPaths[i], c})
	}
	for _, o := range outputs {
		if err := fileio.SaveXML(o.path, o.root); err != nil {
			return p.fail(eventlog.StageWrite, o.path, err)
		}
		fmt.Fprintf(p.stdout, "wrote %s\n", o.path)
	}
	p.run.Finish(eventlog.StageWrite, out, len(model.Objects), 0)

	if p.opts.validate == "" {
		return nil
	}
	p.run.Start(eventlog.StageValidate, "")
	v := &validate.Validator{Strict: p.opts.strict}
	for _, o := range outputs {
		p.recordValidation(o.path, v.Validate(o.root))
	}
	p.run.Finish(eventlog.StageValidate, "", len(outputs), 0)
	return nil
}

func (p *pipeline) recordValidation(path string, res *validate.Result) {
	var r diag.Report
	res.Record(&r, "")
	p.record(eventlog.StageValidate, path, &r)
	if res.Valid {
		fmt.Fprintf(p.stdout, "%s valid\n", path)
		return
	}
	p.invalid++
	fmt.Fprintf(p.stdout, "%s not valid (%d errors)\n", path, len(res.Errors))
}
