// Package log records translation events for the converter.
//
// Operational messages go through slog. This package is the machine-readable
// trace of a run: every pipeline stage and every diagnostic produced while
// parsing, translating, validating and writing device models.
//
// # Basic Usage
//
//	file, _ := log.NewFileLogger("run.tlog")
//	defer file.Close()
//	logger := log.NewMultiLogger(log.NewSlogAdapter(slog.Default()), file)
//
//	run := log.NewRun(logger, log.DirectionToSDF)
//	run.Start(log.StageTranslate, "")
//	result := convert.ToSDF(model, opts)
//	run.Report(log.StageTranslate, "", result.Report)
//	run.Finish(log.StageTranslate, "", len(model.Objects), result.Report.Len())
//
// # File Format
//
// Log files are a sequence of CBOR-encoded events with integer keys,
// conventionally with a .tlog extension. The sdf-lwm2m-log tool views,
// filters and exports them.
package log
