package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"

	"github.com/sdf-lwm2m/converter-go/pkg/config"
)

var errUsage = errors.New("invalid arguments")

type options struct {
	toSDF     bool
	toLwM2M   bool
	roundtrip bool

	sdfModel   string
	sdfMapping string
	deviceXML  string
	clusterXML string
	output     string

	validate string
	strict   bool
	workers  int
	eventLog string
	logLevel slog.Level

	cfg *config.Config
}

func parseArgs(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("sdf-lwm2m-converter", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var o options
	var configPath, logLevel string
	fs.BoolVar(&o.toSDF, "lwm2m-to-sdf", false, "Convert LwM2M to SDF")
	fs.BoolVar(&o.toLwM2M, "sdf-to-lwm2m", false, "Convert SDF to LwM2M")
	fs.BoolVar(&o.roundtrip, "roundtrip", false, "Convert to the other format and back, write the source format")
	fs.StringVar(&o.sdfModel, "sdf-model", "", "SDF model input")
	fs.StringVar(&o.sdfMapping, "sdf-mapping", "", "SDF mapping input")
	fs.StringVar(&o.deviceXML, "device-xml", "", "LwM2M device definition input")
	fs.StringVar(&o.clusterXML, "cluster-xml", "", "LwM2M Object definition file, or a directory walked for *.xml")
	fs.StringVar(&o.output, "o", "", "Output path (shorthand for -output)")
	fs.StringVar(&o.output, "output", "", "Output path; suffixed with -model/-mapping or -device/-cluster_<n>")
	fs.StringVar(&o.validate, "validate", "", "JSON Schema for SDF outputs; also enables LwM2M profile checks")
	fs.BoolVar(&o.strict, "strict", false, "Exit 2 on validation failures or error diagnostics")
	fs.IntVar(&o.workers, "workers", 0, "Parser goroutines for cluster batches (default GOMAXPROCS)")
	fs.StringVar(&configPath, "config", "", "YAML file with defaults for the other flags")
	fs.StringVar(&o.eventLog, "event-log", "", "CBOR translation event log")
	fs.StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: unexpected argument %q", errUsage, fs.Arg(0))
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	o.cfg = config.Default()
	if configPath != "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		o.cfg = cfg
		if !set["workers"] {
			o.workers = cfg.Workers
		}
		if !set["validate"] {
			o.validate = cfg.Validate
		}
		if !set["strict"] {
			o.strict = cfg.Strict
		}
		if !set["event-log"] {
			o.eventLog = cfg.EventLog
		}
		if !set["log-level"] {
			logLevel = cfg.LogLevel
		}
	}

	level, err := config.ParseLevel(logLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errUsage, err)
	}
	o.logLevel = level

	if err := o.check(); err != nil {
		return nil, err
	}
	return &o, nil
}

func (o *options) check() error {
	switch {
	case o.toSDF == o.toLwM2M:
		return fmt.Errorf("%w: exactly one of -lwm2m-to-sdf and -sdf-to-lwm2m is required", errUsage)
	case o.output == "":
		return fmt.Errorf("%w: -o is required", errUsage)
	case o.workers < 0:
		return fmt.Errorf("%w: -workers must not be negative", errUsage)
	case o.toSDF && o.clusterXML == "":
		return fmt.Errorf("%w: -lwm2m-to-sdf needs -cluster-xml", errUsage)
	case o.toLwM2M && o.sdfModel == "":
		return fmt.Errorf("%w: -sdf-to-lwm2m needs -sdf-model", errUsage)
	}
	return nil
}
