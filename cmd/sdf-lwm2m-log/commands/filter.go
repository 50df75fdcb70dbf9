package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/sdf-lwm2m/converter-go/pkg/log"
)

// FilterOptions specifies filtering criteria for the filter command.
type FilterOptions struct {
	Output    string
	RunID     string
	Source    string
	TimeStart string
	TimeEnd   string
	Direction string
	Stage     string
	Category  string
	Kind      string
	Severity  string
}

// buildFilter turns the textual options into a log.Filter.
func (opts FilterOptions) buildFilter() (log.Filter, error) {
	filter := log.Filter{RunID: opts.RunID, Source: opts.Source}

	if opts.TimeStart != "" {
		t, err := time.Parse(time.RFC3339, opts.TimeStart)
		if err != nil {
			return filter, fmt.Errorf("invalid time-start format: %w", err)
		}
		filter.TimeStart = &t
	}
	if opts.TimeEnd != "" {
		t, err := time.Parse(time.RFC3339, opts.TimeEnd)
		if err != nil {
			return filter, fmt.Errorf("invalid time-end format: %w", err)
		}
		filter.TimeEnd = &t
	}
	if opts.Direction != "" {
		d, err := ParseDirectionFlag(opts.Direction)
		if err != nil {
			return filter, err
		}
		filter.Direction = &d
	}
	if opts.Stage != "" {
		s, err := ParseStageFlag(opts.Stage)
		if err != nil {
			return filter, err
		}
		filter.Stage = &s
	}
	if opts.Category != "" {
		c, err := ParseCategoryFlag(opts.Category)
		if err != nil {
			return filter, err
		}
		filter.Category = &c
	}
	if opts.Kind != "" {
		k, err := ParseKindFlag(opts.Kind)
		if err != nil {
			return filter, err
		}
		filter.Kind = &k
	}
	if opts.Severity != "" {
		s, err := ParseSeverityFlag(opts.Severity)
		if err != nil {
			return filter, err
		}
		filter.Severity = &s
	}
	return filter, nil
}

// RunFilter copies the matching events of the log file into opts.Output.
func RunFilter(path string, opts FilterOptions, stdout io.Writer) error {
	filter, err := opts.buildFilter()
	if err != nil {
		return err
	}

	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	logger, err := log.NewFileLogger(opts.Output)
	if err != nil {
		return fmt.Errorf("failed to create output logger: %w", err)
	}

	count := 0
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.Close()
			return fmt.Errorf("failed to read event: %w", err)
		}
		logger.Log(event)
		count++
	}
	if err := logger.Close(); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Filtered %d events to %s\n", count, opts.Output)
	return nil
}
