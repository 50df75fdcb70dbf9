package convert

import (
	"github.com/sdf-lwm2m/converter-go/pkg/diag"
	"github.com/sdf-lwm2m/converter-go/pkg/lwm2m"
	"github.com/sdf-lwm2m/converter-go/pkg/sdf"
)

// LwM2MRoundTrip is the outcome of LwM2M -> SDF -> LwM2M.
type LwM2MRoundTrip struct {
	Intermediate *SDFResult
	Final        lwm2m.Model
	Differences  []Difference

	// Report holds both passes followed by one FIDELITY warning per
	// difference.
	Report *diag.Report
}

// RoundTripLwM2M translates model to SDF and back, feeding the mapping of
// the first pass into the second, and compares the result with model.
func RoundTripLwM2M(model lwm2m.Model, opts Options) *LwM2MRoundTrip {
	forward := ToSDF(model, opts)
	back := ToLwM2M(forward.Model, forward.Mapping)

	rt := &LwM2MRoundTrip{
		Intermediate: forward,
		Final:        back.Model,
		Differences:  DiffObjects(model, back.Model),
		Report:       &diag.Report{},
	}
	rt.Report.Merge(forward.Report)
	rt.Report.Merge(back.Report)
	reportDifferences(rt.Report, rt.Differences)
	return rt
}

// SDFRoundTrip is the outcome of SDF -> LwM2M -> SDF.
type SDFRoundTrip struct {
	Intermediate *LwM2MResult
	Final        *SDFResult
	Differences  []Difference
	Report       *diag.Report
}

// RoundTripSDF translates an SDF model with its mapping to LwM2M and back.
func RoundTripSDF(model *sdf.Model, mapping *sdf.Mapping, opts Options) *SDFRoundTrip {
	back := ToLwM2M(model, mapping)
	if opts.Info == nil && model.Info != nil {
		info := *model.Info
		opts.Info = &info
	}
	forward := ToSDF(back.Model, opts)

	rt := &SDFRoundTrip{
		Intermediate: back,
		Final:        forward,
		Differences:  DiffSDF(model, forward.Model),
		Report:       &diag.Report{},
	}
	rt.Report.Merge(back.Report)
	rt.Report.Merge(forward.Report)
	reportDifferences(rt.Report, rt.Differences)
	return rt
}

func reportDifferences(r *diag.Report, diffs []Difference) {
	for _, d := range diffs {
		r.Warn(diag.KindFidelity, d.Path, "%s changed: want %q, got %q", d.Field, d.Want, d.Got)
	}
}
