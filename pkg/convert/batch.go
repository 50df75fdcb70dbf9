package convert

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/sdf-lwm2m/converter-go/pkg/diag"
	"github.com/sdf-lwm2m/converter-go/pkg/lwm2m"
	"github.com/sdf-lwm2m/converter-go/pkg/xmltree"
)

// Source is one LwM2M document of a batch.
type Source struct {
	Name string // file name, used in diagnostics
	Data []byte
}

// partial is the result of one source, written only by its worker.
type partial struct {
	objects []*lwm2m.Object
	report  diag.Report
}

// ParseBatch parses every source on at most workers goroutines. Malformed
// documents and Objects are reported and skipped. The objects come back in
// ascending ObjectID order, ties in source order, whatever the scheduling.
func ParseBatch(ctx context.Context, docs []Source, workers int) ([]*lwm2m.Object, *diag.Report, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	parts := make([]partial, len(docs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, doc := range docs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			parseSource(doc, &parts[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	report := &diag.Report{}
	var objects []*lwm2m.Object
	for i := range parts {
		report.Merge(&parts[i].report)
		objects = append(objects, parts[i].objects...)
	}
	return lwm2m.NewModel(nil, objects).Objects, report, nil
}

func parseSource(doc Source, out *partial) {
	root, err := xmltree.ParseBytes(doc.Data)
	if err != nil {
		out.report.Error(diag.KindStructuralParse, doc.Name, "%v", err)
		return
	}
	out.objects, _ = lwm2m.ParseDocument(root, doc.Name, &out.report)
}
