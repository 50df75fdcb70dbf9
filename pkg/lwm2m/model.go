package lwm2m

import (
	"sort"

	"github.com/sdf-lwm2m/converter-go/pkg/diag"
	"github.com/sdf-lwm2m/converter-go/pkg/xmltree"
)

// Model is a set of Objects with their grouping.
type Model struct {
	Grouping Grouping

	// Objects in ascending ObjectID order (stable for equal ids).
	Objects []*Object
}

// NewModel builds a model and orders its objects by ObjectID. A nil
// grouping is treated as Ungrouped.
func NewModel(g Grouping, objects []*Object) Model {
	if g == nil {
		g = Ungrouped{}
	}
	sorted := make([]*Object, len(objects))
	copy(sorted, objects)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ObjectID < sorted[j].ObjectID
	})
	return Model{Grouping: g, Objects: sorted}
}

// Device returns the grouping device, if any.
func (m Model) Device() (*Device, bool) {
	d, ok := m.Grouping.(*Device)
	return d, ok && d != nil
}

// Object returns the first object with the given id.
func (m Model) Object(id int) (*Object, bool) {
	for _, o := range m.Objects {
		if o.ObjectID == id {
			return o, true
		}
	}
	return nil, false
}

// ParseDocument returns every Object of an LwM2M document. The root is
// either <LWM2M> or a single <Object>. A malformed Object is recorded in
// report as a STRUCTURAL error and returned in errs; its siblings are still
// parsed. source names the document in diagnostics.
func ParseDocument(root xmltree.Node, source string, report *diag.Report) (objects []*Object, errs []error) {
	var nodes []xmltree.Node
	switch root.Name() {
	case elemLwM2M:
		for _, c := range root.Children() {
			if c.Name() == elemObject {
				nodes = append(nodes, c)
			}
		}
	case elemObject:
		nodes = append(nodes, root)
	default:
		err := diag.Structuralf(source, "unexpected root element <%s>", root.Name())
		recordStructural(report, err)
		return nil, []error{err}
	}

	if len(nodes) == 0 {
		err := diag.Structuralf(source, "document contains no <%s>", elemObject)
		recordStructural(report, err)
		return nil, []error{err}
	}

	for _, n := range nodes {
		o, err := ParseObject(n, report)
		if err != nil {
			if se, ok := err.(*diag.StructuralError); ok && source != "" {
				se.Path = source + ": " + se.Path
			}
			recordStructural(report, err)
			errs = append(errs, err)
			continue
		}
		objects = append(objects, o)
	}
	return objects, errs
}

func recordStructural(report *diag.Report, err error) {
	if report == nil {
		return
	}
	path := ""
	msg := err.Error()
	if se, ok := err.(*diag.StructuralError); ok {
		path, msg = se.Path, se.Reason
	}
	report.Error(diag.KindStructuralParse, path, "%s", msg)
}

// NewDocument wraps objects in an <LWM2M> document root.
func NewDocument(objects ...*Object) *xmltree.Element {
	root := newDocumentRoot()
	for _, o := range objects {
		root.Append(o.Serialize())
	}
	return root
}

// Documents holds the serialized form of a model.
type Documents struct {
	// Device is nil for an ungrouped model.
	Device   *xmltree.Element
	Clusters []*xmltree.Element
}

// Serialize writes the model as one cluster document per Object plus a
// device document when grouped.
func (m Model) Serialize() Documents {
	var docs Documents
	switch g := m.Grouping.(type) {
	case *Device:
		if g != nil {
			docs.Device = g.Serialize()
		}
	case Ungrouped:
	}
	for _, o := range m.Objects {
		docs.Clusters = append(docs.Clusters, NewDocument(o))
	}
	return docs
}
