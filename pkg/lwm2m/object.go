package lwm2m

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/sdf-lwm2m/converter-go/pkg/diag"
	"github.com/sdf-lwm2m/converter-go/pkg/version"
	"github.com/sdf-lwm2m/converter-go/pkg/xmltree"
)

// Object is one LwM2M Object definition.
type Object struct {
	Name              string
	ObjectType        string
	Description1      string
	Description2      string
	ObjectID          int
	ObjectURN         string
	LwM2MVersion      float64
	ObjectVersion     float64
	MultipleInstances bool
	Mandatory         bool

	// Resources maps resource id to Resource. Use IDs for ordered access.
	Resources map[int]Resource
}

// Object element and header child names.
const (
	elemObject        = "Object"
	elemResources     = "Resources"
	elemItem          = "Item"
	elemResource      = "Resource"
	elemDescription1  = "Description1"
	elemDescription2  = "Description2"
	elemObjectID      = "ObjectID"
	elemObjectURN     = "ObjectURN"
	elemLwM2MVersion  = "LWM2MVersion"
	elemObjectVersion = "ObjectVersion"
	attrObjectType    = "ObjectType"
	attrID            = "ID"
)

// NewObject creates an Object with an empty resource table.
func NewObject(name string, id int) *Object {
	return &Object{Name: name, ObjectID: id, Resources: make(map[int]Resource)}
}

// AddResource inserts a resource. Resource ids are unique within an Object.
func (o *Object) AddResource(id int, r Resource) error {
	if o.Resources == nil {
		o.Resources = make(map[int]Resource)
	}
	if _, dup := o.Resources[id]; dup {
		return fmt.Errorf("duplicate resource id %d", id)
	}
	o.Resources[id] = r
	return nil
}

// IDs returns the resource ids in ascending order.
func (o *Object) IDs() []int {
	ids := make([]int, 0, len(o.Resources))
	for id := range o.Resources {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Path returns the diagnostic path of the object ("3303").
func (o *Object) Path() string {
	return strconv.Itoa(o.ObjectID)
}

// ResourcePath returns the diagnostic path of a resource ("3303/5700").
func (o *Object) ResourcePath(id int) string {
	return fmt.Sprintf("%d/%d", o.ObjectID, id)
}

// ParseObject reads one <Object> element. A missing Name or ObjectID, a
// resource without a numeric ID or Name, and duplicate resource ids abort
// the object with a *diag.StructuralError. Vocabulary and numeric problems
// are reported to report (which may be nil) and never fail the parse.
func ParseObject(n xmltree.Node, report *diag.Report) (*Object, error) {
	name, ok := childTextOK(n, elemName)
	if !ok {
		return nil, diag.Structuralf("Object", "missing <%s>", elemName)
	}
	idText, ok := childTextOK(n, elemObjectID)
	if !ok {
		return nil, diag.Structuralf("Object "+name, "missing <%s>", elemObjectID)
	}

	id, exact := atoi(idText)
	o := NewObject(name, id)
	if !exact {
		warn(report, diag.KindNumericParse, o.Path(), "ObjectID %q is not numeric, using %d", idText, id)
	}

	o.ObjectType, _ = n.Attr(attrObjectType)
	o.Description1 = childText(n, elemDescription1)
	o.Description2 = childText(n, elemDescription2)
	o.ObjectURN = strings.TrimSpace(childText(n, elemObjectURN))
	o.LwM2MVersion = parseVersionField(n, elemLwM2MVersion, o.Path(), report)
	o.ObjectVersion = parseVersionField(n, elemObjectVersion, o.Path(), report)

	miText, miPresent := childTextOK(n, elemMultipleInstances)
	miText = strings.TrimSpace(miText)
	var known bool
	o.MultipleInstances, known = ParseMultipleInstances(miText)
	if miPresent && !known {
		warn(report, diag.KindVocabularyMismatch, o.Path(), "unknown MultipleInstances %q, using Multiple", miText)
	}
	mText, mPresent := childTextOK(n, elemMandatory)
	mText = strings.TrimSpace(mText)
	o.Mandatory, known = ParseMandatory(mText)
	if mPresent && !known {
		warn(report, diag.KindVocabularyMismatch, o.Path(), "unknown Mandatory %q, using Mandatory", mText)
	}

	for _, item := range resourceNodes(n) {
		idAttr, ok := item.Attr(attrID)
		if !ok {
			return nil, diag.Structuralf(o.Path(), "resource element without %s attribute", attrID)
		}
		rid, err := strconv.Atoi(strings.TrimSpace(idAttr))
		if err != nil {
			return nil, diag.Structuralf(o.Path(), "resource %s %q is not an integer", attrID, idAttr)
		}
		if _, ok := item.Child(elemName); !ok {
			return nil, diag.Structuralf(o.ResourcePath(rid), "resource missing <%s>", elemName)
		}
		r := ParseResource(item, o.ResourcePath(rid), report)
		if err := o.AddResource(rid, r); err != nil {
			return nil, diag.Structuralf(o.Path(), "%v", err)
		}
	}

	return o, nil
}

// resourceNodes returns the resource elements of an object: <Item> children
// of <Resources> (registry layout) and direct <Resource> children.
func resourceNodes(n xmltree.Node) []xmltree.Node {
	var out []xmltree.Node
	if res, ok := n.Child(elemResources); ok {
		for _, c := range res.Children() {
			if c.Name() == elemItem || c.Name() == elemResource {
				out = append(out, c)
			}
		}
	}
	for _, c := range n.Children() {
		if c.Name() == elemResource {
			out = append(out, c)
		}
	}
	return out
}

func parseVersionField(n xmltree.Node, elem, path string, report *diag.Report) float64 {
	text, ok := childTextOK(n, elem)
	if !ok || strings.TrimSpace(text) == "" {
		return 0
	}
	f, exact := atof(text)
	if !exact {
		warn(report, diag.KindNumericParse, path, "%s %q is not numeric, using %s", elem, text, version.Format(f))
	}
	return f
}

// Serialize writes the object as an <Object> element. Resources are emitted
// in ascending id order. Zero versions and an empty URN are omitted.
func (o *Object) Serialize() *xmltree.Element {
	el := xmltree.NewElement(elemObject)
	if o.ObjectType != "" {
		el.SetAttr(attrObjectType, o.ObjectType)
	}
	el.AppendText(elemName, o.Name).
		AppendText(elemDescription1, o.Description1).
		AppendText(elemObjectID, strconv.Itoa(o.ObjectID))
	if o.ObjectURN != "" {
		el.AppendText(elemObjectURN, o.ObjectURN)
	}
	if o.LwM2MVersion != 0 {
		el.AppendText(elemLwM2MVersion, version.Format(o.LwM2MVersion))
	}
	if o.ObjectVersion != 0 {
		el.AppendText(elemObjectVersion, version.Format(o.ObjectVersion))
	}
	el.AppendText(elemMultipleInstances, FormatMultipleInstances(o.MultipleInstances)).
		AppendText(elemMandatory, FormatMandatory(o.Mandatory))

	resources := xmltree.NewElement(elemResources)
	for _, id := range o.IDs() {
		resources.Append(o.Resources[id].Serialize(id))
	}
	el.Append(resources)

	if o.Description2 != "" {
		el.AppendText(elemDescription2, o.Description2)
	}
	return el
}
