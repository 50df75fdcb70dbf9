package lwm2m

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sdf-lwm2m/converter-go/pkg/diag"
	"github.com/sdf-lwm2m/converter-go/pkg/xmltree"
)

// Resource is one LwM2M Resource definition. The resource id is the key in
// the owning Object, not a field.
type Resource struct {
	Name              string
	Operations        Operations
	MultipleInstances bool
	Mandatory         bool
	Type              Type
	RangeEnumeration  string
	Units             string
	Description       string
}

// Resource child element names.
const (
	elemName              = "Name"
	elemOperations        = "Operations"
	elemMultipleInstances = "MultipleInstances"
	elemMandatory         = "Mandatory"
	elemType              = "Type"
	elemRangeEnumeration  = "RangeEnumeration"
	elemUnits             = "Units"
	elemDescription       = "Description"
)

// ParseResource reads a Resource from an <Item> (or <Resource>) element.
// It never fails: unknown vocabulary resolves to the Undefined/default
// variant and is reported to report under path. report may be nil.
func ParseResource(n xmltree.Node, path string, report *diag.Report) Resource {
	r := Resource{
		Name:             childText(n, elemName),
		RangeEnumeration: childText(n, elemRangeEnumeration),
		Units:            childText(n, elemUnits),
		Description:      childText(n, elemDescription),
	}

	opText := strings.TrimSpace(childText(n, elemOperations))
	op, ok := ParseOperations(opText)
	if !ok {
		warn(report, diag.KindVocabularyMismatch, path, "unknown Operations %q, using Undefined", opText)
	}
	r.Operations = op

	typeText := strings.TrimSpace(childText(n, elemType))
	typ, ok := ParseType(typeText)
	// Execute resources carry an empty Type in the registry.
	if !ok && !(typeText == "" && op == OperationsExecute) {
		warn(report, diag.KindVocabularyMismatch, path, "unknown Type %q, using Undefined", typeText)
	}
	r.Type = typ

	miText, miPresent := childTextOK(n, elemMultipleInstances)
	miText = strings.TrimSpace(miText)
	var known bool
	r.MultipleInstances, known = ParseMultipleInstances(miText)
	if miPresent && !known {
		warn(report, diag.KindVocabularyMismatch, path, "unknown MultipleInstances %q, using Multiple", miText)
	}

	mText, mPresent := childTextOK(n, elemMandatory)
	mText = strings.TrimSpace(mText)
	r.Mandatory, known = ParseMandatory(mText)
	if mPresent && !known {
		warn(report, diag.KindVocabularyMismatch, path, "unknown Mandatory %q, using Mandatory", mText)
	}

	return r
}

// Serialize writes the resource as an <Item ID="id"> element.
func (r Resource) Serialize(id int) *xmltree.Element {
	el := xmltree.NewElement("Item").SetAttr("ID", strconv.Itoa(id))
	el.AppendText(elemName, r.Name).
		AppendText(elemOperations, r.Operations.String()).
		AppendText(elemMultipleInstances, FormatMultipleInstances(r.MultipleInstances)).
		AppendText(elemMandatory, FormatMandatory(r.Mandatory)).
		AppendText(elemType, r.Type.String()).
		AppendText(elemRangeEnumeration, r.RangeEnumeration).
		AppendText(elemUnits, r.Units).
		AppendText(elemDescription, r.Description)
	return el
}

// ErrUndefinedOperations is returned by Validate for a resource whose
// operations did not resolve to a known variant.
var ErrUndefinedOperations = errors.New("resource operations are undefined")

// ErrUndefinedType is returned by Validate for a non-executable resource
// whose type did not resolve to a known variant.
var ErrUndefinedType = errors.New("resource type is undefined")

// Validate reports whether the resource is fit to hand to another system.
// An Execute resource may have an Undefined type.
func (r Resource) Validate() error {
	if r.Operations == OperationsUndefined {
		return fmt.Errorf("%s: %w", r.Name, ErrUndefinedOperations)
	}
	if r.Type == TypeUndefined && r.Operations != OperationsExecute {
		return fmt.Errorf("%s: %w", r.Name, ErrUndefinedType)
	}
	return nil
}

func childText(n xmltree.Node, name string) string {
	s, _ := childTextOK(n, name)
	return s
}

func childTextOK(n xmltree.Node, name string) (string, bool) {
	c, ok := n.Child(name)
	if !ok {
		return "", false
	}
	return c.Text(), true
}

func warn(report *diag.Report, kind diag.Kind, path, format string, args ...any) {
	if report != nil {
		report.Warn(kind, path, format, args...)
	}
}
