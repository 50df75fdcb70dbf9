package lwm2m

import (
	"strconv"
	"strings"

	"github.com/sdf-lwm2m/converter-go/pkg/diag"
	"github.com/sdf-lwm2m/converter-go/pkg/xmltree"
)

// Grouping tells whether the Objects of a Model stand alone or are grouped
// under a Device. It is either Ungrouped or *Device.
type Grouping interface {
	grouping()
}

// Ungrouped is the Grouping of a model made of standalone cluster files.
type Ungrouped struct{}

func (Ungrouped) grouping() {}

// Device groups several Objects by reference.
type Device struct {
	Name        string
	Description string

	// ObjectIDs lists the referenced objects in document order.
	ObjectIDs []int
}

func (*Device) grouping() {}

// Compile-time variant checks.
var (
	_ Grouping = Ungrouped{}
	_ Grouping = (*Device)(nil)
)

const (
	elemLwM2M      = "LWM2M"
	elemDevice     = "Device"
	elemObjects    = "Objects"
	attrObjectID   = "ObjectID"
	schemaLocation = "http://www.openmobilealliance.org/tech/profiles/LWM2M.xsd"
	xsiNamespace   = "http://www.w3.org/2001/XMLSchema-instance"
)

// References reports whether the device references the object id.
func (d *Device) References(objectID int) bool {
	for _, id := range d.ObjectIDs {
		if id == objectID {
			return true
		}
	}
	return false
}

// ParseDevice reads a Device document. The root is either <LWM2M> holding a
// <Device> or the <Device> element itself. Unparsable object references are
// reported and skipped.
func ParseDevice(root xmltree.Node, report *diag.Report) (*Device, error) {
	n := root
	if root.Name() == elemLwM2M {
		var ok bool
		if n, ok = root.Child(elemDevice); !ok {
			return nil, diag.Structuralf("Device", "<%s> has no <%s>", elemLwM2M, elemDevice)
		}
	} else if root.Name() != elemDevice {
		return nil, diag.Structuralf("Device", "unexpected root element <%s>", root.Name())
	}

	name, ok := childTextOK(n, elemName)
	if !ok {
		return nil, diag.Structuralf("Device", "missing <%s>", elemName)
	}
	d := &Device{Name: name, Description: childText(n, elemDescription)}

	objs, ok := n.Child(elemObjects)
	if !ok {
		return d, nil
	}
	for _, ref := range objs.Children() {
		if ref.Name() != elemObject {
			continue
		}
		text, _ := ref.Attr(attrObjectID)
		id, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil {
			warn(report, diag.KindNumericParse, "Device "+name, "object reference %q is not numeric, skipped", text)
			continue
		}
		d.ObjectIDs = append(d.ObjectIDs, id)
	}
	return d, nil
}

// Serialize writes the device as a complete <LWM2M> document root.
func (d *Device) Serialize() *xmltree.Element {
	dev := xmltree.NewElement(elemDevice)
	dev.AppendText(elemName, d.Name).AppendText(elemDescription, d.Description)
	objs := xmltree.NewElement(elemObjects)
	for _, id := range d.ObjectIDs {
		objs.Append(xmltree.NewElement(elemObject).SetAttr(attrObjectID, strconv.Itoa(id)))
	}
	dev.Append(objs)
	return newDocumentRoot().Append(dev)
}

func newDocumentRoot() *xmltree.Element {
	return xmltree.NewElement(elemLwM2M).
		SetAttr("xmlns:xsi", xsiNamespace).
		SetAttr("xsi:noNamespaceSchemaLocation", schemaLocation)
}
