package validate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sdf-lwm2m/converter-go/pkg/lwm2m"
	"github.com/sdf-lwm2m/converter-go/pkg/version"
	"github.com/sdf-lwm2m/converter-go/pkg/xmltree"
)

// LwM2M profile codes.
const (
	CodeRoot       = "ROOT"
	CodeRequired   = "REQUIRED"
	CodeVocabulary = "VOCABULARY"
	CodeID         = "ID"
	CodeDuplicate  = "DUPLICATE"
	CodeURN        = "URN"
	CodeVersion    = "VERSION"
)

// MaxID is the largest Object or Resource id the profile allows.
const MaxID = 65534

var (
	objectRequired   = []string{"Name", "ObjectID", "MultipleInstances", "Mandatory", "Resources"}
	resourceRequired = []string{"Name", "Operations", "MultipleInstances", "Mandatory", "Type"}
)

// Validator checks LwM2M documents against the Object and Device profile.
type Validator struct {
	// Strict adds consistency checks between header fields (URN against
	// ObjectID and ObjectVersion, supported LWM2MVersion).
	Strict bool
}

// NewValidator creates a non-strict validator.
func NewValidator() *Validator {
	return &Validator{}
}

// LwM2M validates a document with the default validator.
func LwM2M(root xmltree.Node) *Result {
	return NewValidator().Validate(root)
}

// Validate checks an <LWM2M> document holding Objects or a Device, or a
// bare <Object>.
func (v *Validator) Validate(root xmltree.Node) *Result {
	result := newResult()
	switch root.Name() {
	case "LWM2M":
		var found bool
		for i, c := range root.Children() {
			switch c.Name() {
			case "Object":
				found = true
				v.checkObject(c, fmt.Sprintf("Object[%d]", i), result)
			case "Device":
				found = true
				v.checkDevice(c, result)
			}
		}
		if !found {
			result.AddError(CodeRoot, "LWM2M", "document has neither Object nor Device")
		}
	case "Object":
		v.checkObject(root, "Object", result)
	default:
		result.AddError(CodeRoot, root.Name(), "unexpected root element")
	}
	return result
}

func (v *Validator) checkObject(n xmltree.Node, path string, result *Result) {
	var id int
	var idOK bool
	if _, present := n.Child("ObjectID"); present {
		id, idOK = checkID(text(n, "ObjectID"), path+"/ObjectID", result)
	}
	if idOK {
		path = "Object " + strconv.Itoa(id)
	}
	checkRequired(n, path, objectRequired, result)
	checkTwoValued(n, path, result)

	if v.Strict {
		v.checkHeader(n, path, id, idOK, result)
	}

	res, ok := n.Child("Resources")
	if !ok {
		return
	}
	seen := make(map[int]bool)
	for i, item := range res.Children() {
		rpath := fmt.Sprintf("%s/Resources/%s[%d]", path, item.Name(), i)
		if item.Name() != "Item" && item.Name() != "Resource" {
			result.AddWarning(CodeRoot, rpath, "unexpected element in Resources")
			continue
		}
		idAttr, ok := item.Attr("ID")
		if !ok {
			result.AddError(CodeRequired, rpath, "missing ID attribute")
		} else if rid, ok := checkID(idAttr, rpath+"@ID", result); ok {
			if seen[rid] {
				result.AddError(CodeDuplicate, rpath, "resource id %d used more than once", rid)
			}
			seen[rid] = true
			rpath = fmt.Sprintf("%s/%d", path, rid)
		}
		checkResource(item, rpath, result)
	}
}

func checkResource(n xmltree.Node, path string, result *Result) {
	checkRequired(n, path, resourceRequired, result)
	checkTwoValued(n, path, result)

	opText := text(n, "Operations")
	op, opOK := lwm2m.ParseOperations(opText)
	if _, present := n.Child("Operations"); present && !opOK {
		result.AddError(CodeVocabulary, path+"/Operations", "unknown value %q", opText)
	}

	typeText := text(n, "Type")
	if _, ok := lwm2m.ParseType(typeText); !ok {
		switch {
		case typeText == "" && op == lwm2m.OperationsExecute:
		case typeText == "":
			if _, present := n.Child("Type"); present {
				result.AddError(CodeVocabulary, path+"/Type", "empty Type on a non-executable resource")
			}
		default:
			result.AddError(CodeVocabulary, path+"/Type", "unknown value %q", typeText)
		}
	}
}

func (v *Validator) checkDevice(n xmltree.Node, result *Result) {
	checkRequired(n, "Device", []string{"Name"}, result)
	objs, ok := n.Child("Objects")
	if !ok {
		result.AddWarning(CodeRequired, "Device", "device references no objects")
		return
	}
	seen := make(map[int]bool)
	for i, ref := range objs.Children() {
		path := fmt.Sprintf("Device/Objects/%s[%d]", ref.Name(), i)
		idText, ok := ref.Attr("ObjectID")
		if !ok {
			result.AddError(CodeRequired, path, "missing ObjectID attribute")
			continue
		}
		if id, ok := checkID(idText, path+"@ObjectID", result); ok {
			if seen[id] {
				result.AddWarning(CodeDuplicate, path, "object %d referenced more than once", id)
			}
			seen[id] = true
		}
	}
}

func (v *Validator) checkHeader(n xmltree.Node, path string, id int, idOK bool, result *Result) {
	objVersion := version.Default
	if vt := text(n, "ObjectVersion"); vt != "" {
		sv, err := version.Parse(vt)
		if err != nil {
			result.AddError(CodeVersion, path+"/ObjectVersion", "%v", err)
		} else {
			objVersion = sv
		}
	}
	if vt := text(n, "LWM2MVersion"); vt != "" {
		sv, err := version.Parse(vt)
		switch {
		case err != nil:
			result.AddError(CodeVersion, path+"/LWM2MVersion", "%v", err)
		case !sv.IsSupportedEnabler():
			result.AddWarning(CodeVersion, path+"/LWM2MVersion", "enabler version %s is not one of %s",
				vt, strings.Join(version.SupportedEnablerVersions, ", "))
		}
	}

	urnText := text(n, "ObjectURN")
	if urnText == "" || !idOK {
		return
	}
	urn, err := version.ParseURN(urnText)
	if err != nil {
		result.AddError(CodeURN, path+"/ObjectURN", "%v", err)
		return
	}
	if urn.ObjectID != id {
		result.AddError(CodeURN, path+"/ObjectURN", "URN names object %d, ObjectID is %d", urn.ObjectID, id)
	}
	if want := version.ObjectURN(id, objVersion); want != urnText {
		result.AddWarning(CodeURN, path+"/ObjectURN", "expected %s", want)
	}
}

func checkRequired(n xmltree.Node, path string, names []string, result *Result) {
	for _, name := range names {
		if _, ok := n.Child(name); !ok {
			result.AddError(CodeRequired, path, "missing <%s>", name)
		}
	}
}

// checkTwoValued flags MultipleInstances/Mandatory text outside the
// vocabulary; the parser would silently read it as Multiple/Mandatory.
func checkTwoValued(n xmltree.Node, path string, result *Result) {
	if c, ok := n.Child("MultipleInstances"); ok {
		if _, known := lwm2m.ParseMultipleInstances(strings.TrimSpace(c.Text())); !known {
			result.AddError(CodeVocabulary, path+"/MultipleInstances", "expected Single or Multiple, got %q", c.Text())
		}
	}
	if c, ok := n.Child("Mandatory"); ok {
		if _, known := lwm2m.ParseMandatory(strings.TrimSpace(c.Text())); !known {
			result.AddError(CodeVocabulary, path+"/Mandatory", "expected Mandatory or Optional, got %q", c.Text())
		}
	}
}

func checkID(s, path string, result *Result) (int, bool) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		result.AddError(CodeID, path, "%q is not an integer", s)
		return 0, false
	}
	if id < 0 || id > MaxID {
		result.AddError(CodeID, path, "%d is outside 0..%d", id, MaxID)
		return id, false
	}
	return id, true
}

func text(n xmltree.Node, name string) string {
	c, ok := n.Child(name)
	if !ok {
		return ""
	}
	return strings.TrimSpace(c.Text())
}
