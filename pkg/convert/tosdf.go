package convert

import (
	"slices"
	"strings"

	"github.com/sdf-lwm2m/converter-go/pkg/diag"
	"github.com/sdf-lwm2m/converter-go/pkg/lwm2m"
	"github.com/sdf-lwm2m/converter-go/pkg/sdf"
)

// Options control the SDF documents built from LwM2M.
type Options struct {
	// Info is copied into both documents. When nil, the title is the
	// device name or, ungrouped, the name of the first Object.
	Info *sdf.Info

	// Namespace and DefaultNamespace are copied into both documents.
	Namespace        map[string]string
	DefaultNamespace string
}

// SDFResult is the output of a LwM2M to SDF translation.
type SDFResult struct {
	Model   *sdf.Model
	Mapping *sdf.Mapping
	Report  *diag.Report
}

// ToSDF translates an LwM2M model into an SDF model and mapping.
//
// Each Object becomes an sdfObject keyed by its name; Objects referenced by
// the device are nested in the device's sdfThing. Execute resources become
// sdfActions, all others sdfProperties.
func ToSDF(model lwm2m.Model, opts Options) *SDFResult {
	res := &SDFResult{
		Model:   &sdf.Model{},
		Mapping: &sdf.Mapping{},
		Report:  &diag.Report{},
	}
	applyHeader(res, model, opts)

	var (
		thing    *sdf.Thing
		thingPtr string
	)
	device, grouped := model.Device()
	if grouped {
		key := device.Name
		if key == "" {
			key = defaultDeviceName
		}
		thing = &sdf.Thing{Description: device.Description}
		res.Model.SdfThing.Set(key, thing)
		thingPtr = sdf.ThingPointer(key)

		q := res.Mapping.Upsert(thingPtr)
		q.Set(keyDevice, true)
		if key != device.Name {
			q.Set(keyName, device.Name)
		}
		q.Set(keyObjects, slices.Clone(device.ObjectIDs))

		for _, id := range device.ObjectIDs {
			if _, ok := model.Object(id); !ok {
				res.Report.Warn(diag.KindMappingIncomplete, thingPtr,
					"device references object %d which is not among the inputs", id)
			}
		}
	}

	for _, o := range model.Objects {
		container, parent := &res.Model.SdfObject, ""
		if grouped && device.References(o.ObjectID) {
			container, parent = &thing.SdfObject, thingPtr
		}
		ptr := translateObject(o, container, parent, res.Mapping)
		if parent != "" && o.Mandatory {
			thing.SdfRequired = append(thing.SdfRequired, ptr)
		}
	}
	return res
}

func applyHeader(res *SDFResult, model lwm2m.Model, opts Options) {
	info := opts.Info
	if info == nil {
		info = &sdf.Info{}
		if d, ok := model.Device(); ok {
			info.Title = d.Name
		} else if len(model.Objects) > 0 {
			info.Title = model.Objects[0].Name
		}
	}
	modelInfo, mappingInfo := *info, *info
	res.Model.Info, res.Mapping.Info = &modelInfo, &mappingInfo

	prefixes := make([]string, 0, len(opts.Namespace))
	for p := range opts.Namespace {
		prefixes = append(prefixes, p)
	}
	slices.Sort(prefixes)
	for _, p := range prefixes {
		res.Model.Namespace.Set(p, opts.Namespace[p])
		res.Mapping.Namespace.Set(p, opts.Namespace[p])
	}
	res.Model.DefaultNamespace = opts.DefaultNamespace
	res.Mapping.DefaultNamespace = opts.DefaultNamespace
}

// translateObject adds one sdfObject to container and returns its pointer.
func translateObject(o *lwm2m.Object, container *sdf.Map[*sdf.Object], parent string, mapping *sdf.Mapping) string {
	key := uniqueKey(container.Has, o.Name, o.ObjectID)
	ptr := sdf.ObjectPointer(parent, key)
	so := &sdf.Object{Description: joinDescriptions(o.Description1, o.Description2)}
	container.Set(key, so)

	q := mapping.Upsert(ptr)
	q.Set(keyObjectID, o.ObjectID)
	if key != o.Name {
		q.Set(keyName, o.Name)
	}
	if o.ObjectURN != "" {
		q.Set(keyObjectURN, o.ObjectURN)
	}
	if o.ObjectType != "" {
		q.Set(keyObjectType, o.ObjectType)
	}
	if o.LwM2MVersion != 0 {
		q.Set(keyLwM2MVersion, o.LwM2MVersion)
	}
	if o.ObjectVersion != 0 {
		q.Set(keyObjectVersion, o.ObjectVersion)
	}
	q.Set(keyMultipleInstances, o.MultipleInstances)
	q.Set(keyMandatory, o.Mandatory)
	if o.Description2 != "" {
		q.Set(keyDescription2, o.Description2)
	}

	for _, id := range o.IDs() {
		translateResource(id, o.Resources[id], so, ptr, mapping)
	}
	return ptr
}

func translateResource(id int, r lwm2m.Resource, so *sdf.Object, objPtr string, mapping *sdf.Mapping) {
	var (
		key, ptr string
		dq       *sdf.DataQualities
		action   *sdf.Action
	)
	if r.Operations == lwm2m.OperationsExecute {
		key = uniqueKey(so.SdfAction.Has, r.Name, id)
		ptr = sdf.ActionPointer(objPtr, key)
		action = &sdf.Action{Description: r.Description}
		dq = &sdf.DataQualities{}
		so.SdfAction.Set(key, action)
	} else {
		key = uniqueKey(so.SdfProperty.Has, r.Name, id)
		ptr = sdf.PropertyPointer(objPtr, key)
		p := &sdf.Property{
			Readable: sdf.Bool(r.Operations.CanRead()),
			Writable: sdf.Bool(r.Operations.CanWrite()),
		}
		p.Description = r.Description
		p.Unit = r.Units
		dq = &p.DataQualities
		so.SdfProperty.Set(key, p)
	}
	setDataType(dq, r.Type)

	q := mapping.Upsert(ptr)
	addResourceQualities(q, id, key, r)
	if r.RangeEnumeration != "" {
		canonical, folded := foldRange(r.Type, r.RangeEnumeration, dq)
		if !folded || canonical != r.RangeEnumeration {
			q.Set(keyRangeEnumeration, r.RangeEnumeration)
		}
	}

	if action != nil {
		if r.Units != "" {
			q.Set(keyUnits, r.Units)
		}
		if hasData(dq) {
			action.SdfInputData = dq
		}
	}
	if r.Mandatory {
		so.SdfRequired = append(so.SdfRequired, ptr)
	}
}

// addResourceQualities records the LwM2M-only fields of a resource.
func addResourceQualities(q *sdf.Qualities, id int, key string, r lwm2m.Resource) {
	q.Set(keyResourceID, id)
	if key != r.Name {
		q.Set(keyName, r.Name)
	}
	if r.Type != lwm2m.TypeUndefined {
		q.Set(keyType, r.Type.String())
	}
	q.Set(keyMultipleInstances, r.MultipleInstances)
	q.Set(keyMandatory, r.Mandatory)

	var warnings []string
	if r.Operations == lwm2m.OperationsUndefined {
		warnings = append(warnings, "operations undefined")
	}
	if r.Type == lwm2m.TypeUndefined && r.Operations != lwm2m.OperationsExecute {
		warnings = append(warnings, "type undefined")
	}
	if len(warnings) > 0 {
		q.Set(keyWarning, strings.Join(warnings, "; "))
	}
}

func setDataType(dq *sdf.DataQualities, t lwm2m.Type) {
	if typ, sdfType, ok := sdfTypeOf(t); ok {
		dq.Type, dq.SdfType = typ, sdfType
	}
}

func hasData(dq *sdf.DataQualities) bool {
	return dq.Type != "" || dq.SdfType != "" || dq.Unit != "" ||
		dq.Minimum != nil || dq.Maximum != nil ||
		dq.MinLength != nil || dq.MaxLength != nil || len(dq.Enum) > 0
}
