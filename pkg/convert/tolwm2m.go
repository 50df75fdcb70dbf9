package convert

import (
	"slices"

	"github.com/sdf-lwm2m/converter-go/pkg/diag"
	"github.com/sdf-lwm2m/converter-go/pkg/lwm2m"
	"github.com/sdf-lwm2m/converter-go/pkg/sdf"
)

// LwM2MResult is the output of an SDF to LwM2M translation.
type LwM2MResult struct {
	Model  lwm2m.Model
	Report *diag.Report
}

// ToLwM2M rebuilds LwM2M Objects from an SDF model and its mapping.
//
// The mapping is consulted first for every LwM2M-only field. Identifiers
// it does not supply default to 0, or to the lowest free id for
// resources, and raise MAPPING warnings. The first sdfThing becomes the
// device grouping; objects of later things are kept ungrouped.
func ToLwM2M(model *sdf.Model, mapping *sdf.Mapping) *LwM2MResult {
	res := &LwM2MResult{Report: &diag.Report{}}
	if mapping == nil {
		res.Report.Warn(diag.KindMappingIncomplete, "", "no mapping document, LwM2M identifiers default to 0")
		mapping = &sdf.Mapping{}
	}

	var (
		grouping lwm2m.Grouping = lwm2m.Ungrouped{}
		objects  []*lwm2m.Object
	)
	for tname, t := range model.SdfThing.All() {
		if t == nil {
			continue
		}
		ptr := sdf.ThingPointer(tname)
		q := mapping.Entry(ptr)
		isDevice, marked := q.Bool(keyDevice)
		switch {
		case q == nil:
			res.Report.Warn(diag.KindMappingIncomplete, ptr, "no mapping entry for sdfThing, treating it as a device")
			isDevice = true
		case !marked:
			isDevice = true
		}

		required := make(map[string]bool, len(t.SdfRequired))
		for _, p := range t.SdfRequired {
			required[p] = true
		}
		var thingObjects []*lwm2m.Object
		for oname, so := range t.SdfObject.All() {
			if so == nil {
				continue
			}
			optr := sdf.ObjectPointer(ptr, oname)
			thingObjects = append(thingObjects, rebuildObject(optr, oname, so, required[optr], mapping, res.Report))
		}
		objects = append(objects, thingObjects...)

		if !isDevice {
			continue
		}
		if _, ok := grouping.(lwm2m.Ungrouped); !ok {
			res.Report.Warn(diag.KindMappingIncomplete, ptr, "only the first sdfThing becomes the device, its objects are kept ungrouped")
			continue
		}
		grouping = rebuildDevice(tname, t, q, thingObjects)
	}

	for oname, so := range model.SdfObject.All() {
		if so == nil {
			continue
		}
		objects = append(objects, rebuildObject(sdf.ObjectPointer("", oname), oname, so, false, mapping, res.Report))
	}

	res.Model = lwm2m.NewModel(grouping, objects)
	return res
}

func rebuildDevice(key string, t *sdf.Thing, q *sdf.Qualities, objects []*lwm2m.Object) *lwm2m.Device {
	d := &lwm2m.Device{Name: key, Description: t.Description}
	if name, ok := q.String(keyName); ok {
		d.Name = name
	}
	if ids, ok := q.Ints(keyObjects); ok {
		d.ObjectIDs = ids
		return d
	}
	for _, o := range objects {
		if !slices.Contains(d.ObjectIDs, o.ObjectID) {
			d.ObjectIDs = append(d.ObjectIDs, o.ObjectID)
		}
	}
	return d
}

// rebuildObject turns one sdfObject into an Object. required tells whether
// the enclosing thing lists the object in sdfRequired.
func rebuildObject(ptr, key string, so *sdf.Object, required bool, mapping *sdf.Mapping, report *diag.Report) *lwm2m.Object {
	q := mapping.Entry(ptr)
	name := key
	if n, ok := q.String(keyName); ok {
		name = n
	}
	o := lwm2m.NewObject(name, 0)

	switch id, ok := q.Int(keyObjectID); {
	case ok:
		o.ObjectID = id
	case q == nil:
		report.Warn(diag.KindMappingIncomplete, ptr, "no mapping entry, objectId defaults to 0")
	default:
		report.Warn(diag.KindMappingIncomplete, ptr, "mapping has no %s, using 0", keyObjectID)
	}
	o.ObjectURN, _ = q.String(keyObjectURN)
	o.ObjectType, _ = q.String(keyObjectType)
	o.LwM2MVersion, _ = q.Float(keyLwM2MVersion)
	o.ObjectVersion, _ = q.Float(keyObjectVersion)
	o.MultipleInstances, _ = q.Bool(keyMultipleInstances)
	if v, ok := q.Bool(keyMandatory); ok {
		o.Mandatory = v
	} else {
		o.Mandatory = required
	}
	d2, _ := q.String(keyDescription2)
	o.Description1, o.Description2 = splitDescriptions(so.Description, d2)

	requiredRes := make(map[string]bool, len(so.SdfRequired))
	for _, p := range so.SdfRequired {
		requiredRes[p] = true
	}

	var pending []pendingResource
	for pname, p := range so.SdfProperty.All() {
		if p == nil {
			continue
		}
		rptr := sdf.PropertyPointer(ptr, pname)
		rq := mapping.Entry(rptr)
		r := rebuildProperty(rptr, pname, p, rq, requiredRes[rptr], report)
		pending = placeResource(o, rptr, rq, r, pending, report)
	}
	for aname, a := range so.SdfAction.All() {
		if a == nil {
			continue
		}
		rptr := sdf.ActionPointer(ptr, aname)
		rq := mapping.Entry(rptr)
		r := rebuildAction(rptr, aname, a, rq, requiredRes[rptr], report)
		pending = placeResource(o, rptr, rq, r, pending, report)
	}
	for ename := range so.SdfEvent.All() {
		report.Warn(diag.KindVocabularyMismatch, sdf.EventPointer(ptr, ename), "sdfEvent has no LwM2M equivalent, skipped")
	}

	next := 0
	for _, p := range pending {
		for {
			if _, used := o.Resources[next]; !used {
				break
			}
			next++
		}
		o.Resources[next] = p.resource
		report.Warn(diag.KindMappingIncomplete, p.ptr, "no usable %s in mapping, assigned %d", keyResourceID, next)
	}
	return o
}

type pendingResource struct {
	ptr      string
	resource lwm2m.Resource
}

// placeResource inserts r under its mapped id, or queues it for id
// assignment when the mapping has none or the id is taken.
func placeResource(o *lwm2m.Object, ptr string, q *sdf.Qualities, r lwm2m.Resource, pending []pendingResource, report *diag.Report) []pendingResource {
	id, ok := q.Int(keyResourceID)
	if !ok {
		return append(pending, pendingResource{ptr: ptr, resource: r})
	}
	if err := o.AddResource(id, r); err != nil {
		report.Warn(diag.KindMappingIncomplete, ptr, "%v", err)
		return append(pending, pendingResource{ptr: ptr, resource: r})
	}
	return pending
}

func rebuildProperty(ptr, key string, p *sdf.Property, q *sdf.Qualities, required bool, report *diag.Report) lwm2m.Resource {
	r := commonResource(key, p.Description, q, required)
	r.Operations = lwm2m.OperationsFor(p.IsReadable(), p.IsWritable())
	if r.Operations == lwm2m.OperationsUndefined {
		report.Warn(diag.KindVocabularyMismatch, ptr, "property is neither readable nor writable, operations undefined")
	}
	r.Type = resourceType(ptr, q, &p.DataQualities, true, report)
	r.Units = p.Unit
	r.RangeEnumeration = rangeText(q, &p.DataQualities)
	return r
}

func rebuildAction(ptr, key string, a *sdf.Action, q *sdf.Qualities, required bool, report *diag.Report) lwm2m.Resource {
	r := commonResource(key, a.Description, q, required)
	r.Operations = lwm2m.OperationsExecute
	r.Type = resourceType(ptr, q, a.SdfInputData, false, report)
	r.Units, _ = q.String(keyUnits)
	if r.Units == "" && a.SdfInputData != nil {
		r.Units = a.SdfInputData.Unit
	}
	r.RangeEnumeration = rangeText(q, a.SdfInputData)
	return r
}

func commonResource(key, description string, q *sdf.Qualities, required bool) lwm2m.Resource {
	r := lwm2m.Resource{Name: key, Description: description, Mandatory: required}
	if n, ok := q.String(keyName); ok {
		r.Name = n
	}
	r.MultipleInstances, _ = q.Bool(keyMultipleInstances)
	if v, ok := q.Bool(keyMandatory); ok {
		r.Mandatory = v
	}
	return r
}

// resourceType takes the mapped LwM2M type first and falls back to the
// inverse type table. needType marks properties, where a missing type is
// reported.
func resourceType(ptr string, q *sdf.Qualities, dq *sdf.DataQualities, needType bool, report *diag.Report) lwm2m.Type {
	if text, ok := q.String(keyType); ok {
		if t, ok := lwm2m.ParseType(text); ok {
			return t
		}
		report.Warn(diag.KindVocabularyMismatch, ptr, "mapped type %q is unknown, inferring from sdf type", text)
	}
	if dq == nil || dq.Type == "" {
		if needType {
			report.Warn(diag.KindVocabularyMismatch, ptr, "no type, LwM2M type undefined")
		}
		return lwm2m.TypeUndefined
	}
	t, ok := lwm2mTypeOf(dq.Type, dq.SdfType)
	if !ok {
		report.Warn(diag.KindVocabularyMismatch, ptr, "sdf type %q has no LwM2M equivalent", dq.Type)
	}
	return t
}

func rangeText(q *sdf.Qualities, dq *sdf.DataQualities) string {
	if text, ok := q.String(keyRangeEnumeration); ok {
		return text
	}
	return unfoldRange(dq)
}
