package convert

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/sdf-lwm2m/converter-go/pkg/lwm2m"
	"github.com/sdf-lwm2m/converter-go/pkg/sdf"
	"github.com/sdf-lwm2m/converter-go/pkg/version"
)

// Difference is one field that did not survive a round trip.
type Difference struct {
	Path  string
	Field string
	Want  string
	Got   string
}

func (d Difference) String() string {
	return fmt.Sprintf("%s %s: want %q, got %q", d.Path, d.Field, d.Want, d.Got)
}

type differ struct {
	out []Difference
}

func (d *differ) add(path, field, want, got string) {
	if want != got {
		d.out = append(d.out, Difference{Path: path, Field: field, Want: want, Got: got})
	}
}

func (d *differ) flag(path, field string, want, got bool) {
	d.add(path, field, strconv.FormatBool(want), strconv.FormatBool(got))
}

// DiffObjects compares two LwM2M models field by field. Objects are paired
// by ObjectID, repeated ids in order of appearance.
func DiffObjects(want, got lwm2m.Model) []Difference {
	var d differ

	wd, wok := want.Device()
	gd, gok := got.Device()
	switch {
	case wok && gok:
		d.add("device", "Name", wd.Name, gd.Name)
		d.add("device", "Description", wd.Description, gd.Description)
		d.add("device", "ObjectIDs", fmt.Sprint(wd.ObjectIDs), fmt.Sprint(gd.ObjectIDs))
	case wok != gok:
		d.add("device", "Grouping", groupingName(want.Grouping), groupingName(got.Grouping))
	}

	gotByID := make(map[int][]*lwm2m.Object)
	for _, o := range got.Objects {
		gotByID[o.ObjectID] = append(gotByID[o.ObjectID], o)
	}
	for _, wo := range want.Objects {
		candidates := gotByID[wo.ObjectID]
		if len(candidates) == 0 {
			d.add(wo.Path(), "Object", wo.Name, "")
			continue
		}
		gotByID[wo.ObjectID] = candidates[1:]
		diffObject(&d, wo, candidates[0])
	}
	ids := make([]int, 0, len(gotByID))
	for id := range gotByID {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		for _, o := range gotByID[id] {
			d.add(o.Path(), "Object", "", o.Name)
		}
	}
	return d.out
}

func groupingName(g lwm2m.Grouping) string {
	if dev, ok := g.(*lwm2m.Device); ok && dev != nil {
		return "device " + dev.Name
	}
	return "ungrouped"
}

func diffObject(d *differ, want, got *lwm2m.Object) {
	p := want.Path()
	d.add(p, "Name", want.Name, got.Name)
	d.add(p, "ObjectType", want.ObjectType, got.ObjectType)
	d.add(p, "Description1", want.Description1, got.Description1)
	d.add(p, "Description2", want.Description2, got.Description2)
	d.add(p, "ObjectURN", want.ObjectURN, got.ObjectURN)
	d.add(p, "LWM2MVersion", version.Format(want.LwM2MVersion), version.Format(got.LwM2MVersion))
	d.add(p, "ObjectVersion", version.Format(want.ObjectVersion), version.Format(got.ObjectVersion))
	d.flag(p, "MultipleInstances", want.MultipleInstances, got.MultipleInstances)
	d.flag(p, "Mandatory", want.Mandatory, got.Mandatory)

	for _, id := range want.IDs() {
		rp := want.ResourcePath(id)
		gr, ok := got.Resources[id]
		if !ok {
			d.add(rp, "Resource", want.Resources[id].Name, "")
			continue
		}
		diffResource(d, rp, want.Resources[id], gr)
	}
	for _, id := range got.IDs() {
		if _, ok := want.Resources[id]; !ok {
			d.add(want.ResourcePath(id), "Resource", "", got.Resources[id].Name)
		}
	}
}

func diffResource(d *differ, p string, want, got lwm2m.Resource) {
	d.add(p, "Name", want.Name, got.Name)
	d.add(p, "Operations", want.Operations.String(), got.Operations.String())
	d.flag(p, "MultipleInstances", want.MultipleInstances, got.MultipleInstances)
	d.flag(p, "Mandatory", want.Mandatory, got.Mandatory)
	d.add(p, "Type", want.Type.String(), got.Type.String())
	d.add(p, "RangeEnumeration", want.RangeEnumeration, got.RangeEnumeration)
	d.add(p, "Units", want.Units, got.Units)
	d.add(p, "Description", want.Description, got.Description)
}

// DiffSDF compares the definitions of two SDF models. Interaction flags are
// compared by their effective value, so an absent readable equals true.
func DiffSDF(want, got *sdf.Model) []Difference {
	var d differ
	gotObjects := make(map[string]*sdf.Object)
	got.Objects(func(parent, name string, o *sdf.Object) {
		gotObjects[sdf.ObjectPointer(parent, name)] = o
	})
	want.Objects(func(parent, name string, wo *sdf.Object) {
		ptr := sdf.ObjectPointer(parent, name)
		gobj, ok := gotObjects[ptr]
		if !ok {
			d.add(ptr, "sdfObject", name, "")
			return
		}
		delete(gotObjects, ptr)
		diffSDFObject(&d, ptr, wo, gobj)
	})
	extra := make([]string, 0, len(gotObjects))
	for ptr := range gotObjects {
		extra = append(extra, ptr)
	}
	slices.Sort(extra)
	for _, ptr := range extra {
		d.add(ptr, "sdfObject", "", ptr)
	}
	return d.out
}

func diffSDFObject(d *differ, ptr string, want, got *sdf.Object) {
	d.add(ptr, "description", want.Description, got.Description)
	for name, wp := range want.SdfProperty.All() {
		pp := sdf.PropertyPointer(ptr, name)
		gp, ok := got.SdfProperty.Get(name)
		if !ok || gp == nil || wp == nil {
			d.add(pp, "sdfProperty", name, presence(ok && gp != nil, name))
			continue
		}
		d.flag(pp, "readable", wp.IsReadable(), gp.IsReadable())
		d.flag(pp, "writable", wp.IsWritable(), gp.IsWritable())
		diffData(d, pp, &wp.DataQualities, &gp.DataQualities)
	}
	for name, wa := range want.SdfAction.All() {
		ap := sdf.ActionPointer(ptr, name)
		ga, ok := got.SdfAction.Get(name)
		if !ok || ga == nil || wa == nil {
			d.add(ap, "sdfAction", name, presence(ok && ga != nil, name))
			continue
		}
		d.add(ap, "description", wa.Description, ga.Description)
		diffData(d, ap+"/sdfInputData", wa.SdfInputData, ga.SdfInputData)
	}
	for name := range want.SdfEvent.All() {
		if !got.SdfEvent.Has(name) {
			d.add(sdf.EventPointer(ptr, name), "sdfEvent", name, "")
		}
	}
}

func presence(ok bool, name string) string {
	if ok {
		return name
	}
	return ""
}

func diffData(d *differ, p string, want, got *sdf.DataQualities) {
	if want == nil {
		want = &sdf.DataQualities{}
	}
	if got == nil {
		got = &sdf.DataQualities{}
	}
	d.add(p, "description", want.Description, got.Description)
	d.add(p, "type", want.Type, got.Type)
	d.add(p, "sdfType", want.SdfType, got.SdfType)
	d.add(p, "unit", want.Unit, got.Unit)
	d.add(p, "minimum", fmtFloatPtr(want.Minimum), fmtFloatPtr(got.Minimum))
	d.add(p, "maximum", fmtFloatPtr(want.Maximum), fmtFloatPtr(got.Maximum))
	d.add(p, "minLength", fmtIntPtr(want.MinLength), fmtIntPtr(got.MinLength))
	d.add(p, "maxLength", fmtIntPtr(want.MaxLength), fmtIntPtr(got.MaxLength))
	d.add(p, "enum", fmt.Sprint(want.Enum), fmt.Sprint(got.Enum))
}

func fmtFloatPtr(f *float64) string {
	if f == nil {
		return ""
	}
	return formatNumber(*f)
}

func fmtIntPtr(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}
