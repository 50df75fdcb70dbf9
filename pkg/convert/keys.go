// Package convert translates device models between LwM2M and SDF.
//
// ToSDF walks an lwm2m.Model and builds an SDF model plus the mapping
// document that carries every LwM2M field SDF has no home for. ToLwM2M
// consumes both documents and rebuilds the Objects. Passing the mapping
// produced by one direction into the other makes the round trip lossless
// for every field either document can hold.
//
// The engine is pure: it never does I/O and never fails as a whole.
// Problems are collected in a diag.Report on the result.
package convert

// Mapping quality keys.
const (
	keyDevice            = "device"
	keyObjects           = "objects"
	keyName              = "name"
	keyObjectID          = "objectId"
	keyObjectURN         = "objectUrn"
	keyObjectType        = "objectType"
	keyLwM2MVersion      = "lwm2mVersion"
	keyObjectVersion     = "objectVersion"
	keyMultipleInstances = "multipleInstances"
	keyMandatory         = "mandatory"
	keyDescription2      = "description2"
	keyResourceID        = "resourceId"
	keyType              = "type"
	keyRangeEnumeration  = "rangeEnumeration"
	keyUnits             = "units"
	keyWarning           = "warning"
)

// defaultDeviceName keys the sdfThing of a device without a name.
const defaultDeviceName = "Device"
