// Package lwm2m implements the LwM2M Object/Resource definition model.
//
// # Model Hierarchy
//
//	Model
//	├── Grouping: Ungrouped | *Device
//	└── Objects (ascending ObjectID)
//	    └── Resources (resource id -> Resource)
//
// An Object is parsed from one <Object> element of an LwM2M XML document and
// owns its Resources by value. A Device groups several Objects by id; its XML
// form is a separate document that only references the Objects:
//
//	<LWM2M>
//	  <Device>
//	    <Name>Weather Station</Name>
//	    <Description>...</Description>
//	    <Objects>
//	      <Object ObjectID="3303"/>
//	    </Objects>
//	  </Device>
//	</LWM2M>
//
// # Vocabularies
//
// Enumerated fields decode through closed lookup tables (see vocab.go).
// Unknown text never fails a parse: it resolves to Undefined and is reported
// as a VOCABULARY warning. MultipleInstances and Mandatory default to true
// unless the text is exactly "Single" or "Optional".
//
// # Numeric Fields
//
// ObjectID and the two version fields use best-effort conversion: the
// longest numeric prefix is used and text without one reads as zero. Both
// cases are reported as NUMERIC warnings.
package lwm2m
