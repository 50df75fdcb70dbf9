package sdf

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const temperatureModel = `{
    "info": {
        "title": "Temperature"
    },
    "sdfObject": {
        "Temperature": {
            "description": "Temperature sensor <IPSO> & friends",
            "sdfRequired": [
                "#/sdfObject/Temperature/sdfProperty/Sensor Value"
            ],
            "sdfProperty": {
                "Sensor Value": {
                    "type": "number",
                    "unit": "Cel",
                    "readable": true,
                    "writable": false
                },
                "Min Range Value": {
                    "type": "number"
                },
                "Application Type": {
                    "type": "string",
                    "maxLength": 32
                }
            },
            "sdfAction": {
                "Reset Min and Max Measured Values": {}
            }
        }
    }
}
`

func TestMap_PreservesOrder(t *testing.T) {
	var m Map[int]
	for i, k := range []string{"zeta", "alpha", "mid", "beta"} {
		m.Set(k, i)
	}
	m.Set("alpha", 42)

	assert.Equal(t, []string{"zeta", "alpha", "mid", "beta"}, m.Keys())
	v, ok := m.Get("alpha")
	require.True(t, ok)
	assert.Equal(t, 42, v)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":0,"alpha":42,"mid":2,"beta":3}`, string(data))

	var back Map[int]
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, m.Keys(), back.Keys())

	back.Delete("mid")
	back.Delete("missing")
	assert.Equal(t, []string{"zeta", "alpha", "beta"}, back.Keys())
	assert.Equal(t, 3, back.Len())
}

func TestMap_UnmarshalRejectsNonObject(t *testing.T) {
	var m Map[string]
	assert.Error(t, json.Unmarshal([]byte(`["a"]`), &m))
	require.NoError(t, json.Unmarshal([]byte(`null`), &m))
	assert.True(t, m.IsZero())
}

func TestMap_AllStopsEarly(t *testing.T) {
	var m Map[string]
	m.Set("a", "1")
	m.Set("b", "2")
	m.Set("c", "3")
	var seen []string
	for k := range m.All() {
		seen = append(seen, k)
		if k == "b" {
			break
		}
	}
	assert.Equal(t, []string{"a", "b"}, seen)
}

func TestParseModel_RoundTripPreservesDocument(t *testing.T) {
	m, err := ParseModel([]byte(temperatureModel))
	require.NoError(t, err)

	obj, ok := m.SdfObject.Get("Temperature")
	require.True(t, ok)
	assert.Equal(t, []string{"Sensor Value", "Min Range Value", "Application Type"}, obj.SdfProperty.Keys())

	sv, _ := obj.SdfProperty.Get("Sensor Value")
	assert.True(t, sv.IsReadable())
	assert.False(t, sv.IsWritable())
	mr, _ := obj.SdfProperty.Get("Min Range Value")
	assert.True(t, mr.IsReadable(), "absent readable defaults to true")
	assert.True(t, mr.IsWritable(), "absent writable defaults to true")
	at, _ := obj.SdfProperty.Get("Application Type")
	require.NotNil(t, at.MaxLength)
	assert.Equal(t, 32, *at.MaxLength)

	out, err := Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, temperatureModel, string(out))
}

func TestParseModel_Errors(t *testing.T) {
	_, err := ParseModel([]byte(`{"info": {}}`))
	assert.Error(t, err)
	_, err = ParseModel([]byte(`{`))
	assert.Error(t, err)
	_, err = ParseModel([]byte(`{"sdfObject": []}`))
	assert.Error(t, err)
}

func TestMapping_Qualities(t *testing.T) {
	m, err := ParseMapping([]byte(`{
    "map": {
        "#/sdfObject/Temperature": {
            "objectId": 3303,
            "objectVersion": 1.1,
            "objectUrn": "urn:oma:lwm2m:ext:3303",
            "mandatory": false,
            "objects": [3303, 3304]
        }
    }
}`))
	require.NoError(t, err)

	q := m.Entry("#/sdfObject/Temperature")
	require.NotNil(t, q)

	id, ok := q.Int("objectId")
	assert.True(t, ok)
	assert.Equal(t, 3303, id)

	_, ok = q.Int("objectVersion")
	assert.False(t, ok, "1.1 is not integral")
	v, ok := q.Float("objectVersion")
	assert.True(t, ok)
	assert.Equal(t, 1.1, v)

	urn, ok := q.String("objectUrn")
	assert.True(t, ok)
	assert.Equal(t, "urn:oma:lwm2m:ext:3303", urn)

	b, ok := q.Bool("mandatory")
	assert.True(t, ok)
	assert.False(t, b)

	ids, ok := q.Ints("objects")
	assert.True(t, ok)
	assert.Equal(t, []int{3303, 3304}, ids)

	assert.Nil(t, m.Entry("#/sdfObject/Missing"))
	var nilQ *Qualities
	_, ok = nilQ.Int("objectId")
	assert.False(t, ok)
}

func TestMapping_UpsertKeepsOrder(t *testing.T) {
	var m Mapping
	m.Upsert("#/b").Set("resourceId", 1)
	m.Upsert("#/a").Set("resourceId", 2)
	m.Upsert("#/b").Set("type", "Float")

	out, err := Marshal(&m)
	require.NoError(t, err)
	s := string(out)
	assert.Less(t, strings.Index(s, `"#/b"`), strings.Index(s, `"#/a"`))
	assert.Contains(t, s, `"resourceId": 1,
            "type": "Float"`)
}

func TestPointer(t *testing.T) {
	obj := ObjectPointer("", "Temp/Humidity")
	assert.Equal(t, "#/sdfObject/Temp~1Humidity", obj)
	assert.Equal(t, "#/sdfObject/Temp~1Humidity/sdfProperty/a~0b", PropertyPointer(obj, "a~b"))
	assert.Equal(t, "#/sdfThing/Station/sdfObject/X", ObjectPointer(ThingPointer("Station"), "X"))
	assert.Equal(t, "#/sdfObject/X/sdfAction/Reset", ActionPointer(ObjectPointer("", "X"), "Reset"))
	assert.Equal(t, "#/sdfObject/X/sdfEvent/Alarm", EventPointer(ObjectPointer("", "X"), "Alarm"))

	segs, err := Split("#/sdfObject/Temp~1Humidity/sdfProperty/a~0b")
	require.NoError(t, err)
	assert.Equal(t, []string{"sdfObject", "Temp/Humidity", "sdfProperty", "a~b"}, segs)

	_, err = Split("sdfObject/x")
	assert.Error(t, err)
	segs, err = Split("#")
	assert.NoError(t, err)
	assert.Empty(t, segs)
}

func TestModel_ObjectsVisitsThingsFirst(t *testing.T) {
	var m Model
	var thing Thing
	thing.SdfObject.Set("Inner", &Object{})
	m.SdfThing.Set("Station", &thing)
	m.SdfObject.Set("Outer", &Object{})

	var got []string
	m.Objects(func(parent, name string, _ *Object) {
		got = append(got, ObjectPointer(parent, name))
	})
	assert.Equal(t, []string{"#/sdfThing/Station/sdfObject/Inner", "#/sdfObject/Outer"}, got)
}
