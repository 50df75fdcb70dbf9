package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdf-lwm2m/converter-go/internal/fileio"
	eventlog "github.com/sdf-lwm2m/converter-go/pkg/log"
	"github.com/sdf-lwm2m/converter-go/pkg/lwm2m"
)

const clusterTemplate = `<?xml version="1.0" encoding="utf-8"?>
<LWM2M>
  <Object ObjectType="MODefinition">
    <Name>%s</Name>
    <Description1>%s sensor</Description1>
    <ObjectID>%d</ObjectID>
    <ObjectURN>urn:oma:lwm2m:ext:%d</ObjectURN>
    <LWM2MVersion>1.0</LWM2MVersion>
    <ObjectVersion>1.0</ObjectVersion>
    <MultipleInstances>Multiple</MultipleInstances>
    <Mandatory>Optional</Mandatory>
    <Resources>
      <Item ID="5700">
        <Name>Sensor Value</Name>
        <Operations>R</Operations>
        <MultipleInstances>Single</MultipleInstances>
        <Mandatory>Mandatory</Mandatory>
        <Type>Float</Type>
        <RangeEnumeration>-40..125</RangeEnumeration>
        <Units>Cel</Units>
        <Description>Last measured value</Description>
      </Item>
      <Item ID="5605">
        <Name>Reset Min and Max Measured Values</Name>
        <Operations>E</Operations>
        <MultipleInstances>Single</MultipleInstances>
        <Mandatory>Optional</Mandatory>
        <Type></Type>
        <RangeEnumeration></RangeEnumeration>
        <Units></Units>
        <Description>Reset the min and max values</Description>
      </Item>
    </Resources>
    <Description2></Description2>
  </Object>
</LWM2M>
`

const deviceDoc = `<?xml version="1.0" encoding="utf-8"?>
<LWM2M>
  <Device>
    <Name>Weather Station</Name>
    <Description>Outdoor sensors</Description>
    <Objects>
      <Object ObjectID="3303"/>
      <Object ObjectID="3304"/>
    </Objects>
  </Device>
</LWM2M>
`

// permissive accepts any object; strictSchema requires a property no
// output ever has.
const (
	permissiveSchema = `{"type": "object"}`
	strictSchema     = `{"type": "object", "required": ["neverPresent"]}`
)

type fixture struct {
	dir      string
	clusters string
	device   string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	f := fixture{
		dir:      dir,
		clusters: filepath.Join(dir, "objects"),
		device:   filepath.Join(dir, "device.xml"),
	}
	require.NoError(t, os.MkdirAll(filepath.Join(f.clusters, "nested"), 0o755))
	write(t, filepath.Join(f.clusters, "3303.xml"), fmt.Sprintf(clusterTemplate, "Temperature", "Temperature", 3303, 3303))
	write(t, filepath.Join(f.clusters, "nested", "3304.xml"), fmt.Sprintf(clusterTemplate, "Humidity", "Humidity", 3304, 3304))
	write(t, f.device, deviceDoc)
	return f
}

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func (f fixture) path(name ...string) string {
	return filepath.Join(append([]string{f.dir}, name...)...)
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestLwM2MToSDF(t *testing.T) {
	f := newFixture(t)
	out := f.path("out", "station.json")

	code, stdout, stderr := runCLI(t, "-lwm2m-to-sdf", "-cluster-xml", f.clusters, "-device-xml", f.device, "-o", out)
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "station-model.json")
	assert.Contains(t, stdout, "diagnostics: no diagnostics")

	model, mapping, err := fileio.LoadSDF(f.path("out", "station-model.json"), f.path("out", "station-mapping.json"))
	require.NoError(t, err)
	thing, ok := model.SdfThing.Get("Weather Station")
	require.True(t, ok)
	assert.Equal(t, []string{"Temperature", "Humidity"}, thing.SdfObject.Keys())

	id, ok := mapping.Entry("#/sdfThing/Weather Station/sdfObject/Humidity").Int("objectId")
	require.True(t, ok)
	assert.Equal(t, 3304, id)
}

func TestSDFToLwM2M(t *testing.T) {
	f := newFixture(t)
	code, _, stderr := runCLI(t, "-lwm2m-to-sdf", "-cluster-xml", f.clusters, "-device-xml", f.device, "-o", f.path("sdf", "s.json"))
	require.Equal(t, exitOK, code, stderr)

	out := f.path("xml", "s.xml")
	code, stdout, stderr := runCLI(t, "-sdf-to-lwm2m",
		"-sdf-model", f.path("sdf", "s-model.json"),
		"-sdf-mapping", f.path("sdf", "s-mapping.json"),
		"-o", out)
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "s-device.xml")

	root, err := fileio.LoadXML(f.path("xml", "s-device.xml"))
	require.NoError(t, err)
	dev, err := lwm2m.ParseDevice(root, nil)
	require.NoError(t, err)
	assert.Equal(t, "Weather Station", dev.Name)
	assert.Equal(t, []int{3303, 3304}, dev.ObjectIDs)

	for i, id := range []int{3303, 3304} {
		o := objectOf(t, f.path("xml", fmt.Sprintf("s-cluster_%d.xml", i)))
		assert.Equal(t, id, o.ObjectID)
	}
}

func TestRoundTripWritesSourceFormat(t *testing.T) {
	f := newFixture(t)
	out := f.path("rt", "r.xml")

	code, stdout, stderr := runCLI(t, "-lwm2m-to-sdf", "-roundtrip", "-cluster-xml", f.clusters, "-o", out)
	require.Equal(t, exitOK, code, stderr)
	assert.NotContains(t, stdout, "-model")
	assert.FileExists(t, f.path("rt", "r-cluster_0.xml"))
	assert.FileExists(t, f.path("rt", "r-cluster_1.xml"))
	assert.NoFileExists(t, f.path("rt", "r-device.xml"), "ungrouped input has no device")

	back := objectOf(t, f.path("rt", "r-cluster_0.xml"))
	assert.Equal(t, "Temperature", back.Name)
	assert.Equal(t, 3303, back.ObjectID)
	assert.Equal(t, []int{5605, 5700}, back.IDs())
	assert.Equal(t, "-40..125", back.Resources[5700].RangeEnumeration)
	assert.Equal(t, lwm2m.OperationsExecute, back.Resources[5605].Operations)
}

func objectOf(t *testing.T, path string) *lwm2m.Object {
	t.Helper()
	root, err := fileio.LoadXML(path)
	require.NoError(t, err)
	objects, errs := lwm2m.ParseDocument(root, "", nil)
	require.Empty(t, errs)
	require.Len(t, objects, 1)
	return objects[0]
}

func TestValidation(t *testing.T) {
	f := newFixture(t)
	write(t, f.path("ok.json"), permissiveSchema)
	write(t, f.path("strict.json"), strictSchema)
	out := f.path("v", "v.json")

	code, stdout, stderr := runCLI(t, "-lwm2m-to-sdf", "-cluster-xml", f.clusters, "-validate", f.path("ok.json"), "-strict", "-o", out)
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "v-model.json valid")
	assert.Contains(t, stdout, "v-mapping.json valid")

	code, stdout, _ = runCLI(t, "-lwm2m-to-sdf", "-cluster-xml", f.clusters, "-validate", f.path("strict.json"), "-o", out)
	assert.Equal(t, exitOK, code, "validation is advisory without -strict")
	assert.Contains(t, stdout, "v-model.json not valid")
	assert.Contains(t, stdout, "VALIDATION")

	code, _, _ = runCLI(t, "-lwm2m-to-sdf", "-cluster-xml", f.clusters, "-validate", f.path("strict.json"), "-strict", "-o", out)
	assert.Equal(t, exitStrict, code)

	code, _, stderr = runCLI(t, "-lwm2m-to-sdf", "-cluster-xml", f.clusters, "-validate", f.path("missing.json"), "-o", out)
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stderr, "loading schema")
}

func TestValidationLwM2MProfile(t *testing.T) {
	f := newFixture(t)
	code, _, stderr := runCLI(t, "-lwm2m-to-sdf", "-cluster-xml", f.clusters, "-device-xml", f.device, "-o", f.path("sdf", "s.json"))
	require.Equal(t, exitOK, code, stderr)

	code, stdout, stderr := runCLI(t, "-sdf-to-lwm2m", "-strict",
		"-sdf-model", f.path("sdf", "s-model.json"),
		"-sdf-mapping", f.path("sdf", "s-mapping.json"),
		"-validate", f.path("unused-for-xml.json"),
		"-o", f.path("xml", "s.xml"))
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "s-device.xml valid")
	assert.Contains(t, stdout, "s-cluster_1.xml valid")
}

func TestStrictFailsOnErrorDiagnostics(t *testing.T) {
	f := newFixture(t)
	write(t, filepath.Join(f.clusters, "broken.xml"), "<LWM2M><Object><Name>x</Name>")

	code, stdout, _ := runCLI(t, "-lwm2m-to-sdf", "-cluster-xml", f.clusters, "-o", f.path("o.json"))
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "1 STRUCTURAL")

	code, _, _ = runCLI(t, "-lwm2m-to-sdf", "-strict", "-cluster-xml", f.clusters, "-o", f.path("o.json"))
	assert.Equal(t, exitStrict, code)
}

func TestStrictFailsOnUndefinedResource(t *testing.T) {
	f := newFixture(t)
	write(t, f.path("switch.json"), `{
  "sdfObject": {
    "Switch": {
      "sdfProperty": {
        "state": {"type": "boolean", "readable": false, "writable": false}
      },
      "sdfAction": {
        "toggle": {}
      }
    }
  }
}`)
	out := f.path("xml", "switch.xml")

	code, stdout, stderr := runCLI(t, "-sdf-to-lwm2m", "-sdf-model", f.path("switch.json"), "-o", out)
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "VOCABULARY")
	o := objectOf(t, f.path("xml", "switch-cluster_0.xml"))
	require.Len(t, o.Resources, 2)

	code, _, _ = runCLI(t, "-sdf-to-lwm2m", "-strict", "-sdf-model", f.path("switch.json"), "-o", out)
	assert.Equal(t, exitStrict, code)
}

func TestEventLog(t *testing.T) {
	f := newFixture(t)
	logPath := f.path("run.tlog")

	code, _, stderr := runCLI(t, "-lwm2m-to-sdf", "-cluster-xml", f.clusters, "-event-log", logPath, "-o", f.path("o.json"))
	require.Equal(t, exitOK, code, stderr)

	reader, err := eventlog.NewReader(logPath)
	require.NoError(t, err)
	defer reader.Close()
	events, err := reader.ReadAll()
	require.NoError(t, err)
	require.NotEmpty(t, events)

	var stages []string
	for _, e := range events {
		assert.Equal(t, events[0].RunID, e.RunID)
		assert.Equal(t, eventlog.DirectionToSDF, e.Direction)
		if e.StageChange != nil && e.StageChange.Status == eventlog.StatusFinished {
			stages = append(stages, e.Stage.String())
		}
	}
	assert.Equal(t, []string{"PARSE", "TRANSLATE", "WRITE"}, stages)
}

func TestConfigFile(t *testing.T) {
	f := newFixture(t)
	write(t, f.path("strict.json"), strictSchema)
	write(t, f.path("converter.yaml"), `
validate: strict.json
strict: true
eventLog: from-config.tlog
logLevel: debug
info:
  title: Configured Title
`)
	out := f.path("c", "c.json")

	code, _, stderr := runCLI(t, "-config", f.path("converter.yaml"), "-lwm2m-to-sdf", "-cluster-xml", f.clusters, "-o", out)
	assert.Equal(t, exitStrict, code, "strict and validate come from the file")
	assert.Contains(t, stderr, "level=DEBUG")
	assert.FileExists(t, f.path("from-config.tlog"))

	model, _, err := fileio.LoadSDF(f.path("c", "c-model.json"), "")
	require.NoError(t, err)
	require.NotNil(t, model.Info)
	assert.Equal(t, "Configured Title", model.Info.Title)

	code, _, _ = runCLI(t, "-config", f.path("converter.yaml"), "-strict=false", "-lwm2m-to-sdf", "-cluster-xml", f.clusters, "-o", out)
	assert.Equal(t, exitOK, code, "explicit flags win over the file")
}

func TestArgumentErrors(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no direction", []string{"-o", "x.json"}, "exactly one of"},
		{"both directions", []string{"-lwm2m-to-sdf", "-sdf-to-lwm2m", "-o", "x"}, "exactly one of"},
		{"no output", []string{"-lwm2m-to-sdf", "-cluster-xml", f.clusters}, "-o is required"},
		{"no clusters", []string{"-lwm2m-to-sdf", "-o", "x"}, "needs -cluster-xml"},
		{"no model", []string{"-sdf-to-lwm2m", "-o", "x"}, "needs -sdf-model"},
		{"bad level", []string{"-lwm2m-to-sdf", "-cluster-xml", "c", "-o", "x", "-log-level", "loud"}, "unknown log level"},
		{"stray argument", []string{"-lwm2m-to-sdf", "-cluster-xml", "c", "-o", "x", "extra"}, "unexpected argument"},
		{"unknown flag", []string{"-bogus"}, "flag provided but not defined"},
		{"missing input", []string{"-lwm2m-to-sdf", "-cluster-xml", f.path("nope"), "-o", f.path("x.json")}, "nope"},
		{"missing model", []string{"-sdf-to-lwm2m", "-sdf-model", f.path("nope.json"), "-o", f.path("x.xml")}, "nope.json"},
		{"bad config", []string{"-config", f.path("nope.yaml"), "-lwm2m-to-sdf"}, "nope.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, tt.args...)
			assert.Equal(t, exitFailure, code)
			assert.Contains(t, stderr, tt.want)
		})
	}
}

func TestEmptyClusterDirectory(t *testing.T) {
	dir := t.TempDir()
	code, _, stderr := runCLI(t, "-lwm2m-to-sdf", "-cluster-xml", dir, "-o", filepath.Join(dir, "o.json"))
	assert.Equal(t, exitFailure, code)
	assert.True(t, strings.Contains(stderr, "no *.xml files"), stderr)
}

func TestHelp(t *testing.T) {
	code, _, stderr := runCLI(t, "-h")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stderr, "-lwm2m-to-sdf")
}
