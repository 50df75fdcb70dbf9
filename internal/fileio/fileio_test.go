package fileio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdf-lwm2m/converter-go/pkg/sdf"
	"github.com/sdf-lwm2m/converter-go/pkg/xmltree"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestSDFFilenames(t *testing.T) {
	tests := []struct {
		output, model, mapping string
	}{
		{"out/temp.json", "out/temp-model.json", "out/temp-mapping.json"},
		{"out/temp", "out/temp-model.json", "out/temp-mapping.json"},
		{"temp.sdf.json", "temp.sdf-model.json", "temp.sdf-mapping.json"},
		{"v1.2/temp", "v1.2/temp-model.json", "v1.2/temp-mapping.json"},
	}
	for _, tt := range tests {
		model, mapping := SDFFilenames(tt.output)
		assert.Equal(t, tt.model, model, tt.output)
		assert.Equal(t, tt.mapping, mapping, tt.output)
	}
}

func TestLwM2MFilenames(t *testing.T) {
	device, clusters := LwM2MFilenames("out/temp.xml", 3)
	assert.Equal(t, "out/temp-device.xml", device)
	assert.Equal(t, []string{"out/temp-cluster_0.xml", "out/temp-cluster_1.xml", "out/temp-cluster_2.xml"}, clusters)

	device, clusters = LwM2MFilenames("temp", 1)
	assert.Equal(t, "temp-device.xml", device)
	assert.Equal(t, []string{"temp-cluster_0.xml"}, clusters)

	_, clusters = LwM2MFilenames("temp", 0)
	assert.Empty(t, clusters)
}

func TestWalkClusters(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.xml"), "<LWM2M/>")
	writeFile(t, filepath.Join(dir, "a.XML"), "<LWM2M/>")
	writeFile(t, filepath.Join(dir, "notes.txt"), "skip")
	writeFile(t, filepath.Join(dir, "sub", "deeper", "c.xml"), "<LWM2M/>")

	files, err := WalkClusters(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.XML"),
		filepath.Join(dir, "b.xml"),
		filepath.Join(dir, "sub", "deeper", "c.xml"),
	}, files)

	single, err := WalkClusters(files[1])
	require.NoError(t, err)
	assert.Equal(t, files[1:2], single)

	_, err = WalkClusters(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestReadSources(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "3303.xml")
	writeFile(t, path, "<LWM2M/>")

	sources, err := ReadSources([]string{path})
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, path, sources[0].Name)
	assert.Equal(t, "<LWM2M/>", string(sources[0].Data))

	_, err = ReadSources([]string{path, filepath.Join(dir, "gone.xml")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gone.xml")
}

func TestLoadSDF(t *testing.T) {
	dir := t.TempDir()
	modelPath := filepath.Join(dir, "m.json")
	mappingPath := filepath.Join(dir, "map.json")
	writeFile(t, modelPath, `{"sdfObject":{"Temperature":{"label":"Temperature"}}}`)
	writeFile(t, mappingPath, `{"map":{"#/sdfObject/Temperature":{"objectId":3303}}}`)

	model, mapping, err := LoadSDF(modelPath, mappingPath)
	require.NoError(t, err)
	assert.True(t, model.SdfObject.Has("Temperature"))
	require.NotNil(t, mapping)
	id, ok := mapping.Entry("#/sdfObject/Temperature").Int("objectId")
	assert.True(t, ok)
	assert.Equal(t, 3303, id)

	model, mapping, err = LoadSDF(modelPath, "")
	require.NoError(t, err)
	assert.NotNil(t, model)
	assert.Nil(t, mapping)
}

func TestLoadSDF_Errors(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "m.json")
	writeFile(t, good, `{"sdfObject":{"T":{}}}`)
	bad := filepath.Join(dir, "bad.json")
	writeFile(t, bad, `{"sdfObject":`)

	_, _, err := LoadSDF(filepath.Join(dir, "missing.json"), "")
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, _, err = LoadSDF(bad, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.json")

	_, _, err = LoadSDF(good, bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.json")
}

func TestSaveJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	var m sdf.Map[string]
	m.Set("z", "<last>")
	m.Set("a", "first")
	require.NoError(t, SaveJSON(path, m))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"z\": \"<last>\",\n    \"a\": \"first\"\n}\n", string(data))

	assert.Error(t, SaveJSON(filepath.Join(t.TempDir(), "no", "such", "dir.json"), m))
}

func TestXMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.xml")
	root := xmltree.NewElement("LWM2M")
	root.Append(xmltree.NewElement("Object").AppendText("Name", "Temperature"))
	require.NoError(t, SaveXML(path, root))

	back, err := LoadXML(path)
	require.NoError(t, err)
	obj, ok := back.Child("Object")
	require.True(t, ok)
	name, ok := obj.Child("Name")
	require.True(t, ok)
	assert.Equal(t, "Temperature", name.Text())

	writeFile(t, path, "<LWM2M><Object>")
	_, err = LoadXML(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}
