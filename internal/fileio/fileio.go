// Package fileio reads and writes the converter's input and output files.
package fileio

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/sdf-lwm2m/converter-go/pkg/convert"
	"github.com/sdf-lwm2m/converter-go/pkg/sdf"
	"github.com/sdf-lwm2m/converter-go/pkg/xmltree"
)

// Default output extensions.
const (
	JSONExt = ".json"
	XMLExt  = ".xml"
)

// LoadSDF reads an SDF model and, when mappingPath is not empty, its
// mapping. The mapping is nil when no path is given.
func LoadSDF(modelPath, mappingPath string) (*sdf.Model, *sdf.Mapping, error) {
	data, err := os.ReadFile(modelPath)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", modelPath, err)
	}
	model, err := sdf.ParseModel(data)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", modelPath, err)
	}
	if mappingPath == "" {
		return model, nil, nil
	}
	data, err = os.ReadFile(mappingPath)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", mappingPath, err)
	}
	mapping, err := sdf.ParseMapping(data)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", mappingPath, err)
	}
	return model, mapping, nil
}

// SaveJSON writes v as JSON with four-space indentation.
func SaveJSON(path string, v any) error {
	data, err := sdf.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// LoadXML parses an XML file.
func LoadXML(path string) (*xmltree.Element, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	defer f.Close()
	root, err := xmltree.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return root, nil
}

// SaveXML writes n as an indented XML document.
func SaveXML(path string, n xmltree.Node) error {
	data, err := xmltree.Marshal(n)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// WalkClusters returns the cluster files at path: path itself when it is a
// file, otherwise every *.xml file below it in lexical order.
func WalkClusters(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(p), XMLExt) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", path, err)
	}
	sort.Strings(files)
	return files, nil
}

// ReadSources reads every file into a batch source named by its path.
func ReadSources(paths []string) ([]convert.Source, error) {
	sources := make([]convert.Source, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		sources = append(sources, convert.Source{Name: p, Data: data})
	}
	return sources, nil
}

// splitOutput separates an -output value into stem and extension.
func splitOutput(output, defaultExt string) (stem, ext string) {
	ext = filepath.Ext(output)
	if ext == "" {
		return output, defaultExt
	}
	return strings.TrimSuffix(output, ext), ext
}

// SDFFilenames derives "<stem>-model<ext>" and "<stem>-mapping<ext>".
func SDFFilenames(output string) (model, mapping string) {
	stem, ext := splitOutput(output, JSONExt)
	return stem + "-model" + ext, stem + "-mapping" + ext
}

// LwM2MFilenames derives "<stem>-device<ext>" and n cluster names
// "<stem>-cluster_<i><ext>" numbered from 0.
func LwM2MFilenames(output string, n int) (device string, clusters []string) {
	stem, ext := splitOutput(output, XMLExt)
	clusters = make([]string, n)
	for i := range clusters {
		clusters[i] = stem + "-cluster_" + strconv.Itoa(i) + ext
	}
	return stem + "-device" + ext, clusters
}
