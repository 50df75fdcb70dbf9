// Command sdf-lwm2m-converter translates device models between SDF (JSON
// model and mapping documents) and LwM2M (XML Object definitions).
//
// Usage:
//
//	sdf-lwm2m-converter -lwm2m-to-sdf -cluster-xml <file|dir> [-device-xml <file>] -o <out.json>
//	sdf-lwm2m-converter -sdf-to-lwm2m -sdf-model <file> [-sdf-mapping <file>] -o <out.xml>
//
// Flags:
//
//	-lwm2m-to-sdf          Convert LwM2M to SDF
//	-sdf-to-lwm2m          Convert SDF to LwM2M
//	-roundtrip             Convert to the other format and back, write the source format
//	-sdf-model string      SDF model input
//	-sdf-mapping string    SDF mapping input
//	-device-xml string     LwM2M device definition input
//	-cluster-xml string    LwM2M Object definition file, or a directory walked for *.xml
//	-o, -output string     Output path; suffixed with -model/-mapping or -device/-cluster_<n>
//	-validate string       JSON Schema for SDF outputs; also enables LwM2M profile checks
//	-strict                Exit 2 on validation failures or error diagnostics
//	-workers int           Parser goroutines for cluster batches (default GOMAXPROCS)
//	-config string         YAML file with defaults for the flags above
//	-event-log string      CBOR translation event log
//	-log-level string      debug, info, warn or error (default "info")
//
// Examples:
//
//	# Convert a directory of registry objects grouped by a device
//	sdf-lwm2m-converter -lwm2m-to-sdf -cluster-xml objects/ -device-xml device.xml -o out/registry.json
//
//	# Check that a model survives SDF -> LwM2M -> SDF
//	sdf-lwm2m-converter -sdf-to-lwm2m -roundtrip -sdf-model m.json -sdf-mapping map.json -o out/rt.json
package main

import (
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
