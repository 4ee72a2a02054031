// Package importer implements the bulk CSV-to-relational import pipeline for
// the Chicago 311 open datasets: positional CSV parsing, row normalization,
// batch-local sub-entity deduplication, value sanitization, and two-phase
// chunked persistence.
package importer

import (
	_ "embed"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vtsiatouras/311-chicago-incidents/internal/database"
	"gopkg.in/yaml.v3"
)

//go:embed datasets.yaml
var datasetsYAML []byte

// Dataset describes one recognized source file: how to detect it, which
// service-type tag its rows get stamped with, how its rows deduplicate, and
// the positional column layout of the file.
type Dataset struct {
	Name        string               `yaml:"name"`
	Suffix      string               `yaml:"suffix"`
	ServiceType database.ServiceType `yaml:"service_type"`
	Dedup       DedupMode            `yaml:"dedup"`
	Columns     []string             `yaml:"columns"`
}

type datasetRegistry struct {
	Datasets []Dataset `yaml:"datasets"`
}

var datasets = mustLoadDatasets()

func mustLoadDatasets() []Dataset {
	var registry datasetRegistry
	if err := yaml.Unmarshal(datasetsYAML, &registry); err != nil {
		panic(fmt.Sprintf("importer: invalid embedded datasets.yaml: %v", err))
	}
	for _, ds := range registry.Datasets {
		if !database.IsValidServiceType(ds.ServiceType) {
			panic(fmt.Sprintf("importer: dataset %s declares unknown service type %s", ds.Name, ds.ServiceType))
		}
	}
	return registry.Datasets
}

// Datasets returns every recognized dataset definition.
func Datasets() []Dataset {
	return datasets
}

// DatasetForFile matches a file path against the registry by filename suffix.
// Returns nil when the file is not a recognized dataset.
func DatasetForFile(path string) *Dataset {
	base := filepath.Base(path)
	for i := range datasets {
		if strings.HasSuffix(base, datasets[i].Suffix) {
			return &datasets[i]
		}
	}
	return nil
}
