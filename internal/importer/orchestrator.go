package importer

import (
	"fmt"
	"log"
	"time"
)

// Summary reports the outcome of one orchestrator run.
type Summary struct {
	Processed int
	Skipped   int
	Failed    int
	Elapsed   time.Duration
}

// Run imports the given CSV files in order. Files whose names match no known
// dataset are skipped with a diagnostic, and a failure in one file does not
// stop the remaining files. The per-file pipelines are transactional, so a
// failed file leaves no partial rows behind.
func (im *Importer) Run(paths []string) Summary {
	start := time.Now()
	var summary Summary

	for _, path := range paths {
		ds := DatasetForFile(path)
		if ds == nil {
			log.Printf("File cannot be processed, skipping. (%s)", path)
			summary.Skipped++
			continue
		}

		if err := im.importFile(path, ds); err != nil {
			log.Printf("Failed to import %s: %v", path, err)
			summary.Failed++
			continue
		}
		summary.Processed++
	}

	summary.Elapsed = time.Since(start)
	log.Printf("Import finished: %d processed, %d skipped, %d failed in %s",
		summary.Processed, summary.Skipped, summary.Failed, summary.Elapsed)
	return summary
}

func (im *Importer) importFile(path string, ds *Dataset) error {
	fileStart := time.Now()
	log.Printf("Importing %s as %s", path, ds.Name)

	records, err := ReadFile(path, ds)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := im.importDataset(ds, records); err != nil {
		return err
	}

	log.Printf("Imported %s (%d rows) in %s", path, len(records), time.Since(fileStart))
	return nil
}
