package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/kalendo/kalendo/pkg/event"
	log "github.com/sirupsen/logrus"
)

// header is the exact CSV header consumers of the export rely on.
var header = []string{"Subject", "Start Date", "Start Time", "End Date", "End Time", "Description", "Location", "Public"}

// CSVRenderer turns expanded occurrences into CSV, one row per
// occurrence.
type CSVRenderer struct {
}

func NewCSVRenderer() *CSVRenderer {
	return &CSVRenderer{}
}

// Render writes the header and one row per occurrence into a string.
func (r *CSVRenderer) Render(occurrences []event.Event) (string, error) {
	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	if err := writer.Write(header); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}
	for i := range occurrences {
		if err := writer.Write(row(&occurrences[i])); err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}
	return b.String(), nil
}

// ExportToFile renders the occurrences and writes them to the given
// file path, returning the absolute path of the created file.
func (r *CSVRenderer) ExportToFile(path string, occurrences []event.Event) (string, error) {
	content, err := r.Render(occurrences)
	if err != nil {
		return "", err
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve export path: %w", err)
	}
	if err := os.WriteFile(absPath, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	log.Infof("exported %d occurrences to %s", len(occurrences), absPath)
	return absPath, nil
}

func row(occ *event.Event) []string {
	return []string{
		occ.Subject,
		occ.Start.Format(event.DateLayout),
		timeOfDay(occ.Start),
		occ.End.Format(event.DateLayout),
		timeOfDay(occ.End),
		occ.Description,
		occ.Location,
		strconv.FormatBool(occ.Public),
	}
}

// timeOfDay formats an ISO local time, omitting seconds when zero.
func timeOfDay(t time.Time) string {
	if t.Second() == 0 {
		return t.Format("15:04")
	}
	return t.Format("15:04:05")
}
