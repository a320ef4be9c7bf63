package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Clark-Hu/movielens-reports/internal/report"
)

var header = []string{"Rank", "Movie", "AverageRating"}

// FileName returns the file a segment is written to, e.g. "Age_18_30_Top10.csv".
func FileName(s report.Segment) string {
	return s.String() + "_Top10.csv"
}

// WriteSegment writes one segment's entries as CSV with 1-based ranks and
// averages rounded to two decimals.
func WriteSegment(w io.Writer, entries []report.Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for i, e := range entries {
		rec := []string{strconv.Itoa(i + 1), e.Title, strconv.FormatFloat(e.Average, 'f', 2, 64)}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSV creates dir if needed and writes one file per segment.
func WriteCSV(dir string, r report.Report) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	for _, s := range report.Segments() {
		path := filepath.Join(dir, FileName(s))
		if err := writeFile(path, r[s]); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}

func writeFile(path string, entries []report.Entry) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return WriteSegment(f, entries)
}
