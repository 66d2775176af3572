// Package csvfile encodes and decodes the habit CSV interchange format.
//
// Files are UTF-8 with a leading byte order mark so spreadsheet programs
// detect the encoding. Each row carries a habit and at most one of its
// entries: Habit Name, Icon, Date, Value.
package csvfile

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/mesh-intelligence/habits/pkg/types"
)

// Header is the first row of every exported file.
var Header = []string{"Habit Name", "Icon", "Date", "Value"}

// Values rewritten on export. The check mark recorded by the UI becomes a
// plain-text marker; import does not map it back.
const (
	CompletedMark   = "✓"
	CompletedExport = "COMPLETED"
)

// ContentType is the MIME type served with exported files.
const ContentType = "text/csv; charset=utf-8"

// ErrEmptyFile is returned by Read when the input has no rows at all.
var ErrEmptyFile = errors.New("csv file is empty")

// ErrInvalidEncoding is returned by Read when the input is not valid UTF-8.
var ErrInvalidEncoding = errors.New("csv file is not valid UTF-8")

// ExportFilename returns the download name for an export made at now.
func ExportFilename(now time.Time) string {
	return "habits_export_" + now.Format(types.DateLayout) + ".csv"
}

// ExportValue maps a stored entry value to its exported form.
func ExportValue(v string) string {
	if v == CompletedMark {
		return CompletedExport
	}
	return v
}

// Write encodes records as a BOM-prefixed CSV document with CRLF line
// endings, preceded by Header.
func Write(w io.Writer, records []types.Record) error {
	tw := transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())
	cw := csv.NewWriter(tw)
	cw.UseCRLF = true

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write([]string{r.Name, r.Icon, r.Date, ExportValue(r.Value)}); err != nil {
			return fmt.Errorf("writing record: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return tw.Close()
}

// Read decodes a CSV document into records. A leading byte order mark is
// optional. The first row is treated as a header and discarded whatever it
// contains; rows with fewer than four fields are skipped and extra fields
// are ignored. Input that is not valid UTF-8 is rejected whole.
func Read(r io.Reader) ([]types.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	if !utf8.Valid(data) {
		return nil, ErrInvalidEncoding
	}

	cr := csv.NewReader(transform.NewReader(bytes.NewReader(data), unicode.UTF8BOM.NewDecoder()))
	cr.FieldsPerRecord = -1

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyFile
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}

	records := []types.Record{}
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv: %w", err)
		}
		if len(row) < len(Header) {
			continue
		}
		records = append(records, types.Record{
			Name:  row[0],
			Icon:  row[1],
			Date:  row[2],
			Value: row[3],
		})
	}
	return records, nil
}
