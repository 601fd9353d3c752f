package dataset

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/agentstation/livingset/pkg/errors"
)

const utf8BOM = "\ufeff"

// ReadFile loads the CSV file at path as a dataset of type t.
// A missing file yields an error satisfying errors.Is(err, fs.ErrNotExist).
func ReadFile(path string, t DataType) (*Dataset, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the configured layout
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	defer func() { _ = f.Close() }()

	return Read(bufio.NewReader(f), t, path)
}

// Read parses CSV from r. The first row is the header. Rows that do not
// conform are excluded from Records and listed in Rejected:
//   - a field count different from the header's
//   - a blank key column
//   - a row the CSV reader cannot parse
//
// A header that cannot be read or repeats a column name fails the whole read.
func Read(r io.Reader, t DataType, source string) (*Dataset, error) {
	schema := SchemaFor(t)

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		ds := New(t, nil)
		ds.Source = source
		return ds, nil
	}
	if err != nil {
		return nil, errors.WrapParse("csv", source, err)
	}
	header = cleanHeader(header)
	if dup := firstDuplicate(header); dup != "" {
		return nil, &errors.ParseError{
			Format:  "csv",
			File:    source,
			Line:    1,
			Message: fmt.Sprintf("duplicate column %q in header", dup),
		}
	}

	ds := New(t, header)
	ds.Source = source

	var keyCols []string
	for _, name := range schema.KeyNames() {
		if ds.HasColumn(name) {
			keyCols = append(keyCols, name)
		}
	}

	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if !errors.As(err, &pe) {
				return nil, errors.WrapIO("read", source, err)
			}
			ds.Rejected = append(ds.Rejected, RejectedRow{Line: pe.StartLine, Fields: fields, Reason: pe.Err.Error()})
			continue
		}
		line, _ := cr.FieldPos(0)

		if len(fields) != len(header) {
			ds.Rejected = append(ds.Rejected, RejectedRow{
				Line:   line,
				Fields: fields,
				Reason: fmt.Sprintf("expected %d fields, got %d", len(header), len(fields)),
			})
			continue
		}

		rec := make(Record, len(header))
		for i, c := range header {
			rec[c] = fields[i]
		}

		if blank := blankKeyColumn(schema, rec, keyCols); blank != "" {
			ds.Rejected = append(ds.Rejected, RejectedRow{
				Line:   line,
				Fields: fields,
				Reason: fmt.Sprintf("blank key column %s", blank),
			})
			continue
		}
		ds.Records = append(ds.Records, rec)
	}

	return ds, nil
}

// Write encodes ds as CSV: header, then records in order.
func Write(w io.Writer, ds *Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ds.Columns); err != nil {
		return err
	}
	row := make([]string, len(ds.Columns))
	for _, r := range ds.Records {
		for i, c := range ds.Columns {
			row[i] = r[c]
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRejected encodes quarantined rows as CSV: the source line, the reason,
// then the raw fields.
func WriteRejected(w io.Writer, header []string, rows []RejectedRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"_line", "_reason"}, header...)); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(append([]string{fmt.Sprint(row.Line), row.Reason}, row.Fields...)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func cleanHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		out[i] = strings.TrimSpace(h)
	}
	return out
}

func firstDuplicate(header []string) string {
	seen := make(map[string]bool, len(header))
	for _, h := range header {
		if seen[h] {
			return h
		}
		seen[h] = true
	}
	return ""
}

func blankKeyColumn(s Schema, r Record, present []string) string {
	for _, kc := range s.KeyColumns {
		for _, name := range present {
			if kc.Name == name && kc.Kind.Normalize(r[name]) == "" {
				return name
			}
		}
	}
	return ""
}
