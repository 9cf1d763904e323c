// Package dataset reads and writes the CSV files handed between the cleaner
// and the scorer. Columns are addressed by header name so columns the job
// does not know about pass through untouched.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
)

var ErrMissingColumn = errors.New("missing column")

type Table struct {
	Header []string
	Rows   [][]string
}

func Read(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = false

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New("dataset is empty: no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	return &Table{Header: header, Rows: rows}, nil
}

func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

func (t *Table) Write(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Header); err != nil {
		return err
	}
	if err := writer.WriteAll(t.Rows); err != nil {
		return err
	}
	return writer.Error()
}

// WriteFile writes to a temporary file in the target directory and renames
// it into place, so a failed run never leaves a truncated dataset.
func (t *Table) WriteFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := t.Write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (t *Table) Len() int {
	return len(t.Rows)
}

// Index returns the position of column name, or ErrMissingColumn.
func (t *Table) Index(name string) (int, error) {
	i := slices.Index(t.Header, name)
	if i < 0 {
		return -1, fmt.Errorf("%w: %q", ErrMissingColumn, name)
	}
	return i, nil
}

// Column returns a copy of every value in column name.
func (t *Table) Column(name string) ([]string, error) {
	i, err := t.Index(name)
	if err != nil {
		return nil, err
	}
	values := make([]string, len(t.Rows))
	for r, row := range t.Rows {
		values[r] = row[i]
	}
	return values, nil
}

// SetColumn replaces column name, appending it when absent.
func (t *Table) SetColumn(name string, values []string) error {
	if len(values) != len(t.Rows) {
		return fmt.Errorf("column %q has %d values for %d rows", name, len(values), len(t.Rows))
	}

	i := slices.Index(t.Header, name)
	if i < 0 {
		t.Header = append(t.Header, name)
		for r := range t.Rows {
			t.Rows[r] = append(t.Rows[r], values[r])
		}
		return nil
	}
	for r := range t.Rows {
		t.Rows[r][i] = values[r]
	}
	return nil
}

// DropColumns removes the named columns; names that are absent are ignored.
func (t *Table) DropColumns(names ...string) {
	keep := make([]int, 0, len(t.Header))
	header := make([]string, 0, len(t.Header))
	for i, h := range t.Header {
		if !slices.Contains(names, h) {
			keep = append(keep, i)
			header = append(header, h)
		}
	}
	if len(header) == len(t.Header) {
		return
	}

	for r, row := range t.Rows {
		out := make([]string, len(keep))
		for j, i := range keep {
			out[j] = row[i]
		}
		t.Rows[r] = out
	}
	t.Header = header
}
