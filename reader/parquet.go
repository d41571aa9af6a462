package reader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"
)

// FileColumn is the column added to rows read through a glob pattern,
// holding the path of the file each row came from.
const FileColumn = "_file"

// maxFiles limits how many files one glob pattern may expand to
const maxFiles = 1000

// Reader reads the rows of one parquet file.
type Reader struct {
	file   *os.File
	pqFile *parquet.File
}

// NewReader opens path and validates it as a parquet file.
func NewReader(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pqFile, err := parquet.OpenFile(file, stat.Size())
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}

	return &Reader{
		file:   file,
		pqFile: pqFile,
	}, nil
}

// ReadAll reads every row into memory. Values are normalized to the types
// query values use: int64, float64, string, bool and time.Time.
func (r *Reader) ReadAll() ([]map[string]any, error) {
	rows := make([]map[string]any, 0, r.pqFile.NumRows())

	reader := parquet.NewReader(r.pqFile)
	defer func() { _ = reader.Close() }()

	for {
		row := make(map[string]any)
		err := reader.Read(&row)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read row %d: %w", len(rows)+1, err)
		}
		for name, v := range row {
			row[name] = normalizeValue(v)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// Schema returns the parquet file schema.
func (r *Reader) Schema() *parquet.Schema {
	return r.pqFile.Schema()
}

// NumRows returns the row count recorded in the file metadata.
func (r *Reader) NumRows() int64 {
	return r.pqFile.NumRows()
}

// Close releases the file handle. It is safe to call more than once.
func (r *Reader) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// ReadMultipleFiles reads all rows from the files matching pattern. A path
// without glob characters reads one file and leaves rows untagged;
// otherwise every row gets a FileColumn entry naming its source file.
func ReadMultipleFiles(pattern string) ([]map[string]any, error) {
	if !IsGlob(pattern) {
		return readFile(pattern)
	}

	matches, err := Glob(pattern)
	if err != nil {
		return nil, err
	}

	var allRows []map[string]any
	for _, filePath := range matches {
		rows, err := readFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", filePath, err)
		}
		for i := range rows {
			rows[i][FileColumn] = filePath
		}
		allRows = append(allRows, rows...)
	}

	return allRows, nil
}

// IsGlob reports whether pattern contains glob wildcards.
func IsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[]{}")
}

// Glob expands pattern and fails when nothing or too much matches.
func Glob(pattern string) ([]string, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no files match pattern: %s", pattern)
	}
	if len(matches) > maxFiles {
		return nil, fmt.Errorf("glob pattern matched too many files (%d), maximum is %d", len(matches), maxFiles)
	}
	return matches, nil
}

func readFile(path string) ([]map[string]any, error) {
	r, err := NewReader(path)
	if err != nil {
		return nil, err
	}

	rows, readErr := r.ReadAll()
	closeErr := r.Close()
	if readErr != nil {
		return nil, readErr
	}
	if closeErr != nil {
		return nil, fmt.Errorf("failed to close %s: %w", path, closeErr)
	}
	return rows, nil
}

// normalizeValue widens parquet scalar types
func normalizeValue(v any) any {
	switch val := v.(type) {
	case int32:
		return int64(val)
	case int16:
		return int64(val)
	case int8:
		return int64(val)
	case int:
		return int64(val)
	case uint32:
		return int64(val)
	case float32:
		return float64(val)
	case []byte:
		return string(val)
	case time.Time:
		return val.UTC()
	case []any:
		for i := range val {
			val[i] = normalizeValue(val[i])
		}
		return val
	default:
		return v
	}
}
