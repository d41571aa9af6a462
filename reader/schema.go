package reader

import (
	"fmt"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// PropertyInfo describes one property column of a kind file.
type PropertyInfo struct {
	Name        string `json:"name"`
	Type        string `json:"type"`         // Query value type: INTEGER, FLOAT, STRING, BOOLEAN, TIMESTAMP or BLOB
	ParquetType string `json:"parquet_type"` // Logical type when present, physical type otherwise
	Optional    bool   `json:"optional"`
	Repeated    bool   `json:"repeated"`
}

// ExtractPropertyInfo lists the leaf columns of a parquet file. Nested
// fields use dot notation (address.city), which is also how queries
// refer to them.
func ExtractPropertyInfo(path string) ([]PropertyInfo, error) {
	r, err := NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer func() { _ = r.Close() }()

	var infos []PropertyInfo
	for _, field := range r.Schema().Fields() {
		infos = appendFieldInfo(infos, field, "", false)
	}
	return infos, nil
}

// appendFieldInfo walks a field, propagating repetition from its parents
func appendFieldInfo(infos []PropertyInfo, field parquet.Field, prefix string, parentRepeated bool) []PropertyInfo {
	name := field.Name()
	if prefix != "" {
		name = prefix + "." + name
	}
	repeated := parentRepeated || field.Repeated()

	if children := field.Fields(); len(children) > 0 {
		for _, child := range children {
			infos = appendFieldInfo(infos, child, name, repeated)
		}
		return infos
	}

	return append(infos, PropertyInfo{
		Name:        name,
		Type:        valueType(field),
		ParquetType: parquetType(field),
		Optional:    field.Optional(),
		Repeated:    repeated,
	})
}

// parquetType returns the logical type name, or the physical one
func parquetType(field parquet.Field) string {
	if field.Type() == nil {
		return "GROUP"
	}
	if lt := field.Type().LogicalType(); lt != nil {
		return lt.String()
	}
	return physicalType(field.Type().Kind())
}

func physicalType(kind parquet.Kind) string {
	switch kind {
	case parquet.Boolean:
		return "BOOLEAN"
	case parquet.Int32:
		return "INT32"
	case parquet.Int64:
		return "INT64"
	case parquet.Int96:
		return "INT96"
	case parquet.Float:
		return "FLOAT"
	case parquet.Double:
		return "DOUBLE"
	case parquet.ByteArray:
		return "BYTE_ARRAY"
	case parquet.FixedLenByteArray:
		return "FIXED_LEN_BYTE_ARRAY"
	default:
		return "UNKNOWN"
	}
}

// valueType maps a column to the type its values have after ReadAll
func valueType(field parquet.Field) string {
	if field.Type() == nil {
		return "BLOB"
	}

	if lt := field.Type().LogicalType(); lt != nil {
		name := lt.String()
		switch {
		case hasAnyPrefix(name, "STRING", "UTF8", "ENUM", "JSON", "UUID"):
			return "STRING"
		case hasAnyPrefix(name, "TIMESTAMP", "DATE"):
			return "TIMESTAMP"
		}
	}

	switch field.Type().Kind() {
	case parquet.Boolean:
		return "BOOLEAN"
	case parquet.Int32, parquet.Int64:
		return "INTEGER"
	case parquet.Float, parquet.Double:
		return "FLOAT"
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return "STRING"
	default:
		return "BLOB"
	}
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
