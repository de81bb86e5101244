package core

import (
	"encoding/hex"
	"fmt"
	"reflect"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
)

// parquetField describes one physical column's reflect/parquet-tag shape.
// Every field is written as OPTIONAL (a Go pointer) so a null cell can be
// represented without inventing a sentinel value.
type parquetField struct {
	column string
	typ    ColumnType
	goType reflect.Type
}

func parquetGoType(ct ColumnType) reflect.Type {
	switch ct {
	case ColumnBoolean:
		return reflect.TypeOf(false)
	case ColumnUInt32, ColumnInt32:
		return reflect.TypeOf(int32(0))
	case ColumnUInt64, ColumnInt64:
		return reflect.TypeOf(int64(0))
	case ColumnFloat32:
		return reflect.TypeOf(float32(0))
	case ColumnFloat64:
		return reflect.TypeOf(float64(0))
	default: // ColumnString, ColumnBinary, ColumnHex
		return reflect.TypeOf("")
	}
}

func parquetTag(ct ColumnType, name string) string {
	base := fmt.Sprintf("name=%s, repetitiontype=OPTIONAL", name)
	switch ct {
	case ColumnBoolean:
		return base + ", type=BOOLEAN"
	case ColumnUInt32:
		return base + ", type=INT32, convertedtype=UINT_32"
	case ColumnInt32:
		return base + ", type=INT32"
	case ColumnUInt64:
		return base + ", type=INT64, convertedtype=UINT_64"
	case ColumnInt64:
		return base + ", type=INT64"
	case ColumnFloat32:
		return base + ", type=FLOAT"
	case ColumnFloat64:
		return base + ", type=DOUBLE"
	case ColumnString, ColumnHex:
		return base + ", type=BYTE_ARRAY, convertedtype=UTF8"
	default: // ColumnBinary
		return base + ", type=BYTE_ARRAY"
	}
}

// buildParquetRowType generates a Go struct type at runtime, one exported
// pointer field per resolved column, tagged for xitongsys/parquet-go's
// reflect-based writer. Field names are positional (F0, F1, ...) since
// column names aren't guaranteed valid Go identifiers; the real name lives
// in the parquet struct tag.
func buildParquetRowType(df *DataFrame) (reflect.Type, []parquetField) {
	fields := make([]parquetField, len(df.Columns))
	structFields := make([]reflect.StructField, len(df.Columns))
	for i, name := range df.Columns {
		ct := df.Schema.ColumnType(name)
		goType := parquetGoType(ct)
		fields[i] = parquetField{column: name, typ: ct}
		structFields[i] = reflect.StructField{
			Name: fmt.Sprintf("F%d", i),
			Type: reflect.PointerTo(goType),
			Tag:  reflect.StructTag(`parquet:"` + parquetTag(ct, name) + `"`),
		}
	}
	return reflect.StructOf(structFields), fields
}

// parquetCellValue converts one boxed cell into the pointer value its
// struct field expects, or a nil pointer for a null cell.
func parquetCellValue(ct ColumnType, goType reflect.Type, v any) reflect.Value {
	if v == nil {
		return reflect.Zero(reflect.PointerTo(goType))
	}
	ptr := reflect.New(goType)
	switch ct {
	case ColumnBoolean:
		ptr.Elem().SetBool(v.(bool))
	case ColumnUInt32:
		ptr.Elem().SetInt(int64(int32(v.(uint32))))
	case ColumnInt32:
		ptr.Elem().SetInt(int64(v.(int32)))
	case ColumnUInt64:
		ptr.Elem().SetInt(int64(v.(uint64)))
	case ColumnInt64:
		ptr.Elem().SetInt(v.(int64))
	case ColumnFloat32:
		ptr.Elem().SetFloat(float64(v.(float32)))
	case ColumnFloat64:
		ptr.Elem().SetFloat(v.(float64))
	case ColumnString:
		ptr.Elem().SetString(v.(string))
	case ColumnHex:
		// collectors always hand binary columns raw []byte; the hex
		// encoding choice is applied here, at materialization, not by the
		// collector.
		ptr.Elem().SetString("0x" + hex.EncodeToString(v.([]byte)))
	default: // ColumnBinary: raw bytes carried through a Go string without
		// going through encoding/json, so arbitrary byte values (including
		// invalid UTF-8, e.g. a 20-byte address) survive unmodified.
		ptr.Elem().SetString(string(v.([]byte)))
	}
	return ptr
}

func parquetCompressionCodec(c Compression) parquet.CompressionCodec {
	switch c.Name {
	case "snappy":
		return parquet.CompressionCodec_SNAPPY
	case "gzip":
		return parquet.CompressionCodec_GZIP
	case "lz4":
		return parquet.CompressionCodec_LZ4
	case "zstd":
		return parquet.CompressionCodec_ZSTD
	case "brotli":
		return parquet.CompressionCodec_BROTLI
	default:
		return parquet.CompressionCodec_UNCOMPRESSED
	}
}

// WriteParquet renders a DataFrame to a local Parquet file using a
// runtime-generated row struct, one physical column per df.Columns entry.
// rowGroupSize is the row count per group (0 lets the library's own
// buffering decide). out.ParquetStatistics is not read: the library
// computes column statistics for every row group, so statistics are written
// whether or not it is set.
func WriteParquet(path string, df *DataFrame, out *FileOutput, rowGroupSize uint64) error {
	rowType, fields := buildParquetRowType(df)

	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return fmt.Errorf("open parquet file: %w", err)
	}
	defer fw.Close()

	pw, err := writer.NewParquetWriter(fw, reflect.New(rowType).Interface(), 4)
	if err != nil {
		return fmt.Errorf("create parquet writer: %w", err)
	}
	pw.CompressionType = parquetCompressionCodec(out.ParquetCompression)

	n := df.NRows()
	rowsInGroup := uint64(0)
	for i := 0; i < n; i++ {
		row := reflect.New(rowType).Elem()
		for fi, f := range fields {
			cell := df.Data[f.column].Values[i]
			row.Field(fi).Set(parquetCellValue(f.typ, parquetGoType(f.typ), cell))
		}
		if err := pw.Write(row.Interface()); err != nil {
			return fmt.Errorf("write parquet row: %w", err)
		}
		rowsInGroup++
		if rowGroupSize > 0 && rowsInGroup >= rowGroupSize {
			if err := pw.Flush(true); err != nil {
				return fmt.Errorf("flush parquet row group: %w", err)
			}
			rowsInGroup = 0
		}
	}
	if err := pw.WriteStop(); err != nil {
		return fmt.Errorf("finalize parquet file: %w", err)
	}
	return nil
}
