package core

import (
	"fmt"
	"os"
	"path/filepath"
)

// Format is the on-disk file encoding.
type Format int

const (
	FormatParquet Format = iota
	FormatCSV
	FormatJSON
)

func (f Format) Extension() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatJSON:
		return "json"
	default:
		return "parquet"
	}
}

// FileOutput is the immutable, query-wide output configuration: built once
// at CLI parse time and shared read-only by every worker (spec.md §3
// Ownership summary).
type FileOutput struct {
	OutputDir           string
	Prefix              string
	Format              Format
	Suffix              string
	Overwrite           bool
	ParquetStatistics   bool
	ParquetCompression  Compression
	RowGroupSize        *uint64
	NRowGroups          *uint64
}

// Path builds the output file path for one (datatype, partition label)
// pair: "{output_dir}/{prefix}__{datatype}__{label}{__suffix}?.{ext}".
func (fo *FileOutput) Path(datatype Datatype, partitionLabel string) string {
	name := fmt.Sprintf("%s__%s__%s", fo.Prefix, datatype.String(), partitionLabel)
	if fo.Suffix != "" {
		name = fmt.Sprintf("%s__%s", name, fo.Suffix)
	}
	name = fmt.Sprintf("%s.%s", name, fo.Format.Extension())
	return filepath.Join(fo.OutputDir, name)
}

// Exists reports whether a path already has output materialized.
func (fo *FileOutput) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// RowGroupSizeFor resolves the effective Parquet row-group size for a
// chunk of the given size: explicit RowGroupSize wins, else
// ceil(chunkSize / NRowGroups), else 0 (library default).
func (fo *FileOutput) RowGroupSizeFor(chunkSize uint64) uint64 {
	if fo.RowGroupSize != nil {
		return *fo.RowGroupSize
	}
	if fo.NRowGroups != nil && *fo.NRowGroups > 0 {
		return (chunkSize + *fo.NRowGroups - 1) / *fo.NRowGroups
	}
	return 0
}

// WriteAtomic writes to a temporary file in the same directory as path and
// renames it into place only on success, so a failed or interrupted write
// never leaves a partial file at the target path (spec.md §4.6 step 4d /
// §5 cancellation policy).
func WriteAtomic(path string, write func(tmpPath string) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := write(tmp); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
