package foldersize

import (
	"cmp"
	"fmt"
	"slices"
)

// Row is one line of a size report.
type Row struct {
	// Path is the absolute directory path.
	Path string `json:"path" yaml:"path"`
	// Size is the directory size expressed in Unit.
	Size int64 `json:"size" yaml:"size"`
	// Unit is the name of the display unit.
	Unit string `json:"unit" yaml:"unit"`
	// Bytes is the exact directory size in bytes.
	Bytes int64 `json:"bytes" yaml:"bytes"`
}

// String formats the row as "<size> <unit>:\t<path>".
func (r Row) String() string {
	return fmt.Sprintf("%d %s:\t%s", r.Size, r.Unit, r.Path)
}

// BuildReport drops every directory smaller than threshold bytes, converts the
// rest to unit and sorts them by size, largest first. Directories of equal
// size are ordered by path.
func BuildReport(index *Index, threshold int64, unit Unit) []Row {
	rows := make([]Row, 0, len(index.Sizes))

	for path, bytes := range index.Sizes {
		if bytes < threshold {
			continue
		}

		rows = append(rows, Row{
			Path:  path,
			Size:  unit.Convert(bytes),
			Unit:  unit.Name,
			Bytes: bytes,
		})
	}

	slices.SortFunc(rows, func(a, b Row) int {
		if c := cmp.Compare(b.Bytes, a.Bytes); c != 0 {
			return c
		}

		return cmp.Compare(a.Path, b.Path)
	})

	return rows
}
