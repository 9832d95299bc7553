package foldersize

import (
	"fmt"
	"strings"
)

const (
	kilo int64 = 1000
	kibi int64 = 1024
)

// Unit is a display unit for directory sizes.
type Unit struct {
	// Name is the lowercase unit name used on the command line and in reports.
	Name string
	// Bits is the number of bits in one unit.
	Bits int64
	// Description is a human readable label.
	Description string
}

// DefaultUnit is the unit used when none is requested.
const DefaultUnit = "mib"

// Units lists every supported unit, smallest first.
//
//nolint:gochecknoglobals // Lookup table
var Units = []Unit{
	{Name: "bit", Bits: 1, Description: "bits"},
	{Name: "b", Bits: 8, Description: "Bytes = 8 bits"},
	{Name: "kb", Bits: 8 * kilo, Description: "KiloBytes = 1000 Bytes"},
	{Name: "mb", Bits: 8 * kilo * kilo, Description: "MegaBytes = 1000^2 Bytes"},
	{Name: "gb", Bits: 8 * kilo * kilo * kilo, Description: "GigaBytes = 1000^3 Bytes"},
	{Name: "tb", Bits: 8 * kilo * kilo * kilo * kilo, Description: "TeraBytes = 1000^4 Bytes"},
	{Name: "kib", Bits: 8 * kibi, Description: "KibiBytes = 1024 Bytes"},
	{Name: "mib", Bits: 8 * kibi * kibi, Description: "MebiBytes = 2^20 Bytes"},
	{Name: "gib", Bits: 8 * kibi * kibi * kibi, Description: "GibiBytes = 2^30 Bytes"},
	{Name: "tib", Bits: 8 * kibi * kibi * kibi * kibi, Description: "TebiBytes = 2^40 Bytes"},
}

// UnitNames returns the names of all supported units.
func UnitNames() []string {
	names := make([]string, 0, len(Units))
	for _, u := range Units {
		names = append(names, u.Name)
	}

	return names
}

// ParseUnit looks up a unit by name, ignoring case.
func ParseUnit(name string) (Unit, error) {
	for _, u := range Units {
		if strings.EqualFold(u.Name, strings.TrimSpace(name)) {
			return u, nil
		}
	}

	return Unit{}, fmt.Errorf("%w %q: must be one of %v", ErrInvalidUnit, name, UnitNames())
}

// Convert expresses bytes in the unit, truncating toward zero.
func (u Unit) Convert(bytes int64) int64 {
	// Whole-byte units divide without the intermediate bit count,
	// which keeps large totals from overflowing.
	if u.Bits%8 == 0 {
		return bytes / (u.Bits / 8)
	}

	return bytes * 8 / u.Bits
}

func (u Unit) String() string {
	return u.Name
}
