package foldersize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildReportOrdering(t *testing.T) {
	index := &Index{
		Root:  "/r",
		Sizes: map[string]int64{
			"/r":      3000,
			"/r/b":    1000,
			"/r/a":    1000,
			"/r/c":    999,
			"/r/tiny": 10,
		},
	}

	unit, err := ParseUnit("kb")
	require.NoError(t, err)

	rows := BuildReport(index, 500, unit)

	assert.Equal(t, []Row{
		{Path: "/r", Size: 3, Unit: "kb", Bytes: 3000},
		{Path: "/r/a", Size: 1, Unit: "kb", Bytes: 1000},
		{Path: "/r/b", Size: 1, Unit: "kb", Bytes: 1000},
		{Path: "/r/c", Size: 0, Unit: "kb", Bytes: 999},
	}, rows)
	assert.Equal(t, "3 kb:\t/r", rows[0].String())
}

func TestBuildReportThresholdIsInclusive(t *testing.T) {
	index := &Index{Root: "/r", Sizes: map[string]int64{"/r": 2400, "/r/x": 300}}

	unit, err := ParseUnit("b")
	require.NoError(t, err)

	assert.Len(t, BuildReport(index, 300, unit), 2)
	assert.Len(t, BuildReport(index, 301, unit), 1)
	assert.Empty(t, BuildReport(index, 2401, unit))
}
