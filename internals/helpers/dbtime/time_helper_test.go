package dbtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSchoolDate(t *testing.T) {
	d, err := ParseSchoolDate("2025-03-14")
	require.NoError(t, err)
	assert.Equal(t, 2025, d.Year())
	assert.Equal(t, 14, d.Day())
	assert.Equal(t, 0, d.Hour())

	_, err = ParseSchoolDate("14/03/2025")
	assert.Error(t, err)
}
