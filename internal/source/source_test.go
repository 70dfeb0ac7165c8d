package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowString(t *testing.T) {
	row := Row{
		"present":     "value",
		"blank":       "",
		"placeholder": "None",
		"nil":         nil,
		"number":      42,
	}

	v, ok := row.String("present")
	assert.True(t, ok)
	assert.Equal(t, "value", v)

	for _, column := range []string{"blank", "placeholder", "nil", "number", "missing"} {
		_, ok := row.String(column)
		assert.False(t, ok, "column %q should read as absent", column)
	}
}

func TestRowFloat(t *testing.T) {
	row := Row{
		"float":       float64(1.5),
		"int":         7,
		"string":      "120000.5",
		"placeholder": "None",
		"blank":       "",
		"junk":        "lots",
	}

	v, ok, err := row.Float("float")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1.5, v)

	v, ok, err = row.Float("int")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 7.0, v)

	v, ok, err = row.Float("string")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 120000.5, v)

	for _, column := range []string{"placeholder", "blank", "missing"} {
		_, ok, err := row.Float(column)
		require.NoError(t, err)
		assert.False(t, ok, "column %q should read as absent", column)
	}

	_, _, err = row.Float("junk")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "junk")
}

func TestRowInt(t *testing.T) {
	row := Row{"count": float64(87), "junk": "many"}

	v, ok, err := row.Int("count")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 87, v)

	_, _, err = row.Int("junk")
	require.Error(t, err)
}

func TestRowBool(t *testing.T) {
	row := Row{
		"bool_true":   true,
		"bool_false":  false,
		"text_true":   "True",
		"text_false":  "false",
		"placeholder": "None",
	}

	v, ok := row.Bool("bool_true")
	assert.True(t, ok)
	assert.True(t, v)

	v, ok = row.Bool("bool_false")
	assert.True(t, ok)
	assert.False(t, v)

	v, ok = row.Bool("text_true")
	assert.True(t, ok)
	assert.True(t, v)

	v, ok = row.Bool("text_false")
	assert.True(t, ok)
	assert.False(t, v)

	_, ok = row.Bool("placeholder")
	assert.False(t, ok)

	_, ok = row.Bool("missing")
	assert.False(t, ok)
}
