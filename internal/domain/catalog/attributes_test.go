package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAttributes_Nil(t *testing.T) {
	attrs := NormalizeAttributes(nil)
	require.NotNil(t, attrs)
	assert.Empty(t, attrs)
}

func TestNormalizeAttributes_StringMap(t *testing.T) {
	attrs := NormalizeAttributes(map[string]string{"Color": "Red", "Size": "M"})
	assert.Equal(t, Attributes{"Color": "Red", "Size": "M"}, attrs)
}

func TestNormalizeAttributes_InterfaceMap(t *testing.T) {
	attrs := NormalizeAttributes(map[string]interface{}{"Color": "Red", "Pack": 3})
	assert.Equal(t, "Red", attrs["Color"])
	assert.Equal(t, "3", attrs["Pack"])
}

func TestNormalizeAttributes_UnsupportedShape(t *testing.T) {
	attrs := NormalizeAttributes(42)
	require.NotNil(t, attrs)
	assert.Empty(t, attrs)
}

func TestNormalizeAttributes_Idempotent(t *testing.T) {
	first := NormalizeAttributes(map[string]interface{}{"Color": "Blue"})
	second := NormalizeAttributes(first)
	assert.True(t, first.Equal(second))
}

func TestAttributes_Equal_TrimInsensitive(t *testing.T) {
	a := Attributes{"Color": "Red "}
	b := Attributes{"Color": "Red"}
	assert.True(t, a.Equal(b))
	assert.True(t, b.Equal(a))
}

func TestAttributes_Equal_KeySetMismatch(t *testing.T) {
	a := Attributes{"Color": "Red"}
	b := Attributes{"Color": "Red", "Size": "M"}
	assert.False(t, a.Equal(b))
}

func TestAttributes_Key_Deterministic(t *testing.T) {
	a := Attributes{"Size": "M", "Color": "Red "}
	b := Attributes{"Color": "Red", "Size": "M"}
	assert.Equal(t, a.Key(), b.Key())
	assert.Equal(t, "Color=Red;Size=M", a.Key())
	assert.Equal(t, "", Attributes{}.Key())
}

func TestAttributes_ScanValueRoundTrip(t *testing.T) {
	a := Attributes{"Color": "Red"}
	v, err := a.Value()
	require.NoError(t, err)

	var scanned Attributes
	require.NoError(t, scanned.Scan(v))
	assert.True(t, a.Equal(scanned))

	var empty Attributes
	require.NoError(t, empty.Scan(nil))
	assert.Empty(t, empty)
}
