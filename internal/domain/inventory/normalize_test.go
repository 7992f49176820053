package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeUnit(t *testing.T) {
	cases := map[string]string{
		"":        "each",
		" EA ":    "each",
		"Pieces":  "each",
		"Crates":  "crate",
		"bunches": "bunch",
		"Kg":      "kg",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeUnit(in), in)
	}
}

func TestCleanHeader_QuitaBOM(t *testing.T) {
	assert.Equal(t, "location", CleanHeader("\ufeff Location "))
	assert.Equal(t, "qty", CleanHeader("QTY"))
}

func TestCanonicalBinCode(t *testing.T) {
	assert.Equal(t, "A-01", CanonicalBinCode("  a-01 "))
	assert.Equal(t, FoldName("Main Warehouse"), FoldName(" main WAREHOUSE"))
}
