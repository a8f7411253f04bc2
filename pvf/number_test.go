package pvf_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/pvf-engine/pvf"
)

func TestNumber_NonFiniteAsNull(t *testing.T) {
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		b, err := json.Marshal(pvf.Number(f))
		require.NoError(t, err)
		assert.Equal(t, "null", string(b))
	}

	b, err := json.Marshal(pvf.Number(12.5))
	require.NoError(t, err)
	assert.Equal(t, "12.5", string(b))
}

func TestNumber_NullReadsAsNaN(t *testing.T) {
	var n pvf.Number
	require.NoError(t, json.Unmarshal([]byte("null"), &n))
	assert.True(t, math.IsNaN(n.Float()))

	require.NoError(t, json.Unmarshal([]byte("42"), &n))
	assert.Equal(t, 42.0, n.Float())
}

func TestEmployeeRecord_FeedKeys(t *testing.T) {
	// GIVEN: A feed row with a null pvfrate
	raw := `{"employeeid":11,"firstname":"Anong","lastname":"Suksan","birthdate":"2/3/1985",
		"startdate":"1/1/2015","employeetype":"Permanent","salary":30000,"pvfrate":null}`

	var rec pvf.EmployeeRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &rec))

	assert.Equal(t, int64(11), rec.EmployeeID)
	assert.Equal(t, "Permanent", rec.EmployeeType)
	assert.Nil(t, rec.PvfRate)
	assert.Zero(t, rec.RatePercent())
}
