package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUnitCounts_Valid(t *testing.T) {
	uc, err := NewUnitCounts(map[UnitType]int{"A-10C": 3, "Su-25T": 2})
	require.NoError(t, err)

	assert.Equal(t, 2, uc.Len())
	assert.Equal(t, 5, uc.Total())
	assert.Equal(t, 3, uc.Get("A-10C"))
	assert.Equal(t, 0, uc.Get("F-15C"))
	assert.Equal(t, []UnitType{"A-10C", "Su-25T"}, uc.Types())
}

func TestNewUnitCounts_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		counts map[UnitType]int
		want   error
	}{
		{"zero", map[UnitType]int{"A-10C": 0}, ErrNonPositiveCount},
		{"negative", map[UnitType]int{"A-10C": -2}, ErrNonPositiveCount},
		{"empty type", map[UnitType]int{"": 1}, ErrEmptyUnitType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewUnitCounts(tt.counts)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var ce *CountError
			require.True(t, errors.As(err, &ce))
		})
	}
}

func TestParseUnitCounts(t *testing.T) {
	uc, err := ParseUnitCounts(map[string]float64{"T-72B": 4})
	require.NoError(t, err)
	assert.Equal(t, 4, uc.Get("T-72B"))

	_, err = ParseUnitCounts(map[string]float64{"T-72B": 1.5})
	assert.ErrorIs(t, err, ErrNonIntegralCount)

	_, err = ParseUnitCounts(map[string]float64{"T-72B": -1})
	assert.ErrorIs(t, err, ErrNonPositiveCount)
}

func TestUnitCounts_MapIsCopy(t *testing.T) {
	uc := MustUnitCounts(map[UnitType]int{"Gepard": 1})
	m := uc.Map()
	m["Gepard"] = 10

	assert.Equal(t, 1, uc.Get("Gepard"))
}

func TestUnitCounts_ZeroValue(t *testing.T) {
	var uc UnitCounts
	assert.Equal(t, 0, uc.Total())
	assert.Empty(t, uc.Types())
}

func TestTask_Valid(t *testing.T) {
	assert.True(t, CAS.Valid())
	assert.True(t, AirDefence.Valid())
	assert.False(t, Task("Transport").Valid())
}
