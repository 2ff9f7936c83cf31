package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/inkbook/internal/booking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.NotEmpty(t, c.Studio)
	assert.NotEmpty(t, c.Artists)
	assert.Equal(t, 30, c.BookingWindowDays)

	a, ok := c.Artist("groc")
	require.True(t, ok)
	assert.Equal(t, "Groc", a.Name)

	slot, ok := c.Slot("11:30")
	require.True(t, ok)
	assert.False(t, slot.Available)
}

func TestParse_DerivesArtistIDs(t *testing.T) {
	data := []byte(`
artists:
  - name: Jo Marsh
placements: [{id: arm, label: Arm}]
sizes: [{id: small, label: Small}]
budgets: [{id: low, label: Low}]
time_slots: [{time: "09:00", available: true}]
`)
	c, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, "jo-marsh", c.Artists[0].ID)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"no artists", `placements: [{id: arm, label: Arm}]`},
		{"duplicate artist", `
artists: [{id: a, name: A}, {id: a, name: B}]
placements: [{id: arm, label: Arm}]
sizes: [{id: s, label: S}]
budgets: [{id: b, label: B}]
time_slots: [{time: "09:00", available: true}]`},
		{"missing placements", `
artists: [{id: a, name: A}]
sizes: [{id: s, label: S}]
budgets: [{id: b, label: B}]
time_slots: [{time: "09:00", available: true}]`},
		{"bad slot time", `
artists: [{id: a, name: A}]
placements: [{id: arm, label: Arm}]
sizes: [{id: s, label: S}]
budgets: [{id: b, label: B}]
time_slots: [{time: "9am", available: true}]`},
		{"duplicate slot", `
artists: [{id: a, name: A}]
placements: [{id: arm, label: Arm}]
sizes: [{id: s, label: S}]
budgets: [{id: b, label: B}]
time_slots: [{time: "09:00", available: true}, {time: "09:00", available: false}]`},
		{"not yaml", `artists: [`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("empty path uses default", func(t *testing.T) {
		c, err := Load("")
		require.NoError(t, err)
		assert.NotEmpty(t, c.Placements)
	})

	t.Run("reads file", func(t *testing.T) {
		def, err := Default()
		require.NoError(t, err)
		def.Studio = "Test Studio"
		data, err := def.Marshal()
		require.NoError(t, err)

		path := filepath.Join(t.TempDir(), "catalog.yml")
		require.NoError(t, os.WriteFile(path, data, 0644))

		c, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "Test Studio", c.Studio)
		assert.Equal(t, len(def.TimeSlots), len(c.TimeSlots))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
		assert.Error(t, err)
	})
}

func TestOptionsAndLabels(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	artists := c.Options(booking.FieldArtist)
	require.Len(t, artists, len(c.Artists))
	assert.Equal(t, "Groc", artists[0].Label)

	slots := c.Options(booking.FieldTime)
	require.Len(t, slots, len(c.TimeSlots))
	assert.Equal(t, "booked", slots[1].Detail)

	assert.Nil(t, c.Options(booking.FieldName))

	assert.Equal(t, "Arm", c.Label(booking.FieldPlacement, "arm"))
	assert.Equal(t, "mystery", c.Label(booking.FieldPlacement, "mystery"))

	_, ok := c.Lookup(booking.FieldSize, "xl")
	assert.True(t, ok)
	_, ok = c.Lookup(booking.FieldSize, "xxl")
	assert.False(t, ok)
}
