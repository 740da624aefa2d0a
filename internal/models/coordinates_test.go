package models_test

import (
	"testing"

	"github.com/Houeta/transitlink/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsCoords(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"55.76,37.60", true},
		{"55.7609149,37.6031833", true},
		{" 55.76 , 37.60 ", true},
		{"-12.5,+130.9", true},
		{"55,37", true},
		{"Тверской бульвар, 20с4", false},
		{"55.76", false},
		{"55.76,", false},
		{"55.76,37.60,12", false},
		{"", false},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, models.IsCoords(tc.text), "IsCoords(%q)", tc.text)
	}
}

func TestParseCoords(t *testing.T) {
	t.Run("valid pair", func(t *testing.T) {
		coords := models.ParseCoords("55.7609149,37.6031833")

		require.NotNil(t, coords)
		assert.InEpsilon(t, 55.7609149, coords.Latitude, 0.0000001)
		assert.InEpsilon(t, 37.6031833, coords.Longitude, 0.0000001)
	})

	t.Run("whitespace tolerated", func(t *testing.T) {
		coords := models.ParseCoords(" 55.76 , 37.60 ")

		require.NotNil(t, coords)
		assert.InEpsilon(t, 55.76, coords.Latitude, 0.0001)
	})

	t.Run("free text is not coordinates", func(t *testing.T) {
		assert.Nil(t, models.ParseCoords("Тверской бульвар, 20с4"))
	})
}

func TestCoordinates_String(t *testing.T) {
	coords := models.Coordinates{Latitude: 55.7609149, Longitude: 37.6031833}
	assert.Equal(t, "55.7609149,37.6031833", coords.String())

	short := models.Coordinates{Latitude: 55.76, Longitude: 37.6}
	assert.Equal(t, "55.76,37.6", short.String())
}
