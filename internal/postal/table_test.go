package postal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticGazetteer_LookupCode(t *testing.T) {
	g := NewStaticGazetteer()

	place, ok, err := g.LookupCode(context.Background(), "88339")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Place{Code: "88339", City: "Bad Waldsee"}, place)

	_, ok, err = g.LookupCode(context.Background(), "12345")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStaticGazetteer_CodesForCity(t *testing.T) {
	g := NewStaticGazetteer()

	codes, err := g.CodesForCity(context.Background(), "köln")
	require.NoError(t, err)
	require.Len(t, codes, 10)
	assert.Equal(t, "50667", codes[0])

	codes, err = g.CodesForCity(context.Background(), "ulm")
	require.NoError(t, err)
	assert.Nil(t, codes)
}

func TestTablesAreCopies(t *testing.T) {
	CodeTable()["10115"] = "Nowhere"
	CityCodeTable()["berlin"][0] = "00000"

	g := NewStaticGazetteer()
	place, _, _ := g.LookupCode(context.Background(), "10115")
	assert.Equal(t, "Berlin", place.City)

	codes, _ := g.CodesForCity(context.Background(), "berlin")
	assert.Equal(t, "10115", codes[0])
}
