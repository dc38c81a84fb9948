package main

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kapu/wedding-invitation-go/internal/domain"
)

func TestWriteGuestsQuotesFields(t *testing.T) {
	var buf bytes.Buffer
	err := writeGuests(csv.NewWriter(&buf), []domain.Guest{
		{Name: "Budi, Jr.", Category: "Family", Link: "https://rina-dimas.id/?to=Budi%2C_Jr."},
	})
	require.NoError(t, err)

	assert.Equal(t, "name,category,link\n\"Budi, Jr.\",Family,https://rina-dimas.id/?to=Budi%2C_Jr.\n", buf.String())
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	err := writeSummary(csv.NewWriter(&buf), []domain.GuestCategory{
		{Name: "Family", Count: 2},
		{Name: "Friends", Count: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, "category,count\nFamily,2\nFriends,1\n", buf.String())
}
