package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cambroos/rentals-backend/internal/cart"
)

const sampleRequest = `
form:
  firstName: Jane
  lastName: Tan
  email: jane@example.com
  phone: "+65 9123 4567"
  startDate: "2026-11-01"
  endDate: "2026-11-05"
  country: central
items:
  - id: cam-1
    name: RED Komodo
    category: cameras
    brand: RED
    quantity: 2
  - id: lens-1
    name: Cooke S4
    brand: Cooke
  - id: cam-1
    name: RED Komodo
    brand: RED
    quantity: 1
`

func TestDecodeRequestFillsCart(t *testing.T) {
	req, err := decodeRequest(strings.NewReader(sampleRequest))
	require.NoError(t, err)
	assert.Equal(t, "Jane", req.Form.FirstName)
	assert.Equal(t, "central", req.Form.Country)

	store := cart.NewStore()
	notices, err := req.fill(store)
	require.NoError(t, err)

	require.Len(t, notices, 3)
	assert.Equal(t, cart.NoticeAdded, notices[0].Kind)
	assert.Equal(t, cart.NoticeUpdated, notices[2].Kind)

	items := store.Items()
	require.Len(t, items, 2)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, 1, items[1].Quantity)
	assert.Equal(t, 4, store.TotalItems())
}

func TestDecodeRequestRejectsUnknownKeys(t *testing.T) {
	_, err := decodeRequest(strings.NewReader("form:\n  nickname: JT\n"))
	require.Error(t, err)
}

func TestDecodeRequestEmpty(t *testing.T) {
	_, err := decodeRequest(strings.NewReader(""))
	require.EqualError(t, err, "request file is empty")
}

func TestFillStopsOnInvalidLine(t *testing.T) {
	req, err := decodeRequest(strings.NewReader("items:\n  - name: Missing id\n    quantity: 1\n"))
	require.NoError(t, err)

	_, err = req.fill(cart.NewStore())
	require.ErrorIs(t, err, cart.ErrInvalidItem)
}
