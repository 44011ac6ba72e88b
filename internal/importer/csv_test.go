package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProducts(t *testing.T) {
	in := strings.Join([]string{
		"name,category,price,cost",
		"Widget,tools,4.50,1.20",
		`"Deluxe, Large Widget",tools,9.99,3.00`,
		"Gadget,toys,2.00,0.50",
	}, "\n")

	res, err := ParseProducts(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, res.Rows, 3)
	assert.Empty(t, res.Errors)

	assert.Equal(t, Row{Name: "Widget", Category: "tools", Price: 4.50, Cost: 1.20}, res.Rows[0])
	assert.Equal(t, "Deluxe, Large Widget", res.Rows[1].Name, "quoted comma survives")
}

func TestParseProductsCollectsBadRows(t *testing.T) {
	in := strings.Join([]string{
		"name,category,price,cost",
		"Good,tools,1.00,0.50",
		",tools,1.00,0.50",
		"BadPrice,tools,abc,0.50",
		"Negative,tools,-1.00,0.50",
		"AlsoGood,toys,2.00,1.00",
	}, "\n")

	res, err := ParseProducts(strings.NewReader(in))
	require.NoError(t, err)
	assert.Len(t, res.Rows, 2)
	require.Len(t, res.Errors, 3)

	assert.Equal(t, 3, res.Errors[0].Line)
	assert.Contains(t, res.Errors[0].Error(), "name is required")
	assert.Contains(t, res.Errors[1].Error(), "bad price")
	assert.Contains(t, res.Errors[2].Error(), "non-negative")
}

func TestParseProductsHeader(t *testing.T) {
	_, err := ParseProducts(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrMissingHeader)

	_, err = ParseProducts(strings.NewReader("sku,price\n1,2\n"))
	assert.ErrorIs(t, err, ErrMissingHeader)

	// Header matching is case-insensitive.
	res, err := ParseProducts(strings.NewReader("Name,Category,Price,Cost\nWidget,tools,1,0\n"))
	require.NoError(t, err)
	assert.Len(t, res.Rows, 1)
}
