package query_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"hermannm.dev/wikicharts/query"
)

func TestTermFloat64(t *testing.T) {
	for _, testCase := range []struct {
		name     string
		term     query.Term
		expected float64
	}{
		{"integer", query.NewTypedLiteral("82", query.XSDInteger), 82},
		{"decimal", query.NewTypedLiteral("65.25", query.XSDDecimal), 65.25},
		{"double with exponent", query.NewTypedLiteral("1.5E3", query.XSDDouble), 1500},
		{"untyped literal", query.NewLiteral(" 42 "), 42},
		{"language literal", query.NewLangLiteral("7", "en"), 7},
		{"negative long", query.NewTypedLiteral("-12", query.XSDLong), -12},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			value, err := testCase.term.Float64()
			require.NoError(t, err)
			assert.Equal(t, testCase.expected, value)
		})
	}
}

func TestTermFloat64NotNumeric(t *testing.T) {
	for _, testCase := range []struct {
		name string
		term query.Term
	}{
		{"uri", query.NewURI("http://example.org/France")},
		{"blank node", query.NewBlankNode("b0")},
		{"text literal", query.NewLiteral("France")},
		{"empty literal", query.NewLiteral("")},
		{"boolean", query.NewTypedLiteral("true", query.XSDBoolean)},
		{"malformed integer", query.NewTypedLiteral("12a", query.XSDInteger)},
		{"zero term", query.Term{}},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := testCase.term.Float64()
			require.Error(t, err)
			assert.True(t, errors.Is(err, query.ErrNotNumeric))
		})
	}
}

func TestTermString(t *testing.T) {
	assert.Equal(t, "http://example.org/a", query.NewURI("http://example.org/a").String())
	assert.Equal(t, "France", query.NewLangLiteral("France", "en").String())
	assert.Equal(t, "_:b0", query.NewBlankNode("b0").String())
}

func TestTableRows(t *testing.T) {
	rows := query.NewTableRows([]query.Row{
		{"country": query.NewLiteral("France")},
		{"country": query.NewLiteral("Germany")},
	})

	var countries []string
	for rows.Next() {
		term, bound := rows.Row().Get("country")
		require.True(t, bound)
		countries = append(countries, term.Value)
	}
	require.NoError(t, rows.Err())
	require.NoError(t, rows.Close())

	assert.Equal(t, []string{"France", "Germany"}, countries)
	assert.False(t, rows.Next(), "closed cursor must not advance")
}
