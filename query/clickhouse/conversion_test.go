package clickhouse

import (
	"math/big"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"hermannm.dev/wikicharts/query"
)

func TestValueToTerm(t *testing.T) {
	id := uuid.MustParse("0b6f3c8e-58d1-4a1e-9d3b-2f0c1e8a7b64")
	population := uint32(82)
	var missing *float64

	for _, testCase := range []struct {
		name     string
		scanned  any
		expected query.Term
		bound    bool
	}{
		{"string", ptr("France"), query.NewLiteral("France"), true},
		{"int64", ptr(int64(-65)), query.NewTypedLiteral("-65", query.XSDInteger), true},
		{"uint32", &population, query.NewTypedLiteral("82", query.XSDInteger), true},
		{"float64", ptr(65.5), query.NewTypedLiteral("65.5", query.XSDDouble), true},
		{"bool", ptr(true), query.NewTypedLiteral("true", query.XSDBoolean), true},
		{
			"decimal",
			ptr(decimal.RequireFromString("12.50")),
			query.NewTypedLiteral("12.5", query.XSDDecimal),
			true,
		},
		{
			"big int",
			ptr(*big.NewInt(1234567890)),
			query.NewTypedLiteral("1234567890", query.XSDInteger),
			true,
		},
		{
			"timestamp",
			ptr(time.Date(2023, 10, 1, 12, 0, 0, 0, time.UTC)),
			query.NewTypedLiteral("2023-10-01T12:00:00Z", query.XSDDateTime),
			true,
		},
		{"uuid", ptr(id), query.NewURI("urn:uuid:" + id.String()), true},
		{"nullable value", ptr(ptr(3.0)), query.NewTypedLiteral("3", query.XSDDouble), true},
		{"null", &missing, query.Term{}, false},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			term, bound, err := valueToTerm(testCase.scanned)
			require.NoError(t, err)
			assert.Equal(t, testCase.bound, bound)
			assert.Equal(t, testCase.expected, term)
		})
	}
}

func TestValueToTermUnsupported(t *testing.T) {
	_, _, err := valueToTerm(ptr([]int{1, 2}))
	require.ErrorIs(t, err, errUnsupportedValue)
}

func ptr[T any](value T) *T {
	return &value
}
