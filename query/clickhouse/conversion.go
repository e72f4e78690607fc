package clickhouse

import (
	"errors"
	"fmt"
	"math/big"
	"net"
	"reflect"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"hermannm.dev/wikicharts/query"
)

var errUnsupportedValue = errors.New("unsupported ClickHouse value type")

// Converts a scanned column value to a term. NULL values (nil pointers) are reported as unbound.
func valueToTerm(scanned any) (term query.Term, bound bool, err error) {
	value := reflect.ValueOf(scanned)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return query.Term{}, false, nil
		}
		value = value.Elem()
	}

	switch converted := value.Interface().(type) {
	case string:
		return query.NewLiteral(converted), true, nil
	case bool:
		return query.NewTypedLiteral(strconv.FormatBool(converted), query.XSDBoolean), true, nil
	case time.Time:
		return query.NewTypedLiteral(
			converted.UTC().Format(time.RFC3339Nano),
			query.XSDDateTime,
		), true, nil
	case uuid.UUID:
		return query.NewURI("urn:uuid:" + converted.String()), true, nil
	case decimal.Decimal:
		return query.NewTypedLiteral(converted.String(), query.XSDDecimal), true, nil
	case big.Int:
		return query.NewTypedLiteral(converted.String(), query.XSDInteger), true, nil
	case net.IP:
		return query.NewLiteral(converted.String()), true, nil
	}

	switch value.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return query.NewTypedLiteral(
			strconv.FormatInt(value.Int(), 10),
			query.XSDInteger,
		), true, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return query.NewTypedLiteral(
			strconv.FormatUint(value.Uint(), 10),
			query.XSDInteger,
		), true, nil
	case reflect.Float32, reflect.Float64:
		return query.NewTypedLiteral(
			strconv.FormatFloat(value.Float(), 'g', -1, 64),
			query.XSDDouble,
		), true, nil
	case reflect.String:
		// Enum and LowCardinality columns scan into named string types.
		return query.NewLiteral(value.String()), true, nil
	}

	return query.Term{}, false, fmt.Errorf("%w %T", errUnsupportedValue, value.Interface())
}
