package query

const xsdNamespace = "http://www.w3.org/2001/XMLSchema#"

const (
	XSDString   = xsdNamespace + "string"
	XSDBoolean  = xsdNamespace + "boolean"
	XSDDecimal  = xsdNamespace + "decimal"
	XSDInteger  = xsdNamespace + "integer"
	XSDLong     = xsdNamespace + "long"
	XSDInt      = xsdNamespace + "int"
	XSDShort    = xsdNamespace + "short"
	XSDByte     = xsdNamespace + "byte"
	XSDDouble   = xsdNamespace + "double"
	XSDFloat    = xsdNamespace + "float"
	XSDDateTime = xsdNamespace + "dateTime"
	XSDDate     = xsdNamespace + "date"

	RDFLangString = "http://www.w3.org/1999/02/22-rdf-syntax-ns#langString"
	RDFSLabel     = "http://www.w3.org/2000/01/rdf-schema#label"
)

var decimalDatatypes = map[string]struct{}{
	XSDDecimal:                          {},
	XSDInteger:                          {},
	XSDLong:                             {},
	XSDInt:                              {},
	XSDShort:                            {},
	XSDByte:                             {},
	xsdNamespace + "nonNegativeInteger": {},
	xsdNamespace + "nonPositiveInteger": {},
	xsdNamespace + "positiveInteger":    {},
	xsdNamespace + "negativeInteger":    {},
	xsdNamespace + "unsignedLong":       {},
	xsdNamespace + "unsignedInt":        {},
	xsdNamespace + "unsignedShort":      {},
	xsdNamespace + "unsignedByte":       {},
}

// Reports whether literals of the datatype have a decimal lexical form.
func IsDecimalDatatype(datatype string) bool {
	_, ok := decimalDatatypes[datatype]
	return ok
}
