package sparql

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"hermannm.dev/wikicharts/query"
	"hermannm.dev/wrap"
)

// Streams rows from a SPARQL 1.1 JSON results document, decoding one binding per call to Next.
type resultRows struct {
	body    io.ReadCloser
	decoder *json.Decoder
	current query.Row
	done    bool
	err     error
}

func newResultRows(body io.ReadCloser) (*resultRows, error) {
	decoder := json.NewDecoder(body)
	if err := seekBindings(decoder); err != nil {
		return nil, err
	}
	return &resultRows{body: body, decoder: decoder}, nil
}

// Advances the decoder to just inside the results.bindings array.
func seekBindings(decoder *json.Decoder) error {
	if err := expectDelim(decoder, '{'); err != nil {
		return wrap.Error(err, "invalid results document")
	}

	for decoder.More() {
		key, err := readKey(decoder)
		if err != nil {
			return err
		}
		if key != "results" {
			if err := skipValue(decoder); err != nil {
				return wrap.Errorf(err, "failed to skip '%s' in results document", key)
			}
			continue
		}

		if err := expectDelim(decoder, '{'); err != nil {
			return wrap.Error(err, "invalid 'results' object")
		}
		for decoder.More() {
			key, err := readKey(decoder)
			if err != nil {
				return err
			}
			if key == "bindings" {
				return expectDelim(decoder, '[')
			}
			if err := skipValue(decoder); err != nil {
				return wrap.Errorf(err, "failed to skip 'results.%s'", key)
			}
		}
		return errors.New("'results' object has no 'bindings'")
	}

	return errors.New("results document has no 'results' object")
}

func expectDelim(decoder *json.Decoder, expected json.Delim) error {
	token, err := decoder.Token()
	if err != nil {
		return err
	}
	if delim, ok := token.(json.Delim); !ok || delim != expected {
		return fmt.Errorf("expected '%v', got '%v'", expected, token)
	}
	return nil
}

func readKey(decoder *json.Decoder) (string, error) {
	token, err := decoder.Token()
	if err != nil {
		return "", wrap.Error(err, "failed to read object key")
	}
	key, ok := token.(string)
	if !ok {
		return "", fmt.Errorf("expected object key, got '%v'", token)
	}
	return key, nil
}

func skipValue(decoder *json.Decoder) error {
	var skipped json.RawMessage
	return decoder.Decode(&skipped)
}

type bindingValue struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Datatype string `json:"datatype"`
	Language string `json:"xml:lang"`
}

func (rows *resultRows) Next() bool {
	if rows.done || rows.err != nil {
		return false
	}

	if !rows.decoder.More() {
		rows.done = true
		rows.current = nil
		return false
	}

	var binding map[string]bindingValue
	if err := rows.decoder.Decode(&binding); err != nil {
		rows.err = wrap.Error(err, "failed to decode SPARQL result binding")
		return false
	}

	row := make(query.Row, len(binding))
	for name, value := range binding {
		term, err := value.toTerm()
		if err != nil {
			rows.err = wrap.Errorf(err, "invalid value for binding '%s'", name)
			return false
		}
		row[name] = term
	}

	rows.current = row
	return true
}

func (value bindingValue) toTerm() (query.Term, error) {
	switch value.Type {
	case "uri":
		return query.NewURI(value.Value), nil
	case "bnode":
		return query.NewBlankNode(value.Value), nil
	case "literal", "typed-literal":
		return query.Term{
			Kind:     query.TermLiteral,
			Value:    value.Value,
			Datatype: value.Datatype,
			Language: value.Language,
		}, nil
	default:
		return query.Term{}, fmt.Errorf("unrecognized term type '%s'", value.Type)
	}
}

func (rows *resultRows) Row() query.Row {
	return rows.current
}

func (rows *resultRows) Err() error {
	return rows.err
}

func (rows *resultRows) Close() error {
	rows.done = true
	return rows.body.Close()
}
