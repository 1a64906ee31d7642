package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// DecodeBody reads one JSON object. Numbers come back as int64 when they are
// integral and fit, float64 otherwise, so large integers survive the round trip.
// Nested objects and arrays get the same treatment.
func DecodeBody(r io.Reader) (map[string]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var body map[string]any
	if err := dec.Decode(&body); err != nil {
		return nil, err
	}
	if body == nil {
		return nil, errors.New("request body must be a JSON object")
	}

	v, err := normalize(body)
	if err != nil {
		return nil, err
	}
	return v.(map[string]any), nil
}

func normalize(v any) (any, error) {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i, nil
		}
		f, err := val.Float64()
		if err != nil {
			return nil, fmt.Errorf("number %s out of range: %w", val, err)
		}
		return f, nil
	case map[string]any:
		for k, elem := range val {
			n, err := normalize(elem)
			if err != nil {
				return nil, err
			}
			val[k] = n
		}
		return val, nil
	case []any:
		for i, elem := range val {
			n, err := normalize(elem)
			if err != nil {
				return nil, err
			}
			val[i] = n
		}
		return val, nil
	default:
		return v, nil
	}
}
