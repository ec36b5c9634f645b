package model

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Record is a raw key/value row as exchanged with a store, before loading.
// A key holding nil is treated as absent.
type Record map[string]any

func (r Record) Has(key string) bool {
	v, ok := r[key]
	return ok && v != nil
}

func (r Record) lookup(key string) (any, error) {
	if !r.Has(key) {
		return nil, &MissingFieldError{Field: key}
	}
	return r[key], nil
}

func (r Record) Int64(key string) (int64, error) {
	v, err := r.lookup(key)
	if err != nil {
		return 0, err
	}
	return toInt64(key, v)
}

func (r Record) String(key string) (string, error) {
	v, err := r.lookup(key)
	if err != nil {
		return "", err
	}
	switch t := v.(type) {
	case string:
		return t, nil
	case []byte:
		return string(t), nil
	default:
		return "", NewValidationError(key, "must be text")
	}
}

func (r Record) Decimal(key string) (decimal.Decimal, error) {
	v, err := r.lookup(key)
	if err != nil {
		return decimal.Zero, err
	}
	return toDecimal(key, v)
}

func toInt64(key string, v any) (int64, error) {
	switch t := v.(type) {
	case int:
		return int64(t), nil
	case int8:
		return int64(t), nil
	case int16:
		return int64(t), nil
	case int32:
		return int64(t), nil
	case int64:
		return t, nil
	case uint8:
		return int64(t), nil
	case uint16:
		return int64(t), nil
	case uint32:
		return int64(t), nil
	case uint:
		if uint64(t) > math.MaxInt64 {
			return 0, NewValidationError(key, "out of range")
		}
		return int64(t), nil
	case uint64:
		if t > math.MaxInt64 {
			return 0, NewValidationError(key, "out of range")
		}
		return int64(t), nil
	case float32:
		return floatToInt64(key, float64(t))
	case float64:
		return floatToInt64(key, t)
	case json.Number:
		return parseInt64(key, t.String())
	case string:
		return parseInt64(key, t)
	case decimal.Decimal:
		if !t.IsInteger() {
			return 0, NewValidationError(key, "must be an integer")
		}
		return parseInt64(key, t.String())
	default:
		return 0, NewValidationError(key, "must be an integer")
	}
}

func floatToInt64(key string, f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, NewValidationError(key, "must be an integer")
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, NewValidationError(key, "out of range")
	}
	return int64(f), nil
}

func parseInt64(key, s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, NewValidationError(key, "must be an integer")
	}
	return n, nil
}

func toDecimal(key string, v any) (decimal.Decimal, error) {
	switch t := v.(type) {
	case decimal.Decimal:
		return t, nil
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return decimal.Zero, NewValidationError(key, "must be a number")
		}
		return decimal.NewFromFloat(t), nil
	case float32:
		return toDecimal(key, float64(t))
	case json.Number:
		return parseDecimal(key, t.String())
	case string:
		return parseDecimal(key, t)
	case []byte:
		return parseDecimal(key, string(t))
	default:
		n, err := toInt64(key, v)
		if err != nil {
			return decimal.Zero, NewValidationError(key, "must be a number")
		}
		return decimal.NewFromInt(n), nil
	}
}

func parseDecimal(key, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, NewValidationError(key, "must be a number")
	}
	return d, nil
}
