package model

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"

	"github.com/shopspring/decimal"
)

// Cart record keys (id and cost are shared with products).
const (
	FieldUsername = "username"
	FieldContents = "contents"
)

// Cart is a read-side view: contents are resolved products in stored order.
// Cost is carried from the record and never derived from contents.
type Cart struct {
	ID       int64           `json:"id"`
	Username string          `json:"username"`
	Contents []Product       `json:"contents"`
	Cost     decimal.Decimal `json:"cost"`
}

// StoredCart is a cart record with its product-id sequence decoded but not resolved.
type StoredCart struct {
	ID         int64
	Username   string
	Cost       decimal.Decimal
	ProductIDs []int64
}

// DecodeCartRecord reads id, username, cost and contents from rec.
func DecodeCartRecord(rec Record) (StoredCart, error) {
	id, err := rec.Int64(FieldID)
	if err != nil {
		return StoredCart{}, err
	}
	username, err := rec.String(FieldUsername)
	if err != nil {
		return StoredCart{}, err
	}
	cost, err := rec.Decimal(FieldCost)
	if err != nil {
		return StoredCart{}, err
	}
	raw, err := rec.lookup(FieldContents)
	if err != nil {
		return StoredCart{}, err
	}

	var text []byte
	switch t := raw.(type) {
	case string:
		text = []byte(t)
	case []byte:
		text = t
	case json.RawMessage:
		text = t
	default:
		return StoredCart{}, NewValidationError(FieldContents, "must be an encoded id sequence")
	}

	ids, err := DecodeContents(text)
	if err != nil {
		return StoredCart{}, err
	}
	return StoredCart{ID: id, Username: username, Cost: cost, ProductIDs: ids}, nil
}

func (s StoredCart) Record() Record {
	return Record{
		FieldID:       s.ID,
		FieldUsername: s.Username,
		FieldCost:     s.Cost,
		FieldContents: EncodeContents(s.ProductIDs),
	}
}

// DecodeContents parses an encoded id sequence. Only a JSON array of
// integer literals is accepted; anything else is a ValidationError.
func DecodeContents(text []byte) ([]int64, error) {
	trimmed := bytes.TrimSpace(text)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, NewValidationError(FieldContents, "must be a list of integer ids")
	}

	var elems []json.RawMessage
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	if err := dec.Decode(&elems); err != nil {
		return nil, NewValidationError(FieldContents, "malformed id list")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, NewValidationError(FieldContents, "trailing data after id list")
	}

	ids := make([]int64, 0, len(elems))
	for _, e := range elems {
		// strconv rejects null, strings, floats and exponents
		id, err := strconv.ParseInt(string(bytes.TrimSpace(e)), 10, 64)
		if err != nil {
			return nil, NewValidationError(FieldContents, "ids must be integers")
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// EncodeContents is the inverse of DecodeContents.
func EncodeContents(ids []int64) string {
	if len(ids) == 0 {
		return "[]"
	}
	b, _ := json.Marshal(ids)
	return string(b)
}
