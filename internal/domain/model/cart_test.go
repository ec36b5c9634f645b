package model_test

import (
	"testing"

	"catalogcart/internal/domain/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeContents_Valid(t *testing.T) {
	cases := map[string][]int64{
		"[]":               {},
		"[1,2]":            {1, 2},
		"  [ 3 , 1 , 2 ] ": {3, 1, 2},
		"[2,2,2]":          {2, 2, 2},
		"[-4]":             {-4},
	}
	for in, want := range cases {
		got, err := model.DecodeContents([]byte(in))
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestDecodeContents_RejectsNonListPayloads(t *testing.T) {
	payloads := []string{
		"",
		"   ",
		"__import__('os')",
		"__import__('os').system('rm -rf /')",
		"null",
		"1",
		`"[1,2]"`,
		`{"ids":[1]}`,
		"[1,2",
		"[1,2]]",
		"[1,2] [3]",
		"[1,2];",
		"[1.5]",
		"[1e3]",
		`["1"]`,
		"[null]",
		"[true]",
		"[[1]]",
		"[99999999999999999999]",
		"(1, 2)",
		"[1, 2,]",
	}
	for _, in := range payloads {
		_, err := model.DecodeContents([]byte(in))
		assert.ErrorIs(t, err, model.ErrValidation, "payload %q", in)
	}
}

func TestEncodeContents(t *testing.T) {
	assert.Equal(t, "[]", model.EncodeContents(nil))
	assert.Equal(t, "[1,2,3]", model.EncodeContents([]int64{1, 2, 3}))

	ids, err := model.DecodeContents([]byte(model.EncodeContents([]int64{5, 4})))
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 4}, ids)
}

func TestDecodeCartRecord_Success(t *testing.T) {
	stored, err := model.DecodeCartRecord(model.Record{
		"id":       1,
		"username": "u",
		"cost":     10,
		"contents": "[1,2]",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), stored.ID)
	assert.Equal(t, "u", stored.Username)
	assert.True(t, decimal.NewFromInt(10).Equal(stored.Cost))
	assert.Equal(t, []int64{1, 2}, stored.ProductIDs)
}

func TestDecodeCartRecord_MissingField(t *testing.T) {
	for _, field := range []string{"id", "username", "cost", "contents"} {
		rec := model.Record{"id": 1, "username": "u", "cost": 10, "contents": "[]"}
		delete(rec, field)

		_, err := model.DecodeCartRecord(rec)
		assert.ErrorIs(t, err, model.ErrMissingField, field)
	}
}

func TestDecodeCartRecord_ContentsMustBeText(t *testing.T) {
	_, err := model.DecodeCartRecord(model.Record{
		"id": 1, "username": "u", "cost": 10, "contents": []int64{1, 2},
	})
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestDecodeCartRecord_MaliciousContents(t *testing.T) {
	_, err := model.DecodeCartRecord(model.Record{
		"id": 1, "username": "u", "cost": 10, "contents": "__import__('os')",
	})
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestStoredCart_Record(t *testing.T) {
	s := model.StoredCart{ID: 3, Username: "u", Cost: decimal.NewFromInt(7), ProductIDs: []int64{2, 1}}

	again, err := model.DecodeCartRecord(s.Record())
	require.NoError(t, err)
	assert.Equal(t, s.ID, again.ID)
	assert.Equal(t, s.ProductIDs, again.ProductIDs)
	assert.True(t, s.Cost.Equal(again.Cost))
}
