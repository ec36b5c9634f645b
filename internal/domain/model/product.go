package model

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Product record keys.
const (
	FieldID          = "id"
	FieldName        = "name"
	FieldDescription = "description"
	FieldCost        = "cost"
	FieldQty         = "qty"
)

type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	Cost        decimal.Decimal `json:"cost"`
	Qty         int64           `json:"qty" validate:"gte=0"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// LoadProduct builds a Product from a raw record. qty defaults to 0.
func LoadProduct(rec Record) (Product, error) {
	id, err := rec.Int64(FieldID)
	if err != nil {
		return Product{}, err
	}
	name, err := rec.String(FieldName)
	if err != nil {
		return Product{}, err
	}
	desc, err := rec.String(FieldDescription)
	if err != nil {
		return Product{}, err
	}
	cost, err := rec.Decimal(FieldCost)
	if err != nil {
		return Product{}, err
	}

	var qty int64
	if rec.Has(FieldQty) {
		if qty, err = rec.Int64(FieldQty); err != nil {
			return Product{}, err
		}
	}

	p := Product{
		ID:          id,
		Name:        name,
		Description: desc,
		Cost:        cost,
		Qty:         qty,
	}
	if err := ValidateStruct(p); err != nil {
		return Product{}, err
	}
	return p, nil
}

// Record converts p back to its stored shape.
func (p Product) Record() Record {
	return Record{
		FieldID:          p.ID,
		FieldName:        p.Name,
		FieldDescription: p.Description,
		FieldCost:        p.Cost,
		FieldQty:         p.Qty,
	}
}

// ValidateQty enforces the non-negative quantity invariant.
func ValidateQty(qty int64) error {
	if qty < 0 {
		return NewValidationError(FieldQty, "must be >= 0")
	}
	return nil
}

// ValidateStruct runs tag validation and reports the first failing field.
func ValidateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		fe := ves[0]
		return NewValidationError(fe.Field(), describeTag(fe))
	}
	return NewValidationError("", err.Error())
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "gte":
		return "must be >= " + fe.Param()
	case "gt":
		return "must be > " + fe.Param()
	default:
		return "failed " + fe.Tag()
	}
}
