package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// FormValue is a form field that accepts either a JSON string or a JSON number.
type FormValue string

func (v *FormValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*v = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = FormValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*v = FormValue(n.String())
	return nil
}

// ProductForm is the raw product editor submission.
type ProductForm struct {
	Name          string    `json:"name" validate:"required"`
	Price         FormValue `json:"price" validate:"required,money"`
	StockQuantity FormValue `json:"stock_quantity" validate:"required,number"`
	Category      string    `json:"category"`
	Brand         string    `json:"brand"`
	ImageURL      string    `json:"image_url" validate:"omitempty,url"`
	Description   string    `json:"description"`
	IsActive      *bool     `json:"is_active"`
}

// ProductInput is a validated submission with numeric fields parsed.
type ProductInput struct {
	Name          string
	Price         float64
	StockQuantity int
	Category      *string
	Brand         *string
	ImageURL      *string
	Description   *string
	IsActive      bool
}

// Errors maps a form field to its message.
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return strings.Join(parts, "; ")
}

var messages = map[string]string{
	"name.required":           "Product name is required",
	"price.required":          "Price is required",
	"price.money":             "Price must be a non-negative number",
	"stock_quantity.required": "Stock quantity is required",
	"stock_quantity.number":   "Stock quantity must be a whole number",
	"image_url.url":           "Invalid url",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("money", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(strings.TrimSpace(fl.Field().String()))
		return err == nil && !d.IsNegative()
	})
	return v
}

// ValidateProduct checks a submission and converts it for persistence.
// Errors is nil on success.
func ValidateProduct(form ProductForm) (ProductInput, Errors) {
	form.Name = strings.TrimSpace(form.Name)
	form.Price = FormValue(strings.TrimSpace(string(form.Price)))
	form.StockQuantity = FormValue(strings.TrimSpace(string(form.StockQuantity)))
	form.ImageURL = strings.TrimSpace(form.ImageURL)

	if err := validate.Struct(form); err != nil {
		return ProductInput{}, toErrors(err)
	}

	price, _ := decimal.NewFromString(string(form.Price))
	stock, err := strconv.Atoi(string(form.StockQuantity))
	if err != nil {
		return ProductInput{}, Errors{"stock_quantity": messages["stock_quantity.number"]}
	}

	in := ProductInput{
		Name:          form.Name,
		Price:         price.InexactFloat64(),
		StockQuantity: stock,
		Category:      optional(form.Category),
		Brand:         optional(form.Brand),
		ImageURL:      optional(form.ImageURL),
		Description:   optional(form.Description),
		IsActive:      true,
	}
	if form.IsActive != nil {
		in.IsActive = *form.IsActive
	}
	return in, nil
}

func toErrors(err error) Errors {
	var ve validator.ValidationErrors
	out := Errors{}
	if !errors.As(err, &ve) {
		out["form"] = err.Error()
		return out
	}
	for _, fe := range ve {
		field := fe.Field()
		if _, seen := out[field]; seen {
			continue
		}
		msg, ok := messages[field+"."+fe.Tag()]
		if !ok {
			msg = "Invalid value"
		}
		out[field] = msg
	}
	return out
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
