package repl

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/soypete/employee-tracker/pkg/apperror"
	"github.com/soypete/employee-tracker/pkg/config"
)

// maxNameLength matches the VARCHAR(30) columns.
const maxNameLength = 30

// PostgreSQL NUMERIC limits: digits before and after the decimal point.
const (
	maxSalaryIntegerDigits  = 131072
	maxSalaryFractionDigits = 16383
)

// fieldParser turns prompt answers into statement arguments. In permissive
// mode answers pass through untouched and PostgreSQL does the coercion.
type fieldParser struct {
	mode config.ValidationMode
}

func (p fieldParser) strict() bool {
	return p.mode != config.ValidationPermissive
}

// name checks a required text field such as a department name or last name.
func (p fieldParser) name(field, value string) (string, error) {
	if !p.strict() {
		return value, nil
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return "", apperror.Newf(apperror.CodeValidation, "%s is required.", field)
	}
	if utf8.RuneCountInString(value) > maxNameLength {
		return "", apperror.Newf(apperror.CodeValidation, "%s must be at most %d characters.", field, maxNameLength)
	}
	return value, nil
}

// salary checks a non-negative decimal amount.
func (p fieldParser) salary(value string) (string, error) {
	if !p.strict() {
		return value, nil
	}

	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return "", apperror.Newf(apperror.CodeValidation, "Salary must be a number, got %q.", value)
	}
	if d.IsNegative() {
		return "", apperror.New(apperror.CodeValidation, "Salary must not be negative.")
	}
	// Checked before String, which expands the exponent.
	exp := int64(d.Exponent())
	if (exp > 0 && int64(d.NumDigits())+exp > maxSalaryIntegerDigits) || -exp > maxSalaryFractionDigits {
		return "", apperror.Newf(apperror.CodeValidation, "Salary %q is out of range.", value)
	}
	return d.String(), nil
}

// id checks a positive integer identifier.
func (p fieldParser) id(field, value string) (string, error) {
	if !p.strict() {
		return value, nil
	}

	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 32)
	if err != nil || n < 1 {
		return "", apperror.Newf(apperror.CodeValidation, "%s must be a positive whole number, got %q.", field, value)
	}
	return strconv.FormatInt(n, 10), nil
}

// optionalID is id for a field that may be left blank. Blank means NULL in
// both modes.
func (p fieldParser) optionalID(field, value string) (*string, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	v, err := p.id(field, value)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
