package dto

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	ierr "github.com/tutorbook/tutorbook/internal/errors"
)

// Number is a decimal request field kept as sent. Binding never fails on
// its content, so a malformed value is reported against its own line
// instead of rejecting the whole body. JSON numbers and numeric strings
// are both accepted, null and "" mean the field was omitted.
type Number string

func (n *Number) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		*n = ""
		return nil
	}
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
	}
	*n = Number(raw)
	return nil
}

func (n Number) IsSet() bool {
	return n != ""
}

// Decimal parses the value, an omitted field is zero
func (n Number) Decimal() (decimal.Decimal, error) {
	if !n.IsSet() {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(string(n))
}

// OrDefault is the parsed value or def when omitted or malformed
func (n Number) OrDefault(def decimal.Decimal) decimal.Decimal {
	if !n.IsSet() {
		return def
	}
	d, err := n.Decimal()
	if err != nil {
		return def
	}
	return d
}

// numberFields collects every unparsable Number keyed by its request path
type numberFields map[string]any

func (f numberFields) check(path string, n Number) {
	if _, err := n.Decimal(); err != nil {
		f[path] = fmt.Sprintf("%q is not a number", string(n))
	}
}

func (f numberFields) err() error {
	if len(f) == 0 {
		return nil
	}
	return ierr.NewError("malformed numbers in invoice lines").
		WithHint("One or more invoice items or adjustments are invalid").
		WithReportableDetails(f).
		Mark(ierr.ErrValidation)
}
