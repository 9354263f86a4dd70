// Package order reads customer orders: the word list to lay out, the text
// printed above the board on the poster, and the identifier that names the
// output directory.
//
// Orders arrive as JSON files:
//
//	{
//	  "words": ["CAT", "CAR", "ARC"],
//	  "topText": "Happy Birthday",
//	  "orderID": "1001",
//	  "completed": false
//	}
//
// [Decode] and [Load] reject malformed or invalid orders with coded errors.
// [LoadOrEmpty] logs the failure and returns the empty [Order] instead, which
// never passes [Order.Validate], so callers cannot lay out a partial list by
// accident.
package order

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/matzehuels/wordtiles/pkg/errors"
)

// Ext is the file extension of order files.
const Ext = ".json"

// MaxTopTextLength bounds the poster headline.
const MaxTopTextLength = 120

// Order is a single customer order.
type Order struct {
	Words     []string `json:"words" validate:"required,min=1,max=200,dive,required,max=32,alpha"`
	TopText   string   `json:"topText" validate:"max=120"`
	OrderID   string   `json:"orderID" validate:"required,orderid"`
	Completed bool     `json:"completed"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	if err := validate.RegisterValidation("orderid", validOrderID); err != nil {
		panic(fmt.Sprintf("order: register orderid validation: %v", err))
	}
}

func validOrderID(fl validator.FieldLevel) bool {
	return errors.ValidateOrderID(fl.Field().String()) == nil
}

// New returns an ad-hoc order with a random order ID.
func New(words []string, topText string) Order {
	return Order{
		Words:   words,
		TopText: topText,
		OrderID: uuid.NewString(),
	}
}

// Validate checks the order fields. Failures are INVALID_ORDER errors that
// name the first offending field.
func (o Order) Validate() error {
	if err := validate.Struct(o); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return errors.Wrap(errors.ErrCodeInvalidOrder, err, "order %q: field %s failed %q", o.OrderID, fe.Namespace(), fe.Tag())
		}
		return errors.Wrap(errors.ErrCodeInvalidOrder, err, "order %q", o.OrderID)
	}
	return nil
}

// Normalized returns a copy with upper-case words and trimmed text.
func (o Order) Normalized() Order {
	words := make([]string, len(o.Words))
	for i, w := range o.Words {
		words[i] = strings.ToUpper(strings.TrimSpace(w))
	}
	o.Words = words
	o.TopText = strings.TrimSpace(o.TopText)
	return o
}

// Decode reads one order from r. Unknown fields and trailing data are
// rejected. The decoded order is normalised and validated.
func Decode(r io.Reader) (Order, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var o Order
	if err := dec.Decode(&o); err != nil {
		return Order{}, errors.Wrap(errors.ErrCodeOrderDecode, err, "decode order")
	}
	if dec.More() {
		return Order{}, errors.New(errors.ErrCodeOrderDecode, "decode order: trailing data after JSON object")
	}
	o = o.Normalized()
	if err := o.Validate(); err != nil {
		return Order{}, err
	}
	return o, nil
}

// Load reads and decodes the order file at path. When the file carries no
// orderID, the file name without extension is used.
func Load(path string) (Order, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Order{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "order file %s", path)
		}
		return Order{}, errors.Wrap(errors.ErrCodeInternal, err, "read order file %s", path)
	}
	data = withDefaultID(data, IDFromPath(path))
	o, err := Decode(bytes.NewReader(data))
	if err != nil {
		return Order{}, errors.Wrap(errors.GetCode(err), err, "order file %s", path)
	}
	return o, nil
}

// LoadOrEmpty is Load for batch intake: on failure the error is logged and
// the empty order is returned together with the error.
func LoadOrEmpty(path string, logger *log.Logger) (Order, error) {
	o, err := Load(path)
	if err != nil {
		if logger != nil {
			logger.Error("unreadable order", "path", path, "error", err)
		}
		return Order{}, err
	}
	return o, nil
}

// IDFromPath returns the order ID implied by an order file name.
func IDFromPath(path string) string {
	return strings.TrimSuffix(filepath.Base(path), Ext)
}

// withDefaultID fills in a missing orderID so that files named after their
// order need not repeat it. Malformed input is returned unchanged for Decode
// to reject.
func withDefaultID(data []byte, id string) []byte {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return data
	}
	if raw, ok := fields["orderID"]; ok && string(raw) != `""` && string(raw) != "null" {
		return data
	}
	quoted, err := json.Marshal(id)
	if err != nil {
		return data
	}
	fields["orderID"] = quoted
	out, err := json.Marshal(fields)
	if err != nil {
		return data
	}
	return out
}

// Encode writes o as indented JSON.
func Encode(w io.Writer, o Order) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(o)
}
