package model

import "errors"

// Receipt kinds.  A receipt is a tagged variant: either a reference
// to an uploaded image (a file identifier from the chat platform) or
// free text typed by the buyer.
const (
	ReceiptImage = "image"
	ReceiptText  = "text"
)

// ErrInvalidReceipt is returned when a receipt has an unknown kind
// or an empty value.
var ErrInvalidReceipt = errors.New("invalid receipt")

// Receipt is the payment evidence attached to an order.
//
// Fields:
//  Kind  – "image" or "text".
//  Value – file reference for image receipts, raw text otherwise.
type Receipt struct {
	Kind  string `json:"kind"`  // orders.receipt_kind
	Value string `json:"value"` // orders.receipt_value
}

// Validate checks the variant tag and that a value is present.  It
// is called before any order row is written.
func (r Receipt) Validate() error {
	if r.Kind != ReceiptImage && r.Kind != ReceiptText {
		return ErrInvalidReceipt
	}
	if r.Value == "" {
		return ErrInvalidReceipt
	}
	return nil
}
