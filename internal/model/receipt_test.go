package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReceiptValidate(t *testing.T) {
	assert.NoError(t, Receipt{Kind: ReceiptImage, Value: "uploads/receipt-42.jpg"}.Validate())
	assert.NoError(t, Receipt{Kind: ReceiptText, Value: "paid via bank transfer ref 99812"}.Validate())

	assert.ErrorIs(t, Receipt{}.Validate(), ErrInvalidReceipt)
	assert.ErrorIs(t, Receipt{Kind: "pdf", Value: "x"}.Validate(), ErrInvalidReceipt)
	assert.ErrorIs(t, Receipt{Kind: ReceiptImage}.Validate(), ErrInvalidReceipt)
	assert.ErrorIs(t, Receipt{Kind: ReceiptText}.Validate(), ErrInvalidReceipt)
}
