package service

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownPack             = errors.New("unknown pack")
	ErrPurchaseLimitExceeded   = errors.New("purchase limit exceeded")
	ErrInsufficientFunds       = errors.New("insufficient funds")
	ErrCardNotFoundInInventory = errors.New("card not found in inventory")
	ErrInvalidQuantity         = errors.New("invalid quantity")
)

// ChargedAndRefundedError reports a purchase that failed after the debit was
// applied. The compensating credit has already been written; Err is the
// underlying draw/award failure.
type ChargedAndRefundedError struct {
	Err error
}

func (e *ChargedAndRefundedError) Error() string {
	return fmt.Sprintf("purchase failed after charge, refund applied: %v", e.Err)
}

func (e *ChargedAndRefundedError) Unwrap() error { return e.Err }

// CompensationFailedError is the fatal case: the purchase failed after the
// debit and the compensating credit also failed, leaving a charged but
// unrefunded user. Callers must alert on this.
type CompensationFailedError struct {
	Err       error
	RefundErr error
}

func (e *CompensationFailedError) Error() string {
	return fmt.Sprintf("purchase failed after charge and refund failed: %v (refund error: %v)", e.Err, e.RefundErr)
}

func (e *CompensationFailedError) Unwrap() error { return e.Err }
