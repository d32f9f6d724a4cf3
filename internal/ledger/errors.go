package ledger

import "errors"

// ErrInvalidAmount is returned when a transaction's deltas are negative or
// both zero. A no-op award or deduction is rejected, not silently accepted.
var ErrInvalidAmount = errors.New("transaction deltas must be non-negative and not both zero")

// ErrInvalidType is returned when a transaction type is unknown or not
// allowed for the attempted operation.
var ErrInvalidType = errors.New("transaction type not allowed for this operation")

// ErrInsufficientBalance is returned when a deduction exceeds the current
// points or nights. The ledger and projection are left untouched.
var ErrInsufficientBalance = errors.New("insufficient balance")

// ErrAccountNotFound is returned when a customer has no projection row and
// enrollment itself could not create one.
var ErrAccountNotFound = errors.New("loyalty account not found")

// ErrTransactionNotFound is returned when a referenced ledger entry does not
// exist for the given customer.
var ErrTransactionNotFound = errors.New("points transaction not found")

// ErrNotExpirable is returned when Expire is pointed at an entry that never
// expires: a non-earned type, a nil expiry, or a non-positive points amount.
var ErrNotExpirable = errors.New("transaction is not expirable")
