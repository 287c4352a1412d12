package cash

import "github.com/juju/errors"

// Use errors.Cause(err) == ErrX to check.
var (
	ErrFormat            = errors.New("Unrecognized bill denomination")
	ErrInsufficientFunds = errors.New("Attempted to withdraw more funds than are present")
	ErrInsufficientBills = errors.New("Funds are sufficient but the denominations required to service the request are lacking")
	ErrInvalidOperation  = errors.New("Invalid operation")
)
