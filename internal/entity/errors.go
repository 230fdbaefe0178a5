package entity

import "errors"

// Rejection reasons surfaced to the user. None of these abort the process;
// a rejected operation leaves the ledger untouched.
var (
	ErrUnknownSymbol       = errors.New("unknown symbol")
	ErrPriceUnavailable    = errors.New("no price available for symbol")
	ErrInvalidQuantity     = errors.New("quantity must be a positive integer")
	ErrInvalidSide         = errors.New("order side must be BUY or SELL")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrNoHolding           = errors.New("no holding for this symbol")
	ErrInsufficientHolding = errors.New("holding quantity too low")
	ErrInvalidAmount       = errors.New("amount must be positive")

	ErrUserExists         = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnauthorized       = errors.New("unauthorized")
)
