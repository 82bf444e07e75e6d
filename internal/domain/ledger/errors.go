package ledger

import "errors"

var (
	ErrInvalidPeriod = errors.New("invalid ledger period")
	ErrRangeTooLarge = errors.New("ledger period exceeds 12 months")
	ErrInvalidType   = errors.New("invalid ledger type")
	ErrForbidden     = errors.New("ledger belongs to another employee")
)
