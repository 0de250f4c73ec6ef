package services

import "errors"

// Analysis service errors
var (
	ErrNoSheetsFound       = errors.New("no sheets found")
	ErrNoTransactionsFound = errors.New("no transactions found")
	ErrNoSourcesProvided   = errors.New("no analysis sources provided")
)
