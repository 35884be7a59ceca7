package models

import "github.com/shopspring/decimal"

func init() {
	// Amounts are rendered as JSON numbers, the way clients already consume them.
	decimal.MarshalJSONWithoutQuotes = true
}
