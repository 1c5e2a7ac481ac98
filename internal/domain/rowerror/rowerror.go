// Package rowerror holds the structured per-row validation failure
// (spec.md §3, §4.D) and its stable error-code enum (spec.md §7).
package rowerror

// Code is one of the seven row-level error codes. Values are the exact
// wire strings used in HTTP responses and persisted in batch_load_errors.
type Code string

const (
	CodeOrderNumberInvalid   Code = "ORDER_NUMBER_INVALID"
	CodeOrderDuplicate       Code = "ORDER_DUPLICATE"
	CodeClientNotFound       Code = "CLIENT_NOT_FOUND"
	CodeZoneNotFound         Code = "ZONE_NOT_FOUND"
	CodeColdChainUnsupported Code = "COLD_CHAIN_UNSUPPORTED"
	CodeDeliveryDatePast     Code = "DELIVERY_DATE_PAST"
	CodeStatusInvalid        Code = "STATUS_INVALID"
)

// RowError is produced by the validator for a row that fails any rule. At
// most one is produced per row, and never alongside a ValidatedOrder for
// the same row (spec.md §3's "never both").
type RowError struct {
	LineNumber int
	Code       Code
	Message    string
}
