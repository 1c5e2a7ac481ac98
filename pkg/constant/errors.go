// Package constant holds the stable sentinel errors for every code in the
// batch-ingestion error taxonomy (spec.md §7). Their HTTP status and
// response code are assigned by pkg/nethttp's classify.
package constant

import "errors"

// Structural errors (abort whole batch, pre-reservation, HTTP 400).
var (
	ErrFormatInvalid = errors.New("FORMAT_INVALID")
	ErrFieldRequired = errors.New("FIELD_REQUIRED")
)

// Replay errors (abort, post-lookup, HTTP 409).
var (
	ErrAlreadyProcessed = errors.New("ALREADY_PROCESSED")
	ErrBeingProcessed   = errors.New("BEING_PROCESSED")
	ErrAlreadyReserved  = errors.New("ALREADY_RESERVED")
)

// Row-level errors (continue processing, reported in the body, never
// raised as Go errors that abort the batch).
var (
	ErrOrderNumberInvalid   = errors.New("ORDER_NUMBER_INVALID")
	ErrOrderDuplicate       = errors.New("ORDER_DUPLICATE")
	ErrClientNotFound       = errors.New("CLIENT_NOT_FOUND")
	ErrZoneNotFound         = errors.New("ZONE_NOT_FOUND")
	ErrColdChainUnsupported = errors.New("COLD_CHAIN_UNSUPPORTED")
	ErrDeliveryDatePast     = errors.New("DELIVERY_DATE_PAST")
	ErrStatusInvalid        = errors.New("STATUS_INVALID")
)

// Authorization error (pre-anything, HTTP 401).
var ErrUnauthorized = errors.New("UNAUTHORIZED")

// Infrastructural error (abort, post-reservation, HTTP 500).
var ErrInternal = errors.New("INTERNAL_ERROR")

// ErrBatchLoadNotFound is raised by the diagnostic GET endpoints (outside
// spec.md's original taxonomy, added per SPEC_FULL.md §6).
var ErrBatchLoadNotFound = errors.New("BATCH_LOAD_NOT_FOUND")
