// Package validator implements the pure row-validation core (spec.md
// §4.D), grounded on DESIGN.md's "exceptions for control flow" Design
// Note: a Result<ValidatedOrder, RowError> sum returned as (order, err),
// never a panic or sentinel exception, so the orchestrator's fold over
// rows stays a plain loop.
package validator

import (
	"regexp"
	"time"

	"github.com/CodAressss/orders-batch-service/internal/domain/catalog"
	"github.com/CodAressss/orders-batch-service/internal/domain/order"
	"github.com/CodAressss/orders-batch-service/internal/domain/row"
	"github.com/CodAressss/orders-batch-service/internal/domain/rowerror"
)

const dateLayout = "2006-01-02"

var orderNumberPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// businessLocation is the fixed America/Lima, UTC-5, no-DST zone spec.md
// §4.D anchors "today" to. Loaded once; falls back to a fixed offset if
// the platform's tzdata is unavailable, so the rule never silently uses
// the host's local zone instead.
var businessLocation = loadBusinessLocation()

func loadBusinessLocation() *time.Location {
	loc, err := time.LoadLocation("America/Lima")
	if err != nil {
		return time.FixedZone("America/Lima", -5*60*60)
	}

	return loc
}

// Validate applies the eight first-failure-wins rules of spec.md §4.D to
// r against snapshot, in order. On success it marks r.OrderNumber as
// seen in snapshot so a later duplicate within the same batch is
// rejected, and returns (order, nil). On failure it returns a RowError
// tagged with r.LineNumber and the zero order.ValidatedOrder.
func Validate(r row.Row, snapshot catalog.Snapshot) (order.ValidatedOrder, *rowerror.RowError) {
	if r.OrderNumber == "" || !orderNumberPattern.MatchString(r.OrderNumber) {
		return order.ValidatedOrder{}, fail(r.LineNumber, rowerror.CodeOrderNumberInvalid,
			"orderNumber must be non-empty and contain only letters, digits, '-' or '_'")
	}

	if snapshot.HasOrderNumber(r.OrderNumber) {
		return order.ValidatedOrder{}, fail(r.LineNumber, rowerror.CodeOrderDuplicate,
			"orderNumber already exists or was already accepted in this batch")
	}

	if r.ClientID == "" || !snapshot.IsActiveClient(r.ClientID) {
		return order.ValidatedOrder{}, fail(r.LineNumber, rowerror.CodeClientNotFound,
			"clientId is not a known active client")
	}

	status, ok := order.ParseStatus(r.Status)
	if !ok {
		return order.ValidatedOrder{}, fail(r.LineNumber, rowerror.CodeStatusInvalid,
			"status must be one of PENDING, CONFIRMED, DELIVERED")
	}

	refrigerationCapable, known := snapshot.Zone(r.ZoneID)
	if r.ZoneID == "" || !known {
		return order.ValidatedOrder{}, fail(r.LineNumber, rowerror.CodeZoneNotFound,
			"zoneId is not a known zone")
	}

	if r.RequiresRefrigeration && !refrigerationCapable {
		return order.ValidatedOrder{}, fail(r.LineNumber, rowerror.CodeColdChainUnsupported,
			"zone does not support refrigerated delivery")
	}

	deliveryDate, err := time.ParseInLocation(dateLayout, r.DeliveryDate, businessLocation)
	if err != nil {
		return order.ValidatedOrder{}, fail(r.LineNumber, rowerror.CodeDeliveryDatePast,
			"deliveryDate must be formatted as YYYY-MM-DD")
	}

	if deliveryDate.Before(today(businessLocation)) {
		return order.ValidatedOrder{}, fail(r.LineNumber, rowerror.CodeDeliveryDatePast,
			"deliveryDate must not be before today")
	}

	snapshot.MarkOrderNumberSeen(r.OrderNumber)

	return order.ValidatedOrder{
		OrderNumber:           r.OrderNumber,
		ClientID:              r.ClientID,
		DeliveryDate:          deliveryDate,
		Status:                status,
		ZoneID:                r.ZoneID,
		RequiresRefrigeration: r.RequiresRefrigeration,
	}, nil
}

func today(loc *time.Location) time.Time {
	now := time.Now().In(loc)
	y, m, d := now.Date()

	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func fail(lineNumber int, code rowerror.Code, message string) *rowerror.RowError {
	return &rowerror.RowError{
		LineNumber: lineNumber,
		Code:       code,
		Message:    message,
	}
}
