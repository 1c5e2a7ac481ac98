package validator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodAressss/orders-batch-service/internal/domain/catalog"
	"github.com/CodAressss/orders-batch-service/internal/domain/row"
	"github.com/CodAressss/orders-batch-service/internal/domain/rowerror"
)

func baseSnapshot() catalog.Snapshot {
	return catalog.Snapshot{
		ActiveClients:        map[string]struct{}{"CLI-1": {}},
		Zones:                map[string]bool{"ZONA1": true, "ZONA2": false},
		ExistingOrderNumbers: map[string]struct{}{"P999": {}},
	}
}

func validRow() row.Row {
	return row.Row{
		LineNumber:            2,
		OrderNumber:           "P001",
		ClientID:              "CLI-1",
		DeliveryDate:          futureDate(),
		Status:                "PENDING",
		ZoneID:                "ZONA1",
		RequiresRefrigeration: true,
	}
}

func futureDate() string {
	return time.Now().In(businessLocation).AddDate(1, 0, 0).Format(dateLayout)
}

func TestValidate_HappyPath(t *testing.T) {
	snapshot := baseSnapshot()

	order, rowErr := Validate(validRow(), snapshot)

	require.Nil(t, rowErr)
	assert.Equal(t, "P001", order.OrderNumber)
	assert.True(t, snapshot.HasOrderNumber("P001"))
}

func TestValidate_FirstFailureWins(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(r row.Row) row.Row
		setup   func(s catalog.Snapshot)
		wantErr rowerror.Code
	}{
		{
			name:    "invalid order number",
			mutate:  func(r row.Row) row.Row { r.OrderNumber = "P 001!"; return r },
			wantErr: rowerror.CodeOrderNumberInvalid,
		},
		{
			name:    "duplicate order number beats client check",
			mutate:  func(r row.Row) row.Row { r.OrderNumber = "P999"; r.ClientID = "UNKNOWN"; return r },
			wantErr: rowerror.CodeOrderDuplicate,
		},
		{
			name:    "unknown client",
			mutate:  func(r row.Row) row.Row { r.ClientID = "CLI-UNKNOWN"; return r },
			wantErr: rowerror.CodeClientNotFound,
		},
		{
			name:    "invalid status",
			mutate:  func(r row.Row) row.Row { r.Status = "SHIPPED"; return r },
			wantErr: rowerror.CodeStatusInvalid,
		},
		{
			name:    "unknown zone",
			mutate:  func(r row.Row) row.Row { r.ZoneID = "ZONA-UNKNOWN"; return r },
			wantErr: rowerror.CodeZoneNotFound,
		},
		{
			name:    "cold chain unsupported",
			mutate:  func(r row.Row) row.Row { r.ZoneID = "ZONA2"; r.RequiresRefrigeration = true; return r },
			wantErr: rowerror.CodeColdChainUnsupported,
		},
		{
			name:    "unparseable date",
			mutate:  func(r row.Row) row.Row { r.DeliveryDate = "not-a-date"; return r },
			wantErr: rowerror.CodeDeliveryDatePast,
		},
		{
			name:    "past date",
			mutate:  func(r row.Row) row.Row { r.DeliveryDate = "2020-01-01"; return r },
			wantErr: rowerror.CodeDeliveryDatePast,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			snapshot := baseSnapshot()
			r := tc.mutate(validRow())

			_, rowErr := Validate(r, snapshot)

			require.NotNil(t, rowErr)
			assert.Equal(t, tc.wantErr, rowErr.Code)
			assert.Equal(t, r.LineNumber, rowErr.LineNumber)
		})
	}
}

func TestValidate_IntraBatchDuplicateDetection(t *testing.T) {
	snapshot := baseSnapshot()
	r := validRow()

	_, firstErr := Validate(r, snapshot)
	require.Nil(t, firstErr)

	_, secondErr := Validate(r, snapshot)
	require.NotNil(t, secondErr)
	assert.Equal(t, rowerror.CodeOrderDuplicate, secondErr.Code)
}

func TestValidate_DeliveryDateEqualToTodayIsAccepted(t *testing.T) {
	snapshot := baseSnapshot()
	r := validRow()
	r.DeliveryDate = today(businessLocation).Format(dateLayout)

	_, rowErr := Validate(r, snapshot)

	assert.Nil(t, rowErr)
}

func TestValidate_DeliveryDateYesterdayIsRejected(t *testing.T) {
	snapshot := baseSnapshot()
	r := validRow()
	r.DeliveryDate = today(businessLocation).AddDate(0, 0, -1).Format(dateLayout)

	_, rowErr := Validate(r, snapshot)

	require.NotNil(t, rowErr)
	assert.Equal(t, rowerror.CodeDeliveryDatePast, rowErr.Code)
}
