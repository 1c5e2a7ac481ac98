package in

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodAressss/orders-batch-service/internal/adapters/auth"
	"github.com/CodAressss/orders-batch-service/internal/domain/batchload"
	"github.com/CodAressss/orders-batch-service/internal/domain/catalog"
	"github.com/CodAressss/orders-batch-service/internal/domain/order"
	"github.com/CodAressss/orders-batch-service/internal/domain/rowerror"
	"github.com/CodAressss/orders-batch-service/pkg/constant"
)

const csvBody = "orderNumber,clientId,deliveryDate,status,zoneId,requiresRefrigeration\nP001,CLI-1,2099-01-01,PENDING,ZONA1,true\n"

type fakeAuthenticator struct{ err error }

func (f fakeAuthenticator) Authenticate(context.Context, string) (auth.Principal, error) {
	return auth.Principal{}, f.err
}

type fakeStore struct {
	getFn func(ctx context.Context, id string) (batchload.BatchLoad, bool, error)
}

func (f *fakeStore) Lookup(context.Context, string, string) (batchload.BatchLoad, bool, error) {
	return batchload.BatchLoad{}, false, nil
}

func (f *fakeStore) Reserve(context.Context, string, string) (batchload.BatchLoad, error) {
	return batchload.BatchLoad{}, nil
}

func (f *fakeStore) Finalize(context.Context, string, int, int, []rowerror.RowError) (batchload.BatchLoad, error) {
	return batchload.BatchLoad{}, nil
}

func (f *fakeStore) Fail(context.Context, string) (batchload.BatchLoad, error) {
	return batchload.BatchLoad{}, nil
}

func (f *fakeStore) Get(ctx context.Context, id string) (batchload.BatchLoad, bool, error) {
	return f.getFn(ctx, id)
}

type fakeCatalog struct {
	snapshot catalog.Snapshot
	err      error
}

func (f *fakeCatalog) LoadSnapshot(context.Context) (catalog.Snapshot, error) {
	return f.snapshot, f.err
}

type fakeWriter struct{ err error }

func (f *fakeWriter) BulkInsert(context.Context, []order.ValidatedOrder) error { return f.err }

func multipartRequest(t *testing.T, idempotencyKey, authHeader, filename, body string) *http.Request {
	t.Helper()

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)

		_, err = part.Write([]byte(body))
		require.NoError(t, err)
	}

	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/load", buf)
	req.Header.Set("Content-Type", w.FormDataContentType())

	if idempotencyKey != "" {
		req.Header.Set(idempotencyKeyHeader, idempotencyKey)
	}

	if authHeader != "" {
		req.Header.Set(fiber.HeaderAuthorization, authHeader)
	}

	return req
}

func TestLoad_UnauthorizedWhenAuthenticatorFails(t *testing.T) {
	handler := &BatchHandler{Authenticator: fakeAuthenticator{err: constant.ErrUnauthorized}}
	app := fiber.New()
	app.Post("/api/v1/orders/load", handler.Load)

	resp, err := app.Test(multipartRequest(t, "batch-A", "Bearer bad", "orders.csv", csvBody))

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestLoad_MissingIdempotencyKeyRejected(t *testing.T) {
	handler := &BatchHandler{Authenticator: fakeAuthenticator{}}
	app := fiber.New()
	app.Post("/api/v1/orders/load", handler.Load)

	resp, err := app.Test(multipartRequest(t, "", "Bearer ok", "orders.csv", csvBody))

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestLoad_MissingFileRejected(t *testing.T) {
	handler := &BatchHandler{Authenticator: fakeAuthenticator{}}
	app := fiber.New()
	app.Post("/api/v1/orders/load", handler.Load)

	resp, err := app.Test(multipartRequest(t, "batch-A", "Bearer ok", "", ""))

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGetBatchLoad_NotFoundMapsTo404(t *testing.T) {
	store := &fakeStore{
		getFn: func(context.Context, string) (batchload.BatchLoad, bool, error) {
			return batchload.BatchLoad{}, false, nil
		},
	}
	handler := &BatchHandler{Store: store}
	app := fiber.New()
	app.Get("/api/v1/orders/load/:id", handler.GetBatchLoad)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/load/missing-id", nil)

	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestGetBatchLoad_FoundReturns200(t *testing.T) {
	store := &fakeStore{
		getFn: func(_ context.Context, id string) (batchload.BatchLoad, bool, error) {
			return batchload.BatchLoad{ID: id, Status: batchload.StatusCompleted}, true, nil
		},
	}
	handler := &BatchHandler{Store: store}
	app := fiber.New()
	app.Get("/api/v1/orders/load/:id", handler.GetBatchLoad)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/load/bl-1", nil)

	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
