package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phonestore/internal/client"
	"phonestore/internal/httpapi"
	"phonestore/internal/inventory"
	"phonestore/internal/store"
	"phonestore/internal/testutil"
)

// countingHandler counts GET requests reaching the API.
type countingHandler struct {
	next http.Handler
	gets atomic.Int32
}

func (h *countingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.gets.Add(1)
	}
	h.next.ServeHTTP(w, r)
}

func newAPI(t *testing.T, seed []inventory.Phone) (*client.APIClient, *countingHandler) {
	t.Helper()
	svc := inventory.NewService(store.NewMemoryStore(seed, testutil.FixedClock()), nil)
	h := &countingHandler{next: httpapi.NewServer(svc, nil).Handler()}
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return client.NewAPIClient(srv.URL+"/", 5*time.Second), h
}

func TestAPIClient_RoundTrip(t *testing.T) {
	ctx := context.Background()
	api, _ := newAPI(t, testutil.Phones(2))

	phones, err := api.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(testutil.Phones(2), phones))

	created, err := api.Create(ctx, testutil.NewPhone())
	require.NoError(t, err)
	assert.Equal(t, testutil.FixedMillis, created.ID)

	updated, err := api.Update(ctx, created.ID, inventory.Patch{Color: testutil.Str("Grafito")})
	require.NoError(t, err)
	assert.Equal(t, "Grafito", updated.Color)
	assert.Equal(t, created.Model, updated.Model)

	require.NoError(t, api.Delete(ctx, 1))

	phones, err = api.List(ctx)
	require.NoError(t, err)
	require.Len(t, phones, 2)
	assert.Equal(t, updated, phones[1])
}

func TestAPIClient_NotFound(t *testing.T) {
	ctx := context.Background()
	api, _ := newAPI(t, nil)

	_, err := api.Update(ctx, 5, inventory.Patch{Brand: testutil.Str("x")})
	require.Error(t, err)
	assert.ErrorIs(t, err, inventory.ErrNotFound)

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "phone not found", apiErr.Message)

	assert.ErrorIs(t, api.Delete(ctx, 5), inventory.ErrNotFound)
}

func TestAPIClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"failed to read phones"}`))
	}))
	defer srv.Close()

	_, err := client.NewAPIClient(srv.URL, time.Second).List(context.Background())

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "failed to read phones", apiErr.Message)
	assert.False(t, errors.Is(err, inventory.ErrNotFound))
}

func TestAPIClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := client.NewAPIClient(url, time.Second).List(context.Background())
	assert.Error(t, err)
}

func TestInventory_LoadFetchesOnce(t *testing.T) {
	ctx := context.Background()
	api, counter := newAPI(t, testutil.Phones(3))
	inv := client.NewInventory(api)

	require.NoError(t, inv.Load(ctx))
	require.NoError(t, inv.Load(ctx))

	assert.Equal(t, int32(1), counter.gets.Load())
	assert.Len(t, inv.Phones(), 3)
}

func TestInventory_ReconcilesFromResponses(t *testing.T) {
	ctx := context.Background()
	api, counter := newAPI(t, testutil.Phones(3))
	inv := client.NewInventory(api)
	require.NoError(t, inv.Load(ctx))

	created, err := inv.Add(ctx, testutil.NewPhone())
	require.NoError(t, err)

	_, err = inv.Edit(ctx, 2, inventory.Patch{Quantity: testutil.Num("1")})
	require.NoError(t, err)

	require.NoError(t, inv.Remove(ctx, 1))

	assert.Equal(t, int32(1), counter.gets.Load(), "mutations must not refetch")

	local := inv.Phones()
	server, err := api.List(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(server, local); diff != "" {
		t.Errorf("local state diverged from server (-server +local):\n%s", diff)
	}

	got, ok := inv.Find(created.ID)
	assert.True(t, ok)
	assert.Equal(t, created, got)

	edited, ok := inv.Find(2)
	require.True(t, ok)
	assert.Equal(t, inventory.NumericText("1"), edited.Quantity)

	_, ok = inv.Find(1)
	assert.False(t, ok)
}

func TestInventory_FailedMutationsKeepState(t *testing.T) {
	ctx := context.Background()
	api, _ := newAPI(t, testutil.Phones(2))
	inv := client.NewInventory(api)
	require.NoError(t, inv.Load(ctx))
	before := inv.Phones()

	_, err := inv.Edit(ctx, 42, inventory.Patch{Brand: testutil.Str("x")})
	assert.ErrorIs(t, err, inventory.ErrNotFound)

	err = inv.Remove(ctx, 42)
	assert.ErrorIs(t, err, inventory.ErrNotFound)

	assert.Equal(t, before, inv.Phones())
}

func TestInventory_PhonesReturnsCopy(t *testing.T) {
	api, _ := newAPI(t, testutil.Phones(1))
	inv := client.NewInventory(api)
	require.NoError(t, inv.Load(context.Background()))

	phones := inv.Phones()
	phones[0].Brand = "mutated"

	assert.NotEqual(t, "mutated", inv.Phones()[0].Brand)
}
