package services_test

import (
	"context"
	"errors"
	"testing"

	"cart-bff/clients"
	"cart-bff/models"
	"cart-bff/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// ---- mock upstream cart service ----

type mockUpstream struct {
	cart *models.Cart

	getErr       error
	addErr       error
	addOneErr    error
	removeOneErr error
	removeErr    error

	getCalls       int
	addCalls       int
	addOneCalls    int
	removeOneCalls int
	removeCalls    int
}

func (m *mockUpstream) GetCart(_ context.Context, _ string) (*models.Cart, error) {
	m.getCalls++
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.cart, nil
}

func (m *mockUpstream) AddItem(_ context.Context, _ string, item models.LineItem) error {
	m.addCalls++
	if m.addErr != nil {
		return m.addErr
	}
	if idx := m.cart.Find(item.ItemID); idx >= 0 {
		m.cart.Items[idx].Quantity++
	} else {
		m.cart.Items = append(m.cart.Items, item)
	}
	return nil
}

func (m *mockUpstream) AddOne(_ context.Context, _, itemID, _ string) error {
	m.addOneCalls++
	if m.addOneErr != nil {
		return m.addOneErr
	}
	if idx := m.cart.Find(itemID); idx >= 0 {
		m.cart.Items[idx].Quantity++
	}
	return nil
}

func (m *mockUpstream) RemoveOne(_ context.Context, _, itemID, _ string) error {
	m.removeOneCalls++
	if m.removeOneErr != nil {
		return m.removeOneErr
	}
	if idx := m.cart.Find(itemID); idx >= 0 {
		m.cart.Items[idx].Quantity--
	}
	return nil
}

func (m *mockUpstream) RemoveItem(_ context.Context, _, itemID, _ string) error {
	m.removeCalls++
	if m.removeErr != nil {
		return m.removeErr
	}
	if idx := m.cart.Find(itemID); idx >= 0 {
		m.cart.Items = append(m.cart.Items[:idx], m.cart.Items[idx+1:]...)
	}
	return nil
}

// ---- mock guest cart store ----

type mockGuestStore struct {
	cart *models.Cart

	getErr  error
	saveErr error

	saveCalls   int
	deleteCalls int

	saveEntered chan struct{}
	blockSave   chan struct{}
}

func (m *mockGuestStore) Get(_ context.Context, _ string) (*models.Cart, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.cart, nil
}

func (m *mockGuestStore) Save(_ context.Context, _ string, cart *models.Cart) error {
	m.saveCalls++
	if m.saveEntered != nil {
		close(m.saveEntered)
		m.saveEntered = nil
	}
	if m.blockSave != nil {
		<-m.blockSave
	}
	if m.saveErr != nil {
		return m.saveErr
	}
	m.cart = cart
	return nil
}

func (m *mockGuestStore) Delete(_ context.Context, _ string) error {
	m.deleteCalls++
	m.cart = nil
	return nil
}

// ---- mock charge resolver ----

type mockCharges struct {
	schedule models.ChargeSchedule
	err      error
}

func (m *mockCharges) Resolve(_ context.Context, _ string) (models.ChargeSchedule, error) {
	return m.schedule, m.err
}

// ---- helpers ----

func newTestCartService(upstream *mockUpstream, guests *mockGuestStore, charges *mockCharges) services.CartService {
	logger, _ := zap.NewDevelopment()
	return services.NewCartService(upstream, guests, charges, logger)
}

func guestSource() models.CartSource {
	return models.CartSource{GuestID: "guest-1"}
}

func userSource() models.CartSource {
	return models.CartSource{UserID: "user-1", GuestID: "guest-1"}
}

func thali(qty int) models.LineItem {
	return models.LineItem{
		ItemID:   "i1",
		Name:     "Veg Thali",
		Price:    100,
		Quantity: qty,
		Packable: true,
		Kind:     "Retail",
		VendorID: "vendor-1",
	}
}

// ---- guest path ----

func TestGuestAddItem_NewItem(t *testing.T) {
	guests := &mockGuestStore{}
	svc := newTestCartService(&mockUpstream{}, guests, &mockCharges{})

	cart, svcErr := svc.AddItem(context.Background(), guestSource(), thali(1), "Campus Canteen")

	require.Nil(t, svcErr)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 1, cart.Items[0].Quantity)
	assert.Equal(t, "vendor-1", cart.VendorID)
	assert.Equal(t, "Campus Canteen", cart.VendorName)
	assert.Equal(t, 1, guests.saveCalls)
}

func TestGuestAddItem_ExistingIncrements(t *testing.T) {
	guests := &mockGuestStore{cart: &models.Cart{VendorID: "vendor-1", Items: []models.LineItem{thali(2)}}}
	svc := newTestCartService(&mockUpstream{}, guests, &mockCharges{})

	cart, svcErr := svc.AddItem(context.Background(), guestSource(), thali(1), "")

	require.Nil(t, svcErr)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
}

func TestGuestAddItem_DifferentVendorRejected(t *testing.T) {
	guests := &mockGuestStore{cart: &models.Cart{VendorID: "vendor-1", Items: []models.LineItem{thali(1)}}}
	svc := newTestCartService(&mockUpstream{}, guests, &mockCharges{})

	other := thali(1)
	other.ItemID = "i9"
	other.VendorID = "vendor-2"

	_, svcErr := svc.AddItem(context.Background(), guestSource(), other, "")

	require.NotNil(t, svcErr)
	assert.Equal(t, 409, svcErr.StatusCode)
	assert.Equal(t, 0, guests.saveCalls)
	assert.Len(t, guests.cart.Items, 1)
}

func TestGuestDecrease_AtQuantityOneIsNoop(t *testing.T) {
	guests := &mockGuestStore{cart: &models.Cart{VendorID: "vendor-1", Items: []models.LineItem{thali(1)}}}
	svc := newTestCartService(&mockUpstream{}, guests, &mockCharges{})

	cart, svcErr := svc.DecreaseQuantity(context.Background(), guestSource(), "i1")

	require.Nil(t, svcErr)
	assert.Equal(t, 1, cart.Items[0].Quantity)
	assert.Equal(t, 0, guests.saveCalls)
}

func TestGuestDecrease_AboveOne(t *testing.T) {
	guests := &mockGuestStore{cart: &models.Cart{VendorID: "vendor-1", Items: []models.LineItem{thali(3)}}}
	svc := newTestCartService(&mockUpstream{}, guests, &mockCharges{})

	cart, svcErr := svc.DecreaseQuantity(context.Background(), guestSource(), "i1")

	require.Nil(t, svcErr)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, 1, guests.saveCalls)
}

func TestGuestRemove_NonexistentIsNoop(t *testing.T) {
	guests := &mockGuestStore{cart: &models.Cart{VendorID: "vendor-1", Items: []models.LineItem{thali(1)}}}
	svc := newTestCartService(&mockUpstream{}, guests, &mockCharges{})

	cart, svcErr := svc.RemoveItem(context.Background(), guestSource(), "missing")

	require.Nil(t, svcErr)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, 0, guests.saveCalls)
}

func TestGuestRemove_DeletesRegardlessOfQuantity(t *testing.T) {
	guests := &mockGuestStore{cart: &models.Cart{VendorID: "vendor-1", Items: []models.LineItem{thali(5)}}}
	svc := newTestCartService(&mockUpstream{}, guests, &mockCharges{})

	cart, svcErr := svc.RemoveItem(context.Background(), guestSource(), "i1")

	require.Nil(t, svcErr)
	assert.Empty(t, cart.Items)
	assert.Equal(t, "", cart.VendorID)
}

func TestLoadCart_GuestStoreErrorFallsBackToEmpty(t *testing.T) {
	guests := &mockGuestStore{getErr: errors.New("redis down")}
	svc := newTestCartService(&mockUpstream{}, guests, &mockCharges{})

	cart, svcErr := svc.LoadCart(context.Background(), guestSource())

	require.Nil(t, svcErr)
	assert.True(t, cart.Empty())
}

// ---- authenticated path ----

func TestAuthAddItem_ResyncsFromUpstream(t *testing.T) {
	upstream := &mockUpstream{cart: &models.Cart{VendorID: "vendor-1", Items: []models.LineItem{}}}
	guests := &mockGuestStore{}
	svc := newTestCartService(upstream, guests, &mockCharges{})

	cart, svcErr := svc.AddItem(context.Background(), userSource(), thali(1), "")

	require.Nil(t, svcErr)
	assert.Equal(t, 1, upstream.addCalls)
	assert.Equal(t, 2, upstream.getCalls) // vendor check + resync
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, 0, guests.saveCalls)
}

func TestAuthDecrease_AtQuantityOneIssuesNoRemoteCall(t *testing.T) {
	upstream := &mockUpstream{cart: &models.Cart{VendorID: "vendor-1", Items: []models.LineItem{thali(1)}}}
	svc := newTestCartService(upstream, &mockGuestStore{}, &mockCharges{})

	cart, svcErr := svc.DecreaseQuantity(context.Background(), userSource(), "i1")

	require.Nil(t, svcErr)
	assert.Equal(t, 1, cart.Items[0].Quantity)
	assert.Equal(t, 0, upstream.removeOneCalls)
	assert.Equal(t, 1, upstream.getCalls)
}

func TestAuthIncrease_AuthFailureSignalsReauth(t *testing.T) {
	upstream := &mockUpstream{
		cart:      &models.Cart{VendorID: "vendor-1", Items: []models.LineItem{thali(1)}},
		addOneErr: &clients.UpstreamError{StatusCode: 401, Kind: clients.KindAuth},
	}
	svc := newTestCartService(upstream, &mockGuestStore{}, &mockCharges{})

	_, svcErr := svc.IncreaseQuantity(context.Background(), userSource(), "i1")

	require.NotNil(t, svcErr)
	assert.Equal(t, 401, svcErr.StatusCode)
	assert.True(t, svcErr.Reauth)
}

func TestAuthIncrease_MaxQuantityIsDistinct(t *testing.T) {
	upstream := &mockUpstream{
		cart:      &models.Cart{VendorID: "vendor-1", Items: []models.LineItem{thali(4)}},
		addOneErr: &clients.UpstreamError{StatusCode: 400, Kind: clients.KindMaxQuantity, Message: "max quantity reached"},
	}
	svc := newTestCartService(upstream, &mockGuestStore{}, &mockCharges{})

	_, svcErr := svc.IncreaseQuantity(context.Background(), userSource(), "i1")

	require.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
	assert.Equal(t, "Maximum quantity reached for this item.", svcErr.Message)
	assert.False(t, svcErr.Reauth)
}

func TestAuthIncrease_StockLimitPassesMessageThrough(t *testing.T) {
	upstream := &mockUpstream{
		cart:      &models.Cart{VendorID: "vendor-1", Items: []models.LineItem{thali(2)}},
		addOneErr: &clients.UpstreamError{StatusCode: 400, Kind: clients.KindStockLimit, Message: "Only 3 available"},
	}
	svc := newTestCartService(upstream, &mockGuestStore{}, &mockCharges{})

	_, svcErr := svc.IncreaseQuantity(context.Background(), userSource(), "i1")

	require.NotNil(t, svcErr)
	assert.Equal(t, "Only 3 available", svcErr.Message)
}

func TestAuthIncrease_GenericFailure(t *testing.T) {
	upstream := &mockUpstream{
		cart:      &models.Cart{VendorID: "vendor-1", Items: []models.LineItem{thali(2)}},
		addOneErr: errors.New("connection refused"),
	}
	svc := newTestCartService(upstream, &mockGuestStore{}, &mockCharges{})

	_, svcErr := svc.IncreaseQuantity(context.Background(), userSource(), "i1")

	require.NotNil(t, svcErr)
	assert.Equal(t, 502, svcErr.StatusCode)
}

func TestAuthIncrease_UpstreamFetchFailurePropagates(t *testing.T) {
	// The guest copy still holds the item, but a mutation must follow
	// the remote cart it targets, not the degraded fallback.
	upstream := &mockUpstream{getErr: errors.New("timeout")}
	guests := &mockGuestStore{cart: &models.Cart{VendorID: "vendor-1", Items: []models.LineItem{thali(2)}}}
	svc := newTestCartService(upstream, guests, &mockCharges{})

	_, svcErr := svc.IncreaseQuantity(context.Background(), userSource(), "i1")

	require.NotNil(t, svcErr)
	assert.Equal(t, 502, svcErr.StatusCode)
	assert.Equal(t, 0, upstream.addOneCalls)
	assert.Equal(t, 0, guests.saveCalls)
}

func TestAuthRemove_UpstreamFetchFailurePropagates(t *testing.T) {
	upstream := &mockUpstream{getErr: errors.New("timeout")}
	guests := &mockGuestStore{cart: &models.Cart{VendorID: "vendor-1", Items: []models.LineItem{thali(5)}}}
	svc := newTestCartService(upstream, guests, &mockCharges{})

	_, svcErr := svc.RemoveItem(context.Background(), userSource(), "i1")

	require.NotNil(t, svcErr)
	assert.Equal(t, 502, svcErr.StatusCode)
	assert.Equal(t, 0, upstream.removeCalls)
	require.Len(t, guests.cart.Items, 1)
	assert.Equal(t, 5, guests.cart.Items[0].Quantity)
}

func TestAuthDecrease_FloorCheckedAgainstRemoteQuantity(t *testing.T) {
	// Remote holds qty 1 while the stale guest copy holds qty 3; the
	// decrement floor applies to the cart the mutation targets.
	upstream := &mockUpstream{cart: &models.Cart{VendorID: "vendor-1", Items: []models.LineItem{thali(1)}}}
	guests := &mockGuestStore{cart: &models.Cart{VendorID: "vendor-1", Items: []models.LineItem{thali(3)}}}
	svc := newTestCartService(upstream, guests, &mockCharges{})

	cart, svcErr := svc.DecreaseQuantity(context.Background(), userSource(), "i1")

	require.Nil(t, svcErr)
	assert.Equal(t, 1, cart.Items[0].Quantity)
	assert.Equal(t, 0, upstream.removeOneCalls)
}

func TestLoadCart_UpstreamFailureFallsBackToGuestCart(t *testing.T) {
	upstream := &mockUpstream{getErr: errors.New("timeout")}
	guests := &mockGuestStore{cart: &models.Cart{VendorID: "vendor-1", Items: []models.LineItem{thali(2)}}}
	svc := newTestCartService(upstream, guests, &mockCharges{})

	cart, svcErr := svc.LoadCart(context.Background(), userSource())

	require.Nil(t, svcErr)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

// ---- billing ----

func TestBill_DefaultsWhenChargesUnavailable(t *testing.T) {
	guests := &mockGuestStore{cart: &models.Cart{VendorID: "vendor-1", Items: []models.LineItem{thali(2)}}}
	charges := &mockCharges{err: errors.New("charges service down")}
	svc := newTestCartService(&mockUpstream{}, guests, charges)

	_, bill, svcErr := svc.Bill(context.Background(), guestSource(), models.OrderTypeDelivery)

	require.Nil(t, svcErr)
	assert.Equal(t, 200.0, bill.ItemTotal)
	assert.Equal(t, 10.0, bill.PackagingTotal) // default packing charge 5
	assert.Equal(t, 50.0, bill.DeliveryTotal)  // default delivery charge 50
	assert.Equal(t, 260.0, bill.GrandTotal)
}

func TestBill_ResolvedSchedule(t *testing.T) {
	guests := &mockGuestStore{cart: &models.Cart{VendorID: "vendor-1", Items: []models.LineItem{thali(1)}}}
	charges := &mockCharges{schedule: models.ChargeSchedule{PackingCharge: 10, DeliveryCharge: 20}}
	svc := newTestCartService(&mockUpstream{}, guests, charges)

	_, bill, svcErr := svc.Bill(context.Background(), guestSource(), models.OrderTypeDelivery)

	require.Nil(t, svcErr)
	assert.Equal(t, 130.0, bill.GrandTotal)
}

// ---- busy set ----

func TestConcurrentMutationOnSameItemIsRejected(t *testing.T) {
	guests := &mockGuestStore{
		cart:        &models.Cart{VendorID: "vendor-1", Items: []models.LineItem{thali(2)}},
		saveEntered: make(chan struct{}),
		blockSave:   make(chan struct{}),
	}
	svc := newTestCartService(&mockUpstream{}, guests, &mockCharges{})

	entered := guests.saveEntered
	done := make(chan struct{})
	go func() {
		_, _ = svc.IncreaseQuantity(context.Background(), guestSource(), "i1")
		close(done)
	}()

	<-entered // first mutation is mid-flight, holding the busy slot

	_, svcErr := svc.DecreaseQuantity(context.Background(), guestSource(), "i1")
	require.NotNil(t, svcErr)
	assert.Equal(t, 409, svcErr.StatusCode)

	close(guests.blockSave)
	<-done
}
