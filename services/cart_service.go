package services

import (
	"context"
	"sync"

	"cart-bff/models"

	"go.uber.org/zap"
)

// UpstreamCart is the remote cart service contract, the source of
// truth for authenticated carts.
type UpstreamCart interface {
	GetCart(ctx context.Context, userID string) (*models.Cart, error)
	AddItem(ctx context.Context, userID string, item models.LineItem) error
	AddOne(ctx context.Context, userID, itemID, kind string) error
	RemoveOne(ctx context.Context, userID, itemID, kind string) error
	RemoveItem(ctx context.Context, userID, itemID, kind string) error
}

// GuestCartStore persists guest carts locally.
type GuestCartStore interface {
	Get(ctx context.Context, guestID string) (*models.Cart, error)
	Save(ctx context.Context, guestID string, cart *models.Cart) error
	Delete(ctx context.Context, guestID string) error
}

// ChargeResolver resolves a vendor's charge schedule.
type ChargeResolver interface {
	Resolve(ctx context.Context, vendorID string) (models.ChargeSchedule, error)
}

// CartService maintains a single authoritative cart view per caller and
// computes checkout bills from it.
type CartService interface {
	LoadCart(ctx context.Context, src models.CartSource) (*models.Cart, *ServiceError)
	AddItem(ctx context.Context, src models.CartSource, item models.LineItem, vendorName string) (*models.Cart, *ServiceError)
	IncreaseQuantity(ctx context.Context, src models.CartSource, itemID string) (*models.Cart, *ServiceError)
	DecreaseQuantity(ctx context.Context, src models.CartSource, itemID string) (*models.Cart, *ServiceError)
	RemoveItem(ctx context.Context, src models.CartSource, itemID string) (*models.Cart, *ServiceError)
	ClearCart(ctx context.Context, src models.CartSource) *ServiceError
	Bill(ctx context.Context, src models.CartSource, orderType models.OrderType) (*models.Cart, *models.BillSummary, *ServiceError)
}

type cartServiceImpl struct {
	upstream UpstreamCart
	guests   GuestCartStore
	charges  ChargeResolver
	logger   *zap.Logger

	// inflight guards against overlapping mutations on the same item.
	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewCartService creates a new CartService.
func NewCartService(upstream UpstreamCart, guests GuestCartStore, charges ChargeResolver, logger *zap.Logger) CartService {
	return &cartServiceImpl{
		upstream: upstream,
		guests:   guests,
		charges:  charges,
		logger:   logger,
		inflight: make(map[string]struct{}),
	}
}

var (
	errItemBusy = &ServiceError{StatusCode: 409, Message: "This item is still being updated. Please wait."}
	errVendor   = &ServiceError{StatusCode: 409, Message: "Your cart already has items from another vendor. Clear it to order from this one."}
	errSave     = &ServiceError{StatusCode: 500, Message: "Could not update the cart. Please try again."}
)

// LoadCart returns the caller's cart. All failures degrade soft: an
// unreachable upstream drops an authenticated caller to their guest
// cart, and a broken guest record reads as an empty cart.
func (s *cartServiceImpl) LoadCart(ctx context.Context, src models.CartSource) (*models.Cart, *ServiceError) {
	if src.Authenticated() {
		cart, err := s.upstream.GetCart(ctx, src.UserID)
		if err == nil {
			return cart, nil
		}
		s.logger.Warn("upstream cart fetch failed, falling back to guest cart",
			zap.String("user_id", src.UserID),
			zap.Error(err),
		)
	}
	return s.loadGuestCart(ctx, src.GuestID), nil
}

func (s *cartServiceImpl) loadGuestCart(ctx context.Context, guestID string) *models.Cart {
	cart, err := s.guests.Get(ctx, guestID)
	if err != nil {
		s.logger.Warn("guest cart read failed, using empty cart",
			zap.String("guest_id", guestID),
			zap.Error(err),
		)
		cart = nil
	}
	if cart == nil {
		cart = &models.Cart{Items: []models.LineItem{}}
	}
	return cart
}

// AddItem inserts the item at quantity 1 or bumps an existing entry by
// one. A non-empty cart bound to another vendor rejects the add with
// the cart untouched.
func (s *cartServiceImpl) AddItem(ctx context.Context, src models.CartSource, item models.LineItem, vendorName string) (*models.Cart, *ServiceError) {
	release, ok := s.acquire(src, item.ItemID)
	if !ok {
		return nil, errItemBusy
	}
	defer release()

	if item.Quantity <= 0 {
		item.Quantity = 1
	}
	item.Category = models.CategoryFromKind(item.Kind)

	if src.Authenticated() {
		current, svcErr := s.remoteCart(ctx, src.UserID)
		if svcErr != nil {
			return nil, svcErr
		}
		if !current.Empty() && current.VendorID != item.VendorID {
			return nil, errVendor
		}
		if err := s.upstream.AddItem(ctx, src.UserID, item); err != nil {
			return nil, fromUpstream(err)
		}
		return s.remoteCart(ctx, src.UserID)
	}

	cart := s.loadGuestCart(ctx, src.GuestID)
	if !cart.Empty() && cart.VendorID != item.VendorID {
		return nil, errVendor
	}

	if idx := cart.Find(item.ItemID); idx >= 0 {
		cart.Items[idx].Quantity++
	} else {
		if cart.Empty() {
			cart.VendorID = item.VendorID
			cart.VendorName = vendorName
		}
		cart.Items = append(cart.Items, item)
	}

	return s.saveGuestCart(ctx, src.GuestID, cart)
}

// IncreaseQuantity bumps the item's quantity by one.
func (s *cartServiceImpl) IncreaseQuantity(ctx context.Context, src models.CartSource, itemID string) (*models.Cart, *ServiceError) {
	release, ok := s.acquire(src, itemID)
	if !ok {
		return nil, errItemBusy
	}
	defer release()

	if src.Authenticated() {
		cart, svcErr := s.remoteCart(ctx, src.UserID)
		if svcErr != nil {
			return nil, svcErr
		}
		idx := cart.Find(itemID)
		if idx < 0 {
			return cart, nil
		}
		if err := s.upstream.AddOne(ctx, src.UserID, itemID, cart.Items[idx].Kind); err != nil {
			return nil, fromUpstream(err)
		}
		return s.remoteCart(ctx, src.UserID)
	}

	cart := s.loadGuestCart(ctx, src.GuestID)
	idx := cart.Find(itemID)
	if idx < 0 {
		return cart, nil
	}

	cart.Items[idx].Quantity++
	return s.saveGuestCart(ctx, src.GuestID, cart)
}

// DecreaseQuantity lowers the item's quantity by one. Quantity never
// drops below 1 here: at 1 the call is a no-op with no remote round
// trip and no persistence write. Removal is only via RemoveItem.
func (s *cartServiceImpl) DecreaseQuantity(ctx context.Context, src models.CartSource, itemID string) (*models.Cart, *ServiceError) {
	release, ok := s.acquire(src, itemID)
	if !ok {
		return nil, errItemBusy
	}
	defer release()

	if src.Authenticated() {
		cart, svcErr := s.remoteCart(ctx, src.UserID)
		if svcErr != nil {
			return nil, svcErr
		}
		idx := cart.Find(itemID)
		if idx < 0 || cart.Items[idx].Quantity <= 1 {
			return cart, nil
		}
		if err := s.upstream.RemoveOne(ctx, src.UserID, itemID, cart.Items[idx].Kind); err != nil {
			return nil, fromUpstream(err)
		}
		return s.remoteCart(ctx, src.UserID)
	}

	cart := s.loadGuestCart(ctx, src.GuestID)
	idx := cart.Find(itemID)
	if idx < 0 || cart.Items[idx].Quantity <= 1 {
		return cart, nil
	}

	cart.Items[idx].Quantity--
	return s.saveGuestCart(ctx, src.GuestID, cart)
}

// RemoveItem deletes the item regardless of quantity. A nonexistent id
// is a silent no-op.
func (s *cartServiceImpl) RemoveItem(ctx context.Context, src models.CartSource, itemID string) (*models.Cart, *ServiceError) {
	release, ok := s.acquire(src, itemID)
	if !ok {
		return nil, errItemBusy
	}
	defer release()

	if src.Authenticated() {
		cart, svcErr := s.remoteCart(ctx, src.UserID)
		if svcErr != nil {
			return nil, svcErr
		}
		idx := cart.Find(itemID)
		if idx < 0 {
			return cart, nil
		}
		if err := s.upstream.RemoveItem(ctx, src.UserID, itemID, cart.Items[idx].Kind); err != nil {
			return nil, fromUpstream(err)
		}
		return s.remoteCart(ctx, src.UserID)
	}

	cart := s.loadGuestCart(ctx, src.GuestID)
	idx := cart.Find(itemID)
	if idx < 0 {
		return cart, nil
	}

	cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	if cart.Empty() {
		cart.VendorID = ""
		cart.VendorName = ""
	}
	return s.saveGuestCart(ctx, src.GuestID, cart)
}

// ClearCart drops a guest's cart after checkout. Authenticated carts
// are cleared by the upstream order flow.
func (s *cartServiceImpl) ClearCart(ctx context.Context, src models.CartSource) *ServiceError {
	if src.Authenticated() {
		return nil
	}
	if err := s.guests.Delete(ctx, src.GuestID); err != nil {
		s.logger.Warn("failed to clear guest cart",
			zap.String("guest_id", src.GuestID),
			zap.Error(err),
		)
	}
	return nil
}

// Bill loads the cart, resolves the vendor's charge schedule and
// computes the checkout bill. An unreachable charges service falls
// back to the default schedule.
func (s *cartServiceImpl) Bill(ctx context.Context, src models.CartSource, orderType models.OrderType) (*models.Cart, *models.BillSummary, *ServiceError) {
	cart, svcErr := s.LoadCart(ctx, src)
	if svcErr != nil {
		return nil, nil, svcErr
	}

	schedule := models.DefaultChargeSchedule
	if !cart.Empty() {
		resolved, err := s.charges.Resolve(ctx, cart.VendorID)
		if err != nil {
			s.logger.Warn("charge schedule unavailable, applying defaults",
				zap.String("vendor_id", cart.VendorID),
				zap.Error(err),
			)
		} else {
			schedule = resolved
		}
	}

	bill := ComputeBill(cart, orderType, schedule)
	return cart, &bill, nil
}

// remoteCart fetches the authoritative cart for a mutation. Unlike
// LoadCart it never degrades to the guest copy: a mutation issued
// against guest-copy state could push the upstream cart somewhere the
// caller never saw, so upstream failures propagate instead.
func (s *cartServiceImpl) remoteCart(ctx context.Context, userID string) (*models.Cart, *ServiceError) {
	cart, err := s.upstream.GetCart(ctx, userID)
	if err != nil {
		return nil, fromUpstream(err)
	}
	return cart, nil
}

func (s *cartServiceImpl) saveGuestCart(ctx context.Context, guestID string, cart *models.Cart) (*models.Cart, *ServiceError) {
	if err := s.guests.Save(ctx, guestID, cart); err != nil {
		s.logger.Error("failed to persist guest cart",
			zap.String("guest_id", guestID),
			zap.Error(err),
		)
		return nil, errSave
	}
	return cart, nil
}

// acquire marks the (source, item) pair busy. The second of two
// overlapping mutations on the same item loses instead of racing.
func (s *cartServiceImpl) acquire(src models.CartSource, itemID string) (func(), bool) {
	key := src.Key() + "|" + itemID

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[key]; busy {
		return nil, false
	}
	s.inflight[key] = struct{}{}

	return func() {
		s.mu.Lock()
		delete(s.inflight, key)
		s.mu.Unlock()
	}, true
}
