package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/target/storefront/internal/apiclient"
	"github.com/target/storefront/internal/domain/model"
	apperrors "github.com/target/storefront/internal/errors"
)

// CheckoutServiceOptions groups dependencies for CheckoutService.
type CheckoutServiceOptions struct {
	Client APIClient    // Required
	Logger *slog.Logger // Optional
}

// AppliedCoupon is the coupon accepted for the pending order.
type AppliedCoupon struct {
	Code     string
	Discount model.Decimal
	Coupon   *model.Coupon
}

// CheckoutService manages shipping addresses, the applied coupon and the
// choices that become the next order, and pays for placed orders.
type CheckoutService struct {
	client APIClient
	logger *slog.Logger

	mu            sync.RWMutex
	addresses     []model.ShippingAddress
	selected      int64
	paymentMethod model.PaymentMethod
	notes         string
	coupon        *AppliedCoupon
}

// NewCheckoutService constructs a new CheckoutService.
func NewCheckoutService(opts CheckoutServiceOptions) *CheckoutService {
	if opts.Client == nil {
		panic("APIClient is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &CheckoutService{
		client:        opts.Client,
		logger:        logger.With("component", "checkout"),
		paymentMethod: model.PaymentMethodStripe,
	}
}

// FetchAddresses loads the saved addresses and selects the default one when
// nothing is selected yet. A failed load empties the cache.
func (s *CheckoutService) FetchAddresses(ctx context.Context) ([]model.ShippingAddress, error) {
	var list model.List[model.ShippingAddress]
	if err := s.client.Get(ctx, apiclient.ShippingAddressesPath, nil, &list); err != nil {
		s.mu.Lock()
		s.addresses = nil
		s.mu.Unlock()
		return nil, fmt.Errorf("fetch shipping addresses: %w", err)
	}

	s.mu.Lock()
	s.addresses = slices.Clone([]model.ShippingAddress(list))
	if s.selected == 0 {
		if def := model.DefaultAddress(s.addresses); def != nil {
			s.selected = def.ID
		}
	}
	s.mu.Unlock()
	return s.Addresses(), nil
}

// AddAddress saves a new address. It becomes selected when it is the default
// or the only address.
func (s *CheckoutService) AddAddress(ctx context.Context, in model.ShippingAddressInput) (*model.ShippingAddress, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	var addr model.ShippingAddress
	if err := s.client.Post(ctx, apiclient.ShippingAddressCreatePath, in, &addr); err != nil {
		return nil, fmt.Errorf("add shipping address: %w", err)
	}

	s.mu.Lock()
	if addr.IsDefault {
		clearDefaults(s.addresses)
	}
	s.addresses = append(s.addresses, addr)
	if addr.IsDefault || len(s.addresses) == 1 {
		s.selected = addr.ID
	}
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "shipping address added", "address_id", addr.ID)
	return &addr, nil
}

// UpdateAddress changes the provided fields of an address (PATCH).
func (s *CheckoutService) UpdateAddress(ctx context.Context, id int64, in model.ShippingAddressInput) (*model.ShippingAddress, error) {
	var addr model.ShippingAddress
	if err := s.client.Patch(ctx, apiclient.ShippingAddressUpdatePath(id), in, &addr); err != nil {
		return nil, fmt.Errorf("update shipping address %d: %w", id, err)
	}
	s.replace(addr)
	return &addr, nil
}

// DeleteAddress removes an address and drops it from the selection.
func (s *CheckoutService) DeleteAddress(ctx context.Context, id int64) error {
	if err := s.client.Delete(ctx, apiclient.ShippingAddressDeletePath(id), nil); err != nil {
		return fmt.Errorf("delete shipping address %d: %w", id, err)
	}
	s.mu.Lock()
	s.addresses = slices.DeleteFunc(s.addresses, func(a model.ShippingAddress) bool { return a.ID == id })
	if s.selected == id {
		s.selected = 0
	}
	s.mu.Unlock()
	return nil
}

// SetDefaultAddress makes id the default address; every other cached address
// loses the flag.
func (s *CheckoutService) SetDefaultAddress(ctx context.Context, id int64) (*model.ShippingAddress, error) {
	var env model.AddressEnvelope
	if err := s.client.Post(ctx, apiclient.ShippingAddressSetDefaultPath(id), nil, &env); err != nil {
		return nil, fmt.Errorf("set default shipping address %d: %w", id, err)
	}
	s.mu.Lock()
	clearDefaults(s.addresses)
	s.mu.Unlock()
	s.replace(env.Address)
	addr := env.Address
	return &addr, nil
}

func (s *CheckoutService) replace(addr model.ShippingAddress) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := slices.IndexFunc(s.addresses, func(a model.ShippingAddress) bool { return a.ID == addr.ID }); i >= 0 {
		s.addresses[i] = addr
	}
}

func clearDefaults(addresses []model.ShippingAddress) {
	for i := range addresses {
		addresses[i].IsDefault = false
	}
}

// SelectAddress picks the address the next order ships to.
func (s *CheckoutService) SelectAddress(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = id
}

// SelectedAddress returns a copy of the selected cached address, or nil.
func (s *CheckoutService) SelectedAddress() *model.ShippingAddress {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := slices.IndexFunc(s.addresses, func(a model.ShippingAddress) bool { return a.ID == s.selected })
	if i < 0 {
		return nil
	}
	addr := s.addresses[i]
	return &addr
}

// Addresses returns a copy of the cached addresses.
func (s *CheckoutService) Addresses() []model.ShippingAddress {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.addresses)
}

// DefaultAddress returns the cached default address, or nil.
func (s *CheckoutService) DefaultAddress() *model.ShippingAddress {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.DefaultAddress(s.addresses)
}

// ValidateCoupon checks code against orderAmount and applies it on success.
// An empty code clears the applied coupon and returns nil, nil. Any failure
// also clears it.
func (s *CheckoutService) ValidateCoupon(ctx context.Context, code, orderAmount string) (*model.CouponValidation, error) {
	if code == "" {
		s.ClearCoupon()
		return nil, nil
	}
	in := model.ValidateCouponInput{Code: code, OrderAmount: orderAmount}
	if err := validateInput(in); err != nil {
		return nil, err
	}

	var out model.CouponValidation
	if err := s.client.Post(ctx, apiclient.CouponValidatePath, in, &out); err != nil {
		s.ClearCoupon()
		return nil, fmt.Errorf("validate coupon: %w", err)
	}
	if !out.Valid {
		s.ClearCoupon()
		return nil, apperrors.ValidationField("code", "Invalid coupon code")
	}

	s.mu.Lock()
	s.coupon = &AppliedCoupon{Code: code, Discount: out.DiscountAmount, Coupon: out.Coupon}
	s.mu.Unlock()
	s.logger.DebugContext(ctx, "coupon applied", "code", code, "discount", out.DiscountAmount.String())
	return &out, nil
}

// Coupon returns the applied coupon, or nil.
func (s *CheckoutService) Coupon() *AppliedCoupon {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.coupon == nil {
		return nil
	}
	c := *s.coupon
	return &c
}

// ClearCoupon drops the applied coupon.
func (s *CheckoutService) ClearCoupon() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coupon = nil
}

// SetPaymentMethod picks the payment method for the next order.
func (s *CheckoutService) SetPaymentMethod(m model.PaymentMethod) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paymentMethod = m
}

// SetNotes sets the customer notes for the next order.
func (s *CheckoutService) SetNotes(notes string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = notes
}

// CanProceed reports whether an address and a payment method are chosen.
func (s *CheckoutService) CanProceed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected != 0 && s.paymentMethod != ""
}

// OrderInput assembles the order creation body from the current choices.
func (s *CheckoutService) OrderInput() (model.CreateOrderInput, error) {
	s.mu.RLock()
	in := model.CreateOrderInput{
		ShippingAddressID: s.selected,
		PaymentMethod:     s.paymentMethod,
		CustomerNotes:     s.notes,
	}
	if s.coupon != nil {
		in.CouponCode = s.coupon.Code
	}
	s.mu.RUnlock()

	if err := validateInput(in); err != nil {
		return model.CreateOrderInput{}, err
	}
	return in, nil
}

// Pay pays for a placed order.
func (s *CheckoutService) Pay(ctx context.Context, orderNumber string) (*model.PaymentResult, error) {
	var out model.PaymentResult
	if err := s.client.Post(ctx, apiclient.PaymentCreatePath(orderNumber), struct{}{}, &out); err != nil {
		return nil, fmt.Errorf("pay order %s: %w", orderNumber, err)
	}
	s.logger.InfoContext(ctx, "order paid", "order_number", orderNumber, "payment_id", out.Payment.PaymentID, "status", out.Payment.Status)
	return &out, nil
}

// Payment loads a payment by id.
func (s *CheckoutService) Payment(ctx context.Context, id int64) (*model.Payment, error) {
	var out model.Payment
	if err := s.client.Get(ctx, apiclient.PaymentPath(id), nil, &out); err != nil {
		return nil, fmt.Errorf("get payment %d: %w", id, err)
	}
	return &out, nil
}

// Reset drops the cached addresses and every pending checkout choice.
func (s *CheckoutService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addresses = nil
	s.selected = 0
	s.paymentMethod = model.PaymentMethodStripe
	s.notes = ""
	s.coupon = nil
}
