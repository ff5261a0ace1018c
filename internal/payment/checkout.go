// Package payment starts hosted checkouts and interprets the callback the checkout page
// posts back through the app's web view.
package payment

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/lshigami/examprep/config"
	"github.com/shopspring/decimal"
)

type Order struct {
	ID          string
	Amount      decimal.Decimal
	Description string
	UserID      string
}

// Session is what the client needs to open the checkout page.
type Session struct {
	OrderID     string            `json:"order_id"`
	CheckoutURL string            `json:"checkout_url"`
	Params      map[string]string `json:"params"`
}

type Checkout interface {
	Start(ctx context.Context, order Order) (Session, error)
}

type hostedCheckout struct {
	baseURL  string
	keyID    string
	currency string
}

func NewHostedCheckout(cfg *config.Config) Checkout {
	return &hostedCheckout{
		baseURL:  cfg.Checkout.BaseURL,
		keyID:    cfg.Checkout.KeyID,
		currency: strings.ToUpper(cfg.Checkout.Currency),
	}
}

func (h *hostedCheckout) Start(_ context.Context, order Order) (Session, error) {
	if order.ID == "" || order.UserID == "" {
		return Session{}, errors.New("checkout order needs an id and a user")
	}
	if !order.Amount.IsPositive() {
		return Session{}, fmt.Errorf("checkout amount must be positive, got %s", order.Amount)
	}
	base, err := url.Parse(h.baseURL)
	if err != nil || base.Scheme == "" {
		return Session{}, fmt.Errorf("invalid checkout base url %q", h.baseURL)
	}

	params := map[string]string{
		"key":         h.keyID,
		"order_id":    order.ID,
		"amount":      MinorUnits(order.Amount).String(),
		"currency":    h.currency,
		"description": order.Description,
		"customer_id": order.UserID,
	}
	q := base.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	base.RawQuery = q.Encode()

	return Session{OrderID: order.ID, CheckoutURL: base.String(), Params: params}, nil
}

// MinorUnits converts an amount to the smallest currency unit (paise, cents).
func MinorUnits(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(decimal.NewFromInt(100)).Round(0)
}
