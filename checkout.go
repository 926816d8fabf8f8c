// checkout.go

package main

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// Checkout bodies carry an image URL per line item; cap them.
const maxCheckoutBody = 5 << 20

// paymentClient is the slice of the payment provider's API the handlers
// use, kept narrow so tests can substitute a fake.
type paymentClient interface {
	CreateCustomer(params *stripe.CustomerParams) (*stripe.Customer, error)
	CreateCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	GetCustomer(id string) (*stripe.Customer, error)
}

type stripeClient struct {
	api *client.API
}

func newStripeClient(apiKey string) paymentClient {
	api := &client.API{}
	api.Init(apiKey, nil)
	return &stripeClient{api: api}
}

func (s *stripeClient) CreateCustomer(params *stripe.CustomerParams) (*stripe.Customer, error) {
	return s.api.Customers.New(params)
}

func (s *stripeClient) CreateCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	return s.api.CheckoutSessions.New(params)
}

func (s *stripeClient) GetCustomer(id string) (*stripe.Customer, error) {
	return s.api.Customers.Get(id, nil)
}

// createCheckoutSession registers a provider customer carrying the cart as
// metadata, then requests a hosted checkout session and returns its URL.
// No local order is written here; order creation is a separate client call.
func (s *Server) createCheckoutSession(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxCheckoutBody)

	var req CheckoutRequest
	if err := bindAndValidate(c, &req, s.validate); err != nil {
		return
	}

	cart, err := json.Marshal(req.CartItems)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	custParams := &stripe.CustomerParams{}
	custParams.Context = c.Request.Context()
	custParams.AddMetadata("userId", req.UserID)
	custParams.AddMetadata("cart", string(cart))

	customer, err := s.payments.CreateCustomer(custParams)
	if err != nil {
		writePaymentError(c, err)
		return
	}

	sess, err := s.payments.CreateCheckoutSession(s.sessionParams(c.Request.Context(), customer.ID, req.CartItems))
	if err != nil {
		writePaymentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": sess.URL})
}

func (s *Server) sessionParams(ctx context.Context, customerID string, items []CartItem) *stripe.CheckoutSessionParams {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		ShippingAddressCollection: &stripe.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: stripe.StringSlice([]string{"US", "CA", "BD"}),
		},
		ShippingOptions: []*stripe.CheckoutSessionShippingOptionParams{
			{
				ShippingRateData: &stripe.CheckoutSessionShippingOptionShippingRateDataParams{
					Type: stripe.String("fixed_amount"),
					FixedAmount: &stripe.CheckoutSessionShippingOptionShippingRateDataFixedAmountParams{
						Amount:   stripe.Int64(0),
						Currency: stripe.String(string(stripe.CurrencyUSD)),
					},
					DisplayName: stripe.String("Free shipping"),
					DeliveryEstimate: &stripe.CheckoutSessionShippingOptionShippingRateDataDeliveryEstimateParams{
						Minimum: &stripe.CheckoutSessionShippingOptionShippingRateDataDeliveryEstimateMinimumParams{
							Unit:  stripe.String("business_day"),
							Value: stripe.Int64(5),
						},
						Maximum: &stripe.CheckoutSessionShippingOptionShippingRateDataDeliveryEstimateMaximumParams{
							Unit:  stripe.String("business_day"),
							Value: stripe.Int64(7),
						},
					},
				},
			},
		},
		PhoneNumberCollection: &stripe.CheckoutSessionPhoneNumberCollectionParams{
			Enabled: stripe.Bool(true),
		},
		Customer:   stripe.String(customerID),
		LineItems:  buildLineItems(items, s.cfg.TaxRateID),
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(s.cfg.SuccessURL),
		CancelURL:  stripe.String(s.cfg.CancelURL),
	}
	params.Context = ctx
	return params
}

// buildLineItems converts cart entries into provider price descriptors.
func buildLineItems(items []CartItem, taxRateID string) []*stripe.CheckoutSessionLineItemParams {
	out := make([]*stripe.CheckoutSessionLineItemParams, 0, len(items))
	for _, item := range items {
		productData := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name:     stripe.String(item.Name),
			Metadata: map[string]string{"id": item.ID},
		}
		if item.Image != "" {
			productData.Images = stripe.StringSlice([]string{item.Image})
		}
		line := &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(string(stripe.CurrencyUSD)),
				ProductData: productData,
				UnitAmount:  stripe.Int64(unitAmount(item.Price)),
			},
			Quantity: stripe.Int64(item.Qty),
		}
		if taxRateID != "" {
			line.TaxRates = stripe.StringSlice([]string{taxRateID})
		}
		out = append(out, line)
	}
	return out
}

// unitAmount converts a price in dollars to minor currency units.
func unitAmount(price float64) int64 {
	return int64(math.Round(price * 100))
}

func writePaymentError(c *gin.Context, err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "payment provider timeout"})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": "payment session failed", "detail": err.Error()})
}
