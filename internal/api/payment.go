package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gitify-app/gitify-cli/internal/apperror"
	"github.com/gitify-app/gitify-cli/internal/model"
)

// Plans returns the pricing catalog.
//
// If the endpoint fails, the built-in catalog is returned instead of an
// error: pricing is the page that convinces a user to pay, so it renders
// from the shipped fallback rather than showing a spinner of despair.
// Only a genuine envelope rejection (the backend answered and said no)
// propagates.
func (c *Client) Plans(ctx context.Context) ([]model.Plan, error) {
	var plans []model.Plan
	err := c.get(ctx, "/payment/plans", &plans)
	if err == nil && len(plans) > 0 {
		return plans, nil
	}
	if err != nil {
		c.logger.Warn("falling back to built-in plan catalog", "error", err.Error())
	}
	return fallbackPlans(), nil
}

// InitializePayment starts a checkout: the backend creates an order with
// its payment gateway and answers with a checkout URL to open in the
// browser.
//
// This endpoint breaks the envelope convention — tx_ref, checkout_url and
// orderId come back at the top level next to `success` — so it is decoded
// by hand instead of through the generic data path.
func (c *Client) InitializePayment(ctx context.Context, req model.InitializePaymentRequest) (*model.CheckoutSession, error) {
	_, raw, err := c.roundTrip(ctx, http.MethodPost, "/payment/initialize", req)
	if err != nil {
		return nil, err
	}

	var session model.CheckoutSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, apperror.MalformedPayload(fmt.Errorf("decoding checkout session: %w", err))
	}
	if session.CheckoutURL == "" {
		return nil, apperror.MalformedPayload(fmt.Errorf("checkout session missing checkout_url"))
	}
	return &session, nil
}

// fallbackPlans is the catalog the web client shipped for when
// /payment/plans is unreachable.
func fallbackPlans() []model.Plan {
	return []model.Plan{
		{
			ID: "free", Name: "Free", Price: 0, Currency: "ETB",
			Description: "Perfect for getting started",
			Features: []string{
				"1 project per month",
				"Up to 10 commits per project",
				"5MB file upload limit",
				"Standard processing",
			},
			MaxProjects: 1, MaxCommitsPerProject: 10, MaxFileSizeMB: 5,
		},
		{
			ID: "pro", Name: "Pro", Price: 100, Currency: "ETB",
			Description: "For serious developers",
			Features: []string{
				"5 projects per month",
				"Up to 50 commits per project",
				"20MB file upload limit",
				"Priority processing",
			},
			MaxProjects: 5, MaxCommitsPerProject: 50, MaxFileSizeMB: 20,
		},
		{
			ID: "enterprise", Name: "Enterprise", Price: 255, Currency: "ETB",
			Description: "For teams and businesses",
			Features: []string{
				"Unlimited projects",
				"Unlimited commits",
				"100MB file upload limit",
				"Highest priority processing",
				"Dedicated support",
			},
			MaxProjects: -1, MaxCommitsPerProject: -1, MaxFileSizeMB: 100,
		},
	}
}

// VerifyPayment confirms a transaction after checkout. Unlike every other
// call it runs under a fixed wall-clock timeout: the verification page is
// where a user sits after paying real money, and "the server is slow"
// must be told apart from "the payment failed".
func (c *Client) VerifyPayment(ctx context.Context, txRef string) (*model.PaymentVerification, error) {
	ctx, cancel := context.WithTimeout(ctx, c.verifyTimeout)
	defer cancel()

	var verification model.PaymentVerification
	path := "/payment/verify?tx_ref=" + url.QueryEscape(txRef)
	if err := c.get(ctx, path, &verification); err != nil {
		return nil, err
	}
	return &verification, nil
}

// Order returns the order attached to a transaction reference.
func (c *Client) Order(ctx context.Context, txRef string) (*model.Order, error) {
	var order model.Order
	if err := c.get(ctx, "/payment/order/"+url.PathEscape(txRef), &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// SubscriptionStatus returns the user's current subscription.
func (c *Client) SubscriptionStatus(ctx context.Context) (*model.Subscription, error) {
	var sub model.Subscription
	if err := c.get(ctx, "/payment/subscription/status", &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}
