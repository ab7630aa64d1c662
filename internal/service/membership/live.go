package membership

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"gym_checkin/internal/config"
	"gym_checkin/internal/model"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// LiveVerifier ходит в Square: ищет клиента по телефону, затем его подписки
type LiveVerifier struct {
	client     *http.Client
	baseURL    string
	apiVersion string
	locationID string
	logger     *zap.Logger
}

func NewLiveVerifier(cfg config.SquareConfig, logger *zap.Logger) *LiveVerifier {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.AccessToken})
	client := oauth2.NewClient(context.Background(), ts)
	// у транспорта по умолчанию таймаута нет
	client.Timeout = cfg.Timeout

	return &LiveVerifier{
		client:     client,
		baseURL:    strings.TrimRight(cfg.Endpoint(), "/"),
		apiVersion: cfg.APIVersion,
		locationID: cfg.LocationID,
		logger:     logger,
	}
}

// APIError: ответ Square с не-2xx статусом
type APIError struct {
	StatusCode int
	Errors     []squareError
}

func (e *APIError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("square api: status %d", e.StatusCode)
	}
	first := e.Errors[0]
	return fmt.Sprintf("square api: status %d: %s %s: %s", e.StatusCode, first.Category, first.Code, first.Detail)
}

type squareError struct {
	Category string `json:"category"`
	Code     string `json:"code"`
	Detail   string `json:"detail"`
}

type squareCustomer struct {
	ID          string `json:"id"`
	GivenName   string `json:"given_name"`
	FamilyName  string `json:"family_name"`
	Nickname    string `json:"nickname"`
	CompanyName string `json:"company_name"`
	PhoneNumber string `json:"phone_number"`
}

type squareSubscription struct {
	ID                 string `json:"id"`
	Status             string `json:"status"`
	ChargedThroughDate string `json:"charged_through_date"`
}

type searchCustomersResponse struct {
	Customers []squareCustomer `json:"customers"`
}

type searchSubscriptionsResponse struct {
	Subscriptions []squareSubscription `json:"subscriptions"`
}

func (v *LiveVerifier) Verify(ctx context.Context, phone string) (*model.Verdict, error) {
	customer, err := v.findCustomer(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("search customer: %w", err)
	}
	if customer == nil {
		v.logger.Info("no square customer for phone", zap.String("phone", phone))
		return &model.Verdict{
			Success: false,
			Message: msgCustomerNotFound,
			Error:   model.ErrCustomerNotFound,
		}, nil
	}

	sub, err := v.findActiveSubscription(ctx, customer.ID)
	if err != nil {
		return nil, fmt.Errorf("search subscriptions for %s: %w", customer.ID, err)
	}

	name := displayName(customer)
	if sub == nil {
		return &model.Verdict{
			Success: false,
			Message: msgNoActiveMembership,
			Error:   model.ErrNoActiveMembership,
			CustomerData: &model.CustomerData{
				ID:               customer.ID,
				Name:             name,
				MembershipStatus: model.MembershipInactive,
				PaymentStatus:    paymentNone,
			},
		}, nil
	}
	return &model.Verdict{
		Success: true,
		Message: msgWelcome,
		CustomerData: &model.CustomerData{
			ID:               customer.ID,
			Name:             name,
			MembershipStatus: model.MembershipActive,
			ExpirationDate:   sub.ChargedThroughDate,
			PaymentStatus:    paymentSubscriptionActive,
		},
	}, nil
}

func (v *LiveVerifier) findCustomer(ctx context.Context, phone string) (*squareCustomer, error) {
	body := map[string]any{
		"query": map[string]any{
			"filter": map[string]any{
				"phone_number": map[string]string{"exact": phone},
			},
		},
		"limit": 1,
	}
	var resp searchCustomersResponse
	if err := v.post(ctx, "/v2/customers/search", body, &resp); err != nil {
		return nil, err
	}
	if len(resp.Customers) == 0 {
		return nil, nil
	}
	return &resp.Customers[0], nil
}

func (v *LiveVerifier) findActiveSubscription(ctx context.Context, customerID string) (*squareSubscription, error) {
	filter := map[string]any{"customer_ids": []string{customerID}}
	if v.locationID != "" {
		filter["location_ids"] = []string{v.locationID}
	}
	body := map[string]any{"query": map[string]any{"filter": filter}}

	var resp searchSubscriptionsResponse
	if err := v.post(ctx, "/v2/subscriptions/search", body, &resp); err != nil {
		return nil, err
	}
	for i := range resp.Subscriptions {
		if resp.Subscriptions[i].Status == "ACTIVE" {
			return &resp.Subscriptions[i], nil
		}
	}
	return nil, nil
}

func (v *LiveVerifier) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Square-Version", v.apiVersion)

	resp, err := v.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errBody struct {
			Errors []squareError `json:"errors"`
		}
		if json.Unmarshal(data, &errBody) == nil {
			apiErr.Errors = errBody.Errors
		}
		return apiErr
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func displayName(c *squareCustomer) string {
	name := strings.TrimSpace(c.GivenName + " " + c.FamilyName)
	switch {
	case name != "":
		return name
	case c.Nickname != "":
		return c.Nickname
	case c.CompanyName != "":
		return c.CompanyName
	}
	return "Unknown"
}
