package rewardstack

import (
	"context"
	"errors"
	"net/http"

	"github.com/changemaker-lab/backend/config"
	"github.com/changemaker-lab/backend/pkg/api"
)

type Endpoint struct {
	baseURL string
	apiKey  string

	apiGenerator api.Generator
}

func New(cfg config.RewardStackConfigs) *Endpoint {
	return &Endpoint{
		baseURL:      cfg.BaseURL,
		apiKey:       cfg.APIKey,
		apiGenerator: api.NewGenerator(),
	}
}

func (e *Endpoint) CreateParticipant(
	ctx context.Context, programID string, req CreateParticipantRequest,
) (Participant, error) {
	body := api.JSON{
		"firstname": req.FirstName,
		"lastname":  req.LastName,
		"email":     req.Email,
	}

	if req.AddressLine1 != "" {
		body["address"] = api.JSON{
			"address1": req.AddressLine1,
			"address2": req.AddressLine2,
			"city":     req.City,
			"state":    req.State,
			"zip":      req.ZipCode,
			"country":  req.Country,
			"phone":    req.Phone,
		}
	}

	resp, err := e.apiGenerator.New(e.baseURL, "/api/program/%s/participant", programID).
		Header("Authorization", "Bearer "+e.apiKey).
		Body(body).
		POST(ctx)
	if err != nil {
		return Participant{}, err
	}

	jsonBody, ok := resp.Body.(api.JSON)
	if !ok {
		return Participant{}, errors.New("invalid response")
	}

	if err := providerError(resp.Code, jsonBody); err != nil {
		return Participant{}, err
	}

	id, err := jsonBody.GetString("unique_id")
	if err != nil || id == "" {
		return Participant{}, errors.New("response missing participant id")
	}

	status, _ := jsonBody.GetString("status")
	return Participant{ID: id, Status: status}, nil
}

func (e *Endpoint) CreateTransaction(
	ctx context.Context, programID string, req CreateTransactionRequest,
) (Transaction, error) {
	body := api.JSON{
		"participant_id": req.ParticipantID,
		"type":           req.Type,
		"amount":         req.Amount,
	}

	if req.SkuID != "" {
		body["sku"] = req.SkuID
	}

	if req.Shipping != nil {
		body["shipping"] = api.JSON{
			"address1": req.Shipping.AddressLine1,
			"address2": req.Shipping.AddressLine2,
			"city":     req.Shipping.City,
			"state":    req.Shipping.State,
			"zip":      req.Shipping.ZipCode,
			"country":  req.Shipping.Country,
			"phone":    req.Shipping.Phone,
		}
	}

	resp, err := e.apiGenerator.New(e.baseURL, "/api/program/%s/transaction", programID).
		Header("Authorization", "Bearer "+e.apiKey).
		Body(body).
		POST(ctx)
	if err != nil {
		return Transaction{}, err
	}

	jsonBody, ok := resp.Body.(api.JSON)
	if !ok {
		return Transaction{}, errors.New("invalid response")
	}

	if err := providerError(resp.Code, jsonBody); err != nil {
		return Transaction{}, err
	}

	transactionID, _ := jsonBody.GetString("transaction_id")
	adjustmentID, _ := jsonBody.GetString("adjustment_id")
	status, _ := jsonBody.GetString("status")
	if transactionID == "" && adjustmentID == "" {
		return Transaction{}, errors.New("response missing transaction id")
	}

	return Transaction{
		TransactionID: transactionID,
		AdjustmentID:  adjustmentID,
		Status:        status,
	}, nil
}

// providerError converts a non-2xx provider response into an Error carrying
// the provider's human-readable message.
func providerError(code int, body api.JSON) error {
	if code >= http.StatusOK && code < http.StatusMultipleChoices {
		return nil
	}

	msg, err := body.GetString("message")
	if err != nil || msg == "" {
		msg, _ = body.GetString("error")
	}

	if msg == "" {
		msg = http.StatusText(code)
	}

	return Error{Code: code, Message: msg}
}
