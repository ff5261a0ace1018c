package payment

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
	OutcomeCancel  Outcome = "cancel"
)

// Receipt is the only part of a provider response the rest of the service keeps.
type Receipt struct {
	PaymentID string `json:"payment_id"`
}

type Result struct {
	Outcome Outcome
	Receipt Receipt
	Reason  string
}

var ErrMalformedCallback = errors.New("malformed checkout callback")

var paymentIDKeys = []string{"payment_id", "paymentId", "razorpay_payment_id", "transaction_id", "id"}

// ParseCallback reads the message relayed from the checkout page. Both
// {"status":"success","payload":{...}} and {"event":"payment.success",...} shapes are
// accepted.
func ParseCallback(raw []byte) (Result, error) {
	var msg map[string]any
	if err := json.Unmarshal(raw, &msg); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrMalformedCallback, err)
	}

	status := strings.ToLower(stringField(msg, "status"))
	if status == "" {
		status = strings.ToLower(stringField(msg, "event"))
		status = strings.TrimPrefix(status, "payment.")
	}
	payload, _ := msg["payload"].(map[string]any)

	switch status {
	case "success", "succeeded", "captured", "paid":
		id := firstString(payload, paymentIDKeys...)
		if id == "" {
			id = firstString(msg, paymentIDKeys...)
		}
		if id == "" {
			return Result{}, fmt.Errorf("%w: success without a payment id", ErrMalformedCallback)
		}
		return Result{Outcome: OutcomeSuccess, Receipt: Receipt{PaymentID: id}}, nil
	case "failure", "failed", "error":
		return Result{Outcome: OutcomeFailure, Reason: failureReason(msg, payload)}, nil
	case "cancel", "cancelled", "canceled", "dismissed":
		return Result{Outcome: OutcomeCancel}, nil
	default:
		return Result{}, fmt.Errorf("%w: unknown status %q", ErrMalformedCallback, status)
	}
}

func failureReason(msg, payload map[string]any) string {
	for _, src := range []map[string]any{payload, msg} {
		if src == nil {
			continue
		}
		switch e := src["error"].(type) {
		case string:
			if e != "" {
				return e
			}
		case map[string]any:
			if d := firstString(e, "description", "reason", "message", "code"); d != "" {
				return d
			}
		}
		if d := firstString(src, "reason", "message", "description"); d != "" {
			return d
		}
	}
	return "payment failed"
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return strings.TrimSpace(s)
}

func firstString(m map[string]any, keys ...string) string {
	if m == nil {
		return ""
	}
	for _, k := range keys {
		if s := stringField(m, k); s != "" {
			return s
		}
	}
	return ""
}
