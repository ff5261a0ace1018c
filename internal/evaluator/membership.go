package evaluator

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type Membership struct {
	PlanID    string          `json:"planId"`
	StartDate time.Time       `json:"startDate"`
	EndDate   time.Time       `json:"endDate"`
	Amount    decimal.Decimal `json:"amount"`
}

// IsActive reports whether m is still running at now. The end instant itself is expired.
// StartDate is not checked.
func IsActive(m *Membership, now time.Time) bool {
	return m != nil && now.Before(m.EndDate)
}

// storedMembership mirrors the membership field as clients and older app versions
// wrote it. Dates arrive in several shapes, see parseInstant.
type storedMembership struct {
	PlanID    string          `json:"planId"`
	StartDate json.RawMessage `json:"startDate"`
	EndDate   json.RawMessage `json:"endDate"`
	Amount    json.RawMessage `json:"amount"`
}

// ResolveMembership decodes a user's stored membership field. Empty input and JSON null
// mean no membership. An end date that cannot be parsed leaves EndDate zero, which
// IsActive treats as expired.
func ResolveMembership(raw []byte, now time.Time) *Membership {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) || bytes.Equal(raw, []byte("{}")) {
		return nil
	}
	var stored storedMembership
	if err := json.Unmarshal(raw, &stored); err != nil {
		log.Warn().Err(err).Msg("Malformed membership field, treating as no membership")
		return nil
	}

	m := &Membership{PlanID: stored.PlanID}
	if t, ok := parseInstant(stored.StartDate); ok {
		m.StartDate = t
	}
	if t, ok := parseInstant(stored.EndDate); ok {
		m.EndDate = t
	} else {
		log.Warn().Str("planId", stored.PlanID).RawJSON("endDate", nonEmpty(stored.EndDate)).Msg("Unparseable membership end date, treating as expired")
	}
	m.Amount = parseAmount(stored.Amount)

	if !IsActive(m, now) {
		log.Debug().Str("planId", m.PlanID).Time("endDate", m.EndDate).Msg("Membership resolved as expired")
	}
	return m
}

var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// parseInstant accepts an ISO string, epoch milliseconds or a {seconds, nanoseconds}
// timestamp object.
func parseInstant(raw json.RawMessage) (time.Time, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return time.Time{}, false
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return time.Time{}, false
		}
		s = strings.TrimSpace(s)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC(), true
			}
		}
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
			return time.UnixMilli(ms).UTC(), true
		}
		return time.Time{}, false
	case '{':
		var ts struct {
			Seconds     *int64 `json:"seconds"`
			Nanoseconds int64  `json:"nanoseconds"`
		}
		if err := json.Unmarshal(raw, &ts); err != nil || ts.Seconds == nil {
			return time.Time{}, false
		}
		return time.Unix(*ts.Seconds, ts.Nanoseconds).UTC(), true
	default:
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return time.Time{}, false
		}
		return time.UnixMilli(int64(f)).UTC(), true
	}
}

func parseAmount(raw json.RawMessage) decimal.Decimal {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.Zero
	}
	s := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Zero
		}
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func nonEmpty(raw json.RawMessage) []byte {
	if len(bytes.TrimSpace(raw)) == 0 {
		return []byte("null")
	}
	return raw
}
