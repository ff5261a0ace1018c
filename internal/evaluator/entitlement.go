package evaluator

import "fmt"

type Verdict int

const (
	Denied Verdict = iota
	Allowed
	AllowedAsFreeTrial
)

func (v Verdict) String() string {
	switch v {
	case Allowed:
		return "allowed"
	case AllowedAsFreeTrial:
		return "allowed_as_free_trial"
	default:
		return "denied"
	}
}

func (v Verdict) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

func (v *Verdict) UnmarshalText(b []byte) error {
	switch string(b) {
	case "allowed":
		*v = Allowed
	case "allowed_as_free_trial":
		*v = AllowedAsFreeTrial
	case "denied":
		*v = Denied
	default:
		return fmt.Errorf("unknown verdict %q", b)
	}
	return nil
}

// CanAccess is true for both allowing verdicts.
func (v Verdict) CanAccess() bool { return v == Allowed || v == AllowedAsFreeTrial }

// Content is the part of a catalog item the entitlement rules look at.
type Content struct {
	IsPremium bool
}

func Decide(content Content, membershipActive, isFreeTrialSlot bool) Verdict {
	switch {
	case !content.IsPremium:
		return Allowed
	case membershipActive:
		return Allowed
	case isFreeTrialSlot:
		return AllowedAsFreeTrial
	default:
		return Denied
	}
}

// FreeTrialIndex returns the position of the first premium item in items, or -1.
func FreeTrialIndex(items []Content) int {
	for i, it := range items {
		if it.IsPremium {
			return i
		}
	}
	return -1
}

// CatalogPosition locates an item inside the listing it is presented in.
type CatalogPosition struct {
	Index          int
	FreeTrialIndex int
}

func (p CatalogPosition) IsFreeTrialSlot() bool {
	return p.FreeTrialIndex >= 0 && p.Index == p.FreeTrialIndex
}
