// Package models defines the entities jobassist persists in the record store
// and the application status state machine.
package models

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/jobassist/internal/common"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusApplied   Status = "applied"
	StatusInterview Status = "interview"
	StatusOffer     Status = "offer"
	StatusRejected  Status = "rejected"
	StatusWithdrawn Status = "withdrawn"
)

// AllStatuses lists every status in pipeline order.
var AllStatuses = []Status{
	StatusDraft, StatusApplied, StatusInterview, StatusOffer, StatusRejected, StatusWithdrawn,
}

func (s Status) Valid() bool {
	for _, v := range AllStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Terminal reports whether no strict transition leaves s.
func (s Status) Terminal() bool {
	return s == StatusOffer || s == StatusRejected || s == StatusWithdrawn
}

// ParseStatus accepts a status name in any case.
func ParseStatus(v string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(v)))
	if !s.Valid() {
		return "", fmt.Errorf("%w: unknown status %q", common.ErrorValidation, v)
	}
	return s, nil
}

// TransitionPolicy decides which status changes are legal.
type TransitionPolicy string

const (
	// PolicyStrict enforces the transition table below.
	PolicyStrict TransitionPolicy = "strict"
	// PolicyPermissive accepts any change to a valid status.
	PolicyPermissive TransitionPolicy = "permissive"
)

func ParsePolicy(v string) (TransitionPolicy, error) {
	switch p := TransitionPolicy(strings.ToLower(v)); p {
	case PolicyStrict, PolicyPermissive:
		return p, nil
	case "":
		return PolicyStrict, nil
	}
	return "", fmt.Errorf("unknown transition policy %q", v)
}

// interview -> interview records another round; interview -> applied
// re-opens the pipeline after a stalled process.
var strictTransitions = map[Status][]Status{
	StatusDraft:     {StatusApplied, StatusWithdrawn},
	StatusApplied:   {StatusInterview, StatusOffer, StatusRejected, StatusWithdrawn},
	StatusInterview: {StatusInterview, StatusApplied, StatusOffer, StatusRejected, StatusWithdrawn},
}

// Allowed returns the statuses reachable from s under the policy.
func (p TransitionPolicy) Allowed(from Status) []Status {
	if p == PolicyPermissive {
		return AllStatuses
	}
	return strictTransitions[from]
}

// Check returns common.ErrInvalidTransition when from -> to is not allowed.
func (p TransitionPolicy) Check(from, to Status) error {
	if !to.Valid() {
		return fmt.Errorf("%w: unknown status %q", common.ErrorValidation, to)
	}
	for _, s := range p.Allowed(from) {
		if s == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", common.ErrInvalidTransition, from, to)
}
