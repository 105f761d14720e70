package leads

import (
	"encoding/json"
	"fmt"
	"time"
)

// Status is the lead's position in the engagement lifecycle.
type Status string

const (
	StatusNew          Status = "new"
	StatusContacted    Status = "contacted"
	StatusQualified    Status = "qualified"
	StatusProposalSent Status = "proposal_sent"
	StatusClosedWon    Status = "closed_won"
	StatusClosedLost   Status = "closed_lost"
)

// Valid reports whether s is one of the known lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusQualified, StatusProposalSent, StatusClosedWon, StatusClosedLost:
		return true
	}
	return false
}

// UnmarshalJSON rejects unknown status values at the API boundary.
func (s *Status) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	v := Status(raw)
	if !v.Valid() {
		return fmt.Errorf("leads: unknown status %q", raw)
	}
	*s = v
	return nil
}

// ParseStatus converts a query-string value into a Status.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("leads: unknown status %q", raw)
	}
	return s, nil
}

// Source is the acquisition channel attributed to a lead.
type Source string

const (
	SourceCVRequest Source = "cv_request"
	SourceCalendly  Source = "calendly"
	SourceLinkedIn  Source = "linkedin"
	SourceReferral  Source = "referral"
	SourceDirect    Source = "direct"
	SourceOther     Source = "other"
)

// Valid reports whether s is one of the known acquisition channels.
func (s Source) Valid() bool {
	switch s {
	case SourceCVRequest, SourceCalendly, SourceLinkedIn, SourceReferral, SourceDirect, SourceOther:
		return true
	}
	return false
}

// UnmarshalJSON rejects unknown source values at the API boundary.
func (s *Source) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	v := Source(raw)
	if !v.Valid() {
		return fmt.Errorf("leads: unknown source %q", raw)
	}
	*s = v
	return nil
}

// ParseSource converts a query-string value into a Source.
func ParseSource(raw string) (Source, error) {
	s := Source(raw)
	if !s.Valid() {
		return "", fmt.Errorf("leads: unknown source %q", raw)
	}
	return s, nil
}

// Lead is a contact record created from a CV-download form submission
// or another acquisition channel.
type Lead struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	Phone            string     `json:"phone"`
	Company          string     `json:"company,omitempty"`
	Role             string     `json:"role,omitempty"`
	Purpose          string     `json:"purpose,omitempty"`
	Source           Source     `json:"source"`
	IPAddress        string     `json:"ip_address,omitempty"`
	UserAgent        string     `json:"user_agent,omitempty"`
	ConsentGiven     bool       `json:"consent_given"`
	ConsentTimestamp *time.Time `json:"consent_timestamp,omitempty"`
	Status           Status     `json:"status"`
	Notes            string     `json:"notes,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// CreateLeadParams carries the already-validated fields for a new lead.
// The intake validator owns field syntax; the store does not re-validate.
type CreateLeadParams struct {
	ID               string
	Name             string
	Email            string
	Phone            string
	Company          string
	Role             string
	Purpose          string
	Source           Source
	IPAddress        string
	UserAgent        string
	ConsentGiven     bool
	ConsentTimestamp time.Time
}

// UpdateLeadRequest applies a partial update; nil fields are left untouched.
type UpdateLeadRequest struct {
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Company *string `json:"company,omitempty"`
	Role    *string `json:"role,omitempty"`
	Purpose *string `json:"purpose,omitempty"`
	Status  *Status `json:"status,omitempty"`
	Notes   *string `json:"notes,omitempty"`
}

// HasChanges reports whether any field is set.
func (r *UpdateLeadRequest) HasChanges() bool {
	return r.Name != nil || r.Email != nil || r.Phone != nil || r.Company != nil ||
		r.Role != nil || r.Purpose != nil || r.Status != nil || r.Notes != nil
}

// ListFilter narrows and paginates a lead listing.
type ListFilter struct {
	Status *Status
	Source *Source
	Skip   int
	Limit  int
}

// MaxPageSize caps the page size even when a larger limit is requested.
const MaxPageSize = 100

// Normalize clamps pagination values into their allowed ranges.
func (f *ListFilter) Normalize() {
	if f.Skip < 0 {
		f.Skip = 0
	}
	if f.Limit <= 0 {
		f.Limit = 50
	}
	if f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}
}

// ListResult is one page of leads ordered by created_at descending.
type ListResult struct {
	Leads []*Lead `json:"leads"`
	Total int     `json:"total"`
	Page  int     `json:"page"`
	Size  int     `json:"size"`
	Pages int     `json:"pages"`
}
