package leads

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Repository defines the interface for lead storage.
type Repository interface {
	Create(ctx context.Context, params CreateLeadParams) (*Lead, error)
	GetByID(ctx context.Context, id string) (*Lead, error)
	GetByEmail(ctx context.Context, email string) (*Lead, error)
	List(ctx context.Context, filter ListFilter) (*ListResult, error)
	Update(ctx context.Context, id string, req *UpdateLeadRequest) (bool, error)
	Delete(ctx context.Context, id string) error
}

// InMemoryRepository keeps leads in a map. Used in tests and local dev
// when no database is configured.
type InMemoryRepository struct {
	mu    sync.RWMutex
	leads map[string]*Lead
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{leads: make(map[string]*Lead)}
}

// Create stores a new lead with status "new".
func (r *InMemoryRepository) Create(ctx context.Context, params CreateLeadParams) (*Lead, error) {
	now := time.Now().UTC()
	consentAt := params.ConsentTimestamp
	lead := &Lead{
		ID:               params.ID,
		Name:             params.Name,
		Email:            params.Email,
		Phone:            params.Phone,
		Company:          params.Company,
		Role:             params.Role,
		Purpose:          params.Purpose,
		Source:           params.Source,
		IPAddress:        params.IPAddress,
		UserAgent:        params.UserAgent,
		ConsentGiven:     params.ConsentGiven,
		ConsentTimestamp: &consentAt,
		Status:           StatusNew,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	r.mu.Lock()
	r.leads[lead.ID] = lead
	r.mu.Unlock()

	return lead, nil
}

// GetByID retrieves a lead by its identifier.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lead, ok := r.leads[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *lead
	return &cp, nil
}

// GetByEmail returns the most recently created lead with the given email.
func (r *InMemoryRepository) GetByEmail(ctx context.Context, email string) (*Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *Lead
	for _, lead := range r.leads {
		if lead.Email != email {
			continue
		}
		if latest == nil || lead.CreatedAt.After(latest.CreatedAt) {
			latest = lead
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

// List returns one page of leads ordered by created_at descending.
func (r *InMemoryRepository) List(ctx context.Context, filter ListFilter) (*ListResult, error) {
	filter.Normalize()

	r.mu.RLock()
	matched := make([]*Lead, 0, len(r.leads))
	for _, lead := range r.leads {
		if filter.Status != nil && lead.Status != *filter.Status {
			continue
		}
		if filter.Source != nil && lead.Source != *filter.Source {
			continue
		}
		cp := *lead
		matched = append(matched, &cp)
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	start := filter.Skip
	if start > total {
		start = total
	}
	end := start + filter.Limit
	if end > total {
		end = total
	}

	return &ListResult{
		Leads: matched[start:end],
		Total: total,
		Page:  filter.Skip/filter.Limit + 1,
		Size:  filter.Limit,
		Pages: (total + filter.Limit - 1) / filter.Limit,
	}, nil
}

// Update applies a partial update and reports whether anything changed.
// An empty request succeeds without touching the record.
func (r *InMemoryRepository) Update(ctx context.Context, id string, req *UpdateLeadRequest) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	lead, ok := r.leads[id]
	if !ok {
		return false, ErrNotFound
	}
	if !req.HasChanges() {
		return false, nil
	}

	if req.Name != nil {
		lead.Name = *req.Name
	}
	if req.Email != nil {
		lead.Email = *req.Email
	}
	if req.Phone != nil {
		lead.Phone = *req.Phone
	}
	if req.Company != nil {
		lead.Company = *req.Company
	}
	if req.Role != nil {
		lead.Role = *req.Role
	}
	if req.Purpose != nil {
		lead.Purpose = *req.Purpose
	}
	if req.Status != nil {
		lead.Status = *req.Status
	}
	if req.Notes != nil {
		lead.Notes = *req.Notes
	}
	lead.UpdatedAt = time.Now().UTC()
	return true, nil
}

// Delete removes a lead. Hard delete, no tombstone.
func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.leads[id]; !ok {
		return ErrNotFound
	}
	delete(r.leads, id)
	return nil
}
