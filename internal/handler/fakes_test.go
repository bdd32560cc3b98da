package handler

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rescuelink/api/internal/model"
	"github.com/rescuelink/api/internal/repository"
)

// memoryCases is an in-memory RescueCaseRepository with the same update guards as SQL.
type memoryCases struct {
	mu         sync.Mutex
	cases      map[string]*model.RescueCase
	lastNearby repository.NearbyQuery
}

func newMemoryCases() *memoryCases {
	return &memoryCases{cases: map[string]*model.RescueCase{}}
}

func (m *memoryCases) Create(_ context.Context, c *model.RescueCase) (*model.RescueCase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.cases[c.ID]; ok {
		return nil, repository.ErrDuplicate
	}
	cp := *c
	m.cases[c.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memoryCases) ByID(_ context.Context, id string) (*model.RescueCase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cases[id]
	if !ok {
		return nil, repository.ErrRescueCaseNotFound
	}
	out := *c
	return &out, nil
}

func (m *memoryCases) NearbyPending(_ context.Context, q repository.NearbyQuery) ([]*model.RescueCase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastNearby = q
	return m.filter(func(c *model.RescueCase) bool {
		return c.Status == model.CaseStatusPending && c.ReporterUserID != q.ExcludeUserID
	}, q.Limit, q.Offset), nil
}

func (m *memoryCases) Assign(_ context.Context, caseID, volunteerID string) (*model.RescueCase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cases[caseID]
	if !ok || c.IsAssigned() || c.Status != model.CaseStatusPending || c.ReporterUserID == volunteerID {
		return nil, repository.ErrRescueCaseUnchanged
	}
	id := volunteerID
	c.AssignedVolunteerID = &id
	c.Status = model.CaseStatusAssigned
	c.UpdatedAt = time.Now().UTC()
	out := *c
	return &out, nil
}

func (m *memoryCases) UpdateStatus(_ context.Context, caseID, volunteerID, status string) (*model.RescueCase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cases[caseID]
	if !ok || !c.AssignedTo(volunteerID) || c.Status != model.CaseStatusAssigned {
		return nil, repository.ErrRescueCaseUnchanged
	}
	c.Status = status
	c.UpdatedAt = time.Now().UTC()
	out := *c
	return &out, nil
}

func (m *memoryCases) ByReporter(_ context.Context, userID string, limit, offset int) ([]*model.RescueCase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filter(func(c *model.RescueCase) bool { return c.ReporterUserID == userID }, limit, offset), nil
}

func (m *memoryCases) ByVolunteer(_ context.Context, userID string, limit, offset int) ([]*model.RescueCase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filter(func(c *model.RescueCase) bool { return c.AssignedTo(userID) }, limit, offset), nil
}

// filter expects m.mu held.
func (m *memoryCases) filter(keep func(*model.RescueCase) bool, limit, offset int) []*model.RescueCase {
	var out []*model.RescueCase
	for _, c := range m.cases {
		if keep(c) {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if offset >= len(out) {
		return nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
