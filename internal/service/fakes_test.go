package service

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/rescuelink/api/internal/model"
	"github.com/rescuelink/api/internal/repository"
)

// fakeStore keeps users, cases and donations in memory and applies the
// same guards as the SQL repositories.
type fakeStore struct {
	mu        sync.Mutex
	users     map[string]*model.User
	cases     map[string]*model.RescueCase
	donations map[string]*model.DonationRequest
	failWith  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:     map[string]*model.User{},
		cases:     map[string]*model.RescueCase{},
		donations: map[string]*model.DonationRequest{},
	}
}

func (s *fakeStore) addUser(u *model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

func (s *fakeStore) contact(id string) *model.Contact {
	u, ok := s.users[id]
	if !ok {
		return nil
	}
	return &model.Contact{ID: u.ID, Name: u.Name, Email: u.Email, PhoneNumber: u.PhoneNumber}
}

func (s *fakeStore) caseCopy(c *model.RescueCase) *model.RescueCase {
	cp := *c
	cp.Reporter = s.contact(c.ReporterUserID)
	return &cp
}

// distance is an equirectangular approximation, good enough for ordering in tests.
func distance(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadius = 6371000.0
	x := (lon2 - lon1) * math.Pi / 180 * math.Cos((lat1+lat2)/2*math.Pi/180)
	y := (lat2 - lat1) * math.Pi / 180
	return math.Sqrt(x*x+y*y) * earthRadius
}

type rescueCaseFake struct{ *fakeStore }

func (f rescueCaseFake) Create(_ context.Context, c *model.RescueCase) (*model.RescueCase, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	if _, ok := f.cases[c.ID]; ok {
		return nil, repository.ErrDuplicate
	}
	if _, ok := f.users[c.ReporterUserID]; !ok {
		return nil, repository.ErrInvalidReference
	}
	cp := *c
	f.cases[c.ID] = &cp
	return f.caseCopy(&cp), nil
}

func (f rescueCaseFake) ByID(_ context.Context, id string) (*model.RescueCase, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.cases[id]
	if !ok {
		return nil, repository.ErrRescueCaseNotFound
	}
	return f.caseCopy(c), nil
}

func (f rescueCaseFake) NearbyPending(_ context.Context, q repository.NearbyQuery) ([]*model.RescueCase, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	var out []*model.RescueCase
	for _, c := range f.cases {
		if c.Status != model.CaseStatusPending || c.ReporterUserID == q.ExcludeUserID {
			continue
		}
		d := distance(q.Latitude, q.Longitude, c.Latitude, c.Longitude)
		if d > q.RadiusMeters {
			continue
		}
		cp := f.caseCopy(c)
		cp.DistanceMeters = &d
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if *out[i].DistanceMeters != *out[j].DistanceMeters {
			return *out[i].DistanceMeters < *out[j].DistanceMeters
		}
		return out[i].ID < out[j].ID
	})
	return paginate(out, q.Limit, q.Offset), nil
}

func (f rescueCaseFake) Assign(_ context.Context, caseID, volunteerID string) (*model.RescueCase, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[volunteerID]; !ok {
		return nil, repository.ErrInvalidReference
	}
	c, ok := f.cases[caseID]
	if !ok || c.IsAssigned() || c.Status != model.CaseStatusPending || c.ReporterUserID == volunteerID {
		return nil, repository.ErrRescueCaseUnchanged
	}
	c.AssignedVolunteerID = &volunteerID
	c.Status = model.CaseStatusAssigned
	c.UpdatedAt = time.Now()
	return f.caseCopy(c), nil
}

func (f rescueCaseFake) UpdateStatus(_ context.Context, caseID, volunteerID, status string) (*model.RescueCase, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.cases[caseID]
	if !ok || !c.AssignedTo(volunteerID) || c.Status != model.CaseStatusAssigned {
		return nil, repository.ErrRescueCaseUnchanged
	}
	c.Status = status
	c.UpdatedAt = time.Now()
	return f.caseCopy(c), nil
}

func (f rescueCaseFake) ByReporter(_ context.Context, userID string, limit, offset int) ([]*model.RescueCase, error) {
	return f.filter(func(c *model.RescueCase) bool { return c.ReporterUserID == userID }, limit, offset), nil
}

func (f rescueCaseFake) ByVolunteer(_ context.Context, userID string, limit, offset int) ([]*model.RescueCase, error) {
	return f.filter(func(c *model.RescueCase) bool { return c.AssignedTo(userID) }, limit, offset), nil
}

func (f rescueCaseFake) filter(keep func(*model.RescueCase) bool, limit, offset int) []*model.RescueCase {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.RescueCase
	for _, c := range f.cases {
		if keep(c) {
			out = append(out, f.caseCopy(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, limit, offset)
}

type userFake struct{ *fakeStore }

func (f userFake) Create(_ context.Context, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f userFake) ByID(_ context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f userFake) ByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f userFake) UpdateLocation(_ context.Context, id string, latitude, longitude float64) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	u.Latitude, u.Longitude = &latitude, &longitude
	cp := *u
	return &cp, nil
}

func (f userFake) NearbyVolunteers(_ context.Context, q repository.NearbyQuery) ([]*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.User
	for _, u := range f.users {
		if !u.IsVolunteer() || !u.HasLocation() || u.ID == q.ExcludeUserID {
			continue
		}
		d := distance(q.Latitude, q.Longitude, *u.Latitude, *u.Longitude)
		if d > q.RadiusMeters {
			continue
		}
		cp := *u
		cp.DistanceMeters = &d
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return *out[i].DistanceMeters < *out[j].DistanceMeters })
	return paginate(out, q.Limit, q.Offset), nil
}

type donationFake struct{ *fakeStore }

func (f donationFake) Create(_ context.Context, d *model.DonationRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[d.UserID]; !ok {
		return repository.ErrInvalidReference
	}
	cp := *d
	f.donations[d.ID] = &cp
	return nil
}

func (f donationFake) ByID(_ context.Context, id string) (*model.DonationRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.donations[id]
	if !ok {
		return nil, repository.ErrDonationNotFound
	}
	cp := *d
	return &cp, nil
}

func (f donationFake) List(_ context.Context, status string, limit, offset int) ([]*model.DonationRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.DonationRequest
	for _, d := range f.donations {
		if status == "" || d.Status == status {
			cp := *d
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, limit, offset), nil
}

func (f donationFake) UpdateStatus(_ context.Context, id, ownerID, status string) (*model.DonationRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.donations[id]
	if !ok || d.UserID != ownerID || !d.IsOpen() {
		return nil, repository.ErrDonationUnchanged
	}
	d.Status = status
	cp := *d
	return &cp, nil
}

func (f donationFake) Delete(_ context.Context, id, ownerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.donations[id]
	if !ok || d.UserID != ownerID {
		return repository.ErrDonationUnchanged
	}
	delete(f.donations, id)
	return nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit < len(items) {
		items = items[:limit]
	}
	return items
}

var errStoreDown = errors.New("connection refused")
