package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"shareit/internal/domain"
	"shareit/internal/models"
)

// fakeRepo is an in-memory domain.Repository with the same ordering and
// filtering rules as the SQL store.
type fakeRepo struct {
	mu       sync.Mutex
	seq      int64
	users    map[int64]*models.User
	items    map[int64]*models.Item
	bookings map[int64]*models.Booking
	comments map[int64]*models.Comment
	requests map[int64]*models.ItemRequest
}

var _ domain.Repository = (*fakeRepo)(nil)

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:    map[int64]*models.User{},
		items:    map[int64]*models.Item{},
		bookings: map[int64]*models.Booking{},
		comments: map[int64]*models.Comment{},
		requests: map[int64]*models.ItemRequest{},
	}
}

func (r *fakeRepo) nextID() int64 {
	r.seq++
	return r.seq
}

func (r *fakeRepo) Ping(context.Context) error { return nil }

func (r *fakeRepo) CreateUser(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, other := range r.users {
		if other.Email == u.Email {
			return domain.Conflictf("email %s is already in use", u.Email)
		}
	}
	u.ID = r.nextID()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeRepo) UpdateUser(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return domain.NotFoundf("user %d not found", u.ID)
	}
	for id, other := range r.users {
		if id != u.ID && other.Email == u.Email {
			return domain.Conflictf("email %s is already in use", u.Email)
		}
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeRepo) DeleteUser(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return domain.NotFoundf("user %d not found", id)
	}
	delete(r.users, id)
	return nil
}

func (r *fakeRepo) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.NotFoundf("user %d not found", id)
	}
	cp := *u
	return &cp, nil
}

func (r *fakeRepo) GetAllUsers(context.Context) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.User{}
	for _, u := range r.users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeRepo) UserExists(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.users[id]
	return ok, nil
}

func (r *fakeRepo) CreateItem(_ context.Context, it *models.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	it.ID = r.nextID()
	cp := *it
	r.items[it.ID] = &cp
	return nil
}

func (r *fakeRepo) UpdateItem(_ context.Context, it *models.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.items[it.ID]
	if !ok {
		return domain.NotFoundf("item %d not found", it.ID)
	}
	stored.Name, stored.Description, stored.Available = it.Name, it.Description, it.Available
	return nil
}

func (r *fakeRepo) GetItemByID(_ context.Context, id int64) (*models.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok {
		return nil, domain.NotFoundf("item %d not found", id)
	}
	cp := *it
	return &cp, nil
}

func (r *fakeRepo) filterItems(keep func(*models.Item) bool, page domain.Page) []*models.Item {
	out := []*models.Item{}
	for _, it := range r.items {
		if keep(it) {
			cp := *it
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return applyPage(out, page)
}

func (r *fakeRepo) GetItemsByOwner(_ context.Context, ownerID int64, page domain.Page) ([]*models.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filterItems(func(it *models.Item) bool { return it.OwnerID == ownerID }, page), nil
}

func (r *fakeRepo) CountItemsByOwner(_ context.Context, ownerID int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.filterItems(func(it *models.Item) bool { return it.OwnerID == ownerID }, domain.Unpaged)), nil
}

func (r *fakeRepo) GetItemsByRequests(_ context.Context, requestIDs []int64) ([]*models.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wanted := map[int64]bool{}
	for _, id := range requestIDs {
		wanted[id] = true
	}
	return r.filterItems(func(it *models.Item) bool { return it.RequestID != nil && wanted[*it.RequestID] }, domain.Unpaged), nil
}

func (r *fakeRepo) SearchAvailableItems(_ context.Context, text string, page domain.Page) ([]*models.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	needle := strings.ToUpper(text)
	return r.filterItems(func(it *models.Item) bool {
		return it.Available && (strings.Contains(strings.ToUpper(it.Name), needle) ||
			strings.Contains(strings.ToUpper(it.Description), needle))
	}, page), nil
}

func (r *fakeRepo) CreateBooking(_ context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b.ID = r.nextID()
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *fakeRepo) UpdateBookingStatus(_ context.Context, id int64, status models.BookingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return domain.NotFoundf("booking %d not found", id)
	}
	b.Status = status
	return nil
}

// joined fills the item and booker columns the SQL store joins in.
func (r *fakeRepo) joined(b *models.Booking) *models.Booking {
	cp := *b
	if it, ok := r.items[b.ItemID]; ok {
		cp.ItemName, cp.OwnerID = it.Name, it.OwnerID
	}
	if u, ok := r.users[b.BookerID]; ok {
		cp.BookerName = u.Name
	}
	return &cp
}

func (r *fakeRepo) GetBooking(_ context.Context, id int64) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, domain.NotFoundf("booking %d not found", id)
	}
	return r.joined(b), nil
}

func (r *fakeRepo) ListBookings(_ context.Context, q domain.BookingQuery) ([]*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.Booking{}
	for _, raw := range r.bookings {
		b := r.joined(raw)
		if q.Subject == domain.ByItemOwner && b.OwnerID != q.SubjectID {
			continue
		}
		if q.Subject == domain.ByBooker && b.BookerID != q.SubjectID {
			continue
		}
		keep := true
		switch q.State {
		case models.StateCurrent:
			keep = b.Start.Before(q.Now) && b.End.After(q.Now)
		case models.StatePast:
			keep = b.End.Before(q.Now)
		case models.StateFuture:
			keep = b.Start.After(q.Now)
		case models.StateWaiting:
			keep = b.Status == models.StatusWaiting
		case models.StateRejected:
			keep = b.Status == models.StatusRejected
		}
		if keep {
			out = append(out, b)
		}
	}
	asc := q.State == models.StateCurrent
	sort.Slice(out, func(i, j int) bool {
		if asc {
			return out[i].Start.Before(out[j].Start)
		}
		return out[i].Start.After(out[j].Start)
	})
	return applyPage(out, q.Page), nil
}

func (r *fakeRepo) approvedFor(itemID int64, keep func(*models.Booking) bool, better func(a, b *models.Booking) bool) *models.Booking {
	var best *models.Booking
	for _, b := range r.bookings {
		if b.ItemID != itemID || b.Status != models.StatusApproved || !keep(b) {
			continue
		}
		if best == nil || better(b, best) {
			best = b
		}
	}
	if best == nil {
		return nil
	}
	return r.joined(best)
}

func (r *fakeRepo) GetLastBooking(_ context.Context, itemID int64, now time.Time) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.approvedFor(itemID,
		func(b *models.Booking) bool { return b.Start.Before(now) },
		func(a, b *models.Booking) bool { return a.Start.After(b.Start) }), nil
}

func (r *fakeRepo) GetNextBooking(_ context.Context, itemID int64, now time.Time) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.approvedFor(itemID,
		func(b *models.Booking) bool { return b.Start.After(now) },
		func(a, b *models.Booking) bool { return a.Start.Before(b.Start) }), nil
}

func (r *fakeRepo) HasFinishedBooking(_ context.Context, itemID, bookerID int64, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.ItemID == itemID && b.BookerID == bookerID && b.Status == models.StatusApproved && b.End.Before(now) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) CreateComment(_ context.Context, c *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = r.nextID()
	cp := *c
	r.comments[c.ID] = &cp
	return nil
}

func (r *fakeRepo) GetCommentsByItems(_ context.Context, itemIDs []int64) ([]*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wanted := map[int64]bool{}
	for _, id := range itemIDs {
		wanted[id] = true
	}
	out := []*models.Comment{}
	for _, c := range r.comments {
		if wanted[c.ItemID] {
			cp := *c
			if u, ok := r.users[c.AuthorID]; ok {
				cp.AuthorName = u.Name
			}
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeRepo) CreateRequest(_ context.Context, req *models.ItemRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req.ID = r.nextID()
	cp := *req
	r.requests[req.ID] = &cp
	return nil
}

func (r *fakeRepo) GetRequestByID(_ context.Context, id int64) (*models.ItemRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, domain.NotFoundf("request %d not found", id)
	}
	cp := *req
	return &cp, nil
}

func (r *fakeRepo) filterRequests(keep func(*models.ItemRequest) bool, page domain.Page) []*models.ItemRequest {
	out := []*models.ItemRequest{}
	for _, req := range r.requests {
		if keep(req) {
			cp := *req
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Created.Equal(out[j].Created) {
			return out[i].ID < out[j].ID
		}
		return out[i].Created.Before(out[j].Created)
	})
	return applyPage(out, page)
}

func (r *fakeRepo) GetRequestsByRequester(_ context.Context, requesterID int64) ([]*models.ItemRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filterRequests(func(req *models.ItemRequest) bool { return req.RequesterID == requesterID }, domain.Unpaged), nil
}

func (r *fakeRepo) GetRequestsExcludingRequester(_ context.Context, requesterID int64, page domain.Page) ([]*models.ItemRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filterRequests(func(req *models.ItemRequest) bool { return req.RequesterID != requesterID }, page), nil
}

func (r *fakeRepo) RequestExists(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.requests[id]
	return ok, nil
}

func applyPage[T any](rows []T, page domain.Page) []T {
	if page.Limit <= 0 {
		return rows
	}
	if page.Offset >= len(rows) {
		return rows[:0]
	}
	end := page.Offset + page.Limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[page.Offset:end]
}
