package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/campusleave/leavedesk/internal/app/models"
	"github.com/campusleave/leavedesk/internal/pkg/apperrors"
	"github.com/campusleave/leavedesk/internal/pkg/auth"
	"golang.org/x/crypto/bcrypt"
)

var fixedNow = time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func fastHash(pw string) (string, error) {
	return auth.HashPasswordWithCost(pw, bcrypt.MinCost)
}

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*models.User)}
}

func (r *fakeUserRepo) add(u *models.User) *models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	u.ID = r.nextID
	if u.Status == "" {
		u.Status = models.UserActive
	}
	cp := *u
	r.users[u.ID] = &cp
	return u
}

func (r *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			r.mu.Unlock()
			return apperrors.ErrEmailAlreadyExists
		}
	}
	r.mu.Unlock()
	u.CreatedAt = fixedNow
	u.UpdatedAt = fixedNow
	r.add(u)
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	return err == nil, nil
}

func (r *fakeUserRepo) List(_ context.Context, f models.UserFilter) ([]*models.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.User
	for _, u := range r.users {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if f.Status != "" && u.Status != f.Status {
			continue
		}
		if f.Search != "" && !strings.Contains(u.Name+u.Email, f.Search) {
			continue
		}
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return apperrors.ErrUserNotFound
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return apperrors.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

type fakeLogRepo struct {
	mu      sync.Mutex
	entries []*models.ActivityLog
}

func (r *fakeLogRepo) Create(_ context.Context, e *models.ActivityLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.ID = int64(len(r.entries) + 1)
	r.entries = append(r.entries, e)
	return nil
}

func (r *fakeLogRepo) List(_ context.Context, offset, limit uint64) ([]*models.ActivityLog, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := int64(len(r.entries))
	if offset >= uint64(len(r.entries)) {
		return []*models.ActivityLog{}, total, nil
	}
	end := offset + limit
	if limit == 0 || end > uint64(len(r.entries)) {
		end = uint64(len(r.entries))
	}
	return r.entries[offset:end], total, nil
}

func (r *fakeLogRepo) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Action
	}
	return out
}

// fakeLeaveRepo mirrors the conditional updates of LeaveRepository
type fakeLeaveRepo struct {
	mu     sync.Mutex
	nextID int64
	leaves map[int64]*models.Leave
	logs   *fakeLogRepo
}

func newFakeLeaveRepo(logs *fakeLogRepo) *fakeLeaveRepo {
	return &fakeLeaveRepo{leaves: make(map[int64]*models.Leave), logs: logs}
}

func (r *fakeLeaveRepo) Create(_ context.Context, l *models.Leave) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	l.ID = r.nextID
	l.CreatedAt = fixedNow
	l.UpdatedAt = fixedNow
	cp := *l
	r.leaves[l.ID] = &cp
	return nil
}

func (r *fakeLeaveRepo) GetByID(_ context.Context, id int64) (*models.Leave, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.leaves[id]
	if !ok {
		return nil, apperrors.ErrLeaveNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *fakeLeaveRepo) status(id int64) models.LeaveStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.leaves[id].Status
}

func matchLeave(l *models.Leave, f models.LeaveFilter) bool {
	if f.StudentID != nil && l.StudentID != *f.StudentID {
		return false
	}
	if f.ParentID != nil && (l.ParentID == nil || *l.ParentID != *f.ParentID) {
		return false
	}
	if len(f.QueueStatuses) > 0 || f.HandledBy != nil {
		in := false
		for _, s := range f.QueueStatuses {
			if l.Status == s {
				in = true
			}
		}
		if f.HandledBy != nil {
			switch f.HandledColumn {
			case "advisor_id":
				in = in || (l.AdvisorID != nil && *l.AdvisorID == *f.HandledBy)
			case "warden_id":
				in = in || (l.WardenID != nil && *l.WardenID == *f.HandledBy)
			}
		}
		if !in {
			return false
		}
	}
	if f.Status != "" && l.Status != f.Status {
		return false
	}
	if f.Type != "" && l.Type != f.Type {
		return false
	}
	return true
}

func (r *fakeLeaveRepo) List(_ context.Context, f models.LeaveFilter) ([]*models.Leave, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Leave, 0)
	for _, l := range r.leaves {
		if matchLeave(l, f) {
			cp := *l
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *fakeLeaveRepo) ApplyTransition(ctx context.Context, id int64, u models.LeaveUpdate, entry *models.ActivityLog) (*models.Leave, error) {
	r.mu.Lock()
	l, ok := r.leaves[id]
	if !ok {
		r.mu.Unlock()
		return nil, apperrors.ErrLeaveNotFound
	}
	if l.Status != u.FromStatus {
		r.mu.Unlock()
		return nil, apperrors.NewInvalidTransitionError(fmt.Sprintf("leave is no longer %s", u.FromStatus))
	}
	l.Status = u.ToStatus
	l.UpdatedAt = u.UpdatedAt
	if u.AdvisorID != nil {
		l.AdvisorID = u.AdvisorID
	}
	if u.WardenID != nil {
		l.WardenID = u.WardenID
	}
	if u.MeetingAt != nil {
		l.MeetingAt = u.MeetingAt
	}
	if u.MeetingNote != nil {
		l.MeetingNote = u.MeetingNote
	}
	if u.ArrivalTimestamp != nil {
		l.ArrivalTimestamp = u.ArrivalTimestamp
	}
	cp := *l
	r.mu.Unlock()

	if entry != nil {
		_ = r.logs.Create(ctx, entry)
	}
	return &cp, nil
}

func (r *fakeLeaveRepo) MarkProofSubmitted(ctx context.Context, id int64, at time.Time, entry *models.ActivityLog) (*models.Leave, error) {
	r.mu.Lock()
	l := r.leaves[id]
	if l.Type != models.LeaveEmergency || l.Status != models.StatusCompleted || l.ProofSubmitted {
		r.mu.Unlock()
		return nil, apperrors.ErrProofAlreadyStated
	}
	l.ProofSubmitted = true
	l.UpdatedAt = at
	cp := *l
	r.mu.Unlock()
	_ = r.logs.Create(ctx, entry)
	return &cp, nil
}

func (r *fakeLeaveRepo) MarkProofVerified(ctx context.Context, id int64, at time.Time, entry *models.ActivityLog) (*models.Leave, error) {
	r.mu.Lock()
	l := r.leaves[id]
	if !l.ProofSubmitted || l.ProofVerified {
		r.mu.Unlock()
		return nil, apperrors.ErrProofAlreadyStated
	}
	l.ProofVerified = true
	l.UpdatedAt = at
	cp := *l
	r.mu.Unlock()
	_ = r.logs.Create(ctx, entry)
	return &cp, nil
}

type fakeTokens struct{}

func (fakeTokens) GenerateToken(u *models.User) (string, int64, error) {
	return fmt.Sprintf("token-%d", u.ID), 3600, nil
}
