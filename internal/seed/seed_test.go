package seed

import (
	"context"
	"errors"
	"testing"

	appModels "github.com/campusleave/leavedesk/internal/app/models"
	"github.com/campusleave/leavedesk/internal/pkg/apperrors"
	"github.com/rs/zerolog"
)

type memUsers struct {
	byEmail map[string]*appModels.User
	nextID  int64
}

func (m *memUsers) Create(_ context.Context, u *appModels.User) error {
	if _, ok := m.byEmail[u.Email]; ok {
		return apperrors.ErrEmailAlreadyExists
	}
	m.nextID++
	u.ID = m.nextID
	m.byEmail[u.Email] = u
	return nil
}
func (m *memUsers) GetByID(context.Context, int64) (*appModels.User, error) {
	return nil, apperrors.ErrUserNotFound
}
func (m *memUsers) GetByEmail(_ context.Context, email string) (*appModels.User, error) {
	if u, ok := m.byEmail[email]; ok {
		return u, nil
	}
	return nil, apperrors.ErrUserNotFound
}
func (m *memUsers) EmailExists(_ context.Context, email string) (bool, error) {
	_, ok := m.byEmail[email]
	return ok, nil
}
func (m *memUsers) List(context.Context, appModels.UserFilter) ([]*appModels.User, int64, error) {
	return nil, 0, nil
}
func (m *memUsers) Update(context.Context, *appModels.User) error { return nil }
func (m *memUsers) Delete(context.Context, int64) error           { return nil }

type memCampus struct {
	hostels  map[string]bool
	branches map[string]bool
	failOn   string
}

func (m *memCampus) CreateHostel(_ context.Context, h *appModels.Hostel) error {
	if h.Name == m.failOn {
		return errors.New("boom")
	}
	if m.hostels[h.Name] {
		return apperrors.ErrHostelAlreadyExists
	}
	m.hostels[h.Name] = true
	return nil
}
func (m *memCampus) ListHostels(context.Context) ([]*appModels.Hostel, error) { return nil, nil }
func (m *memCampus) CreateBranch(_ context.Context, b *appModels.Branch) error {
	if m.branches[b.Code] {
		return apperrors.ErrBranchAlreadyExists
	}
	m.branches[b.Code] = true
	return nil
}
func (m *memCampus) ListBranches(context.Context) ([]*appModels.Branch, error) { return nil, nil }

func plainHash(p string) (string, error) { return "hashed:" + p, nil }

func TestCreateDefaultDataIsIdempotent(t *testing.T) {
	users := &memUsers{byEmail: map[string]*appModels.User{}}
	campus := &memCampus{hostels: map[string]bool{}, branches: map[string]bool{}}
	admin := AdminAccount{Name: "Admin", Email: " Admin@Campus.Local ", Password: "admin12345"}

	for run := 0; run < 2; run++ {
		if err := CreateDefaultData(context.Background(), users, campus, admin, plainHash, zerolog.Nop()); err != nil {
			t.Fatalf("run %d: %v", run, err)
		}
	}

	if len(users.byEmail) != 1 {
		t.Fatalf("got %d users, want 1", len(users.byEmail))
	}
	u := users.byEmail["admin@campus.local"]
	if u == nil || u.Role != appModels.RoleAdmin || u.Password != "hashed:admin12345" {
		t.Errorf("unexpected admin: %+v", u)
	}
	if len(campus.hostels) != len(DefaultHostels) || len(campus.branches) != len(DefaultBranches) {
		t.Errorf("hostels=%d branches=%d", len(campus.hostels), len(campus.branches))
	}
}

func TestCreateDefaultDataSkipsAdminWithoutPassword(t *testing.T) {
	users := &memUsers{byEmail: map[string]*appModels.User{}}
	campus := &memCampus{hostels: map[string]bool{}, branches: map[string]bool{}}

	err := CreateDefaultData(context.Background(), users, campus, AdminAccount{Email: "a@b.c"}, plainHash, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if len(users.byEmail) != 0 {
		t.Errorf("admin should not be created without a password")
	}
}

func TestCreateDefaultDataContinuesPastFailures(t *testing.T) {
	users := &memUsers{byEmail: map[string]*appModels.User{}}
	campus := &memCampus{hostels: map[string]bool{}, branches: map[string]bool{}, failOn: DefaultHostels[0].Name}

	err := CreateDefaultData(context.Background(), users, campus, AdminAccount{}, plainHash, zerolog.Nop())
	if err == nil {
		t.Fatal("expected the hostel failure to be reported")
	}
	if len(campus.hostels) != len(DefaultHostels)-1 || len(campus.branches) != len(DefaultBranches) {
		t.Errorf("remaining rows were not created: hostels=%d branches=%d", len(campus.hostels), len(campus.branches))
	}
}
