package services

import (
	"context"
	"errors"
	"testing"

	"github.com/campusleave/leavedesk/internal/app/models"
	"github.com/campusleave/leavedesk/internal/app/models/dto"
	"github.com/campusleave/leavedesk/internal/pkg/apperrors"
	"github.com/rs/zerolog"
)

func newAdminFixture(t *testing.T) (AdminService, *fakeUserRepo, *fakeLogRepo, models.Actor) {
	t.Helper()
	svc, users, _, logs, admin := newAdminFixtureWithLeaves(t)
	return svc, users, logs, admin
}

func newAdminFixtureWithLeaves(t *testing.T) (AdminService, *fakeUserRepo, *fakeLeaveRepo, *fakeLogRepo, models.Actor) {
	t.Helper()
	users := newFakeUserRepo()
	logs := &fakeLogRepo{}
	leaves := newFakeLeaveRepo(logs)
	admin := users.add(&models.User{Name: "Admin", Email: "admin@campus.edu", Role: models.RoleAdmin})
	svc := NewAdminService(users, leaves, logs, fastHash, zerolog.Nop())
	return svc, users, leaves, logs, models.Actor{ID: admin.ID, Role: models.RoleAdmin}
}

func TestAdminCreateUser(t *testing.T) {
	svc, users, logs, admin := newAdminFixture(t)
	ctx := context.Background()
	parent := users.add(&models.User{Name: "Parent", Email: "p@mail.com", Role: models.RoleParent})

	u, err := svc.CreateUser(ctx, admin, &dto.CreateUserRequest{
		Name: "Second Admin", Email: "ops@campus.edu", Password: "secret123", Role: models.RoleAdmin,
	})
	if err != nil || u.Role != models.RoleAdmin {
		t.Fatalf("admin may create admins: %+v %v", u, err)
	}

	s, err := svc.CreateUser(ctx, admin, &dto.CreateUserRequest{
		Name: "Kid", Email: "kid@campus.edu", Password: "secret123", Role: models.RoleStudent, ParentID: &parent.ID,
	})
	if err != nil || s.ParentID == nil || *s.ParentID != parent.ID {
		t.Fatalf("create linked student: %+v %v", s, err)
	}

	_, err = svc.CreateUser(ctx, admin, &dto.CreateUserRequest{
		Name: "Kid Two", Email: "kid2@campus.edu", Password: "secret123", Role: models.RoleStudent, ParentID: &admin.ID,
	})
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("linking to a non-parent: got %v", err)
	}

	if got := logs.actions(); len(got) != 2 || got[0] != "user.create" {
		t.Fatalf("activity log = %v", got)
	}
}

func TestAdminUpdateUser(t *testing.T) {
	svc, users, _, admin := newAdminFixture(t)
	ctx := context.Background()
	target := users.add(&models.User{Name: "Asha", Email: "asha@campus.edu", Role: models.RoleStudent})

	inactive := models.UserInactive
	name := "Asha R"
	u, err := svc.UpdateUser(ctx, admin, target.ID, &dto.UpdateUserRequest{Name: &name, Status: &inactive})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if u.Name != "Asha R" || u.Status != models.UserInactive {
		t.Fatalf("unexpected user %+v", u)
	}

	if _, err := svc.UpdateUser(ctx, admin, admin.ID, &dto.UpdateUserRequest{Status: &inactive}); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("self-deactivation: got %v", err)
	}

	warden := models.RoleWarden
	if _, err := svc.UpdateUser(ctx, admin, admin.ID, &dto.UpdateUserRequest{Role: &warden}); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("self-demotion: got %v", err)
	}

	if _, err := svc.UpdateUser(ctx, admin, 999, &dto.UpdateUserRequest{Name: &name}); !errors.Is(err, apperrors.ErrUserNotFound) {
		t.Fatalf("missing user: got %v", err)
	}
}

func TestAdminDeleteUser(t *testing.T) {
	svc, users, logs, admin := newAdminFixture(t)
	ctx := context.Background()
	target := users.add(&models.User{Name: "Asha", Email: "asha@campus.edu", Role: models.RoleStudent})

	if err := svc.DeleteUser(ctx, admin, admin.ID); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("self-delete: got %v", err)
	}
	if err := svc.DeleteUser(ctx, admin, target.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := users.GetByID(ctx, target.ID); !errors.Is(err, apperrors.ErrUserNotFound) {
		t.Fatal("user should be gone")
	}
	if err := svc.DeleteUser(ctx, admin, target.ID); !errors.Is(err, apperrors.ErrUserNotFound) {
		t.Fatalf("second delete: got %v", err)
	}

	entries, total, err := svc.ListActivity(ctx, 0, 10)
	if err != nil || total != 1 || entries[0].Action != "user.delete" {
		t.Fatalf("activity = %v %d %v", entries, total, err)
	}
	_ = logs
}

func TestAdminRoleChangeBlockedByLeaves(t *testing.T) {
	svc, users, leaves, _, admin := newAdminFixtureWithLeaves(t)
	ctx := context.Background()
	parent := users.add(&models.User{Name: "Priya", Email: "priya@mail.com", Role: models.RoleParent})
	student := users.add(&models.User{Name: "Asha", Email: "asha@campus.edu", Role: models.RoleStudent, ParentID: &parent.ID})
	fresh := users.add(&models.User{Name: "Ravi", Email: "ravi@campus.edu", Role: models.RoleStudent})
	if err := leaves.Create(ctx, &models.Leave{
		StudentID: student.ID, ParentID: &parent.ID, Reason: "Medical",
		Type: models.LeaveNormal, Status: models.StatusPending,
	}); err != nil {
		t.Fatal(err)
	}

	// Clearing the parent link must not lift the guard.
	student.ParentID = nil
	if err := users.Update(ctx, student); err != nil {
		t.Fatal(err)
	}

	warden := models.RoleWarden
	tests := []struct {
		name string
		id   int64
		want error
	}{
		{"student with leaves", student.ID, apperrors.ErrConflict},
		{"parent named on a leave", parent.ID, apperrors.ErrConflict},
		{"student without leaves", fresh.ID, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateUser(ctx, admin, tt.id, &dto.UpdateUserRequest{Role: &warden})
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}

	if got, _ := users.GetByID(ctx, student.ID); got.Role != models.RoleStudent {
		t.Fatalf("student role = %s, want student", got.Role)
	}
	if got, _ := users.GetByID(ctx, parent.ID); got.Role != models.RoleParent {
		t.Fatalf("parent role = %s, want parent", got.Role)
	}

	same := models.RoleStudent
	name := "Asha R"
	if _, err := svc.UpdateUser(ctx, admin, student.ID, &dto.UpdateUserRequest{Role: &same, Name: &name}); err != nil {
		t.Fatalf("keeping the role should be allowed: %v", err)
	}
}

func TestAdminDeleteBlockedByLeaves(t *testing.T) {
	svc, users, leaves, _, admin := newAdminFixtureWithLeaves(t)
	ctx := context.Background()
	parent := users.add(&models.User{Name: "Priya", Email: "priya@mail.com", Role: models.RoleParent})
	student := users.add(&models.User{Name: "Asha", Email: "asha@campus.edu", Role: models.RoleStudent, ParentID: &parent.ID})
	if err := leaves.Create(ctx, &models.Leave{
		StudentID: student.ID, ParentID: &parent.ID, Reason: "Medical",
		Type: models.LeaveNormal, Status: models.StatusWardenApproved,
	}); err != nil {
		t.Fatal(err)
	}

	for _, id := range []int64{parent.ID, student.ID} {
		if err := svc.DeleteUser(ctx, admin, id); !errors.Is(err, apperrors.ErrConflict) {
			t.Fatalf("delete %d: got %v, want conflict", id, err)
		}
		if _, err := users.GetByID(ctx, id); err != nil {
			t.Fatalf("user %d should still exist: %v", id, err)
		}
	}

	// The leave still names its parent.
	all, _, _ := leaves.List(ctx, models.LeaveFilter{ParentID: &parent.ID})
	if len(all) != 1 {
		t.Fatalf("leaves for parent = %d, want 1", len(all))
	}
}

func TestAdminListUsersFilter(t *testing.T) {
	svc, users, _, _ := newAdminFixture(t)
	users.add(&models.User{Name: "Asha", Email: "asha@campus.edu", Role: models.RoleStudent})
	users.add(&models.User{Name: "Menon", Email: "menon@campus.edu", Role: models.RoleAdvisor})

	list, total, err := svc.ListUsers(context.Background(), models.UserFilter{Role: models.RoleStudent})
	if err != nil || total != 1 || list[0].Name != "Asha" {
		t.Fatalf("ListUsers(student) = %v %d %v", list, total, err)
	}

	if _, _, err := svc.ListUsers(context.Background(), models.UserFilter{Role: "janitor"}); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("unknown role: got %v", err)
	}
}
