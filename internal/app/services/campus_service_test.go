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

type fakeCampusRepo struct {
	hostels  []*models.Hostel
	branches []*models.Branch
}

func (r *fakeCampusRepo) CreateHostel(_ context.Context, h *models.Hostel) error {
	for _, existing := range r.hostels {
		if existing.Name == h.Name {
			return apperrors.ErrHostelAlreadyExists
		}
	}
	h.ID = int64(len(r.hostels) + 1)
	r.hostels = append(r.hostels, h)
	return nil
}

func (r *fakeCampusRepo) ListHostels(context.Context) ([]*models.Hostel, error) { return r.hostels, nil }

func (r *fakeCampusRepo) CreateBranch(_ context.Context, b *models.Branch) error {
	for _, existing := range r.branches {
		if existing.Code == b.Code || existing.Name == b.Name {
			return apperrors.ErrBranchAlreadyExists
		}
	}
	b.ID = int64(len(r.branches) + 1)
	r.branches = append(r.branches, b)
	return nil
}

func (r *fakeCampusRepo) ListBranches(context.Context) ([]*models.Branch, error) { return r.branches, nil }

func TestCampusDirectory(t *testing.T) {
	repo := &fakeCampusRepo{}
	logs := &fakeLogRepo{}
	svc := NewCampusService(repo, logs, zerolog.Nop())
	ctx := context.Background()
	admin := models.Actor{ID: 1, Role: models.RoleAdmin}

	capacity := 120
	if _, err := svc.CreateHostel(ctx, admin, &dto.CreateHostelRequest{Name: " North Block ", Capacity: &capacity}); err != nil {
		t.Fatalf("create hostel: %v", err)
	}
	if _, err := svc.CreateHostel(ctx, admin, &dto.CreateHostelRequest{Name: "North Block"}); !errors.Is(err, apperrors.ErrHostelAlreadyExists) {
		t.Fatalf("duplicate hostel: %v", err)
	}

	b, err := svc.CreateBranch(ctx, admin, &dto.CreateBranchRequest{Name: "Computer Science", Code: "cse"})
	if err != nil || b.Code != "CSE" {
		t.Fatalf("create branch: %+v %v", b, err)
	}
	if _, err := svc.CreateBranch(ctx, admin, &dto.CreateBranchRequest{Name: "Mechanical", Code: "ME-1"}); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("bad code: %v", err)
	}

	hostels, _ := svc.ListHostels(ctx)
	branches, _ := svc.ListBranches(ctx)
	if len(hostels) != 1 || len(branches) != 1 {
		t.Fatalf("directory has %d hostels, %d branches", len(hostels), len(branches))
	}
	if got := logs.actions(); len(got) != 2 || got[0] != "hostel.create" || got[1] != "branch.create" {
		t.Fatalf("activity log = %v", got)
	}
}
