package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/campusleave/leavedesk/internal/app/lifecycle"
	"github.com/campusleave/leavedesk/internal/app/models"
	"github.com/campusleave/leavedesk/internal/app/models/dto"
	"github.com/campusleave/leavedesk/internal/pkg/apperrors"
	"github.com/rs/zerolog"
)

type leaveFixture struct {
	svc     *leaveServiceImpl
	users   *fakeUserRepo
	leaves  *fakeLeaveRepo
	logs    *fakeLogRepo
	student models.Actor
	parent  models.Actor
	other   models.Actor // a parent not linked to student
	advisor models.Actor
	warden  models.Actor
	admin   models.Actor
}

func newLeaveFixture(t *testing.T) *leaveFixture {
	t.Helper()
	users := newFakeUserRepo()
	logs := &fakeLogRepo{}
	leaves := newFakeLeaveRepo(logs)

	parent := users.add(&models.User{Name: "Priya Rao", Email: "priya@mail.com", Role: models.RoleParent})
	other := users.add(&models.User{Name: "Other Parent", Email: "other@mail.com", Role: models.RoleParent})
	student := users.add(&models.User{Name: "Asha Rao", Email: "asha@campus.edu", Role: models.RoleStudent, ParentID: &parent.ID})
	advisor := users.add(&models.User{Name: "Dr Menon", Email: "menon@campus.edu", Role: models.RoleAdvisor})
	warden := users.add(&models.User{Name: "Mr Iyer", Email: "iyer@campus.edu", Role: models.RoleWarden})
	admin := users.add(&models.User{Name: "Admin", Email: "admin@campus.edu", Role: models.RoleAdmin})

	svc := NewLeaveService(leaves, users, logs, zerolog.Nop()).(*leaveServiceImpl)
	svc.now = fixedClock

	actor := func(u *models.User) models.Actor { return models.Actor{ID: u.ID, Role: u.Role} }
	return &leaveFixture{
		svc: svc, users: users, leaves: leaves, logs: logs,
		student: actor(student), parent: actor(parent), other: actor(other),
		advisor: actor(advisor), warden: actor(warden), admin: actor(admin),
	}
}

func (f *leaveFixture) apply(t *testing.T, leaveType models.LeaveType) *models.Leave {
	t.Helper()
	leave, err := f.svc.Apply(context.Background(), f.student, &dto.ApplyLeaveRequest{
		Reason:    "Medical",
		StartDate: "2025-03-20",
		EndDate:   "2025-03-22",
		Type:      leaveType,
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	return leave
}

func (f *leaveFixture) act(t *testing.T, actor models.Actor, id int64, action lifecycle.Action) *models.Leave {
	t.Helper()
	leave, err := f.svc.Transition(context.Background(), actor, id, action, TransitionOptions{})
	if err != nil {
		t.Fatalf("%s %s: %v", actor.Role, action, err)
	}
	return leave
}

func TestApplyNormalLeave(t *testing.T) {
	f := newLeaveFixture(t)
	leave := f.apply(t, "")

	if leave.Status != models.StatusPending || leave.Type != models.LeaveNormal {
		t.Fatalf("got status %s type %s, want pending normal", leave.Status, leave.Type)
	}
	if leave.ParentID == nil || *leave.ParentID != f.parent.ID {
		t.Fatalf("leave should carry the student's parent, got %v", leave.ParentID)
	}
	if leave.Student == nil || leave.Student.Name != "Asha Rao" {
		t.Fatalf("leave should carry its student, got %+v", leave.Student)
	}
	if got := f.logs.actions(); len(got) != 1 || got[0] != "leave.student.apply" {
		t.Fatalf("activity log = %v", got)
	}
}

func TestApplyEmergencyLeave(t *testing.T) {
	f := newLeaveFixture(t)
	leave := f.apply(t, models.LeaveEmergency)
	if leave.Status != models.StatusEmergencyPending {
		t.Fatalf("got status %s, want emergency_pending", leave.Status)
	}
}

func TestApplyValidation(t *testing.T) {
	f := newLeaveFixture(t)
	ctx := context.Background()
	orphan := f.users.add(&models.User{Name: "No Parent", Email: "orphan@campus.edu", Role: models.RoleStudent})

	tests := []struct {
		name  string
		actor models.Actor
		req   dto.ApplyLeaveRequest
		want  error
	}{
		{"start after end", f.student, dto.ApplyLeaveRequest{Reason: "Trip", StartDate: "2025-03-22", EndDate: "2025-03-20"}, apperrors.ErrInvalidLeaveDates},
		{"bad date", f.student, dto.ApplyLeaveRequest{Reason: "Trip", StartDate: "22/03/2025", EndDate: "2025-03-20"}, apperrors.ErrValidationFailed},
		{"blank reason", f.student, dto.ApplyLeaveRequest{Reason: "   ", StartDate: "2025-03-20", EndDate: "2025-03-20"}, apperrors.ErrValidationFailed},
		{"unknown type", f.student, dto.ApplyLeaveRequest{Reason: "Trip", StartDate: "2025-03-20", EndDate: "2025-03-20", Type: "sabbatical"}, apperrors.ErrValidationFailed},
		{"no linked parent", models.Actor{ID: orphan.ID, Role: models.RoleStudent}, dto.ApplyLeaveRequest{Reason: "Trip", StartDate: "2025-03-20", EndDate: "2025-03-20"}, apperrors.ErrValidationFailed},
		{"not a student", f.parent, dto.ApplyLeaveRequest{Reason: "Trip", StartDate: "2025-03-20", EndDate: "2025-03-20"}, apperrors.ErrPermissionDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := f.svc.Apply(ctx, tt.actor, &req)
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}

	if all, _, _ := f.leaves.List(ctx, models.LeaveFilter{}); len(all) != 0 {
		t.Fatalf("no leave should be stored, got %d", len(all))
	}
}

func TestMedicalLeaveFullChain(t *testing.T) {
	f := newLeaveFixture(t)
	leave := f.apply(t, models.LeaveNormal)

	leave = f.act(t, f.parent, leave.ID, lifecycle.ActionApprove)
	if leave.Status != models.StatusParentApproved {
		t.Fatalf("after parent: %s", leave.Status)
	}

	leave = f.act(t, f.advisor, leave.ID, lifecycle.ActionApprove)
	if leave.Status != models.StatusAdvisorApproved || leave.AdvisorID == nil || *leave.AdvisorID != f.advisor.ID {
		t.Fatalf("after advisor: %s advisor=%v", leave.Status, leave.AdvisorID)
	}

	leave = f.act(t, f.warden, leave.ID, lifecycle.ActionApprove)
	if leave.Status != models.StatusWardenApproved || leave.WardenID == nil || *leave.WardenID != f.warden.ID {
		t.Fatalf("after warden: %s warden=%v", leave.Status, leave.WardenID)
	}

	leave = f.act(t, f.parent, leave.ID, lifecycle.ActionConfirmArrival)
	if leave.Status != models.StatusCompleted {
		t.Fatalf("after arrival: %s", leave.Status)
	}
	if leave.ArrivalTimestamp == nil || !leave.ArrivalTimestamp.Equal(fixedNow) {
		t.Fatalf("arrival timestamp = %v, want %v", leave.ArrivalTimestamp, fixedNow)
	}

	want := []string{
		"leave.student.apply",
		"leave.parent.approve",
		"leave.advisor.approve",
		"leave.warden.approve",
		"leave.parent.confirm_arrival",
	}
	got := f.logs.actions()
	if len(got) != len(want) {
		t.Fatalf("activity log = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("activity log[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestParentRejectIsTerminal(t *testing.T) {
	f := newLeaveFixture(t)
	leave := f.apply(t, models.LeaveNormal)

	leave = f.act(t, f.parent, leave.ID, lifecycle.ActionReject)
	if leave.Status != models.StatusRejected {
		t.Fatalf("got %s, want rejected", leave.Status)
	}

	_, err := f.svc.Transition(context.Background(), f.advisor, leave.ID, lifecycle.ActionApprove, TransitionOptions{})
	if !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Fatalf("advisor approve after reject: got %v, want invalid transition", err)
	}
	if f.leaves.status(leave.ID) != models.StatusRejected {
		t.Fatal("rejected leave must not change")
	}
}

func TestDoubleApprovalFails(t *testing.T) {
	f := newLeaveFixture(t)
	leave := f.apply(t, models.LeaveNormal)
	f.act(t, f.parent, leave.ID, lifecycle.ActionApprove)

	_, err := f.svc.Transition(context.Background(), f.parent, leave.ID, lifecycle.ActionApprove, TransitionOptions{})
	if !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Fatalf("second approval: got %v, want invalid transition", err)
	}
	if f.leaves.status(leave.ID) != models.StatusParentApproved {
		t.Fatalf("status changed to %s", f.leaves.status(leave.ID))
	}
}

func TestWrongActorIsForbidden(t *testing.T) {
	f := newLeaveFixture(t)
	leave := f.apply(t, models.LeaveNormal)
	ctx := context.Background()

	tests := []struct {
		name   string
		actor  models.Actor
		action lifecycle.Action
	}{
		{"student approves", f.student, lifecycle.ActionApprove},
		{"admin approves", f.admin, lifecycle.ActionApprove},
		{"unlinked parent approves", f.other, lifecycle.ActionApprove},
		{"advisor confirms arrival", f.advisor, lifecycle.ActionConfirmArrival},
		{"parent schedules meeting", f.parent, lifecycle.ActionScheduleMeeting},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Transition(ctx, tt.actor, leave.ID, tt.action, TransitionOptions{})
			if !errors.Is(err, apperrors.ErrPermissionDenied) {
				t.Fatalf("got %v, want permission denied", err)
			}
			if f.leaves.status(leave.ID) != models.StatusPending {
				t.Fatalf("status changed to %s", f.leaves.status(leave.ID))
			}
		})
	}
}

func TestUnlinkedParentForbiddenBeforeStateCheck(t *testing.T) {
	f := newLeaveFixture(t)
	leave := f.apply(t, models.LeaveNormal)
	f.act(t, f.parent, leave.ID, lifecycle.ActionApprove)

	// wrong state and wrong parent: the relation wins
	_, err := f.svc.Transition(context.Background(), f.other, leave.ID, lifecycle.ActionApprove, TransitionOptions{})
	if !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("got %v, want permission denied", err)
	}
}

func TestTransitionUnknownLeave(t *testing.T) {
	f := newLeaveFixture(t)
	_, err := f.svc.Transition(context.Background(), f.student, 999, lifecycle.ActionApprove, TransitionOptions{})
	if !errors.Is(err, apperrors.ErrLeaveNotFound) {
		t.Fatalf("got %v, want leave not found", err)
	}
}

func TestWrongStateIsInvalidTransition(t *testing.T) {
	f := newLeaveFixture(t)
	leave := f.apply(t, models.LeaveNormal)

	_, err := f.svc.Transition(context.Background(), f.warden, leave.ID, lifecycle.ActionApprove, TransitionOptions{})
	if !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Fatalf("warden on pending: got %v, want invalid transition", err)
	}
	if f.leaves.status(leave.ID) != models.StatusPending {
		t.Fatal("status must not change")
	}
}

func TestEmergencyMeetingPath(t *testing.T) {
	f := newLeaveFixture(t)
	leave := f.apply(t, models.LeaveEmergency)

	_, err := f.svc.Transition(context.Background(), f.parent, leave.ID, lifecycle.ActionApprove, TransitionOptions{})
	if !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Fatalf("parent on emergency leave: got %v, want invalid transition", err)
	}

	meeting := fixedNow.Add(26 * time.Hour)
	note := "  Bring the hospital letter "
	leave, err = f.svc.Transition(context.Background(), f.warden, leave.ID, lifecycle.ActionScheduleMeeting,
		TransitionOptions{MeetingAt: &meeting, Note: &note})
	if err != nil {
		t.Fatalf("schedule meeting: %v", err)
	}
	if leave.Status != models.StatusMeetingScheduled {
		t.Fatalf("got %s, want meeting_scheduled", leave.Status)
	}
	if leave.MeetingAt == nil || !leave.MeetingAt.Equal(meeting) {
		t.Fatalf("meetingAt = %v", leave.MeetingAt)
	}
	if leave.MeetingNote == nil || *leave.MeetingNote != "Bring the hospital letter" {
		t.Fatalf("meetingNote = %v", leave.MeetingNote)
	}

	leave = f.act(t, f.warden, leave.ID, lifecycle.ActionApprove)
	if leave.Status != models.StatusWardenApproved {
		t.Fatalf("got %s, want warden_approved", leave.Status)
	}
	leave = f.act(t, f.parent, leave.ID, lifecycle.ActionConfirmArrival)
	if leave.Status != models.StatusCompleted {
		t.Fatalf("got %s, want completed", leave.Status)
	}
}

func TestScheduleMeetingInPastRejected(t *testing.T) {
	f := newLeaveFixture(t)
	leave := f.apply(t, models.LeaveEmergency)

	past := fixedNow.Add(-time.Hour)
	_, err := f.svc.Transition(context.Background(), f.warden, leave.ID, lifecycle.ActionScheduleMeeting,
		TransitionOptions{MeetingAt: &past})
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("got %v, want validation error", err)
	}
	if f.leaves.status(leave.ID) != models.StatusEmergencyPending {
		t.Fatal("status must not change")
	}
}

func TestEmergencyRejectIsTerminal(t *testing.T) {
	f := newLeaveFixture(t)
	leave := f.apply(t, models.LeaveEmergency)
	f.act(t, f.warden, leave.ID, lifecycle.ActionReject)

	for _, action := range []lifecycle.Action{lifecycle.ActionApprove, lifecycle.ActionScheduleMeeting, lifecycle.ActionReject} {
		_, err := f.svc.Transition(context.Background(), f.warden, leave.ID, action, TransitionOptions{})
		if !errors.Is(err, apperrors.ErrInvalidTransition) {
			t.Fatalf("%s after reject: got %v, want invalid transition", action, err)
		}
	}
	if f.leaves.status(leave.ID) != models.StatusRejected {
		t.Fatal("status must stay rejected")
	}
}

func TestConcurrentApprovalsOnlyOneWins(t *testing.T) {
	f := newLeaveFixture(t)
	leave := f.apply(t, models.LeaveNormal)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(action lifecycle.Action) {
			defer wg.Done()
			_, err := f.svc.Transition(context.Background(), f.parent, leave.ID, action, TransitionOptions{})
			errs <- err
		}([]lifecycle.Action{lifecycle.ActionApprove, lifecycle.ActionReject}[i%2])
	}
	wg.Wait()
	close(errs)

	wins := 0
	for err := range errs {
		switch {
		case err == nil:
			wins++
		case !errors.Is(err, apperrors.ErrInvalidTransition):
			t.Fatalf("unexpected error %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("%d transitions succeeded, want exactly 1", wins)
	}
	if s := f.leaves.status(leave.ID); s != models.StatusParentApproved && s != models.StatusRejected {
		t.Fatalf("final status %s", s)
	}
}

func TestProofWorkflow(t *testing.T) {
	f := newLeaveFixture(t)
	ctx := context.Background()
	leave := f.apply(t, models.LeaveEmergency)

	if _, err := f.svc.SubmitProof(ctx, f.student, leave.ID); !errors.Is(err, apperrors.ErrProofNotAllowed) {
		t.Fatalf("proof before completion: got %v", err)
	}

	f.act(t, f.warden, leave.ID, lifecycle.ActionApprove)
	f.act(t, f.parent, leave.ID, lifecycle.ActionConfirmArrival)

	if _, err := f.svc.VerifyProof(ctx, f.advisor, leave.ID); !errors.Is(err, apperrors.ErrProofNotSubmitted) {
		t.Fatalf("verify before submit: got %v", err)
	}

	intruder := f.users.add(&models.User{Name: "Ravi", Email: "ravi@campus.edu", Role: models.RoleStudent})
	if _, err := f.svc.SubmitProof(ctx, models.Actor{ID: intruder.ID, Role: models.RoleStudent}, leave.ID); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("other student submitting: got %v", err)
	}

	got, err := f.svc.SubmitProof(ctx, f.student, leave.ID)
	if err != nil || !got.ProofSubmitted {
		t.Fatalf("submit proof: %v %+v", err, got)
	}
	if _, err := f.svc.SubmitProof(ctx, f.student, leave.ID); !errors.Is(err, apperrors.ErrProofAlreadyStated) {
		t.Fatalf("second submit: got %v", err)
	}

	if _, err := f.svc.VerifyProof(ctx, f.warden, leave.ID); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("warden verifying: got %v", err)
	}
	got, err = f.svc.VerifyProof(ctx, f.advisor, leave.ID)
	if err != nil || !got.ProofVerified {
		t.Fatalf("verify proof: %v %+v", err, got)
	}
	if _, err := f.svc.VerifyProof(ctx, f.advisor, leave.ID); !errors.Is(err, apperrors.ErrProofAlreadyStated) {
		t.Fatalf("second verify: got %v", err)
	}
}

func TestProofNotAllowedForNormalLeave(t *testing.T) {
	f := newLeaveFixture(t)
	leave := f.apply(t, models.LeaveNormal)
	for _, step := range []models.Actor{f.parent, f.advisor, f.warden} {
		f.act(t, step, leave.ID, lifecycle.ActionApprove)
	}
	f.act(t, f.parent, leave.ID, lifecycle.ActionConfirmArrival)

	if _, err := f.svc.SubmitProof(context.Background(), f.student, leave.ID); !errors.Is(err, apperrors.ErrProofNotAllowed) {
		t.Fatalf("got %v, want proof not allowed", err)
	}
}

func TestListMineScoping(t *testing.T) {
	f := newLeaveFixture(t)
	ctx := context.Background()

	first := f.apply(t, models.LeaveNormal)
	second := f.apply(t, models.LeaveNormal)
	emergency := f.apply(t, models.LeaveEmergency)
	f.act(t, f.parent, first.ID, lifecycle.ActionApprove)
	f.act(t, f.parent, second.ID, lifecycle.ActionApprove)
	f.act(t, f.advisor, second.ID, lifecycle.ActionReject)

	ids := func(actor models.Actor) map[int64]bool {
		t.Helper()
		leaves, err := f.svc.ListMine(ctx, actor)
		if err != nil {
			t.Fatalf("ListMine(%s): %v", actor.Role, err)
		}
		out := make(map[int64]bool)
		for _, l := range leaves {
			out[l.ID] = true
		}
		return out
	}

	if got := ids(f.student); len(got) != 3 {
		t.Fatalf("student sees %v", got)
	}
	if got := ids(f.parent); len(got) != 3 {
		t.Fatalf("linked parent sees %v", got)
	}
	if got := ids(f.other); len(got) != 0 {
		t.Fatalf("unlinked parent sees %v", got)
	}
	// queue (first) plus what the advisor already handled (second)
	if got := ids(f.advisor); len(got) != 2 || !got[first.ID] || !got[second.ID] {
		t.Fatalf("advisor sees %v", got)
	}
	if got := ids(f.warden); len(got) != 1 || !got[emergency.ID] {
		t.Fatalf("warden sees %v", got)
	}
	if got := ids(f.admin); len(got) != 3 {
		t.Fatalf("admin sees %v", got)
	}
}

func TestGetVisibility(t *testing.T) {
	f := newLeaveFixture(t)
	ctx := context.Background()
	leave := f.apply(t, models.LeaveNormal)

	for _, actor := range []models.Actor{f.student, f.parent, f.advisor, f.warden, f.admin} {
		if _, err := f.svc.Get(ctx, actor, leave.ID); err != nil {
			t.Fatalf("%s should see the leave: %v", actor.Role, err)
		}
	}
	if _, err := f.svc.Get(ctx, f.other, leave.ID); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("unlinked parent: got %v", err)
	}
	if _, err := f.svc.Get(ctx, f.admin, 404); !errors.Is(err, apperrors.ErrLeaveNotFound) {
		t.Fatalf("missing leave: got %v", err)
	}
}

func TestListAllValidatesFilter(t *testing.T) {
	f := newLeaveFixture(t)
	_, _, err := f.svc.ListAll(context.Background(), models.LeaveFilter{Status: "archived"})
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("got %v, want validation error", err)
	}

	f.apply(t, models.LeaveEmergency)
	f.apply(t, models.LeaveNormal)
	leaves, total, err := f.svc.ListAll(context.Background(), models.LeaveFilter{Type: models.LeaveEmergency})
	if err != nil || total != 1 || len(leaves) != 1 {
		t.Fatalf("ListAll(emergency) = %d/%d, %v", len(leaves), total, err)
	}
}
