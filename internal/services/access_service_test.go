package services

import (
	"context"
	"errors"
	"testing"

	"github.com/mddrc-dev/training-service/internal/events"
	"github.com/mddrc-dev/training-service/internal/models"
)

func TestAccessService_UpdateGateOwnership(t *testing.T) {
	env := newTestEnv()
	svc := NewAccessService(env.repo, env.publisher, env.logger, env.validator)
	ctx := context.Background()

	env.addProgram("prog-1", 70)
	owner := env.addUser("coord-1", models.RoleCoordinator)
	other := env.addUser("coord-2", models.RoleCoordinator)
	env.addUser("p1", models.RoleParticipant)
	env.addSession("sess-1", "prog-1", sessionOpts{
		coordinatorID: owner.ID,
		participants:  []string{"p1"},
	})

	req := &UpdateAccessRequest{Gate: "pre_test", Open: true}

	access, err := svc.UpdateGate(ctx, "sess-1", "p1", req, owner)
	if err != nil {
		t.Fatalf("owning coordinator error: %v", err)
	}
	if !access.CanAccessPreTest {
		t.Error("gate not opened")
	}

	if _, err := svc.UpdateGate(ctx, "sess-1", "p1", req, other); !IsForbidden(err) {
		t.Errorf("non-owning coordinator: got %v, want forbidden", err)
	}

	published := env.publisher.GetPublishedEvents()
	if len(published) != 1 || published[0].Type != events.EventGateToggled {
		t.Errorf("expected one gate_toggled event, got %d", len(published))
	}
}

func TestAccessService_UpdateGateNotEnrolled(t *testing.T) {
	env := newTestEnv()
	svc := NewAccessService(env.repo, env.publisher, env.logger, env.validator)
	ctx := context.Background()

	env.addProgram("prog-1", 70)
	admin := env.addUser("admin-1", models.RoleAdmin)
	env.addSession("sess-1", "prog-1", sessionOpts{participants: []string{"p1"}})

	req := &UpdateAccessRequest{Gate: "checklist", Open: true}
	if _, err := svc.UpdateGate(ctx, "sess-1", "stranger", req, admin); !errors.Is(err, ErrNotEnrolled) {
		t.Errorf("got %v, want ErrNotEnrolled", err)
	}
}

func TestAccessService_BulkToggleReportsPerParticipant(t *testing.T) {
	env := newTestEnv()
	svc := NewAccessService(env.repo, env.publisher, env.logger, env.validator)
	ctx := context.Background()

	env.addProgram("prog-1", 70)
	admin := env.addUser("admin-1", models.RoleAdmin)
	env.addSession("sess-1", "prog-1", sessionOpts{participants: []string{"p1", "p2"}})

	req := &BulkToggleRequest{
		ParticipantIDs: []string{"p1", "stranger", "p2"},
		Gate:           "post_test",
		Open:           true,
	}

	outcomes, err := svc.BulkToggle(ctx, "sess-1", req, admin)
	if err != nil {
		t.Fatalf("BulkToggle error: %v", err)
	}
	if len(outcomes) != 3 {
		t.Fatalf("got %d outcomes, want 3", len(outcomes))
	}

	// The failure in the middle does not stop the rest.
	if !outcomes[0].OK || outcomes[1].OK || !outcomes[2].OK {
		t.Errorf("outcomes = %+v, want ok, fail, ok", outcomes)
	}

	for _, pid := range []string{"p1", "p2"} {
		access, err := env.repo.access.GetByPair(ctx, pid, "sess-1")
		if err != nil {
			t.Fatalf("access record for %s missing: %v", pid, err)
		}
		if !access.CanAccessPostTest {
			t.Errorf("gate not opened for %s", pid)
		}
	}
}

func TestAccessService_BulkToggleDefaultsToRoster(t *testing.T) {
	env := newTestEnv()
	svc := NewAccessService(env.repo, env.publisher, env.logger, env.validator)
	ctx := context.Background()

	env.addProgram("prog-1", 70)
	admin := env.addUser("admin-1", models.RoleAdmin)
	env.addSession("sess-1", "prog-1", sessionOpts{participants: []string{"p1", "p2", "p3"}})
	for _, pid := range []string{"p1", "p2", "p3"} {
		env.openGate(pid, "sess-1", models.GatePreTest)
	}

	// No ids closes the gate for the whole roster.
	req := &BulkToggleRequest{Gate: "pre_test", Open: false}
	outcomes, err := svc.BulkToggle(ctx, "sess-1", req, admin)
	if err != nil {
		t.Fatalf("BulkToggle error: %v", err)
	}
	if len(outcomes) != 3 {
		t.Fatalf("got %d outcomes, want 3", len(outcomes))
	}
	for _, o := range outcomes {
		if !o.OK {
			t.Errorf("outcome for %s failed: %s", o.ParticipantID, o.Error)
		}
	}

	for _, pid := range []string{"p1", "p2", "p3"} {
		access, err := env.repo.access.GetByPair(ctx, pid, "sess-1")
		if err != nil {
			t.Fatalf("access record for %s missing: %v", pid, err)
		}
		if access.CanAccessPreTest {
			t.Errorf("gate still open for %s", pid)
		}
	}
}

func TestAccessService_ReleaseGateOpensAll(t *testing.T) {
	env := newTestEnv()
	svc := NewAccessService(env.repo, env.publisher, env.logger, env.validator)
	ctx := context.Background()

	env.addProgram("prog-1", 70)
	admin := env.addUser("admin-1", models.RoleAdmin)
	env.addSession("sess-1", "prog-1", sessionOpts{participants: []string{"p1", "p2", "p3"}})

	if err := svc.ReleaseGate(ctx, "sess-1", models.GateFeedback, admin); err != nil {
		t.Fatalf("ReleaseGate error: %v", err)
	}

	records, _ := env.repo.access.ListBySession(ctx, "sess-1")
	if len(records) != 3 {
		t.Fatalf("got %d access records, want 3", len(records))
	}
	for _, a := range records {
		if !a.CanAccessFeedback {
			t.Errorf("feedback gate closed for %s", a.ParticipantID)
		}
	}
}

func TestAccessService_EligibilityRecomputedEveryCheck(t *testing.T) {
	env := newTestEnv()
	svc := NewAccessService(env.repo, env.publisher, env.logger, env.validator)
	ctx := context.Background()

	env.addProgram("prog-1", 70)
	admin := env.addUser("admin-1", models.RoleAdmin)
	env.addUser("p1", models.RoleParticipant)
	session := env.addSession("sess-1", "prog-1", sessionOpts{participants: []string{"p1"}})

	// Nothing satisfied yet.
	resp, err := svc.CheckEligibility(ctx, "sess-1", "p1", admin)
	if err != nil {
		t.Fatalf("CheckEligibility error: %v", err)
	}
	if resp.Eligible {
		t.Error("eligible with no facts satisfied")
	}

	// Satisfy all four facts.
	access, _ := env.repo.access.GetOrCreate(ctx, "p1", "sess-1")
	url := "https://files.example.com/cert.pdf"
	access.CertificateURL = &url
	access.FeedbackSubmitted = true
	out := "2026-09-03T17:00:00Z"
	env.repo.attendance.byKey[attendanceKey("p1", "sess-1", "2026-09-03")] = &models.Attendance{
		ParticipantID: "p1", SessionID: "sess-1", Date: "2026-09-03", ClockOut: &out,
	}

	resp, err = svc.CheckEligibility(ctx, "sess-1", "p1", admin)
	if err != nil {
		t.Fatalf("CheckEligibility error: %v", err)
	}
	if !resp.Eligible {
		t.Fatalf("not eligible with all facts satisfied: %+v", resp)
	}

	// Deactivating the session flips the verdict without any other change.
	session.Status = models.SessionInactive
	resp, err = svc.CheckEligibility(ctx, "sess-1", "p1", admin)
	if err != nil {
		t.Fatalf("CheckEligibility error: %v", err)
	}
	if resp.Eligible {
		t.Error("still eligible after session deactivated")
	}
	if !resp.HasCertificate || !resp.FeedbackSubmitted || !resp.HasClockOut {
		t.Error("unrelated facts changed")
	}
}

func TestAccessService_DownloadCertificate(t *testing.T) {
	env := newTestEnv()
	svc := NewAccessService(env.repo, env.publisher, env.logger, env.validator)
	ctx := context.Background()

	env.addProgram("prog-1", 70)
	participant := env.addUser("p1", models.RoleParticipant)
	env.addSession("sess-1", "prog-1", sessionOpts{participants: []string{"p1"}})

	if _, err := svc.DownloadCertificate(ctx, "sess-1", "p1", participant); !errors.Is(err, ErrNoCertificate) {
		t.Errorf("got %v, want ErrNoCertificate", err)
	}

	access, _ := env.repo.access.GetOrCreate(ctx, "p1", "sess-1")
	url := "https://files.example.com/cert.pdf"
	access.CertificateURL = &url

	if _, err := svc.DownloadCertificate(ctx, "sess-1", "p1", participant); !errors.Is(err, ErrNotEligible) {
		t.Errorf("got %v, want ErrNotEligible", err)
	}

	// Staff fetch the stored file without the eligibility facts.
	admin := env.addUser("adm", models.RoleAdmin)
	if got, err := svc.DownloadCertificate(ctx, "sess-1", "p1", admin); err != nil || got != url {
		t.Errorf("admin download = (%q, %v), want (%q, nil)", got, err, url)
	}

	access.FeedbackSubmitted = true
	out := "2026-09-03T17:00:00Z"
	env.repo.attendance.byKey[attendanceKey("p1", "sess-1", "2026-09-03")] = &models.Attendance{
		ParticipantID: "p1", SessionID: "sess-1", Date: "2026-09-03", ClockOut: &out,
	}

	got, err := svc.DownloadCertificate(ctx, "sess-1", "p1", participant)
	if err != nil {
		t.Fatalf("DownloadCertificate error: %v", err)
	}
	if got != url {
		t.Errorf("url = %s, want %s", got, url)
	}

	// A different participant cannot fetch someone else's certificate.
	other := env.addUser("p2", models.RoleParticipant)
	if _, err := svc.DownloadCertificate(ctx, "sess-1", "p1", other); !IsForbidden(err) {
		t.Errorf("other participant: got %v, want forbidden", err)
	}
}
