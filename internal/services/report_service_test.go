package services

import (
	"context"
	"errors"
	"testing"

	"github.com/mddrc-dev/training-service/internal/events"
	"github.com/mddrc-dev/training-service/internal/models"
	"github.com/mddrc-dev/training-service/internal/repositories"
)

func TestReportService_SaveDraftThenSubmit(t *testing.T) {
	env := newTestEnv()
	svc := NewReportService(env.repo, env.publisher, env.logger, env.validator)
	ctx := context.Background()

	env.addProgram("prog-1", 70)
	coordinator := env.addUser("coord-1", models.RoleCoordinator)
	env.addSession("sess-1", "prog-1", sessionOpts{coordinatorID: "coord-1"})

	notes := "Two near-misses during the slalom drill"
	report, err := svc.Save(ctx, &ReportRequest{SessionID: "sess-1", AdditionalNotes: &notes}, coordinator)
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if report.Status != models.ReportDraft {
		t.Errorf("status = %s, want draft", report.Status)
	}
	if report.SubmittedAt != nil {
		t.Error("draft should not carry a submission time")
	}
	if len(env.publisher.GetPublishedEvents()) != 0 {
		t.Error("draft save should not publish")
	}

	photo := "https://files.example.com/group.jpg"
	report, err = svc.Save(ctx, &ReportRequest{
		SessionID:       "sess-1",
		GroupPhoto:      &photo,
		AdditionalNotes: &notes,
		Submit:          true,
	}, coordinator)
	if err != nil {
		t.Fatalf("submit error: %v", err)
	}
	if report.Status != models.ReportSubmitted || report.SubmittedAt == nil {
		t.Errorf("status = %s, want submitted with timestamp", report.Status)
	}
	if report.GroupPhoto == nil || *report.GroupPhoto != photo {
		t.Error("group photo not stored")
	}

	published := env.publisher.GetPublishedEvents()
	if len(published) != 1 || published[0].Type != events.EventReportSubmitted {
		t.Fatalf("expected one report event, got %d", len(published))
	}
}

func TestReportService_SaveRequiresOwnSession(t *testing.T) {
	env := newTestEnv()
	svc := NewReportService(env.repo, env.publisher, env.logger, env.validator)
	ctx := context.Background()

	env.addProgram("prog-1", 70)
	env.addUser("coord-1", models.RoleCoordinator)
	other := env.addUser("coord-2", models.RoleCoordinator)
	trainer := env.addUser("t1", models.RoleTrainer)
	env.addSession("sess-1", "prog-1", sessionOpts{coordinatorID: "coord-1"})

	req := &ReportRequest{SessionID: "sess-1"}
	if _, err := svc.Save(ctx, req, other); !IsForbidden(err) {
		t.Errorf("foreign coordinator: got %v, want forbidden", err)
	}
	if _, err := svc.Save(ctx, req, trainer); !IsForbidden(err) {
		t.Errorf("trainer: got %v, want forbidden", err)
	}
}

func TestReportService_GetBySession(t *testing.T) {
	env := newTestEnv()
	svc := NewReportService(env.repo, env.publisher, env.logger, env.validator)
	ctx := context.Background()

	env.addProgram("prog-1", 70)
	coordinator := env.addUser("coord-1", models.RoleCoordinator)
	admin := env.addUser("adm", models.RoleAdmin)
	env.addSession("sess-1", "prog-1", sessionOpts{coordinatorID: "coord-1"})

	if _, err := svc.GetBySession(ctx, "sess-1", admin); !errors.Is(err, ErrReportNotFound) {
		t.Errorf("missing report: got %v, want ErrReportNotFound", err)
	}

	if _, err := svc.Save(ctx, &ReportRequest{SessionID: "sess-1"}, coordinator); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	report, err := svc.GetBySession(ctx, "sess-1", coordinator)
	if err != nil {
		t.Fatalf("GetBySession error: %v", err)
	}
	if report.CoordinatorID != "coord-1" {
		t.Errorf("coordinator id = %s, want coord-1", report.CoordinatorID)
	}
}

func TestReportService_ListScopedToCoordinator(t *testing.T) {
	env := newTestEnv()
	svc := NewReportService(env.repo, env.publisher, env.logger, env.validator)
	ctx := context.Background()

	env.addProgram("prog-1", 70)
	first := env.addUser("coord-1", models.RoleCoordinator)
	second := env.addUser("coord-2", models.RoleCoordinator)
	admin := env.addUser("adm", models.RoleAdmin)
	trainer := env.addUser("t1", models.RoleTrainer)
	env.addSession("sess-1", "prog-1", sessionOpts{coordinatorID: "coord-1"})
	env.addSession("sess-2", "prog-1", sessionOpts{coordinatorID: "coord-2"})

	if _, err := svc.Save(ctx, &ReportRequest{SessionID: "sess-1"}, first); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if _, err := svc.Save(ctx, &ReportRequest{SessionID: "sess-2"}, second); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	_, total, err := svc.List(ctx, repositories.ReportFilters{}, admin)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if total != 2 {
		t.Errorf("admin sees %d reports, want 2", total)
	}

	reports, total, err := svc.List(ctx, repositories.ReportFilters{}, first)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if total != 1 || reports[0].SessionID != "sess-1" {
		t.Errorf("coordinator sees %d reports, want only their own", total)
	}

	if _, _, err := svc.List(ctx, repositories.ReportFilters{}, trainer); !IsForbidden(err) {
		t.Errorf("trainer listing: got %v, want forbidden", err)
	}
}
