package services

import (
	"context"
	"fmt"

	"github.com/mddrc-dev/training-service/internal/models"
	"github.com/mddrc-dev/training-service/internal/policy"
	"github.com/mddrc-dev/training-service/internal/repositories"
	"github.com/mddrc-dev/training-service/internal/utils"
)

// ===== SHARED AUTHORIZATION HELPERS =====

func actorOf(u *models.User) policy.Actor {
	return policy.Actor{ID: u.ID, Role: u.Role}
}

// sessionTarget assembles the ownership facts of a session for evaluation.
func sessionTarget(sess *models.Session, subjectID string) policy.Target {
	t := policy.Target{SubjectID: subjectID}
	if sess != nil {
		if sess.CoordinatorID != nil {
			t.SessionCoordinatorID = *sess.CoordinatorID
		}
		t.TrainerAssignments = sess.TrainerAssignments
	}
	return t
}

// authorizeSession loads a session and evaluates the action against it.
// Authorization is decided before existence is revealed: an actor whose role
// could never pass gets a permission error even when the session id does not
// exist.
func authorizeSession(ctx context.Context, repo repositories.Repository, action policy.Action, actor *models.User, sessionID, subjectID string) (*models.Session, error) {
	sess, err := repo.Session().GetByID(ctx, sessionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			if perr := policy.Evaluate(action, actorOf(actor), policy.Target{SubjectID: subjectID}); perr != nil {
				return nil, NewPermissionError(actor.ID, "session", string(action), "role check failed")
			}
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if err := policy.Evaluate(action, actorOf(actor), sessionTarget(sess, subjectID)); err != nil {
		return nil, NewPermissionError(actor.ID, "session", string(action), "role or ownership check failed")
	}
	return sess, nil
}

// requireEnrolled verifies the actor is enrolled as a participant of the
// session.
func requireEnrolled(sess *models.Session, participantID string) error {
	if !sess.HasParticipant(participantID) {
		return ErrNotEnrolled
	}
	return nil
}

// hashInitialPassword derives the first-login password for accounts created
// from a session roster. Participants sign in with their id number until
// they reset it.
func hashInitialPassword(idNumber string) (string, error) {
	hash, err := utils.HashPassword(idNumber)
	if err != nil {
		return "", fmt.Errorf("failed to hash initial password: %w", err)
	}
	return hash, nil
}

// normalizePage clamps limit and offset the way list endpoints expect.
func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func pageOf(limit, offset int) (page, size int) {
	if limit <= 0 {
		limit = 20
	}
	return offset/limit + 1, limit
}
