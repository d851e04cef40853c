package repositories

import (
	"context"

	"github.com/mddrc-dev/training-service/internal/models"
)

// ParticipantAccessRepository manages the per-(participant, session) gate
// records. Records are created lazily on first read, so GetOrCreate is the
// primary entry point.
type ParticipantAccessRepository interface {
	// GetOrCreate returns the record for the pair, inserting a default one
	// (all gates closed, nothing completed) when none exists yet.
	GetOrCreate(ctx context.Context, participantID, sessionID string) (*models.ParticipantAccess, error)

	GetByPair(ctx context.Context, participantID, sessionID string) (*models.ParticipantAccess, error)
	ListBySession(ctx context.Context, sessionID string) ([]*models.ParticipantAccess, error)
	ListByParticipant(ctx context.Context, participantID string) ([]*models.ParticipantAccess, error)

	// SetGate flips a single gate column for one pair.
	SetGate(ctx context.Context, participantID, sessionID string, gate models.AccessGate, open bool) error

	// SetGateForSession opens or closes a gate for every record of a
	// session in one statement.
	SetGateForSession(ctx context.Context, sessionID string, gate models.AccessGate, open bool) error

	// SetCompletion records that the submission behind a gate succeeded.
	// Re-recording an already-true flag is a harmless overwrite.
	SetCompletion(ctx context.Context, participantID, sessionID string, gate models.AccessGate, done bool) error

	// SetCertificate stores the uploaded certificate reference.
	SetCertificate(ctx context.Context, participantID, sessionID, url, uploadedBy string) error

	Update(ctx context.Context, access *models.ParticipantAccess) error
	DeleteBySession(ctx context.Context, sessionID string) error

	ListWithCertificates(ctx context.Context, limit, offset int) ([]*models.ParticipantAccess, int64, error)
}
