package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/mddrc-dev/training-service/internal/models"
	"github.com/mddrc-dev/training-service/internal/repositories"
)

// fakeRepository is an in-memory Repository for service tests. Sub-repos not
// exercised by a test stay nil.
type fakeRepository struct {
	users      *fakeUserRepo
	sessions   *fakeSessionRepo
	programs   *fakeProgramRepo
	companies  *fakeCompanyRepo
	access     *fakeAccessRepo
	tests      *fakeTestRepo
	results    *fakeResultRepo
	attendance *fakeAttendanceRepo
	feedback   *fakeFeedbackRepo
	reports    *fakeReportRepo
	templates  *fakeChecklistTemplateRepo
	checklists *fakeChecklistRepo
	vehicles   *fakeVehicleDetailsRepo
	ftemplates *fakeFeedbackTemplateRepo
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		users:      &fakeUserRepo{byID: map[string]*models.User{}},
		sessions:   &fakeSessionRepo{byID: map[string]*models.Session{}},
		programs:   &fakeProgramRepo{byID: map[string]*models.Program{}},
		companies:  &fakeCompanyRepo{byID: map[string]*models.Company{}},
		access:     &fakeAccessRepo{byPair: map[string]*models.ParticipantAccess{}},
		tests:      &fakeTestRepo{byID: map[string]*models.Test{}},
		results:    &fakeResultRepo{},
		attendance: &fakeAttendanceRepo{byKey: map[string]*models.Attendance{}},
		feedback:   &fakeFeedbackRepo{},
		reports:    &fakeReportRepo{bySession: map[string]*models.TrainingReport{}},
		templates:  &fakeChecklistTemplateRepo{byID: map[string]*models.ChecklistTemplate{}},
		checklists: &fakeChecklistRepo{byID: map[string]*models.VehicleChecklist{}},
		vehicles:   &fakeVehicleDetailsRepo{byPair: map[string]*models.VehicleDetails{}},
		ftemplates: &fakeFeedbackTemplateRepo{byID: map[string]*models.FeedbackTemplate{}},
	}
}

func (f *fakeRepository) User() repositories.UserRepository               { return f.users }
func (f *fakeRepository) Company() repositories.CompanyRepository         { return f.companies }
func (f *fakeRepository) Program() repositories.ProgramRepository         { return f.programs }
func (f *fakeRepository) Session() repositories.SessionRepository         { return f.sessions }
func (f *fakeRepository) ParticipantAccess() repositories.ParticipantAccessRepository {
	return f.access
}
func (f *fakeRepository) Test() repositories.TestRepository             { return f.tests }
func (f *fakeRepository) TestResult() repositories.TestResultRepository { return f.results }
func (f *fakeRepository) ChecklistTemplate() repositories.ChecklistTemplateRepository {
	return f.templates
}
func (f *fakeRepository) VehicleChecklist() repositories.VehicleChecklistRepository {
	return f.checklists
}
func (f *fakeRepository) VehicleDetails() repositories.VehicleDetailsRepository {
	return f.vehicles
}
func (f *fakeRepository) FeedbackTemplate() repositories.FeedbackTemplateRepository {
	return f.ftemplates
}
func (f *fakeRepository) CourseFeedback() repositories.CourseFeedbackRepository     { return f.feedback }
func (f *fakeRepository) Attendance() repositories.AttendanceRepository             { return f.attendance }
func (f *fakeRepository) Report() repositories.ReportRepository                     { return f.reports }
func (f *fakeRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(f)
}
func (f *fakeRepository) Ping(ctx context.Context) error { return nil }
func (f *fakeRepository) Close() error                   { return nil }

// ===== USERS =====

type fakeUserRepo struct {
	mu   sync.Mutex
	byID map[string]*models.User
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == user.Email || u.IDNumber == user.IDNumber {
			return gorm.ErrDuplicatedKey
		}
	}
	r.byID[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByIDNumber(ctx context.Context, idNumber string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.IDNumber == idNumber {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByIDs(ctx context.Context, ids []string) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]*models.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.byID[id]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}

func (r *fakeUserRepo) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]*models.User, 0, len(r.byID))
	for _, u := range r.byID {
		if filters.Role != nil && u.Role != *filters.Role {
			continue
		}
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, int64(len(users)), nil
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func (r *fakeUserRepo) ExistsByIDNumber(ctx context.Context, idNumber string) (bool, error) {
	_, err := r.GetByIDNumber(ctx, idNumber)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func (r *fakeUserRepo) UpsertAdmin(ctx context.Context, admin *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[admin.ID] = admin
	return nil
}

// ===== SESSIONS =====

type fakeSessionRepo struct {
	mu   sync.Mutex
	byID map[string]*models.Session
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[session.ID] = session
	return nil
}

func (r *fakeSessionRepo) GetByID(ctx context.Context, id string) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.byID[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeSessionRepo) Update(ctx context.Context, session *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[session.ID] = session
	return nil
}

func (r *fakeSessionRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}

func (r *fakeSessionRepo) List(ctx context.Context, filters repositories.SessionFilters) ([]*models.Session, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sessions := make([]*models.Session, 0, len(r.byID))
	for _, s := range r.byID {
		if filters.Status != nil && s.Status != *filters.Status {
			continue
		}
		if filters.CoordinatorID != nil && (s.CoordinatorID == nil || *s.CoordinatorID != *filters.CoordinatorID) {
			continue
		}
		sessions = append(sessions, s)
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].ID < sessions[j].ID })
	return sessions, int64(len(sessions)), nil
}

func (r *fakeSessionRepo) ListByParticipant(ctx context.Context, participantID string) ([]*models.Session, error) {
	return r.listWhere(func(s *models.Session) bool { return s.HasParticipant(participantID) })
}

func (r *fakeSessionRepo) ListBySupervisor(ctx context.Context, supervisorID string) ([]*models.Session, error) {
	return r.listWhere(func(s *models.Session) bool { return s.HasSupervisor(supervisorID) })
}

func (r *fakeSessionRepo) ListByTrainer(ctx context.Context, trainerID string) ([]*models.Session, error) {
	return r.listWhere(func(s *models.Session) bool { return s.TrainerIndex(trainerID) >= 0 })
}

func (r *fakeSessionRepo) ListByCoordinator(ctx context.Context, coordinatorID string) ([]*models.Session, error) {
	return r.listWhere(func(s *models.Session) bool {
		return s.CoordinatorID != nil && *s.CoordinatorID == coordinatorID
	})
}

func (r *fakeSessionRepo) listWhere(pred func(*models.Session) bool) ([]*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sessions []*models.Session
	for _, s := range r.byID {
		if pred(s) {
			sessions = append(sessions, s)
		}
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].ID < sessions[j].ID })
	return sessions, nil
}

func (r *fakeSessionRepo) UpdateStatus(ctx context.Context, id string, status models.SessionStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.Status = status
	return nil
}

// ===== PROGRAMS =====

type fakeProgramRepo struct {
	mu   sync.Mutex
	byID map[string]*models.Program
}

func (r *fakeProgramRepo) Create(ctx context.Context, program *models.Program) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[program.ID] = program
	return nil
}

func (r *fakeProgramRepo) GetByID(ctx context.Context, id string) (*models.Program, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.byID[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeProgramRepo) Update(ctx context.Context, program *models.Program) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[program.ID] = program
	return nil
}

func (r *fakeProgramRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}

func (r *fakeProgramRepo) List(ctx context.Context, limit, offset int) ([]*models.Program, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	programs := make([]*models.Program, 0, len(r.byID))
	for _, p := range r.byID {
		programs = append(programs, p)
	}
	return programs, int64(len(programs)), nil
}

// ===== COMPANIES =====

type fakeCompanyRepo struct {
	mu   sync.Mutex
	byID map[string]*models.Company
}

func (r *fakeCompanyRepo) Create(ctx context.Context, company *models.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.byID {
		if c.Name == company.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	r.byID[company.ID] = company
	return nil
}

func (r *fakeCompanyRepo) GetByID(ctx context.Context, id string) (*models.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.byID[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCompanyRepo) GetByName(ctx context.Context, name string) (*models.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.byID {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCompanyRepo) Update(ctx context.Context, company *models.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[company.ID] = company
	return nil
}

func (r *fakeCompanyRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}

func (r *fakeCompanyRepo) List(ctx context.Context, limit, offset int) ([]*models.Company, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	companies := make([]*models.Company, 0, len(r.byID))
	for _, c := range r.byID {
		companies = append(companies, c)
	}
	return companies, int64(len(companies)), nil
}

// ===== PARTICIPANT ACCESS =====

type fakeAccessRepo struct {
	mu     sync.Mutex
	byPair map[string]*models.ParticipantAccess
	nextID int
}

func pairKey(participantID, sessionID string) string {
	return participantID + "/" + sessionID
}

func (r *fakeAccessRepo) GetOrCreate(ctx context.Context, participantID, sessionID string) (*models.ParticipantAccess, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := pairKey(participantID, sessionID)
	if a, ok := r.byPair[key]; ok {
		return a, nil
	}
	r.nextID++
	a := &models.ParticipantAccess{
		ID:            key,
		ParticipantID: participantID,
		SessionID:     sessionID,
	}
	r.byPair[key] = a
	return a, nil
}

func (r *fakeAccessRepo) GetByPair(ctx context.Context, participantID, sessionID string) (*models.ParticipantAccess, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.byPair[pairKey(participantID, sessionID)]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeAccessRepo) ListBySession(ctx context.Context, sessionID string) ([]*models.ParticipantAccess, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var records []*models.ParticipantAccess
	for _, a := range r.byPair {
		if a.SessionID == sessionID {
			records = append(records, a)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, nil
}

func (r *fakeAccessRepo) ListByParticipant(ctx context.Context, participantID string) ([]*models.ParticipantAccess, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var records []*models.ParticipantAccess
	for _, a := range r.byPair {
		if a.ParticipantID == participantID {
			records = append(records, a)
		}
	}
	return records, nil
}

func (r *fakeAccessRepo) SetGate(ctx context.Context, participantID, sessionID string, gate models.AccessGate, open bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byPair[pairKey(participantID, sessionID)]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	a.SetGate(gate, open)
	return nil
}

func (r *fakeAccessRepo) SetGateForSession(ctx context.Context, sessionID string, gate models.AccessGate, open bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byPair {
		if a.SessionID == sessionID {
			a.SetGate(gate, open)
		}
	}
	return nil
}

func (r *fakeAccessRepo) SetCompletion(ctx context.Context, participantID, sessionID string, gate models.AccessGate, done bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byPair[pairKey(participantID, sessionID)]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	switch gate {
	case models.GatePreTest:
		a.PreTestCompleted = done
	case models.GatePostTest:
		a.PostTestCompleted = done
	case models.GateChecklist:
		a.ChecklistSubmitted = done
	case models.GateFeedback:
		a.FeedbackSubmitted = done
	}
	return nil
}

func (r *fakeAccessRepo) SetCertificate(ctx context.Context, participantID, sessionID, url, uploadedBy string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byPair[pairKey(participantID, sessionID)]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	a.CertificateURL = &url
	a.CertificateUploadedBy = &uploadedBy
	return nil
}

func (r *fakeAccessRepo) Update(ctx context.Context, access *models.ParticipantAccess) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byPair[pairKey(access.ParticipantID, access.SessionID)] = access
	return nil
}

func (r *fakeAccessRepo) DeleteBySession(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, a := range r.byPair {
		if a.SessionID == sessionID {
			delete(r.byPair, key)
		}
	}
	return nil
}

func (r *fakeAccessRepo) ListWithCertificates(ctx context.Context, limit, offset int) ([]*models.ParticipantAccess, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var records []*models.ParticipantAccess
	for _, a := range r.byPair {
		if a.CertificateURL != nil {
			records = append(records, a)
		}
	}
	return records, int64(len(records)), nil
}

// ===== TESTS =====

type fakeTestRepo struct {
	mu   sync.Mutex
	byID map[string]*models.Test
}

func (r *fakeTestRepo) Create(ctx context.Context, test *models.Test) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[test.ID] = test
	return nil
}

func (r *fakeTestRepo) GetByID(ctx context.Context, id string) (*models.Test, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.byID[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeTestRepo) GetByProgramAndType(ctx context.Context, programID string, testType models.TestType) (*models.Test, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.byID {
		if t.ProgramID == programID && t.TestType == testType {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeTestRepo) Update(ctx context.Context, test *models.Test) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[test.ID] = test
	return nil
}

func (r *fakeTestRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}

func (r *fakeTestRepo) ListByProgram(ctx context.Context, programID string) ([]*models.Test, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var tests []*models.Test
	for _, t := range r.byID {
		if t.ProgramID == programID {
			tests = append(tests, t)
		}
	}
	return tests, nil
}

// ===== TEST RESULTS =====

type fakeResultRepo struct {
	mu      sync.Mutex
	results []*models.TestResult
}

func (r *fakeResultRepo) Create(ctx context.Context, result *models.TestResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, result)
	return nil
}

func (r *fakeResultRepo) GetByID(ctx context.Context, id string) (*models.TestResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, res := range r.results {
		if res.ID == id {
			return res, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeResultRepo) List(ctx context.Context, filters repositories.TestResultFilters) ([]*models.TestResult, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.results, int64(len(r.results)), nil
}

func (r *fakeResultRepo) ListByPair(ctx context.Context, participantID, sessionID string) ([]*models.TestResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var results []*models.TestResult
	for _, res := range r.results {
		if res.ParticipantID == participantID && res.SessionID == sessionID {
			results = append(results, res)
		}
	}
	return results, nil
}

func (r *fakeResultRepo) LatestByPair(ctx context.Context, participantID, sessionID string, testType models.TestType) (*models.TestResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *models.TestResult
	for _, res := range r.results {
		if res.ParticipantID != participantID || res.SessionID != sessionID || res.TestType != testType {
			continue
		}
		if latest == nil || res.SubmittedAt.After(latest.SubmittedAt) {
			latest = res
		}
	}
	return latest, nil
}

// ===== ATTENDANCE =====

type fakeAttendanceRepo struct {
	mu    sync.Mutex
	byKey map[string]*models.Attendance
}

func attendanceKey(participantID, sessionID, date string) string {
	return participantID + "/" + sessionID + "/" + date
}

func (r *fakeAttendanceRepo) Create(ctx context.Context, record *models.Attendance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := attendanceKey(record.ParticipantID, record.SessionID, record.Date)
	if _, ok := r.byKey[key]; ok {
		return gorm.ErrDuplicatedKey
	}
	r.byKey[key] = record
	return nil
}

func (r *fakeAttendanceRepo) Update(ctx context.Context, record *models.Attendance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byKey[attendanceKey(record.ParticipantID, record.SessionID, record.Date)] = record
	return nil
}

func (r *fakeAttendanceRepo) GetByDay(ctx context.Context, participantID, sessionID, date string) (*models.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.byKey[attendanceKey(participantID, sessionID, date)]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeAttendanceRepo) ListBySession(ctx context.Context, sessionID string) ([]*models.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var records []*models.Attendance
	for _, a := range r.byKey {
		if a.SessionID == sessionID {
			records = append(records, a)
		}
	}
	return records, nil
}

func (r *fakeAttendanceRepo) ListByPair(ctx context.Context, participantID, sessionID string) ([]*models.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var records []*models.Attendance
	for _, a := range r.byKey {
		if a.ParticipantID == participantID && a.SessionID == sessionID {
			records = append(records, a)
		}
	}
	return records, nil
}

func (r *fakeAttendanceRepo) HasClockOut(ctx context.Context, participantID, sessionID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byKey {
		if a.ParticipantID == participantID && a.SessionID == sessionID && a.ClockOut != nil {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAttendanceRepo) Stats(ctx context.Context, sessionID string) (*repositories.AttendanceStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := &repositories.AttendanceStats{}
	for _, a := range r.byKey {
		if a.SessionID != sessionID {
			continue
		}
		stats.TotalRecords++
		if a.ClockIn != nil {
			stats.ClockedIn++
		}
		if a.ClockOut != nil {
			stats.ClockedOut++
		}
	}
	return stats, nil
}

// ===== REPORTS =====

type fakeReportRepo struct {
	mu        sync.Mutex
	bySession map[string]*models.TrainingReport
}

func (r *fakeReportRepo) Upsert(ctx context.Context, report *models.TrainingReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bySession[report.SessionID] = report
	return nil
}

func (r *fakeReportRepo) GetBySession(ctx context.Context, sessionID string) (*models.TrainingReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rep, ok := r.bySession[sessionID]; ok {
		return rep, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeReportRepo) List(ctx context.Context, filters repositories.ReportFilters) ([]*models.TrainingReport, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var reports []*models.TrainingReport
	for _, rep := range r.bySession {
		if filters.CreatedBy != nil && rep.CoordinatorID != *filters.CreatedBy {
			continue
		}
		reports = append(reports, rep)
	}
	return reports, int64(len(reports)), nil
}

func (r *fakeReportRepo) Delete(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.bySession, sessionID)
	return nil
}

// ===== COURSE FEEDBACK =====

type fakeFeedbackRepo struct {
	mu      sync.Mutex
	entries []*models.CourseFeedback
}

func (r *fakeFeedbackRepo) Create(ctx context.Context, feedback *models.CourseFeedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, feedback)
	return nil
}

func (r *fakeFeedbackRepo) ListBySession(ctx context.Context, sessionID string) ([]*models.CourseFeedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var entries []*models.CourseFeedback
	for _, f := range r.entries {
		if f.SessionID == sessionID {
			entries = append(entries, f)
		}
	}
	return entries, nil
}

func (r *fakeFeedbackRepo) ListByPair(ctx context.Context, participantID, sessionID string) ([]*models.CourseFeedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var entries []*models.CourseFeedback
	for _, f := range r.entries {
		if f.ParticipantID == participantID && f.SessionID == sessionID {
			entries = append(entries, f)
		}
	}
	return entries, nil
}

// ===== CHECKLIST TEMPLATES =====

type fakeChecklistTemplateRepo struct {
	mu   sync.Mutex
	byID map[string]*models.ChecklistTemplate
}

func (r *fakeChecklistTemplateRepo) Create(ctx context.Context, template *models.ChecklistTemplate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[template.ID] = template
	return nil
}

func (r *fakeChecklistTemplateRepo) GetByID(ctx context.Context, id string) (*models.ChecklistTemplate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.byID[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeChecklistTemplateRepo) GetByProgram(ctx context.Context, programID string) (*models.ChecklistTemplate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.byID {
		if t.ProgramID == programID {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeChecklistTemplateRepo) Update(ctx context.Context, template *models.ChecklistTemplate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[template.ID] = template
	return nil
}

func (r *fakeChecklistTemplateRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}

func (r *fakeChecklistTemplateRepo) List(ctx context.Context, limit, offset int) ([]*models.ChecklistTemplate, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var templates []*models.ChecklistTemplate
	for _, t := range r.byID {
		templates = append(templates, t)
	}
	return templates, int64(len(templates)), nil
}

// ===== VEHICLE CHECKLISTS =====

type fakeChecklistRepo struct {
	mu   sync.Mutex
	byID map[string]*models.VehicleChecklist
}

func (r *fakeChecklistRepo) Create(ctx context.Context, checklist *models.VehicleChecklist) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[checklist.ID] = checklist
	return nil
}

func (r *fakeChecklistRepo) GetByID(ctx context.Context, id string) (*models.VehicleChecklist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.byID[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeChecklistRepo) List(ctx context.Context, filters repositories.ChecklistFilters) ([]*models.VehicleChecklist, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var checklists []*models.VehicleChecklist
	for _, c := range r.byID {
		if filters.SessionID != nil && c.SessionID != *filters.SessionID {
			continue
		}
		if filters.ParticipantID != nil && c.ParticipantID != *filters.ParticipantID {
			continue
		}
		if filters.Status != nil && c.VerificationStatus != *filters.Status {
			continue
		}
		checklists = append(checklists, c)
	}
	return checklists, int64(len(checklists)), nil
}

func (r *fakeChecklistRepo) ListByPair(ctx context.Context, participantID, sessionID string) ([]*models.VehicleChecklist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var checklists []*models.VehicleChecklist
	for _, c := range r.byID {
		if c.ParticipantID == participantID && c.SessionID == sessionID {
			checklists = append(checklists, c)
		}
	}
	return checklists, nil
}

func (r *fakeChecklistRepo) SetVerification(ctx context.Context, id, verifierID string, status models.VerificationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	now := time.Now()
	c.VerifiedBy = &verifierID
	c.VerifiedAt = &now
	c.VerificationStatus = status
	return nil
}

// ===== VEHICLE DETAILS =====

type fakeVehicleDetailsRepo struct {
	mu     sync.Mutex
	byPair map[string]*models.VehicleDetails
}

func (r *fakeVehicleDetailsRepo) Upsert(ctx context.Context, details *models.VehicleDetails) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := details.ParticipantID + "/" + details.SessionID
	if existing, ok := r.byPair[key]; ok {
		details.ID = existing.ID
	}
	r.byPair[key] = details
	return nil
}

func (r *fakeVehicleDetailsRepo) GetByPair(ctx context.Context, participantID, sessionID string) (*models.VehicleDetails, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	details, ok := r.byPair[participantID+"/"+sessionID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return details, nil
}

func (r *fakeVehicleDetailsRepo) ListBySession(ctx context.Context, sessionID string) ([]*models.VehicleDetails, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.VehicleDetails
	for _, d := range r.byPair {
		if d.SessionID == sessionID {
			out = append(out, d)
		}
	}
	return out, nil
}

// ===== FEEDBACK TEMPLATES =====

type fakeFeedbackTemplateRepo struct {
	mu   sync.Mutex
	byID map[string]*models.FeedbackTemplate
}

func (r *fakeFeedbackTemplateRepo) Create(ctx context.Context, template *models.FeedbackTemplate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[template.ID] = template
	return nil
}

func (r *fakeFeedbackTemplateRepo) GetByID(ctx context.Context, id string) (*models.FeedbackTemplate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	template, ok := r.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return template, nil
}

func (r *fakeFeedbackTemplateRepo) GetByProgram(ctx context.Context, programID string) (*models.FeedbackTemplate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, template := range r.byID {
		if template.ProgramID == programID {
			return template, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeFeedbackTemplateRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *fakeFeedbackTemplateRepo) List(ctx context.Context, limit, offset int) ([]*models.FeedbackTemplate, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var templates []*models.FeedbackTemplate
	for _, template := range r.byID {
		templates = append(templates, template)
	}
	return templates, int64(len(templates)), nil
}
