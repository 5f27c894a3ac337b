package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campusboard/notice-api/internal/authz"
	"github.com/campusboard/notice-api/internal/models"
	appErrors "github.com/campusboard/notice-api/pkg/errors"
)

type mockAssignmentRepo struct {
	assignments []models.TeachingAssignment
	created     *models.TeachingAssignment
}

func (m *mockAssignmentRepo) Create(_ context.Context, assignment *models.TeachingAssignment) error {
	m.created = assignment
	return nil
}

func (m *mockAssignmentRepo) ListByTeacher(_ context.Context, _, _ string) ([]models.TeachingAssignmentDetail, error) {
	return nil, nil
}

func (m *mockAssignmentRepo) ListByTeacherAndSubject(_ context.Context, _, teacherID, subjectID string) ([]models.TeachingAssignment, error) {
	var out []models.TeachingAssignment
	for _, a := range m.assignments {
		if a.TeacherID == teacherID && a.SubjectID == subjectID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockAssignmentRepo) ListByOrg(_ context.Context, _ string) ([]models.TeachingAssignmentDetail, error) {
	return nil, nil
}

type stubUserReader struct {
	users map[string]*models.User
}

func (s *stubUserReader) FindByID(_ context.Context, _, id string) (*models.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

type stubSubjectReader struct {
	subjects map[string]*models.Subject
}

func (s *stubSubjectReader) FindByID(_ context.Context, _, id string) (*models.Subject, error) {
	if sub, ok := s.subjects[id]; ok {
		return sub, nil
	}
	return nil, sql.ErrNoRows
}

type stubClassCounter struct {
	known map[string]struct{}
}

func (s *stubClassCounter) CountByIDs(_ context.Context, _ string, ids []string) (int, error) {
	count := 0
	for _, id := range ids {
		if _, ok := s.known[id]; ok {
			count++
		}
	}
	return count, nil
}

func superActor() authz.Actor {
	level := models.SuperAdmin
	return authz.Actor{Role: models.RoleAdmin, AdminLevel: &level}
}

func deptActor(departmentID string) authz.Actor {
	level := models.DeptAdmin
	return authz.Actor{Role: models.RoleAdmin, AdminLevel: &level, DepartmentID: &departmentID}
}

func newAssignmentService(repo *mockAssignmentRepo, users *stubUserReader, subjects *stubSubjectReader, classes *stubClassCounter) *TeachingAssignmentService {
	return NewTeachingAssignmentService(repo, users, subjects, classes, zap.NewNop())
}

func validAssignmentFixtures() (*stubUserReader, *stubSubjectReader, *stubClassCounter) {
	teacher := &models.User{ID: "31f9c0de-8d20-4a49-9be0-1f0a2e7c2001", Role: models.RoleTeacher}
	subject := &models.Subject{ID: "31f9c0de-8d20-4a49-9be0-1f0a2e7c2002", DepartmentID: "dept-1"}
	return &stubUserReader{users: map[string]*models.User{teacher.ID: teacher}},
		&stubSubjectReader{subjects: map[string]*models.Subject{subject.ID: subject}},
		&stubClassCounter{known: map[string]struct{}{
			"31f9c0de-8d20-4a49-9be0-1f0a2e7c2003": {},
			"31f9c0de-8d20-4a49-9be0-1f0a2e7c2004": {},
		}}
}

func TestAssignCreatesAssignment(t *testing.T) {
	repo := &mockAssignmentRepo{}
	users, subjects, classes := validAssignmentFixtures()
	svc := newAssignmentService(repo, users, subjects, classes)

	assignment, err := svc.Assign(context.Background(), superActor(), "org-1", AssignTeacherRequest{
		TeacherID: "31f9c0de-8d20-4a49-9be0-1f0a2e7c2001",
		SubjectID: "31f9c0de-8d20-4a49-9be0-1f0a2e7c2002",
		ClassIDs:  []string{"31f9c0de-8d20-4a49-9be0-1f0a2e7c2003"},
	})

	require.NoError(t, err)
	require.NotNil(t, repo.created)
	assert.Equal(t, "org-1", assignment.OrgID)
	assert.NotEmpty(t, assignment.ID)
}

func TestAssignDeniedWithoutPermission(t *testing.T) {
	repo := &mockAssignmentRepo{}
	users, subjects, classes := validAssignmentFixtures()
	svc := newAssignmentService(repo, users, subjects, classes)

	_, err := svc.Assign(context.Background(), authz.Actor{Role: models.RoleTeacher}, "org-1", AssignTeacherRequest{
		TeacherID: "31f9c0de-8d20-4a49-9be0-1f0a2e7c2001",
		SubjectID: "31f9c0de-8d20-4a49-9be0-1f0a2e7c2002",
		ClassIDs:  []string{"31f9c0de-8d20-4a49-9be0-1f0a2e7c2003"},
	})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Nil(t, repo.created)
}

func TestAssignDeniedForOtherDepartment(t *testing.T) {
	repo := &mockAssignmentRepo{}
	users, subjects, classes := validAssignmentFixtures()
	svc := newAssignmentService(repo, users, subjects, classes)

	_, err := svc.Assign(context.Background(), deptActor("dept-2"), "org-1", AssignTeacherRequest{
		TeacherID: "31f9c0de-8d20-4a49-9be0-1f0a2e7c2001",
		SubjectID: "31f9c0de-8d20-4a49-9be0-1f0a2e7c2002",
		ClassIDs:  []string{"31f9c0de-8d20-4a49-9be0-1f0a2e7c2003"},
	})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestAssignRejectsNonTeacher(t *testing.T) {
	repo := &mockAssignmentRepo{}
	users, subjects, classes := validAssignmentFixtures()
	users.users["31f9c0de-8d20-4a49-9be0-1f0a2e7c2001"].Role = models.RoleStudent
	svc := newAssignmentService(repo, users, subjects, classes)

	_, err := svc.Assign(context.Background(), superActor(), "org-1", AssignTeacherRequest{
		TeacherID: "31f9c0de-8d20-4a49-9be0-1f0a2e7c2001",
		SubjectID: "31f9c0de-8d20-4a49-9be0-1f0a2e7c2002",
		ClassIDs:  []string{"31f9c0de-8d20-4a49-9be0-1f0a2e7c2003"},
	})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAssignRejectsUnknownClasses(t *testing.T) {
	repo := &mockAssignmentRepo{}
	users, subjects, classes := validAssignmentFixtures()
	svc := newAssignmentService(repo, users, subjects, classes)

	_, err := svc.Assign(context.Background(), superActor(), "org-1", AssignTeacherRequest{
		TeacherID: "31f9c0de-8d20-4a49-9be0-1f0a2e7c2001",
		SubjectID: "31f9c0de-8d20-4a49-9be0-1f0a2e7c2002",
		ClassIDs:  []string{"31f9c0de-8d20-4a49-9be0-1f0a2e7c2003", "31f9c0de-8d20-4a49-9be0-1f0a2e7c9999"},
	})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestAuthorizeRequiresFullCoverage(t *testing.T) {
	repo := &mockAssignmentRepo{assignments: []models.TeachingAssignment{
		{TeacherID: "t-1", SubjectID: "s-1", ClassIDs: []string{"c-1", "c-2"}},
	}}
	users, subjects, classes := validAssignmentFixtures()
	svc := newAssignmentService(repo, users, subjects, classes)

	ok, err := svc.Authorize(context.Background(), "org-1", "t-1", "s-1", []string{"c-1", "c-2"})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Authorize(context.Background(), "org-1", "t-1", "s-1", []string{"c-1", "c-3"})
	require.NoError(t, err)
	assert.False(t, ok, "a target outside the assignment must not authorize")
}

func TestAuthorizeEmptyTargetsNeverAuthorizes(t *testing.T) {
	repo := &mockAssignmentRepo{assignments: []models.TeachingAssignment{
		{TeacherID: "t-1", SubjectID: "s-1", ClassIDs: []string{"c-1"}},
	}}
	users, subjects, classes := validAssignmentFixtures()
	svc := newAssignmentService(repo, users, subjects, classes)

	ok, err := svc.Authorize(context.Background(), "org-1", "t-1", "s-1", nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAuthorizeAnySingleAssignmentMayCover(t *testing.T) {
	repo := &mockAssignmentRepo{assignments: []models.TeachingAssignment{
		{TeacherID: "t-1", SubjectID: "s-1", ClassIDs: []string{"c-1"}},
		{TeacherID: "t-1", SubjectID: "s-1", ClassIDs: []string{"c-2", "c-3"}},
	}}
	users, subjects, classes := validAssignmentFixtures()
	svc := newAssignmentService(repo, users, subjects, classes)

	ok, err := svc.Authorize(context.Background(), "org-1", "t-1", "s-1", []string{"c-2", "c-3"})
	require.NoError(t, err)
	assert.True(t, ok)

	// no single assignment covers c-1 and c-2 together
	ok, err = svc.Authorize(context.Background(), "org-1", "t-1", "s-1", []string{"c-1", "c-2"})
	require.NoError(t, err)
	assert.False(t, ok)
}
