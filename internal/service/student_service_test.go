package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attendease/attendease-api/internal/models"
	appErrors "github.com/attendease/attendease-api/pkg/errors"
)

func TestStudentServiceListByClass(t *testing.T) {
	repo := &fakeUserRepo{users: []models.User{
		{ID: "s1", Name: "Asha", Role: models.RoleStudent, Class: "CS-A", RollNumber: "01"},
		{ID: "s2", Name: "Ravi", Role: models.RoleStudent, Class: "CS-B", RollNumber: "02"},
		{ID: "f1", Name: "Dr. Rao", Role: models.RoleFaculty, Class: "CS-A"},
	}}
	svc := NewStudentService(repo, nil, nil)

	students, err := svc.ListByClass(context.Background(), "CS-A")
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "Asha", students[0].Name)
	assert.Equal(t, "01", students[0].RollNumber)
}

func TestStudentServiceListByClassRequiresClass(t *testing.T) {
	svc := NewStudentService(&fakeUserRepo{}, nil, nil)

	_, err := svc.ListByClass(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Status, appErrors.FromError(err).Status)
}

func TestStudentServiceImportSkipsDuplicates(t *testing.T) {
	repo := &fakeUserRepo{users: []models.User{
		{ID: "s1", Name: "Asha", Role: models.RoleStudent, Class: "CS-A", RollNumber: "01"},
	}}
	svc := NewStudentService(repo, nil, nil)

	result, err := svc.Import(context.Background(), ImportStudentsRequest{
		ClassName: "CS-A",
		Students: []ImportStudent{
			{Name: "Asha Verma", RollNumber: "01"},
			{Name: "Ravi Kumar", RollNumber: "02"},
			{Name: "Meena Iyer", RollNumber: "03"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Added)
	assert.Equal(t, 1, result.Skipped)
	assert.Len(t, repo.users, 3)
}

func TestStudentServiceImportSkipsDuplicateWithinBatch(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := NewStudentService(repo, nil, nil)

	result, err := svc.Import(context.Background(), ImportStudentsRequest{
		ClassName: "CS-A",
		Students: []ImportStudent{
			{Name: "Asha Verma", RollNumber: "01"},
			{Name: "Asha V.", RollNumber: "01"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Added)
	assert.Equal(t, 1, result.Skipped)
}

func TestStudentServiceImportOnlyMatchesSameClass(t *testing.T) {
	repo := &fakeUserRepo{users: []models.User{
		{ID: "s1", Name: "Asha", Role: models.RoleStudent, Class: "CS-B", RollNumber: "01"},
	}}
	svc := NewStudentService(repo, nil, nil)

	result, err := svc.Import(context.Background(), ImportStudentsRequest{
		ClassName: "CS-A",
		Students:  []ImportStudent{{Name: "Ravi", RollNumber: "01"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Added)
	assert.Zero(t, result.Skipped)
}

func TestStudentServiceImportFillsDerivedFields(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := NewStudentService(repo, nil, nil)

	_, err := svc.Import(context.Background(), ImportStudentsRequest{
		ClassName: "CS-A",
		Students:  []ImportStudent{{Name: "Ravi Kumar", RollNumber: "07"}},
	})
	require.NoError(t, err)

	require.Len(t, repo.users, 1)
	imported := repo.users[0]
	assert.Equal(t, models.RoleStudent, imported.Role)
	assert.Equal(t, "CS-A", imported.Class)
	assert.Equal(t, "ravi.kumar.07@example.com", imported.Email)
	assert.Equal(t, importedDepartment, imported.Department)
}
