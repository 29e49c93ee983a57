package service

import (
	"context"
	"io"
	"testing"

	"staffcal/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubjectService(t *testing.T) {
	repo := new(mockRepo)
	logger := zerolog.New(io.Discard)
	subjects := []models.Subject{
		{ID: 1, Name: "Анна", Role: models.RoleStaff, Active: true},
		{ID: 2, Name: "Кейтеринг Юг", Role: models.RoleVendor, Active: true},
	}
	svc := NewSubjectService(repo, subjects, &logger)
	ctx := context.Background()

	t.Run("GetActiveSubjects", func(t *testing.T) {
		result, err := svc.GetActiveSubjects(ctx)
		require.NoError(t, err)
		assert.Equal(t, subjects, result)
	})

	t.Run("GetSubjectByID", func(t *testing.T) {
		subject, err := svc.GetSubjectByID(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, "Кейтеринг Юг", subject.Name)

		_, err = svc.GetSubjectByID(ctx, 99)
		assert.Error(t, err)
	})

	t.Run("CreateSubjectRefreshes", func(t *testing.T) {
		newSubject := &models.Subject{ID: 3, Name: "Диджей Макс", Role: models.RoleVendor, Active: true}
		refreshed := append(append([]models.Subject(nil), subjects...), *newSubject)

		repo.On("CreateSubject", ctx, newSubject).Return(nil).Once()
		repo.On("GetActiveSubjects", ctx).Return(refreshed, nil).Once()

		require.NoError(t, svc.CreateSubject(ctx, newSubject))

		subject, err := svc.GetSubjectByID(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, "Диджей Макс", subject.Name)
		repo.AssertExpectations(t)
	})

	t.Run("DeactivateSubjectRefreshes", func(t *testing.T) {
		repo.On("DeactivateSubject", ctx, int64(3)).Return(nil).Once()
		repo.On("GetActiveSubjects", ctx).Return(subjects, nil).Once()

		require.NoError(t, svc.DeactivateSubject(ctx, 3))

		_, err := svc.GetSubjectByID(ctx, 3)
		assert.Error(t, err)
		repo.AssertExpectations(t)
	})
}

func TestSubjectServiceFiltersInactiveConfig(t *testing.T) {
	repo := new(mockRepo)
	logger := zerolog.New(io.Discard)
	svc := NewSubjectService(repo, []models.Subject{
		{ID: 1, Name: "Анна", Role: models.RoleStaff, Active: true},
		{ID: 2, Name: "Фотограф Олег", Role: models.RoleVendor, Active: false},
	}, &logger)
	ctx := context.Background()

	result, err := svc.GetActiveSubjects(ctx)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "Анна", result[0].Name)

	_, err = svc.GetSubjectByID(ctx, 2)
	assert.Error(t, err)
}
