package service

import (
	"context"
	"fmt"
	"sync"

	"staffcal/internal/domain"
	"staffcal/internal/models"

	"github.com/rs/zerolog"
)

type SubjectService struct {
	repo        domain.Repository
	logger      *zerolog.Logger
	subjects    []models.Subject
	subjectsMap map[int64]models.Subject
	mu          sync.RWMutex
}

func NewSubjectService(repo domain.Repository, subjects []models.Subject, logger *zerolog.Logger) *SubjectService {
	// Config may list retired subjects with active: false, they never
	// reach the roster.
	active := make([]models.Subject, 0, len(subjects))
	subjectsMap := make(map[int64]models.Subject)
	for _, subject := range subjects {
		if !subject.Active {
			continue
		}
		active = append(active, subject)
		subjectsMap[subject.ID] = subject
	}

	return &SubjectService{
		repo:        repo,
		logger:      logger,
		subjects:    active,
		subjectsMap: subjectsMap,
	}
}

func (s *SubjectService) GetActiveSubjects(ctx context.Context) ([]models.Subject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.subjects, nil
}

func (s *SubjectService) GetSubjectByID(ctx context.Context, id int64) (*models.Subject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	subject, ok := s.subjectsMap[id]
	if !ok {
		return nil, fmt.Errorf("subject not found: %d", id)
	}
	return &subject, nil
}

func (s *SubjectService) CreateSubject(ctx context.Context, subject *models.Subject) error {
	err := s.repo.CreateSubject(ctx, subject)
	if err != nil {
		return err
	}
	return s.Refresh(ctx)
}

func (s *SubjectService) DeactivateSubject(ctx context.Context, id int64) error {
	err := s.repo.DeactivateSubject(ctx, id)
	if err != nil {
		return err
	}
	return s.Refresh(ctx)
}

func (s *SubjectService) Refresh(ctx context.Context) error {
	subjects, err := s.repo.GetActiveSubjects(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.subjects = subjects
	s.subjectsMap = make(map[int64]models.Subject)
	for _, subject := range subjects {
		s.subjectsMap[subject.ID] = subject
	}
	return nil
}
