package services

import (
	"context"
	"strings"

	"github.com/practicas/core/internal/domain/entities"
	"github.com/practicas/core/internal/domain/validation"
	"github.com/practicas/core/internal/infrastructure/logger"
	"github.com/practicas/core/internal/ports"
)

// StudentService handles student-related operations
type StudentService struct {
	students  *collection[entities.Student]
	validator *validation.Validator
	logger    *logger.Logger
}

// NewStudentService creates a new student service
func NewStudentService(repo ports.Repository[entities.Student], validator *validation.Validator, logger *logger.Logger) *StudentService {
	return &StudentService{
		students:  newCollection(repo),
		validator: validator,
		logger:    logger.WithCollection(entities.StudentsCollection),
	}
}

// CreateStudent enrolls a new student at level 1 with no points
func (s *StudentService) CreateStudent(ctx context.Context, req ports.CreateStudentRequest) (*entities.Student, error) {
	if err := s.validator.Validate(&req); err != nil {
		return nil, err
	}

	student, err := s.students.insert(ctx, func(id int) entities.Student {
		return entities.Student{
			ID:     id,
			Name:   strings.TrimSpace(req.Name),
			Major:  strings.TrimSpace(req.Major),
			Level:  entities.InitialLevel,
			Points: 0,
			Active: true,
		}
	})
	if err != nil {
		return nil, err
	}

	s.logger.LogRecordAction(entities.StudentsCollection, "create", student.ID, map[string]interface{}{
		"name": student.Name,
	})

	return &student, nil
}

// ListStudents returns the students matching every supplied filter
func (s *StudentService) ListStudents(ctx context.Context, filter ports.StudentFilter) ([]entities.Student, error) {
	if err := s.validator.Validate(&filter); err != nil {
		return nil, err
	}

	students, err := s.students.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	return applyFilters(students,
		equalFold(filter.Major, func(st entities.Student) string { return st.Major }),
		containsFold(filter.Name, func(st entities.Student) string { return st.Name }),
		exactInt(filter.Level, func(st entities.Student) int { return st.Level }),
		flag(filter.Active, func(st entities.Student) bool { return st.Active }),
	), nil
}

// GetStudent retrieves a student by ID
func (s *StudentService) GetStudent(ctx context.Context, id int) (*entities.Student, error) {
	student, err := s.students.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &student, nil
}

// UpdateStudent merges the supplied fields onto an existing student
func (s *StudentService) UpdateStudent(ctx context.Context, id int, req ports.UpdateStudentRequest) (*entities.Student, error) {
	if _, err := s.students.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	if err := s.validator.ValidatePatch(&req); err != nil {
		return nil, err
	}

	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		req.Name = &trimmed
	}
	if req.Major != nil {
		trimmed := strings.TrimSpace(*req.Major)
		req.Major = &trimmed
	}

	student, err := s.students.update(ctx, id, req)
	if err != nil {
		return nil, err
	}

	s.logger.LogRecordAction(entities.StudentsCollection, "update", id, nil)

	return &student, nil
}

// DeleteStudent removes a student and returns it
func (s *StudentService) DeleteStudent(ctx context.Context, id int) (*entities.Student, error) {
	student, err := s.students.remove(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.LogRecordAction(entities.StudentsCollection, "delete", id, nil)

	return &student, nil
}

// LevelUp spends level*100 points to raise the student one level
func (s *StudentService) LevelUp(ctx context.Context, id int) (*entities.Student, error) {
	student, err := s.students.updateChecked(ctx, id, func(current entities.Student) (interface{}, error) {
		if !current.CanLevelUp() {
			return nil, entities.NewPreconditionError("%d points are needed to level up", current.PointsToLevelUp())
		}

		return map[string]int{
			"nivel":  current.Level + 1,
			"puntos": current.Points - current.PointsToLevelUp(),
		}, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.LogRecordAction(entities.StudentsCollection, "level_up", id, map[string]interface{}{
		"level": student.Level,
	})

	return &student, nil
}
