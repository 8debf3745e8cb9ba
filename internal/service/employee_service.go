package service

import (
	"context"
	"strings"

	"sitepass/internal/entity"
	"sitepass/internal/repository"
	"sitepass/internal/utils"
)

// EmployeeService maintains the host roster the approval bridge scans.
type EmployeeService struct {
	employees repository.EmployeeRepository
}

func NewEmployeeService(employees repository.EmployeeRepository) *EmployeeService {
	return &EmployeeService{employees: employees}
}

type CreateEmployeeInput struct {
	EmployeeID string
	Name       string
	Email      string
	Department string
}

func (s *EmployeeService) Create(ctx context.Context, input CreateEmployeeInput) (*entity.Employee, error) {
	if strings.TrimSpace(input.EmployeeID) == "" ||
		strings.TrimSpace(input.Name) == "" ||
		strings.TrimSpace(input.Email) == "" {
		return nil, ErrInvalidInput
	}

	email := utils.NormalizeEmail(input.Email)
	existing, err := s.employees.FindByEmailOrName(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	employee := &entity.Employee{
		EmployeeID: strings.TrimSpace(input.EmployeeID),
		Name:       strings.TrimSpace(input.Name),
		Email:      email,
		Department: strings.TrimSpace(input.Department),
	}
	if err := s.employees.Create(ctx, employee); err != nil {
		return nil, err
	}
	return employee, nil
}

func (s *EmployeeService) List(ctx context.Context) ([]entity.Employee, error) {
	return s.employees.List(ctx)
}
