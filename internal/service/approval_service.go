package service

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"sitepass/internal/entity"
	"sitepass/internal/repository"
	"sitepass/internal/utils"
)

const (
	ApprovalActionApprove = "approve"
	ApprovalActionReject  = "reject"
)

// ApprovalService verifies magic links without any persisted token state.
// Possession of the link is the whole credential: the token is recomputed
// against the live roster until a match is found.
type ApprovalService struct {
	employees repository.EmployeeRepository
	visitors  repository.VisitorRepository
	lifecycle *VisitorService
}

func NewApprovalService(
	employees repository.EmployeeRepository,
	visitors repository.VisitorRepository,
	lifecycle *VisitorService,
) *ApprovalService {
	return &ApprovalService{
		employees: employees,
		visitors:  visitors,
		lifecycle: lifecycle,
	}
}

// HandleLink resolves {token, action} to a visitor transition. The roster
// scan is read-only and O(roster size); only the terminal transition needs
// the conditional-update atomicity, which the lifecycle service provides.
func (s *ApprovalService) HandleLink(ctx context.Context, token, action string) (*entity.Visitor, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidInput
	}
	if action != ApprovalActionApprove && action != ApprovalActionReject {
		return nil, ErrInvalidInput
	}

	employee, err := s.matchEmployee(ctx, token)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, ErrInvalidLink
	}

	// Candidates whose expected date has lapsed read as expired and can no
	// longer transition; excluding them up front keeps a stale row from
	// shadowing a still-valid visit booked in advance.
	now := s.lifecycle.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	visitor, err := s.visitors.LatestPendingByHost(ctx, employee.Email, employee.Name, today)
	if err != nil {
		return nil, err
	}
	if visitor == nil {
		// The link is genuine; this host just has nothing waiting.
		return nil, ErrNoPendingVisitor
	}

	if action == ApprovalActionApprove {
		return s.lifecycle.Approve(ctx, visitor.ID, employee.ID)
	}
	return s.lifecycle.Reject(ctx, visitor.ID, HostRejectedReason)
}

func (s *ApprovalService) matchEmployee(ctx context.Context, token string) (*entity.Employee, error) {
	employees, err := s.employees.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range employees {
		expected := utils.ApprovalTokenFor(employees[i])
		if subtle.ConstantTimeCompare([]byte(expected), []byte(token)) == 1 {
			return &employees[i], nil
		}
	}
	return nil, nil
}
