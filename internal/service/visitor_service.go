package service

import (
	"context"
	"strings"
	"time"

	"sitepass/internal/entity"
	"sitepass/internal/repository"
	"sitepass/internal/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/skip2/go-qrcode"
)

// HostRejectedReason is the fixed reason applied when a host declines a
// visit through the email link.
const HostRejectedReason = "Visit declined by host"

type VisitorConfig struct {
	AutoApprove bool
}

type VisitorService struct {
	visitors   repository.VisitorRepository
	employees  repository.EmployeeRepository
	accessLogs repository.AccessLogRepository

	notifier Notifier
	clock    Clock
	logger   *logrus.Logger
	config   VisitorConfig
}

func NewVisitorService(
	visitors repository.VisitorRepository,
	employees repository.EmployeeRepository,
	accessLogs repository.AccessLogRepository,
	notifier Notifier,
	clock Clock,
	logger *logrus.Logger,
	config VisitorConfig,
) *VisitorService {
	return &VisitorService{
		visitors:   visitors,
		employees:  employees,
		accessLogs: accessLogs,
		notifier:   notifier,
		clock:      clock,
		logger:     logger,
		config:     config,
	}
}

type CreateVisitorInput struct {
	Name         string
	Email        string
	Phone        string
	HostEmployee string
	Department   string
	Purpose      string
	ExpectedDate time.Time
	ExpectedTime string
	CreatedByID  *uuid.UUID
}

// Create registers a visit as pending, or directly as approved when
// auto-approval is on and an approver identity can be attributed. A pending
// visit sends the host an approval request with their magic link.
func (s *VisitorService) Create(ctx context.Context, input CreateVisitorInput) (*entity.Visitor, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.HostEmployee) == "" {
		return nil, ErrInvalidInput
	}
	if input.ExpectedDate.IsZero() {
		return nil, ErrInvalidInput
	}

	host := strings.TrimSpace(input.HostEmployee)
	employee, err := s.employees.FindByEmailOrName(ctx, host)
	if err != nil {
		return nil, err
	}

	visitor := &entity.Visitor{
		Name:         strings.TrimSpace(input.Name),
		Email:        utils.NormalizeEmail(input.Email),
		Phone:        strings.TrimSpace(input.Phone),
		HostEmployee: host,
		Department:   strings.TrimSpace(input.Department),
		Purpose:      strings.TrimSpace(input.Purpose),
		ExpectedDate: input.ExpectedDate,
		ExpectedTime: strings.TrimSpace(input.ExpectedTime),
		Status:       entity.VisitorStatusPending,
		CreatedByID:  input.CreatedByID,
	}

	if s.config.AutoApprove {
		if approver := s.autoApprover(input.CreatedByID, employee); approver != nil {
			visitor.Status = entity.VisitorStatusApproved
			visitor.ApprovedByID = approver
		}
	}

	if err := s.visitors.Create(ctx, visitor); err != nil {
		return nil, err
	}

	if visitor.Status == entity.VisitorStatusApproved {
		if err := s.ensureQRCode(ctx, visitor); err != nil {
			return nil, err
		}
	}

	if visitor.Status == entity.VisitorStatusPending && employee != nil && s.notifier != nil {
		token := utils.ApprovalTokenFor(*employee)
		if err := s.notifier.SendApprovalRequest(ctx, *visitor, *employee, token); err != nil {
			s.logWarn(err, "approval request notification failed")
		}
	}

	return visitor, nil
}

// Approve moves a pending visitor to approved. The guard runs as a
// conditional update, so of two racing calls exactly one wins; the loser gets
// ErrInvalidTransition. A QR pass is issued once and never rotated.
func (s *VisitorService) Approve(ctx context.Context, visitorID, approverID uuid.UUID) (*entity.Visitor, error) {
	visitor, err := s.visitors.FindByID(ctx, visitorID)
	if err != nil {
		return nil, err
	}
	if visitor == nil {
		return nil, ErrNotFound
	}
	if visitor.EffectiveStatus(s.now()) != entity.VisitorStatusPending {
		return nil, ErrInvalidTransition
	}

	ok, err := s.visitors.MarkApproved(ctx, visitorID, approverID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidTransition
	}

	visitor.Status = entity.VisitorStatusApproved
	visitor.ApprovedByID = &approverID
	visitor.RejectionReason = nil

	if err := s.ensureQRCode(ctx, visitor); err != nil {
		return nil, err
	}

	s.notifyStatus(ctx, *visitor, entity.VisitorStatusApproved)
	return visitor, nil
}

func (s *VisitorService) Reject(ctx context.Context, visitorID uuid.UUID, reason string) (*entity.Visitor, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrInvalidInput
	}

	visitor, err := s.visitors.FindByID(ctx, visitorID)
	if err != nil {
		return nil, err
	}
	if visitor == nil {
		return nil, ErrNotFound
	}
	if visitor.EffectiveStatus(s.now()) != entity.VisitorStatusPending {
		return nil, ErrInvalidTransition
	}

	ok, err := s.visitors.MarkRejected(ctx, visitorID, reason)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidTransition
	}

	visitor.Status = entity.VisitorStatusRejected
	visitor.RejectionReason = &reason
	visitor.ApprovedByID = nil

	s.notifyStatus(ctx, *visitor, entity.VisitorStatusRejected)
	return visitor, nil
}

func (s *VisitorService) CheckIn(ctx context.Context, visitorID, guardID uuid.UUID, location string) (*entity.Visitor, error) {
	visitor, err := s.visitors.FindByID(ctx, visitorID)
	if err != nil {
		return nil, err
	}
	if visitor == nil {
		return nil, ErrNotFound
	}
	now := s.now()
	if visitor.EffectiveStatus(now) != entity.VisitorStatusApproved {
		return nil, ErrInvalidTransition
	}

	ok, err := s.visitors.MarkCheckedIn(ctx, visitorID, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidTransition
	}

	visitor.Status = entity.VisitorStatusCheckedIn
	visitor.ActualCheckIn = &now

	s.appendAccessLog(ctx, entity.AccessCheckIn, guardID, visitorID, location)
	return visitor, nil
}

func (s *VisitorService) CheckOut(ctx context.Context, visitorID, guardID uuid.UUID, location string) (*entity.Visitor, error) {
	visitor, err := s.visitors.FindByID(ctx, visitorID)
	if err != nil {
		return nil, err
	}
	if visitor == nil {
		return nil, ErrNotFound
	}

	now := s.now()
	ok, err := s.visitors.MarkCheckedOut(ctx, visitorID, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidTransition
	}

	visitor.Status = entity.VisitorStatusCheckedOut
	visitor.ActualCheckOut = &now

	s.appendAccessLog(ctx, entity.AccessCheckOut, guardID, visitorID, location)
	return visitor, nil
}

// Delete refuses to remove a physically present visitor.
func (s *VisitorService) Delete(ctx context.Context, visitorID uuid.UUID) error {
	visitor, err := s.visitors.FindByID(ctx, visitorID)
	if err != nil {
		return err
	}
	if visitor == nil {
		return ErrNotFound
	}

	ok, err := s.visitors.DeleteIfNotCheckedIn(ctx, visitorID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrVisitorCheckedIn
	}
	return nil
}

func (s *VisitorService) Get(ctx context.Context, visitorID uuid.UUID) (*entity.Visitor, error) {
	visitor, err := s.visitors.FindByID(ctx, visitorID)
	if err != nil {
		return nil, err
	}
	if visitor == nil {
		return nil, ErrNotFound
	}
	return visitor, nil
}

func (s *VisitorService) List(ctx context.Context, status entity.VisitorStatus, limit, offset int) ([]entity.Visitor, error) {
	return s.visitors.List(ctx, status, limit, offset)
}

// QRImage renders the visitor's pass as a PNG. Only an approved or
// checked-in visitor has a scannable pass.
func (s *VisitorService) QRImage(ctx context.Context, visitorID uuid.UUID) ([]byte, error) {
	visitor, err := s.visitors.FindByID(ctx, visitorID)
	if err != nil {
		return nil, err
	}
	if visitor == nil {
		return nil, ErrNotFound
	}
	status := visitor.EffectiveStatus(s.now())
	if status != entity.VisitorStatusApproved && status != entity.VisitorStatusCheckedIn {
		return nil, ErrInvalidTransition
	}
	if visitor.QRCode == nil {
		return nil, ErrNotFound
	}
	return qrcode.Encode(*visitor.QRCode, qrcode.Medium, 256)
}

func (s *VisitorService) Now() time.Time {
	return s.now()
}

// ensureQRCode issues the pass exactly once. The value binds the visitor's
// identity to a creation-time nonce; SetQRCodeIfAbsent makes repeat approvals
// keep the first issued code.
func (s *VisitorService) ensureQRCode(ctx context.Context, visitor *entity.Visitor) error {
	if visitor.QRCode != nil {
		return nil
	}
	nonce, err := utils.GenerateRandomToken(16)
	if err != nil {
		return err
	}
	code := utils.HashToken(visitor.ID.String() + ":" + nonce)
	if err := s.visitors.SetQRCodeIfAbsent(ctx, visitor.ID, code); err != nil {
		return err
	}

	refreshed, err := s.visitors.FindByID(ctx, visitor.ID)
	if err != nil {
		return err
	}
	if refreshed != nil && refreshed.QRCode != nil {
		visitor.QRCode = refreshed.QRCode
	}
	return nil
}

func (s *VisitorService) autoApprover(createdBy *uuid.UUID, employee *entity.Employee) *uuid.UUID {
	if createdBy != nil {
		return createdBy
	}
	if employee != nil {
		id := employee.ID
		return &id
	}
	return nil
}

func (s *VisitorService) notifyStatus(ctx context.Context, visitor entity.Visitor, status entity.VisitorStatus) {
	if s.notifier == nil {
		return
	}
	employee, err := s.employees.FindByEmailOrName(ctx, visitor.HostEmployee)
	if err != nil {
		s.logWarn(err, "host lookup for status notification failed")
		employee = nil
	}
	if err := s.notifier.SendStatusUpdate(ctx, visitor, status, employee); err != nil {
		s.logWarn(err, "status update notification failed")
	}
}

func (s *VisitorService) appendAccessLog(ctx context.Context, action entity.AccessAction, guardID, visitorID uuid.UUID, location string) {
	if s.accessLogs == nil {
		return
	}
	log := &entity.AccessLog{
		Action:    action,
		GuardID:   &guardID,
		VisitorID: &visitorID,
		Location:  strings.TrimSpace(location),
	}
	if err := s.accessLogs.Append(ctx, log); err != nil {
		s.logWarn(err, "access log append failed")
	}
}

func (s *VisitorService) logWarn(err error, message string) {
	if s.logger != nil {
		s.logger.WithError(err).Warn(message)
	}
}

func (s *VisitorService) now() time.Time {
	if s.clock == nil {
		return time.Now()
	}
	return s.clock.Now()
}
