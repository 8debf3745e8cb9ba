package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"sitepass/internal/entity"
	"sitepass/internal/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type visitorFixture struct {
	service   *VisitorService
	visitors  *fakeVisitorRepo
	employees *fakeEmployeeRepo
	logs      *fakeAccessLogRepo
	notifier  *recordingNotifier
	now       time.Time
}

func newVisitorFixture(t *testing.T, config VisitorConfig) *visitorFixture {
	t.Helper()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	visitors := newFakeVisitorRepo()
	employees := &fakeEmployeeRepo{}
	logs := &fakeAccessLogRepo{}
	notifier := &recordingNotifier{}
	svc := NewVisitorService(visitors, employees, logs, notifier, fixedClock{t: now}, nil, config)
	return &visitorFixture{
		service:   svc,
		visitors:  visitors,
		employees: employees,
		logs:      logs,
		notifier:  notifier,
		now:       now,
	}
}

func seedEmployee(t *testing.T, employees *fakeEmployeeRepo, badge, name, email string) *entity.Employee {
	t.Helper()
	employee := &entity.Employee{EmployeeID: badge, Name: name, Email: email, Department: "Engineering"}
	require.NoError(t, employees.Create(context.Background(), employee))
	return employee
}

func (f *visitorFixture) seedVisitor(t *testing.T, status entity.VisitorStatus, host string) *entity.Visitor {
	return f.seedVisitorOn(t, status, host, f.now)
}

func (f *visitorFixture) seedVisitorOn(t *testing.T, status entity.VisitorStatus, host string, expectedDate time.Time) *entity.Visitor {
	t.Helper()
	visitor := &entity.Visitor{
		Name:         "Jordan Blake",
		Email:        "jordan@example.com",
		HostEmployee: host,
		Purpose:      "Vendor meeting",
		ExpectedDate: expectedDate,
		Status:       status,
	}
	require.NoError(t, f.visitors.Create(context.Background(), visitor))
	return visitor
}

func TestCreateVisitorPendingSendsApprovalRequest(t *testing.T) {
	f := newVisitorFixture(t, VisitorConfig{})
	host := seedEmployee(t, f.employees, "EMP-001", "Dana Wu", "dana@example.com")

	visitor, err := f.service.Create(context.Background(), CreateVisitorInput{
		Name:         "Jordan Blake",
		Email:        "Jordan@Example.com",
		HostEmployee: "dana@example.com",
		Purpose:      "Vendor meeting",
		ExpectedDate: f.now,
	})
	require.NoError(t, err)
	require.Equal(t, entity.VisitorStatusPending, visitor.Status)
	require.Equal(t, "jordan@example.com", visitor.Email)
	require.Nil(t, visitor.ApprovedByID)
	require.Nil(t, visitor.QRCode)

	require.Len(t, f.notifier.approvalRequests, 1)
	require.Equal(t, utils.ApprovalTokenFor(*host), f.notifier.approvalRequests[0])
}

func TestCreateVisitorUnknownHostStaysPending(t *testing.T) {
	f := newVisitorFixture(t, VisitorConfig{})

	visitor, err := f.service.Create(context.Background(), CreateVisitorInput{
		Name:         "Jordan Blake",
		HostEmployee: "nobody@example.com",
		ExpectedDate: f.now,
	})
	require.NoError(t, err)
	require.Equal(t, entity.VisitorStatusPending, visitor.Status)
	require.Empty(t, f.notifier.approvalRequests)
}

func TestCreateVisitorAutoApprove(t *testing.T) {
	f := newVisitorFixture(t, VisitorConfig{AutoApprove: true})
	host := seedEmployee(t, f.employees, "EMP-001", "Dana Wu", "dana@example.com")

	visitor, err := f.service.Create(context.Background(), CreateVisitorInput{
		Name:         "Jordan Blake",
		HostEmployee: "Dana Wu",
		ExpectedDate: f.now,
	})
	require.NoError(t, err)
	require.Equal(t, entity.VisitorStatusApproved, visitor.Status)
	require.NotNil(t, visitor.ApprovedByID)
	require.Equal(t, host.ID, *visitor.ApprovedByID)
	require.NotNil(t, visitor.QRCode)
	require.Empty(t, f.notifier.approvalRequests)
}

func TestApproveIssuesQROnce(t *testing.T) {
	f := newVisitorFixture(t, VisitorConfig{})
	visitor := f.seedVisitor(t, entity.VisitorStatusPending, "dana@example.com")
	approver := uuid.New()

	approved, err := f.service.Approve(context.Background(), visitor.ID, approver)
	require.NoError(t, err)
	require.Equal(t, entity.VisitorStatusApproved, approved.Status)
	require.Equal(t, approver, *approved.ApprovedByID)
	require.NotNil(t, approved.QRCode)
	require.Equal(t, []entity.VisitorStatus{entity.VisitorStatusApproved}, f.notifier.statusUpdates)

	_, err = f.service.Approve(context.Background(), visitor.ID, approver)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestApproveRaceSingleWinner(t *testing.T) {
	f := newVisitorFixture(t, VisitorConfig{})
	visitor := f.seedVisitor(t, entity.VisitorStatusPending, "dana@example.com")

	const racers = 16
	var wg sync.WaitGroup
	results := make([]error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			_, results[slot] = f.service.Approve(context.Background(), visitor.ID, uuid.New())
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range results {
		if err == nil {
			wins++
		} else {
			require.ErrorIs(t, err, ErrInvalidTransition)
		}
	}
	require.Equal(t, 1, wins)
}

func TestRejectRequiresReason(t *testing.T) {
	f := newVisitorFixture(t, VisitorConfig{})
	visitor := f.seedVisitor(t, entity.VisitorStatusPending, "dana@example.com")

	_, err := f.service.Reject(context.Background(), visitor.ID, "   ")
	require.ErrorIs(t, err, ErrInvalidInput)

	rejected, err := f.service.Reject(context.Background(), visitor.ID, "No appointment")
	require.NoError(t, err)
	require.Equal(t, entity.VisitorStatusRejected, rejected.Status)
	require.Equal(t, "No appointment", *rejected.RejectionReason)
	require.Nil(t, rejected.ApprovedByID)
}

func TestCheckInRequiresApproval(t *testing.T) {
	f := newVisitorFixture(t, VisitorConfig{})
	pending := f.seedVisitor(t, entity.VisitorStatusPending, "dana@example.com")
	guard := uuid.New()

	_, err := f.service.CheckIn(context.Background(), pending.ID, guard, "Main gate")
	require.ErrorIs(t, err, ErrInvalidTransition)

	approved := f.seedVisitor(t, entity.VisitorStatusApproved, "dana@example.com")
	checkedIn, err := f.service.CheckIn(context.Background(), approved.ID, guard, "Main gate")
	require.NoError(t, err)
	require.Equal(t, entity.VisitorStatusCheckedIn, checkedIn.Status)
	require.NotNil(t, checkedIn.ActualCheckIn)
	require.Contains(t, f.logs.actions(), entity.AccessCheckIn)
}

func TestCheckOutBeforeCheckInFails(t *testing.T) {
	f := newVisitorFixture(t, VisitorConfig{})
	approved := f.seedVisitor(t, entity.VisitorStatusApproved, "dana@example.com")
	guard := uuid.New()

	_, err := f.service.CheckOut(context.Background(), approved.ID, guard, "Main gate")
	require.ErrorIs(t, err, ErrInvalidTransition)

	_, err = f.service.CheckIn(context.Background(), approved.ID, guard, "Main gate")
	require.NoError(t, err)

	checkedOut, err := f.service.CheckOut(context.Background(), approved.ID, guard, "Main gate")
	require.NoError(t, err)
	require.Equal(t, entity.VisitorStatusCheckedOut, checkedOut.Status)
	require.Contains(t, f.logs.actions(), entity.AccessCheckOut)
}

func TestExpiredVisitorCannotTransition(t *testing.T) {
	f := newVisitorFixture(t, VisitorConfig{})
	visitor := f.seedVisitor(t, entity.VisitorStatusPending, "dana@example.com")

	// Same store, one day later: the pending row now reads as expired.
	stale := NewVisitorService(f.visitors, f.employees, f.logs, f.notifier,
		fixedClock{t: f.now.Add(24 * time.Hour)}, nil, VisitorConfig{})

	_, err := stale.Approve(context.Background(), visitor.ID, uuid.New())
	require.ErrorIs(t, err, ErrInvalidTransition)

	_, err = stale.CheckIn(context.Background(), visitor.ID, uuid.New(), "Main gate")
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestDeleteRefusesCheckedIn(t *testing.T) {
	f := newVisitorFixture(t, VisitorConfig{})
	visitor := f.seedVisitor(t, entity.VisitorStatusApproved, "dana@example.com")

	_, err := f.service.CheckIn(context.Background(), visitor.ID, uuid.New(), "Main gate")
	require.NoError(t, err)

	require.ErrorIs(t, f.service.Delete(context.Background(), visitor.ID), ErrVisitorCheckedIn)

	_, err = f.service.CheckOut(context.Background(), visitor.ID, uuid.New(), "Main gate")
	require.NoError(t, err)
	require.NoError(t, f.service.Delete(context.Background(), visitor.ID))
	require.ErrorIs(t, f.service.Delete(context.Background(), visitor.ID), ErrNotFound)
}

func TestQRImageOnlyForScannableStatuses(t *testing.T) {
	f := newVisitorFixture(t, VisitorConfig{})
	visitor := f.seedVisitor(t, entity.VisitorStatusPending, "dana@example.com")

	_, err := f.service.QRImage(context.Background(), visitor.ID)
	require.ErrorIs(t, err, ErrInvalidTransition)

	approved, err := f.service.Approve(context.Background(), visitor.ID, uuid.New())
	require.NoError(t, err)
	firstCode := *approved.QRCode

	png, err := f.service.QRImage(context.Background(), visitor.ID)
	require.NoError(t, err)
	require.NotEmpty(t, png)

	// The issued code never rotates.
	stored, err := f.visitors.FindByID(context.Background(), visitor.ID)
	require.NoError(t, err)
	require.Equal(t, firstCode, *stored.QRCode)
}

func TestVisitDurationTruncatesToMinutes(t *testing.T) {
	checkIn := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	checkOut := checkIn.Add(95*time.Minute + 42*time.Second)
	visitor := entity.Visitor{ActualCheckIn: &checkIn, ActualCheckOut: &checkOut}
	require.Equal(t, 95*time.Minute, visitor.VisitDuration())

	open := entity.Visitor{ActualCheckIn: &checkIn}
	require.Zero(t, open.VisitDuration())
}
