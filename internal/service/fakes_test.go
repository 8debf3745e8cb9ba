package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"sitepass/internal/entity"
	"sitepass/internal/utils"

	"github.com/google/uuid"
)

type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time {
	return c.t
}

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (plainHasher) Verify(hash string, password string) bool {
	return hash == "hashed:"+password
}

type fakeTokenIssuer struct{}

func (fakeTokenIssuer) IssueAccessToken(user entity.User) (string, time.Duration, error) {
	return "access:" + user.ID.String(), 15 * time.Minute, nil
}

func (fakeTokenIssuer) IssueRefreshToken(user entity.User) (string, time.Duration, error) {
	return "refresh:" + user.ID.String(), 30 * 24 * time.Hour, nil
}

func (fakeTokenIssuer) ParseRefreshToken(token string) (*utils.AccessClaims, error) {
	id, ok := strings.CutPrefix(token, "refresh:")
	if !ok {
		return nil, ErrInvalidToken
	}
	return &utils.AccessClaims{UserID: id}, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, limit, offset int) ([]entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]entity.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, *user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Email < users[j].Email })
	return users, nil
}

func (r *fakeUserRepo) RecordFailedLogin(_ context.Context, id uuid.UUID, maxAttempts int, lockUntil time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil
	}
	user.LoginAttempts++
	if user.LoginAttempts >= maxAttempts {
		until := lockUntil
		user.LockUntil = &until
	}
	return nil
}

func (r *fakeUserRepo) ResetLoginState(_ context.Context, id uuid.UUID, lastLogin time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil
	}
	user.LoginAttempts = 0
	user.LockUntil = nil
	login := lastLogin
	user.LastLogin = &login
	return nil
}

type fakeAccessLogRepo struct {
	mu   sync.Mutex
	logs []entity.AccessLog
}

func (r *fakeAccessLogRepo) Append(_ context.Context, log *entity.AccessLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	r.logs = append(r.logs, *log)
	return nil
}

func (r *fakeAccessLogRepo) List(_ context.Context, limit, offset int) ([]entity.AccessLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	logs := make([]entity.AccessLog, len(r.logs))
	copy(logs, r.logs)
	return logs, nil
}

func (r *fakeAccessLogRepo) actions() []entity.AccessAction {
	r.mu.Lock()
	defer r.mu.Unlock()
	actions := make([]entity.AccessAction, 0, len(r.logs))
	for _, log := range r.logs {
		actions = append(actions, log.Action)
	}
	return actions
}

type fakeMFARepo struct {
	mu      sync.Mutex
	secrets map[uuid.UUID]*entity.MFASecret
}

func newFakeMFARepo() *fakeMFARepo {
	return &fakeMFARepo{secrets: make(map[uuid.UUID]*entity.MFASecret)}
}

func (r *fakeMFARepo) FindByUserID(_ context.Context, userID uuid.UUID) (*entity.MFASecret, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	secret, ok := r.secrets[userID]
	if !ok {
		return nil, nil
	}
	copied := *secret
	return &copied, nil
}

func (r *fakeMFARepo) Upsert(_ context.Context, secret *entity.MFASecret) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *secret
	r.secrets[secret.UserID] = &copied
	return nil
}

func (r *fakeMFARepo) Disable(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.secrets, userID)
	return nil
}

type fakeVisitorRepo struct {
	mu       sync.Mutex
	visitors map[uuid.UUID]*entity.Visitor
}

func newFakeVisitorRepo() *fakeVisitorRepo {
	return &fakeVisitorRepo{visitors: make(map[uuid.UUID]*entity.Visitor)}
}

func (r *fakeVisitorRepo) Create(_ context.Context, visitor *entity.Visitor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if visitor.ID == uuid.Nil {
		visitor.ID = uuid.New()
	}
	visitor.CreatedAt = time.Now()
	copied := *visitor
	r.visitors[visitor.ID] = &copied
	return nil
}

func (r *fakeVisitorRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Visitor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	visitor, ok := r.visitors[id]
	if !ok {
		return nil, nil
	}
	copied := *visitor
	return &copied, nil
}

func (r *fakeVisitorRepo) List(_ context.Context, status entity.VisitorStatus, limit, offset int) ([]entity.Visitor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var visitors []entity.Visitor
	for _, visitor := range r.visitors {
		if status == "" || visitor.Status == status {
			visitors = append(visitors, *visitor)
		}
	}
	return visitors, nil
}

func (r *fakeVisitorRepo) LatestPendingByHost(_ context.Context, email, name string, onOrAfter time.Time) (*entity.Visitor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *entity.Visitor
	for _, visitor := range r.visitors {
		if visitor.Status != entity.VisitorStatusPending {
			continue
		}
		if visitor.ExpectedDate.Before(onOrAfter) {
			continue
		}
		if !strings.EqualFold(visitor.HostEmployee, email) && visitor.HostEmployee != name {
			continue
		}
		if latest == nil || visitor.CreatedAt.After(latest.CreatedAt) {
			latest = visitor
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

func (r *fakeVisitorRepo) MarkApproved(_ context.Context, id, approverID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	visitor, ok := r.visitors[id]
	if !ok || visitor.Status != entity.VisitorStatusPending {
		return false, nil
	}
	approver := approverID
	visitor.Status = entity.VisitorStatusApproved
	visitor.ApprovedByID = &approver
	visitor.RejectionReason = nil
	return true, nil
}

func (r *fakeVisitorRepo) MarkRejected(_ context.Context, id uuid.UUID, reason string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	visitor, ok := r.visitors[id]
	if !ok || visitor.Status != entity.VisitorStatusPending {
		return false, nil
	}
	visitor.Status = entity.VisitorStatusRejected
	visitor.RejectionReason = &reason
	visitor.ApprovedByID = nil
	return true, nil
}

func (r *fakeVisitorRepo) MarkCheckedIn(_ context.Context, id uuid.UUID, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	visitor, ok := r.visitors[id]
	if !ok || visitor.Status != entity.VisitorStatusApproved {
		return false, nil
	}
	checkIn := at
	visitor.Status = entity.VisitorStatusCheckedIn
	visitor.ActualCheckIn = &checkIn
	return true, nil
}

func (r *fakeVisitorRepo) MarkCheckedOut(_ context.Context, id uuid.UUID, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	visitor, ok := r.visitors[id]
	if !ok || visitor.Status != entity.VisitorStatusCheckedIn {
		return false, nil
	}
	checkOut := at
	visitor.Status = entity.VisitorStatusCheckedOut
	visitor.ActualCheckOut = &checkOut
	return true, nil
}

func (r *fakeVisitorRepo) SetQRCodeIfAbsent(_ context.Context, id uuid.UUID, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	visitor, ok := r.visitors[id]
	if !ok || visitor.QRCode != nil {
		return nil
	}
	value := code
	visitor.QRCode = &value
	return nil
}

func (r *fakeVisitorRepo) DeleteIfNotCheckedIn(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	visitor, ok := r.visitors[id]
	if !ok {
		return false, nil
	}
	if visitor.Status == entity.VisitorStatusCheckedIn {
		return false, nil
	}
	delete(r.visitors, id)
	return true, nil
}

type fakeEmployeeRepo struct {
	mu        sync.Mutex
	employees []entity.Employee
}

func (r *fakeEmployeeRepo) Create(_ context.Context, employee *entity.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if employee.ID == uuid.Nil {
		employee.ID = uuid.New()
	}
	r.employees = append(r.employees, *employee)
	return nil
}

func (r *fakeEmployeeRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.employees {
		if r.employees[i].ID == id {
			copied := r.employees[i]
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeEmployeeRepo) FindByEmailOrName(_ context.Context, host string) (*entity.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.employees {
		if strings.EqualFold(r.employees[i].Email, host) || r.employees[i].Name == host {
			copied := r.employees[i]
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeEmployeeRepo) List(_ context.Context) ([]entity.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	employees := make([]entity.Employee, len(r.employees))
	copy(employees, r.employees)
	return employees, nil
}

type fakeVehicleRepo struct {
	mu       sync.Mutex
	vehicles map[uuid.UUID]*entity.Vehicle
}

func newFakeVehicleRepo() *fakeVehicleRepo {
	return &fakeVehicleRepo{vehicles: make(map[uuid.UUID]*entity.Vehicle)}
}

func (r *fakeVehicleRepo) Create(_ context.Context, vehicle *entity.Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if vehicle.ID == uuid.Nil {
		vehicle.ID = uuid.New()
	}
	copied := *vehicle
	r.vehicles[vehicle.ID] = &copied
	return nil
}

func (r *fakeVehicleRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	vehicle, ok := r.vehicles[id]
	if !ok {
		return nil, nil
	}
	copied := *vehicle
	return &copied, nil
}

func (r *fakeVehicleRepo) FindByPlate(_ context.Context, plate string) (*entity.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, vehicle := range r.vehicles {
		if vehicle.LicensePlate == plate {
			copied := *vehicle
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeVehicleRepo) List(_ context.Context, limit, offset int) ([]entity.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	vehicles := make([]entity.Vehicle, 0, len(r.vehicles))
	for _, vehicle := range r.vehicles {
		vehicles = append(vehicles, *vehicle)
	}
	return vehicles, nil
}

func (r *fakeVehicleRepo) ActiveFleet(_ context.Context) ([]entity.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var fleet []entity.Vehicle
	for _, vehicle := range r.vehicles {
		if vehicle.IsActive && vehicle.Status != entity.VehicleStatusRetired {
			fleet = append(fleet, *vehicle)
		}
	}
	return fleet, nil
}

func (r *fakeVehicleRepo) AdvanceMileage(_ context.Context, id uuid.UUID, mileage float64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	vehicle, ok := r.vehicles[id]
	if !ok {
		return false, nil
	}
	if vehicle.CurrentMileage != nil && *vehicle.CurrentMileage >= mileage {
		return false, nil
	}
	value := mileage
	vehicle.CurrentMileage = &value
	return true, nil
}

type fakeMovementRepo struct {
	mu        sync.Mutex
	movements []entity.VehicleMovement
}

func (r *fakeMovementRepo) Create(_ context.Context, movement *entity.VehicleMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if movement.ID == uuid.Nil {
		movement.ID = uuid.New()
	}
	movement.CreatedAt = time.Now()
	r.movements = append(r.movements, *movement)
	return nil
}

func (r *fakeMovementRepo) LatestByVehicle(_ context.Context, vehicleID uuid.UUID) (*entity.VehicleMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *entity.VehicleMovement
	for i := range r.movements {
		movement := &r.movements[i]
		if movement.VehicleID != vehicleID {
			continue
		}
		if latest == nil || movement.RecordedAt.After(latest.RecordedAt) ||
			(movement.RecordedAt.Equal(latest.RecordedAt) && movement.CreatedAt.After(latest.CreatedAt)) {
			latest = movement
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

func (r *fakeMovementRepo) LatestPerVehicle(ctx context.Context) ([]entity.VehicleMovement, error) {
	r.mu.Lock()
	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for _, movement := range r.movements {
		if !seen[movement.VehicleID] {
			seen[movement.VehicleID] = true
			ids = append(ids, movement.VehicleID)
		}
	}
	r.mu.Unlock()

	var latest []entity.VehicleMovement
	for _, id := range ids {
		movement, err := r.LatestByVehicle(ctx, id)
		if err != nil {
			return nil, err
		}
		if movement != nil {
			latest = append(latest, *movement)
		}
	}
	return latest, nil
}

func (r *fakeMovementRepo) ListByVehicle(_ context.Context, vehicleID uuid.UUID, limit, offset int) ([]entity.VehicleMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var movements []entity.VehicleMovement
	for _, movement := range r.movements {
		if movement.VehicleID == vehicleID {
			movements = append(movements, movement)
		}
	}
	return movements, nil
}

type recordingNotifier struct {
	mu               sync.Mutex
	approvalRequests []string
	statusUpdates    []entity.VisitorStatus
}

func (n *recordingNotifier) SendApprovalRequest(_ context.Context, _ entity.Visitor, _ entity.Employee, token string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.approvalRequests = append(n.approvalRequests, token)
	return nil
}

func (n *recordingNotifier) SendStatusUpdate(_ context.Context, _ entity.Visitor, status entity.VisitorStatus, _ *entity.Employee) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.statusUpdates = append(n.statusUpdates, status)
	return nil
}
