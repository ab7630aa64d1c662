package checkin

import (
	"context"
	"testing"

	"gym_checkin/internal/model"
	"gym_checkin/internal/repository/postgres"
	"gym_checkin/internal/service/membership"
	"gym_checkin/internal/service/system_log"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newStoreWorkflow(t *testing.T, draw float64) (*Workflow, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	if err := postgres.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	log := zaptest.NewLogger(t)
	wf := NewWorkflow(
		membership.NewFallbackVerifier(func() float64 { return draw }),
		postgres.NewCustomerRepository(db),
		postgres.NewCheckInRepository(db),
		system_log.NewService(postgres.NewSystemLogRepository(db), nil, "", log),
		Config{LocationID: "default-location", AppEnv: "development"},
		log,
	)
	return wf, db
}

func count(t *testing.T, db *gorm.DB, m any, where ...any) int64 {
	t.Helper()
	var n int64
	q := db.Model(m)
	if len(where) > 0 {
		q = q.Where(where[0], where[1:]...)
	}
	if err := q.Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func TestWorkflowWithStore_SuccessInvariant(t *testing.T) {
	wf, db := newStoreWorkflow(t, 0.9)

	verdict := wf.CheckIn(context.Background(), "07123456789")
	if !verdict.Success {
		t.Fatalf("expected success, got %+v", verdict)
	}

	if n := count(t, db, &model.CheckIn{}); n != 1 {
		t.Errorf("check-ins = %d, want 1", n)
	}
	if n := count(t, db, &model.SystemLog{}, "event_type = ? AND severity = ?", model.EventCheckIn, model.SeverityInfo); n != 1 {
		t.Errorf("info check_in logs = %d, want 1", n)
	}
	if n := count(t, db, &model.SystemLog{}); n != 1 {
		t.Errorf("total logs = %d, want 1", n)
	}

	var customer model.Customer
	if err := db.First(&customer, "id = ?", "mock-id").Error; err != nil {
		t.Fatalf("customer not stored: %v", err)
	}
	if customer.PhoneNumber != "+447123456789" || customer.MembershipType != "Active" {
		t.Errorf("customer = %+v", customer)
	}
}

func TestWorkflowWithStore_FailureInvariant(t *testing.T) {
	wf, db := newStoreWorkflow(t, 0.1)

	verdict := wf.CheckIn(context.Background(), "07123456789")
	if verdict.Success {
		t.Fatalf("expected failure, got %+v", verdict)
	}

	if n := count(t, db, &model.CheckIn{}); n != 0 {
		t.Errorf("check-ins = %d, want 0", n)
	}
	if n := count(t, db, &model.Customer{}); n != 1 {
		t.Errorf("customers = %d, want 1", n)
	}
	if n := count(t, db, &model.SystemLog{}, "severity = ?", model.SeverityWarning); n != 1 {
		t.Errorf("warning logs = %d, want 1", n)
	}
	if n := count(t, db, &model.SystemLog{}); n != 1 {
		t.Errorf("total logs = %d, want 1", n)
	}
}

func TestWorkflowWithStore_RepeatedAttemptsUpdateProfile(t *testing.T) {
	wfOK, db := newStoreWorkflow(t, 0.9)
	ctx := context.Background()
	wfOK.CheckIn(ctx, "07123456789")

	// тот же mock-id, но уже неуспешный вердикт
	wfFail := NewWorkflow(
		membership.NewFallbackVerifier(func() float64 { return 0.1 }),
		postgres.NewCustomerRepository(db),
		postgres.NewCheckInRepository(db),
		system_log.NewService(postgres.NewSystemLogRepository(db), nil, "", zaptest.NewLogger(t)),
		Config{LocationID: "default-location"},
		zaptest.NewLogger(t),
	)
	wfFail.CheckIn(ctx, "07000000000")

	if n := count(t, db, &model.Customer{}); n != 1 {
		t.Errorf("customers = %d, want 1", n)
	}
	var customer model.Customer
	db.First(&customer, "id = ?", "mock-id")
	if customer.Name != "Jane Smith" || customer.MembershipType != "Inactive" || customer.PhoneNumber != "+447000000000" {
		t.Errorf("customer not overwritten: %+v", customer)
	}

	var checkIn model.CheckIn
	db.First(&checkIn)
	if checkIn.CustomerName != "John Doe" || checkIn.MembershipType != "Active" {
		t.Errorf("check-in snapshot changed: %+v", checkIn)
	}
}

// cancelAfterRecord отменяет контекст запроса сразу после записи прохода,
// как при обрыве соединения клиентом посреди чекина
type cancelAfterRecord struct {
	*postgres.CheckInRepository
	cancel context.CancelFunc
}

func (r *cancelAfterRecord) RecordCheckIn(ctx context.Context, customerID, name, phone, membershipType, locationID string) (*model.CheckIn, error) {
	c, err := r.CheckInRepository.RecordCheckIn(ctx, customerID, name, phone, membershipType, locationID)
	r.cancel()
	return c, err
}

func TestWorkflowWithStore_ClientDisconnectStillLogsOnce(t *testing.T) {
	_, db := newStoreWorkflow(t, 0.9)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log := zaptest.NewLogger(t)
	wf := NewWorkflow(
		membership.NewFallbackVerifier(func() float64 { return 0.9 }),
		postgres.NewCustomerRepository(db),
		&cancelAfterRecord{CheckInRepository: postgres.NewCheckInRepository(db), cancel: cancel},
		system_log.NewService(postgres.NewSystemLogRepository(db), nil, "", log),
		Config{LocationID: "default-location", AppEnv: "development"},
		log,
	)

	verdict := wf.CheckIn(ctx, "07123456789")

	if !verdict.Success {
		t.Fatalf("verdict = %+v, want success", verdict)
	}
	if ctx.Err() == nil {
		t.Fatal("request context should be canceled by now")
	}
	if n := count(t, db, &model.CheckIn{}); n != 1 {
		t.Errorf("check-ins = %d, want 1", n)
	}
	if n := count(t, db, &model.SystemLog{}); n != 1 {
		t.Errorf("system logs = %d, want 1", n)
	}
	if n := count(t, db, &model.SystemLog{}, "event_type = ? AND severity = ?", model.EventCheckIn, model.SeverityInfo); n != 1 {
		t.Errorf("info check_in logs = %d, want 1", n)
	}
}

func TestWorkflowWithStore_CanceledBeforeStart(t *testing.T) {
	wf, db := newStoreWorkflow(t, 0.9)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	verdict := wf.CheckIn(ctx, "07123456789")

	if !verdict.Success {
		t.Fatalf("verdict = %+v, want success", verdict)
	}
	if n := count(t, db, &model.CheckIn{}); n != 1 {
		t.Errorf("check-ins = %d, want 1", n)
	}
	if n := count(t, db, &model.SystemLog{}); n != 1 {
		t.Errorf("system logs = %d, want 1", n)
	}
}
