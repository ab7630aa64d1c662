package checkin

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gym_checkin/internal/domain"
	"gym_checkin/internal/model"
	"gym_checkin/internal/utils"

	"go.uber.org/zap"
)

const (
	envProduction  = "production"
	envDevelopment = "development"
)

// Workflow проверяет и записывает чекин: нормализация, проверка абонемента,
// сохранение клиента, запись прохода и ровно одна запись в журнал.
type Workflow struct {
	verifier   domain.MembershipVerifier
	customers  domain.CustomerRepo
	checkIns   domain.CheckInRepo
	systemLog  domain.SystemLogger
	locationID string
	appEnv     string
	logger     *zap.Logger

	forceUpdate chan struct{}
	now         func() time.Time
}

type Config struct {
	LocationID string
	AppEnv     string
	// ForceUpdate получает сигнал после каждого успешного прохода, может быть nil
	ForceUpdate chan struct{}
}

func NewWorkflow(
	verifier domain.MembershipVerifier,
	customers domain.CustomerRepo,
	checkIns domain.CheckInRepo,
	systemLog domain.SystemLogger,
	cfg Config,
	logger *zap.Logger,
) *Workflow {
	return &Workflow{
		verifier:    verifier,
		customers:   customers,
		checkIns:    checkIns,
		systemLog:   systemLog,
		locationID:  cfg.LocationID,
		appEnv:      cfg.AppEnv,
		logger:      logger,
		forceUpdate: cfg.ForceUpdate,
		now:         time.Now,
	}
}

// CheckIn никогда не возвращает ошибку наружу: любой сбой превращается в UNEXPECTED_ERROR.
// Отмена ctx не прерывает начатый чекин, иначе запись прохода может остаться без записи в журнале.
// Сеть ограничена таймаутами клиентов Square и Telegram.
func (w *Workflow) CheckIn(ctx context.Context, rawPhone string) *model.Verdict {
	ctx = context.WithoutCancel(ctx)

	if strings.TrimSpace(rawPhone) == "" {
		return w.missingPhone(ctx)
	}

	phone := utils.NormalizePhone(rawPhone)
	w.logger.Debug("formatted phone number", zap.String("phone", phone))

	verdict, err := w.run(ctx, phone)
	if err != nil {
		return w.unexpected(ctx, phone, err)
	}
	return verdict
}

func (w *Workflow) run(ctx context.Context, phone string) (*model.Verdict, error) {
	verdict, err := w.verifier.Verify(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("verify membership: %w", err)
	}

	details := map[string]any{
		"phoneNumber": phone,
		"success":     verdict.Success,
		"environment": envProduction,
		"mockData":    verdict.Mock,
		"locationId":  w.locationID,
	}
	if verdict.Mock {
		details["environment"] = envDevelopment
	}
	if verdict.Error != "" {
		details["error"] = verdict.Error
	}

	var record *model.CheckInRecord
	if cd := verdict.CustomerData; cd != nil {
		customer, err := w.customers.UpsertCustomer(ctx, cd.ID, cd.Name, phone, cd.MembershipStatus)
		if err != nil {
			return nil, err
		}
		details["customerId"] = customer.ID
		details["membershipStatus"] = cd.MembershipStatus

		if verdict.Success {
			checkIn, err := w.checkIns.RecordCheckIn(ctx, customer.ID, customer.Name, customer.PhoneNumber, customer.MembershipType, w.locationID)
			if err != nil {
				return nil, err
			}
			record = successRecord(customer, checkIn)
		} else {
			record = failureRecord(customer, verdict.Message, w.now())
		}
		mergeRecord(details, record)
	}

	message, severity := logMessage(verdict, record, phone)
	if err := w.systemLog.Append(ctx, message, model.EventCheckIn, severity, details); err != nil {
		return nil, err
	}

	if verdict.Success {
		w.nudgeSync()
	}
	return verdict, nil
}

func (w *Workflow) missingPhone(ctx context.Context) *model.Verdict {
	err := w.systemLog.Append(ctx,
		"Check-in attempt failed: Missing phone number",
		model.EventCheckInError,
		model.SeverityWarning,
		map[string]any{"error": model.ErrMissingPhoneNumber},
	)
	if err != nil {
		w.logger.Error("error writing system log", zap.Error(err))
	}
	return &model.Verdict{
		Success: false,
		Message: "Phone number is required",
		Error:   model.ErrMissingPhoneNumber,
	}
}

func (w *Workflow) unexpected(ctx context.Context, phone string, cause error) *model.Verdict {
	w.logger.Error("error in check-in", zap.Error(cause), zap.String("phone", phone))

	err := w.systemLog.Append(ctx,
		"Error during check-in: "+cause.Error(),
		model.EventCheckInError,
		model.SeverityError,
		map[string]any{
			"phoneNumber": phone,
			"error":       fmt.Sprintf("%+v", cause),
			"timestamp":   w.now().UTC().Format(time.RFC3339),
			"environment": w.appEnv,
		},
	)
	if err != nil {
		w.logger.Error("error writing system log", zap.Error(err), zap.NamedError("cause", cause))
	}
	return &model.Verdict{
		Success: false,
		Message: "An unexpected error occurred. Please try again.",
		Error:   model.ErrUnexpected,
	}
}

func (w *Workflow) nudgeSync() {
	select {
	case w.forceUpdate <- struct{}{}:
	default:
	}
}

func logMessage(verdict *model.Verdict, record *model.CheckInRecord, phone string) (string, string) {
	who := phone
	if record != nil {
		who = record.CustomerName
	}
	if verdict.Success {
		return "Check-in successful for " + who, model.SeverityInfo
	}
	return fmt.Sprintf("Check-in failed for %s: %s", who, verdict.Message), model.SeverityWarning
}

func successRecord(customer *model.Customer, checkIn *model.CheckIn) *model.CheckInRecord {
	return &model.CheckInRecord{
		ID:             strconv.FormatUint(uint64(checkIn.ID), 10),
		Timestamp:      checkIn.CheckInTime.UTC().Format(time.RFC3339),
		CustomerName:   customer.Name,
		PhoneNumber:    customer.PhoneNumber,
		Success:        true,
		MembershipType: membershipOrUnknown(customer.MembershipType),
		Message:        fmt.Sprintf("Check-in successful (%s)", utils.PaymentHint(customer.MembershipType)),
		Initials:       utils.Initials(customer.Name),
	}
}

func failureRecord(customer *model.Customer, message string, now time.Time) *model.CheckInRecord {
	if message == "" {
		message = "Check-in failed"
	}
	return &model.CheckInRecord{
		ID:             strconv.FormatInt(now.UnixMilli(), 10),
		Timestamp:      now.UTC().Format(time.RFC3339),
		CustomerName:   customer.Name,
		PhoneNumber:    customer.PhoneNumber,
		Success:        false,
		MembershipType: membershipOrUnknown(customer.MembershipType),
		Message:        message,
		Initials:       utils.Initials(customer.Name),
	}
}

func membershipOrUnknown(t string) string {
	if t == "" {
		return "Unknown"
	}
	return t
}

// mergeRecord раскладывает запись ленты по верхнему уровню details, так ее читает админка
func mergeRecord(details map[string]any, r *model.CheckInRecord) {
	details["id"] = r.ID
	details["timestamp"] = r.Timestamp
	details["customerName"] = r.CustomerName
	details["phoneNumber"] = r.PhoneNumber
	details["success"] = r.Success
	details["membershipType"] = r.MembershipType
	details["message"] = r.Message
	details["nextPayment"] = r.NextPayment
	details["initials"] = r.Initials
}
