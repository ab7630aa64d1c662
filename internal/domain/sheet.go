package domain

import (
	"context"

	"gym_checkin/internal/model"
)

type SheetService interface {
	AppendCheckIn(ctx context.Context, checkIn model.CheckIn) error
}
