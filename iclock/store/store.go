package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"axiapac.com/adms/iclock/model"
)

var (
	ErrStorage  = errors.New("storage error")
	ErrNotFound = errors.New("not found")
)

// Store is the persistence the gateway needs. Machine, User and Fingerprint
// writes are atomic upserts on their unique keys; attendance is append-only.
type Store interface {
	// TouchMachine updates last_seen for an existing machine and reports
	// whether a row was found.
	TouchMachine(ctx context.Context, serialNumber string, seenAt time.Time) (bool, error)
	// RegisterMachine inserts m, or only refreshes last_seen if the serial
	// number already exists.
	RegisterMachine(ctx context.Context, m *model.Machine) error
	FindMachine(ctx context.Context, serialNumber string) (*model.Machine, error)
	ListMachines(ctx context.Context) ([]model.Machine, error)
	RenameMachine(ctx context.Context, id uint, name string) (*model.Machine, error)
	FillMachineNames(ctx context.Context) (int64, error)

	UpsertUser(ctx context.Context, u *model.User) error
	UpsertFingerprint(ctx context.Context, fp *model.Fingerprint) error
	ListUsers(ctx context.Context) ([]model.User, error)
	ListFingerprints(ctx context.Context, pin int) ([]model.Fingerprint, error)

	// InsertAttendance persists the whole batch or nothing.
	InsertAttendance(ctx context.Context, records []model.Attendance) error
	AttendanceHistory(ctx context.Context) ([]model.AttendanceHistory, error)

	ActiveWebhooks(ctx context.Context) ([]model.Webhook, error)
	ListWebhooks(ctx context.Context) ([]model.Webhook, error)
	CreateWebhook(ctx context.Context, w *model.Webhook) error
	UpdateWebhook(ctx context.Context, id uint, url string, isActive bool) (*model.Webhook, error)
	DeleteWebhook(ctx context.Context, id uint) error
}

func storageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStorage, op, err)
}
