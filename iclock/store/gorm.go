package store

import (
	"context"
	"errors"
	"time"

	"axiapac.com/adms/core"
	"axiapac.com/adms/iclock/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const attendanceBatchSize = 100

type GormStore struct {
	dm *core.DatabaseManager
}

var _ Store = (*GormStore)(nil)

func NewGormStore(dm *core.DatabaseManager) *GormStore {
	return &GormStore{dm: dm}
}

// Migrate creates the gateway tables.
func (s *GormStore) Migrate(ctx context.Context) error {
	return s.dm.Migrate(ctx, model.All()...)
}

func (s *GormStore) TouchMachine(ctx context.Context, serialNumber string, seenAt time.Time) (bool, error) {
	var affected int64
	err := s.dm.Exec(ctx, func(db *gorm.DB) error {
		result := db.Model(&model.Machine{}).
			Where("serial_number = ?", serialNumber).
			Update("last_seen", seenAt)
		affected = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return false, storageError("touch machine", err)
	}
	return affected > 0, nil
}

func (s *GormStore) RegisterMachine(ctx context.Context, m *model.Machine) error {
	err := s.dm.Exec(ctx, func(db *gorm.DB) error {
		return db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "serial_number"}},
			DoUpdates: clause.AssignmentColumns([]string{"last_seen", "updated_at"}),
		}).Create(m).Error
	})
	if err != nil {
		return storageError("register machine", err)
	}
	return nil
}

func (s *GormStore) FindMachine(ctx context.Context, serialNumber string) (*model.Machine, error) {
	var m model.Machine
	err := s.dm.Exec(ctx, func(db *gorm.DB) error {
		return db.Where("serial_number = ?", serialNumber).Take(&m).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storageError("find machine", err)
	}
	return &m, nil
}

func (s *GormStore) ListMachines(ctx context.Context) ([]model.Machine, error) {
	var machines []model.Machine
	if err := s.dm.Exec(ctx, func(db *gorm.DB) error {
		return db.Order("id").Find(&machines).Error
	}); err != nil {
		return nil, storageError("list machines", err)
	}
	return machines, nil
}

func (s *GormStore) RenameMachine(ctx context.Context, id uint, name string) (*model.Machine, error) {
	var m model.Machine
	err := s.dm.Exec(ctx, func(db *gorm.DB) error {
		result := db.Model(&model.Machine{}).Where("id = ?", id).Update("name", name)
		if result.Error != nil {
			return result.Error
		}
		return db.Take(&m, id).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storageError("rename machine", err)
	}
	return &m, nil
}

// FillMachineNames gives every machine without a display name the default one.
func (s *GormStore) FillMachineNames(ctx context.Context) (int64, error) {
	var filled int64
	err := s.dm.Transaction(ctx, func(tx *gorm.DB) error {
		var machines []model.Machine
		if err := tx.Where("name IS NULL OR name = ?", "").Find(&machines).Error; err != nil {
			return err
		}
		for _, m := range machines {
			if err := tx.Model(&model.Machine{}).Where("id = ?", m.ID).
				Update("name", model.DefaultMachineName(m.SerialNumber)).Error; err != nil {
				return err
			}
			filled++
		}
		return nil
	})
	if err != nil {
		return 0, storageError("fill machine names", err)
	}
	return filled, nil
}

func (s *GormStore) UpsertUser(ctx context.Context, u *model.User) error {
	err := s.dm.Exec(ctx, func(db *gorm.DB) error {
		return db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "pin"}},
			DoUpdates: clause.AssignmentColumns(model.UserMutableColumns),
		}).Create(u).Error
	})
	if err != nil {
		return storageError("upsert user", err)
	}
	return nil
}

func (s *GormStore) UpsertFingerprint(ctx context.Context, fp *model.Fingerprint) error {
	err := s.dm.Exec(ctx, func(db *gorm.DB) error {
		return db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "pin"}, {Name: "fid"}},
			DoUpdates: clause.AssignmentColumns(model.FingerprintMutableColumns),
		}).Create(fp).Error
	})
	if err != nil {
		return storageError("upsert fingerprint", err)
	}
	return nil
}

func (s *GormStore) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := s.dm.Exec(ctx, func(db *gorm.DB) error {
		return db.Order("pin").Find(&users).Error
	}); err != nil {
		return nil, storageError("list users", err)
	}
	return users, nil
}

// ListFingerprints returns the templates enrolled for pin, ordered by finger id.
func (s *GormStore) ListFingerprints(ctx context.Context, pin int) ([]model.Fingerprint, error) {
	var fps []model.Fingerprint
	if err := s.dm.Exec(ctx, func(db *gorm.DB) error {
		return db.Where("pin = ?", pin).Order("fid").Find(&fps).Error
	}); err != nil {
		return nil, storageError("list fingerprints", err)
	}
	return fps, nil
}

func (s *GormStore) InsertAttendance(ctx context.Context, records []model.Attendance) error {
	if len(records) == 0 {
		return nil
	}
	err := s.dm.Transaction(ctx, func(tx *gorm.DB) error {
		return tx.CreateInBatches(records, attendanceBatchSize).Error
	})
	if err != nil {
		return storageError("insert attendance", err)
	}
	return nil
}

func (s *GormStore) AttendanceHistory(ctx context.Context) ([]model.AttendanceHistory, error) {
	var rows []model.AttendanceHistory
	err := s.dm.Exec(ctx, func(db *gorm.DB) error {
		return db.Table("iclock_attendances a").
			Select(`a.pin AS pin,
				a.date AS date,
				a.status AS status,
				a.verify AS verify,
				m.serial_number AS serial_number,
				m.name AS machine_name,
				m.timezone AS machine_offset`).
			Joins("JOIN iclock_machines m ON m.id = a.machine_id").
			Order("a.id").
			Scan(&rows).Error
	})
	if err != nil {
		return nil, storageError("attendance history", err)
	}
	return rows, nil
}

func (s *GormStore) ActiveWebhooks(ctx context.Context) ([]model.Webhook, error) {
	var hooks []model.Webhook
	if err := s.dm.Exec(ctx, func(db *gorm.DB) error {
		return db.Where("is_active = ?", true).Order("id").Find(&hooks).Error
	}); err != nil {
		return nil, storageError("active webhooks", err)
	}
	return hooks, nil
}

func (s *GormStore) ListWebhooks(ctx context.Context) ([]model.Webhook, error) {
	var hooks []model.Webhook
	if err := s.dm.Exec(ctx, func(db *gorm.DB) error {
		return db.Order("id").Find(&hooks).Error
	}); err != nil {
		return nil, storageError("list webhooks", err)
	}
	return hooks, nil
}

func (s *GormStore) CreateWebhook(ctx context.Context, w *model.Webhook) error {
	if err := s.dm.Exec(ctx, func(db *gorm.DB) error {
		return db.Create(w).Error
	}); err != nil {
		return storageError("create webhook", err)
	}
	return nil
}

func (s *GormStore) UpdateWebhook(ctx context.Context, id uint, url string, isActive bool) (*model.Webhook, error) {
	var w model.Webhook
	err := s.dm.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Take(&w, id).Error; err != nil {
			return err
		}
		w.URL = url
		w.IsActive = isActive
		return tx.Select("url", "is_active", "updated_at").Save(&w).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storageError("update webhook", err)
	}
	return &w, nil
}

func (s *GormStore) DeleteWebhook(ctx context.Context, id uint) error {
	var affected int64
	err := s.dm.Exec(ctx, func(db *gorm.DB) error {
		result := db.Delete(&model.Webhook{}, id)
		affected = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return storageError("delete webhook", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
