package core

import (
	"context"
	"time"

	"axiapac.com/adms/iclock/model"
	"axiapac.com/adms/iclock/protocol"
	"axiapac.com/adms/iclock/store"
	"go.uber.org/zap"
)

// AttendanceListener is told about every attendance batch after it commits.
// It must not block; its outcome never affects ingestion.
type AttendanceListener interface {
	AttendanceStored(machine *model.Machine, entries []protocol.AttendanceEntry)
}

type PipelineConfig struct {
	// DefaultTimezone is used for attendance when no machine is known.
	DefaultTimezone int
	// Canonical is the location timestamps are stored in.
	Canonical *time.Location
}

// Pipeline applies decoded push records to the store.
type Pipeline struct {
	store    store.Store
	config   PipelineConfig
	listener AttendanceListener
	log      *zap.Logger
}

// Outcome summarises one ingested push. Errors holds every line that was
// skipped, whether it failed decoding or timestamp normalization.
type Outcome struct {
	Lines  int
	Stored int
	Errors []*protocol.RecordError
}

func NewPipeline(s store.Store, config PipelineConfig, listener AttendanceListener, log *zap.Logger) *Pipeline {
	if config.Canonical == nil {
		config.Canonical = time.UTC
	}
	return &Pipeline{store: s, config: config, listener: listener, log: log}
}

// Ingest routes a decoded push by table. machine may be nil when the
// terminal could not be resolved. Tables other than ATTLOG and OPERLOG are
// logged and otherwise ignored.
func (p *Pipeline) Ingest(ctx context.Context, machine *model.Machine, push *protocol.Push) (*Outcome, error) {
	outcome := &Outcome{
		Lines:  len(push.Lines),
		Errors: append([]*protocol.RecordError(nil), push.Errors...),
	}
	var err error

	switch push.Table {
	case protocol.TableAttendance:
		var stored int
		var skipped []*protocol.RecordError
		stored, skipped, err = p.IngestAttendance(ctx, machine, push.Attendance)
		outcome.Stored = stored
		outcome.Errors = append(outcome.Errors, skipped...)
	case protocol.TableOperation:
		outcome.Stored, err = p.IngestOperations(ctx, machine, push.Operations)
	default:
		p.log.Info("ignoring push table",
			zap.String("table", push.Table),
			zap.Int("lines", len(push.Lines)))
	}

	for _, e := range outcome.Errors {
		p.log.Warn("skipped push line",
			zap.String("table", push.Table),
			zap.Int("line", e.Line),
			zap.String("text", e.Text),
			zap.Error(e.Err))
	}
	return outcome, err
}

// IngestAttendance normalizes and inserts one batch in a single transaction.
// Entries with malformed timestamps are skipped and returned. On success the
// listener receives the stored entries.
func (p *Pipeline) IngestAttendance(ctx context.Context, machine *model.Machine, entries []protocol.AttendanceEntry) (int, []*protocol.RecordError, error) {
	timezone := p.config.DefaultTimezone
	if machine != nil {
		timezone = machine.Timezone
	}
	machineID := machineRef(machine)

	var skipped []*protocol.RecordError
	records := make([]model.Attendance, 0, len(entries))
	stored := make([]protocol.AttendanceEntry, 0, len(entries))
	for _, e := range entries {
		date, err := protocol.Normalize(e.Date, timezone, p.config.Canonical)
		if err != nil {
			skipped = append(skipped, &protocol.RecordError{Line: e.Line, Text: e.Date, Err: err})
			continue
		}
		records = append(records, model.Attendance{
			Pin:       e.Pin,
			Date:      date,
			Status:    e.Status,
			Verify:    e.Verify,
			WorkCode:  e.WorkCode,
			Reserved1: e.Reserved1,
			Reserved2: e.Reserved2,
			MachineID: machineID,
		})
		stored = append(stored, e)
	}
	if len(records) == 0 {
		return 0, skipped, nil
	}

	if err := p.store.InsertAttendance(context.WithoutCancel(ctx), records); err != nil {
		return 0, skipped, err
	}

	if p.listener != nil {
		p.listener.AttendanceStored(machine, stored)
	}
	return len(records), skipped, nil
}

// IngestOperations applies USER and FP entries and logs the rest. It stops at
// the first storage failure.
func (p *Pipeline) IngestOperations(ctx context.Context, machine *model.Machine, ops []protocol.Operation) (int, error) {
	applied := 0
	for _, op := range ops {
		var err error
		switch e := op.(type) {
		case protocol.UserEntry:
			err = p.IngestUser(ctx, machine, e)
		case protocol.FingerprintEntry:
			err = p.IngestFingerprint(ctx, machine, e)
		case protocol.OpLogEntry:
			p.log.Info("operation log",
				zap.String("type", e.Type),
				zap.String("status", e.Status),
				zap.String("date", e.Date),
				zap.String("pin", e.Pin))
			continue
		default:
			p.log.Info("unhandled operation", zap.String("tag", op.Tag()), zap.Any("op", op))
			continue
		}
		if err != nil {
			return applied, err
		}
		applied++
	}
	return applied, nil
}

// IngestUser upserts by PIN. Machine linkage is only set on creation.
func (p *Pipeline) IngestUser(ctx context.Context, machine *model.Machine, e protocol.UserEntry) error {
	return p.store.UpsertUser(context.WithoutCancel(ctx), &model.User{
		Pin:       e.Pin,
		Name:      e.Name,
		Primary:   e.Primary,
		Password:  e.Password,
		Card:      e.Card,
		Group:     e.Group,
		Timezone:  e.Timezone,
		Verify:    e.Verify,
		ViceCard:  e.ViceCard,
		MachineID: machineRef(machine),
	})
}

// IngestFingerprint upserts by (PIN, FID). Machine linkage is only set on creation.
func (p *Pipeline) IngestFingerprint(ctx context.Context, machine *model.Machine, e protocol.FingerprintEntry) error {
	return p.store.UpsertFingerprint(context.WithoutCancel(ctx), &model.Fingerprint{
		Pin:       e.Pin,
		Fid:       e.Fid,
		Size:      e.Size,
		Valid:     e.Valid,
		Template:  e.Template,
		MachineID: machineRef(machine),
	})
}

func machineRef(machine *model.Machine) *uint {
	if machine == nil {
		return nil
	}
	id := machine.ID
	return &id
}
