package core

import (
	"context"
	"time"

	"axiapac.com/adms/iclock/model"
	"axiapac.com/adms/iclock/protocol"
	"axiapac.com/adms/iclock/store"
	"go.uber.org/zap"
)

// Registry maps terminal serial numbers to Machine rows, registering unknown
// terminals on first contact.
type Registry struct {
	store           store.Store
	defaultTimezone int
	now             func() time.Time
	log             *zap.Logger
}

func NewRegistry(s store.Store, defaultTimezone int, log *zap.Logger) *Registry {
	return &Registry{
		store:           s,
		defaultTimezone: defaultTimezone,
		now:             time.Now,
		log:             log,
	}
}

// ResolveOrRegister refreshes last_seen for serialNumber and returns its
// Machine. Unknown terminals are created with the default timezone and name;
// registered reports that this call took the create path.
//
// The write is detached from ctx cancellation so a terminal hanging up does
// not abort the commit.
func (r *Registry) ResolveOrRegister(ctx context.Context, serialNumber string) (m *model.Machine, registered bool, err error) {
	if serialNumber == "" {
		return nil, false, protocol.ErrMissingSerialNumber
	}
	ctx = context.WithoutCancel(ctx)
	now := r.now()

	found, err := r.store.TouchMachine(ctx, serialNumber, now)
	if err != nil {
		return nil, false, err
	}
	if !found {
		err = r.store.RegisterMachine(ctx, &model.Machine{
			SerialNumber: serialNumber,
			Name:         model.DefaultMachineName(serialNumber),
			LastSeen:     &now,
			Timezone:     r.defaultTimezone,
		})
		if err != nil {
			return nil, false, err
		}
		registered = true
	}

	m, err = r.store.FindMachine(ctx, serialNumber)
	if err != nil {
		return nil, false, err
	}
	if registered {
		r.log.Info("registered machine",
			zap.String("sn", serialNumber),
			zap.Uint("machineId", m.ID),
			zap.Int("timezone", m.Timezone))
	}
	return m, registered, nil
}
