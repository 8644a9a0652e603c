package webhook

import (
	"context"

	"axiapac.com/adms/iclock/model"
	"axiapac.com/adms/iclock/protocol"
	"axiapac.com/adms/utils"
	"go.uber.org/zap"
)

// Backfill sends the whole attendance history to every active endpoint as a
// single batch. Stored timestamps are rendered back into each machine's local
// time. Records without a machine are not included.
func (d *Dispatcher) Backfill(ctx context.Context) ([]Result, error) {
	history, err := d.store.AttendanceHistory(ctx)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		d.log.Info("backfill skipped, no attendance history")
		return nil, nil
	}

	events := utils.Map(history, func(row model.AttendanceHistory) Event {
		return Event{
			Pin:                row.Pin,
			Date:               protocol.Localize(row.Date, row.MachineOffset),
			MachineDisplayName: row.MachineName,
		}
	})

	d.log.Info("backfilling webhooks", zap.Int("events", len(events)))
	return d.DispatchActive(ctx, events, "backfill")
}
