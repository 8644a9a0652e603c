package report

import (
	"bytes"
	"testing"
	"time"

	"axiapac.com/adms/iclock/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteAttendance(t *testing.T) {
	stored := time.Date(2024, 1, 15, 1, 30, 0, 0, time.UTC)
	rows := []model.AttendanceHistory{
		{Pin: 45, Date: stored, Status: "0", Verify: "1", SerialNumber: "SN001", MachineName: "Gate", MachineOffset: 7},
		{Pin: 46, Date: stored, Status: "1", Verify: "15", SerialNumber: "SN002", MachineName: "Dock", MachineOffset: -5},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteAttendance(&buf, rows, time.FixedZone("AEST", 10*3600)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{AttendanceSheet}, f.GetSheetList())
	got, err := f.GetRows(AttendanceSheet)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "PIN", got[0][0])
	assert.Equal(t, []string{"45", "2024-01-15 08:30:00", "2024-01-15 11:30:00", "0", "1", "Gate", "SN001"}, got[1])
	assert.Equal(t, "2024-01-14 20:30:00", got[2][1])
}

func TestWriteAttendanceEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteAttendance(&buf, nil, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	got, err := f.GetRows(AttendanceSheet)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
