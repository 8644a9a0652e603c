package protocol

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitBody(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected []string
	}{
		{"Empty", "", nil},
		{"Whitespace only", " \n\n", nil},
		{"Trailing blank lines", "a\nb\n\n", []string{"a", "b"}},
		{"CRLF", "a\r\nb\r\n", []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitBody([]byte(tt.body)))
		})
	}
}

func TestDecodeAttendanceLine(t *testing.T) {
	entry, err := DecodeAttendanceLine("123\t2024-01-15 08:30:00\t1\t1\t0\t0\t0")
	require.NoError(t, err)
	assert.Equal(t, AttendanceEntry{
		Pin:       123,
		Date:      "2024-01-15 08:30:00",
		Status:    "1",
		Verify:    "1",
		WorkCode:  "0",
		Reserved1: "0",
		Reserved2: "0",
	}, entry)

	t.Run("Extra fields ignored", func(t *testing.T) {
		entry, err := DecodeAttendanceLine("7\t2024-01-15 08:30:00\t0\t15\t\t\t\t\t")
		require.NoError(t, err)
		assert.Equal(t, 7, entry.Pin)
		assert.Equal(t, "15", entry.Verify)
	})

	t.Run("Short line", func(t *testing.T) {
		_, err := DecodeAttendanceLine("123\t2024-01-15 08:30:00\t1")
		assert.ErrorIs(t, err, ErrMalformedRecord)
	})

	t.Run("Non numeric PIN", func(t *testing.T) {
		_, err := DecodeAttendanceLine("abc\t2024-01-15 08:30:00\t1\t1\t0\t0\t0")
		assert.ErrorIs(t, err, ErrMalformedRecord)
	})
}

func TestDecodeAttendanceSkipsMalformedLines(t *testing.T) {
	body := strings.Join([]string{
		"1\t2024-01-15 08:30:00\t0\t1\t0\t0\t0",
		"2\t2024-01-15 08:31:00",
		"3\t2024-01-15 08:32:00\t0\t1\t0\t0\t0",
	}, "\n")

	push := DecodePush(TableAttendance, []byte(body))
	require.Len(t, push.Lines, 3)
	require.Len(t, push.Attendance, 2)
	assert.Equal(t, 1, push.Attendance[0].Pin)
	assert.Equal(t, 3, push.Attendance[1].Pin)
	assert.Equal(t, 3, push.Attendance[1].Line)

	require.Len(t, push.Errors, 1)
	assert.Equal(t, 2, push.Errors[0].Line)
	assert.True(t, errors.Is(push.Errors[0], ErrMalformedRecord))
}

func TestDecodeOperationLine(t *testing.T) {
	t.Run("OPLOG", func(t *testing.T) {
		op, err := DecodeOperationLine("OPLOG 4\t14\t2024-01-15 08:30:00\t0\t0\t0\t0")
		require.NoError(t, err)
		assert.Equal(t, OpLogEntry{Type: "4", Status: "14", Date: "2024-01-15 08:30:00", Pin: "0", Value1: "0", Value2: "0", Value3: "0"}, op)
		assert.Equal(t, TagOpLog, op.Tag())
	})

	t.Run("Short OPLOG", func(t *testing.T) {
		_, err := DecodeOperationLine("OPLOG 4\t14")
		assert.ErrorIs(t, err, ErrMalformedRecord)
	})

	t.Run("USER", func(t *testing.T) {
		op, err := DecodeOperationLine("USER PIN=45\tName=Alice\tPri=0\tPasswd=\tCard=\tGrp=1\tTZ=1\tVerify=1\tViceCard=")
		require.NoError(t, err)
		assert.Equal(t, UserEntry{Pin: 45, Name: "Alice", Primary: "0", Group: "1", Timezone: "1", Verify: "1"}, op)
	})

	t.Run("USER name with spaces, last key wins", func(t *testing.T) {
		op, err := DecodeOperationLine("USER PIN=45\tName=Alice Smith\tName=Alice B. Smith")
		require.NoError(t, err)
		assert.Equal(t, "Alice B. Smith", op.(UserEntry).Name)
	})

	t.Run("USER without PIN", func(t *testing.T) {
		_, err := DecodeOperationLine("USER Name=Alice")
		assert.ErrorIs(t, err, ErrMalformedRecord)
	})

	t.Run("USER field without separator", func(t *testing.T) {
		_, err := DecodeOperationLine("USER PIN=1\tgarbage")
		assert.ErrorIs(t, err, ErrMalformedRecord)
	})

	t.Run("FP template keeps equals signs", func(t *testing.T) {
		op, err := DecodeOperationLine("FP PIN=45\tFID=6\tSize=8\tValid=1\tTMP=TWlTUzIxAAAD==")
		require.NoError(t, err)
		assert.Equal(t, FingerprintEntry{Pin: 45, Fid: 6, Size: 8, Valid: "1", Template: "TWlTUzIxAAAD=="}, op)
	})

	t.Run("FP non numeric size", func(t *testing.T) {
		_, err := DecodeOperationLine("FP PIN=45\tFID=6\tSize=big\tValid=1\tTMP=x")
		assert.ErrorIs(t, err, ErrMalformedRecord)
	})

	t.Run("Unknown tag passes through", func(t *testing.T) {
		op, err := DecodeOperationLine("USERPIC PIN=45\tSize=10")
		require.NoError(t, err)
		assert.Equal(t, OpaqueEntry{Name: "USERPIC", Fields: []string{"PIN=45", "Size=10"}}, op)
		assert.Equal(t, "USERPIC", op.Tag())
	})
}

func TestDecodePushOtherTable(t *testing.T) {
	push := DecodePush("ATTPHOTO", []byte("PIN=1\nSN=2\n"))
	assert.Equal(t, []string{"PIN=1", "SN=2"}, push.Lines)
	assert.Empty(t, push.Attendance)
	assert.Empty(t, push.Operations)
	assert.Empty(t, push.Errors)
}

func TestHandshakeResponse(t *testing.T) {
	now := time.Unix(1705300000, 0)
	res := HandshakeResponse("SN001", 7, now)
	lines := strings.Split(res, "\r\n")
	require.Len(t, lines, 13)
	assert.Equal(t, "GET OPTION FROM: SN001", lines[0])
	assert.Equal(t, "STAMP=9999", lines[1])
	assert.Equal(t, "ATTLOGSTAMP=1705300000", lines[2])
	assert.Equal(t, "OPERLOGStamp=1705300000", lines[3])
	assert.Equal(t, "ATTPHOTOStamp=1705300000", lines[4])
	assert.Equal(t, "TransFlag="+TransFlag, lines[9])
	assert.Equal(t, "TimeZone=7", lines[10])
	assert.Equal(t, "Encrypt=None", lines[12])
}
