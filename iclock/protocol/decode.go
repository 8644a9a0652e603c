package protocol

import (
	"strconv"
	"strings"
)

// Table names carried in the `table` query parameter of a push.
const (
	TableAttendance = "ATTLOG"
	TableOperation  = "OPERLOG"
)

// Operation tags found at the start of OPERLOG lines.
const (
	TagOpLog       = "OPLOG"
	TagUser        = "USER"
	TagFingerprint = "FP"
)

const (
	attendanceFields = 7
	opLogFields      = 7
)

type AttendanceEntry struct {
	// Line is the 1-based position of the entry in its push body.
	Line      int
	Pin       int
	Date      string
	Status    string
	Verify    string
	WorkCode  string
	Reserved1 string
	Reserved2 string
}

// Operation is one decoded OPERLOG line: an OpLogEntry, UserEntry,
// FingerprintEntry or OpaqueEntry.
type Operation interface {
	Tag() string
}

type OpLogEntry struct {
	Type   string
	Status string
	Date   string
	Pin    string
	Value1 string
	Value2 string
	Value3 string
}

type UserEntry struct {
	Pin      int
	Name     string
	Primary  string
	Password string
	Card     string
	Group    string
	Timezone string
	Verify   string
	ViceCard string
}

type FingerprintEntry struct {
	Pin      int
	Fid      int
	Size     int
	Valid    string
	Template string
}

// OpaqueEntry holds an operation tag the gateway does not interpret.
type OpaqueEntry struct {
	Name   string
	Fields []string
}

func (OpLogEntry) Tag() string       { return TagOpLog }
func (UserEntry) Tag() string        { return TagUser }
func (FingerprintEntry) Tag() string { return TagFingerprint }
func (e OpaqueEntry) Tag() string    { return e.Name }

// Push is a decoded push body.
type Push struct {
	Table      string
	Lines      []string
	Attendance []AttendanceEntry
	Operations []Operation
	Errors     []*RecordError
}

// SplitBody trims the body and splits it into lines. An empty body has no lines.
func SplitBody(body []byte) []string {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// DecodePush decodes a push body according to its table. Tables other than
// ATTLOG and OPERLOG are returned as raw lines only.
func DecodePush(table string, body []byte) *Push {
	push := &Push{Table: table, Lines: SplitBody(body)}
	switch table {
	case TableAttendance:
		push.Attendance, push.Errors = DecodeAttendance(push.Lines)
	case TableOperation:
		push.Operations, push.Errors = DecodeOperations(push.Lines)
	}
	return push
}

func DecodeAttendance(lines []string) ([]AttendanceEntry, []*RecordError) {
	var entries []AttendanceEntry
	var errs []*RecordError
	for i, line := range lines {
		entry, err := DecodeAttendanceLine(line)
		if err != nil {
			errs = append(errs, &RecordError{Line: i + 1, Text: line, Err: err})
			continue
		}
		entry.Line = i + 1
		entries = append(entries, entry)
	}
	return entries, errs
}

func DecodeAttendanceLine(line string) (AttendanceEntry, error) {
	v := strings.Split(line, "\t")
	if len(v) < attendanceFields {
		return AttendanceEntry{}, malformed("ATTLOG expects %d fields, got %d", attendanceFields, len(v))
	}
	pin, err := parseInt("PIN", v[0])
	if err != nil {
		return AttendanceEntry{}, err
	}
	return AttendanceEntry{
		Pin:       pin,
		Date:      v[1],
		Status:    v[2],
		Verify:    v[3],
		WorkCode:  v[4],
		Reserved1: v[5],
		Reserved2: v[6],
	}, nil
}

func DecodeOperations(lines []string) ([]Operation, []*RecordError) {
	var ops []Operation
	var errs []*RecordError
	for i, line := range lines {
		op, err := DecodeOperationLine(line)
		if err != nil {
			errs = append(errs, &RecordError{Line: i + 1, Text: line, Err: err})
			continue
		}
		ops = append(ops, op)
	}
	return ops, errs
}

func DecodeOperationLine(line string) (Operation, error) {
	tag, rest, _ := strings.Cut(line, " ")
	fields := strings.Split(rest, "\t")

	switch tag {
	case TagOpLog:
		if len(fields) < opLogFields {
			return nil, malformed("OPLOG expects %d fields, got %d", opLogFields, len(fields))
		}
		return OpLogEntry{
			Type:   fields[0],
			Status: fields[1],
			Date:   fields[2],
			Pin:    fields[3],
			Value1: fields[4],
			Value2: fields[5],
			Value3: fields[6],
		}, nil
	case TagUser:
		kv, err := parsePairs(fields)
		if err != nil {
			return nil, err
		}
		return decodeUser(kv)
	case TagFingerprint:
		kv, err := parsePairs(fields)
		if err != nil {
			return nil, err
		}
		return decodeFingerprint(kv)
	default:
		return OpaqueEntry{Name: tag, Fields: fields}, nil
	}
}

// parsePairs splits KEY=VALUE fields on the first '=' only. Later keys win.
func parsePairs(fields []string) (map[string]string, error) {
	kv := make(map[string]string, len(fields))
	for _, field := range fields {
		if field == "" {
			continue
		}
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			return nil, malformed("field %q is not KEY=VALUE", field)
		}
		kv[key] = value
	}
	return kv, nil
}

func decodeUser(kv map[string]string) (UserEntry, error) {
	pin, err := requireInt(kv, "PIN")
	if err != nil {
		return UserEntry{}, err
	}
	return UserEntry{
		Pin:      pin,
		Name:     kv["Name"],
		Primary:  kv["Pri"],
		Password: kv["Passwd"],
		Card:     kv["Card"],
		Group:    kv["Grp"],
		Timezone: kv["TZ"],
		Verify:   kv["Verify"],
		ViceCard: kv["ViceCard"],
	}, nil
}

func decodeFingerprint(kv map[string]string) (FingerprintEntry, error) {
	pin, err := requireInt(kv, "PIN")
	if err != nil {
		return FingerprintEntry{}, err
	}
	fid, err := requireInt(kv, "FID")
	if err != nil {
		return FingerprintEntry{}, err
	}
	size, err := requireInt(kv, "Size")
	if err != nil {
		return FingerprintEntry{}, err
	}
	return FingerprintEntry{
		Pin:      pin,
		Fid:      fid,
		Size:     size,
		Valid:    kv["Valid"],
		Template: kv["TMP"],
	}, nil
}

func requireInt(kv map[string]string, key string) (int, error) {
	value, ok := kv[key]
	if !ok {
		return 0, malformed("missing %s", key)
	}
	return parseInt(key, value)
}

func parseInt(name, value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, malformed("%s %q is not numeric", name, value)
	}
	return n, nil
}
