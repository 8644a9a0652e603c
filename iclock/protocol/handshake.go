package protocol

import (
	"fmt"
	"strings"
	"time"
)

// TransFlag lists the data kinds the terminal is asked to upload.
const TransFlag = "TransData AttLog\tOpLog\tEnrollUser\tChgUser\tEnrollFP\tChgFP\tFPImag"

// HandshakeOptions builds the option lines returned to a terminal on
// handshake. Stamps are the current epoch seconds.
func HandshakeOptions(serialNumber string, timezone int, now time.Time) []string {
	stamp := now.Unix()
	return []string{
		fmt.Sprintf("GET OPTION FROM: %s", serialNumber),
		"STAMP=9999",
		fmt.Sprintf("ATTLOGSTAMP=%d", stamp),
		fmt.Sprintf("OPERLOGStamp=%d", stamp),
		fmt.Sprintf("ATTPHOTOStamp=%d", stamp),
		"ErrorDelay=30",
		"Delay=10",
		"TransTimes=00:00;23:59",
		"TransInterval=1",
		"TransFlag=" + TransFlag,
		fmt.Sprintf("TimeZone=%d", timezone),
		"Realtime=1",
		"Encrypt=None",
	}
}

// HandshakeResponse joins the option lines with CRLF.
func HandshakeResponse(serialNumber string, timezone int, now time.Time) string {
	return strings.Join(HandshakeOptions(serialNumber, timezone, now), "\r\n")
}
