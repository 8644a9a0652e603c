// Package device serves the ADMS/iClock endpoints the terminals call.
// Responses are terse plain text; the caller is firmware.
package device

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"axiapac.com/adms/iclock/core"
	"axiapac.com/adms/iclock/model"
	"axiapac.com/adms/iclock/protocol"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const archiveTimeout = 30 * time.Second

// Archiver keeps a copy of raw push bodies.
type Archiver interface {
	ArchivePush(ctx context.Context, serialNumber, table string, body []byte) (string, error)
}

type Options struct {
	Registry *core.Registry
	Pipeline *core.Pipeline
	// Archiver is optional.
	Archiver Archiver
	Log      *zap.Logger
}

type Endpoint struct {
	registry *core.Registry
	pipeline *core.Pipeline
	archiver Archiver
	now      func() time.Time
	log      *zap.Logger
}

func Register(r gin.IRouter, opts Options) *Endpoint {
	endpoint := &Endpoint{
		registry: opts.Registry,
		pipeline: opts.Pipeline,
		archiver: opts.Archiver,
		now:      time.Now,
		log:      opts.Log,
	}
	r.GET("/iclock/cdata", endpoint.Handshake)
	r.POST("/iclock/cdata", endpoint.Push)
	r.GET("/iclock/getrequest", endpoint.Poll)
	r.POST("/iclock/devicecmd", endpoint.DeviceCmd)
	return endpoint
}

// Handshake registers the terminal and returns its options.
func (ep *Endpoint) Handshake(c *gin.Context) {
	sn := c.Query("SN")
	machine, _, err := ep.registry.ResolveOrRegister(c.Request.Context(), sn)
	if errors.Is(err, protocol.ErrMissingSerialNumber) {
		c.String(http.StatusBadRequest, "ERROR: %v", err)
		return
	}
	if err != nil {
		ep.log.Error("handshake failed", zap.String("sn", sn), zap.Error(err))
		c.String(http.StatusInternalServerError, "ERROR: %v", err)
		return
	}

	ep.log.Debug("handshake", zap.String("sn", sn), zap.Int("timezone", machine.Timezone))
	c.String(http.StatusOK, protocol.HandshakeResponse(sn, machine.Timezone, ep.now()))
}

// Push records a heartbeat, then ingests the body according to its table.
// A failed heartbeat does not stop ingestion; records are then stored
// without a machine.
func (ep *Endpoint) Push(c *gin.Context) {
	sn := c.Query("SN")
	table := c.Query("table")

	body, err := c.GetRawData()
	if err != nil {
		c.String(http.StatusBadRequest, "ERROR: reading body")
		return
	}
	ep.archive(sn, table, body)

	machine := ep.heartbeat(c.Request.Context(), sn)

	push := protocol.DecodePush(table, body)
	outcome, err := ep.pipeline.Ingest(c.Request.Context(), machine, push)
	if err != nil {
		ep.log.Error("push ingestion failed",
			zap.String("sn", sn),
			zap.String("table", table),
			zap.Int("lines", len(push.Lines)),
			zap.Error(err))
		c.String(http.StatusInternalServerError, "ERROR: %v", err)
		return
	}

	ep.log.Info("push",
		zap.String("sn", sn),
		zap.String("table", table),
		zap.Int("lines", outcome.Lines),
		zap.Int("stored", outcome.Stored),
		zap.Int("skipped", len(outcome.Errors)))
	c.String(http.StatusOK, "OK: %d", outcome.Lines)
}

// Poll is the terminal's command poll. No commands are ever queued.
func (ep *Endpoint) Poll(c *gin.Context) {
	ep.heartbeat(c.Request.Context(), c.Query("SN"))
	c.String(http.StatusOK, "OK")
}

// DeviceCmd acknowledges command results.
func (ep *Endpoint) DeviceCmd(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		ep.log.Warn("device command body unreadable",
			zap.String("query", c.Request.URL.RawQuery),
			zap.Error(err))
		c.String(http.StatusBadRequest, "ERROR: reading body")
		return
	}
	ep.log.Info("device command",
		zap.String("query", c.Request.URL.RawQuery),
		zap.ByteString("body", body))
	c.String(http.StatusOK, "OK")
}

func (ep *Endpoint) heartbeat(ctx context.Context, sn string) *model.Machine {
	machine, _, err := ep.registry.ResolveOrRegister(ctx, sn)
	if err != nil {
		ep.log.Warn("heartbeat failed", zap.String("sn", sn), zap.Error(err))
		return nil
	}
	return machine
}

func (ep *Endpoint) archive(sn, table string, body []byte) {
	if ep.archiver == nil || len(body) == 0 {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
		defer cancel()
		key, err := ep.archiver.ArchivePush(ctx, archiveName(sn), archiveName(table), body)
		if err != nil {
			ep.log.Warn("archive push failed", zap.String("sn", sn), zap.Error(err))
			return
		}
		ep.log.Debug("archived push", zap.String("key", key))
	}()
}

// archiveName keeps query values usable as a single key segment.
func archiveName(s string) string {
	if s == "" {
		return "unknown"
	}
	return strings.ReplaceAll(s, "/", "_")
}
