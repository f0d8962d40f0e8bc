package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"hostwatch/internal/api"
	"hostwatch/internal/config"
	"hostwatch/internal/history"
	"hostwatch/internal/probe"
	"hostwatch/internal/report"
	"hostwatch/internal/stunutil"
	"hostwatch/internal/sysinfo"
)

// ErrTransmit is returned when the health report cannot be delivered or
// the controller answers with anything but 200.
var ErrTransmit = errors.New("report transmission failed")

// IdentityFunc resolves the primary IPv4 address and default-route
// interface name.
type IdentityFunc func() (ip string, iface string, err error)

// Cycle executes one end-to-end health-check cycle. The repository and
// metric provider are injected so the loop is testable without touching
// the real host.
type Cycle struct {
	Repo     config.Repository
	Provider sysinfo.Provider
	Identity IdentityFunc
	Log      zerolog.Logger
}

// Run performs the cycle: load config, gather telemetry, probe the
// target, report to the controller, and act on the directive. Only the
// fatal steps (config, identity, counters, transmission) surface errors;
// everything else degrades to defaults and keeps going.
func (c *Cycle) Run(ctx context.Context) error {
	stored, err := c.Repo.Load()
	if err != nil {
		return err
	}
	// Environment values override the effective config but are never
	// written back to the record on mutation.
	rec := stored
	config.ApplyEnv(&rec)
	if err := config.Validate(rec); err != nil {
		return err
	}

	timeout := time.Duration(rec.TimeoutSec) * time.Second
	hostname := rec.Hostname()
	c.Log.Info().
		Str("controller", rec.ControllerAddress).
		Int("port", rec.ControllerPort).
		Str("target_url", rec.TargetURL).
		Str("hostname", hostname).
		Bool("initiate_attack", rec.InitiateAttack).
		Msg("config loaded")

	resolve := c.Identity
	if resolve == nil {
		resolve = sysinfo.Identity
	}
	ip, iface, err := resolve()
	if err != nil {
		return err
	}
	c.Log.Info().Str("ip", ip).Str("interface", iface).Msg("network identity resolved")

	idle, err := c.Provider.IdlePercent(ctx)
	if err != nil {
		// A failed CPU sample reads as zero idle, not a dead cycle.
		c.Log.Warn().Err(err).Msg("cpu sample failed, assuming 0.0 idle")
		idle = 0
	}
	util := report.UtilizationFromIdle(idle)
	c.Log.Info().Float64("idle_pct", idle).Float64("utilization_pct", util).Msg("cpu sampled")

	memUsed, memTotal, err := c.Provider.MemoryMB(ctx)
	if err != nil {
		c.Log.Warn().Err(err).Msg("memory sample failed, reporting 0")
		memUsed, memTotal = 0, 0
	}
	c.Log.Info().Uint64("used_mb", memUsed).Uint64("total_mb", memTotal).Msg("memory sampled")

	bytesIn, bytesOut, err := c.Provider.InterfaceCounters(ctx, iface)
	if err != nil {
		return err
	}
	c.Log.Info().Uint64("bytes_in", bytesIn).Uint64("bytes_out", bytesOut).Msg("network counters sampled")

	var publicAddr string
	if len(rec.STUNServers) > 0 {
		addr, natType, err := stunutil.Discover(ctx, rec.STUNServers, timeout)
		if err != nil {
			c.Log.Warn().Err(err).Msg("public address discovery failed")
		} else {
			publicAddr = addr
			c.Log.Info().Str("public_addr", addr).Str("nat_type", natType).Msg("public address discovered")
		}
	}

	reachable := probe.Reachable(ctx, rec.TargetURL, timeout)
	c.Log.Info().Str("target_url", rec.TargetURL).Bool("reachable", reachable).Msg("reachability probed")

	h := report.Health{
		IP:               ip,
		Hostname:         hostname,
		CPUUtilization:   report.FormatPercent(util),
		MemoryUsedMB:     report.FormatCount(memUsed),
		MemoryTotalMB:    report.FormatCount(memTotal),
		NetworkBytesIn:   report.FormatCount(bytesIn),
		NetworkBytesOut:  report.FormatCount(bytesOut),
		RemoteConnection: reachable,
		PublicAddr:       publicAddr,
	}

	client := api.NewClient(rec.ControllerAddress, rec.ControllerPort, rec.AuthToken, timeout)
	directive, body, err := client.ReportHealth(ctx, h)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransmit, err)
	}
	c.Log.Info().Str("controller", client.BaseURL()).Str("response", body).
		Bool("initiate_incident", directive.InitiateIncident).Msg("report delivered")

	if directive.InitiateIncident {
		c.markIncident(ctx, stored, client)
	}

	if rec.HistoryPath != "" {
		sample := report.Sample{
			Timestamp:      time.Now().UTC(),
			IP:             ip,
			Hostname:       hostname,
			CPUUtilization: util,
			MemoryUsedMB:   memUsed,
			MemoryTotalMB:  memTotal,
			BytesIn:        bytesIn,
			BytesOut:       bytesOut,
			Reachable:      reachable,
			Incident:       directive.InitiateIncident,
		}
		if err := history.AppendCSV(rec.HistoryPath, []report.Sample{sample}); err != nil {
			c.Log.Warn().Err(err).Msg("append history failed")
		}
	}

	c.Log.Info().Msg("cycle complete")
	return nil
}

// markIncident flips the persisted flag (idempotently) and acknowledges
// back to the controller. Neither failure aborts the cycle: the flag
// write commits locally before the ack, and a lost ack stands.
func (c *Cycle) markIncident(ctx context.Context, rec config.Record, client *api.Client) {
	if rec.InitiateAttack {
		c.Log.Info().Msg("initiate_attack already set, leaving record untouched")
	} else {
		rec.InitiateAttack = true
		if err := c.Repo.Save(rec); err != nil {
			c.Log.Error().Err(err).Msg("persist initiate_attack failed")
		} else {
			c.Log.Info().Msg("initiate_attack persisted")
		}
	}

	if err := client.NotifyIncident(ctx); err != nil {
		c.Log.Warn().Err(err).Msg("incident acknowledgment failed")
	} else {
		c.Log.Info().Msg("incident acknowledged")
	}
}
