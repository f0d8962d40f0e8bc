package sysinfo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	gnet "github.com/shirou/gopsutil/v3/net"
)

// ErrNoCounters is returned when byte counters for an interface cannot be read.
var ErrNoCounters = errors.New("interface counters unavailable")

// Provider abstracts the OS metric sources so the cycle logic can be
// unit-tested against fixed fixtures.
type Provider interface {
	// IdlePercent samples CPU idle time as a percentage in [0, 100].
	IdlePercent(ctx context.Context) (float64, error)
	// MemoryMB returns used and total physical memory in megabytes.
	MemoryMB(ctx context.Context) (used, total uint64, err error)
	// InterfaceCounters returns cumulative received/transmitted bytes
	// for the named interface, verbatim from the OS.
	InterfaceCounters(ctx context.Context, iface string) (in, out uint64, err error)
}

// OSProvider reads metrics from the running host via gopsutil.
type OSProvider struct {
	// SampleInterval is the CPU sampling window. Zero means one second.
	SampleInterval time.Duration
}

// NewOSProvider creates a provider with a one-second CPU sampling window.
func NewOSProvider() *OSProvider {
	return &OSProvider{SampleInterval: time.Second}
}

// IdlePercent implements Provider.
func (p *OSProvider) IdlePercent(ctx context.Context) (float64, error) {
	interval := p.SampleInterval
	if interval <= 0 {
		interval = time.Second
	}
	busy, err := cpu.PercentWithContext(ctx, interval, false)
	if err != nil {
		return 0, err
	}
	if len(busy) == 0 {
		return 0, errors.New("no cpu sample")
	}
	idle := 100.0 - busy[0]
	if idle < 0 {
		idle = 0
	}
	if idle > 100 {
		idle = 100
	}
	return idle, nil
}

// MemoryMB implements Provider.
func (p *OSProvider) MemoryMB(ctx context.Context) (uint64, uint64, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, 0, err
	}
	const mb = 1024 * 1024
	return vm.Used / mb, vm.Total / mb, nil
}

// InterfaceCounters implements Provider.
func (p *OSProvider) InterfaceCounters(ctx context.Context, iface string) (uint64, uint64, error) {
	stats, err := gnet.IOCountersWithContext(ctx, true)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrNoCounters, err)
	}
	for _, s := range stats {
		if s.Name == iface {
			return s.BytesRecv, s.BytesSent, nil
		}
	}
	return 0, 0, fmt.Errorf("%w: no such interface %q", ErrNoCounters, iface)
}
