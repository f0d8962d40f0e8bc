package sysinfo

import (
	"errors"
	"fmt"
	"net"
)

// ErrNoIdentity is returned when the primary address or interface
// cannot be determined.
var ErrNoIdentity = errors.New("network identity unavailable")

// routeProbeAddr is only dialed, never written to; a UDP dial does no I/O
// and just asks the kernel which source address the default route would use.
const routeProbeAddr = "8.8.8.8:80"

// Identity resolves the primary non-loopback IPv4 address and the name of
// the interface that owns it (the default-route interface).
func Identity() (ip string, iface string, err error) {
	conn, err := net.Dial("udp4", routeProbeAddr)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrNoIdentity, err)
	}
	defer conn.Close()

	local, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok || local.IP == nil || local.IP.IsLoopback() {
		return "", "", ErrNoIdentity
	}

	name, err := interfaceFor(local.IP)
	if err != nil {
		return "", "", err
	}
	return local.IP.String(), name, nil
}

func interfaceFor(ip net.IP) (string, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoIdentity, err)
	}
	for _, ifc := range ifaces {
		addrs, err := ifc.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			ipNet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			if ipNet.IP.Equal(ip) {
				return ifc.Name, nil
			}
		}
	}
	return "", ErrNoIdentity
}
