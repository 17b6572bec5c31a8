package dmx

import (
	"fmt"
	"net"

	"github.com/nerrad567/stagelight-core/internal/infrastructure/config"
)

// resolveBroadcastAddress determines the destination IP for ArtDMX packets.
//
// Resolution order:
//  1. An explicitly configured broadcast/unicast address
//  2. The broadcast address of the named network interface
//  3. The limited broadcast address 255.255.255.255
func resolveBroadcastAddress(cfg config.ArtNetConfig) (net.IP, error) {
	if cfg.BroadcastAddress != "" {
		ip := net.ParseIP(cfg.BroadcastAddress)
		if ip == nil {
			return nil, fmt.Errorf("%w: cannot parse %q", ErrNoBroadcastAddress, cfg.BroadcastAddress)
		}
		return ip, nil
	}

	if cfg.Interface != "" {
		if ip, err := interfaceBroadcast(cfg.Interface); err == nil {
			return ip, nil
		}
		// Fall through to the limited broadcast; a misnamed interface
		// should not keep the rig dark.
	}

	return net.IPv4bcast, nil
}

// interfaceBroadcast computes the IPv4 directed broadcast address of the
// named interface's first IPv4 network.
func interfaceBroadcast(name string) (net.IP, error) {
	iface, err := net.InterfaceByName(name)
	if err != nil {
		return nil, fmt.Errorf("looking up interface %q: %w", name, err)
	}

	addrs, err := iface.Addrs()
	if err != nil {
		return nil, fmt.Errorf("listing addresses for %q: %w", name, err)
	}

	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok {
			continue
		}
		ip4 := ipNet.IP.To4()
		if ip4 == nil {
			continue
		}

		mask := ipNet.Mask
		if len(mask) == net.IPv6len {
			mask = mask[12:]
		}

		bcast := make(net.IP, net.IPv4len)
		for i := range bcast {
			bcast[i] = ip4[i] | ^mask[i]
		}
		return bcast, nil
	}

	return nil, fmt.Errorf("%w: interface %q has no IPv4 address", ErrNoBroadcastAddress, name)
}
