package discovery

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/enbility/zeroconf/v3"
)

// BrowserConfig configures gateway browsing.
type BrowserConfig struct {
	// Interface selects a single network interface by name.
	// Empty means all interfaces.
	Interface string

	// Timeout bounds one-shot lookups (default: 10s).
	Timeout time.Duration
}

// Browser discovers gateways via mDNS.
type Browser struct {
	config BrowserConfig
}

// NewBrowser creates a gateway browser.
func NewBrowser(config BrowserConfig) *Browser {
	if config.Timeout <= 0 {
		config.Timeout = BrowseTimeout
	}
	return &Browser{config: config}
}

// Browse streams discovered gateways until ctx is cancelled. Entries
// from multiple interfaces are aggregated by instance name so each
// gateway is emitted once, with merged addresses.
func (b *Browser) Browse(ctx context.Context) (<-chan *GatewayService, error) {
	out := make(chan *GatewayService)

	entries := make(chan *zeroconf.ServiceEntry)
	removed := make(chan *zeroconf.ServiceEntry)
	opts := b.options()

	go func() {
		defer close(out)

		services := make(map[string]*GatewayService)

		for {
			select {
			case entry, ok := <-entries:
				if !ok {
					return
				}
				svc := entryToGateway(entry)
				if svc == nil {
					continue
				}

				if existing, found := services[svc.InstanceName]; found {
					existing.Addresses = mergeAddresses(existing.Addresses, svc.Addresses)
					continue
				}
				services[svc.InstanceName] = svc
				select {
				case out <- svc:
				case <-ctx.Done():
					return
				}

			case entry, ok := <-removed:
				if !ok {
					continue
				}
				delete(services, entry.Instance)

			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		_ = zeroconf.Browse(ctx, ServiceType, Domain, entries, removed, opts...)
	}()

	return out, nil
}

// FindFirst returns the first gateway found within the configured
// timeout.
func (b *Browser) FindFirst(ctx context.Context) (*GatewayService, error) {
	ctx, cancel := context.WithTimeout(ctx, b.config.Timeout)
	defer cancel()

	found, err := b.Browse(ctx)
	if err != nil {
		return nil, err
	}

	select {
	case svc, ok := <-found:
		if !ok {
			return nil, fmt.Errorf("no gateway found")
		}
		return svc, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("no gateway found: %w", ctx.Err())
	}
}

func (b *Browser) options() []zeroconf.ClientOption {
	var opts []zeroconf.ClientOption
	if b.config.Interface != "" {
		iface, err := net.InterfaceByName(b.config.Interface)
		if err == nil {
			opts = append(opts, zeroconf.SelectIfaces([]net.Interface{*iface}))
		}
	}
	return opts
}

// entryToGateway converts a zeroconf entry. Returns nil for entries
// that cannot describe a gateway.
func entryToGateway(entry *zeroconf.ServiceEntry) *GatewayService {
	addrs := make([]string, 0, len(entry.AddrIPv4)+len(entry.AddrIPv6))
	for _, ip := range entry.AddrIPv4 {
		addrs = append(addrs, ip.String())
	}
	for _, ip := range entry.AddrIPv6 {
		addrs = append(addrs, ip.String())
	}

	return NewGatewayService(entry.Instance, entry.HostName, entry.Port, entry.Text, addrs)
}

// mergeAddresses appends addresses not already present.
func mergeAddresses(existing, incoming []string) []string {
	seen := make(map[string]struct{}, len(existing))
	for _, a := range existing {
		seen[a] = struct{}{}
	}
	for _, a := range incoming {
		if _, ok := seen[a]; !ok {
			existing = append(existing, a)
		}
	}
	return existing
}
