package discovery

import (
	"fmt"
	"strings"
	"time"
)

// mDNS service parameters for gateway discovery.
const (
	// ServiceType is the DNS-SD service type gateways advertise.
	ServiceType = "_openclaw-gw._tcp"

	// Domain is the browse domain.
	Domain = "local."

	// DefaultPort is the gateway WebSocket port used when the
	// advertisement carries none.
	DefaultPort = 18789

	// BrowseTimeout is the default timeout for one-shot lookups.
	BrowseTimeout = 10 * time.Second
)

// TXT record keys.
const (
	// TXTKeyPath is the WebSocket path on the advertised host.
	TXTKeyPath = "path"

	// TXTKeyName is the human-readable gateway name.
	TXTKeyName = "name"
)

// GatewayService is one discovered gateway endpoint.
type GatewayService struct {
	// InstanceName is the mDNS instance name.
	InstanceName string

	// Name is the advertised human-readable name, if any.
	Name string

	// Host is the advertised hostname (usually ending in ".local.").
	Host string

	// Port is the WebSocket port.
	Port int

	// Path is the advertised WebSocket path ("/" when absent).
	Path string

	// Addresses are the resolved IP addresses, IPv4 first.
	Addresses []string
}

// URL returns the WebSocket URL for this gateway, preferring a resolved
// address over the mDNS hostname.
func (s *GatewayService) URL() string {
	host := strings.TrimSuffix(s.Host, ".")
	if len(s.Addresses) > 0 {
		host = s.Addresses[0]
		if strings.Contains(host, ":") {
			// Bracket IPv6 literals.
			host = "[" + host + "]"
		}
	}

	port := s.Port
	if port == 0 {
		port = DefaultPort
	}

	path := s.Path
	if path == "" {
		path = "/"
	} else if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return fmt.Sprintf("ws://%s:%d%s", host, port, path)
}

// NewGatewayService builds a GatewayService from raw DNS-SD entry data.
// Returns nil when the entry cannot describe a gateway.
func NewGatewayService(instance, host string, port int, txt, addrs []string) *GatewayService {
	if instance == "" {
		return nil
	}

	m := ParseTXT(txt)
	return &GatewayService{
		InstanceName: instance,
		Name:         m[TXTKeyName],
		Host:         host,
		Port:         port,
		Path:         m[TXTKeyPath],
		Addresses:    addrs,
	}
}

// ParseTXT converts DNS-SD TXT strings into a key/value map. Strings
// without "=" map to an empty value.
func ParseTXT(txt []string) map[string]string {
	m := make(map[string]string, len(txt))
	for _, s := range txt {
		if s == "" {
			continue
		}
		key, value, _ := strings.Cut(s, "=")
		m[key] = value
	}
	return m
}
