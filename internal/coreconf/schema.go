package coreconf

import "gopkg.in/yaml.v3"

// CoreSchema is the typed view of the recognized top-level keys. Fields are
// pointers so an absent key stays distinguishable from a zero value.
type CoreSchema struct {
	MixedPort          *uint16    `yaml:"mixed-port,omitempty"`
	AllowLan           *bool      `yaml:"allow-lan,omitempty"`
	LogLevel           *string    `yaml:"log-level,omitempty"`
	IPv6               *bool      `yaml:"ipv6,omitempty"`
	Mode               *string    `yaml:"mode,omitempty"`
	ExternalController *string    `yaml:"external-controller,omitempty"`
	Secret             *string    `yaml:"secret,omitempty"`
	UnifiedDelay       *bool      `yaml:"unified-delay,omitempty"`
	TCPConcurrent      *bool      `yaml:"tcp-concurrent,omitempty"`
	DNS                *DNSSchema `yaml:"dns,omitempty"`
	TUN                *TUNSchema `yaml:"tun,omitempty"`
	InterfaceName      *string    `yaml:"interface-name,omitempty"`
}

type TUNSchema struct {
	Enable              *bool    `yaml:"enable,omitempty"`
	Stack               *string  `yaml:"stack,omitempty"`
	AutoRoute           *bool    `yaml:"auto-route,omitempty"`
	AutoDetectInterface *bool    `yaml:"auto-detect-interface,omitempty"`
	DNSHijack           []string `yaml:"dns-hijack,omitempty"`
}

type DNSSchema struct {
	Enable            *bool           `yaml:"enable,omitempty"`
	Listen            *string         `yaml:"listen,omitempty"`
	DefaultNameserver []string        `yaml:"default-nameserver,omitempty"`
	EnhancedMode      *string         `yaml:"enhanced-mode,omitempty"`
	FakeIPRange       *string         `yaml:"fake-ip-range,omitempty"`
	UseHosts          *bool           `yaml:"use-hosts,omitempty"`
	FakeIPFilter      []string        `yaml:"fake-ip-filter,omitempty"`
	Nameserver        []string        `yaml:"nameserver,omitempty"`
	Fallback          []string        `yaml:"fallback,omitempty"`
	FallbackFilter    *FallbackFilter `yaml:"fallback-filter,omitempty"`
	NameserverPolicy  []string        `yaml:"nameserver-policy,omitempty"`
}

type FallbackFilter struct {
	GeoIP     *bool    `yaml:"geoip,omitempty"`
	GeoIPCode *string  `yaml:"geoip-code,omitempty"`
	IPCIDR    []string `yaml:"ipcidr,omitempty"`
	Domain    []string `yaml:"domain,omitempty"`
}

// Schema decodes the document into the typed view. Keys outside the schema
// are ignored here; they still round-trip through the document itself.
func (c *CoreConfig) Schema() (CoreSchema, error) {
	var s CoreSchema
	raw, err := c.doc.MarshalYAML()
	if err != nil {
		return s, err
	}
	node, ok := raw.(*yaml.Node)
	if !ok {
		return s, nil
	}
	if err := node.Decode(&s); err != nil {
		return s, err
	}
	return s, nil
}
