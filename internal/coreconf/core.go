// Package coreconf owns the runtime configuration document of the proxy core
// and guarantees that the inbound mixed port and the external controller
// address are always present and well-formed, no matter what state the
// on-disk document is in.
package coreconf

import (
	"fmt"
	"log"
	"net/netip"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

const (
	defaultMixedPort          = 7890
	defaultExternalController = "127.0.0.1:9090"

	// configHeader is written as the leading comment of the saved document.
	configHeader = "# Generated by clashkit"
)

// Storage reads and writes the config document. The guard never knows the
// storage medium.
type Storage interface {
	ConfigPath() (string, error)
	ReadMapping(path string) (*Mapping, error)
	WriteMapping(path string, m *Mapping, header string) error
}

// Settings supplies the user-level decision of how to treat a controller
// port that is already taken. The strategy token is opaque to this package.
type Settings interface {
	ControllerPortStrategy() string
	ResolvePort(strategy string, requested uint16) (uint16, error)
}

// ControllerInfo is the derived read-only view consumed by controller
// clients. It is computed on demand and never persisted.
type ControllerInfo struct {
	Port   uint16  `yaml:"port" json:"port"`
	Server string  `yaml:"server" json:"server"`
	Secret *string `yaml:"secret" json:"secret"`
}

// CoreConfig wraps the config document. All mutation goes through Patch;
// callers share a single writer at a time (no internal locking).
type CoreConfig struct {
	doc      *Mapping
	storage  Storage
	settings Settings
}

// New loads the document through storage and guards it. Load failures are
// logged and fall back to the built-in template, so construction never
// fails outward.
func New(storage Storage, settings Settings) *CoreConfig {
	doc, err := loadDocument(storage)
	if err != nil {
		log.Printf("load core config: %v (falling back to template)", err)
		doc = Template()
	} else {
		doc = Guard(doc)
	}
	return &CoreConfig{doc: doc, storage: storage, settings: settings}
}

// NewFromMapping wraps an existing document, guarding it first.
func NewFromMapping(doc *Mapping, storage Storage, settings Settings) *CoreConfig {
	return &CoreConfig{doc: Guard(doc), storage: storage, settings: settings}
}

func loadDocument(storage Storage) (*Mapping, error) {
	path, err := storage.ConfigPath()
	if err != nil {
		return nil, err
	}
	return storage.ReadMapping(path)
}

// Document exposes the underlying mapping for read access. Mutation must go
// through Patch.
func (c *CoreConfig) Document() *Mapping {
	return c.doc
}

// Guard rewrites mixed-port and external-controller into safe, well-typed
// values. Every other key passes through untouched. Idempotent.
func Guard(m *Mapping) *Mapping {
	port := GuardMixedPort(m)
	ctrl := GuardServerCtrl(m)
	_ = m.Set("mixed-port", port)
	_ = m.Set("external-controller", ctrl)
	return m
}

// Normalize re-applies the guard to the wrapped document.
func (c *CoreConfig) Normalize() {
	Guard(c.doc)
}

// GuardMixedPort reads mixed-port as either an integer scalar or a string
// parseable as one. Integers wider than 16 bits truncate modulo 65536,
// matching the historical behavior of the field (65537 reads as 1). A
// missing, non-numeric or zero value reads as 7890.
func GuardMixedPort(m *Mapping) uint16 {
	port := uint16(defaultMixedPort)
	if n, ok := m.Get("mixed-port"); ok && n.Kind == yaml.ScalarNode {
		switch n.Tag {
		case "!!int":
			if u, err := strconv.ParseUint(n.Value, 0, 64); err == nil {
				port = uint16(u)
			}
		case "!!str":
			if u, err := strconv.ParseUint(n.Value, 10, 16); err == nil {
				port = uint16(u)
			}
		}
	}
	if port == 0 {
		port = defaultMixedPort
	}
	return port
}

// GuardServerCtrl reads external-controller as a host:port string and
// re-serializes it canonically. A leading ":" is shorthand for a loopback
// host. Anything unparsable reads as 127.0.0.1:9090.
func GuardServerCtrl(m *Mapping) string {
	s, ok := m.GetString("external-controller")
	if !ok {
		return defaultExternalController
	}
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, ":") {
		s = "127.0.0.1" + s
	}
	ap, err := netip.ParseAddrPort(s)
	if err != nil {
		return defaultExternalController
	}
	return ap.String()
}

// GuardClientCtrl is GuardServerCtrl with an unspecified host rewritten to
// loopback: 0.0.0.0 or :: is a valid bind address but nothing a client can
// connect to.
func GuardClientCtrl(m *Mapping) string {
	server := GuardServerCtrl(m)
	ap, err := netip.ParseAddrPort(server)
	if err != nil {
		return defaultExternalController
	}
	if ap.Addr().IsUnspecified() {
		return netip.AddrPortFrom(netip.AddrFrom4([4]byte{127, 0, 0, 1}), ap.Port()).String()
	}
	return server
}

// Patch upserts every key of changes into the document. No validation is
// performed; callers that touch guarded keys re-invoke the guard.
func (c *CoreConfig) Patch(changes *Mapping) {
	for _, k := range changes.Keys() {
		n, _ := changes.Get(k)
		c.doc.SetNode(k, n)
	}
}

// Save writes the document back through storage. Unlike construction,
// failures here are surfaced to the caller.
func (c *CoreConfig) Save() error {
	path, err := c.storage.ConfigPath()
	if err != nil {
		return fmt.Errorf("locate core config: %w", err)
	}
	if err := c.storage.WriteMapping(path, c.doc, configHeader); err != nil {
		return fmt.Errorf("write core config: %w", err)
	}
	return nil
}

func (c *CoreConfig) MixedPort() uint16 {
	return GuardMixedPort(c.doc)
}

// ClientInfo derives the controller endpoint a local client can reach. The
// secret accepts any scalar shape and is stringified; non-scalar shapes
// read as absent.
func (c *CoreConfig) ClientInfo() ControllerInfo {
	info := ControllerInfo{
		Port:   GuardMixedPort(c.doc),
		Server: GuardClientCtrl(c.doc),
	}
	if n, ok := c.doc.Get("secret"); ok && n.Kind == yaml.ScalarNode {
		switch n.Tag {
		case "!!str", "!!int", "!!float", "!!bool":
			s := n.Value
			info.Secret = &s
		}
	}
	return info
}

// ExternalControllerPort returns the port of the client-reachable
// controller address, defaulting to 9090.
func (c *CoreConfig) ExternalControllerPort() uint16 {
	server := c.ClientInfo().Server
	parts := strings.Split(server, ":")
	p, err := strconv.ParseUint(parts[len(parts)-1], 10, 16)
	if err != nil {
		return 9090
	}
	return uint16(p)
}

// PrepareExternalControllerPort asks the settings collaborator to resolve
// the configured controller port against its conflict strategy and patches
// external-controller when the answer differs. A resolver failure aborts
// without touching the document.
func (c *CoreConfig) PrepareExternalControllerPort() error {
	strategy := c.settings.ControllerPortStrategy()
	server := c.ClientInfo().Server
	host, portStr, ok := strings.Cut(server, ":")
	if !ok {
		host, portStr = "127.0.0.1", "9090"
	}
	current := uint16(9090)
	if p, err := strconv.ParseUint(portStr, 10, 16); err == nil {
		current = uint16(p)
	}
	port, err := c.settings.ResolvePort(strategy, current)
	if err != nil {
		return fmt.Errorf("resolve external controller port: %w", err)
	}
	if port != current {
		addr := fmt.Sprintf("%s:%d", host, port)
		log.Printf("external controller port changed to %s", addr)
		patch := NewMapping()
		_ = patch.Set("external-controller", addr)
		c.Patch(patch)
	}
	return nil
}

// TunDeviceIP derives the TUN device address from dns.fake-ip-range,
// defaulting to 198.18.0.2.
func (c *CoreConfig) TunDeviceIP() string {
	n, ok := c.doc.Get("dns")
	if ok && n.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(n.Content); i += 2 {
			if n.Content[i].Value != "fake-ip-range" {
				continue
			}
			v := n.Content[i+1]
			if v.Kind == yaml.ScalarNode && v.Tag == "!!str" {
				return strings.ReplaceAll(v.Value, "1/16", "2")
			}
		}
	}
	return "198.18.0.2"
}

// Template builds the minimal default document used when no valid on-disk
// document exists. The secret only has to be unique, not unpredictable: it
// is a bearer token regenerated solely when no document exists at all.
func Template() *Mapping {
	m := NewMapping()
	_ = m.Set("mixed-port", defaultMixedPort)
	_ = m.Set("log-level", "info")
	_ = m.Set("allow-lan", false)
	_ = m.Set("mode", "rule")
	_ = m.Set("external-controller", templateExternalController)
	_ = m.Set("secret", strings.ToLower(uuid.NewString()))
	if templateMetaDefaults {
		_ = m.Set("unified-delay", true)
		_ = m.Set("tcp-concurrent", true)
	}
	_ = m.Set("ipv6", false)
	return m
}
