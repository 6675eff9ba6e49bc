// Package wireguard reads the WireGuard daemon's configuration file,
// interprets its peer blocks, and overlays live runtime statistics obtained
// from a `wg show ... dump` query. All peer mutations are delegated to
// external management scripts; this package never writes the config itself.
package wireguard

import "time"

// Peer is a read-only projection of one peer block in the WireGuard config,
// optionally augmented with runtime statistics. A fresh set of Peers is built
// on every parse; nothing is cached between calls.
type Peer struct {
	// Identifier is the external-facing handle for the peer: the name derived
	// from a preceding comment when one exists, otherwise the public key.
	Identifier string `json:"identifier"`
	// Name is the display name: the comment-derived name, or a truncated
	// public key when no comment names the peer.
	Name       string   `json:"name"`
	PublicKey  string   `json:"publicKey"`
	AllowedIPs []string `json:"allowedIPs"`

	// Endpoint is set from a static Endpoint line or from the runtime dump.
	Endpoint            string     `json:"endpoint,omitempty"`
	PersistentKeepalive *int       `json:"persistentKeepalive,omitempty"`
	LatestHandshake     *time.Time `json:"latestHandshake,omitempty"`
	TransferRx          *int64     `json:"transferRx,omitempty"`
	TransferTx          *int64     `json:"transferTx,omitempty"`

	// IsEnabled is true iff at least one line of the peer's block is neither
	// blank nor commented out.
	IsEnabled bool `json:"isEnabled"`

	// RawBlock holds the original lines of the block, unmodified.
	RawBlock []string `json:"-"`
}

// runtimeStatus is one row of the wg dump, keyed by public key during merge.
type runtimeStatus struct {
	endpoint            string
	allowedIPs          string
	latestHandshake     *time.Time
	transferRx          int64
	transferTx          int64
	persistentKeepalive *int
}
