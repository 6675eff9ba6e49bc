package server

import (
	"fmt"
	"net/netip"
	"regexp"
	"strings"

	"go4.org/netipx"

	"wgadmin-webui/internal/wireguard"
)

var namePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// validatePeerName enforces the naming rules shared by the form and the API:
// at least three characters, a restricted character set, and uniqueness
// against the identifiers already in the config.
func validatePeerName(name string, existing []wireguard.Peer) error {
	name = strings.TrimSpace(name)
	if len(name) < 3 {
		return fmt.Errorf("name must be at least 3 characters long")
	}
	if !namePattern.MatchString(name) {
		return fmt.Errorf("name may contain only letters, numbers, dot, dash, and underscore")
	}
	for _, peer := range existing {
		if peer.Identifier == name {
			return fmt.Errorf("name already exists: %s", name)
		}
	}
	return nil
}

// validateAllowedIPs parses the comma-separated prefix list and rejects
// entries that are malformed, already assigned, or overlapping an assigned
// range. Returns the normalized prefix list.
func validateAllowedIPs(raw string, existing []wireguard.Peer) ([]string, error) {
	var requested []netip.Prefix
	for _, entry := range strings.Split(raw, ",") {
		trimmed := strings.TrimSpace(entry)
		if trimmed == "" {
			continue
		}
		prefix, err := netip.ParsePrefix(trimmed)
		if err != nil {
			return nil, fmt.Errorf("invalid CIDR %q", trimmed)
		}
		requested = append(requested, prefix.Masked())
	}
	if len(requested) == 0 {
		return nil, fmt.Errorf("at least one allowed IP range is required")
	}

	var used netipx.IPSetBuilder
	for _, peer := range existing {
		for _, entry := range peer.AllowedIPs {
			if prefix, err := netip.ParsePrefix(entry); err == nil {
				used.AddPrefix(prefix.Masked())
			}
		}
	}
	usedSet, err := used.IPSet()
	if err != nil {
		return nil, fmt.Errorf("existing allowed IPs: %w", err)
	}

	normalized := make([]string, 0, len(requested))
	for _, prefix := range requested {
		if usedSet.OverlapsPrefix(prefix) {
			return nil, fmt.Errorf("IP range already in use: %s", prefix)
		}
		normalized = append(normalized, prefix.String())
	}
	return normalized, nil
}
