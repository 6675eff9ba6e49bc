package wireguard

import (
	"strconv"
	"strings"
	"time"
)

// noEndpoint is the placeholder wg prints for peers without a known endpoint.
const noEndpoint = "(none)"

// parseRuntimeDump turns the output of `wg show <iface> dump` into a map of
// public key to runtime status. The first line describes the local interface
// and is skipped, as are rows with fewer than nine tab-separated fields or
// non-numeric transfer counters.
//
// Dump columns: private-key, public-key, preshared-key, endpoint, allowed-ips,
// latest-handshake, transfer-rx, transfer-tx, persistent-keepalive.
func parseRuntimeDump(dump string) map[string]runtimeStatus {
	status := make(map[string]runtimeStatus)
	lines := strings.Split(dump, "\n")
	if len(lines) < 2 {
		return status
	}
	for _, line := range lines[1:] {
		parts := strings.Split(line, "\t")
		if len(parts) < 9 {
			continue
		}
		rx, err := strconv.ParseInt(parts[6], 10, 64)
		if err != nil {
			continue
		}
		tx, err := strconv.ParseInt(parts[7], 10, 64)
		if err != nil {
			continue
		}

		entry := runtimeStatus{
			allowedIPs: parts[4],
			transferRx: rx,
			transferTx: tx,
		}
		if parts[3] != noEndpoint {
			entry.endpoint = parts[3]
		}
		if epoch, err := strconv.ParseInt(parts[5], 10, 64); err == nil && epoch > 0 {
			handshake := time.Unix(epoch, 0).UTC()
			entry.latestHandshake = &handshake
		}
		if keepalive, err := strconv.Atoi(parts[8]); err == nil {
			entry.persistentKeepalive = &keepalive
		}
		status[parts[1]] = entry
	}
	return status
}

// mergeRuntime overlays runtime status onto peers in place. A peer whose
// public key appears in the dump gets endpoint, keepalive, handshake and
// transfer counters overwritten together from that row; peers the dump does
// not mention keep their config-derived values.
func mergeRuntime(peers []Peer, status map[string]runtimeStatus) {
	for i := range peers {
		entry, ok := status[peers[i].PublicKey]
		if !ok {
			continue
		}
		peers[i].Endpoint = entry.endpoint
		peers[i].PersistentKeepalive = entry.persistentKeepalive
		peers[i].LatestHandshake = entry.latestHandshake
		peers[i].TransferRx = &entry.transferRx
		peers[i].TransferTx = &entry.transferTx
	}
}
