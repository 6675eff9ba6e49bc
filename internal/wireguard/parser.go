package wireguard

import (
	"strconv"
	"strings"
)

// parseResult carries the peers extracted from one pass over the config text
// plus a count of blocks that were dropped for lacking a public key. The
// count is diagnostic only; dropped blocks are never an error.
type parseResult struct {
	peers   []Peer
	skipped int
}

// parseConfig scans the config lines for peer blocks and returns the peers in
// file order. Malformed content is skipped at block granularity: a bad block
// never aborts the parse or hides the remaining blocks.
func parseConfig(lines []string) parseResult {
	var result parseResult
	i := 0
	for i < len(lines) {
		if !isPeerHeader(lines[i]) {
			i++
			continue
		}
		name := extractName(lines, i)
		block, next := collectBlock(lines, i)
		if peer, ok := parsePeerBlock(block, name); ok {
			result.peers = append(result.peers, peer)
		} else {
			result.skipped++
		}
		i = next
	}
	return result
}

// isPeerHeader reports whether line opens a peer block. Commented-out headers
// count too: `#[Peer]` starts a block just like `[Peer]`, and whether the peer
// is enabled is decided later from the block's lines as a whole.
func isPeerHeader(line string) bool {
	normalized := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "#"))
	return strings.HasPrefix(strings.ToLower(normalized), "[peer]")
}

// collectBlock gathers the lines from start up to (excluding) the next peer
// header or end of input, and returns the index to resume scanning at.
func collectBlock(lines []string, start int) ([]string, int) {
	j := start
	for j < len(lines) {
		if j != start && isPeerHeader(lines[j]) {
			break
		}
		j++
	}
	return lines[start:j], j
}

// extractName walks backward from the header at start through the contiguous
// run of comment lines above it. The nearest non-empty comment wins: a
// `Name: x` comment yields x, any other comment text is taken verbatim.
// Earlier comments in the run are deliberately not concatenated.
func extractName(lines []string, start int) string {
	for k := start - 1; k >= 0; k-- {
		trimmed := strings.TrimSpace(lines[k])
		if !strings.HasPrefix(trimmed, "#") {
			break
		}
		comment := strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
		if comment == "" {
			continue
		}
		if strings.HasPrefix(strings.ToLower(comment), "name:") {
			return strings.TrimSpace(comment[strings.Index(comment, ":")+1:])
		}
		return comment
	}
	return ""
}

// parsePeerBlock interprets one block's lines. Key/value pairs are extracted
// from every line, commented or not, so a fully commented-out peer still
// yields its data; only the enabled flag depends on whether any raw line is
// active. Blocks without a PublicKey yield no peer.
func parsePeerBlock(block []string, name string) (Peer, bool) {
	enabled := false
	data := make(map[string]string)
	for _, raw := range block {
		trimmed := strings.TrimSpace(raw)
		if trimmed != "" && !strings.HasPrefix(trimmed, "#") {
			enabled = true
		}
		line := strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
		idx := strings.Index(line, "=")
		if idx < 0 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(line[:idx]))
		data[key] = strings.TrimSpace(line[idx+1:])
	}

	publicKey := data["publickey"]
	if publicKey == "" {
		return Peer{}, false
	}

	allowedIPs := []string{}
	for _, entry := range strings.Split(data["allowedips"], ",") {
		if trimmed := strings.TrimSpace(entry); trimmed != "" {
			allowedIPs = append(allowedIPs, trimmed)
		}
	}

	var keepalive *int
	if raw, ok := data["persistentkeepalive"]; ok {
		if value, err := strconv.Atoi(raw); err == nil {
			keepalive = &value
		}
	}

	identifier := name
	if identifier == "" {
		identifier = publicKey
	}
	display := name
	if display == "" {
		display = publicKey
		if len(display) > 12 {
			display = display[:12]
		}
	}

	return Peer{
		Identifier:          identifier,
		Name:                display,
		PublicKey:           publicKey,
		AllowedIPs:          allowedIPs,
		Endpoint:            data["endpoint"],
		PersistentKeepalive: keepalive,
		IsEnabled:           enabled,
		RawBlock:            block,
	}, true
}
