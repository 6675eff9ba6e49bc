package wireguard

import (
	"reflect"
	"strings"
	"testing"
)

func parseText(t *testing.T, text string) parseResult {
	t.Helper()
	return parseConfig(splitLines(text))
}

func TestParseConfig_MinimalPeer(t *testing.T) {
	result := parseText(t, `[Peer]
PublicKey = ABC123
`)
	if len(result.peers) != 1 {
		t.Fatalf("expected 1 peer, got %d", len(result.peers))
	}
	peer := result.peers[0]
	if peer.PublicKey != "ABC123" {
		t.Fatalf("unexpected public key %q", peer.PublicKey)
	}
	if peer.Identifier != "ABC123" {
		t.Fatalf("expected identifier to fall back to public key, got %q", peer.Identifier)
	}
	if !peer.IsEnabled {
		t.Fatal("expected peer to be enabled")
	}
	if len(peer.AllowedIPs) != 0 {
		t.Fatalf("expected no allowed IPs, got %#v", peer.AllowedIPs)
	}
}

func TestParseConfig_NameComment(t *testing.T) {
	result := parseText(t, `# Name: office-laptop
[Peer]
PublicKey = ABC123
AllowedIPs = 10.0.0.2/32
`)
	peer := result.peers[0]
	if peer.Name != "office-laptop" {
		t.Fatalf("expected name office-laptop, got %q", peer.Name)
	}
	if peer.Identifier != "office-laptop" {
		t.Fatalf("expected identifier office-laptop, got %q", peer.Identifier)
	}
}

func TestParseConfig_PlainCommentUsedAsName(t *testing.T) {
	result := parseText(t, `# office printer
[Peer]
PublicKey = ABC123
`)
	if got := result.peers[0].Name; got != "office printer" {
		t.Fatalf("expected comment text as name, got %q", got)
	}
}

func TestParseConfig_NearestCommentWins(t *testing.T) {
	// Only the comment closest to the header names the peer; the note above
	// it is ignored rather than concatenated.
	result := parseText(t, `# general note about this peer
# Name: nearest
[Peer]
PublicKey = ABC123
`)
	if got := result.peers[0].Name; got != "nearest" {
		t.Fatalf("expected nearest comment to win, got %q", got)
	}
}

func TestParseConfig_BlankCommentSkippedDuringNameScan(t *testing.T) {
	result := parseText(t, `# Name: padded
#
[Peer]
PublicKey = ABC123
`)
	if got := result.peers[0].Name; got != "padded" {
		t.Fatalf("expected scan to skip bare # lines, got %q", got)
	}
}

func TestParseConfig_BlankLineStopsNameScan(t *testing.T) {
	// The backward scan stops at the first non-comment line, so a comment
	// separated from the header by a blank line does not name the peer.
	result := parseText(t, `# Name: unrelated
[Peer]
PublicKey = FIRST

[Peer]
PublicKey = SECOND
`)
	if len(result.peers) != 2 {
		t.Fatalf("expected 2 peers, got %d", len(result.peers))
	}
	if got := result.peers[1].Identifier; got != "SECOND" {
		t.Fatalf("expected second peer identifier SECOND, got %q", got)
	}
}

func TestParseConfig_DisabledPeerStillParsed(t *testing.T) {
	result := parseText(t, `# Name: dormant
#[Peer]
#PublicKey = DEF456
#AllowedIPs = 10.0.0.3/32, 10.0.0.4/32
`)
	if len(result.peers) != 1 {
		t.Fatalf("expected 1 peer, got %d", len(result.peers))
	}
	peer := result.peers[0]
	if peer.IsEnabled {
		t.Fatal("expected fully commented block to be disabled")
	}
	if peer.PublicKey != "DEF456" {
		t.Fatalf("expected commented key lines to be parsed, got %q", peer.PublicKey)
	}
	if want := []string{"10.0.0.3/32", "10.0.0.4/32"}; !reflect.DeepEqual(peer.AllowedIPs, want) {
		t.Fatalf("unexpected allowed IPs %#v", peer.AllowedIPs)
	}
	if peer.Name != "dormant" {
		t.Fatalf("expected name dormant, got %q", peer.Name)
	}
}

func TestParseConfig_MixedBlockIsEnabled(t *testing.T) {
	result := parseText(t, `[Peer]
PublicKey = ABC123
#AllowedIPs = 10.0.0.2/32
`)
	if !result.peers[0].IsEnabled {
		t.Fatal("block with any active line must be enabled")
	}
}

func TestParseConfig_MissingPublicKeyDropsBlockOnly(t *testing.T) {
	result := parseText(t, `[Peer]
AllowedIPs = 10.0.0.1/32

[Peer]
PublicKey = KEEP
`)
	if len(result.peers) != 1 {
		t.Fatalf("expected 1 peer, got %d", len(result.peers))
	}
	if result.peers[0].PublicKey != "KEEP" {
		t.Fatalf("expected later block to survive, got %q", result.peers[0].PublicKey)
	}
	if result.skipped != 1 {
		t.Fatalf("expected 1 skipped block, got %d", result.skipped)
	}
}

func TestParseConfig_CommentedHeaderTerminatesBlock(t *testing.T) {
	result := parseText(t, `[Peer]
PublicKey = FIRST

#[Peer]
#PublicKey = SECOND
`)
	if len(result.peers) != 2 {
		t.Fatalf("expected commented header to start a new block, got %d peers", len(result.peers))
	}
	if result.peers[0].PublicKey != "FIRST" || result.peers[1].PublicKey != "SECOND" {
		t.Fatalf("unexpected peers %q, %q", result.peers[0].PublicKey, result.peers[1].PublicKey)
	}
	if result.peers[1].IsEnabled {
		t.Fatal("expected second block to be disabled")
	}
}

func TestParseConfig_SplitsOnFirstEquals(t *testing.T) {
	result := parseText(t, `[Peer]
PublicKey = abc=def==
`)
	if got := result.peers[0].PublicKey; got != "abc=def==" {
		t.Fatalf("expected value to keep embedded =, got %q", got)
	}
}

func TestParseConfig_LastDuplicateKeyWins(t *testing.T) {
	result := parseText(t, `[Peer]
PublicKey = OLD
PublicKey = NEW
`)
	if got := result.peers[0].PublicKey; got != "NEW" {
		t.Fatalf("expected last occurrence to win, got %q", got)
	}
}

func TestParseConfig_KeepaliveParsing(t *testing.T) {
	result := parseText(t, `[Peer]
PublicKey = A
PersistentKeepalive = 25

[Peer]
PublicKey = B
PersistentKeepalive = often
`)
	if got := result.peers[0].PersistentKeepalive; got == nil || *got != 25 {
		t.Fatalf("expected keepalive 25, got %v", got)
	}
	if got := result.peers[1].PersistentKeepalive; got != nil {
		t.Fatalf("expected unparsable keepalive to be absent, got %v", got)
	}
}

func TestParseConfig_NameFallbackTruncatesKey(t *testing.T) {
	result := parseText(t, `[Peer]
PublicKey = abcdefghijklmnopqrstuvwxyz
`)
	if got := result.peers[0].Name; got != "abcdefghijkl" {
		t.Fatalf("expected 12-char key prefix as display name, got %q", got)
	}
}

func TestParseConfig_DuplicateNamesBothEmitted(t *testing.T) {
	result := parseText(t, `# Name: twin
[Peer]
PublicKey = A

# Name: twin
[Peer]
PublicKey = B
`)
	if len(result.peers) != 2 {
		t.Fatalf("expected both duplicate-name peers, got %d", len(result.peers))
	}
}

func TestParseConfig_EmptyAndGarbageInput(t *testing.T) {
	if got := parseText(t, ""); len(got.peers) != 0 {
		t.Fatalf("expected no peers for empty input, got %d", len(got.peers))
	}
	garbage := strings.Repeat("not a config line\n", 5)
	if got := parseText(t, garbage); len(got.peers) != 0 {
		t.Fatalf("expected no peers for garbage input, got %d", len(got.peers))
	}
}

func TestParseConfig_RawBlockRetained(t *testing.T) {
	result := parseText(t, `[Peer]
PublicKey = ABC123
AllowedIPs = 10.0.0.2/32
`)
	block := result.peers[0].RawBlock
	if len(block) == 0 || strings.TrimSpace(block[0]) != "[Peer]" {
		t.Fatalf("expected raw block starting at header, got %#v", block)
	}
}
