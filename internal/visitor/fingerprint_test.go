package visitor

import "testing"

func TestFingerprintDeterministic(t *testing.T) {
	a := Fingerprint("203.0.113.7", "Mozilla/5.0")
	b := Fingerprint("203.0.113.7", "Mozilla/5.0")
	if a != b {
		t.Fatalf("same input produced different fingerprints: %s vs %s", a, b)
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(a))
	}
}

func TestFingerprintVariesByInput(t *testing.T) {
	base := Fingerprint("203.0.113.7", "Mozilla/5.0")

	if got := Fingerprint("203.0.113.8", "Mozilla/5.0"); got == base {
		t.Error("different IP produced the same fingerprint")
	}
	if got := Fingerprint("203.0.113.7", "curl/8.0"); got == base {
		t.Error("different user-agent produced the same fingerprint")
	}
}

func TestFingerprintSeparatorMatters(t *testing.T) {
	// "1.2.3.4" + "5ua" must not collide with "1.2.3.45" + "ua".
	if Fingerprint("1.2.3.4", "5ua") == Fingerprint("1.2.3.45", "ua") {
		t.Error("fingerprint collides across the ip/ua boundary")
	}
}
