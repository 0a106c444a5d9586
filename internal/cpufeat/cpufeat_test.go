package cpufeat

import "testing"

func TestSelect_ReturnsKnownTier(t *testing.T) {
	switch Select() {
	case TierScalar, Tier128, Tier256:
	default:
		t.Fatalf("Select() returned an unrecognized tier: %v", Select())
	}
}

func TestDetect_NeverPanics(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("detect() panicked: %v", r)
		}
	}()
	_ = detect()
}
