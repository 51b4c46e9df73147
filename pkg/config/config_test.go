package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/stabilizer/pkg/errors"
	"github.com/matzehuels/stabilizer/pkg/stability"
)

func TestDecodeOverridesDefaults(t *testing.T) {
	p, err := Decode(strings.NewReader(`
filament_type = "PETG"
bridge_distance = 12.0
use_brim = false
`))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	def := stability.DefaultParams()
	if p.FilamentType != "PETG" || p.BridgeDistance != 12 || p.UseBrim {
		t.Errorf("overrides not applied: %+v", p)
	}
	if p.Gravity != def.Gravity || p.MinDistanceBetweenSupportPoints != def.MinDistanceBetweenSupportPoints {
		t.Errorf("unset keys should keep defaults")
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  errors.Code
	}{
		{"syntax", "bridge_distance = ", errors.ErrCodeInvalidFormat},
		{"wrong type", `bridge_distance = "far"`, errors.ErrCodeInvalidFormat},
		{"unknown key", "bridge_distanse = 3.0", errors.ErrCodeInvalidParams},
		{"invalid value", "gravity = -1.0", errors.ErrCodeInvalidParams},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %s, want %s (%v)", got, tt.code, err)
			}
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	p := stability.DefaultParams()
	p.FilamentType = "ABS"
	p.CriticalLocalPointCount = 5

	var buf bytes.Buffer
	if err := Encode(&buf, p); err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if got != p {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, p)
	}
}

func TestLoad(t *testing.T) {
	p, err := Load("")
	if err != nil || p != stability.DefaultParams() {
		t.Fatalf("Load(\"\") = %+v, %v", p, err)
	}

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file: got %v", err)
	}

	path := filepath.Join(t.TempDir(), "params.toml")
	if err := os.WriteFile(path, []byte("max_acceleration = 5000.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err = Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if p.MaxAcceleration != 5000 {
		t.Errorf("MaxAcceleration = %v, want 5000", p.MaxAcceleration)
	}
}
