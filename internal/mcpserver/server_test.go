package mcpserver

import (
	"testing"

	"github.com/ormasoftchile/suitegen/internal/archive"
)

func TestNewServer_RegistersWithoutPanicking(t *testing.T) {
	status := NewStatusObserver()
	arch := archive.NewMIOArchive()

	s := NewServer("test", status, arch)
	if s == nil {
		t.Fatal("want a non-nil server")
	}
}
