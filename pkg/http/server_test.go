package http

import (
	"testing"
	"time"
)

func TestServerAppliesTimeouts(t *testing.T) {
	s := NewServer(nil,
		WithTimeouts(5*time.Second, 7*time.Second, 3*time.Second),
	)

	if got := s.Echo().Server.ReadTimeout; got != 5*time.Second {
		t.Errorf("read timeout = %v, want 5s", got)
	}
	if got := s.Echo().Server.WriteTimeout; got != 7*time.Second {
		t.Errorf("write timeout = %v, want 7s", got)
	}
	if got := s.config.ShutdownTimeout; got != 3*time.Second {
		t.Errorf("shutdown timeout = %v, want 3s", got)
	}
}

func TestServerTimeoutDefaults(t *testing.T) {
	s := NewServer(nil)

	if got := s.Echo().Server.ReadTimeout; got != 10*time.Second {
		t.Errorf("read timeout = %v, want 10s", got)
	}
	if got := s.Echo().Server.WriteTimeout; got != 10*time.Second {
		t.Errorf("write timeout = %v, want 10s", got)
	}
}
