package dmx

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/nerrad567/stagelight-core/internal/infrastructure/config"
)

// packetConn is the minimal socket surface the sender needs.
// Satisfied by *udpConn in production and by test doubles.
type packetConn interface {
	Write(packet []byte) error
	Close() error
}

// udpConn sends packets to a fixed destination address.
type udpConn struct {
	conn *net.UDPConn
	dest *net.UDPAddr
}

func (c *udpConn) Write(packet []byte) error {
	_, err := c.conn.WriteToUDP(packet, c.dest)
	return err
}

func (c *udpConn) Close() error {
	return c.conn.Close()
}

// Start opens the Art-Net socket (when enabled) and launches the adaptive
// transmission scheduler.
//
// The scheduler is a self-rescheduling timer: each tick schedules the next
// one at 1000/currentRate milliseconds, so rate changes take effect within
// one tick without restarting a fixed-interval timer.
//
// Parameters:
//   - ctx: Parent context; cancelling it stops the scheduler
//
// Returns:
//   - error: ErrAlreadyStarted, or a socket error when Art-Net is enabled
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}

	if s.cfg.ArtNet.Enabled && s.conn == nil {
		conn, err := openArtNetSocket(s.cfg.ArtNet)
		if err != nil {
			s.mu.Unlock()
			return fmt.Errorf("opening Art-Net socket: %w", err)
		}
		s.conn = conn
	}

	senderCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true
	s.lastChange = s.now()
	s.mu.Unlock()

	go s.runSender(senderCtx)

	s.logger.Info("dmx output service started",
		"universes", len(s.universes),
		"active_rate_hz", s.cfg.ActiveRefreshRate,
		"idle_rate_hz", s.cfg.IdleRefreshRate,
		"artnet_enabled", s.cfg.ArtNet.Enabled,
	)
	return nil
}

// Stop shuts the service down: it cancels the scheduler, zeroes every
// channel array and override, sends one final all-zero packet per universe
// (when Art-Net is enabled), and releases the socket.
//
// Returns:
//   - error: ErrNotStarted if the service was never started
func (s *Service) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return ErrNotStarted
	}
	s.running = false
	cancel := s.cancel
	done := s.done
	s.mu.Unlock()

	cancel()
	<-done

	s.mu.Lock()
	for u := range s.universes {
		s.universes[u] = &[UniverseSize]byte{}
	}
	s.overrides = make(map[ChannelKey]byte)
	universeIDs := make([]int, 0, len(s.universes))
	for u := range s.universes {
		universeIDs = append(universeIDs, u)
	}
	conn := s.conn
	s.conn = nil
	s.mu.Unlock()

	// Lights out on the wire, not just in memory.
	if conn != nil {
		var zero [UniverseSize]byte
		for _, u := range universeIDs {
			if err := conn.Write(EncodeArtDMX(u, &zero)); err != nil {
				s.logger.Warn("final blackout packet failed", "universe", u, "error", err)
			}
		}
		if err := conn.Close(); err != nil {
			s.logger.Warn("closing Art-Net socket", "error", err)
		}
	}

	s.logger.Info("dmx output service stopped")
	return nil
}

// runSender is the adaptive transmission loop.
func (s *Service) runSender(ctx context.Context) {
	defer close(s.done)

	for {
		s.mu.Lock()
		rate := s.currentRate
		s.mu.Unlock()

		timer := time.NewTimer(time.Duration(float64(time.Second) / rate))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.transmitTick(s.now())
		}
	}
}

// transmitTick performs one pass of the adaptive scheduler: diff every
// universe's effective output against its last-transmitted snapshot, adjust
// the rate, and transmit when either something changed or the sender is in
// idle keep-alive mode.
//
// Exposed on the struct (rather than inlined into runSender) so tests can
// drive the scheduler with a synthetic clock.
func (s *Service) transmitTick(now time.Time) {
	s.mu.Lock()

	outputs := make(map[int][UniverseSize]byte, len(s.universes))
	changed := false
	for u, arr := range s.universes {
		out := s.effectiveOutputLocked(u, arr)
		outputs[u] = out
		if prev, sent := s.lastSent[u]; !sent || prev != out {
			changed = true
		}
	}

	if changed {
		s.bumpRateLocked(now)
	} else if s.activeMode && now.Sub(s.lastChange) > s.cfg.HoldoverDuration() {
		s.activeMode = false
		s.currentRate = s.cfg.IdleRefreshRate
		s.logger.Debug("transmission rate lowered", "rate_hz", s.currentRate)
		if s.recorder != nil {
			s.recorder.RecordRateChange(s.currentRate, false)
		}
	}

	// Active mode with nothing new sends nothing; idle mode keeps nodes
	// alive with slow full-frame refreshes.
	send := changed || !s.activeMode
	if send {
		for u, out := range outputs {
			s.lastSent[u] = out
		}
	}
	conn := s.conn
	recorder := s.recorder
	s.mu.Unlock()

	if !send {
		return
	}

	if conn != nil {
		for u, out := range outputs {
			out := out
			if err := conn.Write(EncodeArtDMX(u, &out)); err != nil {
				// One dead universe must not black out the rest; the next
				// tick retries naturally.
				s.logger.Error("art-net send failed", "universe", u, "error", err)
			}
		}
	}
	if recorder != nil {
		recorder.RecordTransmit(len(outputs))
	}
}

// openArtNetSocket binds a UDP socket and resolves the packet destination.
func openArtNetSocket(cfg config.ArtNetConfig) (packetConn, error) {
	addr, err := resolveBroadcastAddress(cfg)
	if err != nil {
		return nil, err
	}

	dest := &net.UDPAddr{IP: addr, Port: ArtNetPort}
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4zero, Port: 0})
	if err != nil {
		return nil, fmt.Errorf("binding UDP socket: %w", err)
	}

	return &udpConn{conn: conn, dest: dest}, nil
}
