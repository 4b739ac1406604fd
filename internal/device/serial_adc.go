package device

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.bug.st/serial"
)

const DefaultSerialBaudRate = 115200

// SerialADC talks to a microcontroller that digitises the probes. Each
// request is "R<channel>\n"; the reply is the raw code on its own line.
type SerialADC struct {
	mu     sync.Mutex
	conn   io.ReadWriteCloser
	reader *bufio.Reader
	stale  bool // a reply may still be in flight from a failed read
}

// inputFlusher is implemented by serial.Port.
type inputFlusher interface {
	ResetInputBuffer() error
}

var _ ADC = (*SerialADC)(nil)

// OpenSerialADC opens port at baud. Replies slower than timeout fail the read.
func OpenSerialADC(port string, baud int, timeout time.Duration) (*SerialADC, error) {
	if baud == 0 {
		baud = DefaultSerialBaudRate
	}
	p, err := serial.Open(port, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", port, err)
	}
	if timeout > 0 {
		if err := p.SetReadTimeout(timeout); err != nil {
			_ = p.Close()
			return nil, fmt.Errorf("set read timeout on %s: %w", port, err)
		}
	}
	return newSerialADC(p), nil
}

func newSerialADC(conn io.ReadWriteCloser) *SerialADC {
	return &SerialADC{conn: conn, reader: bufio.NewReader(conn)}
}

func (s *SerialADC) Read(channel int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stale {
		if f, ok := s.conn.(inputFlusher); ok {
			if err := f.ResetInputBuffer(); err != nil {
				return 0, fmt.Errorf("serial adc: flush input: %w", err)
			}
		}
		s.stale = false
	}
	if _, err := fmt.Fprintf(s.conn, "R%d\n", channel); err != nil {
		return 0, fmt.Errorf("serial adc: request channel %d: %w", channel, err)
	}
	// A timed out port reads (0, nil), which bufio reports as ErrNoProgress.
	line, err := s.reader.ReadString('\n')
	if err != nil {
		s.desync()
		return 0, fmt.Errorf("serial adc: read channel %d: %w", channel, err)
	}
	v, err := parseSerialReading(line)
	if err != nil {
		s.desync()
		return 0, err
	}
	return v, nil
}

// desync drops buffered bytes so a late reply is not taken as the answer to
// the next request.
func (s *SerialADC) desync() {
	s.reader.Reset(s.conn)
	s.stale = true
}

func (s *SerialADC) Close() error {
	return s.conn.Close()
}

func parseSerialReading(line string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, fmt.Errorf("serial adc: bad reply %q: %w", strings.TrimSpace(line), err)
	}
	if v < 0 {
		return 0, fmt.Errorf("serial adc: negative reading %d", v)
	}
	return v, nil
}
