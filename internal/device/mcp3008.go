package device

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

const (
	mcp3008Channels  = 8
	MCP3008FullScale = 1023
)

// MCP3008 is the 10-bit, 8-channel SPI converter the RTD divider feeds.
type MCP3008 struct {
	mu   sync.Mutex
	port spi.PortCloser
	conn spi.Conn
}

var _ ADC = (*MCP3008)(nil)

// OpenMCP3008 opens an SPI port (e.g. "/dev/spidev0.0" or "SPI0.0") in mode 0.
func OpenMCP3008(port string, speedHz int64) (*MCP3008, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}
	p, err := spireg.Open(port)
	if err != nil {
		return nil, fmt.Errorf("open spi port %q: %w", port, err)
	}
	c, err := p.Connect(physic.Frequency(speedHz)*physic.Hertz, spi.Mode0, 8)
	if err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("connect spi port %q: %w", port, err)
	}
	return &MCP3008{port: p, conn: c}, nil
}

// Read performs a single-ended conversion on channel.
func (m *MCP3008) Read(channel int) (int, error) {
	if channel < 0 || channel >= mcp3008Channels {
		return 0, fmt.Errorf("mcp3008: channel %d out of range", channel)
	}
	w := mcp3008Request(channel)
	r := make([]byte, len(w))

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.conn.Tx(w, r); err != nil {
		return 0, fmt.Errorf("mcp3008: read channel %d: %w", channel, err)
	}
	return mcp3008Decode(r), nil
}

func (m *MCP3008) Close() error {
	return m.port.Close()
}

// mcp3008Request builds the start bit, single-ended flag and channel select.
func mcp3008Request(channel int) []byte {
	return []byte{0x01, byte(0x80 | (channel&0x07)<<4), 0x00}
}

func mcp3008Decode(r []byte) int {
	return int(r[1]&0x03)<<8 | int(r[2])
}
