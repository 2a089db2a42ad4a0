package led

import (
	"github.com/pkg/errors"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
)

// RefreshRate is the NRZ bit rate base for WS2812-class strips.
const RefreshRate physic.Frequency = 800

type spiDriver struct {
	dev  *nrzled.Dev
	port spi.PortCloser
}

// NewSPI opens the named SPI port (e.g. "/dev/spidev0.0" or a spireg
// alias) and binds an NRZ encoder for count pixels.
func NewSPI(port string, count int) (Driver, error) {
	p, err := spireg.Open(port)
	if err != nil {
		return nil, errors.Wrap(err, "open spi port")
	}

	opts := nrzled.Opts{
		NumPixels: count,
		Channels:  3,
		Freq:      ((RefreshRate * 3) + 100) * physic.KiloHertz,
	}
	dev, err := nrzled.NewSPI(p, &opts)
	if err != nil {
		_ = p.Close()
		return nil, errors.Wrap(err, "bind nrzled")
	}

	return &spiDriver{dev: dev, port: p}, nil
}

func (s *spiDriver) Write(rgb []byte) error {
	_, err := s.dev.Write(rgb)
	return err
}

func (s *spiDriver) Close() error {
	_ = s.dev.Halt()
	return s.port.Close()
}
