package services

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/tradewire-labs/txconn/internal/core/domain"
	"github.com/tradewire-labs/txconn/internal/core/ports/driven"
	"github.com/tradewire-labs/txconn/internal/stream"
)

// Connector is the high-level interface to one loaded connector module. It
// owns one reference to the shared module handle; Sender clones hold
// further references. The module is stopped and unloaded when the last
// owner is closed.
type Connector struct {
	h      *handle
	closed bool
}

// New initialises an already-loaded native module. The log directory must
// exist and be writable before the native Initialize call; the connector
// writes its report files (XDF*.log, DSP*.txt, TS*.log) there.
//
// On failure the module is unloaded before returning.
func New(native driven.Native, logDir string, level domain.LogLevel, log zerolog.Logger) (*Connector, error) {
	h := newHandle(native, log)

	if err := checkLogDir(logDir); err != nil {
		h.release()
		return nil, err
	}

	log.Debug().Str("log_dir", logDir).Stringer("level", level).Msg("initializing connector")
	if p := h.native.Initialize(logDir, level); p != nil {
		err := domain.NewError(domain.ErrInitialization, "Initialize", "", h.errText(p))
		h.release()
		return nil, err
	}
	h.initialized.Store(true)

	return &Connector{h: h}, nil
}

// SetLogLevel changes the connector's log depth without stopping it.
func (c *Connector) SetLogLevel(level domain.LogLevel) error {
	if p := c.h.native.SetLogLevel(level); p != nil {
		return domain.NewError(domain.ErrInternal, "SetLogLevel", "", c.h.errText(p))
	}
	return nil
}

// Subscribe installs fn as the delivery handler, replacing any previous
// one. It reports whether the native registration succeeded; on failure
// the previous handler stays active.
func (c *Connector) Subscribe(fn Handler) bool {
	return c.h.register(fn)
}

// Input returns the delivery stream for combinator composition. The
// terminal Subscribe of a composed chain installs the whole chain as a
// single handler.
func (c *Connector) Input() stream.Stream[*domain.Buffer] {
	return stream.Func[*domain.Buffer](func(sink func(*domain.Buffer)) {
		c.h.register(sink)
	})
}

// Sender returns a new Sender sharing this connector's module.
func (c *Connector) Sender() *Sender {
	c.h.retain()
	return &Sender{h: c.h}
}

// Close releases the Connector's reference. The last owner to close blocks
// on the native Uninitialize call and unloads the module.
func (c *Connector) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.h.release()
	return nil
}

func checkLogDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return domain.NewError(domain.ErrInitialization, "Initialize", "",
			"log directory does not exist or is not accessible: "+dir)
	}
	return nil
}
