package txcdll

import (
	"github.com/rs/zerolog"

	"github.com/tradewire-labs/txconn/internal/core/domain"
	"github.com/tradewire-labs/txconn/internal/core/services"
)

// Open loads the shared module at path and initialises a connector over it
// in one step. On any failure the module is not left loaded.
func Open(path, logDir string, level domain.LogLevel, log zerolog.Logger) (*services.Connector, error) {
	lib, err := Load(path)
	if err != nil {
		return nil, err
	}
	return services.New(lib, logDir, level, log)
}
