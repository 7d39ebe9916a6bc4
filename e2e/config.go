package e2e

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config points the suite at two running nodes. When the URLs are empty the
// suite starts two in-process nodes linked by the memory transport.
type Config struct {
	AliceURL  string `envconfig:"ALICE_URL"`
	AliceName string `envconfig:"ALICE_NAME" default:"Alice"`
	BobURL    string `envconfig:"BOB_URL"`
	BobName   string `envconfig:"BOB_NAME" default:"Bob"`
	// E2E_DEBUG_JSON dumps full request/response bodies
	DebugJSON bool `envconfig:"E2E_DEBUG_JSON" default:"false"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours     bool          `envconfig:"E2E_COLOURS" default:"true"`
	WaitTimeout time.Duration `envconfig:"E2E_WAIT_TIMEOUT" default:"10s"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
