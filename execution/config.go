package execution

import (
	"time"

	"github.com/tidemark/tradecore/config/encoding"
	"github.com/tidemark/tradecore/logging"
	"github.com/tidemark/tradecore/num"
)

const namedLogger = "execution"

// Config holds the lifecycle and reconciliation tuning.
type Config struct {
	Level encoding.LogLevel

	// FirstTimeout is the pending age after which a single status query is
	// issued; SecondTimeout the age at which the side is force-reset.
	FirstTimeout  encoding.Duration
	SecondTimeout encoding.Duration

	// StartupDelay is the dwell after engine start before any command is
	// issued, giving in-flight cancellations from a prior run time to settle.
	StartupDelay encoding.Duration

	// SweepInterval caps how often the reconciliation sweeper acts even
	// though it is invoked on every processing cycle.
	SweepInterval encoding.Duration

	// SnapshotInterval is the cadence of the periodic state dump to the log.
	SnapshotInterval encoding.Duration

	// MinDealAmounts is the per-asset balance threshold below which no order
	// is placed for a side funded by that asset.
	MinDealAmounts map[string]num.Decimal
}

// NewDefaultConfig creates an instance of config with default values.
func NewDefaultConfig() Config {
	return Config{
		Level:            encoding.LogLevel{Level: logging.InfoLevel},
		FirstTimeout:     encoding.Duration{Duration: 10 * time.Second},
		SecondTimeout:    encoding.Duration{Duration: 30 * time.Second},
		StartupDelay:     encoding.Duration{Duration: 10 * time.Second},
		SweepInterval:    encoding.Duration{Duration: time.Second},
		SnapshotInterval: encoding.Duration{Duration: time.Minute},
		MinDealAmounts:   map[string]num.Decimal{},
	}
}
