package alloc

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joshuapare/arenakit/internal/format"
)

const (
	// DefaultArenaBytes is the arena capacity used when Options leaves it unset.
	DefaultArenaBytes = format.DefaultArenaBytes

	// HeaderSize is the per-block metadata overhead in bytes.
	HeaderSize = format.HeaderSize

	// Alignment is the allocation granule.
	Alignment = format.Alignment
)

// logAllocEnv enables debug logging to stderr when no Logger is configured.
const logAllocEnv = "ARENA_LOG_ALLOC"

// Options configures an Allocator.
type Options struct {
	// ArenaBytes is the fixed arena capacity. Must be a multiple of
	// format.Alignment in [format.MinArenaBytes, format.MaxArenaBytes].
	// Default: format.DefaultArenaBytes (1024)
	ArenaBytes int

	// ZeroSize selects the Alloc(0) behavior.
	// Default: ZeroReserveGranule
	ZeroSize ZeroSizePolicy

	// GuardDoubleFree makes Free return ErrDoubleFree for a block that is
	// already free. When false such a Free is accepted as a no-op.
	// Default: true
	GuardDoubleFree bool

	// Logger receives allocation events. When nil, output is discarded
	// unless ARENA_LOG_ALLOC is set, in which case debug output goes to stderr.
	Logger *slog.Logger
}

// DefaultOptions returns the reference configuration.
func DefaultOptions() Options {
	return Options{
		ArenaBytes:      format.DefaultArenaBytes,
		ZeroSize:        ZeroReserveGranule,
		GuardDoubleFree: true,
	}
}

// Validate checks that the options describe a usable arena.
func (o Options) Validate() error {
	if o.ArenaBytes < format.MinArenaBytes || o.ArenaBytes > format.MaxArenaBytes {
		return fmt.Errorf("%w: arena bytes %d outside [%d, %d]",
			ErrBadOptions, o.ArenaBytes, format.MinArenaBytes, format.MaxArenaBytes)
	}
	if !format.IsAligned(o.ArenaBytes) {
		return fmt.Errorf("%w: arena bytes %d not a multiple of %d",
			ErrBadOptions, o.ArenaBytes, format.Alignment)
	}
	if o.ZeroSize != ZeroReserveGranule && o.ZeroSize != ZeroReject {
		return fmt.Errorf("%w: %s", ErrBadOptions, o.ZeroSize)
	}
	return nil
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	if os.Getenv(logAllocEnv) != "" {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
