package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gobwas/glob"

	"github.com/phobologic/matsym/internal/lang"
)

var (
	// ErrUnknownDialect indicates a dialect name with no registered table
	ErrUnknownDialect = errors.New("unknown dialect")

	// ErrInvalidMaxFiles indicates a negative file limit
	ErrInvalidMaxFiles = errors.New("invalid max files")

	// ErrInvalidMaxFileSize indicates a non-positive size limit
	ErrInvalidMaxFileSize = errors.New("invalid max file size")

	// ErrInvalidOutput indicates an unsupported output format
	ErrInvalidOutput = errors.New("invalid output format")

	// ErrInvalidIgnorePattern indicates an ignore glob that does not compile
	ErrInvalidIgnorePattern = errors.New("invalid ignore pattern")
)

// Validate checks that the configuration is usable. All problems are
// reported together.
func Validate(cfg *Config) error {
	var errs []error

	if _, ok := lang.Dialects[cfg.Dialect]; !ok {
		errs = append(errs, fmt.Errorf("%w: %q (valid: %s)",
			ErrUnknownDialect, cfg.Dialect, strings.Join(lang.Names(), ", ")))
	}

	if cfg.Index.MaxFiles < 0 {
		errs = append(errs, fmt.Errorf("%w: max_files cannot be negative, got %d",
			ErrInvalidMaxFiles, cfg.Index.MaxFiles))
	}

	if cfg.Index.MaxFileSize <= 0 {
		errs = append(errs, fmt.Errorf("%w: max_file_size must be positive, got %d",
			ErrInvalidMaxFileSize, cfg.Index.MaxFileSize))
	}

	switch cfg.Output {
	case "toon", "json":
	default:
		errs = append(errs, fmt.Errorf("%w: must be 'toon' or 'json', got %q",
			ErrInvalidOutput, cfg.Output))
	}

	for _, p := range cfg.Ignore {
		if _, err := glob.Compile(p, '/'); err != nil {
			errs = append(errs, fmt.Errorf("%w: %q: %v", ErrInvalidIgnorePattern, p, err))
		}
	}

	return errors.Join(errs...)
}
