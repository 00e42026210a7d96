// loader.go implements the option loading lifecycle.
//
// The loading sequence is:
//  1. Load a .env file via godotenv (non-fatal if absent).
//  2. Process envconfig tags to populate defaults and env overrides.
//  3. The CLI layers flag values on top of the returned struct.
//  4. Validate() checks ranges, the timezone, and the input directories.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"daylapse/internal/types"
)

// Load populates Options from the environment. The result is not yet
// validated: the CLI applies flag overrides first and then calls
// Validate.
func Load() (*Options, error) {
	// Non-fatal if no .env file exists. Does not override variables
	// already present in the environment.
	_ = godotenv.Load()

	var opts Options
	if err := envconfig.Process("", &opts); err != nil {
		return nil, types.NewAppError(types.ErrCodeConfigInvalid, "processing environment", err)
	}
	return &opts, nil
}

// fieldCodes maps validator field names to the error codes surfaced for
// range violations on that field.
var fieldCodes = map[string]types.ErrorCode{
	"Latitude":           types.ErrCodeConfigInvalidLatitude,
	"Longitude":          types.ErrCodeConfigInvalidLongitude,
	"NightMarginSeconds": types.ErrCodeConfigInvalidDuration,
	"FadeSeconds":        types.ErrCodeConfigInvalidDuration,
	"ResizeWidth":        types.ErrCodeConfigInvalidWidth,
	"WorkerCount":        types.ErrCodeConfigInvalidWorkers,
}

// Validate checks the final option set. It fails fast with a typed
// configuration error on the first violation so the CLI can exit before
// any processing starts.
func (o *Options) Validate() error {
	v := validator.New()
	if err := v.Struct(o); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			code, ok := fieldCodes[fe.StructField()]
			if !ok {
				code = types.ErrCodeConfigInvalid
			}
			return types.NewAppErrorWithDetails(code,
				fmt.Sprintf("option %s failed %q validation", fe.StructField(), fe.Tag()),
				err, map[string]any{"value": fe.Value()})
		}
		return types.NewAppError(types.ErrCodeConfigInvalid, "validating options", err)
	}

	if _, err := time.LoadLocation(o.Timezone); err != nil {
		return types.NewAppError(types.ErrCodeConfigUnknownTimezone,
			fmt.Sprintf("unknown timezone %q", o.Timezone), err)
	}

	if len(o.InputDirs) == 0 {
		return types.NewAppError(types.ErrCodeConfigMissingInput, "no input directories provided", nil)
	}
	seen := make(map[string]bool, len(o.InputDirs))
	for _, dir := range o.InputDirs {
		if seen[dir] {
			return types.NewAppError(types.ErrCodeConfigBadInputDir,
				fmt.Sprintf("duplicate input directory %s", dir), nil)
		}
		seen[dir] = true
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			return types.NewAppError(types.ErrCodeConfigBadInputDir,
				fmt.Sprintf("input directory %s does not exist", dir), err)
		}
	}

	if o.OutputDir == "" {
		return types.NewAppError(types.ErrCodeConfigOutputUnwritable, "no output directory provided", nil)
	}
	return nil
}

// Location resolves the configured IANA timezone. Validate must have
// succeeded first.
func (o *Options) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(o.Timezone)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeConfigUnknownTimezone,
			fmt.Sprintf("unknown timezone %q", o.Timezone), err)
	}
	return loc, nil
}
