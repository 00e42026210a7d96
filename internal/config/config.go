// Package config defines the run options for the daylapse pipeline.
// Options are resolved once at startup and are immutable thereafter.
//
// Values are resolved via a priority chain:
//
//	Command-line flags (highest) -> OS environment -> Dotenv file -> Defaults
//
// Any invalid value fails the run before any frame is touched.
package config

import "time"

// Options is the complete set of run parameters. Environment defaults use
// the DAYLAPSE_ prefix; the CLI layers flag values on top before
// validation.
type Options struct {
	// I/O
	OutputDir string   `envconfig:"DAYLAPSE_OUTPUT_DIR"`
	InputDirs []string `envconfig:"DAYLAPSE_INPUT_DIRS"`

	// Location and timezone of the camera. Per-image EXIF GPS data, when
	// present, overrides the configured coordinates frame by frame.
	Timezone  string  `envconfig:"DAYLAPSE_TIMEZONE" default:"UTC" validate:"required"`
	Latitude  float64 `envconfig:"DAYLAPSE_LATITUDE" default:"0" validate:"min=-90,max=90"`
	Longitude float64 `envconfig:"DAYLAPSE_LONGITUDE" default:"0" validate:"min=-180,max=180"`

	// Selection and blending
	NightMarginSeconds int  `envconfig:"DAYLAPSE_NIGHT_MARGIN_SECONDS" default:"1800" validate:"min=0,max=14400"`
	FadeSeconds        int  `envconfig:"DAYLAPSE_FADE_SECONDS" default:"1800" validate:"min=0,max=14400"`
	IgnoreDSTSwitch    bool `envconfig:"DAYLAPSE_IGNORE_DST_SWITCH" default:"false"`

	// Output transform
	ResizeWidth      int    `envconfig:"DAYLAPSE_RESIZE_WIDTH" default:"0" validate:"min=0,max=10000"`
	OverlayTimestamp bool   `envconfig:"DAYLAPSE_OVERLAY_TIMESTAMP" default:"false"`
	OverlayFontPath  string `envconfig:"DAYLAPSE_OVERLAY_FONT"`

	// Execution
	WorkerCount int    `envconfig:"DAYLAPSE_WORKERS" default:"20" validate:"min=1,max=256"`
	LogLevel    string `envconfig:"DAYLAPSE_LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`

	// Frame rate hint recorded for the downstream encoder.
	FrameRate int `envconfig:"DAYLAPSE_FRAME_RATE" default:"30" validate:"min=1,max=240"`
}

// NightMargin returns the twilight allowance as a duration.
func (o *Options) NightMargin() time.Duration {
	return time.Duration(o.NightMarginSeconds) * time.Second
}

// FadeDuration returns the fade zone length as a duration. Zero disables
// fading.
func (o *Options) FadeDuration() time.Duration {
	return time.Duration(o.FadeSeconds) * time.Second
}
