package export

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"daylapse/internal/astro"
	"daylapse/internal/clock"
	"daylapse/internal/config"
	"daylapse/internal/exif"
	"daylapse/internal/render"
	"daylapse/internal/sequence"
	"daylapse/internal/types"
)

// Runner executes a full preprocessing run. Construct with NewRunner;
// the zero value is not usable.
type Runner struct {
	Opts    *config.Options
	Log     *slog.Logger
	Overlay *render.Overlay // nil disables the timestamp overlay
}

// NewRunner wires a Runner from validated options, loading the overlay
// face when the overlay is enabled.
func NewRunner(opts *config.Options, log *slog.Logger) (*Runner, error) {
	r := &Runner{Opts: opts, Log: log}
	if opts.OverlayTimestamp {
		overlay, err := render.NewOverlay(opts.OverlayFontPath, 24)
		if err != nil {
			return nil, types.NewAppError(types.ErrCodeConfigInvalid, "loading overlay font", err)
		}
		r.Overlay = overlay
	}
	return r, nil
}

// Run executes the whole pipeline: scan, metadata extraction, DST
// correction, day/night classification, day grouping, sequence
// numbering, parallel export, and the manifest write. Setup failures
// (bad coordinates, empty input, unwritable output) abort before any
// worker starts; per-frame failures are isolated and summarized in the
// returned report.
func (r *Runner) Run(ctx context.Context) (*types.Report, error) {
	start := time.Now()
	report := &types.Report{RunID: uuid.NewString()}
	log := r.Log.With("run_id", report.RunID)

	loc, err := r.Opts.Location()
	if err != nil {
		return nil, err
	}

	paths, err := sequence.ListImages(r.Opts.InputDirs)
	if err != nil {
		return nil, err
	}
	log.Info("input scan complete", "images", len(paths), "dirs", len(r.Opts.InputDirs))

	frames := r.readMetadata(paths, loc, log, report)
	if len(frames) == 0 {
		return nil, types.NewAppError(types.ErrCodeEmptyNoImages,
			"no images with usable timestamps", nil)
	}

	// The anomaly decision is anchored on the chronologically first frame.
	sort.SliceStable(frames, func(i, j int) bool { return frames[i].Raw.Before(frames[j].Raw) })
	dst := clock.Detect(frames[0].Raw, loc, r.Opts.IgnoreDSTSwitch)
	if dst.Anomaly() {
		log.Info("DST anomaly detected, correcting timestamps",
			"transition", dst.Transition().Format(time.RFC3339))
	}

	eph, err := astro.NewEphemeris(r.Opts.Latitude, r.Opts.Longitude, loc)
	if err != nil {
		return nil, err
	}

	accepted := r.classifyFrames(frames, dst, eph, loc, log, report)
	groups, err := sequence.GroupByDay(accepted, loc)
	if err != nil {
		return nil, err
	}

	tasks := BuildTasks(groups, r.Opts.FadeDuration())
	report.Accepted = len(tasks)
	log.Info("frames selected",
		"accepted", report.Accepted,
		"rejected_night", report.RejectedNight,
		"days", len(groups),
	)

	failedSeqs, err := r.exportAll(ctx, tasks)
	if err != nil {
		return nil, err
	}
	report.FailedSeqs = failedSeqs
	report.Failed += len(failedSeqs)
	report.Written = len(tasks) - len(failedSeqs)

	if err := WriteManifest(r.Opts, report.RunID, tasks, failedSeqs); err != nil {
		// The frames on disk are still valid without the manifest.
		log.Warn("manifest write failed", "error", err)
	}

	report.Elapsed = time.Since(start)
	return report, nil
}

// readMetadata extracts timestamps and coordinates for every scanned
// path. Frames without a usable timestamp are dropped and counted as
// failures; they never reach sequencing.
func (r *Runner) readMetadata(paths []string, loc *time.Location, log *slog.Logger, report *types.Report) []types.SourceFrame {
	frames := make([]types.SourceFrame, 0, len(paths))
	for i, path := range paths {
		md, err := exif.ReadMetadata(path, loc)
		if err != nil {
			log.Warn("skipping frame without metadata", "path", path, "error", err)
			report.Failed++
			continue
		}
		frames = append(frames, types.SourceFrame{
			Path:        path,
			Raw:         md.Timestamp,
			SourceIndex: i,
			Latitude:    md.Latitude,
			Longitude:   md.Longitude,
			HasCoords:   md.HasCoords,
		})
	}
	return frames
}

// classifyFrames applies the DST correction and the day/night filter.
// Frames with embedded GPS coordinates are classified against their own
// location; everything else uses the shared per-date ephemeris cache.
func (r *Runner) classifyFrames(frames []types.SourceFrame, dst clock.Context, eph *astro.Ephemeris, loc *time.Location, log *slog.Logger, report *types.Report) []types.CorrectedFrame {
	margin := r.Opts.NightMargin()
	accepted := make([]types.CorrectedFrame, 0, len(frames))
	for _, f := range frames {
		corrected, shifted := dst.Correct(f.Raw)

		var window types.SunWindow
		if f.HasCoords {
			w, err := astro.Window(corrected, f.Latitude, f.Longitude, loc)
			if err != nil {
				log.Warn("invalid embedded coordinates, using configured location",
					"path", f.Path, "error", err)
				w = eph.Window(corrected)
			}
			window = w
		} else {
			window = eph.Window(corrected)
		}

		class := sequence.Classify(corrected, window, margin)
		if !class.Accepted() {
			report.RejectedNight++
			continue
		}
		accepted = append(accepted, types.CorrectedFrame{
			SourceFrame: f,
			Corrected:   corrected,
			Shifted:     shifted,
			Class:       class,
		})
	}
	return accepted
}
