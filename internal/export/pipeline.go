// Package export coordinates the end-to-end preprocessing run: input
// scan, timestamp correction, day/night filtering, day grouping, fade
// weighting, and the parallel per-frame export. Sequence numbers are
// assigned in a single-threaded pre-pass over the final day/time order,
// so worker completion order can never affect output naming.
package export

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	_ "image/png"

	"golang.org/x/sync/errgroup"

	"daylapse/internal/fade"
	"daylapse/internal/render"
	"daylapse/internal/types"
)

// jpegQuality is the encoder quality for exported frames.
const jpegQuality = 95

// BuildTasks flattens day groups into the immutable task list consumed by
// the worker pool. Sequence numbers start at 1 and increase strictly in
// day/time order; fade weights are computed here, once per frame.
func BuildTasks(groups []types.DayGroup, fadeDuration time.Duration) []types.ExportTask {
	var tasks []types.ExportTask
	seq := 1
	for _, g := range groups {
		for _, f := range g.Frames {
			tasks = append(tasks, types.ExportTask{
				Seq:        seq,
				Frame:      f,
				FadeWeight: fade.Weight(f.Corrected, g, fadeDuration),
			})
			seq++
		}
	}
	return tasks
}

// OutputName returns the output filename for a sequence number.
func OutputName(seq int) string {
	return fmt.Sprintf("%010d.jpg", seq)
}

// exportAll processes the task list on a bounded worker pool. Per-frame
// failures are collected and logged, never propagated: one corrupt image
// must not abort the run. Returns the sequence numbers that failed, in
// ascending order.
func (r *Runner) exportAll(ctx context.Context, tasks []types.ExportTask) ([]int, error) {
	if err := os.MkdirAll(r.Opts.OutputDir, 0o755); err != nil {
		return nil, types.NewAppError(types.ErrCodeConfigOutputUnwritable,
			fmt.Sprintf("creating output directory %s", r.Opts.OutputDir), err)
	}
	// Probe writability before starting any worker: an unwritable output
	// directory is a setup failure, not a per-frame one.
	probe := filepath.Join(r.Opts.OutputDir, ".daylapse-probe")
	f, err := os.Create(probe)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeConfigOutputUnwritable,
			fmt.Sprintf("output directory %s is not writable", r.Opts.OutputDir), err)
	}
	f.Close()
	os.Remove(probe)

	var (
		mu     sync.Mutex
		failed []int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.Opts.WorkerCount)
	for _, task := range tasks {
		task := task
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			if err := r.processFrame(task); err != nil {
				r.Log.Warn("frame export failed",
					"seq", task.Seq,
					"path", task.Frame.Path,
					"error", err,
				)
				mu.Lock()
				failed = append(failed, task.Seq)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("export pool: %w", err)
	}

	sort.Ints(failed)
	return failed, nil
}

// processFrame is one independent unit of work: read, fade-blend, resize,
// overlay, write.
func (r *Runner) processFrame(task types.ExportTask) error {
	f, err := os.Open(task.Frame.Path)
	if err != nil {
		return types.NewAppErrorWithDetails(types.ErrCodeFrameUnreadable,
			fmt.Sprintf("opening %s", task.Frame.Path), err,
			map[string]any{"seq": task.Seq})
	}
	img, _, err := image.Decode(f)
	f.Close()
	if err != nil {
		return types.NewAppErrorWithDetails(types.ErrCodeFrameDecode,
			fmt.Sprintf("decoding %s", task.Frame.Path), err,
			map[string]any{"seq": task.Seq})
	}

	img = fade.Blend(img, task.FadeWeight)
	img = render.Resize(img, r.Opts.ResizeWidth)
	if r.Overlay != nil {
		rgba := toRGBA(img)
		r.Overlay.Stamp(rgba, task.Frame.Corrected)
		img = rgba
	}

	outPath := filepath.Join(r.Opts.OutputDir, OutputName(task.Seq))
	out, err := os.Create(outPath)
	if err != nil {
		return types.NewAppErrorWithDetails(types.ErrCodeFrameWrite,
			fmt.Sprintf("creating %s", outPath), err,
			map[string]any{"seq": task.Seq})
	}
	if err := jpeg.Encode(out, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		out.Close()
		return types.NewAppErrorWithDetails(types.ErrCodeFrameWrite,
			fmt.Sprintf("encoding %s", outPath), err,
			map[string]any{"seq": task.Seq})
	}
	return out.Close()
}

// toRGBA returns img as a drawable RGBA image, copying only when needed.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	rgba := image.NewRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	return rgba
}

