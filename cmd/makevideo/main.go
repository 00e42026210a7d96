// Package main assembles a preprocessed frame sequence into a video by
// invoking ffmpeg. It is deliberately dumb: it knows nothing about days,
// fades, or timestamps — it consumes the numbered frame directory the
// preprocess step produced and a target output path, in that order.
//
// Usage:
//
//	makevideo [flags] FRAMES_DIR OUTPUT_VIDEO
package main

import (
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

func main() {
	rate := flag.Int("frame-rate", 30, "output video frame rate")
	flag.Parse()

	if flag.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "usage: makevideo [flags] FRAMES_DIR OUTPUT_VIDEO")
		os.Exit(2)
	}
	if err := run(flag.Arg(0), flag.Arg(1), *rate); err != nil {
		fmt.Fprintf(os.Stderr, "makevideo: %v\n", err)
		os.Exit(1)
	}
}

func run(framesDir, outPath string, rate int) error {
	info, err := os.Stat(framesDir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("frames directory %s does not exist", framesDir)
	}
	if _, err := os.Stat(outPath); err == nil {
		return fmt.Errorf("output video %s already exists", outPath)
	}

	ffmpeg, err := exec.LookPath("ffmpeg")
	if err != nil {
		return fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}

	frames, err := listFrames(framesDir)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no frames found in %s", framesDir)
	}

	listPath, err := writeConcatList(frames)
	if err != nil {
		return err
	}
	defer os.Remove(listPath)

	// Concat demuxer over the sorted frame list; numbering already
	// encodes playback order.
	cmd := exec.Command(ffmpeg,
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-r", fmt.Sprint(rate),
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		outPath,
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg failed: %w", err)
	}
	return nil
}

// listFrames returns the jpg frames under dir in lexical order, which
// for the zero-padded sequence naming is playback order.
func listFrames(dir string) ([]string, error) {
	var frames []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".jpg") {
			frames = append(frames, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}
	sort.Strings(frames)
	return frames, nil
}

// writeConcatList writes the ffmpeg concat demuxer input file and
// returns its path.
func writeConcatList(frames []string) (string, error) {
	f, err := os.CreateTemp("", "daylapse-frames-*.txt")
	if err != nil {
		return "", fmt.Errorf("creating frame list: %w", err)
	}
	for _, frame := range frames {
		abs, err := filepath.Abs(frame)
		if err != nil {
			f.Close()
			os.Remove(f.Name())
			return "", err
		}
		quoted := strings.ReplaceAll(abs, "'", `'\''`)
		if _, err := fmt.Fprintf(f, "file '%s'\n", quoted); err != nil {
			f.Close()
			os.Remove(f.Name())
			return "", fmt.Errorf("writing frame list: %w", err)
		}
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return f.Name(), nil
}
