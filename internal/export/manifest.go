package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"

	"daylapse/internal/config"
	"daylapse/internal/types"
)

// ManifestName is the run manifest written next to the exported frames:
// zstd-compressed JSONL, a header line followed by one line per accepted
// frame. It maps every sequence number back to its source file and
// records the corrected timestamp, classification, and fade weight, so
// the export can be audited without re-running the pipeline.
const ManifestName = "manifest.jsonl.zst"

// ManifestHeader is the first line of the manifest.
type ManifestHeader struct {
	RunID     string  `json:"run_id"`
	CreatedAt string  `json:"created_at"`
	Timezone  string  `json:"timezone"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	FrameRate int     `json:"frame_rate"`
}

// ManifestEntry is one accepted frame.
type ManifestEntry struct {
	Seq        int     `json:"seq"`
	Source     string  `json:"source"`
	Timestamp  string  `json:"timestamp"`
	Class      string  `json:"class"`
	FadeWeight float64 `json:"fade_weight"`
	Shifted    bool    `json:"dst_shifted,omitempty"`
	Failed     bool    `json:"failed,omitempty"`
}

// WriteManifest writes the manifest for a completed run into the output
// directory. Entries are emitted in sequence order regardless of worker
// completion order.
func WriteManifest(opts *config.Options, runID string, tasks []types.ExportTask, failedSeqs []int) error {
	failed := make(map[int]bool, len(failedSeqs))
	for _, seq := range failedSeqs {
		failed[seq] = true
	}

	path := filepath.Join(opts.OutputDir, ManifestName)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating manifest %s: %w", path, err)
	}
	defer f.Close()

	zw, err := zstd.NewWriter(f)
	if err != nil {
		return fmt.Errorf("initializing zstd writer: %w", err)
	}
	enc := json.NewEncoder(zw)

	header := ManifestHeader{
		RunID:     runID,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Timezone:  opts.Timezone,
		Latitude:  opts.Latitude,
		Longitude: opts.Longitude,
		FrameRate: opts.FrameRate,
	}
	if err := enc.Encode(header); err != nil {
		zw.Close()
		return fmt.Errorf("encoding manifest header: %w", err)
	}

	for _, task := range tasks {
		entry := ManifestEntry{
			Seq:        task.Seq,
			Source:     task.Frame.Path,
			Timestamp:  task.Frame.Corrected.Format(time.RFC3339),
			Class:      string(task.Frame.Class),
			FadeWeight: task.FadeWeight,
			Shifted:    task.Frame.Shifted,
			Failed:     failed[task.Seq],
		}
		if err := enc.Encode(entry); err != nil {
			zw.Close()
			return fmt.Errorf("encoding manifest entry %d: %w", task.Seq, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("flushing manifest: %w", err)
	}
	return f.Close()
}

// ReadManifest loads a manifest back, for audit tooling and tests.
func ReadManifest(path string) (ManifestHeader, []ManifestEntry, error) {
	var header ManifestHeader

	f, err := os.Open(path)
	if err != nil {
		return header, nil, fmt.Errorf("opening manifest %s: %w", path, err)
	}
	defer f.Close()

	zr, err := zstd.NewReader(f, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return header, nil, fmt.Errorf("initializing zstd reader: %w", err)
	}
	defer zr.Close()

	scanner := bufio.NewScanner(zr)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	if !scanner.Scan() {
		return header, nil, fmt.Errorf("manifest %s is empty", path)
	}
	if err := json.Unmarshal(scanner.Bytes(), &header); err != nil {
		return header, nil, fmt.Errorf("decoding manifest header: %w", err)
	}

	var entries []ManifestEntry
	for scanner.Scan() {
		var entry ManifestEntry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			return header, nil, fmt.Errorf("decoding manifest entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return header, entries, scanner.Err()
}
