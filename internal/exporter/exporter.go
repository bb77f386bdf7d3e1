package exporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"GasSentinel/internal/calculator"
	"GasSentinel/internal/model"
)

// DefaultDir is where exports land when no directory is configured.
const DefaultDir = "exports"

// HistorySource provides the samples to export, oldest first.
type HistorySource interface {
	History() []model.Sample
}

// Result describes a written export file.
type Result struct {
	Path        string `json:"path"`
	RecordCount int    `json:"recordCount"`
}

// File is one entry of ListExports.
type File struct {
	Name    string    `json:"name"`
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"modTime"`
}

// Exporter writes the analyzer history to JSON or CSV files.
type Exporter struct {
	Dir    string
	Source HistorySource
	Now    func() time.Time

	create func(path string) (io.WriteCloser, error)
}

func (e *Exporter) createFile(path string) (io.WriteCloser, error) {
	if e.create != nil {
		return e.create(path)
	}
	return os.Create(path)
}

// New creates an Exporter writing into dir.
func New(dir string, src HistorySource) *Exporter {
	if dir == "" {
		dir = DefaultDir
	}
	return &Exporter{Dir: dir, Source: src, Now: time.Now}
}

type jsonExport struct {
	ExportDate      string            `json:"exportDate"`
	TotalDataPoints int               `json:"totalDataPoints"`
	Data            []model.Sample    `json:"data"`
	Statistics      *model.Statistics `json:"statistics"`
}

// ExportJSON writes the history and its statistics. An empty history still
// produces a file, with null statistics.
func (e *Exporter) ExportJSON(filename string) (*Result, error) {
	history := e.Source.History()
	if history == nil {
		history = []model.Sample{}
	}
	// Summarize fails only on an empty history, which exports null statistics.
	stats, _ := calculator.Summarize(history)

	payload := jsonExport{
		ExportDate:      e.Now().UTC().Format("2006-01-02T15:04:05.000Z"),
		TotalDataPoints: len(history),
		Data:            history,
		Statistics:      stats,
	}
	body, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal export: %w", err)
	}

	path, err := e.prepare(filename, ".json")
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	return &Result{Path: path, RecordCount: len(history)}, nil
}

// ExportCSV writes one row per sample. An empty history yields model.ErrNoData
// and no file.
func (e *Exporter) ExportCSV(filename string) (*Result, error) {
	history := e.Source.History()
	if len(history) == 0 {
		return nil, model.ErrNoData
	}

	path, err := e.prepare(filename, ".csv")
	if err != nil {
		return nil, err
	}
	file, err := e.createFile(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	if err := writeCSV(file, history); err != nil {
		file.Close()
		return nil, err
	}
	// A failed close can mean the rows never reached the disk.
	if err := file.Close(); err != nil {
		return nil, fmt.Errorf("close %s: %w", path, err)
	}
	return &Result{Path: path, RecordCount: len(history)}, nil
}

func writeCSV(out io.Writer, history []model.Sample) error {
	w := csv.NewWriter(out)
	if err := w.Write([]string{"timestamp", "date", "slow", "standard", "fast"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, s := range history {
		row := []string{
			strconv.FormatInt(s.Timestamp, 10),
			calculator.FormatTimestamp(s.Timestamp),
			strconv.FormatInt(s.Slow, 10),
			strconv.FormatInt(s.Standard, 10),
			strconv.FormatInt(s.Fast, 10),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// ListExports returns the .json and .csv files in the export directory,
// sorted by name. A missing directory yields an empty list.
func (e *Exporter) ListExports() ([]File, error) {
	entries, err := os.ReadDir(e.Dir)
	if os.IsNotExist(err) {
		return []File{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read export dir: %w", err)
	}

	files := make([]File, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !(strings.HasSuffix(name, ".json") || strings.HasSuffix(name, ".csv")) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, File{
			Name:    name,
			Path:    filepath.Join(e.Dir, name),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// DefaultFilename is gas-data-YYYY-MM-DD with the given extension, dated in UTC.
func (e *Exporter) DefaultFilename(ext string) string {
	return "gas-data-" + e.Now().UTC().Format("2006-01-02") + ext
}

func (e *Exporter) prepare(filename, ext string) (string, error) {
	if filename == "" {
		filename = e.DefaultFilename(ext)
	}
	// Callers may only choose a name inside the export directory.
	filename = filepath.Base(filename)
	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	return filepath.Join(e.Dir, filename), nil
}
