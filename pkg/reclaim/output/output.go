// Package output provides formatters for displaying reclaim scan results
// in various output formats (pretty, plain, json, yaml, etc.).
//
// The package uses a registry pattern to allow registration of multiple
// formatter implementations that can be selected at runtime.
//
// Basic usage:
//
//	formatter, err := output.Get("pretty")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	var buf bytes.Buffer
//	if err := formatter.Format(&buf, result); err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(buf.String())
package output

import (
	"bytes"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jamesainslie/reclaim/pkg/reclaim/logging"
)

// logger is the package-level logger for output operations.
var logger = logging.Get("output")

// FileInfo contains detailed information about a proposed file for output
// formatting. It extends the basic file metadata with computed fields like
// human-readable size and age for easier formatting.
type FileInfo struct {
	// Path is the absolute path to the file.
	Path string `json:"path" yaml:"path"`

	// Name is the base name of the file.
	Name string `json:"name" yaml:"name"`

	// Dir is the directory containing the file.
	Dir string `json:"dir" yaml:"dir"`

	// Ext is the file extension including the dot (e.g., ".zip").
	Ext string `json:"ext" yaml:"ext"`

	// Size is the file size in bytes.
	Size int64 `json:"size" yaml:"size"`

	// SizeHuman is the human-readable file size (e.g., "1.5 GiB").
	SizeHuman string `json:"size_human" yaml:"size_human"`

	// ModTime is the last modification time of the file.
	ModTime time.Time `json:"mod_time" yaml:"mod_time"`

	// Age is the time since the file was last modified.
	Age time.Duration `json:"age" yaml:"age"`

	// Hash is the hex-encoded content hash, set only for duplicate scans.
	Hash string `json:"hash,omitempty" yaml:"hash,omitempty"`
}

// GroupInfo contains a duplicate group for output formatting. Members are
// byte-identical copies; keeping one and deleting the rest frees
// Reclaimable bytes.
type GroupInfo struct {
	// Hash is the hex-encoded content hash shared by all members.
	Hash string `json:"hash" yaml:"hash"`

	// Count is the number of copies in the group.
	Count int `json:"count" yaml:"count"`

	// Size is the per-copy size in bytes.
	Size int64 `json:"size" yaml:"size"`

	// SizeHuman is the human-readable per-copy size.
	SizeHuman string `json:"size_human" yaml:"size_human"`

	// Reclaimable is the space freed by keeping one copy.
	Reclaimable int64 `json:"reclaimable" yaml:"reclaimable"`

	// ReclaimableHuman is the human-readable reclaimable size.
	ReclaimableHuman string `json:"reclaimable_human" yaml:"reclaimable_human"`

	// Files are the group members, sorted by path.
	Files []FileInfo `json:"files" yaml:"files"`
}

// ScanStats contains statistics about a scan operation.
type ScanStats struct {
	// DirsScanned is the total number of directories traversed.
	DirsScanned int64 `json:"dirs_scanned" yaml:"dirs_scanned"`

	// FilesScanned is the total number of files examined.
	FilesScanned int64 `json:"files_scanned" yaml:"files_scanned"`

	// BytesScanned is the total size of all files examined.
	BytesScanned int64 `json:"bytes_scanned" yaml:"bytes_scanned"`

	// Duration is the total time taken to complete the scan.
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// Result contains the complete output data for formatting. It includes the
// proposed files or duplicate groups, scan statistics, and metadata about
// the scan operation. Record-producing scans fill Files; duplicate scans
// fill Groups.
type Result struct {
	// Kind names the scan strategy that produced the result.
	Kind string `json:"kind" yaml:"kind"`

	// Files contains the proposed files, sorted by size descending.
	Files []FileInfo `json:"files" yaml:"files"`

	// Groups contains the duplicate groups found, largest first.
	Groups []GroupInfo `json:"groups,omitempty" yaml:"groups,omitempty"`

	// Stats contains scan statistics.
	Stats ScanStats `json:"stats" yaml:"stats"`

	// Roots are the directories that were scanned.
	Roots []string `json:"roots" yaml:"roots"`

	// ScanID uniquely identifies the scan run.
	ScanID string `json:"scan_id" yaml:"scan_id"`

	// TotalFiles is the total number of proposed files in the result.
	TotalFiles int `json:"total_files" yaml:"total_files"`

	// TotalGroups is the total number of duplicate groups in the result.
	TotalGroups int `json:"total_groups" yaml:"total_groups"`

	// Warnings contains any warning messages generated during the scan.
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`

	// Interrupted indicates if the scan was cancelled before finishing.
	// An interrupted result is a valid partial result, not an error.
	Interrupted bool `json:"interrupted" yaml:"interrupted"`
}

// TotalSize returns the sum of all proposed file sizes in the result,
// including every member of every duplicate group.
func (r *Result) TotalSize() int64 {
	var total int64
	for _, f := range r.Files {
		total += f.Size
	}
	for _, g := range r.Groups {
		total += int64(g.Count) * g.Size
	}
	return total
}

// Reclaimable returns the space the result proposes to free: every proposed
// file plus, for each duplicate group, all copies but one.
func (r *Result) Reclaimable() int64 {
	var total int64
	for _, f := range r.Files {
		total += f.Size
	}
	for _, g := range r.Groups {
		total += g.Reclaimable
	}
	return total
}

// Formatter is the interface that all output formatters must implement.
type Formatter interface {
	// Format writes the formatted output to the buffer.
	// It returns an error if formatting fails.
	Format(w *bytes.Buffer, r *Result) error
}

// FormatterFactory is a function that creates a new Formatter instance.
type FormatterFactory func() Formatter

// Registry manages formatter registration and lookup.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]FormatterFactory
}

// NewRegistry creates a new formatter registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]FormatterFactory),
	}
}

// Register adds a formatter factory to the registry.
// It will replace any existing formatter with the same name.
func (r *Registry) Register(name string, factory FormatterFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get returns a new formatter instance by name.
// It returns an error if the formatter is not found.
func (r *Registry) Get(name string) (Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown formatter: %s", name)
	}
	return factory(), nil
}

// Available returns a sorted list of all registered formatter names.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the global formatter registry.
var DefaultRegistry = NewRegistry()

// Register adds a formatter factory to the default registry.
func Register(name string, factory FormatterFactory) {
	DefaultRegistry.Register(name, factory)
}

// Get returns a new formatter instance from the default registry.
func Get(name string) (Formatter, error) {
	return DefaultRegistry.Get(name)
}

// Available returns all formatter names from the default registry.
func Available() []string {
	return DefaultRegistry.Available()
}
