package output

import (
	"bytes"
	"time"

	"gopkg.in/yaml.v3"
)

// yamlOutput represents the full YAML output structure.
type yamlOutput struct {
	Kind   string      `yaml:"kind"`
	Files  []yamlFile  `yaml:"files"`
	Groups []yamlGroup `yaml:"groups,omitempty"`
	Stats  yamlStats   `yaml:"stats"`
	Meta   yamlMeta    `yaml:"meta"`
}

// yamlFile represents a proposed file in YAML output.
type yamlFile struct {
	Path      string    `yaml:"path"`
	Name      string    `yaml:"name,omitempty"`
	Dir       string    `yaml:"dir,omitempty"`
	Ext       string    `yaml:"ext,omitempty"`
	Size      int64     `yaml:"size"`
	SizeHuman string    `yaml:"size_human"`
	ModTime   time.Time `yaml:"mod_time,omitempty"`
	Age       string    `yaml:"age,omitempty"`
	Hash      string    `yaml:"hash,omitempty"`
}

// yamlGroup represents a duplicate group in YAML output.
type yamlGroup struct {
	Hash             string     `yaml:"hash"`
	Count            int        `yaml:"count"`
	Size             int64      `yaml:"size"`
	SizeHuman        string     `yaml:"size_human"`
	Reclaimable      int64      `yaml:"reclaimable"`
	ReclaimableHuman string     `yaml:"reclaimable_human"`
	Files            []yamlFile `yaml:"files"`
}

// yamlStats represents scan statistics in YAML output.
type yamlStats struct {
	DirsScanned  int64  `yaml:"dirs_scanned"`
	FilesScanned int64  `yaml:"files_scanned"`
	BytesScanned int64  `yaml:"bytes_scanned"`
	Duration     string `yaml:"duration"`
}

// yamlMeta represents metadata in YAML output.
type yamlMeta struct {
	Roots       []string `yaml:"roots"`
	ScanID      string   `yaml:"scan_id,omitempty"`
	TotalFiles  int      `yaml:"total_files"`
	TotalGroups int      `yaml:"total_groups"`
	TotalSize   int64    `yaml:"total_size"`
	Reclaimable int64    `yaml:"reclaimable"`
	Warnings    []string `yaml:"warnings,omitempty"`
	Interrupted bool     `yaml:"interrupted"`
}

// YAMLFormatter formats output as YAML.
// It produces the same structure as JSONFormatter but in YAML format.
type YAMLFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *YAMLFormatter) Format(w *bytes.Buffer, r *Result) error {
	output := f.buildOutput(r)

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(output); err != nil {
		return err
	}
	return encoder.Close()
}

// buildOutput converts Result to the YAML output structure.
func (f *YAMLFormatter) buildOutput(r *Result) yamlOutput {
	files := make([]yamlFile, len(r.Files))
	for i, file := range r.Files {
		files[i] = buildYAMLFile(file)
	}

	groups := make([]yamlGroup, len(r.Groups))
	for i, group := range r.Groups {
		members := make([]yamlFile, len(group.Files))
		for j, file := range group.Files {
			members[j] = buildYAMLFile(file)
		}
		groups[i] = yamlGroup{
			Hash:             group.Hash,
			Count:            group.Count,
			Size:             group.Size,
			SizeHuman:        group.SizeHuman,
			Reclaimable:      group.Reclaimable,
			ReclaimableHuman: group.ReclaimableHuman,
			Files:            members,
		}
	}
	if len(groups) == 0 {
		groups = nil
	}

	stats := yamlStats{
		DirsScanned:  r.Stats.DirsScanned,
		FilesScanned: r.Stats.FilesScanned,
		BytesScanned: r.Stats.BytesScanned,
		Duration:     formatDurationString(r.Stats.Duration),
	}

	meta := yamlMeta{
		Roots:       r.Roots,
		ScanID:      r.ScanID,
		TotalFiles:  r.TotalFiles,
		TotalGroups: r.TotalGroups,
		TotalSize:   r.TotalSize(),
		Reclaimable: r.Reclaimable(),
		Warnings:    r.Warnings,
		Interrupted: r.Interrupted,
	}

	return yamlOutput{
		Kind:   r.Kind,
		Files:  files,
		Groups: groups,
		Stats:  stats,
		Meta:   meta,
	}
}

// buildYAMLFile converts a FileInfo to its YAML mirror.
func buildYAMLFile(file FileInfo) yamlFile {
	return yamlFile{
		Path:      file.Path,
		Name:      file.Name,
		Dir:       file.Dir,
		Ext:       file.Ext,
		Size:      file.Size,
		SizeHuman: file.SizeHuman,
		ModTime:   file.ModTime,
		Age:       formatDurationString(file.Age),
		Hash:      file.Hash,
	}
}

func init() {
	Register("yaml", func() Formatter {
		return &YAMLFormatter{}
	})
}

// Ensure YAMLFormatter implements Formatter.
var _ Formatter = (*YAMLFormatter)(nil)
