package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"barstack/domain/dataset"
	"barstack/domain/transform"
	"barstack/internal/errors"

	"gopkg.in/yaml.v3"
)

// Manifest lists the datasets offered in the dropdown, in dropdown order.
type Manifest struct {
	Defaults DatasetSpec   `yaml:"defaults"`
	Datasets []DatasetSpec `yaml:"datasets"`
}

// DatasetSpec is one manifest entry. Unset fields inherit from the manifest defaults.
type DatasetSpec struct {
	Label                 string         `yaml:"label"`
	Source                dataset.Source `yaml:"source"`
	XAxisLabel            string         `yaml:"x_axis_label"`
	YAxisLabel            string         `yaml:"y_axis_label"`
	CategoryParser        string         `yaml:"category_parser"`
	ValueParser           string         `yaml:"value_parser"`
	Sort                  string         `yaml:"sort"`
	XAxisTickFormat       string         `yaml:"x_axis_tick_format"`
	XAxisTickFormatMobile string         `yaml:"x_axis_tick_format_mobile"`
	XValDisplayFormat     string         `yaml:"x_value_display_format"`
	YValDisplayFormat     string         `yaml:"y_value_display_format"`
	YAxisTickFormat       string         `yaml:"y_axis_tick_format"`
	Notes                 string         `yaml:"notes"`
}

// LoadManifest reads and resolves a manifest file. Relative source paths are taken
// relative to the manifest's directory.
func LoadManifest(path string) ([]dataset.Metadata, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read dataset manifest %s", path)
	}
	metas, err := ParseManifest(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid dataset manifest %s", path)
	}
	base := filepath.Dir(path)
	for i := range metas {
		metas[i].Source.Path = resolveSourcePath(base, metas[i].Source.Path)
	}
	return metas, nil
}

// ParseManifest decodes manifest YAML into validated metadata, defaults applied.
func ParseManifest(raw []byte) ([]dataset.Metadata, error) {
	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return nil, errors.ConfigInvalid(fmt.Sprintf("manifest yaml: %v", err))
	}
	if len(m.Datasets) == 0 {
		return nil, errors.ConfigInvalid("manifest lists no datasets")
	}

	seen := make(map[string]bool, len(m.Datasets))
	metas := make([]dataset.Metadata, 0, len(m.Datasets))
	for _, spec := range m.Datasets {
		meta, err := spec.withDefaults(m.Defaults).metadata()
		if err != nil {
			return nil, err
		}
		if seen[meta.Label] {
			return nil, errors.ConfigInvalid(fmt.Sprintf("duplicate dataset label %q", meta.Label))
		}
		seen[meta.Label] = true
		metas = append(metas, meta)
	}
	return metas, nil
}

func (s DatasetSpec) withDefaults(d DatasetSpec) DatasetSpec {
	pick := func(v, def string) string {
		if v != "" {
			return v
		}
		return def
	}
	s.XAxisLabel = pick(s.XAxisLabel, d.XAxisLabel)
	s.YAxisLabel = pick(s.YAxisLabel, d.YAxisLabel)
	s.CategoryParser = pick(s.CategoryParser, d.CategoryParser)
	s.ValueParser = pick(s.ValueParser, d.ValueParser)
	s.Sort = pick(s.Sort, d.Sort)
	s.XAxisTickFormat = pick(s.XAxisTickFormat, d.XAxisTickFormat)
	s.XAxisTickFormatMobile = pick(s.XAxisTickFormatMobile, d.XAxisTickFormatMobile)
	s.XValDisplayFormat = pick(s.XValDisplayFormat, d.XValDisplayFormat)
	s.YValDisplayFormat = pick(s.YValDisplayFormat, d.YValDisplayFormat)
	s.YAxisTickFormat = pick(s.YAxisTickFormat, d.YAxisTickFormat)
	s.Notes = pick(s.Notes, d.Notes)
	if s.Source.Format == "" {
		s.Source.Format = d.Source.Format
	}
	return s
}

func (s DatasetSpec) metadata() (dataset.Metadata, error) {
	label := strings.TrimSpace(s.Label)
	if label == "" {
		return dataset.Metadata{}, errors.ConfigInvalid("every dataset needs a label")
	}
	if strings.TrimSpace(s.Source.Path) == "" {
		return dataset.Metadata{}, errors.ConfigInvalid(fmt.Sprintf("dataset %q has no source path", label))
	}
	switch s.Source.Format {
	case dataset.FormatAuto, dataset.FormatCSV, dataset.FormatXLSX, dataset.FormatJSON:
	default:
		return dataset.Metadata{}, errors.ConfigInvalid(fmt.Sprintf("dataset %q: unknown source format %q", label, s.Source.Format))
	}
	sortSpec, err := transform.ParseSortSpec(s.Sort)
	if err != nil {
		return dataset.Metadata{}, errors.ConfigInvalid(fmt.Sprintf("dataset %q: %v", label, err))
	}

	meta := dataset.Metadata{
		Label:                 label,
		XAxisLabel:            s.XAxisLabel,
		YAxisLabel:            s.YAxisLabel,
		CategoryParser:        transform.ParserKind(s.CategoryParser),
		ValueParser:           transform.ParserKind(s.ValueParser),
		Sort:                  sortSpec,
		XAxisTickFormat:       transform.FormatKind(s.XAxisTickFormat),
		XAxisTickFormatMobile: transform.FormatKind(s.XAxisTickFormatMobile),
		XValDisplayFormat:     transform.FormatKind(s.XValDisplayFormat),
		YValDisplayFormat:     transform.FormatKind(s.YValDisplayFormat),
		YAxisTickFormat:       transform.FormatKind(s.YAxisTickFormat),
		Notes:                 s.Notes,
		Source:                s.Source,
	}
	if err := meta.Validate(); err != nil {
		return dataset.Metadata{}, errors.ConfigInvalid(err.Error())
	}
	return meta, nil
}

func resolveSourcePath(base, path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
