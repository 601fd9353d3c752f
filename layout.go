package livingset

import (
	"path/filepath"
	"sort"
	"time"

	"github.com/agentstation/livingset/pkg/constants"
	"github.com/agentstation/livingset/pkg/dataset"
	"github.com/agentstation/livingset/pkg/errors"
	"github.com/agentstation/livingset/pkg/validation"
)

// Paths locates the files of one data type.
type Paths struct {
	Stem       string `json:"stem" yaml:"stem"`
	Living     string `json:"living" yaml:"living"`
	Latest     string `json:"latest" yaml:"latest"`
	Raw        string `json:"raw" yaml:"raw"`
	BackupDir  string `json:"backup_dir" yaml:"backup_dir"`
	Quarantine string `json:"quarantine" yaml:"quarantine"` // directory
}

// QuarantinePath returns the quarantine file for rejected rows of role on asOf's day.
// Rejected snapshot rows go to <stem>_quarantine_YYYYMMDD.csv, rejected living
// rows to <stem>_living_quarantine_YYYYMMDD.csv.
func (p Paths) QuarantinePath(role string, asOf time.Time) string {
	name := p.Stem
	if role == validation.RoleLiving {
		name += constants.LivingSuffix
	}
	name += constants.QuarantineSuffix + "_" + asOf.Format(constants.BackupDateLayout) + constants.CSVExtension
	return filepath.Join(p.Quarantine, name)
}

// abs makes every path absolute.
func (p Paths) abs() (Paths, error) {
	var err error
	for _, field := range []*string{&p.Living, &p.Latest, &p.Raw, &p.BackupDir, &p.Quarantine} {
		if *field == "" {
			continue
		}
		if *field, err = filepath.Abs(*field); err != nil {
			return p, errors.NewConfigError("layout", "cannot resolve "+*field, err)
		}
	}
	return p, nil
}

// DefaultPaths derives the conventional file names of stem inside dir.
func DefaultPaths(dir, stem string) Paths {
	return Paths{
		Stem:       stem,
		Living:     filepath.Join(dir, stem+constants.LivingSuffix+constants.CSVExtension),
		Latest:     filepath.Join(dir, stem+constants.LatestSuffix+constants.CSVExtension),
		Raw:        filepath.Join(dir, stem+constants.CSVExtension),
		BackupDir:  dir,
		Quarantine: dir,
	}
}

// Layout maps each data type to its files.
type Layout map[dataset.DataType]Paths

// DefaultLayout places every known data type's files in dir.
func DefaultLayout(dir string) Layout {
	l := make(Layout, len(dataset.All()))
	for _, dt := range dataset.All() {
		l[dt] = DefaultPaths(dir, dt.Schema().Stem)
	}
	return l
}

// Paths returns the files of dt.
func (l Layout) Paths(dt dataset.DataType) (Paths, error) {
	p, ok := l[dt]
	if !ok {
		return Paths{}, errors.NewConfigError("layout", "no paths configured for data type "+dt.String(), nil)
	}
	return p, nil
}

// Types returns the configured data types in canonical order.
func (l Layout) Types() []dataset.DataType {
	types := make([]dataset.DataType, 0, len(l))
	for _, dt := range dataset.All() {
		if _, ok := l[dt]; ok {
			types = append(types, dt)
		}
	}
	return types
}

// Override describes per-type deviations from the default layout.
// Relative paths are resolved against the data directory.
type Override struct {
	Stem      string `yaml:"stem" json:"stem"`
	Living    string `yaml:"living" json:"living"`
	Latest    string `yaml:"latest" json:"latest"`
	Raw       string `yaml:"raw" json:"raw"`
	BackupDir string `yaml:"backup_dir" json:"backup_dir"`
}

// WithOverrides returns a copy of l with overrides applied; dir is the data directory.
func (l Layout) WithOverrides(dir string, overrides map[dataset.DataType]Override) Layout {
	out := make(Layout, len(l))
	for dt, p := range l {
		out[dt] = p
	}

	types := make([]dataset.DataType, 0, len(overrides))
	for dt := range overrides {
		types = append(types, dt)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	resolve := func(path string) string {
		if path == "" || filepath.IsAbs(path) {
			return path
		}
		return filepath.Join(dir, path)
	}
	for _, dt := range types {
		o := overrides[dt]
		p, ok := out[dt]
		if !ok {
			p = DefaultPaths(dir, dt.Schema().Stem)
		}
		if o.Stem != "" {
			p = DefaultPaths(dir, o.Stem)
		}
		if o.Living != "" {
			p.Living = resolve(o.Living)
		}
		if o.Latest != "" {
			p.Latest = resolve(o.Latest)
		}
		if o.Raw != "" {
			p.Raw = resolve(o.Raw)
		}
		if o.BackupDir != "" {
			p.BackupDir = resolve(o.BackupDir)
		}
		out[dt] = p
	}
	return out
}

// Abs returns a copy of l with every path made absolute.
func (l Layout) Abs() (Layout, error) {
	out := make(Layout, len(l))
	for dt, p := range l {
		abs, err := p.abs()
		if err != nil {
			return nil, err
		}
		out[dt] = abs
	}
	return out, nil
}
