package calculation

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/pensioncalc/corpus-engine/internal/assets"
	"github.com/pensioncalc/corpus-engine/internal/domain"
	"github.com/shopspring/decimal"
)

// AllowanceArchive is one file of historical dearness allowance values.
type AllowanceArchive struct {
	Name    string                  `json:"name"`
	Entries []domain.AllowanceEntry `json:"entries"`
	First   domain.HalfYear         `json:"first"`
	Last    domain.HalfYear         `json:"last"`
}

// ReferenceData is the tabular input loaded once before any simulation.
type ReferenceData struct {
	BaseTable *domain.PayScaleTable
	Archive   []domain.AllowanceEntry
}

// ReferenceDataManager loads the pay scale and allowance archives from a
// directory, or from the embedded defaults when DataPath is empty.
type ReferenceDataManager struct {
	DataPath     string
	PayScaleFile string
	ArchiveFiles []string
	Logger       Logger
}

// NewReferenceDataManager creates a manager with the default file names.
func NewReferenceDataManager(dataPath string) *ReferenceDataManager {
	return &ReferenceDataManager{
		DataPath:     dataPath,
		PayScaleFile: assets.PayScaleFile,
		ArchiveFiles: append([]string(nil), assets.ArchiveFiles...),
		Logger:       NopLogger{},
	}
}

// NewReferenceDataManagerFromSettings applies configured overrides on top of the defaults.
func NewReferenceDataManagerFromSettings(s domain.DataSettings) *ReferenceDataManager {
	m := NewReferenceDataManager(s.Directory)
	if s.PayScaleFile != "" {
		m.PayScaleFile = s.PayScaleFile
	}
	if len(s.ArchiveFiles) > 0 {
		m.ArchiveFiles = append([]string(nil), s.ArchiveFiles...)
	}
	return m
}

func (m *ReferenceDataManager) fsys() fs.FS {
	if m.DataPath == "" {
		return assets.FS
	}
	return os.DirFS(m.DataPath)
}

// LoadAllData loads the base pay scale and merges every allowance archive.
func (m *ReferenceDataManager) LoadAllData() (*ReferenceData, error) {
	fsys := m.fsys()

	table, err := LoadPayScaleFile(fsys, m.PayScaleFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load pay scale: %w", err)
	}

	var archives []*AllowanceArchive
	for _, name := range m.ArchiveFiles {
		archive, err := m.loadArchive(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("failed to load allowance archive %s: %w", name, err)
		}
		archives = append(archives, archive)
	}

	return &ReferenceData{BaseTable: table, Archive: MergeArchives(archives...)}, nil
}

func (m *ReferenceDataManager) loadArchive(fsys fs.FS, name string) (*AllowanceArchive, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", name, err)
	}
	defer f.Close()

	logger := m.Logger
	if logger == nil {
		logger = NopLogger{}
	}
	return ReadAllowanceArchive(f, strings.TrimSuffix(path.Base(name), ".csv"), logger)
}

// ReadAllowanceArchive parses "period,percent" rows where period is YYYY.0 or
// YYYY.5. Malformed rows are skipped.
func ReadAllowanceArchive(r io.Reader, name string, logger Logger) (*AllowanceArchive, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	// Read header
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("invalid CSV format: expected at least 2 columns")
	}

	var entries []domain.AllowanceEntry
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read data row: %w", err)
		}

		if len(record) < 2 {
			continue // Skip malformed rows
		}
		period, err := domain.ParseHalfYear(record[0])
		if err != nil {
			logger.Warnf("%s: skipping row with invalid period %q", name, record[0])
			continue
		}
		value, err := decimal.NewFromString(strings.TrimSpace(record[1]))
		if err != nil || value.IsNegative() {
			logger.Warnf("%s: skipping row with invalid allowance %q", name, record[1])
			continue
		}
		entries = append(entries, domain.AllowanceEntry{Period: period, Percent: value, Source: domain.AllowanceArchived})
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("no valid data points found in %s", name)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Period.Before(entries[j].Period) })
	return &AllowanceArchive{
		Name:    name,
		Entries: entries,
		First:   entries[0].Period,
		Last:    entries[len(entries)-1].Period,
	}, nil
}

// MergeArchives combines archives into one ordered list; later archives win on overlap.
func MergeArchives(archives ...*AllowanceArchive) []domain.AllowanceEntry {
	byPeriod := make(map[domain.HalfYear]domain.AllowanceEntry)
	for _, a := range archives {
		if a == nil {
			continue
		}
		for _, e := range a.Entries {
			byPeriod[e.Period] = e
		}
	}
	merged := make([]domain.AllowanceEntry, 0, len(byPeriod))
	for _, e := range byPeriod {
		merged = append(merged, e)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].Period.Before(merged[j].Period) })
	return merged
}
