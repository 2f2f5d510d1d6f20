package metadata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

const (
	// Unassigned is the market and district of a location missing from the sheet.
	Unassigned = "Unassigned"
	// Unknown fills the district when the sheet has no district column.
	Unknown = "Unknown"

	minSiteLen = 3
)

// Store is one row of the sheet.
type Store struct {
	Site     string
	Store    string
	Market   string
	District string
}

// Sheet is a parsed metadata sheet. The zero value and nil are empty sheets.
type Sheet struct {
	stores []Store
}

// Load reads and parses the CSV at path.
func Load(path string) (*Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("metadata: open %q: %w", path, err)
	}
	defer f.Close()

	s, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("metadata: %q: %w", path, err)
	}
	return s, nil
}

// Parse reads a sheet from r. Blank and short rows are skipped.
func Parse(r io.Reader) (*Sheet, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return &Sheet{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.NewReplacer(`"`, "", "'", "").Replace(h)))
		if _, dup := col[h]; !dup {
			col[h] = i
		}
	}
	iStore, okStore := col["store"]
	iMarket, okMarket := col["market"]
	if !okStore || !okMarket {
		return nil, errors.New("missing required columns (store, market)")
	}
	iSite, okSite := col["site"]
	iDistrict, okDistrict := col["district"]

	sheet := &Sheet{}
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if len(row) < 2 {
			continue
		}
		st := Store{
			Store:    cell(row, iStore),
			Market:   cell(row, iMarket),
			District: Unknown,
		}
		if okSite {
			st.Site = cell(row, iSite)
		}
		if okDistrict {
			st.District = cell(row, iDistrict)
		}
		sheet.stores = append(sheet.stores, st)
	}
	return sheet, nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// Len returns the number of rows in the sheet.
func (s *Sheet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.stores)
}

// Match returns the first row that belongs to locationName.
func (s *Sheet) Match(locationName string) (Store, bool) {
	if s == nil {
		return Store{}, false
	}
	name := strings.ToLower(locationName)
	for _, st := range s.stores {
		if len(st.Site) >= minSiteLen && strings.Contains(name, st.Site) {
			return st, true
		}
		if st.Store != "" && strings.Contains(name, strings.ToLower(st.Store)) {
			return st, true
		}
	}
	return Store{}, false
}

// Assign returns the market and district for locationName, or Unassigned
// for both when the location is not in the sheet.
func (s *Sheet) Assign(locationName string) (market, district string) {
	st, ok := s.Match(locationName)
	if !ok {
		return Unassigned, Unassigned
	}
	return st.Market, st.District
}

// Markets returns the distinct, sorted, non-empty markets in the sheet.
func (s *Sheet) Markets() []string {
	return s.distinct(func(st Store) string { return st.Market })
}

// Districts returns the distinct, sorted, non-empty districts in the sheet.
func (s *Sheet) Districts() []string {
	return s.distinct(func(st Store) string { return st.District })
}

func (s *Sheet) distinct(field func(Store) string) []string {
	if s == nil {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, st := range s.stores {
		v := strings.TrimSpace(field(st))
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
