package metadata

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sheetCSV = `"Site","Store","Market","District","DM Email"
101,Main Street,North,D1,dm1@example.com
2044,"Harbor View",South,D7,dm7@example.com
,Airport,North,D2,dm2@example.com
lonely

`

func TestParse(t *testing.T) {
	s, err := Parse(strings.NewReader(sheetCSV))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if s.Len() != 3 {
		t.Fatalf("Len: got %d, want 3", s.Len())
	}
	st, ok := s.Match("Store 2044 - Downtown")
	if !ok || st.Store != "Harbor View" || st.District != "D7" {
		t.Errorf("Match by site: got %+v, %v", st, ok)
	}
}

func TestParse_MissingRequiredColumn(t *testing.T) {
	if _, err := Parse(strings.NewReader("site,store,district\n1,a,b\n")); err == nil {
		t.Fatal("expected error without a market column")
	}
}

func TestParse_NoDistrictColumn(t *testing.T) {
	s, err := Parse(strings.NewReader("STORE,MARKET\nAirport,West\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if m, d := s.Assign("Airport Terminal B"); m != "West" || d != Unknown {
		t.Errorf("Assign: got %q/%q, want West/%s", m, d, Unknown)
	}
}

func TestParse_Empty(t *testing.T) {
	s, err := Parse(strings.NewReader(""))
	if err != nil || s.Len() != 0 {
		t.Errorf("empty input: got %d rows, err %v", s.Len(), err)
	}
}

func TestMatch(t *testing.T) {
	s, err := Parse(strings.NewReader(sheetCSV))
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name     string
		location string
		wantOK   bool
		want     string
	}{
		{"site code", "#101 Springfield", true, "Main Street"},
		{"store name is case-insensitive", "AIRPORT concourse", true, "Airport"},
		{"store name contained", "Jolt Harbor View Plaza", true, "Harbor View"},
		{"no match", "Store 999 Elsewhere", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, ok := s.Match(tt.location)
			if ok != tt.wantOK || st.Store != tt.want {
				t.Errorf("Match(%q) = %+v, %v; want %q, %v", tt.location, st, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestMatch_ShortSiteIgnored(t *testing.T) {
	s, err := Parse(strings.NewReader("site,store,market\n12,Lakeside,East\n"))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Match("Store 1234"); ok {
		t.Error("a two-character site code must not match")
	}
}

func TestAssign_Unassigned(t *testing.T) {
	var s *Sheet
	if m, d := s.Assign("anything"); m != Unassigned || d != Unassigned {
		t.Errorf("nil sheet: got %q/%q", m, d)
	}
}

func TestMarketsAndDistricts(t *testing.T) {
	s, err := Parse(strings.NewReader(sheetCSV))
	if err != nil {
		t.Fatal(err)
	}
	if got := s.Markets(); strings.Join(got, ",") != "North,South" {
		t.Errorf("Markets: got %v", got)
	}
	if got := s.Districts(); strings.Join(got, ",") != "D1,D2,D7" {
		t.Errorf("Districts: got %v", got)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stores.csv")
	if err := os.WriteFile(path, []byte(sheetCSV), 0o600); err != nil {
		t.Fatal(err)
	}
	s, err := Load(path)
	if err != nil || s.Len() != 3 {
		t.Fatalf("Load: %d rows, err %v", s.Len(), err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Error("expected error for a missing file")
	}
}
