package api

import (
	"net/http"
	"sort"
	"strings"

	"github.com/Ckuran148/Jolt/pkg/types"
	"github.com/Ckuran148/Jolt/server/internal/auth"
	"github.com/Ckuran148/Jolt/server/internal/store"
)

// viewFilter holds the grid query parameters.
type viewFilter struct {
	market   string
	district string
	location string
	grouped  bool
}

// parseFilter reads ?market=&district=&location=&grouped=. "all" is the
// same as no filter.
func parseFilter(r *http.Request) viewFilter {
	q := r.URL.Query()
	return viewFilter{
		market:   filterValue(q.Get("market")),
		district: filterValue(q.Get("district")),
		location: filterValue(q.Get("location")),
		grouped:  q.Get("grouped") == "true",
	}
}

func filterValue(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, "all") {
		return ""
	}
	return v
}

// match compares market and district exactly after trimming; location
// matches the id or a case-insensitive substring of the name.
func (f viewFilter) match(r *types.StoreReport) bool {
	if f.market != "" && strings.TrimSpace(r.Market) != f.market {
		return false
	}
	if f.district != "" && strings.TrimSpace(r.District) != f.district {
		return false
	}
	if f.location != "" && r.LocationID != f.location &&
		!strings.Contains(strings.ToLower(r.LocationName), strings.ToLower(f.location)) {
		return false
	}
	return true
}

// filterEntries keeps the entries p may see that pass f, sorted by name or,
// when grouped, by market, district, then name.
func filterEntries(entries []*store.Entry, p auth.Profile, f viewFilter) []*store.Entry {
	out := make([]*store.Entry, 0, len(entries))
	for _, e := range entries {
		if p.Allows(e.Report) && f.match(e.Report) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Report, out[j].Report
		if f.grouped {
			if a.Market != b.Market {
				return a.Market < b.Market
			}
			if a.District != b.District {
				return a.District < b.District
			}
		}
		if a.LocationName != b.LocationName {
			return a.LocationName < b.LocationName
		}
		return a.LocationID < b.LocationID
	})
	return out
}
