package compute

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Ckuran148/Jolt/pkg/types"
)

// Report section titles.
const (
	SectionCriticalFocus = "CRITICAL DAILY FOCUS"
	SectionBreakfast     = "BREAKFAST PRODUCTS (DP1 Only)"
	SectionProducts      = "PRODUCT TEMPERATURES"
	SectionEquipment     = "EQUIPMENT TEMPERATURES"
)

// reportDateLayout is the display format of dates in the DFSL report.
const reportDateLayout = "01-02-2006"

const (
	rowCriticalCompleted = "Critical Focus Completed"
	rowSanitizerStrength = "Sanitizer Strength"
	withinRange          = "Within Range"
)

// blocked marks daypart columns that never carry a row, indexed like
// types.Dayparts.
type blocked [3]bool

var (
	blockDP5     = blocked{false, false, true}
	blockDP3And5 = blocked{false, true, true}
	blockDP1     = blocked{true, false, false}
)

// rowSpec describes one keyword-matched report row.
type rowSpec struct {
	label    string
	keywords []string
	date     bool
	block    blocked
}

var criticalRows = []rowSpec{
	{label: rowSanitizerStrength, keywords: []string{"Sanitizer Strength", "Quat", "PPM", "Solution"}, block: blockDP5},
	{label: "Sanitizer Exp. Date", keywords: []string{"Exp. Date", "Expiration"}, date: true, block: blockDP5},
	{label: "Probe Calibration", keywords: []string{"Calibration", "Thermometer"}, block: blockDP5},
}

var breakfastRows = []rowSpec{
	{label: "Jr. Chicken Filet (Hold)", keywords: []string{"Jr. Chicken", "Junior Chicken"}},
	{label: "Sausage Gravy / Carryover", keywords: []string{"Gravy", "Carryover"}},
	{label: "Cooked Sausage", keywords: []string{"Cooked Sausage"}},
	{label: "Swiss Cheese Sauce", keywords: []string{"Swiss"}},
	{label: "Eggs", keywords: []string{"Egg"}},
}

var productRows = []rowSpec{
	{label: "Frosty Mix (Hopper)", keywords: []string{"Frosty Mix", "Vanilla", "Chocolate"}},
	{label: "Chili", keywords: []string{"Chili", "Chili:"}},
	{label: "Sliced Tomatoes", keywords: []string{"Tomato"}},
	{label: "Lettuce", keywords: []string{"Lettuce"}},
	{label: "Shredded Cheddar", keywords: []string{"Cheddar", "Shredded"}},
	{label: "Bleu Cheese Crumbles", keywords: []string{"Bleu Cheese"}},
	{label: "Cheese Sauce", keywords: []string{"Cheese Sauce"}},
	{label: "Chicken Nuggets", keywords: []string{"Nugget"}},
	{label: "Crispy Chicken", keywords: []string{"Crispy"}},
	{label: "Spicy Chicken", keywords: []string{"Spicy"}},
	{label: "Classic Chicken", keywords: []string{"Classic", "Homestyle"}},
	{label: "Diced Chicken", keywords: []string{"Diced"}},
	{label: "Chili Meat", keywords: []string{"Chili Meat"}},
	{label: "Cooked Meat (Flat Grill)", keywords: []string{"Flat Grill", "Cooked Meat Patty-Flat"}},
	{label: "Cooked Meat (DSG)", keywords: []string{"DSG", "Cooked Meat Patty-DSG"}},
	{label: "Panned Small Meat", keywords: []string{"Panned Small", "Raw", "Panned"}},
}

var equipmentRows = []rowSpec{
	{label: "Walk-in Freezer", keywords: []string{"Walk-in Freezer"}},
	{label: "Walk-in Cooler", keywords: []string{"Walk-in Cooler"}},
	{label: "Meat Well", keywords: []string{"Meat Well"}},
	{label: "Reach-in Freezer", keywords: []string{"Reach-in Freezer", "Upright Freezer"}},
	{label: "Salad Reach-in/Upright", keywords: []string{"Salad Reach-in", "Salad Upright"}},
	{label: "Sandwich Station (Side 1/DT)", keywords: []string{"Sandwich Station (PUW", "Side 1", "DT"}},
	{label: "Sandwich Station (Side 2/Lobby)", keywords: []string{"Sandwich Station (Side 2", "Lobby", "Dine"}},
	{label: "Misc. Cooler", keywords: []string{"Misc. Cooler", "Misc Cooler"}},
	{label: "Misc. Freezer", keywords: []string{"Misc. Freezer", "Misc Freezer"}},
	{label: "Fry Station", keywords: []string{"Fry Station"}},
	{label: "CA / Controlled Atmosphere", keywords: []string{"CA ", "Controlled Atmosphere"}},
}

// junkAnswers are text answers that carry no reading and lose to any other
// candidate.
var junkAnswers = map[string]bool{
	"yes": true, "no": true, "true": true, "false": true,
	"1": true, "0": true, "pass": true, "fail": true, "completed": true,
}

// BuildDFSLReport lays the day's DFSL/FSL daypart lists side by side and
// picks the best matching answer per row and daypart. The first list per
// daypart wins. Optional rows appear only when some daypart has a matching
// answer.
func BuildDFSLReport(lists []types.ListInstance, reportDate time.Time) types.DFSLReport {
	var buckets [3]*types.ListInstance
	var flats [3][]FlatItem
	for i := range lists {
		dp := reportDaypartOf(lists[i].Title())
		for k, id := range types.Dayparts {
			if dp == id && buckets[k] == nil {
				buckets[k] = &lists[i]
			}
		}
	}
	for i, l := range buckets {
		if l != nil {
			flats[i] = Flatten(l.ItemResults)
		}
	}

	b := &dfslBuilder{flats: flats, day: midnight(reportDate)}
	critical := types.DFSLSection{Title: SectionCriticalFocus}
	critical.Rows = append(critical.Rows, criticalCompletedRow(buckets))
	critical.Rows = append(critical.Rows, b.rows(criticalRows, blocked{}, false)...)

	return types.DFSLReport{
		Date: reportDate.Format(reportDateLayout),
		Sections: []types.DFSLSection{
			critical,
			{Title: SectionBreakfast, Rows: b.rows(breakfastRows, blockDP3And5, true)},
			{Title: SectionProducts, Rows: b.rows(productRows, blockDP1, true)},
			{Title: SectionEquipment, Rows: b.rows(equipmentRows, blocked{}, true)},
		},
	}
}

func criticalCompletedRow(buckets [3]*types.ListInstance) types.DFSLRow {
	row := types.DFSLRow{Label: rowCriticalCompleted, Cells: make([]types.DFSLCell, 3)}
	for i, l := range buckets[:2] {
		switch {
		case l == nil:
			row.Cells[i] = types.DFSLCell{Value: "-", Style: types.CellStyleMissing}
		case l.IncompleteCount == 0:
			row.Cells[i] = types.DFSLCell{Value: "Completed"}
		default:
			row.Cells[i] = types.DFSLCell{Value: types.StatusInProgress}
		}
	}
	row.Cells[2] = types.DFSLCell{Style: types.CellStyleBlocked}
	return row
}

type dfslBuilder struct {
	flats [3][]FlatItem
	day   time.Time
}

// rows renders specs, OR-ing the section block into each spec's own.
func (b *dfslBuilder) rows(specs []rowSpec, sectionBlock blocked, optional bool) []types.DFSLRow {
	out := make([]types.DFSLRow, 0, len(specs))
	for _, spec := range specs {
		if optional && !b.hasData(spec.keywords) {
			continue
		}
		for i := range spec.block {
			spec.block[i] = spec.block[i] || sectionBlock[i]
		}
		out = append(out, b.row(spec))
	}
	return out
}

func (b *dfslBuilder) hasData(keywords []string) bool {
	for _, flat := range b.flats {
		for _, f := range flat {
			if matchesKeyword(f.CleanTitle, keywords) {
				return true
			}
		}
	}
	return false
}

func (b *dfslBuilder) row(spec rowSpec) types.DFSLRow {
	row := types.DFSLRow{Label: spec.label, Cells: make([]types.DFSLCell, 3)}
	for i := range row.Cells {
		if spec.block[i] {
			row.Cells[i] = types.DFSLCell{Style: types.CellStyleBlocked}
			continue
		}
		row.Cells[i] = b.cell(spec, bestMatch(b.flats[i], spec.keywords))
	}
	return row
}

func (b *dfslBuilder) cell(spec rowSpec, n *types.ItemResult) types.DFSLCell {
	if n == nil {
		return types.DFSLCell{Value: "-", Style: types.CellStyleMissing}
	}
	if n.IsMarkedNA {
		return types.DFSLCell{Value: "N/A", Style: types.CellStyleNA}
	}

	c := types.DFSLCell{Source: n.CaptureSource()}
	switch {
	case n.ResultDouble != nil:
		c.Value = FormatNumber(*n.ResultDouble)
	case n.ResultValue != "":
		c.Value = n.ResultValue
	case n.ResultText != "":
		c.Value = n.ResultText
	default:
		c.Value = "-"
	}

	if strings.Contains(spec.label, rowSanitizerStrength) {
		if v, err := strconv.ParseFloat(strings.TrimSpace(c.Value), 64); err == nil && v == 1 {
			c.Value = withinRange
		}
	}

	if spec.date && n.ResultDouble != nil && *n.ResultDouble > 0 {
		exp := unixTime(*n.ResultDouble).In(b.day.Location())
		c.Value = exp.Format(reportDateLayout)
		c.Style = classifyDate(*n.ResultDouble, b.day)
		c.Source = ""
		return c
	}
	if c.Source == types.SourceManual {
		c.Style = types.CellStyleManual
	}
	return c
}

// bestMatch returns the first keyword match, preferring numeric answers and
// then answers that are not bare yes/no/pass style text.
func bestMatch(flat []FlatItem, keywords []string) *types.ItemResult {
	var candidates []FlatItem
	for _, f := range flat {
		if matchesKeyword(f.CleanTitle, keywords) {
			candidates = append(candidates, f)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i].Node, candidates[j].Node
		numA, numB := a.ResultDouble != nil, b.ResultDouble != nil
		if numA != numB {
			return numA
		}
		junkA := junkAnswers[strings.ToLower(a.ResultValue)]
		junkB := junkAnswers[strings.ToLower(b.ResultValue)]
		return !junkA && junkB
	})
	return candidates[0].Node
}

func matchesKeyword(cleanTitle string, keywords []string) bool {
	t := strings.ToLower(cleanTitle)
	for _, k := range keywords {
		if strings.Contains(t, strings.ToLower(k)) {
			return true
		}
	}
	return false
}
