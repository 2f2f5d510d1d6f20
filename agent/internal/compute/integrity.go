package compute

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/Ckuran148/Jolt/pkg/types"
)

// Integrity issue labels. Sublist and duplicate issues are formatted with
// details at the call site.
const (
	IssueSpeedTooFast     = "Speed Detection (Too Fast)"
	IssueRapidEntry       = "Potential Rapid Entry"
	IssueNoDecimals       = "Manual Entry Suspected (No Decimals)"
	IssueIdenticalTemps   = "Identical Temperatures"
	IssueRapidSimilar     = "Rapid Similar/Same Temps"
	IssueExcessiveNA      = "Excessive N/A"
	IssueHighNA           = "High N/A Usage"
	issueDuplicateTempsF  = "High Duplicate Temps (%d%%)"
	issueSublistTooFastF  = "Sublist '%s' too fast (%ds)"
	issueSublistFailedF   = "Sublist '%s' Failed Integrity"
	issueFullListTooFastF = "Full List < %s"
)

// Keyword lists matched case-insensitively against lower-cased names and
// prompts.
var (
	exemptListKeywords  = []string{"equipment temperature", "fsa - critical", "critical daily focus"}
	equipmentKeywords   = []string{"equipment", "cooler", "freezer", "walk-in", "reach-in", "refrigerator", "fryer", "warmer"}
	tempUnitKeywords    = []string{"temp", "°", "℉", "℃", " f ", " c "}
	quantityKeywords    = []string{"count", "number", "amount", "quantity"}
	criticalSubKeywords = []string{"beef", "frosty", "chili", "chicken"}
)

const (
	scoreMax = 100

	// A sublist or nested list scoring below this fails.
	failBelow = 60

	frostyMinSeconds   = 15
	criticalMinSeconds = 25

	fullListMinDaypart1 = 180
	fullListMinDefault  = 300
	fullListMinItems    = 10

	rapidGapSeconds    = 2
	rapidSevereRate    = 75.0
	rapidModerateRate  = 45.0
	integerTempRatio   = 0.6
	dupRateRelaxed     = 0.65
	dupRateStrict      = 0.3
	similarGapSeconds  = 45
	similarDiffRelaxed = 0.1
	similarDiffStrict  = 0.5
	similarRateSevere  = 0.5
	similarFewValues   = 5
	naExcessivePct     = 50.0
	naHighPct          = 30.0
)

// Penalty sizes.
const (
	penaltySublist     = 40
	penaltyFullList    = 20
	penaltySpeedSevere = 30
	penaltySpeedMild   = 10
	penaltyNoDecimals  = 30
	penaltyDuplicates  = 40
	penaltyIdentical   = 60
	penaltySimilarMany = 50
	penaltySimilarFew  = 30
	penaltyExcessiveNA = 50
	penaltyHighNA      = 25
)

// IntegrityResult is the outcome of ComputeIntegrity. A nil Score means the
// list type is exempt from scoring, which is distinct from a computed 0.
type IntegrityResult struct {
	Score  *int     `json:"score"`
	Issues []string `json:"issues"`
}

// tempReading is a qualifying temperature answer with its completion time.
type tempReading struct {
	val  float64
	time int64
}

// integrityScan accumulates the per-node signals of one tree.
type integrityScan struct {
	total       int
	na          int
	completed   []int64
	temps       []tempReading
	integerTemp int
}

func (s *integrityScan) visit(it *types.ItemResult) {
	if it.IsText() {
		return
	}
	s.total++
	if it.IsMarkedNA {
		s.na++
	}
	if it.CompletionTimestamp <= 0 {
		return
	}
	prompt := strings.ToLower(it.Prompt())
	if containsAny(prompt, equipmentKeywords) {
		return
	}
	s.completed = append(s.completed, it.CompletionTimestamp)

	if it.ResultDouble == nil {
		return
	}
	v := *it.ResultDouble
	if !containsAny(prompt, tempUnitKeywords) && v <= 0 {
		return
	}
	s.temps = append(s.temps, tempReading{val: v, time: it.CompletionTimestamp})
	if !containsAny(prompt, quantityKeywords) && v == math.Trunc(v) {
		s.integerTemp++
	}
}

// scorer tracks the running score and the issues that reduced it.
type scorer struct {
	score  int
	issues []string
}

func (s *scorer) penalize(points int, issue string) {
	s.score -= points
	s.issues = append(s.issues, issue)
}

func (s *scorer) result() IntegrityResult {
	score := s.score
	if score < 0 {
		score = 0
	}
	return IntegrityResult{Score: &score, Issues: s.issues}
}

// ComputeIntegrity scores how trustworthy a completed checklist looks, from
// 100 down to 0. listName tunes thresholds and exempts some list types;
// durationSeconds, when non-nil, enables the full-list speed check.
func ComputeIntegrity(items []types.ItemResult, listName string, durationSeconds *int64) IntegrityResult {
	lower := strings.ToLower(listName)
	if containsAny(lower, exemptListKeywords) {
		return IntegrityResult{Issues: []string{}}
	}
	daypart1 := strings.Contains(lower, "daypart 1")
	relaxed := daypart1 || strings.Contains(lower, "breakfast")

	var scan integrityScan
	Walk(items, scan.visit)

	sc := &scorer{score: scoreMax, issues: []string{}}
	checkSublists(items, sc)

	if durationSeconds != nil && len(scan.completed) > fullListMinItems {
		threshold, label := int64(fullListMinDefault), "5 mins"
		if daypart1 {
			threshold, label = fullListMinDaypart1, "3 mins"
		}
		if *durationSeconds < threshold {
			sc.penalize(penaltyFullList, fmt.Sprintf(issueFullListTooFastF, label))
		}
	}

	if len(scan.completed) < 2 && sc.score == scoreMax {
		return sc.result()
	}

	checkRapidEntry(scan.completed, sc)
	if len(scan.temps) >= 2 {
		checkTemperatures(scan, relaxed, sc)
	}

	if scan.total > 0 {
		naPct := float64(scan.na) / float64(scan.total) * 100
		switch {
		case naPct > naExcessivePct:
			sc.penalize(penaltyExcessiveNA, IssueExcessiveNA)
		case naPct > naHighPct:
			sc.penalize(penaltyHighNA, IssueHighNA)
		}
	}
	return sc.result()
}

// checkSublists applies the minimum-duration floor and the nested integrity
// check to every sublist at any depth.
func checkSublists(items []types.ItemResult, sc *scorer) {
	for i := range items {
		it := &items[i]
		if it.SubList == nil {
			continue
		}
		parent := it.Prompt()
		name := it.SubList.InstanceTitle
		if name == "" {
			name = parent
		}
		sub := it.SubList.ItemResults

		if ts := completionTimes(sub); len(ts) >= 2 {
			dur := spread(ts)
			lowerName, lowerParent := strings.ToLower(name), strings.ToLower(parent)
			frosty := strings.Contains(lowerName, "frosty") || strings.Contains(lowerParent, "frosty")
			critical := containsAny(lowerName, criticalSubKeywords) || containsAny(lowerParent, criticalSubKeywords)
			if (frosty && dur < frostyMinSeconds) || (!frosty && critical && dur < criticalMinSeconds) {
				sc.penalize(penaltySublist, fmt.Sprintf(issueSublistTooFastF, name, dur))
			}
		}

		if r := ComputeIntegrity(sub, name, nil); r.Score != nil && *r.Score < failBelow {
			sc.penalize(penaltySublist, fmt.Sprintf(issueSublistFailedF, name))
		}
		checkSublists(sub, sc)
	}
}

// checkRapidEntry penalizes lists where most consecutive completions are
// less than two seconds apart. The two branches are exclusive.
func checkRapidEntry(completed []int64, sc *scorer) {
	if len(completed) < 2 {
		return
	}
	sort.Slice(completed, func(i, j int) bool { return completed[i] < completed[j] })
	rapid := 0
	for i := 1; i < len(completed); i++ {
		if completed[i]-completed[i-1] < rapidGapSeconds {
			rapid++
		}
	}
	rate := float64(rapid) / float64(len(completed)-1) * 100
	switch {
	case rate > rapidSevereRate:
		sc.penalize(penaltySpeedSevere, IssueSpeedTooFast)
	case rate > rapidModerateRate:
		sc.penalize(penaltySpeedMild, IssueRapidEntry)
	}
}

// checkTemperatures runs the integer, duplicate, identical and rapid-similar
// heuristics over at least two qualifying readings.
func checkTemperatures(scan integrityScan, relaxed bool, sc *scorer) {
	temps := scan.temps
	n := len(temps)

	if float64(scan.integerTemp)/float64(n) > integerTempRatio {
		sc.penalize(penaltyNoDecimals, IssueNoDecimals)
	}

	unique := make(map[float64]struct{}, n)
	for _, t := range temps {
		unique[t.val] = struct{}{}
	}
	dupRate := 1 - float64(len(unique))/float64(n)
	dupThreshold, diffThreshold := dupRateStrict, similarDiffStrict
	if relaxed {
		dupThreshold, diffThreshold = dupRateRelaxed, similarDiffRelaxed
	}
	if dupRate > dupThreshold {
		sc.penalize(penaltyDuplicates, fmt.Sprintf(issueDuplicateTempsF, roundPct(dupRate)))
	}
	if len(unique) == 1 {
		sc.penalize(penaltyIdentical, IssueIdenticalTemps)
	}

	sort.SliceStable(temps, func(i, j int) bool { return temps[i].time < temps[j].time })
	suspicious := 0
	for i := 1; i < n; i++ {
		gap := temps[i].time - temps[i-1].time
		diff := math.Abs(temps[i].val - temps[i-1].val)
		if gap < similarGapSeconds && diff < diffThreshold {
			suspicious++
		}
	}
	rate := float64(suspicious) / float64(n-1)
	switch {
	case rate > similarRateSevere:
		sc.penalize(penaltySimilarMany, IssueRapidSimilar)
	case suspicious > 0 && n < similarFewValues:
		sc.penalize(penaltySimilarFew, IssueRapidSimilar)
	}
}
