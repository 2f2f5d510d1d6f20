package alerts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Ckuran148/Jolt/pkg/types"
)

// send delivers webhook notifications for a to all configured targets.
// Errors are logged but do not affect the caller.
func (e *Engine) send(a *Alert) {
	for _, wh := range e.webhooks {
		url := wh.URL()
		if url == "" {
			continue
		}

		var err error
		switch wh.Type {
		case "slack":
			err = e.post(url, slackPayload(a))
		case "teams":
			err = e.post(url, teamsPayload(a))
		case "http":
			err = e.post(url, httpPayload(a))
		default:
			slog.Warn("alerts: unknown webhook type, skipping", "type", wh.Type)
			continue
		}

		if err != nil {
			slog.Error("alerts: webhook delivery failed",
				"type", wh.Type,
				"rule", a.RuleName,
				"location", a.LocationID,
				"err", err,
			)
		} else {
			slog.Debug("alerts: webhook delivered",
				"type", wh.Type,
				"rule", a.RuleName,
				"location", a.LocationID,
				"state", a.State,
			)
		}
	}
}

// slackPayload is the message line followed by the store line and one
// line per daypart.
func slackPayload(a *Alert) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s* %s", severityLabel(a.Severity), a.Message)
	if a.State == StateResolved {
		b.WriteString(" _(resolved)_")
	}
	fmt.Fprintf(&b, "\n%s", storeLine(a))
	for _, dp := range a.Dayparts {
		fmt.Fprintf(&b, "\n> %s", daypartLine(dp))
	}
	body, _ := json.Marshal(map[string]string{"text": b.String()})
	return body
}

func teamsPayload(a *Alert) []byte {
	facts := make([]map[string]string, 0, len(a.Dayparts)+1)
	for _, dp := range a.Dayparts {
		facts = append(facts, map[string]string{
			"name":  strings.ToUpper(dp.Daypart),
			"value": daypartLine(dp),
		})
	}
	if a.Sanitizer != "" {
		facts = append(facts, map[string]string{"name": "Sanitizer", "value": a.Sanitizer})
	}
	body, _ := json.Marshal(map[string]any{
		"@type":      "MessageCard",
		"@context":   "http://schema.org/extensions",
		"themeColor": severityColor(a.Severity),
		"summary":    a.RuleName + " " + a.State,
		"title":      fmt.Sprintf("Jolt Alert: %s", a.RuleName),
		"text":       a.Message,
		"sections": []map[string]any{{
			"activityTitle":    displayAlertName(a),
			"activitySubtitle": storeLine(a),
			"facts":            facts,
		}},
	})
	return body
}

func httpPayload(a *Alert) []byte {
	body, _ := json.Marshal(map[string]any{"alert": a})
	return body
}

func (e *Engine) post(url string, body []byte) error {
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("http post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned HTTP %d", resp.StatusCode)
	}
	return nil
}

func displayAlertName(a *Alert) string {
	if a.LocationName != "" {
		return a.LocationName
	}
	return a.LocationID
}

// storeLine reads "Main St #101 (Gulf / D1) on 2026-03-10".
func storeLine(a *Alert) string {
	line := displayAlertName(a)
	if a.Market != "" || a.District != "" {
		line += fmt.Sprintf(" (%s / %s)", a.Market, a.District)
	}
	if a.Date != "" {
		line += " on " + a.Date
	}
	return line
}

// daypartLine reads "dp3 Late, integrity 55%, 1 CA".
func daypartLine(dp DaypartState) string {
	if dp.Status == types.StatusMissing {
		return dp.Daypart + " " + types.StatusMissing
	}
	integrity := "N/A"
	if dp.Integrity != nil {
		integrity = fmt.Sprintf("%d%%", *dp.Integrity)
	}
	line := fmt.Sprintf("%s %s, integrity %s", dp.Daypart, dp.Status, integrity)
	if dp.CorrectiveActions > 0 {
		line += fmt.Sprintf(", %d CA", dp.CorrectiveActions)
	}
	return line
}

func severityLabel(s string) string {
	switch s {
	case "critical":
		return "[CRITICAL]"
	case "warning":
		return "[WARNING]"
	default:
		return "[INFO]"
	}
}

func severityColor(s string) string {
	switch s {
	case "critical":
		return "FF4F6A"
	case "warning":
		return "FFAB40"
	default:
		return "00D4FF"
	}
}
