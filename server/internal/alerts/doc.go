// Package alerts implements the rule evaluation engine and webhook delivery
// for store alerting. Rules are evaluated against every received store
// report; webhooks are delivered to Teams, Slack, or generic HTTP targets.
package alerts
