package metrics

// Metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"

	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"

	MetricNameQuestsGenerated = "quests_generated_total"
	MetricNameQuestsCompleted = "quests_completed_total"
	MetricNameQuestsExpired   = "quests_expired_total"
	MetricNameBossAttacks     = "boss_attacks_total"
	MetricNameBossesDefeated  = "bosses_defeated_total"
	MetricNameLevelUps        = "character_level_ups_total"
	MetricNameItemsBought     = "items_bought_total"
	MetricNameItemsSold       = "items_sold_total"
	MetricNameGoldEarned      = "gold_earned_total"
	MetricNameGoldSpent       = "gold_spent_total"
)

// Metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"

	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"

	HelpTextQuestsGenerated = "Total number of quests generated"
	HelpTextQuestsCompleted = "Total number of quests completed"
	HelpTextQuestsExpired   = "Total number of quests removed by the expiry sweeper"
	HelpTextBossAttacks     = "Total number of boss attacks"
	HelpTextBossesDefeated  = "Total number of bosses defeated"
	HelpTextLevelUps        = "Total number of character level ups"
	HelpTextItemsBought     = "Total number of items bought"
	HelpTextItemsSold       = "Total number of items sold"
	HelpTextGoldEarned      = "Total gold credited to users"
	HelpTextGoldSpent       = "Total gold debited from users"
)

// Label names
const (
	LabelMethod     = "method"
	LabelPath       = "path"
	LabelStatus     = "status"
	LabelType       = "type"
	LabelScope      = "scope"
	LabelCategory   = "category"
	LabelDifficulty = "difficulty"
	LabelItem       = "item"
	LabelCritical   = "critical"
)

// HTTPLatencyBuckets covers the expected latency range of the API
var HTTPLatencyBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}

// Log messages
const (
	LogMsgEventPayloadNotMap = "Event payload is not decodable, skipping business metrics"
	LogMsgMetricsRecorded    = "Metrics recorded for event"
)
