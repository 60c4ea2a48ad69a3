package worker

import "time"

// Log messages for the quest sweeper
const (
	LogMsgQuestSweepStarting  = "Quest expiry sweep starting"
	LogMsgQuestSweepCompleted = "Quest expiry sweep completed"
	LogMsgQuestSweepFailed    = "Quest expiry sweep failed"
	LogMsgQuestSweepScheduled = "Quest expiry sweep scheduled"
)

// DefaultSweepInterval is how often expired personal quests are removed.
// Expired quests are also filtered at read time, so the sweep only needs to
// keep the table from accumulating dead rows.
const DefaultSweepInterval = 5 * time.Minute
