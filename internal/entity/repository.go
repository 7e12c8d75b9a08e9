package entity

import "time"

// MatchActionLog is an audit row for an action the upstream accepted. The
// session is stored as a fingerprint only.
type MatchActionLog struct {
	ID                 uint        `gorm:"primaryKey;column:id"`
	SessionFingerprint string      `gorm:"column:session_fingerprint;not null;index"`
	TargetUserID       int64       `gorm:"column:target_user_id;not null"`
	Action             MatchAction `gorm:"column:action;type:varchar(16);not null"`
	Result             string      `gorm:"column:result"`
	IsMatch            bool        `gorm:"column:is_match;not null"`
	CreatedAt          time.Time   `gorm:"column:created_at;not null"`
}

func (MatchActionLog) TableName() string {
	return "match_actions"
}
