package flagstore

import (
	"time"

	"github.com/shopspring/decimal"
)

// FlagRecord is one approved abuse report. The (reporter, report_comment)
// pair is unique: re-approving the same report comment must conflict, not
// duplicate. Included flips false->true exactly once, as part of a full
// statement batch, and is never reverted.
type FlagRecord struct {
	ID uint64 `gorm:"column:id;primarykey"`

	// account that cast the punitive downvote
	Reporter string `gorm:"column:reporter;uniqueIndex:idx_flag_reporter_comment;not null"`

	// author/permlink of the comment that invoked the system
	ReportComment string `gorm:"column:report_comment;uniqueIndex:idx_flag_reporter_comment;not null"`

	// author/permlink of the content that was downvoted
	FlaggedContent string `gorm:"column:flagged_content;not null"`

	Category string `gorm:"column:category"`

	// ledger creation time of the report comment, not processing time
	CreatedAt time.Time `gorm:"column:created_at;index"`

	Included bool `gorm:"column:included;default:false;index"`

	// SBD-equivalent magnitude of the punitive downvote, computed once at
	// approval time and never recomputed
	RemovedValue decimal.Decimal `gorm:"column:removed_value;type:decimal(20,3)"`
}

func (FlagRecord) TableName() string {
	return "flag_record"
}
