package domain

import "time"

// BackupCode is a single-use recovery credential. Used flips false to true
// exactly once, and UsedAt is set at the same moment.
type BackupCode struct {
	AccountID string
	Code      string // 8 uppercase hex chars
	Used      bool
	UsedAt    *time.Time
	CreatedAt time.Time
}

// BackupCodeSummary is what the account owner may see of their current set.
type BackupCodeSummary struct {
	Unused []string
	Total  int
	Used   int
}

// SummarizeBackupCodes keeps the unused codes in issue order and counts
// the rest.
func SummarizeBackupCodes(codes []BackupCode) BackupCodeSummary {
	sum := BackupCodeSummary{Unused: make([]string, 0, len(codes)), Total: len(codes)}
	for _, c := range codes {
		if c.Used {
			sum.Used++
			continue
		}
		sum.Unused = append(sum.Unused, c.Code)
	}
	return sum
}
