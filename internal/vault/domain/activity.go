package domain

import "time"

type ActivityAction string

const (
	ActionRegister              ActivityAction = "REGISTER"
	ActionLogin                 ActivityAction = "LOGIN"
	ActionPasswordChange        ActivityAction = "PASSWORD_CHANGE"
	ActionProfileUpdate         ActivityAction = "PROFILE_UPDATE"
	ActionAuthenticatorEnable   ActivityAction = "AUTHENTICATOR_ENABLE"
	ActionAuthenticatorDisable  ActivityAction = "AUTHENTICATOR_DISABLE"
	ActionBackupCodesRegenerate ActivityAction = "BACKUP_CODES_REGENERATE"
	ActionBackupCodeUsed        ActivityAction = "BACKUP_CODE_USED"
)

type ActivityEntry struct {
	ID          string // ULID
	AccountID   string
	Action      ActivityAction
	Description string
	IP          string
	UserAgent   string
	CreatedAt   time.Time
}
