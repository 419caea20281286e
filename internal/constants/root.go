package constants

import "time"

// SessionState represents the current state of the TUI application
type SessionState int

const (
	AppName            = "ductiva"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/ductiva/ductiva.db"
	Version            = "v0.3.0"

	// MaxHabits is the number of live habits a user may track at once
	MaxHabits = 4

	// Deep link constants
	DeepLinkScheme = "ductiva"
	DeepLinkHost   = "habit"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "ductiva-"
	BackupFileSuffix = ".db"

	// Widget host constants
	NotifyMaxRetries      = 3
	NotifyRetryDelay      = 100 * time.Millisecond
	NotifyTimeout         = 2 * time.Second
	NotifierLockfileName  = "ductiva-widgets.lock"
	WidgetHostIdentifier  = "com.davidsaint.ductiva"
	WidgetHostExecutable  = "ductiva-widgets"
	WidgetSecretHeader    = "X-Ductiva-Secret"
	DefaultServeAddr      = "127.0.0.1:7878"
	WidgetRefreshReason   = "habits-changed"
	WidgetSlotCounterText = "%d/%d SLOTS ACTIVE"
)

// Session States
const (
	StateHabits SessionState = iota
	StateAddHabit
	StateEditHabit
	StateCalendar
	StateConfirmDelete
)
