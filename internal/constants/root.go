package constants

// Category represents a trackable care category (a config "bucket")
type Category string

// Priority represents how strongly a regimen item is recommended
type Priority string

// Frequency represents the recurrence frequency of a regimen item
type Frequency string

// InstanceStatus represents the lifecycle state of a daily instance
type InstanceStatus string

// LogSource represents where a log entry originated
type LogSource string

const (
	AppName            = "carekeep"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/carekeep/carekeep.db"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Retention bounds. Each is enforced at write time of the structure it
	// protects; the date indices only shrink when a new date is inserted,
	// never on read.
	MaxLogEntries        = 5000
	InstanceIndexDays    = 90
	LogIndexDays         = 365
	OverrideRetainDays   = 30

	// Categories
	CategoryMedication  Category = "medication"
	CategoryVitals      Category = "vitals"
	CategoryMeals       Category = "meals"
	CategoryMood        Category = "mood"
	CategorySleep       Category = "sleep"
	CategoryHydration   Category = "hydration"
	CategoryCustom      Category = "custom"
	CategoryAppointment Category = "appointment"

	// Priorities
	PriorityRequired    Priority = "required"
	PriorityRecommended Priority = "recommended"
	PriorityOptional    Priority = "optional"

	// Frequencies
	FrequencyDaily         Frequency = "daily"
	FrequencyWeekly        Frequency = "weekly"
	FrequencyEveryOtherDay Frequency = "every_other_day"
	FrequencyCustom        Frequency = "custom"

	// Instance statuses
	InstancePending   InstanceStatus = "pending"
	InstanceCompleted InstanceStatus = "completed"
	InstanceSkipped   InstanceStatus = "skipped"

	// Log sources
	SourceRecord    LogSource = "record"
	SourceQuickLog  LogSource = "quick_log"
	SourceAutomatic LogSource = "automatic"

	// Named time-of-day windows
	WindowMorning = "morning"
	WindowMidday  = "midday"
	WindowEvening = "evening"
	WindowNight   = "night"

	// Clock times the named windows resolve to
	WindowMorningTime = "08:00"
	WindowMiddayTime  = "12:00"
	WindowEveningTime = "18:00"
	WindowNightTime   = "21:00"

	// Notify constants
	NotifyMaxRetries       = 3
	NotificationDurationMs = 5000
	NotifierLockfileName   = "carekeep-notifier.lock"
	TrayAppIdentifier      = "com.jordanmae.carekeep"
)

// AllCategories lists every trackable category in display order.
var AllCategories = []Category{
	CategoryMedication,
	CategoryVitals,
	CategoryMeals,
	CategoryMood,
	CategorySleep,
	CategoryHydration,
	CategoryCustom,
	CategoryAppointment,
}

// NamedWindowTimes maps each named time-of-day window to its clock time.
var NamedWindowTimes = map[string]string{
	WindowMorning: WindowMorningTime,
	WindowMidday:  WindowMiddayTime,
	WindowEvening: WindowEveningTime,
	WindowNight:   WindowNightTime,
}
