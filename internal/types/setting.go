package types

// SettingKey identifies a persisted configuration setting
type SettingKey string

const (
	// SettingKeyMonthlyReminderLastRun stores the date the monthly reminder
	// sweep last completed, so multiple process instances never re-fire the
	// sweep within the same calendar month.
	SettingKeyMonthlyReminderLastRun SettingKey = "scheduler.reminders.monthly_last_run"
)

func (k SettingKey) String() string {
	return string(k)
}
