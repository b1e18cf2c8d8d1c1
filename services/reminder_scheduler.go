package services

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/goodypm20014-source/hapche-social/models"
)

// ReminderScheduler fires stack reminder rules as notifications. It
// ticks once a minute and matches enabled rules against the current
// weekday and HH:MM.
type ReminderScheduler struct {
	store    *Store
	notifier *Notifier
	cron     *cron.Cron
	log      *zap.Logger
}

func NewReminderScheduler(store *Store, notifier *Notifier, log *zap.Logger) *ReminderScheduler {
	return &ReminderScheduler{
		store:    store,
		notifier: notifier,
		cron:     cron.New(),
		log:      log,
	}
}

func (r *ReminderScheduler) Start() error {
	if _, err := r.cron.AddFunc("* * * * *", r.Tick); err != nil {
		return fmt.Errorf("scheduling reminder tick: %w", err)
	}
	r.cron.Start()
	return nil
}

func (r *ReminderScheduler) Stop() {
	r.cron.Stop()
}

// Tick emits a reminder notification for every enabled rule matching
// the store clock's current minute. Exported so tests can drive it with
// an injected clock.
func (r *ReminderScheduler) Tick() {
	now := r.store.clock.Now()
	weekday := int(now.Weekday())
	hhmm := now.Format("15:04")

	for _, stack := range r.store.Stacks() {
		for _, rule := range stack.Reminders {
			if !rule.Enabled || rule.Time != hhmm || !containsDay(rule.Days, weekday) {
				continue
			}
			r.notifier.Emit(models.NotificationReminder, "", "",
				fmt.Sprintf("Време е за %s от stack „%s“", rule.SupplementName, stack.Name),
				&models.NotificationAction{StackID: stack.ID})
		}
	}
}

func containsDay(days []int, d int) bool {
	for _, v := range days {
		if v == d {
			return true
		}
	}
	return false
}
