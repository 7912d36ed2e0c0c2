package engine

import "time"

type EventKind string

const (
	EventQuestCompleted     EventKind = "quest_completed"
	EventObjectiveCompleted EventKind = "objective_completed"
	EventBonusGranted       EventKind = "bonus_granted"
	EventLevelUp            EventKind = "level_up"
	EventSkillUnlocked      EventKind = "skill_unlocked"
)

// Event is published after the transaction that caused it commits.
type Event struct {
	Kind     EventKind
	UserID   string
	RoleID   string
	SourceID string
	XP       int
	Level    int
	At       time.Time
}

// Listener receives events from the Service it was registered with.
type Listener interface {
	OnEvent(Event)
}

// ListenerFunc adapts a plain function to Listener.
type ListenerFunc func(Event)

func (f ListenerFunc) OnEvent(e Event) { f(e) }

func (s *Service) publish(events ...Event) {
	for _, e := range events {
		for _, l := range s.listeners {
			l.OnEvent(e)
		}
	}
}

func levelEvents(kind EventKind, userID string, roleID string, sourceID string, xp int, lr LevelResult, at time.Time) []Event {
	events := []Event{{Kind: kind, UserID: userID, RoleID: roleID, SourceID: sourceID, XP: xp, Level: lr.NewLevel, At: at}}
	if lr.LeveledUp {
		events = append(events, Event{Kind: EventLevelUp, UserID: userID, RoleID: roleID, SourceID: sourceID, Level: lr.NewLevel, At: at})
	}
	return events
}
