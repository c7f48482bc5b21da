package gesture

import (
	"github.com/charmbracelet/log"

	"github.com/lox/gesturejack/internal/game"
)

// Action is a game action a confirmed gesture can map to
type Action string

const (
	ActionHit    Action = "hit"
	ActionStand  Action = "stand"
	ActionDouble Action = "double"
)

// Dispatcher maps confirmed gesture triggers onto table operations. It
// never mutates round state directly; it only calls the table's public
// operations, and it absorbs triggers the round cannot accept right now
// (wrong phase, mid-animation, illegal double) rather than queueing them.
type Dispatcher struct {
	logger   *log.Logger
	table    *game.Table
	settings SettingsProvider
}

// NewDispatcher creates a dispatcher for a table
func NewDispatcher(logger *log.Logger, table *game.Table, provider SettingsProvider) *Dispatcher {
	return &Dispatcher{
		logger:   logger.WithPrefix("dispatch"),
		table:    table,
		settings: provider,
	}
}

// HandleTrigger applies a confirmed gesture to the table. It returns the
// dispatched action and true, or "" and false when the trigger was
// absorbed.
func (d *Dispatcher) HandleTrigger(tr Trigger) (Action, bool) {
	name, ok := d.settings.Get().ActionFor(tr.Label)
	if !ok {
		d.logger.Debug("unbound gesture absorbed", "label", tr.Label)
		return "", false
	}
	action := Action(name)

	if d.table.Phase() != game.PhasePlaying || d.table.IsBusy() {
		d.logger.Info("gesture absorbed outside player turn",
			"label", tr.Label, "action", action, "phase", d.table.Phase())
		return "", false
	}

	switch action {
	case ActionHit:
		d.table.Hit()
	case ActionStand:
		d.table.Stand()
	case ActionDouble:
		if !d.table.CanDouble() {
			d.logger.Info("double gesture absorbed", "label", tr.Label)
			return "", false
		}
		d.table.Double()
	default:
		return "", false
	}

	d.logger.Info("gesture dispatched", "label", tr.Label, "action", action)
	return action, true
}
