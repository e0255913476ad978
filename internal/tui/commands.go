package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lox/yahtzee/dice"
	"github.com/lox/yahtzee/internal/advisor"
)

// Execute runs one line of user input against the match and reports
// whether the user asked to quit. Failures are written to the log.
func (m *TUIModel) Execute(input string) (quit bool) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return false
	}
	command, args := strings.ToLower(parts[0]), parts[1:]

	var err error
	switch command {
	case "quit", "q", "exit":
		return true
	case "help", "?":
		m.showHelp()
		return false
	case "hint":
		m.showHint()
		return false
	case "roll", "r":
		err = m.match.Roll(false)
	case "hold", "h":
		err = m.hold(args)
	case "score", "s":
		err = m.score(args)
	default:
		err = fmt.Errorf("unknown command %q, type 'help' for commands", command)
	}

	if err != nil {
		m.logger.Debug("Command failed", "input", input, "error", err)
		m.AddLogEntry("Error: "+err.Error(), ErrorStyle)
	}
	return false
}

// hold toggles each die named by its 1-based position.
func (m *TUIModel) hold(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: hold <die> [die...], e.g. hold 1 3 5")
	}
	indexes := make([]int, 0, len(args))
	for _, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 || n > dice.Count {
			return fmt.Errorf("die must be a number from 1 to %d, got %q", dice.Count, arg)
		}
		indexes = append(indexes, n-1)
	}
	for _, i := range indexes {
		if err := m.match.ToggleHold(i); err != nil {
			return err
		}
	}
	return nil
}

func (m *TUIModel) score(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: score <category>, one of %s", strings.Join(categoryKeys(), ", "))
	}
	c, ok := lookupCategory(args[0])
	if !ok {
		return fmt.Errorf("%w: %q", dice.ErrUnknownCategory, args[0])
	}
	_, err := m.match.Commit(c)
	return err
}

func (m *TUIModel) showHint() {
	if m.match.IsFinished() {
		m.AddLogEntry("The game is over.", InfoStyle)
		return
	}
	advice := m.advisor.Advise(m.match.View())
	msg := advice.Message
	if advice.Action == advisor.Hold {
		// hold toggles, so only name the dice that have to change
		held := m.match.Held()
		var positions []string
		for i, keep := range advice.Keep {
			if keep != held[i] {
				positions = append(positions, strconv.Itoa(i+1))
			}
		}
		if len(positions) > 0 {
			msg += fmt.Sprintf(" (hold %s)", strings.Join(positions, " "))
		} else {
			msg += " (already held, roll)"
		}
	}
	m.AddLogEntry("Hint: "+msg, WarningStyle)
}

func (m *TUIModel) showHelp() {
	m.AddLogEntry("Commands:", InfoStyle)
	m.AddLogEntry("  roll              roll every die not held", InfoStyle)
	m.AddLogEntry("  hold 1 3 5        hold or release dice by position", InfoStyle)
	m.AddLogEntry("  score <category>  score the dice, e.g. score fullHouse", InfoStyle)
	m.AddLogEntry("  hint              ask for advice", InfoStyle)
	m.AddLogEntry("  quit              leave (progress is saved)", InfoStyle)
}

// lookupCategory matches a category key ignoring case.
func lookupCategory(s string) (dice.Category, bool) {
	for _, c := range dice.Categories() {
		if strings.EqualFold(c.Key(), s) {
			return c, true
		}
	}
	return 0, false
}

func categoryKeys() []string {
	keys := make([]string, 0, dice.NumCategories)
	for _, c := range dice.Categories() {
		keys = append(keys, c.Key())
	}
	return keys
}
