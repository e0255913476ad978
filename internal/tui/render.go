package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lox/yahtzee/dice"
	"github.com/lox/yahtzee/internal/game"
)

// renderActionPane renders the dice, the input field and help text
func (m *TUIModel) renderActionPane() string {
	var content strings.Builder

	if m.match.IsFinished() {
		content.WriteString(TurnStyle.Render("Game over"))
		content.WriteString("\n")
		m.actionInput.Placeholder = "'quit' to exit"
	} else {
		content.WriteString(TurnStyle.Render(fmt.Sprintf("Round %d/%d  %s",
			m.match.Round(), game.Rounds, m.match.CurrentPlayer().Name)))
		content.WriteString("\n")

		if m.match.HasRolled() {
			content.WriteString(fmt.Sprintf("Dice: %s  ", formatHand(m.match.Hand(), m.match.Held(), true)))
		} else {
			content.WriteString(InfoStyle.Render("Dice not rolled yet  "))
		}
		content.WriteString(ActionsStyle.Render(fmt.Sprintf("Rolls left: %d", m.match.RollsLeft())))
		content.WriteString("\n")
		m.actionInput.Placeholder = "roll, hold 1 3 5, score fullHouse, hint, quit"
	}

	content.WriteString(m.actionInput.View())
	content.WriteString("\n")

	if m.focusedPane == logPane {
		content.WriteString(InfoStyle.Render("Log focused: ↑↓ scroll, PgUp/PgDn half page, Home/End, Tab to input"))
	} else {
		content.WriteString(InfoStyle.Render("Tab to scroll log • Enter to submit • 'help' for commands • Ctrl+C to quit"))
	}

	return content.String()
}

// formatHand renders dice as [3] [5] ..., highlighting held dice when
// styled is set and marking them with * otherwise.
func formatHand(h dice.Hand, held [dice.Count]bool, styled bool) string {
	faces := make([]string, len(h))
	for i, v := range h {
		face := "-"
		if v != dice.Unset {
			face = strconv.Itoa(v)
		}
		switch {
		case styled && held[i]:
			faces[i] = HeldDieStyle.Render("[" + face + "]")
		case styled:
			faces[i] = DieStyle.Render("[" + face + "]")
		case held[i]:
			faces[i] = face + "*"
		default:
			faces[i] = face
		}
	}
	return strings.Join(faces, " ")
}

// renderScoreboard renders one column per player. The current player's
// open categories show what the dice would score once they are rolled.
func (m *TUIModel) renderScoreboard() string {
	players := m.match.Players()
	rules := m.match.Rules()
	showPreview := !m.match.IsFinished() && m.match.HasRolled()
	possible := m.match.Possible()

	const labelWidth = 15
	const colWidth = 8

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-*s", labelWidth, ""))
	for _, p := range players {
		b.WriteString(HeaderStyle.Render(fmt.Sprintf("%*s", colWidth, truncate(p.Name, colWidth))))
	}
	b.WriteString("\n")

	row := func(label string, cell func(seat int, p game.Player) string) {
		b.WriteString(fmt.Sprintf("%-*s", labelWidth, label))
		for i, p := range players {
			b.WriteString(cell(i, p))
		}
		b.WriteString("\n")
	}

	categoryRow := func(c dice.Category) {
		row(c.Name(), func(seat int, p game.Player) string {
			if v, ok := p.Card.Get(c); ok {
				return fmt.Sprintf("%*d", colWidth, v)
			}
			if showPreview && seat == m.match.CurrentIndex() {
				return PreviewStyle.Render(fmt.Sprintf("%*s", colWidth, fmt.Sprintf("(%d)", possible.Get(c))))
			}
			return fmt.Sprintf("%*s", colWidth, "-")
		})
	}

	for _, c := range dice.Categories() {
		if c.Section() == dice.Upper {
			categoryRow(c)
		}
	}
	row("Upper", func(_ int, p game.Player) string {
		return TotalStyle.Render(fmt.Sprintf("%*d", colWidth, p.Card.UpperSubtotal()))
	})
	row(fmt.Sprintf("Bonus (%d+)", rules.BonusThreshold), func(_ int, p game.Player) string {
		return TotalStyle.Render(fmt.Sprintf("%*d", colWidth, rules.Bonus(p.Card.UpperSubtotal())))
	})
	for _, c := range dice.Categories() {
		if c.Section() == dice.Lower {
			categoryRow(c)
		}
	}
	row("TOTAL", func(_ int, p game.Player) string {
		return TotalStyle.Render(fmt.Sprintf("%*d", colWidth, p.Card.Total(rules)))
	})

	return strings.TrimRight(b.String(), "\n")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
