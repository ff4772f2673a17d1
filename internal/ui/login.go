package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyTab, tea.KeyShiftTab, tea.KeyUp, tea.KeyDown:
		m.loginFocus = (m.loginFocus + 1) % len(m.loginInputs)
		for i := range m.loginInputs {
			if i == m.loginFocus {
				m.loginInputs[i].Focus()
			} else {
				m.loginInputs[i].Blur()
			}
		}
		return m, nil

	case tea.KeyEnter:
		if m.loginFocus == 0 {
			m.loginFocus = 1
			m.loginInputs[0].Blur()
			m.loginInputs[1].Focus()
			return m, nil
		}
		username := strings.TrimSpace(m.loginInputs[0].Value())
		password := m.loginInputs[1].Value()
		if username == "" || password == "" {
			m.loginErr = "username and password required"
			return m, nil
		}
		m.loginBusy = true
		m.loginErr = ""
		return m, loginCmd(m.ctx, m.sess, username, password)
	}

	var cmd tea.Cmd
	m.loginInputs[m.loginFocus], cmd = m.loginInputs[m.loginFocus].Update(msg)
	return m, cmd
}

func (m Model) renderLogin() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Sign in to PolicyCheck"))
	b.WriteString("\n\n")
	b.WriteString("  " + m.loginInputs[0].View() + "\n")
	b.WriteString("  " + m.loginInputs[1].View() + "\n\n")

	switch {
	case m.loginBusy:
		b.WriteString("  " + m.spin.View() + m.styles.Muted.Render(" signing in…"))
	case m.loginErr != "":
		b.WriteString("  " + m.styles.Danger.Render(m.loginErr))
	case m.notice != "":
		b.WriteString("  " + m.styles.Warning.Render(m.notice))
	}
	b.WriteString("\n\n")
	b.WriteString("  " + m.styles.Muted.Render("enter to submit • tab to switch fields • ctrl+c to quit"))
	return b.String()
}
