package ui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/policycheck/clerk/internal/poll"
	"github.com/policycheck/clerk/internal/policycheck"
)

func (m Model) updateCrawl(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m.setView(ViewDashboard)

	case tea.KeyTab, tea.KeyShiftTab, tea.KeyUp, tea.KeyDown:
		step := 1
		if msg.Type == tea.KeyShiftTab || msg.Type == tea.KeyUp {
			step = len(m.crawlInputs) - 1
		}
		m.crawlFocus = (m.crawlFocus + step) % len(m.crawlInputs)
		for i := range m.crawlInputs {
			if i == m.crawlFocus {
				m.crawlInputs[i].Focus()
			} else {
				m.crawlInputs[i].Blur()
			}
		}
		return m, nil

	case tea.KeyEnter:
		if m.crawlFocus < len(m.crawlInputs)-1 {
			m.crawlInputs[m.crawlFocus].Blur()
			m.crawlFocus++
			m.crawlInputs[m.crawlFocus].Focus()
			return m, nil
		}
		cfg, err := m.crawlConfig()
		if err != nil {
			m.crawlErr = err.Error()
			return m, nil
		}
		m.crawlStarting = true
		m.crawlErr = ""
		return m, startCrawlCmd(m.ctx, m.client, cfg)
	}

	var cmd tea.Cmd
	m.crawlInputs[m.crawlFocus], cmd = m.crawlInputs[m.crawlFocus].Update(msg)
	return m, cmd
}

func (m Model) crawlConfig() (policycheck.CrawlConfig, error) {
	country := strings.ToUpper(strings.TrimSpace(m.crawlInputs[0].Value()))
	if country == "" {
		return policycheck.CrawlConfig{}, fmt.Errorf("country required")
	}

	var seeds []string
	for _, raw := range strings.Split(m.crawlInputs[1].Value(), ",") {
		if seed := strings.TrimSpace(raw); seed != "" {
			seeds = append(seeds, seed)
		}
	}
	if len(seeds) == 0 {
		return policycheck.CrawlConfig{}, fmt.Errorf("at least one seed url required")
	}
	for _, seed := range seeds {
		if !strings.HasPrefix(seed, "http://") && !strings.HasPrefix(seed, "https://") {
			return policycheck.CrawlConfig{}, fmt.Errorf("invalid seed url: %s", seed)
		}
	}

	maxPages := 1000
	if v := strings.TrimSpace(m.crawlInputs[2].Value()); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return policycheck.CrawlConfig{}, fmt.Errorf("max pages must be a positive number")
		}
		maxPages = n
	}
	maxMinutes := 60
	if v := strings.TrimSpace(m.crawlInputs[3].Value()); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return policycheck.CrawlConfig{}, fmt.Errorf("max minutes must be a positive number")
		}
		maxMinutes = n
	}

	return policycheck.CrawlConfig{
		Country:        country,
		SeedURLs:       seeds,
		PolicyTypes:    []string{},
		Keywords:       []string{},
		MaxPages:       maxPages,
		MaxTimeMinutes: maxMinutes,
	}, nil
}

func (m Model) renderCrawl() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Start a crawl"))
	b.WriteString("\n\n")
	for i := range m.crawlInputs {
		b.WriteString("  " + m.crawlInputs[i].View() + "\n")
	}
	b.WriteString("\n")

	switch {
	case m.crawlStarting:
		b.WriteString("  " + m.spin.View() + m.styles.Muted.Render(" starting crawl…") + "\n")
	case m.crawlErr != "":
		b.WriteString("  " + m.styles.Danger.Render(m.crawlErr) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderCrawlProgress())
	b.WriteString("\n  " + m.styles.Muted.Render("enter to advance/submit • esc for dashboard • ctrl+c to quit"))
	return b.String()
}

func (m Model) renderCrawlProgress() string {
	snap := m.pollSnap
	if snap.State == poll.Idle {
		return "  " + m.styles.Muted.Render("no crawl being tracked") + "\n"
	}

	var b strings.Builder
	status := snap.Status

	label := fmt.Sprintf("crawl #%d", snap.JobID)
	b.WriteString("  " + m.styles.Accent.Render(label))
	if snap.HasStatus {
		b.WriteString("  " + m.statusStyle(status.Status).Render(status.Status))
	}
	switch snap.State {
	case poll.Polling:
		b.WriteString("  " + m.spin.View())
	case poll.Stopped:
		if snap.LastError != nil {
			b.WriteString("  " + m.styles.Danger.Render("polling stopped: "+policycheck.ErrorDetail(snap.LastError)))
		} else {
			b.WriteString("  " + m.styles.Muted.Render("polling stopped"))
		}
	}
	b.WriteString("\n")

	if snap.HasStatus {
		b.WriteString(fmt.Sprintf("  %s %3d%%\n", progressBar(status.ProgressPct, 32), status.ProgressPct))
		b.WriteString("  " + m.styles.Muted.Render(fmt.Sprintf(
			"pages %d • pdfs found %d • downloaded %d • filtered %d • errors %d",
			status.PagesScanned, status.PDFsFound, status.PDFsDownloaded, status.PDFsFiltered, status.ErrorsCount)))
		b.WriteString("\n")
	}
	return b.String()
}
