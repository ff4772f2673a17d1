package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/policycheck/clerk/internal/policycheck"
)

func (m Model) renderHeader() string {
	title := m.styles.Title.Render("clerk")
	parts := []string{title, m.styles.Muted.Render(m.apiURL)}

	if user := m.sess.CurrentUser(); user != nil {
		who := user.Username
		if user.IsAdmin() {
			who += " (admin)"
		}
		parts = append(parts, m.styles.Text.Render(who))
	}
	if m.snapshot.IsOffline() {
		parts = append(parts, m.styles.Danger.Render("OFFLINE"))
	} else if m.snapshot.LastError != nil {
		parts = append(parts, m.styles.Warning.Render("refresh failing"))
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderFooter() string {
	if m.view == ViewLogin {
		return ""
	}
	help := "1 dashboard • 2 documents • 3 crawl • 4 audit • L logout • q quit"
	if m.view == ViewDocuments {
		help = "j/k move • a approve • r reject • x delete • n/p page • " + help
	}
	return m.styles.Footer.Render(help)
}

func (m Model) renderDashboard() string {
	snap := m.snapshot
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Pipeline"))
	b.WriteString("\n")
	if len(snap.Pipeline.Stages) == 0 {
		b.WriteString("  " + m.styles.Muted.Render("no pipeline data yet") + "\n")
	} else {
		names := make([]string, 0, len(snap.Pipeline.Stages))
		for name := range snap.Pipeline.Stages {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			b.WriteString(fmt.Sprintf("  %s %d\n", padRight(name, 18), snap.Pipeline.Stages[name]))
		}
		b.WriteString(m.styles.Muted.Render(fmt.Sprintf(
			"  processed %d • avg confidence %.2f • error rate %.1f%%",
			snap.Pipeline.TotalProcessed, snap.Pipeline.AvgConfidence, snap.Pipeline.ErrorRate)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Title.Render("Review queue"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  total %d • needs review %d • approved %d\n",
		snap.Dashboard.TotalDocuments, snap.Dashboard.NeedsReview, snap.Dashboard.UserApproved))

	b.WriteString("\n")
	b.WriteString(m.styles.Title.Render("Crawl sessions"))
	b.WriteString("\n")
	if len(snap.Sessions) == 0 {
		b.WriteString("  " + m.styles.Muted.Render("none yet") + "\n")
	}
	limit := len(snap.Sessions)
	if limit > 5 {
		limit = 5
	}
	for _, s := range snap.Sessions[:limit] {
		b.WriteString(fmt.Sprintf("  #%-4d %s %s %3d%%  pdfs %d\n",
			s.ID, padRight(s.Country, 4), m.statusStyle(s.Status).Render(padRight(s.Status, 10)),
			s.ProgressPct, s.PDFsDownloaded))
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Title.Render("Recent activity"))
	b.WriteString("\n")
	if len(snap.Dashboard.RecentActivity) == 0 {
		b.WriteString("  " + m.styles.Muted.Render("quiet so far") + "\n")
	}
	activity := snap.Dashboard.RecentActivity
	if len(activity) > 5 {
		activity = activity[:5]
	}
	for _, entry := range activity {
		b.WriteString("  " + m.renderAuditLine(entry) + "\n")
	}
	return b.String()
}

func (m Model) updateDocuments(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Down):
		if m.docCursor < len(m.docs.Documents)-1 {
			m.docCursor++
		}
	case key.Matches(msg, m.keys.Up):
		if m.docCursor > 0 {
			m.docCursor--
		}
	case key.Matches(msg, m.keys.NextPage):
		if m.docs.Page < m.docs.Pages {
			return m, fetchDocumentsCmd(m.ctx, m.client, policycheck.DocumentQuery{Page: m.docs.Page + 1})
		}
	case key.Matches(msg, m.keys.PrevPage):
		if m.docs.Page > 1 {
			return m, fetchDocumentsCmd(m.ctx, m.client, policycheck.DocumentQuery{Page: m.docs.Page - 1})
		}
	case key.Matches(msg, m.keys.Approve):
		if doc, ok := m.selectedDocument(); ok {
			return m, docActionCmd(m.ctx, "approve", doc.ID, m.client.ApproveDocument)
		}
	case key.Matches(msg, m.keys.Reject):
		if doc, ok := m.selectedDocument(); ok {
			return m, docActionCmd(m.ctx, "reject", doc.ID, m.client.RejectDocument)
		}
	case key.Matches(msg, m.keys.Delete):
		if doc, ok := m.selectedDocument(); ok {
			return m, docActionCmd(m.ctx, "delete", doc.ID, m.client.DeleteDocument)
		}
	}
	return m, nil
}

func (m Model) selectedDocument() (policycheck.Document, bool) {
	if m.docCursor < 0 || m.docCursor >= len(m.docs.Documents) {
		return policycheck.Document{}, false
	}
	return m.docs.Documents[m.docCursor], true
}

func (m Model) renderDocuments() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Documents"))
	b.WriteString(m.styles.Muted.Render(fmt.Sprintf("  page %d/%d • %d total", m.docs.Page, m.docs.Pages, m.docs.Total)))
	b.WriteString("\n\n")

	if len(m.docs.Documents) == 0 {
		b.WriteString("  " + m.styles.Muted.Render("no documents") + "\n")
	}
	for i, doc := range m.docs.Documents {
		line := fmt.Sprintf("#%-5d %s %s %s conf %.2f  %s",
			doc.ID,
			padRight(doc.Insurer, 20),
			padRight(doc.PolicyType, 12),
			m.statusStyle(doc.Status).Render(padRight(doc.Status, 10)),
			doc.Confidence,
			formatBytes(doc.FileSize))
		if i == m.docCursor {
			b.WriteString(m.styles.Selected.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	if m.docNotice != "" {
		b.WriteString("\n  " + m.styles.Warning.Render(m.docNotice) + "\n")
	}
	return b.String()
}

func (m Model) renderAudit() string {
	var b strings.Builder
	audit := m.snapshot.Audit
	b.WriteString(m.styles.Title.Render("Audit log"))
	b.WriteString(m.styles.Muted.Render(fmt.Sprintf("  page %d/%d • %d total", audit.Page, audit.Pages, audit.Total)))
	b.WriteString("\n\n")

	if len(audit.Entries) == 0 {
		b.WriteString("  " + m.styles.Muted.Render("no audit entries") + "\n")
	}
	for _, entry := range audit.Entries {
		b.WriteString("  " + m.renderAuditLine(entry) + "\n")
	}
	return b.String()
}

func (m Model) renderAuditLine(entry policycheck.AuditEntry) string {
	when := entry.Timestamp
	if t := entry.ParsedTimestamp(); !t.IsZero() {
		when = t.Format("01-02 15:04")
	}
	line := fmt.Sprintf("%s %s %s",
		m.styles.Muted.Render(padRight(when, 12)),
		padRight(entry.User, 12),
		m.styles.Accent.Render(entry.Action))
	if entry.Details != "" {
		line += " " + truncate(entry.Details, 60)
	}
	return line
}
