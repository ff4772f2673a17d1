package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/policycheck/clerk/internal/policycheck"
	"github.com/policycheck/clerk/internal/session"
)

type tickMsg time.Time

func tickCmd(every time.Duration) tea.Cmd {
	return tea.Tick(every, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type loginDoneMsg struct {
	err error
}

func loginCmd(ctx context.Context, sess *session.Controller, username, password string) tea.Cmd {
	return func() tea.Msg {
		return loginDoneMsg{err: sess.Login(ctx, username, password)}
	}
}

type crawlStartedMsg struct {
	start policycheck.CrawlStart
	err   error
}

func startCrawlCmd(ctx context.Context, client *policycheck.Client, cfg policycheck.CrawlConfig) tea.Cmd {
	return func() tea.Msg {
		start, err := client.StartCrawl(ctx, cfg)
		return crawlStartedMsg{start: start, err: err}
	}
}

type docsPageMsg struct {
	page policycheck.DocumentPage
}

func fetchDocumentsCmd(ctx context.Context, client *policycheck.Client, query policycheck.DocumentQuery) tea.Cmd {
	return func() tea.Msg {
		return docsPageMsg{page: client.FetchDocuments(ctx, query)}
	}
}

type docActionDoneMsg struct {
	action string
	id     int
	err    error
}

func docActionCmd(ctx context.Context, action string, id int, fn func(context.Context, int) error) tea.Cmd {
	return func() tea.Msg {
		return docActionDoneMsg{action: action, id: id, err: fn(ctx, id)}
	}
}
