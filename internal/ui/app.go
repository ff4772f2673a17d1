package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/policycheck/clerk/internal/poll"
	"github.com/policycheck/clerk/internal/policycheck"
	"github.com/policycheck/clerk/internal/session"
	"github.com/policycheck/clerk/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewLogin View = iota
	ViewDashboard
	ViewDocuments
	ViewCrawl
	ViewAudit
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Client    *policycheck.Client
	Session   *session.Controller
	Store     *state.Store
	Poller    *poll.Poller
	PollTick  time.Duration
	ThemeName string
	APIURL    string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx      context.Context
	client   *policycheck.Client
	sess     *session.Controller
	store    *state.Store
	poller   *poll.Poller
	pollTick time.Duration
	apiURL   string

	theme  Theme
	styles Styles
	keys   keyMap

	view   View
	width  int
	height int
	ready  bool
	notice string

	snapshot state.Snapshot
	pollSnap poll.Snapshot

	spin spinner.Model

	// Login form
	loginInputs [2]textinput.Model
	loginFocus  int
	loginBusy   bool
	loginErr    string

	// Crawl form: country, seed urls, max pages, max minutes
	crawlInputs   [4]textinput.Model
	crawlFocus    int
	crawlErr      string
	crawlStarting bool

	// Documents
	docs      policycheck.DocumentPage
	docCursor int
	docNotice string
}

// New creates the root model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = time.Second
	}

	m := Model{
		ctx:      ctx,
		client:   opts.Client,
		sess:     opts.Session,
		store:    opts.Store,
		poller:   opts.Poller,
		pollTick: pollTick,
		apiURL:   opts.APIURL,
		theme:    GetTheme(opts.ThemeName),
		keys:     defaultKeyMap(),
	}
	m.styles = m.theme.Styles()

	m.spin = spinner.New()
	m.spin.Spinner = spinner.Dot

	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 100
	username.Focus()
	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 100
	m.loginInputs = [2]textinput.Model{username, password}

	country := textinput.New()
	country.Placeholder = "country (e.g. NZ)"
	country.CharLimit = 10
	country.Focus()
	seeds := textinput.New()
	seeds.Placeholder = "seed urls, comma separated"
	seeds.CharLimit = 2000
	maxPages := textinput.New()
	maxPages.Placeholder = "max pages (default 1000)"
	maxPages.CharLimit = 6
	maxMinutes := textinput.New()
	maxMinutes.Placeholder = "max minutes (default 60)"
	maxMinutes.CharLimit = 4
	m.crawlInputs = [4]textinput.Model{country, seeds, maxPages, maxMinutes}

	if opts.Session != nil && opts.Session.IsAuthenticated() {
		m.view = ViewDashboard
	} else {
		m.view = ViewLogin
	}
	return m
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	program := tea.NewProgram(New(opts), tea.WithContext(opts.Context))
	_, err := program.Run()
	if err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, tea.ErrProgramKilled)) {
		return nil
	}
	return err
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tickCmd(m.pollTick),
		m.spin.Tick,
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case tickMsg:
		return m.handleTick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case loginDoneMsg:
		m.loginBusy = false
		if msg.err != nil {
			m.loginErr = policycheck.ErrorDetail(msg.err)
			return m, nil
		}
		m.loginErr = ""
		m.loginInputs[1].SetValue("")
		m.notice = "signed in"
		return m.setView(ViewDashboard)

	case crawlStartedMsg:
		m.crawlStarting = false
		if msg.err != nil {
			m.crawlErr = policycheck.ErrorDetail(msg.err)
			return m, nil
		}
		m.crawlErr = ""
		m.notice = msg.start.Message
		m.poller.Start(m.ctx, msg.start.CrawlID)
		return m, nil

	case docsPageMsg:
		m.docs = msg.page
		if m.docCursor >= len(m.docs.Documents) {
			m.docCursor = 0
		}
		return m, nil

	case docActionDoneMsg:
		if msg.err != nil {
			m.docNotice = fmt.Sprintf("%s #%d failed: %s", msg.action, msg.id, policycheck.ErrorDetail(msg.err))
			return m, nil
		}
		m.docNotice = fmt.Sprintf("%s #%d ok", msg.action, msg.id)
		// Re-fetch the current page so the row reflects the mutation.
		return m, fetchDocumentsCmd(m.ctx, m.client, policycheck.DocumentQuery{Page: m.docs.Page})

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	m.snapshot = m.store.Snapshot()
	m.pollSnap = m.poller.Snapshot()

	// A 401 anywhere tears the session down; the next tick lands here and
	// routes back to the login view unless it is already showing.
	if !m.sess.IsAuthenticated() && m.view != ViewLogin {
		m.poller.Stop()
		m.notice = "session expired, sign in again"
		m.view = ViewLogin
		m.loginFocus = 0
		m.loginInputs[0].Focus()
		m.loginInputs[1].Blur()
		return m, tickCmd(m.pollTick)
	}

	if m.view == ViewDocuments && m.docs.Page <= 1 {
		m.docs = m.snapshot.Documents
		if m.docCursor >= len(m.docs.Documents) {
			m.docCursor = 0
		}
	}
	return m, tickCmd(m.pollTick)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.poller.Stop()
		return m, tea.Quit
	}

	switch m.view {
	case ViewLogin:
		return m.updateLogin(msg)
	case ViewCrawl:
		return m.updateCrawl(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.poller.Stop()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Logout):
		m.poller.Stop()
		m.sess.Logout()
		m.notice = "signed out"
		return m.setView(ViewLogin)
	case key.Matches(msg, m.keys.ViewDashboard):
		return m.setView(ViewDashboard)
	case key.Matches(msg, m.keys.ViewDocuments):
		return m.setView(ViewDocuments)
	case key.Matches(msg, m.keys.ViewCrawl):
		return m.setView(ViewCrawl)
	case key.Matches(msg, m.keys.ViewAudit):
		return m.setView(ViewAudit)
	}

	if m.view == ViewDocuments {
		return m.updateDocuments(msg)
	}
	return m, nil
}

// setView switches the active view. The crawl view owns the job poller:
// navigating away from it is a teardown and must stop the schedule before
// the view goes out of scope.
func (m Model) setView(v View) (tea.Model, tea.Cmd) {
	if m.view == ViewCrawl && v != ViewCrawl {
		m.poller.Stop()
	}
	m.view = v
	switch v {
	case ViewDocuments:
		m.docCursor = 0
		m.docNotice = ""
		return m, fetchDocumentsCmd(m.ctx, m.client, policycheck.DocumentQuery{Page: 1})
	case ViewLogin:
		m.loginFocus = 0
		m.loginInputs[0].Focus()
		m.loginInputs[1].Blur()
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "loading…"
	}
	header := m.renderHeader()
	footer := m.renderFooter()

	var body string
	switch m.view {
	case ViewLogin:
		body = m.renderLogin()
	case ViewDashboard:
		body = m.renderDashboard()
	case ViewDocuments:
		body = m.renderDocuments()
	case ViewCrawl:
		body = m.renderCrawl()
	case ViewAudit:
		body = m.renderAudit()
	}
	return header + "\n" + body + "\n" + footer
}
