package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/quillfox/lmx/internal/services"
	"github.com/quillfox/lmx/internal/session"
	"github.com/quillfox/lmx/internal/tasks"
)

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	router  *Router
	session *session.Store
	courses *services.CourseService
	tools   *services.ToolService
	engine  tasks.Engine

	width  int
	height int

	loginForm    credForm
	registerForm credForm
	scrapeForm   credForm

	courseList list.Model
	fileList   list.Model

	deadlines []services.Deadline
	deck      *services.FlashcardDeck
	plan      *tasks.PlanRunResult

	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	scrapeResult *tasks.ScrapeRunResult
	scraping     bool
	planning     bool

	status string
	err    error

	help help.Model
	keys keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, store *session.Store, courses *services.CourseService, tools *services.ToolService, engine tasks.Engine) *Model {
	return &Model{
		ctx:          ctx,
		router:       NewRouter(),
		session:      store,
		courses:      courses,
		tools:        tools,
		engine:       engine,
		loginForm:    newCredForm("Username", "Password"),
		registerForm: newCredForm("Username", "Password"),
		scrapeForm:   newCredForm("LMS Username", "LMS Password"),
		help:         help.New(),
		keys:         newKeyMap(),
	}
}

// Init restores a persisted session: logged-in users land on the course list,
// everyone else on the login form.
func (m *Model) Init() tea.Cmd {
	if m.session.Authenticated() {
		m.router.NavigateTo(PageCourses)
		return m.fetchCourses()
	}
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.courseList.Width() == 0 {
			m.courseList.SetSize(msg.Width-4, msg.Height-8)
		}
		if m.fileList.Width() == 0 {
			m.fileList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case authDoneMsg:
		return m.handleAuthDone(msg)

	case coursesFetchedMsg:
		if m.router.Stale(msg.gen) {
			return m, nil
		}
		if msg.err != nil {
			return m.handleFetchError(msg.err)
		}
		items := make([]list.Item, len(msg.courses))
		for i, course := range msg.courses {
			items[i] = courseItem{course: course}
		}
		m.courseList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.courseList.Title = "Courses"
		m.courseList.SetSize(m.width-4, m.height-8)
		m.err = nil
		return m, nil

	case detailFetchedMsg:
		if m.router.Stale(msg.gen) {
			return m, nil
		}
		if msg.err != nil {
			return m.handleFetchError(msg.err)
		}
		items := make([]list.Item, len(msg.files))
		for i, file := range msg.files {
			items[i] = fileItem{file: file}
		}
		m.fileList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.fileList.Title = fmt.Sprintf("Files in %s", m.router.Params().CourseName)
		m.fileList.SetSize(m.width-4, m.height-8)
		m.deadlines = msg.deadlines
		m.err = nil
		return m, nil

	case deckFetchedMsg:
		if m.router.Stale(msg.gen) {
			return m, nil
		}
		if msg.err != nil {
			return m.handleFetchError(msg.err)
		}
		m.deck = msg.deck
		m.err = nil
		return m, nil

	case planDoneMsg:
		m.planning = false
		if m.router.Stale(msg.gen) {
			return m, nil
		}
		if msg.err != nil {
			return m.handleFetchError(msg.err)
		}
		m.plan = msg.result
		m.err = nil
		return m, nil

	case scrapeProgressMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case scrapeDoneMsg:
		m.scraping = false
		m.scrapeResult = msg.result
		m.err = msg.err
		if m.progressChan != nil {
			m.progressChan = nil
		}
		if msg.err != nil {
			return m.handleFetchError(msg.err)
		}
		return m, nil

	case sessionEndedMsg:
		m.reset("logged out")
		return m, nil
	}

	return m.updateActive(msg)
}

// View renders the UI based on the current page.
func (m *Model) View() string {
	switch m.router.Page() {
	case PageLogin:
		return m.renderLogin()
	case PageRegister:
		return m.renderRegister()
	case PageCourses:
		return m.renderCourses()
	case PageCourseDetail:
		return m.renderCourseDetail()
	case PageFlashcards:
		return m.renderFlashcards()
	case PageScraper:
		return m.renderScraper()
	case PageStudyPlan:
		return m.renderStudyPlan()
	default:
		return ""
	}
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.router.Page() {
	case PageLogin:
		return m.handleLoginKeys(msg)
	case PageRegister:
		return m.handleRegisterKeys(msg)
	case PageCourses:
		return m.handleCourseKeys(msg)
	case PageCourseDetail:
		return m.handleDetailKeys(msg)
	case PageFlashcards:
		return m.handleFlashcardKeys(msg)
	case PageScraper:
		return m.handleScraperKeys(msg)
	case PageStudyPlan:
		return m.handlePlanKeys(msg)
	}
	return m, nil
}

func (m *Model) handleLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab":
		m.loginForm.next()
		return m, nil
	case "ctrl+n":
		m.router.NavigateTo(PageRegister)
		return m, nil
	case "enter":
		if m.loginForm.complete() {
			m.status = "Logging in..."
			return m, m.submitLogin()
		}
		return m, nil
	}
	return m, m.loginForm.update(msg)
}

func (m *Model) handleRegisterKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.router.NavigateTo(PageLogin)
		return m, nil
	case "tab":
		m.registerForm.next()
		return m, nil
	case "enter":
		if m.registerForm.complete() {
			m.status = "Creating account..."
			return m, m.submitRegister()
		}
		return m, nil
	}
	return m, m.registerForm.update(msg)
}

func (m *Model) handleCourseKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "ctrl+l":
		return m, m.logout()
	case "s":
		m.router.NavigateTo(PageScraper)
		return m, nil
	case "p":
		gen := m.router.NavigateTo(PageStudyPlan)
		if m.plan == nil && !m.planning {
			m.planning = true
			return m, m.runPlan(gen)
		}
		return m, nil
	case "enter":
		if selected, ok := m.courseList.SelectedItem().(courseItem); ok {
			gen := m.router.NavigateTo(PageCourseDetail, Params{
				CourseID:   selected.course.CourseID,
				CourseDBID: selected.course.ID,
				CourseName: selected.course.Name,
			})
			return m, m.fetchDetail(gen, selected.course.CourseID)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.courseList, cmd = m.courseList.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.router.NavigateTo(PageCourses)
		return m, m.fetchCourses()
	case "enter", "f":
		if selected, ok := m.fileList.SelectedItem().(fileItem); ok {
			params := m.router.Params()
			params.FileID = selected.file.ID
			params.FileName = selected.file.Name
			gen := m.router.NavigateTo(PageFlashcards, params)
			m.deck = nil
			return m, m.fetchDeck(gen, params.CourseID, params.FileID)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.fileList, cmd = m.fileList.Update(msg)
	return m, cmd
}

func (m *Model) handleFlashcardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.router.NavigateTo(PageCourseDetail)
		return m, nil
	}
	return m, nil
}

func (m *Model) handleScraperKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.scraping {
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.router.NavigateTo(PageCourses)
		return m, m.fetchCourses()
	case "tab":
		m.scrapeForm.next()
		return m, nil
	case "enter":
		if m.scrapeForm.complete() {
			return m, m.startScrape()
		}
		return m, nil
	}
	return m, m.scrapeForm.update(msg)
}

func (m *Model) handlePlanKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.router.NavigateTo(PageCourses)
		return m, m.fetchCourses()
	case "r":
		if !m.planning {
			m.planning = true
			m.plan = nil
			return m, m.runPlan(m.router.Generation())
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) handleAuthDone(msg authDoneMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	if msg.err != nil {
		m.err = msg.err
		return m, nil
	}
	m.err = nil

	if msg.registered {
		m.status = "Account created, log in to continue"
		m.registerForm.reset()
		m.router.NavigateTo(PageLogin)
		return m, nil
	}

	m.loginForm.reset()
	m.router.NavigateTo(PageCourses)
	return m, m.fetchCourses()
}

// handleFetchError records the error and, when the failure tore the session
// down (a 401 from any endpoint), snaps the whole app back to the login page.
func (m *Model) handleFetchError(err error) (tea.Model, tea.Cmd) {
	m.err = err
	if !m.session.Authenticated() {
		m.reset("session expired")
	}
	return m, nil
}

// reset drops all fetched data and returns to the login page.
func (m *Model) reset(status string) {
	m.router.Reset()
	m.courseList = list.Model{}
	m.fileList = list.Model{}
	m.deadlines = nil
	m.deck = nil
	m.plan = nil
	m.scrapeResult = nil
	m.loginForm.reset()
	m.status = status
}

func (m *Model) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.router.Page() {
	case PageLogin:
		cmd = m.loginForm.update(msg)
	case PageRegister:
		cmd = m.registerForm.update(msg)
	case PageCourses:
		m.courseList, cmd = m.courseList.Update(msg)
	case PageCourseDetail:
		m.fileList, cmd = m.fileList.Update(msg)
	case PageScraper:
		cmd = m.scrapeForm.update(msg)
	}
	return m, cmd
}

func (m *Model) submitLogin() tea.Cmd {
	vals := m.loginForm.values()
	return func() tea.Msg {
		_, err := m.session.Login(m.ctx, vals[0], vals[1])
		return authDoneMsg{err: err}
	}
}

func (m *Model) submitRegister() tea.Cmd {
	vals := m.registerForm.values()
	return func() tea.Msg {
		err := m.session.Register(m.ctx, vals[0], vals[1])
		return authDoneMsg{registered: true, err: err}
	}
}

func (m *Model) logout() tea.Cmd {
	return func() tea.Msg {
		m.session.Logout()
		return sessionEndedMsg{}
	}
}

func (m *Model) fetchCourses() tea.Cmd {
	gen := m.router.Generation()
	return func() tea.Msg {
		courses, err := m.courses.List(m.ctx)
		return coursesFetchedMsg{gen: gen, courses: courses, err: err}
	}
}

func (m *Model) fetchDetail(gen uint64, courseID int) tea.Cmd {
	return func() tea.Msg {
		files, err := m.courses.Files(m.ctx, courseID)
		if err != nil {
			return detailFetchedMsg{gen: gen, err: err}
		}
		deadlines, err := m.courses.Deadlines(m.ctx, courseID)
		if err != nil {
			return detailFetchedMsg{gen: gen, err: err}
		}
		return detailFetchedMsg{gen: gen, files: files, deadlines: deadlines}
	}
}

func (m *Model) fetchDeck(gen uint64, courseID, fileID int) tea.Cmd {
	return func() tea.Msg {
		deck, err := m.tools.GenerateFlashcards(m.ctx, courseID, fileID)
		return deckFetchedMsg{gen: gen, deck: deck, err: err}
	}
}

func (m *Model) runPlan(gen uint64) tea.Cmd {
	return func() tea.Msg {
		result, err := m.engine.Plan(m.ctx, nil)
		return planDoneMsg{gen: gen, result: result, err: err}
	}
}

func (m *Model) startScrape() tea.Cmd {
	vals := m.scrapeForm.values()
	m.scraping = true
	m.scrapeResult = nil
	m.progress = tasks.ProgressUpdate{}
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	ch := m.progressChan

	go func() {
		result, err := m.engine.Scrape(m.ctx, vals[0], vals[1], ch)
		m.scrapeResult = result
		m.err = err
		close(ch)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	ch := m.progressChan
	return func() tea.Msg {
		if ch == nil {
			return scrapeDoneMsg{result: m.scrapeResult, err: m.err}
		}

		update, ok := <-ch
		if !ok {
			return scrapeDoneMsg{result: m.scrapeResult, err: m.err}
		}
		return scrapeProgressMsg(update)
	}
}
