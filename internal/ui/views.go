package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"

	"github.com/quillfox/lmx/internal/services"
	"github.com/quillfox/lmx/internal/tasks"
)

// courseItem wraps [services.Course] to implement list.Item.
type courseItem struct {
	course services.Course
}

func (i courseItem) FilterValue() string { return i.course.Name }
func (i courseItem) Title() string       { return i.course.Name }
func (i courseItem) Description() string {
	return fmt.Sprintf("course %d", i.course.CourseID)
}

// fileItem wraps [services.CourseFile] to implement list.Item.
type fileItem struct {
	file services.CourseFile
}

func (i fileItem) FilterValue() string { return i.file.Name }
func (i fileItem) Title() string       { return i.file.Name }
func (i fileItem) Description() string {
	if i.file.FileType == "" {
		return "file"
	}
	return i.file.FileType
}

func (m *Model) renderLogin() string {
	title := styles.title.Render("lmx — sign in")
	form := m.loginForm.view()

	var note string
	if m.status != "" {
		note = styles.warn.Render(m.status) + "\n"
	}
	if m.err != nil {
		note = styles.err.Render(fmt.Sprintf("Error: %v", m.err)) + "\n"
	}

	helpView := styles.help.Render("enter submit • tab switch field • ctrl+n register • ctrl+c quit")
	return fmt.Sprintf("%s\n%s%s\n%s", title, form, note, helpView)
}

func (m *Model) renderRegister() string {
	title := styles.title.Render("lmx — create account")
	form := m.registerForm.view()

	var note string
	if m.err != nil {
		note = styles.err.Render(fmt.Sprintf("Error: %v", m.err)) + "\n"
	}

	helpView := styles.help.Render("enter submit • tab switch field • esc back • ctrl+c quit")
	return fmt.Sprintf("%s\n%s%s\n%s", title, form, note, helpView)
}

func (m *Model) renderCourses() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.scrape, m.keys.plan, m.keys.logout, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.courseList.View(), helpView)
}

func (m *Model) renderCourseDetail() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress esc to go back", m.err))
	}

	var deadlines strings.Builder
	if len(m.deadlines) > 0 {
		deadlines.WriteString(styles.title.Render("Deadlines"))
		deadlines.WriteString("\n")
		for _, d := range m.deadlines {
			line := fmt.Sprintf("  %s — due %s", d.Title, d.DueDate)
			switch {
			case d.Overdue():
				line = styles.err.Render(line + " (overdue)")
			case d.IsCompleted:
				line = styles.ok.Render(line + " (done)")
			default:
				line = styles.warn.Render(line)
			}
			deadlines.WriteString(line + "\n")
		}
	}

	helpKeys := []key.Binding{m.keys.cards, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s%s", m.fileList.View(), deadlines.String(), helpView)
}

func (m *Model) renderFlashcards() string {
	params := m.router.Params()
	title := styles.title.Render(fmt.Sprintf("Flashcards — %s", params.FileName))

	if m.err != nil {
		return fmt.Sprintf("%s\n%s", title, styles.err.Render(fmt.Sprintf("Error: %v\n\nPress esc to go back", m.err)))
	}
	if m.deck == nil {
		return fmt.Sprintf("%s\nGenerating deck...", title)
	}

	var cards strings.Builder
	for i, card := range m.deck.Flashcards {
		cards.WriteString(fmt.Sprintf("%d. %s\n   %s\n\n", i+1, card.Question, styles.help.Render(card.Answer)))
	}

	helpView := styles.help.Render("esc back • q quit")
	return fmt.Sprintf("%s\n%s%s", title, cards.String(), helpView)
}

func (m *Model) renderScraper() string {
	title := styles.title.Render("Scrape LMS")

	if m.scraping {
		var phase string
		switch m.progress.Phase {
		case tasks.StartScrape:
			phase = "Starting scrape..."
		case tasks.PollScrape:
			phase = fmt.Sprintf("Scraping (poll %d)", m.progress.Step)
		case tasks.ScrapeDone:
			phase = "Finishing..."
		default:
			phase = "Working..."
		}
		return fmt.Sprintf("%s\n%s\n%s", title, phase, m.progress.Message)
	}

	if m.scrapeResult != nil {
		status := m.scrapeResult.Status
		var outcome string
		switch {
		case status.Failed():
			msg := "scrape failed"
			if status.Result != nil {
				msg = status.Result.Message
			}
			outcome = styles.err.Render("✗ " + msg)
		case status.Result != nil:
			outcome = styles.ok.Render("✓ " + status.Result.Message)
		default:
			outcome = styles.warn.Render("Scrape finished: " + status.Status)
		}
		detail := fmt.Sprintf("%d polls in %s", m.scrapeResult.Attempts, m.scrapeResult.Elapsed.Round(100*time.Millisecond))
		helpView := styles.help.Render("esc back to courses • ctrl+c quit")
		return fmt.Sprintf("%s\n%s\n%s\n\n%s", title, outcome, styles.help.Render(detail), helpView)
	}

	var note string
	if m.err != nil {
		note = styles.err.Render(fmt.Sprintf("Error: %v", m.err)) + "\n"
	}

	helpView := styles.help.Render("enter start • tab switch field • esc back • ctrl+c quit")
	return fmt.Sprintf("%s\n%s%s\n%s", title, m.scrapeForm.view(), note, helpView)
}

func (m *Model) renderStudyPlan() string {
	title := styles.title.Render("Study Plan")

	if m.err != nil {
		return fmt.Sprintf("%s\n%s", title, styles.err.Render(fmt.Sprintf("Error: %v\n\nPress esc to go back", m.err)))
	}
	if m.planning || m.plan == nil {
		return fmt.Sprintf("%s\nSyncing deadlines and generating plan...", title)
	}

	var b strings.Builder
	if m.plan.Sync != nil {
		b.WriteString(styles.ok.Render(fmt.Sprintf("✓ %d deadlines synced", m.plan.Sync.Synced)) + "\n")
	}
	if m.plan.Plan != nil && m.plan.Plan.Message != "" {
		b.WriteString(m.plan.Plan.Message + "\n")
	}
	b.WriteString("\n")
	for i, event := range m.plan.Events {
		line := fmt.Sprintf("%d. %s", i+1, event.Title)
		if event.Start != "" {
			line += styles.help.Render(fmt.Sprintf("  [%s]", event.Start))
		}
		b.WriteString(line + "\n")
	}

	helpView := styles.help.Render("r regenerate • esc back • q quit")
	return fmt.Sprintf("%s\n%s\n%s", title, b.String(), helpView)
}
