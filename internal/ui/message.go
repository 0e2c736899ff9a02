package ui

import (
	"github.com/quillfox/lmx/internal/services"
	"github.com/quillfox/lmx/internal/tasks"
)

// Fetch messages carry the router generation they were issued under so the
// update loop can drop responses from abandoned navigations.

type authDoneMsg struct {
	registered bool
	err        error
}

type coursesFetchedMsg struct {
	gen     uint64
	courses []services.Course
	err     error
}

type detailFetchedMsg struct {
	gen       uint64
	files     []services.CourseFile
	deadlines []services.Deadline
	err       error
}

type deckFetchedMsg struct {
	gen  uint64
	deck *services.FlashcardDeck
	err  error
}

type planDoneMsg struct {
	gen    uint64
	result *tasks.PlanRunResult
	err    error
}

type scrapeProgressMsg tasks.ProgressUpdate

type scrapeDoneMsg struct {
	result *tasks.ScrapeRunResult
	err    error
}

type sessionEndedMsg struct{}
