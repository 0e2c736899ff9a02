// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-page workflow over the productivity backend:
//  1. [PageLogin] / [PageRegister] : account forms, shown while no session exists
//  2. [PageCourses] : browse the scraped course catalog
//  3. [PageCourseDetail] : files and deadlines for the selected course
//  4. [PageFlashcards] : generated deck for the selected file
//  5. [PageScraper] : run an LMS scrape with live progress
//  6. [PageStudyPlan] : sync deadlines and view the generated plan
//
// Page changes go through the [Router], which owns the navigation policy:
// course-scoped pages fall back to the course list when no course is
// selected, selection params survive until replaced, and every navigation
// bumps a generation counter so responses from abandoned pages are dropped.
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View
// pattern. Progress updates flow through a channel from the tasks engine,
// providing non-blocking status reporting during scrapes.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with
// contextual help displayed via charmbracelet/bubbles/help.
package ui
