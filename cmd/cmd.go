// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// authCommand handles account and session operations
func authCommand(r *Runner) *cli.Command {
	credFlags := []cli.Flag{
		&cli.StringFlag{
			Name:     "username",
			Aliases:  []string{"u"},
			Usage:    "Account username",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "password",
			Aliases:  []string{"p"},
			Usage:    "Account password",
			Required: true,
		},
	}

	return &cli.Command{
		Name:  "auth",
		Usage: "Account and session operations",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Log in and persist the session",
				Flags:  credFlags,
				Action: r.AuthLogin,
			},
			{
				Name:   "register",
				Usage:  "Create an account (does not log in)",
				Flags:  credFlags,
				Action: r.AuthRegister,
			},
			{
				Name:   "logout",
				Usage:  "Clear the persisted session",
				Action: r.AuthLogout,
			},
			{
				Name:   "whoami",
				Usage:  "Show the logged-in user",
				Action: r.AuthWhoami,
			},
		},
	}
}

// coursesCommand handles catalog browsing
func coursesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "courses",
		Aliases: []string{"c"},
		Usage:   "Browse scraped courses, files, content, and deadlines",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List all courses",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "cached",
						Usage: "Read from the local catalog cache instead of the backend",
					},
					&cli.BoolFlag{
						Name:  "sync",
						Usage: "Refresh the local catalog cache from the listing",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.CoursesList,
			},
			{
				Name:  "files",
				Usage: "List the files of a course",
				Arguments: []cli.Argument{
					&cli.IntArg{Name: "course"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "cached",
						Usage: "Read from the local catalog cache instead of the backend",
					},
					&cli.BoolFlag{
						Name:  "sync",
						Usage: "Refresh the local catalog cache from the listing",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.CourseFiles,
			},
			{
				Name:  "content",
				Usage: "List the content items of a course",
				Arguments: []cli.Argument{
					&cli.IntArg{Name: "course"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
				},
				Action: r.CourseContent,
			},
			{
				Name:  "deadlines",
				Usage: "List the deadlines of a course",
				Arguments: []cli.Argument{
					&cli.IntArg{Name: "course"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
				},
				Action: r.CourseDeadlines,
			},
			{
				Name:   "assignments",
				Usage:  "List all submittable assignments",
				Action: r.CourseAssignments,
			},
			{
				Name:  "download",
				Usage: "Download a course file",
				Arguments: []cli.Argument{
					&cli.IntArg{Name: "course"},
					&cli.StringArg{Name: "name"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Destination path (defaults to the file name)",
					},
					&cli.BoolFlag{
						Name:  "open",
						Usage: "Open the file after downloading",
					},
				},
				Action: r.CourseDownload,
			},
		},
	}
}

// toolsCommand handles the AI study tools
func toolsCommand(r *Runner) *cli.Command {
	courseFlag := &cli.IntFlag{
		Name:     "course",
		Aliases:  []string{"c"},
		Usage:    "Backend database id of the course",
		Required: true,
	}

	return &cli.Command{
		Name:  "tools",
		Usage: "AI study tools: summaries, questions, hints, flashcards",
		Commands: []*cli.Command{
			{
				Name:  "summarize",
				Usage: "Upload a document and print its summary",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					courseFlag,
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output", Value: true},
				},
				Action: r.ToolsSummarize,
			},
			{
				Name:  "questions",
				Usage: "Generate review questions from a document",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					courseFlag,
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write the questions to a text file",
					},
				},
				Action: r.ToolsQuestions,
			},
			{
				Name:  "hint",
				Usage: "Get a hint for a question about a document",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					courseFlag,
					&cli.StringFlag{
						Name:     "question",
						Aliases:  []string{"q"},
						Usage:    "The question to get a hint for",
						Required: true,
					},
				},
				Action: r.ToolsHint,
			},
			{
				Name:  "flashcards",
				Usage: "Generate a flashcard deck from a scraped course file",
				Arguments: []cli.Argument{
					&cli.IntArg{Name: "course"},
					&cli.IntArg{Name: "file"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "export",
						Usage: "Export format: csv or md",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Export base path",
					},
					&cli.StringFlag{
						Name:  "title",
						Usage: "Deck title for Markdown export",
					},
				},
				Action: r.ToolsFlashcards,
			},
		},
	}
}

// homeworkCommand handles grading and submission
func homeworkCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "homework",
		Aliases: []string{"hw"},
		Usage:   "Grade and submit homework",
		Commands: []*cli.Command{
			{
				Name:  "grade",
				Usage: "Upload a homework document for AI grading",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "course",
						Aliases:  []string{"c"},
						Usage:    "Backend database id of the course",
						Required: true,
					},
				},
				Action: r.HomeworkGrade,
			},
			{
				Name:  "submit",
				Usage: "Submit a homework file to the LMS",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "url",
						Usage:    "Assignment URL on the LMS",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "username",
						Aliases:  []string{"u"},
						Usage:    "LMS username",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "LMS password",
						Required: true,
					},
				},
				Action: r.HomeworkSubmit,
			},
			{
				Name:  "fetch",
				Usage: "Download a scraped homework file",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Destination path (defaults to the file name)",
					},
				},
				Action: r.HomeworkFetch,
			},
		},
	}
}

// scrapeCommand handles LMS scrape runs
func scrapeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "scrape",
		Usage: "Scrape the LMS account into the backend",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Start a scrape and wait for it to finish",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "username",
						Aliases:  []string{"u"},
						Usage:    "LMS username",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "LMS password",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "no-wait",
						Usage: "Start the scrape and return immediately",
					},
				},
				Action: r.ScrapeRun,
			},
			{
				Name:   "status",
				Usage:  "Show the current scrape status",
				Action: r.ScrapeStatus,
			},
		},
	}
}

// calendarCommand handles calendar sync, study plans, and meeting bots
func calendarCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "calendar",
		Aliases: []string{"cal"},
		Usage:   "Calendar events, deadline sync, study plans, meeting bots",
		Commands: []*cli.Command{
			{
				Name:  "events",
				Usage: "List synced calendar events",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
				},
				Action: r.CalendarEvents,
			},
			{
				Name:   "sync",
				Usage:  "Push scraped deadlines onto the calendar",
				Action: r.CalendarSync,
			},
			{
				Name:  "plan",
				Usage: "Sync deadlines, generate a study plan, and show it",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write the plan to a text file",
					},
				},
				Action: r.CalendarPlan,
			},
			{
				Name:  "settings",
				Usage: "Show or change the calendar settings",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "calendar-id",
						Usage: "Set the Google Calendar id deadlines sync to",
					},
				},
				Action: r.CalendarSettings,
			},
			{
				Name:  "meet",
				Usage: "Schedule a recording bot for a meeting",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "url",
						Usage:    "Meeting URL",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "start",
						Usage:    "Meeting start time (RFC 3339 or backend-accepted format)",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "duration",
						Usage: "Meeting duration in minutes",
						Value: 60,
					},
				},
				Action: r.CalendarMeet,
			},
		},
	}
}

// insightsCommand handles the study-habit analytics
func insightsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "insights",
		Usage: "Study-habit analytics and recommendations",
		Commands: []*cli.Command{
			{
				Name:   "dashboard",
				Usage:  "Show the insights dashboard",
				Action: r.InsightsDashboard,
			},
			{
				Name:   "habits",
				Usage:  "Show the study-habit breakdown",
				Action: r.InsightsHabits,
			},
			{
				Name:  "compare",
				Usage: "Week-over-week comparison for a course",
				Arguments: []cli.Argument{
					&cli.IntArg{Name: "course"},
				},
				Action: r.InsightsCompare,
			},
			{
				Name:  "log",
				Usage: "Log a completed study session",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "course",
						Aliases:  []string{"c"},
						Usage:    "Backend database id of the course",
						Required: true,
					},
					&cli.IntFlag{
						Name:     "minutes",
						Aliases:  []string{"m"},
						Usage:    "Session length in minutes",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "topic",
						Aliases:  []string{"t"},
						Usage:    "Topic studied",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "notes",
						Usage: "Optional notes",
					},
				},
				Action: r.InsightsLogSession,
			},
			{
				Name:  "weak-topic",
				Usage: "Flag a topic as weak",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "course",
						Aliases:  []string{"c"},
						Usage:    "Backend database id of the course",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "topic",
						Aliases:  []string{"t"},
						Usage:    "The struggling topic",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "severity",
						Usage: "Optional severity label",
					},
				},
				Action: r.InsightsWeakTopic,
			},
			{
				Name:  "progress",
				Usage: "Record self-assessed course progress",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "course",
						Aliases:  []string{"c"},
						Usage:    "Backend database id of the course",
						Required: true,
					},
					&cli.IntFlag{
						Name:     "percent",
						Usage:    "Progress percentage",
						Required: true,
					},
				},
				Action: r.InsightsProgress,
			},
			{
				Name:   "recommend",
				Usage:  "Regenerate and show study recommendations",
				Action: r.InsightsRecommend,
			},
		},
	}
}

// chatCommand handles the course-aware AI chat
func chatCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "chat",
		Usage: "Course-aware AI chat",
		Commands: []*cli.Command{
			{
				Name:   "providers",
				Usage:  "List available chat providers",
				Action: r.ChatProviders,
			},
			{
				Name:  "send",
				Usage: "Send a message and print the reply",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "message"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "provider",
						Usage: "Provider id (backend default when omitted)",
					},
					&cli.IntFlag{
						Name:    "course",
						Aliases: []string{"c"},
						Usage:   "Scope the chat to a course",
					},
				},
				Action: r.ChatSend,
			},
		},
	}
}

// apiCommand handles raw backend calls for debugging
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct API calls to the backend",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST with JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON body to send",
						Required: true,
					},
				},
				Action: r.APIPost,
			},
		},
	}
}

// setupCommand handles setup operations for the cache database and config.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize the local cache database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:  "config",
				Usage: "Create a config.toml from the template",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "path",
						Aliases: []string{"o"},
						Usage:   "Where to write the config file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}

// tuiCommand launches the interactive terminal UI
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Launch the interactive terminal UI",
		Action: r.TUI,
	}
}
