package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/quillfox/lmx/internal/api"
	"github.com/quillfox/lmx/internal/repositories"
	"github.com/quillfox/lmx/internal/services"
	"github.com/quillfox/lmx/internal/session"
	"github.com/quillfox/lmx/internal/shared"
	"github.com/quillfox/lmx/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config   *shared.Config
	client   *api.Client
	session  *session.Store
	courses  *services.CourseService
	tools    *services.ToolService
	homework *services.HomeworkService
	scraper  *services.ScraperService
	meet     *services.MeetService
	calendar *services.CalendarService
	insights *services.InsightService
	chat     *services.ChatService
	engine   tasks.Engine
	logger   *log.Logger
	output   io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config
	Client  *api.Client
	Session *session.Store
	Logger  *log.Logger
	Output  io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Client == nil {
		opts.Client = api.NewClient(opts.Config.API.BaseURL, nil)
	}
	if opts.Session != nil {
		opts.Session.Bind(opts.Client)
	}

	scraper := services.NewScraperService(opts.Client)
	calendar := services.NewCalendarService(opts.Client)
	pollInterval := time.Duration(opts.Config.Scraper.PollSeconds) * time.Second

	return &Runner{
		config:   opts.Config,
		client:   opts.Client,
		session:  opts.Session,
		courses:  services.NewCourseService(opts.Client),
		tools:    services.NewToolService(opts.Client),
		homework: services.NewHomeworkService(opts.Client),
		scraper:  scraper,
		meet:     services.NewMeetService(opts.Client),
		calendar: calendar,
		insights: services.NewInsightService(opts.Client),
		chat:     services.NewChatService(opts.Client),
		engine:   tasks.NewBackendEngine(scraper, calendar, pollInterval),
		logger:   opts.Logger,
		output:   opts.Output,
	}
}

// SetLogger replaces the runner's logger and propagates it to the api client.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
	r.client.SetLogger(l)
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		authCommand, coursesCommand, toolsCommand, homeworkCommand, scrapeCommand,
		calendarCommand, insightsCommand, chatCommand, apiCommand, setupCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// openCatalog opens the local cache database and returns the catalog layer.
// The caller owns the db handle.
func (r *Runner) openCatalog() (*sql.DB, *repositories.CatalogCache, *repositories.CourseRepository, *repositories.FileRepository, error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	courseRepo := repositories.NewCourseRepository(db)
	fileRepo := repositories.NewFileRepository(db)
	return db, repositories.NewCatalogCache(courseRepo, fileRepo), courseRepo, fileRepo, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
