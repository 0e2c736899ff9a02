package ui

// Page identifies a navigable page of the TUI.
type Page int

const (
	PageLogin Page = iota
	PageRegister
	PageCourses
	PageCourseDetail
	PageFlashcards
	PageScraper
	PageStudyPlan
)

func (p Page) String() string {
	switch p {
	case PageLogin:
		return "login"
	case PageRegister:
		return "register"
	case PageCourses:
		return "courses"
	case PageCourseDetail:
		return "course_detail"
	case PageFlashcards:
		return "flashcards"
	case PageScraper:
		return "scraper"
	case PageStudyPlan:
		return "study_plan"
	default:
		return ""
	}
}

// needsCourse reports whether the page renders data scoped to a selected course.
func (p Page) needsCourse() bool {
	return p == PageCourseDetail || p == PageFlashcards
}

// needsFile reports whether the page renders data scoped to a selected file.
func (p Page) needsFile() bool {
	return p == PageFlashcards
}

// Params is the navigation selection carried between pages.
//
// CourseID and CourseDBID identify the selected course (LMS id and backend
// database id); FileID identifies the selected file within it.
type Params struct {
	CourseID   int
	CourseDBID int
	FileID     int
	CourseName string
	FileName   string
}

// Router owns the current page, the selection params, and the fetch
// generation. It is a plain state machine with no I/O so navigation policy
// can be tested without a terminal.
type Router struct {
	page   Page
	params Params
	gen    uint64
}

// NewRouter creates a router positioned on the login page.
func NewRouter() *Router {
	return &Router{page: PageLogin}
}

func (r *Router) Page() Page         { return r.page }
func (r *Router) Params() Params     { return r.params }
func (r *Router) Generation() uint64 { return r.gen }

// NavigateTo moves to the requested page and returns the new generation.
//
// A non-zero params value replaces the current selection; a zero value keeps
// it, so returning to a page re-renders the previous selection. Pages that
// need a selection the router doesn't hold fall back to the course list
// instead of rendering an empty page.
func (r *Router) NavigateTo(page Page, params ...Params) uint64 {
	if len(params) > 0 && params[0] != (Params{}) {
		r.params = params[0]
	}

	if page.needsCourse() && r.params.CourseID == 0 {
		page = PageCourses
	} else if page.needsFile() && r.params.FileID == 0 {
		page = PageCourseDetail
	}

	r.page = page
	r.gen++
	return r.gen
}

// Reset returns to the login page and drops the selection. Called when the
// session ends, whether by logout or expiry.
func (r *Router) Reset() uint64 {
	r.params = Params{}
	r.page = PageLogin
	r.gen++
	return r.gen
}

// Stale reports whether a response tagged with gen belongs to an abandoned
// navigation and should be discarded.
func (r *Router) Stale(gen uint64) bool {
	return gen != r.gen
}
