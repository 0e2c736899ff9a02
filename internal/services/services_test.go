package services

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/quillfox/lmx/internal/api"
	"github.com/quillfox/lmx/internal/shared"
)

func newTestClient(t *testing.T, handler http.Handler) *api.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := api.NewClient(srv.URL, srv.Client())
	client.SetLogger(shared.NewLogger(&bytes.Buffer{}))
	return client
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func TestCourseService(t *testing.T) {
	ctx := context.Background()

	t.Run("List decodes the course catalog", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/api/courses", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, []map[string]any{
				{"id": 1, "course_id": 101, "name": "Algebra"},
				{"id": 2, "course_id": 202, "name": "Physics"},
			})
		})

		svc := NewCourseService(newTestClient(t, mux))
		courses, err := svc.List(ctx)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(courses) != 2 {
			t.Fatalf("len = %d, want 2", len(courses))
		}
		if courses[0].CourseID != 101 || courses[0].Name != "Algebra" {
			t.Errorf("courses[0] = %+v", courses[0])
		}
	})

	t.Run("Files hits the per-course endpoint", func(t *testing.T) {
		var gotPath string
		mux := http.NewServeMux()
		mux.HandleFunc("/api/course/101/files", func(w http.ResponseWriter, req *http.Request) {
			gotPath = req.URL.Path
			writeJSON(w, []map[string]any{
				{"id": 9, "name": "notes.pdf", "file_type": "pdf"},
			})
		})

		svc := NewCourseService(newTestClient(t, mux))
		files, err := svc.Files(ctx, 101)
		if err != nil {
			t.Fatalf("Files failed: %v", err)
		}
		if gotPath != "/api/course/101/files" {
			t.Errorf("path = %s", gotPath)
		}
		if len(files) != 1 || files[0].Name != "notes.pdf" {
			t.Errorf("files = %+v", files)
		}
	})

	t.Run("Deadlines decodes status fields", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/api/deadlines/101", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, []map[string]any{
				{"id": 1, "title": "Essay", "due_date": "2026-09-10", "status": "Upcoming", "is_completed": false},
				{"id": 2, "title": "Quiz", "due_date": "2026-08-20", "status": "Overdue", "is_completed": false},
				{"id": 3, "title": "Lab", "due_date": "2026-08-25", "status": "Overdue", "is_completed": true},
			})
		})

		svc := NewCourseService(newTestClient(t, mux))
		deadlines, err := svc.Deadlines(ctx, 101)
		if err != nil {
			t.Fatalf("Deadlines failed: %v", err)
		}

		if !deadlines[0].Upcoming() || deadlines[0].Overdue() {
			t.Errorf("open deadline misclassified: %+v", deadlines[0])
		}
		if !deadlines[1].Overdue() {
			t.Errorf("overdue deadline misclassified: %+v", deadlines[1])
		}
		if deadlines[2].Overdue() || deadlines[2].Upcoming() {
			t.Errorf("completed deadline misclassified: %+v", deadlines[2])
		}
	})

	t.Run("error responses propagate", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/api/courses", func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error": "database unavailable"}`))
		})

		svc := NewCourseService(newTestClient(t, mux))
		if _, err := svc.List(ctx); err == nil || !strings.Contains(err.Error(), "database unavailable") {
			t.Errorf("error = %v", err)
		}
	})
}

func TestToolService(t *testing.T) {
	ctx := context.Background()

	t.Run("Summarize uploads a multipart form", func(t *testing.T) {
		var gotFields map[string]string
		var gotFile []byte
		var gotFileName string

		mux := http.NewServeMux()
		mux.HandleFunc("/api/summarize_upload", func(w http.ResponseWriter, req *http.Request) {
			if err := req.ParseMultipartForm(1 << 20); err != nil {
				t.Errorf("not a multipart form: %v", err)
				return
			}
			gotFields = map[string]string{}
			for k := range req.MultipartForm.Value {
				gotFields[k] = req.FormValue(k)
			}
			file, header, err := req.FormFile("file")
			if err != nil {
				t.Errorf("missing file part: %v", err)
				return
			}
			defer file.Close()
			gotFile, _ = io.ReadAll(file)
			gotFileName = header.Filename

			writeJSON(w, map[string]any{"summary": "a short summary"})
		})

		svc := NewToolService(newTestClient(t, mux))
		raw, err := svc.Summarize(ctx, 7, "lecture.pdf", strings.NewReader("lecture content"))
		if err != nil {
			t.Fatalf("Summarize failed: %v", err)
		}

		if gotFields["course_db_id"] != "7" {
			t.Errorf("course_db_id = %q", gotFields["course_db_id"])
		}
		if gotFileName != "lecture.pdf" {
			t.Errorf("filename = %q", gotFileName)
		}
		if string(gotFile) != "lecture content" {
			t.Errorf("file content = %q", gotFile)
		}
		if !strings.Contains(string(raw), "a short summary") {
			t.Errorf("raw = %s", raw)
		}
	})

	t.Run("GenerateQuestions decodes the question list", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/api/generate_questions", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, map[string]any{"review_questions": []string{"What is X?", "Why Y?"}})
		})

		svc := NewToolService(newTestClient(t, mux))
		questions, err := svc.GenerateQuestions(ctx, 7, "lecture.pdf", strings.NewReader("content"))
		if err != nil {
			t.Fatalf("GenerateQuestions failed: %v", err)
		}
		if len(questions) != 2 || questions[0] != "What is X?" {
			t.Errorf("questions = %v", questions)
		}
	})

	t.Run("GetHint", func(t *testing.T) {
		t.Run("sends the question field", func(t *testing.T) {
			var gotQuestion string
			mux := http.NewServeMux()
			mux.HandleFunc("/api/get_hint", func(w http.ResponseWriter, req *http.Request) {
				req.ParseMultipartForm(1 << 20)
				gotQuestion = req.FormValue("question")
				writeJSON(w, map[string]any{"hint": "think about limits"})
			})

			svc := NewToolService(newTestClient(t, mux))
			hint, err := svc.GetHint(ctx, 7, "lecture.pdf", strings.NewReader("content"), "What is a derivative?")
			if err != nil {
				t.Fatalf("GetHint failed: %v", err)
			}
			if gotQuestion != "What is a derivative?" {
				t.Errorf("question = %q", gotQuestion)
			}
			if hint != "think about limits" {
				t.Errorf("hint = %q", hint)
			}
		})

		t.Run("empty hint gets a placeholder", func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("/api/get_hint", func(w http.ResponseWriter, req *http.Request) {
				writeJSON(w, map[string]any{})
			})

			svc := NewToolService(newTestClient(t, mux))
			hint, err := svc.GetHint(ctx, 7, "lecture.pdf", strings.NewReader("content"), "anything")
			if err != nil {
				t.Fatalf("GetHint failed: %v", err)
			}
			if hint != "No hint available" {
				t.Errorf("hint = %q", hint)
			}
		})
	})

	t.Run("GenerateFlashcards keeps the requested ids on the deck", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/api/courses/101/files/9/flashcards", func(w http.ResponseWriter, req *http.Request) {
			if req.Method != http.MethodPost {
				t.Errorf("method = %s", req.Method)
			}
			writeJSON(w, map[string]any{
				"flashcards": []map[string]string{
					{"question": "Q1", "answer": "A1"},
					{"question": "Q2", "answer": "A2"},
				},
			})
		})

		svc := NewToolService(newTestClient(t, mux))
		deck, err := svc.GenerateFlashcards(ctx, 101, 9)
		if err != nil {
			t.Fatalf("GenerateFlashcards failed: %v", err)
		}
		if deck.CourseID != 101 || deck.FileID != 9 {
			t.Errorf("deck ids = %d/%d", deck.CourseID, deck.FileID)
		}
		if len(deck.Flashcards) != 2 || deck.Flashcards[0].Question != "Q1" {
			t.Errorf("flashcards = %+v", deck.Flashcards)
		}
	})
}

func TestScraperService(t *testing.T) {
	ctx := context.Background()

	t.Run("Start posts credentials", func(t *testing.T) {
		var gotBody map[string]string
		mux := http.NewServeMux()
		mux.HandleFunc("/api/scrape", func(w http.ResponseWriter, req *http.Request) {
			json.NewDecoder(req.Body).Decode(&gotBody)
			writeJSON(w, map[string]string{"message": "scrape started"})
		})

		svc := NewScraperService(newTestClient(t, mux))
		if err := svc.Start(ctx, "student", "hunter2"); err != nil {
			t.Fatalf("Start failed: %v", err)
		}
		if gotBody["username"] != "student" || gotBody["password"] != "hunter2" {
			t.Errorf("body = %v", gotBody)
		}
	})

	t.Run("Status classification", func(t *testing.T) {
		cases := []struct {
			name    string
			payload string
			running bool
			failed  bool
		}{
			{"scraping", `{"status": "scraping"}`, true, false},
			{"never ran", `{"status": "idle"}`, false, false},
			{"succeeded", `{"status": "idle", "result": {"success": true, "message": "done"}}`, false, false},
			{"failed", `{"status": "idle", "result": {"success": false, "message": "LMS login failed"}}`, false, true},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				mux := http.NewServeMux()
				mux.HandleFunc("/api/scrape/status", func(w http.ResponseWriter, req *http.Request) {
					w.Header().Set("Content-Type", "application/json")
					w.Write([]byte(tc.payload))
				})

				svc := NewScraperService(newTestClient(t, mux))
				status, err := svc.Status(ctx)
				if err != nil {
					t.Fatalf("Status failed: %v", err)
				}
				if status.Running() != tc.running {
					t.Errorf("Running() = %v, want %v", status.Running(), tc.running)
				}
				if status.Failed() != tc.failed {
					t.Errorf("Failed() = %v, want %v", status.Failed(), tc.failed)
				}
			})
		}
	})
}

func TestCalendarService(t *testing.T) {
	ctx := context.Background()

	t.Run("Sync posts and decodes the count", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/api/sync_calendar", func(w http.ResponseWriter, req *http.Request) {
			if req.Method != http.MethodPost {
				t.Errorf("method = %s", req.Method)
			}
			writeJSON(w, map[string]any{"synced": 12, "message": "12 deadlines synced"})
		})

		svc := NewCalendarService(newTestClient(t, mux))
		result, err := svc.Sync(ctx)
		if err != nil {
			t.Fatalf("Sync failed: %v", err)
		}
		if result.Synced != 12 {
			t.Errorf("Synced = %d", result.Synced)
		}
	})

	t.Run("StudyPlanEvents decodes events", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/api/study_plan/events", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, []map[string]any{
				{"id": "ev1", "title": "Study Algebra", "start": "2026-09-02T18:00:00Z", "end": "2026-09-02T19:00:00Z", "kind": "study"},
			})
		})

		svc := NewCalendarService(newTestClient(t, mux))
		events, err := svc.StudyPlanEvents(ctx)
		if err != nil {
			t.Fatalf("StudyPlanEvents failed: %v", err)
		}
		if len(events) != 1 || events[0].Title != "Study Algebra" {
			t.Errorf("events = %+v", events)
		}
	})

	t.Run("UpdateSettings puts the settings body", func(t *testing.T) {
		var gotMethod string
		var gotBody UserSettings
		mux := http.NewServeMux()
		mux.HandleFunc("/api/user/settings", func(w http.ResponseWriter, req *http.Request) {
			gotMethod = req.Method
			json.NewDecoder(req.Body).Decode(&gotBody)
			w.WriteHeader(http.StatusNoContent)
		})

		svc := NewCalendarService(newTestClient(t, mux))
		err := svc.UpdateSettings(ctx, UserSettings{GoogleCalendarID: "primary"})
		if err != nil {
			t.Fatalf("UpdateSettings failed: %v", err)
		}
		if gotMethod != http.MethodPut {
			t.Errorf("method = %s", gotMethod)
		}
		if gotBody.GoogleCalendarID != "primary" {
			t.Errorf("body = %+v", gotBody)
		}
	})
}

func TestHomeworkService(t *testing.T) {
	ctx := context.Background()

	t.Run("Submit sends assignment fields with the file", func(t *testing.T) {
		var gotURL, gotUser string
		mux := http.NewServeMux()
		mux.HandleFunc("/api/homework/submit", func(w http.ResponseWriter, req *http.Request) {
			req.ParseMultipartForm(1 << 20)
			gotURL = req.FormValue("assignment_url")
			gotUser = req.FormValue("username")
			writeJSON(w, map[string]any{"success": true, "message": "submitted"})
		})

		svc := NewHomeworkService(newTestClient(t, mux))
		result, err := svc.Submit(ctx, "https://lms.example/assign/9", "student", "hunter2", "essay.docx", strings.NewReader("essay"))
		if err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
		if gotURL != "https://lms.example/assign/9" || gotUser != "student" {
			t.Errorf("fields = %q %q", gotURL, gotUser)
		}
		if !result.Success {
			t.Errorf("result = %+v", result)
		}
	})

	t.Run("Grade decodes the report", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/api/homework/grade", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, map[string]any{"grade": "B+", "score": 87, "feedback": "tighten the intro"})
		})

		svc := NewHomeworkService(newTestClient(t, mux))
		report, err := svc.Grade(ctx, 7, "essay.docx", strings.NewReader("essay"))
		if err != nil {
			t.Fatalf("Grade failed: %v", err)
		}
		if report.Grade != "B+" || report.Score != 87 {
			t.Errorf("report = %+v", report)
		}
	})
}
