package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/annotator/internal/database"
	"github.com/mrlokans/annotator/internal/database/annotations"
	"github.com/mrlokans/annotator/internal/database/lessons"
	"github.com/mrlokans/annotator/internal/dictionary"
	"github.com/mrlokans/annotator/internal/entities"
)

type testEnv struct {
	db          *database.Database
	lessons     *lessons.Repository
	annotations *annotations.Repository
	router      *gin.Engine
}

func setupTestDB(t *testing.T) *database.Database {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_http_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
		os.Remove(dbPath)
	})
	return db
}

func setupTestEnv(t *testing.T, mutate func(*RouterConfig)) *testEnv {
	t.Helper()
	db := setupTestDB(t)
	env := &testEnv{
		db:          db,
		lessons:     lessons.NewRepository(db.DB),
		annotations: annotations.NewRepository(db.DB),
	}

	cfg := RouterConfig{
		Database:        db,
		LessonStore:     env.lessons,
		AnnotationStore: env.annotations,
		Version:         "test",
	}
	if mutate != nil {
		mutate(&cfg)
	}
	env.router = NewRouter(cfg)
	return env
}

func (e *testEnv) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, _ := http.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) createLesson(t *testing.T, passage string) *entities.Lesson {
	t.Helper()
	lesson := &entities.Lesson{Title: "Foxes", Kind: entities.LessonKindReading, Passage: passage}
	require.NoError(t, e.lessons.CreateLesson(lesson))
	return lesson
}

func (e *testEnv) annotate(t *testing.T, lessonID uint, start, end int, word string) *entities.Annotation {
	t.Helper()
	a := &entities.Annotation{LessonID: lessonID, Start: start, End: end, Color: "#FFEB3B", Word: word}
	require.NoError(t, e.annotations.AddAnnotation(a))
	return a
}

type fakeDictionary struct {
	results map[string]*dictionary.LookupResult
	err     error
}

func (f *fakeDictionary) Lookup(_ context.Context, word string) (*dictionary.LookupResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	if r, ok := f.results[word]; ok {
		return r, nil
	}
	return nil, dictionary.ErrNotFound
}

func (f *fakeDictionary) Name() string {
	return "fake"
}

type fakeQueue struct {
	enqueued []uint
	err      error
}

func (q *fakeQueue) EnqueueEnrichment(annotationID uint) error {
	if q.err != nil {
		return q.err
	}
	q.enqueued = append(q.enqueued, annotationID)
	return nil
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
