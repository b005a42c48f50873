package handler

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"licentia/internal/applications"
	"licentia/internal/eligibility"
	"licentia/internal/fees"
	"licentia/internal/person"
	"licentia/internal/prereq"
	prereqadapters "licentia/internal/prereq/adapters"
	"licentia/internal/rules"
	"licentia/internal/workflow"
	"licentia/pkg/domain"
	"licentia/pkg/testutil"
)

type HandlerSuite struct {
	suite.Suite
	router   chi.Router
	apps     *applications.InMemoryStore
	persons  *person.InMemoryStore
	personID domain.PersonID
	now      time.Time
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	registry, err := rules.New(rules.Default())
	s.Require().NoError(err)

	s.now = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.apps = applications.NewInMemoryStore()
	s.persons = person.NewInMemoryStore()

	s.personID = domain.PersonID{UUID: uuid.New()}
	birth := time.Date(1990, 5, 10, 0, 0, 0, 0, time.UTC)
	s.persons.Put(person.Record{ID: s.personID, BirthDate: &birth})

	service := workflow.NewService(
		registry,
		eligibility.New(registry),
		prereq.NewResolver(registry, prereqadapters.NewApplicationsAdapter(s.apps), nil, nil),
		fees.NewMemoryProvider(fees.DefaultSchedule()),
		s.persons,
		applications.NewSubmissionService(s.apps, nil),
		workflow.NewInMemoryStore(),
		nil,
		nil,
	)

	h := New(service, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.router = chi.NewRouter()
	h.Register(s.router)
}

func (s *HandlerSuite) do(req *http.Request) *httptest.ResponseRecorder {
	req = testutil.WithClerkAuth(req, "clerk-42", "office-12")
	req = testutil.WithRequestTime(req, s.now)
	return testutil.DoRequest(s.router, req)
}

func (s *HandlerSuite) startSession() StateResponse {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/workflows", map[string]string{
		"person_id":        s.personID.String(),
		"application_type": "new_license",
	})
	rr := s.do(req)
	s.Require().Equal(http.StatusCreated, rr.Code)
	return *testutil.UnmarshalResponse[StateResponse](s.T(), rr)
}

func (s *HandlerSuite) TestStart() {
	s.Run("creates a session", func() {
		resp := s.startSession()
		s.NotEmpty(resp.ID)
		s.Equal("new_license", resp.ApplicationType)
		s.Equal([]string{"applicant", "application_details", "medical", "biometrics", "review"}, resp.Steps)
	})

	s.Run("malformed body is a bad request", func() {
		req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/workflows", "{not json")
		rr := s.do(req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})

	s.Run("invalid person id is invalid input", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/workflows", map[string]string{
			"person_id":        "nope",
			"application_type": "new_license",
		})
		rr := s.do(req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_input")
	})

	s.Run("unknown person is not found", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/workflows", map[string]string{
			"person_id":        uuid.NewString(),
			"application_type": "new_license",
		})
		rr := s.do(req)
		testutil.AssertStatus(s.T(), rr, http.StatusNotFound)
	})
}

func (s *HandlerSuite) TestGet() {
	created := s.startSession()

	rr := s.do(testutil.NewRequest(s.T(), http.MethodGet, "/workflows/"+created.ID))
	testutil.AssertStatusOK(s.T(), rr)

	s.Run("unknown session is not found", func() {
		rr := s.do(testutil.NewRequest(s.T(), http.MethodGet, "/workflows/"+uuid.NewString()))
		testutil.AssertStatus(s.T(), rr, http.StatusNotFound)
	})

	s.Run("malformed id is invalid input", func() {
		rr := s.do(testutil.NewRequest(s.T(), http.MethodGet, "/workflows/not-a-uuid"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_input")
	})
}

func (s *HandlerSuite) TestSelectCategory() {
	created := s.startSession()

	req := testutil.NewJSONRequest(s.T(), http.MethodPut, "/workflows/"+created.ID+"/category", map[string]any{
		"category": "B",
	})
	rr := s.do(req)
	testutil.AssertStatusOK(s.T(), rr)
	resp := testutil.UnmarshalResponse[StateResponse](s.T(), rr)
	s.Equal("B", resp.SelectedCategory)

	s.Run("unsupported category is invalid input", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPut, "/workflows/"+created.ID+"/category", map[string]any{
			"category": "Z9",
		})
		rr := s.do(req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_input")
	})
}

func (s *HandlerSuite) TestAdvanceReportsReasons() {
	created := s.startSession()

	// Applicant step passes.
	rr := s.do(testutil.NewRequest(s.T(), http.MethodPost, "/workflows/"+created.ID+"/advance"))
	testutil.AssertStatusOK(s.T(), rr)
	resp := testutil.UnmarshalResponse[ValidationResponse](s.T(), rr)
	s.True(resp.Valid)

	// Details step blocks without a category and names the reason.
	rr = s.do(testutil.NewRequest(s.T(), http.MethodPost, "/workflows/"+created.ID+"/advance"))
	testutil.AssertStatusOK(s.T(), rr)
	resp = testutil.UnmarshalResponse[ValidationResponse](s.T(), rr)
	s.False(resp.Valid)
	s.Require().NotEmpty(resp.Reasons)
	s.Equal(eligibility.ReasonCategoryRequired, resp.Reasons[0].Code)
}

func (s *HandlerSuite) TestQuote() {
	created := s.startSession()
	rr := s.do(testutil.NewRequest(s.T(), http.MethodGet, "/workflows/"+created.ID+"/quote"))
	testutil.AssertStatusOK(s.T(), rr)
}

func (s *HandlerSuite) TestAbandon() {
	created := s.startSession()
	rr := s.do(testutil.NewRequest(s.T(), http.MethodDelete, "/workflows/"+created.ID))
	testutil.AssertStatus(s.T(), rr, http.StatusNoContent)

	rr = s.do(testutil.NewRequest(s.T(), http.MethodGet, "/workflows/"+created.ID))
	testutil.AssertStatus(s.T(), rr, http.StatusNotFound)
}
