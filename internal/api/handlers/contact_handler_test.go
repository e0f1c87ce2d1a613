package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/arthurlanz/portfolio-contact-backend/internal/mailer"
	"github.com/arthurlanz/portfolio-contact-backend/internal/models"
	"github.com/arthurlanz/portfolio-contact-backend/internal/ratelimit"
	"github.com/arthurlanz/portfolio-contact-backend/tests/mocks"
)

const validBody = `{
	"name": "Ana Silva",
	"email": "ana@EXAMPLE.com ",
	"subject": "Hello there",
	"message": "This is a message with twenty plus chars."
}`

// ContactHandlerTestSuite is the test suite for ContactHandler
type ContactHandlerTestSuite struct {
	suite.Suite
	echo         *echo.Echo
	handler      *ContactHandler
	mockRepo     *mocks.MockContactRepository
	mockNotifier *mocks.MockNotifier
	mockLimiter  *mocks.MockSubmissionLimiter
}

// SetupTest runs before each test
func (s *ContactHandlerTestSuite) SetupTest() {
	s.echo = echo.New()
	s.mockRepo = new(mocks.MockContactRepository)
	s.mockNotifier = new(mocks.MockNotifier)
	s.mockLimiter = new(mocks.MockSubmissionLimiter)
	s.handler = NewContactHandler(s.mockRepo, s.mockLimiter, s.mockNotifier, nil, nil, nil, false)
}

// TearDownTest runs after each test
func (s *ContactHandlerTestSuite) TearDownTest() {
	s.mockRepo.AssertExpectations(s.T())
	s.mockNotifier.AssertExpectations(s.T())
	s.mockLimiter.AssertExpectations(s.T())
}

// TestContactHandlerTestSuite runs the test suite
func TestContactHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ContactHandlerTestSuite))
}

func (s *ContactHandlerTestSuite) createContext(body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/send", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.RemoteAddr = "198.51.100.4:54321"
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)
	return c, rec
}

func allowed() ratelimit.Decision {
	return ratelimit.Decision{Allowed: true}
}

// ==================== Submit Tests ====================

func (s *ContactHandlerTestSuite) TestSubmit_Success() {
	c, rec := s.createContext(validBody)

	s.mockLimiter.On("Allow", "198.51.100.4").Return(allowed())
	s.mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(m *models.ContactMessage) bool {
		return m.Email == "ana@example.com" && m.Name == "Ana Silva"
	})).Run(func(args mock.Arguments) {
		m := args.Get(1).(*models.ContactMessage)
		m.ID = 42
		m.CreatedAt = time.Now()
	}).Return(nil)
	s.mockNotifier.On("Notify", mock.Anything, "198.51.100.4").Return()

	err := s.handler.Submit(c)
	require.NoError(s.T(), err)

	assert.Equal(s.T(), http.StatusCreated, rec.Code)

	var resp struct {
		Success bool          `json:"success"`
		Message string        `json:"message"`
		Data    SubmissionAck `json:"data"`
	}
	require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.True(s.T(), resp.Success)
	assert.NotEmpty(s.T(), resp.Message)
	assert.Equal(s.T(), uint(42), resp.Data.ID)
	assert.Equal(s.T(), "ana@example.com", resp.Data.Email)
	assert.Equal(s.T(), "Ana Silva", resp.Data.Name)
	assert.Equal(s.T(), "Hello there", resp.Data.Subject)

	// The acknowledgment never echoes the message body or source IP
	assert.NotContains(s.T(), rec.Body.String(), "twenty plus chars")
	assert.NotContains(s.T(), rec.Body.String(), "198.51.100.4")
}

func (s *ContactHandlerTestSuite) TestSubmit_PersistsSourceIPFromForwardedHeader() {
	c, rec := s.createContext(validBody)
	c.Request().Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")

	s.mockLimiter.On("Allow", "203.0.113.9").Return(allowed())
	s.mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(m *models.ContactMessage) bool {
		return m.SourceIP != nil && *m.SourceIP == "203.0.113.9"
	})).Return(nil)
	s.mockNotifier.On("Notify", mock.Anything, "203.0.113.9").Return()

	err := s.handler.Submit(c)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), http.StatusCreated, rec.Code)
}

func (s *ContactHandlerTestSuite) TestSubmit_ValidationFailure() {
	body := `{"name": "Ana Silva", "email": "not-an-email", "subject": "Hello there", "message": "This is a message with twenty plus chars."}`
	c, rec := s.createContext(body)

	s.mockLimiter.On("Allow", "198.51.100.4").Return(allowed())

	err := s.handler.Submit(c)
	require.NoError(s.T(), err)

	assert.Equal(s.T(), http.StatusBadRequest, rec.Code)

	var resp struct {
		Success bool                `json:"success"`
		Errors  map[string][]string `json:"errors"`
	}
	require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(s.T(), resp.Success)
	assert.NotEmpty(s.T(), resp.Errors["email"])

	// Nothing persisted, nothing dispatched
	s.mockRepo.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
	s.mockNotifier.AssertNotCalled(s.T(), "Notify", mock.Anything, mock.Anything)
}

func (s *ContactHandlerTestSuite) TestSubmit_RateLimited() {
	c, rec := s.createContext(validBody)

	s.mockLimiter.On("Allow", "198.51.100.4").Return(ratelimit.Decision{
		Allowed:    false,
		RetryAfter: 12 * time.Minute,
	})

	err := s.handler.Submit(c)
	require.NoError(s.T(), err)

	assert.Equal(s.T(), http.StatusTooManyRequests, rec.Code)
	assert.Equal(s.T(), "720", rec.Header().Get("Retry-After"))

	// The throttle fires before validation and persistence
	s.mockRepo.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
	s.mockNotifier.AssertNotCalled(s.T(), "Notify", mock.Anything, mock.Anything)
}

func (s *ContactHandlerTestSuite) TestSubmit_PersistenceFailureHidesDetailInProduction() {
	s.handler = NewContactHandler(s.mockRepo, s.mockLimiter, s.mockNotifier, nil, nil, nil, true)
	c, rec := s.createContext(validBody)

	s.mockLimiter.On("Allow", "198.51.100.4").Return(allowed())
	s.mockRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

	err := s.handler.Submit(c)
	require.NoError(s.T(), err)

	assert.Equal(s.T(), http.StatusInternalServerError, rec.Code)
	assert.NotContains(s.T(), rec.Body.String(), "connection refused")
	s.mockNotifier.AssertNotCalled(s.T(), "Notify", mock.Anything, mock.Anything)
}

func (s *ContactHandlerTestSuite) TestSubmit_PersistenceFailureEchoesDetailInDevelopment() {
	c, rec := s.createContext(validBody)

	s.mockLimiter.On("Allow", "198.51.100.4").Return(allowed())
	s.mockRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

	err := s.handler.Submit(c)
	require.NoError(s.T(), err)

	assert.Equal(s.T(), http.StatusInternalServerError, rec.Code)
	assert.Contains(s.T(), rec.Body.String(), "connection refused")
}

func (s *ContactHandlerTestSuite) TestSubmit_FormEncodedBody() {
	form := "name=Ana+Silva&email=ana%40example.com&subject=Hello+there&message=This+is+a+message+with+twenty+plus+chars."
	req := httptest.NewRequest(http.MethodPost, "/send", strings.NewReader(form))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	req.RemoteAddr = "198.51.100.4:54321"
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)

	s.mockLimiter.On("Allow", "198.51.100.4").Return(allowed())
	s.mockRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	s.mockNotifier.On("Notify", mock.Anything, "198.51.100.4").Return()

	err := s.handler.Submit(c)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), http.StatusCreated, rec.Code)
}

func (s *ContactHandlerTestSuite) TestSubmit_UnconfiguredTransportStillPersists() {
	// A real notifier without SMTP configuration skips delivery but the
	// submission must succeed end to end
	notifier := mailer.NewContactNotifier(mailer.SMTPConfig{}, nil, nil)
	s.handler = NewContactHandler(s.mockRepo, s.mockLimiter, notifier, nil, nil, nil, false)

	c, rec := s.createContext(validBody)

	s.mockLimiter.On("Allow", "198.51.100.4").Return(allowed())
	s.mockRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	err := s.handler.Submit(c)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), http.StatusCreated, rec.Code)
}

// ==================== clientIP Tests ====================

func TestClientIP(t *testing.T) {
	e := echo.New()

	tests := []struct {
		name       string
		forwarded  string
		remoteAddr string
		want       *string
	}{
		{"forwarded single", "203.0.113.9", "10.0.0.1:443", strPtr("203.0.113.9")},
		{"forwarded list takes first", "203.0.113.9, 10.0.0.1, 10.0.0.2", "10.0.0.1:443", strPtr("203.0.113.9")},
		{"no forwarded falls back to remote", "", "198.51.100.4:54321", strPtr("198.51.100.4")},
		{"neither available", "", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/send", nil)
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			req.RemoteAddr = tt.remoteAddr
			c := e.NewContext(req, httptest.NewRecorder())

			got := clientIP(c)
			if tt.want == nil {
				assert.Nil(t, got)
			} else {
				require.NotNil(t, got)
				assert.Equal(t, *tt.want, *got)
			}
		})
	}
}

func strPtr(s string) *string { return &s }
