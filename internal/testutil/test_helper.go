package testutil

import (
	"os"
	"testing"
	"time"

	"github.com/SathwikUK/Virtual-Study-Mugen/internal/models"
	"gorm.io/gorm"
)

// TestHelper provides utility functions for tests
type TestHelper struct {
	t *testing.T
}

func NewTestHelper(t *testing.T) *TestHelper {
	return &TestHelper{t: t}
}

// CreateTestUser creates a test user with default values
func (h *TestHelper) CreateTestUser(id uint, name, email string) *models.User {
	if id == 0 {
		id = 1
	}
	if name == "" {
		name = "Test Student"
	}
	if email == "" {
		email = "test@example.com"
	}

	return &models.User{
		ID:           id,
		Name:         name,
		Email:        email,
		PasswordHash: "hashed_password_123",
		Role:         "student",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

// CreateTestGroup creates a test group with default values
func (h *TestHelper) CreateTestGroup(id uint, name string, creatorID uint) *models.Group {
	if id == 0 {
		id = 1
	}
	if name == "" {
		name = "Study Group"
	}
	if creatorID == 0 {
		creatorID = 1
	}

	return &models.Group{
		ID:          id,
		Name:        name,
		Description: "A test study group",
		CreatorID:   creatorID,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
}

// CreateTestMessage creates a test group message with default values
func (h *TestHelper) CreateTestMessage(id uint, groupID, senderID uint, body string) *models.Message {
	if id == 0 {
		id = 1
	}
	if groupID == 0 {
		groupID = 1
	}
	if senderID == 0 {
		senderID = 1
	}
	if body == "" {
		body = "Test message"
	}

	return &models.Message{
		ID:         id,
		ClientID:   "client-" + string(rune('a'+id%26)),
		GroupID:    groupID,
		SenderID:   senderID,
		SenderName: "Test Student",
		Body:       body,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
}

// SetupTestEnv sets up required environment variables for testing
func (h *TestHelper) SetupTestEnv() {
	os.Setenv("JWT_SECRET", "test-secret-key-for-testing-only")
	os.Setenv("DATABASE_URL", "")
	os.Setenv("PASSWORD_MIN_LENGTH", "10")
}

// TeardownTestEnv cleans up environment variables after testing
func (h *TestHelper) TeardownTestEnv() {
	os.Unsetenv("JWT_SECRET")
	os.Unsetenv("DATABASE_URL")
	os.Unsetenv("PASSWORD_MIN_LENGTH")
}

// AssertError checks if an error occurred when it should (or shouldn't)
func (h *TestHelper) AssertError(err error, shouldErr bool, testName string) {
	if (err != nil) != shouldErr {
		if shouldErr {
			h.t.Errorf("%s: expected error but got nil", testName)
		} else {
			h.t.Errorf("%s: unexpected error: %v", testName, err)
		}
	}
}

// AssertEqual checks if two values are equal
func (h *TestHelper) AssertEqual(got, want interface{}, testName string) {
	if got != want {
		h.t.Errorf("%s: got %v, want %v", testName, got, want)
	}
}

// AssertNotNil checks if a value is not nil
func (h *TestHelper) AssertNotNil(value interface{}, testName string) {
	if value == nil {
		h.t.Errorf("%s: expected non-nil value", testName)
	}
}

// GetRecordNotFoundError returns gorm's not-found error for mocks
func GetRecordNotFoundError() error {
	return gorm.ErrRecordNotFound
}
