package account

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "users.csv"), WithCost(bcrypt.MinCost))
}

func TestSignup_AcceptsUnique(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	acct, err := s.Signup(ctx, "s001", " Lan Nguyen ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "s001", acct.StudentID)
	assert.Equal(t, "Lan Nguyen", acct.FullName)
	assert.NotEqual(t, "secret1", acct.PasswordHash)

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "student_id,full_name,password", lines[0])
	assert.NotContains(t, string(data), "secret1", "password must not be stored in plain text")
}

func TestSignup_RejectsDuplicate(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	_, err := s.Signup(ctx, "s001", "Lan", "secret1")
	require.NoError(t, err)
	_, err = s.Signup(ctx, "s001", "Someone Else", "other12")
	assert.ErrorIs(t, err, ErrDuplicateID)

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSignup_Validation(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		fullName string
		password string
		field    string
	}{
		{"empty id", "  ", "Lan", "secret1", "student ID"},
		{"bad id chars", "s 001", "Lan", "secret1", "student ID"},
		{"reserved", "guest", "Lan", "secret1", "student ID"},
		{"long id", strings.Repeat("x", 33), "Lan", "secret1", "student ID"},
		{"empty name", "s1", "", "secret1", "full name"},
		{"short password", "s1", "Lan", "abc", "password"},
		{"long password", "s1", "Lan", strings.Repeat("p", 73), "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := testStore(t).Signup(context.Background(), tt.id, tt.fullName, tt.password)
			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "got %v", err)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestLogin(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	_, err := s.Signup(ctx, "s001", "Lan", "secret1")
	require.NoError(t, err)

	acct, err := s.Login(ctx, "s001", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "Lan", acct.FullName)

	tests := []struct {
		name     string
		id       string
		password string
	}{
		{"wrong password", "s001", "secret2"},
		{"id case differs", "S001", "secret1"},
		{"id prefix", "s00", "secret1"},
		{"unknown id", "s999", "secret1"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Login(ctx, tt.id, tt.password)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestLogin_TrimsIDLikeSignup(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	_, err := s.Signup(ctx, " alice ", "Alice", "secret1")
	require.NoError(t, err)

	for _, id := range []string{" alice ", "alice", "alice\t"} {
		acct, err := s.Login(ctx, id, "secret1")
		require.NoError(t, err, "id %q", id)
		assert.Equal(t, "alice", acct.StudentID)
	}
	_, err = s.Login(ctx, "alice", " secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials, "passwords are not trimmed")
}

func TestLogin_MissingFile(t *testing.T) {
	_, err := testStore(t).Login(context.Background(), "s001", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignup_ConcurrentNoLostUpdates(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Every other goroutine races for the same ID.
			id := fmt.Sprintf("s%03d", i)
			if i%2 == 1 {
				id = "shared"
			}
			_, errs[i] = s.Signup(ctx, id, "Student", "secret1")
		}(i)
	}
	wg.Wait()

	dups := 0
	for _, err := range errs {
		if errors.Is(err, ErrDuplicateID) {
			dups++
		} else {
			require.NoError(t, err)
		}
	}
	assert.Equal(t, n/2-1, dups)

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, n/2+1)
}

func TestSignup_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := testStore(t).Signup(ctx, "s1", "Lan", "secret1")
	assert.ErrorIs(t, err, context.Canceled)
}
