// Package account keeps student accounts in a flat CSV file.
package account

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt cost used for new passwords.
const DefaultCost = 12

// GuestID is the student ID of the account used when login is skipped.
const GuestID = "guest"

var header = []string{"student_id", "full_name", "password"}

var (
	ErrDuplicateID        = errors.New("student ID already registered")
	ErrInvalidCredentials = errors.New("invalid student ID or password")
)

// ValidationError reports a rejected signup field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// Account is one registered student.
type Account struct {
	StudentID    string
	FullName     string
	PasswordHash string
}

// Guest returns the account used in dev mode.
func Guest() Account {
	return Account{StudentID: GuestID, FullName: "Guest"}
}

// Store reads and appends accounts in a CSV file. All file access is
// serialized through one lock so concurrent signups cannot lose rows or
// register the same ID twice.
type Store struct {
	path string
	cost int
	mu   sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithCost sets the bcrypt cost.
func WithCost(cost int) Option {
	return func(s *Store) { s.cost = cost }
}

// NewStore returns a store backed by path. The file is created on the
// first signup.
func NewStore(path string, opts ...Option) *Store {
	s := &Store{path: path, cost: DefaultCost}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Path returns the backing file.
func (s *Store) Path() string { return s.path }

// Signup validates the input and appends a new account.
func (s *Store) Signup(ctx context.Context, studentID, fullName, password string) (Account, error) {
	studentID = strings.TrimSpace(studentID)
	fullName = strings.TrimSpace(fullName)
	if err := validate(studentID, fullName, password); err != nil {
		return Account{}, err
	}
	if err := ctx.Err(); err != nil {
		return Account{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return Account{}, fmt.Errorf("hash password: %w", err)
	}
	acct := Account{StudentID: studentID, FullName: fullName, PasswordHash: string(hash)}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.readAll()
	if err != nil {
		return Account{}, err
	}
	for _, a := range existing {
		if a.StudentID == studentID {
			return Account{}, ErrDuplicateID
		}
	}
	if err := s.append(acct, len(existing) == 0); err != nil {
		return Account{}, err
	}
	return acct, nil
}

// Login returns the account whose ID matches exactly, after trimming the
// same way Signup does, and whose hash matches password.
func (s *Store) Login(ctx context.Context, studentID, password string) (Account, error) {
	if err := ctx.Err(); err != nil {
		return Account{}, err
	}

	studentID = strings.TrimSpace(studentID)
	s.mu.Lock()
	accounts, err := s.readAll()
	s.mu.Unlock()
	if err != nil {
		return Account{}, err
	}

	for _, a := range accounts {
		if a.StudentID != studentID {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) != nil {
			return Account{}, ErrInvalidCredentials
		}
		return a, nil
	}
	return Account{}, ErrInvalidCredentials
}

// List returns every account in file order.
func (s *Store) List(ctx context.Context) ([]Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readAll()
}

// readAll must be called with s.mu held. A missing file has no accounts.
func (s *Store) readAll() ([]Account, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open accounts: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var out []Account
	first := true
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read accounts: %w", err)
		}
		if first {
			first = false
			if len(row) > 0 && strings.TrimSpace(row[0]) == header[0] {
				continue
			}
		}
		if len(row) < 3 {
			continue
		}
		out = append(out, Account{
			StudentID:    strings.TrimSpace(row[0]),
			FullName:     strings.TrimSpace(row[1]),
			PasswordHash: row[2],
		})
	}
	return out, nil
}

// append must be called with s.mu held.
func (s *Store) append(a Account, writeHeader bool) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create accounts dir: %w", err)
		}
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open accounts: %w", err)
	}
	defer f.Close()

	if fi, err := f.Stat(); err == nil && fi.Size() > 0 {
		writeHeader = false
	}

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(header); err != nil {
			return fmt.Errorf("write accounts header: %w", err)
		}
	}
	if err := w.Write([]string{a.StudentID, a.FullName, a.PasswordHash}); err != nil {
		return fmt.Errorf("write account: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush accounts: %w", err)
	}
	return nil
}

func validate(studentID, fullName, password string) error {
	switch {
	case studentID == "":
		return &ValidationError{Field: "student ID", Reason: "is required"}
	case len(studentID) > 32:
		return &ValidationError{Field: "student ID", Reason: "must be at most 32 characters"}
	case strings.IndexFunc(studentID, invalidIDRune) >= 0:
		return &ValidationError{Field: "student ID", Reason: "may contain only letters, digits, '-' and '_'"}
	case studentID == GuestID:
		return &ValidationError{Field: "student ID", Reason: "is reserved"}
	case fullName == "":
		return &ValidationError{Field: "full name", Reason: "is required"}
	case len(password) < 6:
		return &ValidationError{Field: "password", Reason: "must be at least 6 characters"}
	case len(password) > 72:
		return &ValidationError{Field: "password", Reason: "must be at most 72 bytes"}
	}
	return nil
}

func invalidIDRune(r rune) bool {
	return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_')
}
