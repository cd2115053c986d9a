package application

import (
	"context"
	"sync"

	"github.com/teanus/college-schedule-bot/internal/config"
	"github.com/teanus/college-schedule-bot/internal/mail"
	"github.com/teanus/college-schedule-bot/internal/persistence"
)

type scheduleRepositoryStub struct {
	mu           sync.Mutex
	replaced     [][]persistence.ImportSheet
	replaceErr   error
	groups       []persistence.Group
	groupsErr    error
	week         []persistence.LessonRecord
	weekErr      error
	emails       []string
	emailsErr    error
	lastWeekName string
}

func (s *scheduleRepositoryStub) ReplaceAll(ctx context.Context, sheets []persistence.ImportSheet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.replaceErr != nil {
		return s.replaceErr
	}
	s.replaced = append(s.replaced, sheets)
	return nil
}

func (s *scheduleRepositoryStub) GetGroupByName(ctx context.Context, name string) (persistence.Group, error) {
	for _, group := range s.groups {
		if group.Name == name {
			return group, nil
		}
	}
	return persistence.Group{}, persistence.ErrNotFound
}

func (s *scheduleRepositoryStub) ListGroups(ctx context.Context) ([]persistence.Group, error) {
	return s.groups, s.groupsErr
}

func (s *scheduleRepositoryStub) ListWeek(ctx context.Context, groupName string) ([]persistence.LessonRecord, error) {
	s.lastWeekName = groupName
	return s.week, s.weekErr
}

func (s *scheduleRepositoryStub) ListEmailsByGroup(ctx context.Context, groupName string) ([]string, error) {
	return s.emails, s.emailsErr
}

type codeRepositoryStub struct {
	mu      sync.Mutex
	byEmail map[string]persistence.RegistrationCode
	saveErr error
	getErr  error
}

func newCodeRepositoryStub() *codeRepositoryStub {
	return &codeRepositoryStub{byEmail: make(map[string]persistence.RegistrationCode)}
}

func (s *codeRepositoryStub) SaveCode(ctx context.Context, code persistence.RegistrationCode) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.mu.Lock()
	s.byEmail[code.Email] = code
	s.mu.Unlock()
	return nil
}

func (s *codeRepositoryStub) GetCode(ctx context.Context, email string) (persistence.RegistrationCode, error) {
	if s.getErr != nil {
		return persistence.RegistrationCode{}, s.getErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.byEmail[email]
	if !ok {
		return persistence.RegistrationCode{}, persistence.ErrNotFound
	}
	return record, nil
}

func (s *codeRepositoryStub) DeleteCode(ctx context.Context, email string) error {
	s.mu.Lock()
	delete(s.byEmail, email)
	s.mu.Unlock()
	return nil
}

type adminRepositoryStub struct {
	mu      sync.Mutex
	members map[int64]bool
	addErr  error
	isErr   error
}

func newAdminRepositoryStub(ids ...int64) *adminRepositoryStub {
	stub := &adminRepositoryStub{members: make(map[int64]bool)}
	for _, id := range ids {
		stub.members[id] = true
	}
	return stub
}

func (s *adminRepositoryStub) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	if s.isErr != nil {
		return false, s.isErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.members[userID], nil
}

func (s *adminRepositoryStub) AddAdmin(ctx context.Context, userID int64) error {
	if s.addErr != nil {
		return s.addErr
	}
	s.mu.Lock()
	s.members[userID] = true
	s.mu.Unlock()
	return nil
}

type mailerStub struct {
	mu      sync.Mutex
	sent    []mail.Message
	sendErr error
}

func (s *mailerStub) Send(ctx context.Context, msg mail.Message) error {
	if s.sendErr != nil {
		return s.sendErr
	}
	s.mu.Lock()
	s.sent = append(s.sent, msg)
	s.mu.Unlock()
	return nil
}

type bootstrapStub struct {
	bootstrap config.Bootstrap
	err       error
}

func (s *bootstrapStub) ReadBootstrap() (config.Bootstrap, error) {
	return s.bootstrap, s.err
}
