package telegram

import (
	"context"
	"errors"
	"sync"

	"github.com/teanus/college-schedule-bot/internal/application"
	"github.com/teanus/college-schedule-bot/internal/timetable"
)

type senderStub struct {
	mu        sync.Mutex
	sent      []Outgoing
	acked     []string
	files     map[string][]byte
	sendErr   error
	downloads []string
}

func newSenderStub() *senderStub {
	return &senderStub{files: make(map[string][]byte)}
}

func (s *senderStub) Send(ctx context.Context, msg Outgoing) error {
	if s.sendErr != nil {
		return s.sendErr
	}
	s.mu.Lock()
	s.sent = append(s.sent, msg)
	s.mu.Unlock()
	return nil
}

func (s *senderStub) AnswerCallback(ctx context.Context, callbackID string) error {
	s.mu.Lock()
	s.acked = append(s.acked, callbackID)
	s.mu.Unlock()
	return nil
}

func (s *senderStub) DownloadDocument(ctx context.Context, fileID string) ([]byte, error) {
	s.mu.Lock()
	s.downloads = append(s.downloads, fileID)
	data, ok := s.files[fileID]
	s.mu.Unlock()
	if !ok {
		return nil, errors.New("unknown file")
	}
	return data, nil
}

// last returns the most recent outgoing message.
func (s *senderStub) last() Outgoing {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sent) == 0 {
		return Outgoing{}
	}
	return s.sent[len(s.sent)-1]
}

type scheduleServiceStub struct {
	groups    []string
	groupsErr error
	week      []timetable.DaySchedule
	weekErr   error
	summary   application.ImportSummary
	importErr error
	imported  [][]byte
	weekCalls []string
}

func (s *scheduleServiceStub) Import(ctx context.Context, data []byte) (application.ImportSummary, error) {
	if s.importErr != nil {
		return application.ImportSummary{}, s.importErr
	}
	s.imported = append(s.imported, data)
	return s.summary, nil
}

func (s *scheduleServiceStub) Week(ctx context.Context, groupName string) ([]timetable.DaySchedule, error) {
	s.weekCalls = append(s.weekCalls, groupName)
	return s.week, s.weekErr
}

func (s *scheduleServiceStub) Groups(ctx context.Context) ([]string, error) {
	return s.groups, s.groupsErr
}

type registrationServiceStub struct {
	requestErr error
	verifyOK   bool
	verifyErr  error
	requests   []string
	verifies   [][2]string
}

func (s *registrationServiceStub) RequestCode(ctx context.Context, email string) (string, error) {
	if s.requestErr != nil {
		return "", s.requestErr
	}
	s.requests = append(s.requests, email)
	return "abc123", nil
}

func (s *registrationServiceStub) VerifyCode(ctx context.Context, email, submitted string) (bool, error) {
	s.verifies = append(s.verifies, [2]string{email, submitted})
	return s.verifyOK, s.verifyErr
}

type broadcastServiceStub struct {
	count int
	err   error
	calls [][3]string
}

func (s *broadcastServiceStub) Broadcast(ctx context.Context, groupName, subject, body string) (int, error) {
	s.calls = append(s.calls, [3]string{groupName, subject, body})
	return s.count, s.err
}

type adminServiceStub struct {
	admins     map[int64]bool
	elevateErr error
	elevated   []int64
}

func newAdminServiceStub(ids ...int64) *adminServiceStub {
	stub := &adminServiceStub{admins: make(map[int64]bool)}
	for _, id := range ids {
		stub.admins[id] = true
	}
	return stub
}

func (s *adminServiceStub) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	return s.admins[userID], nil
}

func (s *adminServiceStub) Elevate(ctx context.Context, userID int64, secret string) error {
	if s.elevateErr != nil {
		return s.elevateErr
	}
	s.admins[userID] = true
	s.elevated = append(s.elevated, userID)
	return nil
}

type dispatcherFixture struct {
	dispatcher   *Dispatcher
	sender       *senderStub
	schedules    *scheduleServiceStub
	registration *registrationServiceStub
	broadcasts   *broadcastServiceStub
	admins       *adminServiceStub
}

func newDispatcherFixture(adminIDs ...int64) *dispatcherFixture {
	fixture := &dispatcherFixture{
		sender:       newSenderStub(),
		schedules:    &scheduleServiceStub{},
		registration: &registrationServiceStub{},
		broadcasts:   &broadcastServiceStub{},
		admins:       newAdminServiceStub(adminIDs...),
	}
	fixture.dispatcher = NewDispatcher(DispatcherConfig{
		Sender:       fixture.sender,
		Schedules:    fixture.schedules,
		Registration: fixture.registration,
		Broadcasts:   fixture.broadcasts,
		Admins:       fixture.admins,
	})
	return fixture
}

func textUpdate(userID int64, text string) Update {
	return Update{ID: 1, ChatID: userID, UserID: userID, Text: text}
}

func callbackUpdate(userID int64, data string) Update {
	return Update{ID: 1, ChatID: userID, UserID: userID, Callback: &Callback{ID: "cb-1", Data: data}}
}
