package telegram

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/teanus/college-schedule-bot/internal/application"
	"github.com/teanus/college-schedule-bot/internal/logging"
	"github.com/teanus/college-schedule-bot/internal/timetable"
)

type scheduleService interface {
	Import(ctx context.Context, data []byte) (application.ImportSummary, error)
	Week(ctx context.Context, groupName string) ([]timetable.DaySchedule, error)
	Groups(ctx context.Context) ([]string, error)
}

type registrationService interface {
	RequestCode(ctx context.Context, email string) (string, error)
	VerifyCode(ctx context.Context, email, submitted string) (bool, error)
}

type broadcastService interface {
	Broadcast(ctx context.Context, groupName, subject, body string) (int, error)
}

type adminService interface {
	IsAdmin(ctx context.Context, userID int64) (bool, error)
	Elevate(ctx context.Context, userID int64, secret string) error
}

// chatQueueDepth bounds a chat's backlog; Dispatch blocks once a single chat
// floods its queue, backpressuring the poll loop.
const chatQueueDepth = 16

// Dispatcher routes incoming updates through the conversation state machine.
// Each chat gets its own serial queue, so updates for one chat are handled
// one at a time in arrival order while different chats proceed concurrently.
type Dispatcher struct {
	sender       Sender
	schedules    scheduleService
	registration registrationService
	broadcasts   broadcastService
	admins       adminService
	sessions     *SessionStore
	codeTTL      time.Duration
	logger       *slog.Logger

	correlationID func() string

	queuesMu sync.Mutex
	queues   map[int64]chan queuedUpdate
	workers  sync.WaitGroup
}

type queuedUpdate struct {
	ctx    context.Context
	update Update
}

// DispatcherConfig wires the dispatcher's collaborators.
type DispatcherConfig struct {
	Sender       Sender
	Schedules    scheduleService
	Registration registrationService
	Broadcasts   broadcastService
	Admins       adminService
	CodeTTL      time.Duration
	Logger       *slog.Logger
}

// NewDispatcher constructs a dispatcher with an empty session store.
func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ttl := cfg.CodeTTL
	if ttl <= 0 {
		ttl = application.DefaultCodeTTL
	}
	return &Dispatcher{
		sender:        cfg.Sender,
		schedules:     cfg.Schedules,
		registration:  cfg.Registration,
		broadcasts:    cfg.Broadcasts,
		admins:        cfg.Admins,
		sessions:      NewSessionStore(),
		codeTTL:       ttl,
		logger:        logger,
		correlationID: uuid.NewString,
		queues:        make(map[int64]chan queuedUpdate),
	}
}

// Dispatch enqueues the update on its chat's serial queue, starting the
// chat's worker on first use. Callers feeding Dispatch from a single loop get
// strict arrival order per chat. No Dispatch may follow Wait.
func (d *Dispatcher) Dispatch(ctx context.Context, u Update) {
	d.chatQueue(u.ChatID) <- queuedUpdate{ctx: ctx, update: u}
}

// Wait stops accepting updates and blocks until every already-queued update
// has been handled.
func (d *Dispatcher) Wait() {
	d.queuesMu.Lock()
	for _, queue := range d.queues {
		close(queue)
	}
	d.queuesMu.Unlock()
	d.workers.Wait()
}

// HandleUpdate processes one update to completion. Dispatch is the concurrent
// entry point; direct callers must not interleave updates of the same chat.
func (d *Dispatcher) HandleUpdate(ctx context.Context, u Update) {
	logger := d.logger.With(
		"correlation_id", d.correlationID(),
		"update_id", u.ID,
		"chat_id", u.ChatID,
		"user_id", u.UserID,
	)
	ctx = logging.ContextWithLogger(ctx, logger)

	if u.Callback != nil {
		d.handleCallback(ctx, u)
		return
	}
	d.handleMessage(ctx, u)
}

func (d *Dispatcher) handleMessage(ctx context.Context, u Update) {
	text := strings.TrimSpace(u.Text)

	if isCancel(text) {
		d.cancel(ctx, u)
		return
	}
	if strings.HasPrefix(text, "/") {
		d.handleCommand(ctx, u, text)
		return
	}

	session := d.sessions.Get(u.UserID)
	switch session.State {
	case StateAwaitingDocument:
		d.handleDocument(ctx, u)
	case StateSelectingBroadcastGroup:
		d.reply(ctx, u.ChatID, msgChooseGroupBroadcast, nil)
	case StateComposingBroadcast:
		d.handleBroadcastText(ctx, u, session, text)
	case StateAwaitingEmail:
		d.handleEmailInput(ctx, u, text)
	case StateAwaitingCode:
		d.handleCodeInput(ctx, u, session, text)
	default:
		d.handleIdleInput(ctx, u, text)
	}
}

func (d *Dispatcher) handleCommand(ctx context.Context, u Update, text string) {
	command := strings.ToLower(strings.Fields(text)[0])
	switch command {
	case "/start":
		d.sessions.Reset(u.UserID)
		d.reply(ctx, u.ChatID, msgStart, mainMenu(d.isAdmin(ctx, u.UserID)))
	case "/info":
		d.reply(ctx, u.ChatID, msgInfo, nil)
	case "/id":
		d.reply(ctx, u.ChatID, formatUserID(u.UserID), nil)
	default:
		d.reply(ctx, u.ChatID, msgUnknownInput, nil)
	}
}

// handleIdleInput routes menu buttons and, as a last resort, treats the text
// as an elevation secret attempt.
func (d *Dispatcher) handleIdleInput(ctx context.Context, u Update, text string) {
	switch text {
	case buttonSchedule:
		d.startWeekLookup(ctx, u)
	case buttonRegister:
		d.startRegistration(ctx, u)
	case buttonUpload:
		d.startUpload(ctx, u)
	case buttonBroadcast:
		d.startBroadcast(ctx, u)
	default:
		if u.Document != nil {
			d.reply(ctx, u.ChatID, msgUnknownInput, nil)
			return
		}
		d.tryElevate(ctx, u, text)
	}
}

func (d *Dispatcher) handleCallback(ctx context.Context, u Update) {
	logger := logging.FromContext(ctx)
	if err := d.sender.AnswerCallback(ctx, u.Callback.ID); err != nil {
		logger.WarnContext(ctx, "callback ack failed", "error", err)
	}

	data := u.Callback.Data
	if data == callbackCancel {
		d.cancel(ctx, u)
		return
	}
	if group, ok := groupFromCallback(data, callbackWeekPrefix); ok {
		d.sendWeek(ctx, u, group)
		return
	}
	if group, ok := groupFromCallback(data, callbackBroadcastPrefix); ok {
		d.selectBroadcastGroup(ctx, u, group)
		return
	}
	logger.WarnContext(ctx, "unknown callback data", "data", data)
}

// cancel returns the user to idle. A cancel button on an inline menu is
// always honored, even from stateless menus like the week lookup; only a
// typed cancel with nothing in progress reports that.
func (d *Dispatcher) cancel(ctx context.Context, u Update) {
	session := d.sessions.Get(u.UserID)
	if session.State == StateIdle && u.Callback == nil {
		d.reply(ctx, u.ChatID, msgNothingCancel, nil)
		return
	}
	d.sessions.Reset(u.UserID)
	d.reply(ctx, u.ChatID, msgCancelled, mainMenu(d.isAdmin(ctx, u.UserID)))
}

// requireAdmin guards admin-only flow entries.
func (d *Dispatcher) requireAdmin(ctx context.Context, u Update) bool {
	if d.isAdmin(ctx, u.UserID) {
		return true
	}
	d.reply(ctx, u.ChatID, msgNotAuthorized, nil)
	return false
}

func (d *Dispatcher) isAdmin(ctx context.Context, userID int64) bool {
	ok, err := d.admins.IsAdmin(ctx, userID)
	if err != nil {
		logging.FromContext(ctx).ErrorContext(ctx, "admin check failed", "error", err)
		return false
	}
	return ok
}

func (d *Dispatcher) tryElevate(ctx context.Context, u Update, text string) {
	if text == "" {
		d.reply(ctx, u.ChatID, msgUnknownInput, nil)
		return
	}
	err := d.admins.Elevate(ctx, u.UserID, text)
	if err == nil {
		d.reply(ctx, u.ChatID, msgElevated, mainMenu(true))
		return
	}
	// A wrong secret and a disabled switch both look like ordinary chatter.
	d.reply(ctx, u.ChatID, msgUnknownInput, nil)
}

// reply sends a message, logging delivery failures instead of surfacing them;
// there is no one to report a failed send to.
func (d *Dispatcher) reply(ctx context.Context, chatID int64, text string, keyboard *ReplyKeyboard) {
	msg := Outgoing{ChatID: chatID, Text: text, Reply: keyboard}
	if err := d.sender.Send(ctx, msg); err != nil {
		logging.FromContext(ctx).ErrorContext(ctx, "send failed", "error", err)
	}
}

func (d *Dispatcher) replyInline(ctx context.Context, chatID int64, text string, keyboard *InlineKeyboard) {
	msg := Outgoing{ChatID: chatID, Text: text, Inline: keyboard}
	if err := d.sender.Send(ctx, msg); err != nil {
		logging.FromContext(ctx).ErrorContext(ctx, "send failed", "error", err)
	}
}

func (d *Dispatcher) chatQueue(chatID int64) chan<- queuedUpdate {
	d.queuesMu.Lock()
	defer d.queuesMu.Unlock()
	queue, ok := d.queues[chatID]
	if !ok {
		queue = make(chan queuedUpdate, chatQueueDepth)
		d.queues[chatID] = queue
		d.workers.Add(1)
		go d.drainQueue(queue)
	}
	return queue
}

func (d *Dispatcher) drainQueue(queue <-chan queuedUpdate) {
	defer d.workers.Done()
	for item := range queue {
		d.HandleUpdate(item.ctx, item.update)
	}
}

func isCancel(text string) bool {
	return strings.EqualFold(text, buttonCancel) || strings.EqualFold(text, "/cancel")
}
