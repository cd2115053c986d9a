package telegram

import (
	"context"
	"errors"
	"fmt"

	"github.com/teanus/college-schedule-bot/internal/application"
	"github.com/teanus/college-schedule-bot/internal/logging"
)

func formatUserID(userID int64) string {
	return fmt.Sprintf("Ваш идентификатор: %d", userID)
}

// startWeekLookup opens the inline group menu for the weekly view. The lookup
// itself is driven by the callback; no session state is needed.
func (d *Dispatcher) startWeekLookup(ctx context.Context, u Update) {
	groups, err := d.schedules.Groups(ctx)
	if err != nil {
		logging.FromContext(ctx).ErrorContext(ctx, "group listing failed", "error", err)
		d.reply(ctx, u.ChatID, msgInternalError, nil)
		return
	}
	if len(groups) == 0 {
		d.reply(ctx, u.ChatID, msgNoGroups, nil)
		return
	}
	d.replyInline(ctx, u.ChatID, msgChooseGroupWeek, groupMenu(callbackWeekPrefix, groups))
}

func (d *Dispatcher) sendWeek(ctx context.Context, u Update, group string) {
	week, err := d.schedules.Week(ctx, group)
	if err != nil {
		if errors.Is(err, application.ErrGroupNotFound) {
			d.reply(ctx, u.ChatID, msgGroupMissing, nil)
			return
		}
		logging.FromContext(ctx).ErrorContext(ctx, "weekly view failed", "error", err, "group", group)
		d.reply(ctx, u.ChatID, msgInternalError, nil)
		return
	}
	d.reply(ctx, u.ChatID, renderWeek(group, week), nil)
}

func (d *Dispatcher) startRegistration(ctx context.Context, u Update) {
	d.sessions.Put(u.UserID, Session{State: StateAwaitingEmail})
	d.reply(ctx, u.ChatID, msgAskEmail, cancelMenu())
}

// handleEmailInput validates the address and issues a code. Bad input and a
// failed delivery both keep the session in place so the user can retry.
func (d *Dispatcher) handleEmailInput(ctx context.Context, u Update, text string) {
	_, err := d.registration.RequestCode(ctx, text)
	if err != nil {
		var vErr *application.ValidationError
		switch {
		case errors.As(err, &vErr):
			d.reply(ctx, u.ChatID, msgBadEmail, nil)
		case errors.Is(err, application.ErrMailDelivery):
			d.reply(ctx, u.ChatID, msgMailFailure, nil)
		default:
			logging.FromContext(ctx).ErrorContext(ctx, "code request failed", "error", err)
			d.reply(ctx, u.ChatID, msgInternalError, nil)
		}
		return
	}

	d.sessions.Put(u.UserID, Session{State: StateAwaitingCode, Email: text})
	d.reply(ctx, u.ChatID, fmt.Sprintf(msgCodeSent, text, int(d.codeTTL.Seconds())), nil)
}

// handleCodeInput checks the submitted code; a rejected code re-prompts in
// the same state.
func (d *Dispatcher) handleCodeInput(ctx context.Context, u Update, session Session, text string) {
	ok, err := d.registration.VerifyCode(ctx, session.Email, text)
	if err != nil {
		logging.FromContext(ctx).ErrorContext(ctx, "code verification failed", "error", err)
		d.reply(ctx, u.ChatID, msgInternalError, nil)
		return
	}
	if !ok {
		d.reply(ctx, u.ChatID, msgCodeRejected, nil)
		return
	}

	d.sessions.Reset(u.UserID)
	d.reply(ctx, u.ChatID, msgRegistered, mainMenu(d.isAdmin(ctx, u.UserID)))
}
