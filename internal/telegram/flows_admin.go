package telegram

import (
	"context"
	"errors"
	"fmt"

	"github.com/teanus/college-schedule-bot/internal/application"
	"github.com/teanus/college-schedule-bot/internal/logging"
	"github.com/teanus/college-schedule-bot/internal/workbook"
)

const broadcastSubject = "Объявление для группы %s"

func (d *Dispatcher) startUpload(ctx context.Context, u Update) {
	if !d.requireAdmin(ctx, u) {
		return
	}
	d.sessions.Put(u.UserID, Session{State: StateAwaitingDocument})
	d.reply(ctx, u.ChatID, msgSendDocument, cancelMenu())
}

// handleDocument runs the upload step. A wrong attachment type or a rejected
// workbook re-prompts in place; the previous schedule survives both.
func (d *Dispatcher) handleDocument(ctx context.Context, u Update) {
	logger := logging.FromContext(ctx)

	if u.Document == nil || u.Document.MIMEType != workbook.MIMEType {
		d.reply(ctx, u.ChatID, msgWrongMIME, nil)
		return
	}

	data, err := d.sender.DownloadDocument(ctx, u.Document.FileID)
	if err != nil {
		logger.ErrorContext(ctx, "document download failed", "error", err, "file", u.Document.FileName)
		d.reply(ctx, u.ChatID, msgInternalError, nil)
		return
	}

	summary, err := d.schedules.Import(ctx, data)
	if err != nil {
		if reason, ok := importRejection(err); ok {
			d.reply(ctx, u.ChatID, fmt.Sprintf(msgImportFailed, reason), nil)
			return
		}
		logger.ErrorContext(ctx, "import failed", "error", err)
		d.reply(ctx, u.ChatID, msgInternalError, nil)
		return
	}

	d.sessions.Reset(u.UserID)
	d.reply(ctx, u.ChatID,
		fmt.Sprintf(msgImportOK, summary.Groups, summary.Lessons, summary.RosterRecords),
		mainMenu(true),
	)
}

// importRejection maps workbook validation errors to a user-facing reason.
// Anything else is an internal failure.
func importRejection(err error) (string, bool) {
	var missing *workbook.MissingColumnError
	var badTime *workbook.MalformedTimeError
	var badDay *workbook.UnknownDayError
	var badRow *workbook.RowError
	switch {
	case errors.As(err, &missing):
		return missing.Error(), true
	case errors.As(err, &badTime):
		return badTime.Error(), true
	case errors.As(err, &badDay):
		return badDay.Error(), true
	case errors.As(err, &badRow):
		return badRow.Error(), true
	case errors.Is(err, workbook.ErrNoSheets):
		return err.Error(), true
	}
	return "", false
}

func (d *Dispatcher) startBroadcast(ctx context.Context, u Update) {
	if !d.requireAdmin(ctx, u) {
		return
	}

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

	d.sessions.Put(u.UserID, Session{State: StateSelectingBroadcastGroup})
	d.replyInline(ctx, u.ChatID, msgChooseGroupBroadcast, groupMenu(callbackBroadcastPrefix, groups))
}

// selectBroadcastGroup records the chosen target. The selection is only
// honored while the flow is actually waiting for it; a stale callback from an
// old menu is ignored.
func (d *Dispatcher) selectBroadcastGroup(ctx context.Context, u Update, group string) {
	session := d.sessions.Get(u.UserID)
	if session.State != StateSelectingBroadcastGroup {
		return
	}
	if !d.requireAdmin(ctx, u) {
		return
	}

	d.sessions.Put(u.UserID, Session{State: StateComposingBroadcast, Group: group})
	d.reply(ctx, u.ChatID, fmt.Sprintf(msgComposeBroadcast, group), cancelMenu())
}

// handleBroadcastText mails the announcement. An empty roster completes the
// flow without touching the mail transport.
func (d *Dispatcher) handleBroadcastText(ctx context.Context, u Update, session Session, text string) {
	// Stickers and attachments arrive with no text; never mail an empty body.
	if text == "" {
		d.reply(ctx, u.ChatID, msgEmptyBroadcast, cancelMenu())
		return
	}

	count, err := d.broadcasts.Broadcast(ctx, session.Group, fmt.Sprintf(broadcastSubject, session.Group), text)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrGroupNotFound):
			d.sessions.Reset(u.UserID)
			d.reply(ctx, u.ChatID, msgGroupMissing, mainMenu(true))
		case errors.Is(err, application.ErrMailDelivery):
			d.sessions.Reset(u.UserID)
			d.reply(ctx, u.ChatID, msgMailFailure, mainMenu(true))
		default:
			logging.FromContext(ctx).ErrorContext(ctx, "broadcast failed", "error", err)
			d.reply(ctx, u.ChatID, msgInternalError, nil)
		}
		return
	}

	d.sessions.Reset(u.UserID)
	if count == 0 {
		d.reply(ctx, u.ChatID, msgBroadcastNoEmails, mainMenu(true))
		return
	}
	d.reply(ctx, u.ChatID, fmt.Sprintf(msgBroadcastSent, count), mainMenu(true))
}
