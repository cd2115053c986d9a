package telegram

import "strings"

// Callback data prefixes for inline group menus.
const (
	callbackWeekPrefix      = "wk:"
	callbackBroadcastPrefix = "bc:"
	callbackCancel          = "cancel"
)

// mainMenu is the persistent reply keyboard. Admins get the upload and
// broadcast rows on top of the student menu.
func mainMenu(isAdmin bool) *ReplyKeyboard {
	rows := [][]Button{
		{{Label: buttonSchedule}, {Label: buttonRegister}},
	}
	if isAdmin {
		rows = append(rows, []Button{{Label: buttonUpload}, {Label: buttonBroadcast}})
	}
	return &ReplyKeyboard{Rows: rows}
}

// cancelMenu replaces the main menu while a flow is in progress.
func cancelMenu() *ReplyKeyboard {
	return &ReplyKeyboard{Rows: [][]Button{{{Label: buttonCancel}}}}
}

// groupMenu renders an inline keyboard with one button per group, three per
// row, plus a cancel row. Callback data is the prefix followed by the group
// name.
func groupMenu(prefix string, groups []string) *InlineKeyboard {
	const perRow = 3

	keyboard := &InlineKeyboard{}
	var row []InlineButton
	for _, group := range groups {
		row = append(row, InlineButton{Label: group, Data: prefix + group})
		if len(row) == perRow {
			keyboard.Rows = append(keyboard.Rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		keyboard.Rows = append(keyboard.Rows, row)
	}
	keyboard.Rows = append(keyboard.Rows, []InlineButton{{Label: buttonCancel, Data: callbackCancel}})
	return keyboard
}

// groupFromCallback strips the prefix from callback data, reporting whether it
// matched.
func groupFromCallback(data, prefix string) (string, bool) {
	if !strings.HasPrefix(data, prefix) {
		return "", false
	}
	group := strings.TrimPrefix(data, prefix)
	return group, group != ""
}
