// Package telegram drives the bot's conversations over the Telegram Bot API.
//
// The dispatcher routes each normalized update through a per-user state
// machine:
//   - /start, /info, /id and the reply-keyboard menu are handled in the idle
//     state; /start also rebuilds the menu for the caller's privileges.
//   - Admin upload: Расписание file flow, Idle → AwaitingDocument → Idle. A
//     wrong attachment type or a rejected workbook re-prompts in place.
//   - Admin broadcast: Idle → SelectingBroadcastGroup → ComposingBroadcast →
//     Idle; the group is picked from an inline menu and the announcement is
//     mailed to the group's roster.
//   - Student registration: Idle → AwaitingEmail → AwaitingCode → Idle, backed
//     by the short-lived emailed verification codes.
//   - Weekly schedule lookup runs straight off the inline group menu and
//     needs no session state.
//
// «Отмена» (or /cancel) from any state abandons the flow without side
// effects. Updates within one chat are processed strictly in order; distinct
// chats are handled concurrently.
package telegram
