// Package pager implements the interactive page-navigation strip used
// by the browse view: numbered page buttons with elision, previous and
// next controls, and a direct jump-to-page input.
//
// The model owns no page state beyond what is ephemeral to the control
// itself (strip focus and the jump input buffer); the current page
// belongs to the parent, which receives a PageChangedMsg whenever the
// user asks for a different page and feeds the new page back in via
// SetPage.
package pager
