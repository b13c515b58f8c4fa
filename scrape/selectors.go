// @license
// Copyright (C) 2025  Dinko Korunic
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package scrape

// webAurion markup selectors and markers. The portal is not versioned, so everything that depends on its markup
// lives here.
const (
	SidebarUpdateID   = "form:sidebar"                                             // partial update holding sidebar menu
	ViewStateSelector = `input[name="javax.faces.ViewState"]`                      // hidden JSF view state field
	ScheduleSelector  = `[id^="form:j_idt"].schedule`                              // PrimeFaces schedule widget
	LoginSelector     = `form input[name="username"], form input[type="password"]` // login form fields
	GroupRowSelector  = "tbody > tr"                                               // favourite groups table rows
	GroupTableID      = "form:dataTableFavori"                                     // favourite groups table wrapper
	MenuItemText      = "span.ui-menuitem-text"                                    // sidebar item label
	MenuParentClass   = "ui-menu-parent"                                           // sidebar item holding a submenu
	SubmenuPrefix     = "submenu_"                                                 // sidebar submenu ID prefix
	EventsKey         = "events"                                                   // JSON key in schedule update
	RoomSeparator     = " / "                                                      // rooms and instructors separator
	FieldSeparator    = " - "                                                      // event title field separator
)
