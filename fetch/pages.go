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

package fetch

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultURL    = "https://web.isen-ouest.fr/webAurion" // ISEN Ouest webAurion instance
	SessionCookie = "JSESSIONID"                          // servlet session cookie name

	loginPath          = "/login"
	logoutPath         = "/logout"
	servicePath        = "/"
	mainMenuPath       = "/faces/MainMenuPage.xhtml"
	planningPath       = "/faces/Planning.xhtml"
	planningChoicePath = "/faces/ChoixPlanning.xhtml"
)

// JSF and PrimeFaces form field names.
const (
	fieldForm          = "form"
	fieldViewState     = "javax.faces.ViewState"
	fieldPartialAjax   = "javax.faces.partial.ajax"
	fieldSource        = "javax.faces.source"
	fieldExecute       = "javax.faces.partial.execute"
	fieldRender        = "javax.faces.partial.render"
	fieldSidebar       = "form:sidebar"
	fieldSidebarMenuID = "form:sidebar_menuid"
	fieldSubmenuID     = "webscolaapp.Sidebar.ID_SUBMENU"
	fieldSave          = "form:sauvegarde"
	fieldCenterWidth   = "form:largeurDivCenter"
	fieldFocus         = "form:j_idt820_focus"
	fieldInput         = "form:j_idt820_input"
	fieldCalendarView  = "form:j_idt805:j_idt808_view"
	suffixStart        = "_start"
	suffixEnd          = "_end"
	calendarView       = "basicDay"
)

// Planning holds sidebar menu IDs leading to the schedule pages. They differ between schools running webAurion.
type Planning struct {
	SchoolingID      string `toml:"schooling_id"`
	UserPlanningID   string `toml:"user_planning_id"`
	GroupsPlanningID string `toml:"groups_planning_id"`
}

// DefaultPlanning holds ISEN Ouest menu IDs.
var DefaultPlanning = Planning{
	SchoolingID:      "submenu_291906",
	UserPlanningID:   "1_3",
	GroupsPlanningID: "submenu_299102",
}

// Pages holds all ERP endpoint URLs derived from a single base URL.
type Pages struct {
	Base           *url.URL
	Login          string
	Logout         string
	Service        string
	MainMenu       string
	Planning       string
	PlanningChoice string
}

// NewPages builds endpoint URLs for the ERP instance at base.
func NewPages(base string) (Pages, error) {
	u, err := url.Parse(strings.TrimSuffix(base, "/"))
	if err != nil {
		return Pages{}, err
	}

	if u.Scheme == "" || u.Host == "" {
		return Pages{}, &url.Error{Op: "parse", URL: base, Err: ErrInvalidURL}
	}

	b := u.String()

	return Pages{
		Base:           u,
		Login:          b + loginPath,
		Logout:         b + logoutPath,
		Service:        b + servicePath,
		MainMenu:       b + mainMenuPath,
		Planning:       b + planningPath,
		PlanningChoice: b + planningChoicePath,
	}, nil
}

// isLogin reports whether location, as sent by the ERP, points back to the login page.
func (p Pages) isLogin(location string) bool {
	login, err := url.Parse(p.Login)
	if err != nil {
		return false
	}

	u, err := login.Parse(location)
	if err != nil {
		return false
	}

	return strings.TrimSuffix(u.Path, "/") == p.Base.Path+loginPath
}

// menuParams are the main menu form fields navigating to sidebar entry menuID.
func menuParams(viewState, menuID string) url.Values {
	return url.Values{
		fieldForm:          {fieldForm},
		fieldSave:          {""},
		fieldCenterWidth:   {""},
		fieldFocus:         {""},
		fieldInput:         {""},
		fieldSidebar:       {fieldSidebar},
		fieldCalendarView:  {calendarView},
		fieldViewState:     {viewState},
		fieldSidebarMenuID: {menuID},
	}
}

// submenuParams are the ajax fields lazily loading children of sidebar submenu menuID.
func submenuParams(formID, viewState, menuID string) url.Values {
	return url.Values{
		fieldPartialAjax:  {"true"},
		fieldSource:       {formID},
		fieldExecute:      {formID},
		fieldRender:       {fieldSidebar},
		formID:            {formID},
		fieldForm:         {fieldForm},
		fieldSave:         {""},
		fieldCenterWidth:  {""},
		fieldFocus:        {""},
		fieldInput:        {""},
		fieldCalendarView: {calendarView},
		fieldViewState:    {viewState},
		fieldSubmenuID:    {menuID},
	}
}

// scheduleParams are the ajax fields requesting schedule events between start and end.
func scheduleParams(formID, viewState string, start, end time.Time) url.Values {
	return url.Values{
		fieldPartialAjax:     {"true"},
		fieldSource:          {formID},
		fieldExecute:         {formID},
		fieldRender:          {formID},
		formID:               {formID},
		formID + suffixStart: {strconv.FormatInt(start.UnixMilli(), 10)},
		formID + suffixEnd:   {strconv.FormatInt(end.UnixMilli(), 10)},
		fieldForm:            {fieldForm},
		fieldViewState:       {viewState},
	}
}
