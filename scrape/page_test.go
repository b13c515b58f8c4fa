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

import (
	"errors"
	"reflect"
	"testing"
)

const mainPage = `<html><head>
<script>var x = 1;</script>
<script type="text/javascript">chargerSousMenu = function() {PrimeFaces.ab({s:"form:j_idt52",f:"form",u:"form:sidebar"});}</script>
</head><body><form id="form" name="form">
<input type="hidden" name="javax.faces.ViewState" id="j_id1:javax.faces.ViewState:0" value="-8174712399416235227:1553837129874357" />
</form></body></html>`

const loginPage = `<html><body><form action="/webAurion/login" method="post">
<input type="text" name="username" /><input type="password" name="password" />
</form></body></html>`

const planningPage = `<html><body><form id="form">
<div id="form:j_idt117" class="schedule"></div>
<div id="form:j_idt118" class="other"></div>
<input type="hidden" name="javax.faces.ViewState" value="42:43" />
</form></body></html>`

const sidebar = `<div id="form:sidebar"><ul>
<li class="ui-widget ui-menuitem ui-corner-all ui-menu-parent submenu_291906"><a href="#"><span class="ui-menuitem-text">Scolarité</span></a>
<ul>
<li class="ui-widget ui-menuitem ui-corner-all ui-menu-parent submenu_299102"><a href="#"><span class="ui-menuitem-text">Plannings des groupes</span></a><ul></ul></li>
<li class="ui-menuitem ui-widget ui-corner-all"><a href="#" onclick="PrimeFaces.addSubmitParam('form',{'form:sidebar':'form:sidebar','form:sidebar_menuid':'1_3'}).submit('form');return false;"><span class="ui-menuitem-text">Mon  Planning</span></a></li>
</ul></li>
<li class="ui-widget ui-menuitem ui-corner-all ui-menu-parent submenu_1"><a href="#"><span class="ui-menuitem-text">Other</span></a></li>
</ul></div>`

const groupsPage = `<html><body><div id="form:dataTableFavori" class="ui-datatable"><table>
<thead><tr><th>Code</th><th>Libellé</th></tr></thead>
<tbody id="form:dataTableFavori_data">
<tr data-ri="0" data-rk="4_124" class="ui-widget-content"><td>G1</td><td> 3A  Groupe 1 </td></tr>
<tr data-ri="1" data-rk="4_125" class="ui-widget-content"><td>G2</td><td>3A Groupe 2</td></tr>
</tbody></table></div></body></html>`

func TestViewState(t *testing.T) {
	t.Parallel()

	v, err := ViewState([]byte(mainPage))
	if err != nil {
		t.Fatalf("ViewState failed: %v", err)
	}

	if v != "-8174712399416235227:1553837129874357" {
		t.Errorf("unexpected view state: %q", v)
	}

	if _, err := ViewState([]byte(loginPage)); !errors.Is(err, ErrParse) {
		t.Errorf("expected ErrParse, got: %v", err)
	}
}

func TestMenuFormID(t *testing.T) {
	t.Parallel()

	id, err := MenuFormID([]byte(mainPage))
	if err != nil {
		t.Fatalf("MenuFormID failed: %v", err)
	}

	if id != "form:j_idt52" {
		t.Errorf("unexpected menu form ID: %q", id)
	}

	if _, err := MenuFormID([]byte(planningPage)); !errors.Is(err, ErrParse) {
		t.Errorf("expected ErrParse, got: %v", err)
	}
}

func TestScheduleFormID(t *testing.T) {
	t.Parallel()

	id, err := ScheduleFormID([]byte(planningPage))
	if err != nil {
		t.Fatalf("ScheduleFormID failed: %v", err)
	}

	if id != "form:j_idt117" {
		t.Errorf("unexpected schedule form ID: %q", id)
	}

	_, err = ScheduleFormID([]byte(mainPage))

	var perr *ParseError
	if !errors.As(err, &perr) || perr.Element != ScheduleSelector {
		t.Errorf("expected ParseError for %q, got: %v", ScheduleSelector, err)
	}
}

func TestIsLoginPage(t *testing.T) {
	t.Parallel()

	if !IsLoginPage([]byte(loginPage)) {
		t.Error("login page not detected")
	}

	if IsLoginPage([]byte(mainPage)) {
		t.Error("main page detected as login page")
	}
}

func TestParseMenu(t *testing.T) {
	t.Parallel()

	nodes, err := ParseMenu(partial(SidebarUpdateID, sidebar), "submenu_291906")
	if err != nil {
		t.Fatalf("ParseMenu failed: %v", err)
	}

	expected := []MenuNode{
		{ID: "submenu_299102", Name: "des groupes", Parent: "submenu_291906", Leaf: false},
		{ID: "1_3", Name: "Mon", Parent: "submenu_291906", Leaf: true},
	}

	if !reflect.DeepEqual(nodes, expected) {
		t.Errorf("expected: %+v, got: %+v", expected, nodes)
	}

	nodes, err = ParseMenu(partial(SidebarUpdateID, sidebar), "submenu_1")
	if err != nil {
		t.Fatalf("ParseMenu failed: %v", err)
	}

	if nodes == nil || len(nodes) != 0 {
		t.Errorf("expected empty non-nil nodes, got: %#v", nodes)
	}

	if _, err := ParseMenu(partial(SidebarUpdateID, sidebar), "submenu_404"); !errors.Is(err, ErrParse) {
		t.Errorf("expected ErrParse, got: %v", err)
	}
}

func TestParseClassGroups(t *testing.T) {
	t.Parallel()

	groups, err := ParseClassGroups([]byte(groupsPage))
	if err != nil {
		t.Fatalf("ParseClassGroups failed: %v", err)
	}

	expected := []ClassGroup{
		{ID: "4_124", Name: "3A Groupe 1"},
		{ID: "4_125", Name: "3A Groupe 2"},
	}

	if !reflect.DeepEqual(groups, expected) {
		t.Errorf("expected: %+v, got: %+v", expected, groups)
	}

	empty := `<div id="form:dataTableFavori"><table><tbody>` +
		`<tr class="ui-widget-content ui-datatable-empty-message"><td colspan="2">Aucun</td></tr></tbody></table></div>`

	groups, err = ParseClassGroups([]byte(empty))
	if err != nil {
		t.Fatalf("ParseClassGroups failed: %v", err)
	}

	if groups == nil || len(groups) != 0 {
		t.Errorf("expected empty non-nil groups, got: %#v", groups)
	}

	if _, err := ParseClassGroups([]byte(mainPage)); !errors.Is(err, ErrParse) {
		t.Errorf("expected ErrParse, got: %v", err)
	}
}
