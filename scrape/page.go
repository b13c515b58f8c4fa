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
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const emptyRowClass = "ui-datatable-empty-message"

var menuNameReplacer = strings.NewReplacer("Plannings", "", "Planning", "")

// ViewState extracts JSF view state value hidden in the page form.
func ViewState(raw []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return "", &ParseError{Element: ViewStateSelector, Index: -1, Err: err}
	}

	v, ok := doc.Find(ViewStateSelector).First().Attr("value")
	if !ok || v == "" {
		return "", missing(ViewStateSelector)
	}

	return v, nil
}

// MenuFormID extracts the form component ID used by the sidebar to lazily load submenus.
func MenuFormID(raw []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return "", &ParseError{Element: "script", Index: -1, Err: err}
	}

	var id string

	// loader function is defined in one of the inline scripts
	doc.Find("script").
		EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if m := menuFormIDRegex.FindStringSubmatch(s.Text()); m != nil {
				id = m[1]

				return false
			}

			return true
		})

	if id == "" {
		return "", missing("chargerSousMenu script")
	}

	return id, nil
}

// ScheduleFormID extracts the component ID of the schedule widget on the planning page.
func ScheduleFormID(raw []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return "", &ParseError{Element: ScheduleSelector, Index: -1, Err: err}
	}

	id, ok := doc.Find(ScheduleSelector).First().Attr("id")
	if !ok {
		return "", missing(ScheduleSelector)
	}

	return id, nil
}

// IsLoginPage reports whether the page contains the login form, which the ERP serves instead of the requested page
// once the session is gone.
func IsLoginPage(raw []byte) bool {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return false
	}

	return doc.Find(LoginSelector).Length() > 0
}

// ParseMenu extracts child nodes of menuID from a sidebar partial response, in markup order.
func ParseMenu(raw []byte, menuID string) ([]MenuNode, error) {
	content, err := extractUpdate(raw, SidebarUpdateID)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, &ParseError{Element: SidebarUpdateID, Index: -1, Err: err}
	}

	// submenu <li> carries its ID as a class name
	node := doc.Find("li").
		FilterFunction(func(_ int, s *goquery.Selection) bool {
			return s.HasClass(menuID)
		}).
		First()
	if node.Length() == 0 {
		return nil, missing("li." + menuID)
	}

	nodes := []MenuNode{}

	var perr *ParseError

	node.ChildrenFiltered("ul").ChildrenFiltered("li").
		EachWithBreak(func(i int, item *goquery.Selection) bool {
			a := item.ChildrenFiltered("a").First()

			span := a.Find(MenuItemText).First()
			if span.Length() == 0 {
				perr = &ParseError{Element: MenuItemText, Index: i, Detail: "not found"}

				return false
			}

			isParent := item.HasClass(MenuParentClass)

			var id string

			if isParent {
				// parent ID is a submenu_NNN class
				class, _ := item.Attr("class")
				for _, c := range strings.Fields(class) {
					if strings.HasPrefix(c, SubmenuPrefix) {
						id = c

						break
					}
				}
			} else {
				// leaf ID is only found in the onclick handler
				onclick, _ := a.Attr("onclick")
				if m := sidebarMenuIDRegex.FindStringSubmatch(onclick); m != nil {
					id = m[1]
				}
			}

			if id == "" {
				perr = &ParseError{Element: "menu id", Index: i, Detail: "not found"}

				return false
			}

			nodes = append(nodes, MenuNode{
				ID:     id,
				Name:   trimAllSpace(menuNameReplacer.Replace(span.Text())),
				Parent: menuID,
				Leaf:   !isParent,
			})

			return true
		})

	if perr != nil {
		return nil, perr
	}

	return nodes, nil
}

// ParseClassGroups extracts class groups from the planning choice page favourites table.
func ParseClassGroups(raw []byte) ([]ClassGroup, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, &ParseError{Element: GroupTableID, Index: -1, Err: err}
	}

	table := doc.Find(`div[id="` + GroupTableID + `"]`)
	if table.Length() == 0 {
		return nil, missing(GroupTableID)
	}

	groups := []ClassGroup{}

	var perr *ParseError

	table.Find(GroupRowSelector).
		EachWithBreak(func(i int, row *goquery.Selection) bool {
			// PrimeFaces renders a placeholder row for empty tables
			if row.HasClass(emptyRowClass) {
				return true
			}

			id, ok := row.Attr("data-rk")
			if !ok {
				perr = &ParseError{Element: "data-rk", Index: i, Detail: "not found"}

				return false
			}

			groups = append(groups, ClassGroup{
				ID:   id,
				Name: trimAllSpace(row.Children().Last().Text()),
			})

			return true
		})

	if perr != nil {
		return nil, perr
	}

	return groups, nil
}
