package view

import (
	"time"

	"chundiet-web/internal/notify"
)

type NavItem struct {
	Page   string
	Label  string
	Icon   string
	Active bool
}

// PageView is one page of the shell. Exactly one should be active.
type PageView struct {
	ID     string
	Title  string
	Active bool
	Body   Node
}

type ShellModel struct {
	Title         string
	Theme         string
	Sidebar       Node
	Nav           []NavItem
	Pages         []PageView
	Notifications []notify.Notification
}

// Nav renders the bottom navigation with the active indicator.
func Nav(items []NavItem) Node {
	links := make([]Node, 0, len(items))
	for _, it := range items {
		link := El("a",
			Span("mobile-nav-icon", Text(it.Icon)),
			Span("mobile-nav-label", Text(it.Label)),
		).Class("mobile-nav-item").
			Attr("href", "/pages/"+it.Page).
			Attr("data-page", it.Page)
		if it.Active {
			link = link.Class("active").Attr("aria-current", "page")
		}
		links = append(links, link)
	}
	return El("nav", links...).Class("mobile-nav").ID("mobileNav")
}

func notificationIcon(kind notify.Kind) string {
	switch kind {
	case notify.KindSuccess:
		return "✅"
	case notify.KindError:
		return "❌"
	default:
		return "ℹ️"
	}
}

// Notification renders one toast with its close action.
func Notification(n notify.Notification) Node {
	return Div("notification notification-"+string(n.Kind),
		Div("notification-content",
			Span("notification-icon", Text(notificationIcon(n.Kind))),
			Span("notification-message", Text(n.Message)),
		),
		El("button", Text("×")).
			Class("notification-close").
			Attr("type", "button").
			Attr("data-action", "dismiss-notification").
			Attr("data-id", n.ID),
	).Attr("data-id", n.ID)
}

func Notifications(list []notify.Notification) Node {
	items := make([]Node, 0, len(list))
	for _, n := range list {
		items = append(items, Notification(n))
	}
	return Div("notification-container", items...).ID("notificationContainer")
}

// Section wraps a page section so it can be replaced on its own.
func Section(id string, content Node) Node {
	return El("section", content).Class("page-section").ID(id).Attr("data-section", id)
}

// Page renders a page container; inactive pages are hidden.
func Page(p PageView) Node {
	n := Div("page",
		El("header", El("h1", Text(p.Title))).Class("page-header"),
		p.Body,
	).ID("page-"+p.ID).Attr("data-page", p.ID)
	if !p.Active {
		n = n.Class("hidden")
	}
	return n
}

// MealForm is the "describe your meal" form, prefilled with now.
func MealForm(now time.Time) Node {
	return Div("meal-input-card",
		H(3, "🍽️ What did you eat?"),
		form("mealForm", "/meals",
			El("textarea").
				ID("mealDescription").
				Attr("name", "description").
				Attr("placeholder", "Describe your meal, e.g. two eggs and toast"),
			input("datetime-local", "time", now.Format("2006-01-02T15:04")).ID("mealTime"),
			El("button", Text("Analyze Meal")).Class("btn-primary").Attr("type", "submit"),
		),
	)
}

// PlannerControls holds the generate action.
func PlannerControls() Node {
	return form("plannerForm", "/planner/generate",
		El("button", Text("Generate New Plan")).Class("btn-primary").Attr("type", "submit"),
	)
}

// Sidebar shows the greeting and calorie meter.
func Sidebar(greeting string, meter Node) Node {
	return El("aside",
		Div("user-info", Span("user-name", Text(greeting)).ID("userName")),
		meter,
	).Class("sidebar")
}

// Shell renders the full document.
func Shell(m ShellModel) Node {
	theme := m.Theme
	if theme == "" {
		theme = "light"
	}
	pages := make([]Node, 0, len(m.Pages))
	for _, p := range m.Pages {
		pages = append(pages, Page(p))
	}
	head := El("head",
		El("meta").Attr("charset", "utf-8"),
		El("meta").Attr("name", "viewport").Attr("content", "width=device-width, initial-scale=1"),
		El("title", Text(m.Title)),
	)
	body := El("body",
		Div("mobile-header", El("h1", Text(m.Title)).ID("mobileTitle")),
		Div("pull-indicator", Text("↓ Pull to refresh")).ID("pullIndicator"),
		m.Sidebar,
		El("main", pages...).Class("main-content"),
		Nav(m.Nav),
		Notifications(m.Notifications),
		El("script", Text(clientScript)),
	).Attr("data-theme", theme)
	return Group(
		Node{Kind: DoctypeNode},
		El("html", head, body).Attr("lang", "en"),
	)
}

// clientScript forwards touch sessions to the server, which decides what
// they mean, mirrors notification events from /ws into the toast container
// and wires the data-action buttons.
const clientScript = `(function () {
  var events = [], card = null;
  function pt(e) { var t = e.touches[0]; return t ? {x: t.clientX, y: t.clientY} : null; }
  function rec(type) { return function (e) { var p = pt(e); events.push(p ? {type: type, touches: [p]} : {type: type}); }; }
  function post(url, body) {
    return fetch(url, {method: 'POST', headers: {'Content-Type': 'application/json', 'Accept': 'application/json'},
      body: JSON.stringify(body)}).then(function (r) { return r.json(); });
  }
  function del(url) {
    return fetch(url, {method: 'DELETE', headers: {'Accept': 'application/json'}}).then(function () { location.href = '/'; });
  }
  document.addEventListener('touchstart', function (e) {
    events = []; card = e.target.closest('[data-meal-id]'); rec('start')(e);
  }, {passive: true});
  document.addEventListener('touchmove', rec('move'), {passive: true});
  document.addEventListener('touchend', function () {
    events.push({type: 'end'});
    var batch = {events: events, scroll_top: window.scrollY};
    if (card) {
      var id = card.dataset.mealId;
      post('/meals/' + encodeURIComponent(id) + '/swipe', batch).then(function (res) {
        if (res.outcome === 'confirm_requested' && confirm('Delete this meal?')) { del('/meals/' + encodeURIComponent(id) + '?confirm=true'); }
      });
    }
    post('/gestures', batch).then(function (res) { if (res.intent !== 'none') { location.href = '/'; } });
  });
  var ws = new WebSocket((location.protocol === 'https:' ? 'wss://' : 'ws://') + location.host + '/ws');
  ws.onmessage = function (m) {
    var ev = JSON.parse(m.data), box = document.getElementById('notificationContainer');
    if (ev.type === 'pushed') { box.insertAdjacentHTML('beforeend', ev.html); }
    if (ev.type === 'dismissed') { var el = box.querySelector('[data-id="' + ev.notification.id + '"]'); if (el) el.remove(); }
  };
  document.addEventListener('change', function (e) {
    if (e.target.id === 'themeToggle') { e.target.form.submit(); }
  });
  document.addEventListener('click', function (e) {
    var b = e.target.closest('[data-action]');
    if (!b) { return; }
    switch (b.dataset.action) {
    case 'dismiss-notification': fetch('/notifications/' + b.dataset.id, {method: 'DELETE'}); break;
    case 'delete-meal': if (confirm('Delete this meal?')) { del('/meals/' + encodeURIComponent(b.dataset.mealId) + '?confirm=true'); } break;
    case 'remove-api-key': del('/settings/api-keys/' + b.dataset.index); break;
    case 'clear-goal': del('/settings/goals/' + b.dataset.metric); break;
    }
  });
})();`
