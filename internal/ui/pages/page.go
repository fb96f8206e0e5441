// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package pages

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/ticketdesk-tui/internal/api"
	"github.com/jeranaias/ticketdesk-tui/internal/clock"
	"github.com/jeranaias/ticketdesk-tui/internal/logging"
	"github.com/jeranaias/ticketdesk-tui/internal/notify"
	"github.com/jeranaias/ticketdesk-tui/internal/session"
	"github.com/jeranaias/ticketdesk-tui/internal/ui/styles"
)

// =============================================================================
// ROUTES
// =============================================================================

// Route names a page.
type Route string

const (
	RouteLogin       Route = "login"
	RouteDashboard   Route = "dashboard"
	RouteClients     Route = "clients"
	RouteTechnicians Route = "technicians"
	RouteTickets     Route = "tickets"
)

// Routes lists the protected pages in navbar order.
var Routes = []Route{RouteDashboard, RouteClients, RouteTechnicians, RouteTickets}

// ParseRoute maps a route name to a Route.
func ParseRoute(s string) (Route, bool) {
	switch r := Route(s); r {
	case RouteLogin, RouteDashboard, RouteClients, RouteTechnicians, RouteTickets:
		return r, true
	}
	return "", false
}

// Protected reports whether the route needs a stored credential.
func (r Route) Protected() bool {
	return r != RouteLogin
}

// Title is the navbar label of the route.
func (r Route) Title() string {
	switch r {
	case RouteLogin:
		return "Login"
	case RouteDashboard:
		return "Dashboard"
	case RouteClients:
		return "Clients"
	case RouteTechnicians:
		return "Technicians"
	case RouteTickets:
		return "Tickets"
	}
	return string(r)
}

// =============================================================================
// MESSAGES
// =============================================================================

// AsyncMsg carries the result of a page command. The controller delivers
// Msg only while the page mounted with Epoch is still current.
type AsyncMsg struct {
	Epoch uint64
	Msg   tea.Msg
}

// NavigateMsg asks the controller to switch pages.
type NavigateMsg struct {
	To Route
}

// LoggedInMsg is sent by the login page once its success notification has
// been shown for the redirect delay. The controller opens the start page.
type LoggedInMsg struct{}

// NotificationChangedMsg is posted when a page notifier shows or hides a
// notification, so the view is redrawn.
type NotificationChangedMsg struct {
	Epoch   uint64
	Visible bool
}

// =============================================================================
// PAGE
// =============================================================================

// Page is one screen of the console.
type Page interface {
	Route() Route
	// Epoch identifies this mount of the page.
	Epoch() uint64
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View(width, height int) string
	// Notifier is the page's notification slot.
	Notifier() *notify.Notifier
	// Capturing reports whether keystrokes are going into a text input, in
	// which case single-letter global shortcuts are not applied.
	Capturing() bool
	// Close stops the page's timers and its notifier.
	Close()
}

// Deps are the collaborators every page is built with.
type Deps struct {
	Services *api.Services
	Store    *session.Store
	Clock    clock.Clock
	Logger   *zap.Logger
	Theme    *styles.Theme

	// NotifyDelay is how long non-error notifications stay up.
	NotifyDelay time.Duration
	// LoginRedirect is the pause between a successful login and the
	// start page.
	LoginRedirect time.Duration
	// Timeout bounds each request issued by a page.
	Timeout time.Duration

	// Send posts a message to the running program from any goroutine. It
	// must not block.
	Send func(tea.Msg)
	// Clipboard writes text to the system clipboard.
	Clipboard func(string) error
}

// DefaultLoginRedirect is the pause before the start page opens after login.
const DefaultLoginRedirect = 1500 * time.Millisecond

// WithDefaults fills unset fields.
func (d Deps) WithDefaults() Deps {
	if d.Clock == nil {
		d.Clock = clock.Real()
	}
	d.Logger = logging.OrNop(d.Logger)
	if d.Theme == nil {
		d.Theme = styles.NewTheme("auto")
	}
	if d.NotifyDelay <= 0 {
		d.NotifyDelay = notify.DefaultDelay
	}
	if d.LoginRedirect <= 0 {
		d.LoginRedirect = DefaultLoginRedirect
	}
	if d.Timeout <= 0 {
		d.Timeout = api.DefaultTimeout
	}
	if d.Clipboard == nil {
		d.Clipboard = clipboard.WriteAll
	}
	if d.Store == nil && d.Services != nil {
		d.Store = d.Services.Gateway().Store()
	}
	return d
}

func (d Deps) send(msg tea.Msg) {
	if d.Send != nil {
		d.Send(msg)
	}
}

// New builds the page for route.
func New(route Route, deps Deps, epoch uint64) Page {
	deps = deps.WithDefaults()
	switch route {
	case RouteLogin:
		return NewLogin(deps, epoch)
	case RouteDashboard:
		return NewDashboard(deps, epoch)
	case RouteClients:
		return NewClients(deps, epoch)
	case RouteTechnicians:
		return NewTechnicians(deps, epoch)
	case RouteTickets:
		return NewTickets(deps, epoch)
	}
	return NewLogin(deps, epoch)
}

// =============================================================================
// BASE
// =============================================================================

// base holds what every page shares: its mount epoch, notifier and pending
// timers.
type base struct {
	deps     Deps
	route    Route
	epoch    uint64
	notifier *notify.Notifier
	timers   []*clock.Timer
	logger   *zap.Logger
}

func newBase(deps Deps, route Route, epoch uint64) base {
	b := base{
		deps:   deps,
		route:  route,
		epoch:  epoch,
		logger: deps.Logger.With(zap.String("page", string(route))),
	}
	b.notifier = notify.New(
		notify.WithClock(deps.Clock),
		notify.WithDelay(deps.NotifyDelay),
		notify.WithOnChange(func(_ notify.Notification, visible bool) {
			deps.send(NotificationChangedMsg{Epoch: epoch, Visible: visible})
		}),
	)
	return b
}

// Route returns the page's route.
func (b *base) Route() Route { return b.route }

// Epoch returns the mount epoch.
func (b *base) Epoch() uint64 { return b.epoch }

// Notifier returns the page's notifier.
func (b *base) Notifier() *notify.Notifier { return b.notifier }

// Close stops pending timers and the notifier.
func (b *base) Close() {
	for _, t := range b.timers {
		t.Stop()
	}
	b.timers = nil
	b.notifier.Close()
}

func (b *base) notify(message string, kind notify.Kind) {
	b.notifier.Show(message, kind)
}

// run executes fn off the update loop with a request timeout and tags the
// result with the page epoch.
func (b *base) run(fn func(ctx context.Context) tea.Msg) tea.Cmd {
	epoch := b.epoch
	timeout := b.deps.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return AsyncMsg{Epoch: epoch, Msg: fn(ctx)}
	}
}

// after posts msg once d has passed on the page clock. Close cancels it.
func (b *base) after(d time.Duration, msg tea.Msg) {
	epoch := b.epoch
	send := b.deps.send
	t := b.deps.Clock.AfterFunc(d, func() {
		send(AsyncMsg{Epoch: epoch, Msg: msg})
	})
	b.timers = append(b.timers, t)
}

// failed logs err and shows message, unless err is a session invalidation
// the controller is already handling. It reports whether err was shown.
func (b *base) failed(err error, message string) bool {
	if api.IsSessionInvalidated(err) {
		b.logger.Debug("request ended by session invalidation", zap.Error(err))
		return false
	}
	b.logger.Warn(message, zap.Error(err))
	b.notify(message, notify.KindError)
	return true
}
