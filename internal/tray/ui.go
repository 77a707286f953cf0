package tray

import (
	"net/url"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/glucotray/nightscout-tray/internal/constants"
	"github.com/glucotray/nightscout-tray/internal/glucose"
	"github.com/glucotray/nightscout-tray/internal/icon"
	"github.com/glucotray/nightscout-tray/internal/logging"
)

const (
	waitingTitle  = "Glucose: waiting for data"
	waitingStatus = "Waiting for data..."
	detailsTitle  = "Glucose Details"
)

// UIOptions configures the menu actions of the UI.
type UIOptions struct {
	// BaseURL is opened by "Open Nightscout".
	BaseURL string
	// LogDir is opened by "View Logs".
	LogDir string
	// Refresh is called by "Refresh Now".
	Refresh func()
	// Alerts backs the checkable "Alerts" item; the item is omitted when nil.
	Alerts AlertToggle
}

// AlertToggle switches out-of-range alerts on and off at runtime.
type AlertToggle interface {
	IsEnabled() bool
	SetEnabled(enabled bool)
}

// UI is the fyne surface of the tray: one small window whose icon and
// title carry the reading, plus the system tray icon and menu when the
// driver supports it.
type UI struct {
	app    fyne.App
	window fyne.Window
	host   *Host
	opts   UIOptions
	logger *logging.Logger

	label  *detailLabel
	status *fyne.MenuItem
	alerts *fyne.MenuItem // nil without UIOptions.Alerts
	menu   *fyne.Menu
	tray   desktop.App // nil without system tray support
}

// NewUI builds the window and tray menu and attaches itself to host.
func NewUI(a fyne.App, host *Host, opts UIOptions, logger *logging.Logger) *UI {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	u := &UI{
		app:    a,
		host:   host,
		opts:   opts,
		logger: logger,
	}

	u.window = a.NewWindow(waitingTitle)
	u.label = newDetailLabel(waitingStatus, u.ShowDetails)
	u.window.SetContent(container.NewPadded(container.NewVBox(
		u.label,
		widget.NewLabelWithStyle("Double-click for details", fyne.TextAlignCenter, fyne.TextStyle{Italic: true}),
	)))
	u.window.Resize(fyne.NewSize(320, 110))

	u.status = fyne.NewMenuItem(waitingStatus, nil)
	u.status.Disabled = true
	quit := fyne.NewMenuItem("Quit", a.Quit)
	quit.IsQuit = true
	items := []*fyne.MenuItem{
		u.status,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Details...", u.ShowDetails),
		fyne.NewMenuItem("Refresh Now", u.refresh),
	}
	if opts.Alerts != nil {
		u.alerts = fyne.NewMenuItem("Alerts", u.toggleAlerts)
		u.alerts.Checked = opts.Alerts.IsEnabled()
		items = append(items, u.alerts)
	}
	items = append(items,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Open Nightscout", u.openNightscout),
		fyne.NewMenuItem("View Logs", u.viewLogs),
		fyne.NewMenuItemSeparator(),
		quit,
	)
	u.menu = fyne.NewMenu(constants.AppName, items...)

	if desk, ok := a.(desktop.App); ok {
		u.tray = desk
		desk.SetSystemTrayMenu(u.menu)
		// With a tray the window only hides on close.
		u.window.SetCloseIntercept(u.window.Hide)
	}

	u.applyIcon(host.Icon())
	host.SetDisplay(u)
	return u
}

// Window returns the main window.
func (u *UI) Window() fyne.Window {
	return u.window
}

// ShowReading implements Display. It may be called from any goroutine.
func (u *UI) ShowReading(r glucose.Reading, ic *icon.Icon) {
	title := r.Title()
	status := r.Tooltip()
	fyne.Do(func() {
		u.window.SetTitle(title)
		u.label.SetText(status)
		u.status.Label = status
		u.menu.Refresh()
		u.applyIcon(ic)
	})
}

// ShowDetails opens the details dialog for the latest reading.
func (u *UI) ShowDetails() {
	u.window.Show()
	dialog.ShowInformation(detailsTitle, u.host.DetailText(), u.window)
}

// ShowAndRun shows the window and blocks in the fyne event loop.
func (u *UI) ShowAndRun() {
	u.window.ShowAndRun()
}

// applyIcon must run on the fyne goroutine.
func (u *UI) applyIcon(ic *icon.Icon) {
	res, err := ic.Resource()
	if err != nil {
		u.logger.Warn().Err(err).Msg("Failed to encode tray icon")
		return
	}
	u.window.SetIcon(res)
	if u.tray != nil {
		u.tray.SetSystemTrayIcon(res)
	}
}

func (u *UI) refresh() {
	if u.opts.Refresh != nil {
		u.opts.Refresh()
	}
}

func (u *UI) toggleAlerts() {
	enabled := !u.opts.Alerts.IsEnabled()
	u.opts.Alerts.SetEnabled(enabled)
	u.alerts.Checked = enabled
	u.menu.Refresh()
	u.logger.Info().Bool("enabled", enabled).Msg("Alerts toggled")
}

func (u *UI) openNightscout() {
	if u.opts.BaseURL == "" {
		return
	}
	target, err := url.Parse(u.opts.BaseURL)
	if err != nil {
		u.logger.Warn().Err(err).Msg("Invalid Nightscout URL")
		return
	}
	if err := u.app.OpenURL(target); err != nil {
		u.logger.Warn().Err(err).Msg("Failed to open Nightscout in browser")
	}
}

func (u *UI) viewLogs() {
	if u.opts.LogDir == "" {
		return
	}
	target, err := url.Parse(storage.NewFileURI(u.opts.LogDir).String())
	if err != nil {
		u.logger.Warn().Err(err).Msg("Invalid log directory")
		return
	}
	if err := u.app.OpenURL(target); err != nil {
		u.logger.Warn().Err(err).Str("dir", u.opts.LogDir).Msg("Failed to open logs directory")
	}
}

// detailLabel is a label that opens the details dialog on double-click.
type detailLabel struct {
	widget.Label
	onDoubleTap func()
}

func newDetailLabel(text string, onDoubleTap func()) *detailLabel {
	l := &detailLabel{onDoubleTap: onDoubleTap}
	l.Text = text
	l.Alignment = fyne.TextAlignCenter
	l.TextStyle = fyne.TextStyle{Bold: true}
	l.ExtendBaseWidget(l)
	return l
}

// DoubleTapped implements fyne.DoubleTappable.
func (l *detailLabel) DoubleTapped(*fyne.PointEvent) {
	if l.onDoubleTap != nil {
		l.onDoubleTap()
	}
}
