package ui

import (
	"context"
	"errors"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/dkrysak/chemviz/internal/client"
)

// Tab indices of the dashboard; History refreshes on entry, the others
// keep whatever they showed.
const (
	tabWorkspace = 0
	tabHistory   = 1
	tabProfile   = 2
)

// Shell owns the window and the authenticated session. Each user action has
// its own call slot so reissuing an action cancels the previous in-flight
// request, and teardown cancels everything.
type Shell struct {
	win fyne.Window
	api *client.Client
	pal Palette

	session *client.Session

	loginSlot    client.Slot[*client.Session]
	signupSlot   client.Slot[struct{}]
	uploadSlot   client.Slot[*client.Analysis]
	historySlot  client.Slot[[]client.Analysis]
	saveSlot     client.Slot[*client.Profile]
	downloadSlot client.Slot[[]byte]
	logoutSlot   client.Slot[struct{}]

	workspace *workspaceView
	history   *historyView
	profile   *profileView
}

func NewShell(win fyne.Window, api *client.Client, pal Palette) *Shell {
	s := &Shell{win: win, api: api, pal: pal}
	win.SetOnClosed(s.cancelAll)
	return s
}

func (s *Shell) cancelAll() {
	s.loginSlot.Cancel()
	s.signupSlot.Cancel()
	s.uploadSlot.Cancel()
	s.historySlot.Cancel()
	s.saveSlot.Cancel()
	s.downloadSlot.Cancel()
	s.logoutSlot.Cancel()
}

// ShowLogin presents the credential form.
func (s *Shell) ShowLogin() {
	username := widget.NewEntry()
	username.SetPlaceHolder("eng.name@company.com")
	password := widget.NewPasswordEntry()
	password.SetPlaceHolder("Enter your password")

	status := widget.NewLabel("")
	status.Wrapping = fyne.TextWrapWord

	var loginBtn *widget.Button
	loginBtn = widget.NewButton("Sign In to Console", func() {
		loginBtn.Disable()
		status.SetText("Logging in...")
		task := s.loginSlot.Start(context.Background(), func(ctx context.Context) (*client.Session, error) {
			return s.api.Login(ctx, username.Text, password.Text)
		})
		go func() {
			out := <-task.Done()
			fyne.Do(func() {
				loginBtn.Enable()
				status.SetText("")
				if out.Err != nil {
					if !errors.Is(out.Err, context.Canceled) {
						status.SetText(loginErrorText(out.Err))
					}
					return
				}
				s.session = out.Value
				s.ShowDashboard()
			})
		}()
	})

	title := widget.NewLabelWithStyle("Welcome Back", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	subtitle := widget.NewLabelWithStyle(
		"Enter your credentials to access the equipment parameters dashboard.",
		fyne.TextAlignCenter, fyne.TextStyle{})
	subtitle.Wrapping = fyne.TextWrapWord

	signupLink := widget.NewHyperlink("New here? Create an account", nil)
	signupLink.OnTapped = s.ShowSignup

	form := container.NewVBox(
		title,
		subtitle,
		widget.NewLabel("Work Email"),
		username,
		widget.NewLabel("Password"),
		password,
		loginBtn,
		signupLink,
		status,
	)

	s.win.SetTitle("Chemical Equipment Parameter Visualizer - Login")
	s.win.SetContent(container.NewCenter(container.NewPadded(form)))
}

// ShowSignup presents the account creation form.
func (s *Shell) ShowSignup() {
	username := widget.NewEntry()
	firstName := widget.NewEntry()
	lastName := widget.NewEntry()
	email := widget.NewEntry()
	password := widget.NewPasswordEntry()
	role := widget.NewEntry()
	role.SetPlaceHolder("Process Engineer")
	company := widget.NewEntry()

	status := widget.NewLabel("")
	status.Wrapping = fyne.TextWrapWord

	var createBtn *widget.Button
	createBtn = widget.NewButton("Create Account", func() {
		createBtn.Disable()
		status.SetText("Creating account...")
		req := client.SignupRequest{
			Username:  username.Text,
			FirstName: firstName.Text,
			LastName:  lastName.Text,
			Email:     email.Text,
			Password:  password.Text,
			Role:      role.Text,
			Company:   company.Text,
		}
		task := s.signupSlot.Start(context.Background(), func(ctx context.Context) (struct{}, error) {
			return struct{}{}, s.api.Signup(ctx, req)
		})
		go func() {
			out := <-task.Done()
			fyne.Do(func() {
				createBtn.Enable()
				if out.Err != nil {
					if !errors.Is(out.Err, context.Canceled) {
						status.SetText(out.Err.Error())
					}
					return
				}
				s.ShowLogin()
			})
		}()
	})

	backLink := widget.NewHyperlink("Back to sign in", nil)
	backLink.OnTapped = s.ShowLogin

	form := widget.NewForm(
		widget.NewFormItem("Username", username),
		widget.NewFormItem("First Name", firstName),
		widget.NewFormItem("Last Name", lastName),
		widget.NewFormItem("Work Email", email),
		widget.NewFormItem("Password", password),
		widget.NewFormItem("Role", role),
		widget.NewFormItem("Company", company),
	)
	title := widget.NewLabelWithStyle("Create Your Account", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})

	s.win.SetTitle("Chemical Equipment Parameter Visualizer - Sign Up")
	s.win.SetContent(container.NewCenter(container.NewPadded(container.NewVBox(
		title, form, createBtn, backLink, status,
	))))
}

func loginErrorText(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Status == 403 {
		return "Invalid username or password."
	}
	return err.Error()
}

// ShowDashboard presents the three-view dashboard for the active session.
func (s *Shell) ShowDashboard() {
	s.workspace = newWorkspaceView(s)
	s.history = newHistoryView(s)
	s.profile = newProfileView(s)

	tabs := container.NewAppTabs(
		container.NewTabItem("Workspace", s.workspace.content),
		container.NewTabItem("History", s.history.content),
		container.NewTabItem("Profile", s.profile.content),
	)
	tabs.SetTabLocation(container.TabLocationLeading)
	tabs.OnSelected = func(item *container.TabItem) {
		// Only the history view refreshes on entry.
		if tabs.SelectedIndex() == tabHistory {
			s.history.refresh()
		}
	}

	logout := widget.NewButton("Logout", s.handleLogout)
	content := container.NewBorder(nil, container.NewHBox(logout), nil, nil, tabs)

	s.win.SetTitle("Chemical Equipment Parameter Visualizer - Dashboard")
	s.win.SetContent(content)
}

func (s *Shell) handleLogout() {
	task := s.logoutSlot.Start(context.Background(), func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.api.Logout(ctx)
	})
	go func() {
		out := <-task.Done()
		fyne.Do(func() {
			if out.Err != nil && !errors.Is(out.Err, context.Canceled) {
				// The session is discarded regardless; token deletion
				// failing server-side is not actionable here.
				dialog.ShowError(out.Err, s.win)
			}
			s.cancelAll()
			s.session = nil
			s.ShowLogin()
		})
	}()
}

func (s *Shell) showError(err error) {
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	dialog.ShowError(err, s.win)
}
