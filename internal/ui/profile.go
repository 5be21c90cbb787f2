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

// profileView edits the signed-in user's profile, gated on re-entry of the
// current password.
type profileView struct {
	shell   *Shell
	content fyne.CanvasObject
}

func newProfileView(s *Shell) *profileView {
	v := &profileView{shell: s}

	u := s.session.User
	firstName := widget.NewEntry()
	firstName.SetText(u.FirstName)
	lastName := widget.NewEntry()
	lastName.SetText(u.LastName)
	email := widget.NewEntry()
	email.SetText(u.Email)
	role := widget.NewEntry()
	role.SetText(u.Role)
	company := widget.NewEntry()
	company.SetText(u.Company)
	newPassword := widget.NewPasswordEntry()
	newPassword.SetPlaceHolder("Leave empty to keep current password")
	currentPassword := widget.NewPasswordEntry()
	currentPassword.SetPlaceHolder("Required to save changes")

	status := widget.NewLabel("")
	status.Wrapping = fyne.TextWrapWord

	var saveBtn *widget.Button
	saveBtn = widget.NewButton("Save Changes", func() {
		if currentPassword.Text == "" {
			status.SetText("Enter your current password to save changes.")
			return
		}
		saveBtn.Disable()
		status.SetText("Saving...")

		req := client.UpdateRequest{
			CurrentPassword: currentPassword.Text,
			FirstName:       &firstName.Text,
			LastName:        &lastName.Text,
			Email:           &email.Text,
			Role:            &role.Text,
			Company:         &company.Text,
		}
		if newPassword.Text != "" {
			req.Password = &newPassword.Text
		}

		task := s.saveSlot.Start(context.Background(), func(ctx context.Context) (*client.Profile, error) {
			return s.api.UpdateProfile(ctx, req)
		})
		go func() {
			out := <-task.Done()
			fyne.Do(func() {
				saveBtn.Enable()
				status.SetText("")
				if out.Err != nil {
					if errors.Is(out.Err, context.Canceled) {
						return
					}
					var apiErr *client.APIError
					if errors.As(out.Err, &apiErr) && apiErr.Status == 401 {
						status.SetText("Current password is incorrect.")
						return
					}
					s.showError(out.Err)
					return
				}
				s.session.User = *out.Value
				currentPassword.SetText("")
				newPassword.SetText("")
				dialog.ShowInformation("Profile", "Profile updated.", s.win)
			})
		}()
	})

	form := widget.NewForm(
		widget.NewFormItem("Username", widget.NewLabel(u.Username)),
		widget.NewFormItem("First Name", firstName),
		widget.NewFormItem("Last Name", lastName),
		widget.NewFormItem("Email", email),
		widget.NewFormItem("Role", role),
		widget.NewFormItem("Company", company),
		widget.NewFormItem("New Password", newPassword),
		widget.NewFormItem("Current Password", currentPassword),
	)

	v.content = container.NewVBox(form, saveBtn, status)
	return v
}
