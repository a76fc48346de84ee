package httpx

import (
	"net/http"

	domainauth "github.com/target/q-inventory/internal/domain/auth"
	"github.com/target/q-inventory/internal/service"
)

type roleOption struct {
	Value domainauth.Role
	Label string
}

func roleOptions() []roleOption {
	return []roleOption{
		{Value: domainauth.RoleUser, Label: domainauth.RoleUser.Label()},
		{Value: domainauth.RoleAdmin, Label: domainauth.RoleAdmin.Label()},
	}
}

func (h *UIHandlers) accountsData(r *http.Request) *TemplateDataBuilder {
	b := h.pageData(r, PageMeta{Title: "کاربران", PageTitle: "مدیریت کاربران", CurrentPage: PageAccounts}).
		With("Roles", roleOptions()).
		With("Form", map[string]string{})

	accounts, err := h.Identity.ListAccounts(r.Context())
	if err != nil {
		h.logger().ErrorContext(r.Context(), "list accounts", "error", err)
		return b.WithError(msgUnexpected)
	}
	return b.With("Accounts", accounts)
}

// Accounts lists accounts with the add-account form. Admin only.
// GET /accounts.
func (h *UIHandlers) Accounts(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, h.accountsData(r).Build())
}

// AccountCreate adds an account from the form. Admin only.
// POST /accounts.
func (h *UIHandlers) AccountCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	req := service.CreateAccountRequest{
		Username:    r.PostFormValue("username"),
		Password:    r.PostFormValue("password"),
		DisplayName: r.PostFormValue("display_name"),
		Role:        domainauth.Role(r.PostFormValue("role")),
	}

	_, err := h.Identity.CreateAccount(r.Context(), req)
	if err != nil {
		if !isUserError(err) {
			h.logger().ErrorContext(r.Context(), "create account", "error", err)
		}
		msg := userMessage(err)
		// Keep what was typed, except the password.
		form := map[string]string{
			"username":     req.Username,
			"display_name": req.DisplayName,
			"role":         string(req.Role),
		}
		if IsHTMX(r) {
			triggerToast(w, msg, "error")
		}
		h.renderPage(w, r, h.accountsData(r).With("Form", form).WithError(msg).Build())
		return
	}

	if IsHTMX(r) {
		triggerToast(w, msgAccountCreated, "success")
	}
	h.renderPage(w, r, h.accountsData(r).WithSuccess(msgAccountCreated).Build())
}

func (h *UIHandlers) passwordData(r *http.Request) *TemplateDataBuilder {
	return h.pageData(r, PageMeta{Title: "تغییر رمز عبور", PageTitle: "تغییر رمز عبور", CurrentPage: PagePassword}).
		With("MinPasswordLength", service.MinPasswordLength)
}

// PasswordPage renders the change-password form.
// GET /account/password.
func (h *UIHandlers) PasswordPage(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, h.passwordData(r).Build())
}

// PasswordChange changes the signed-in account's password.
// POST /account/password.
func (h *UIHandlers) PasswordChange(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	if session == nil {
		redirectToLogin(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	err := h.Identity.ChangePassword(r.Context(), service.ChangePasswordRequest{
		AccountID:       session.AccountID,
		NewPassword:     r.PostFormValue("new_password"),
		ConfirmPassword: r.PostFormValue("confirm_password"),
	})
	if err != nil {
		if !isUserError(err) {
			h.logger().ErrorContext(r.Context(), "change password", "error", err)
		}
		msg := userMessage(err)
		if IsHTMX(r) {
			triggerToast(w, msg, "error")
		}
		h.renderPage(w, r, h.passwordData(r).WithError(msg).Build())
		return
	}

	if IsHTMX(r) {
		triggerToast(w, msgPasswordChanged, "success")
	}
	h.renderPage(w, r, h.passwordData(r).WithSuccess(msgPasswordChanged).Build())
}
