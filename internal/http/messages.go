package httpx

import (
	apperrors "github.com/target/q-inventory/internal/errors"
)

// User-facing messages. The UI is Persian and right-to-left.
const (
	msgInvalidCredentials = "نام کاربری یا رمز عبور اشتباه است!"
	msgFillAllFields      = "لطفاً همه فیلدها را پر کنید"
	msgDuplicateUsername  = "این نام کاربری قبلاً استفاده شده است"
	msgPasswordMismatch   = "رمزهای عبور مطابقت ندارند"
	msgPasswordTooShort   = "رمز عبور باید حداقل 4 کاراکتر باشد"
	msgAccountCreated     = "کاربر جدید با موفقیت اضافه شد"
	msgPasswordChanged    = "رمز عبور با موفقیت تغییر کرد"
	msgConfirmDelete      = "آیا از حذف این مورد اطمینان دارید؟"

	msgItemAdded        = "مورد جدید اضافه شد"
	msgQuantitySaved    = "موجودی ذخیره شد"
	msgItemNameRequired = "لطفاً نام مورد را وارد کنید"
	msgNegativeQuantity = "موجودی نمی‌تواند منفی باشد"
	msgInvalidNumber    = "لطفاً یک عدد معتبر وارد کنید"
	msgInvalidRole      = "نقش انتخاب‌شده معتبر نیست"
	msgItemNotFound     = "این مورد پیدا نشد"
	msgNotEditing       = "ویرایش این مورد لغو شده است"
	msgUnexpected       = "خطای غیرمنتظره‌ای رخ داد. لطفاً دوباره تلاش کنید"
	msgAccessDenied     = "دسترسی غیرمجاز: این بخش فقط برای مدیر است"
	msgPageNotFound     = "صفحه مورد نظر پیدا نشد"
)

// userMessage translates a service error into the message shown in the UI.
func userMessage(err error) string {
	if err == nil {
		return ""
	}
	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeInvalidCredentials:
		return msgInvalidCredentials
	case apperrors.ErrCodeDuplicateUsername:
		return msgDuplicateUsername
	case apperrors.ErrCodeMismatch:
		return msgPasswordMismatch
	case apperrors.ErrCodeTooShort:
		return msgPasswordTooShort
	case apperrors.ErrCodeNotFound:
		return msgItemNotFound
	case apperrors.ErrCodeValidation:
		return validationMessage(apperrors.GetField(err))
	default:
		return msgUnexpected
	}
}

func validationMessage(field string) string {
	switch field {
	case "name":
		return msgItemNameRequired
	case "quantity":
		return msgNegativeQuantity
	case "role":
		return msgInvalidRole
	default:
		return msgFillAllFields
	}
}
