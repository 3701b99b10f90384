// Package i18n holds the API's user-facing messages in Persian and English
// and picks a language for each request.
package i18n

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

type Lang string

const (
	Persian Lang = "fa"
	English Lang = "en"
)

// supported is ordered by preference; the first entry is the fallback.
var supported = []Lang{Persian, English}

var matcher = language.NewMatcher([]language.Tag{language.Persian, language.English})

// FromRequest negotiates the response language. An explicit ?lang= wins over
// the Accept-Language header; anything unrecognised falls back to Persian.
func FromRequest(r *http.Request) Lang {
	if q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("lang"))); q != "" {
		for _, l := range supported {
			if q == string(l) {
				return l
			}
		}
	}

	header := r.Header.Get("Accept-Language")
	if header == "" {
		return Persian
	}
	_, idx := language.MatchStrings(matcher, header)
	if idx < 0 || idx >= len(supported) {
		return Persian
	}
	return supported[idx]
}

type Key string

const (
	InvalidCredentials Key = "invalid_credentials"
	LoginRequired      Key = "login_required"
	NotLoggedIn        Key = "not_logged_in"
	Forbidden          Key = "forbidden"
	ValidationFailed   Key = "validation_failed"
	LogoutSucceeded    Key = "logout_succeeded"
	LogoutFailed       Key = "logout_failed"
	TooManyRequests    Key = "too_many_requests"
	InternalError      Key = "internal_error"
	InvalidJSON        Key = "invalid_json"

	CategoryNotFound     Key = "category_not_found"
	CategoryCreateFailed Key = "category_create_failed"
	CategoryUpdateFailed Key = "category_update_failed"
	CategoryDeleted      Key = "category_deleted"
	CategoriesLoadFailed Key = "categories_load_failed"

	ProductNotFound     Key = "product_not_found"
	ProductCreateFailed Key = "product_create_failed"
	ProductUpdateFailed Key = "product_update_failed"
	ProductDeleted      Key = "product_deleted"
	ProductsLoadFailed  Key = "products_load_failed"

	ImageNotFound      Key = "image_not_found"
	GalleryAddFailed   Key = "gallery_add_failed"
	ImageDeleted       Key = "image_deleted"
	GalleryLoadFailed  Key = "gallery_load_failed"
	UploadInvalid      Key = "upload_invalid"
	UploadFailed       Key = "upload_failed"
	ContactInvalid     Key = "contact_invalid"
	ContactReceived    Key = "contact_received"
	ContactNotFound    Key = "contact_not_found"
	ContactDeleted     Key = "contact_deleted"
	StatsLoadFailed    Key = "stats_load_failed"
	RouteNotFound      Key = "route_not_found"
	MethodNotAllowed   Key = "method_not_allowed"
	CSRFTokenInvalid   Key = "csrf_token_invalid"
)

var catalogue = map[Key]map[Lang]string{
	InvalidCredentials: {Persian: "نام کاربری یا رمز عبور نادرست است", English: "Invalid username or password"},
	LoginRequired:      {Persian: "لطفا وارد حساب کاربری خود شوید", English: "Please log in to your account"},
	NotLoggedIn:        {Persian: "کاربر وارد نشده است", English: "Not logged in"},
	Forbidden:          {Persian: "شما دسترسی به این بخش را ندارید", English: "You do not have access to this section"},
	ValidationFailed:   {Persian: "خطا در اعتبارسنجی اطلاعات", English: "Validation failed"},
	LogoutSucceeded:    {Persian: "با موفقیت خارج شدید", English: "Logged out successfully"},
	LogoutFailed:       {Persian: "خطا در خروج از حساب کاربری", English: "Failed to log out"},
	TooManyRequests:    {Persian: "تعداد درخواست‌ها بیش از حد مجاز است. لطفا بعدا تلاش کنید", English: "Too many requests. Please try again later"},
	InternalError:      {Persian: "خطای داخلی سرور", English: "Internal server error"},
	InvalidJSON:        {Persian: "قالب درخواست نامعتبر است", English: "Malformed request body"},

	CategoryNotFound:     {Persian: "دسته‌بندی یافت نشد", English: "Category not found"},
	CategoryCreateFailed: {Persian: "خطا در ایجاد دسته‌بندی", English: "Failed to create category"},
	CategoryUpdateFailed: {Persian: "خطا در بروزرسانی دسته‌بندی", English: "Failed to update category"},
	CategoryDeleted:      {Persian: "دسته‌بندی با موفقیت حذف شد", English: "Category deleted successfully"},
	CategoriesLoadFailed: {Persian: "خطا در دریافت دسته‌بندی‌ها", English: "Failed to load categories"},

	ProductNotFound:     {Persian: "محصول یافت نشد", English: "Product not found"},
	ProductCreateFailed: {Persian: "خطا در ایجاد محصول", English: "Failed to create product"},
	ProductUpdateFailed: {Persian: "خطا در بروزرسانی محصول", English: "Failed to update product"},
	ProductDeleted:      {Persian: "محصول با موفقیت حذف شد", English: "Product deleted successfully"},
	ProductsLoadFailed:  {Persian: "خطا در دریافت محصولات", English: "Failed to load products"},

	ImageNotFound:     {Persian: "تصویر یافت نشد", English: "Image not found"},
	GalleryAddFailed:  {Persian: "خطا در افزودن تصویر به گالری", English: "Failed to add image to gallery"},
	ImageDeleted:      {Persian: "تصویر با موفقیت حذف شد", English: "Image deleted successfully"},
	GalleryLoadFailed: {Persian: "خطا در دریافت تصاویر گالری", English: "Failed to load gallery images"},
	UploadInvalid:     {Persian: "فایل تصویر نامعتبر است", English: "Invalid image file"},
	UploadFailed:      {Persian: "خطا در ذخیره تصویر", English: "Failed to save image"},
	ContactInvalid:    {Persian: "لطفا همه فیلدهای فرم تماس را به درستی پر کنید", English: "Please fill in every contact field correctly"},
	ContactReceived:   {Persian: "پیام شما با موفقیت ارسال شد", English: "Your message has been sent"},
	ContactNotFound:   {Persian: "پیام یافت نشد", English: "Message not found"},
	ContactDeleted:    {Persian: "پیام با موفقیت حذف شد", English: "Message deleted successfully"},
	StatsLoadFailed:   {Persian: "خطا در دریافت آمار", English: "Failed to load statistics"},
	RouteNotFound:     {Persian: "مسیر یافت نشد", English: "Not found"},
	MethodNotAllowed:  {Persian: "این روش درخواست برای این مسیر مجاز نیست", English: "Method not allowed"},
	CSRFTokenInvalid:  {Persian: "توکن امنیتی نامعتبر است", English: "Invalid CSRF token"},
}

// T returns the message for key in lang, falling back to Persian and then
// to the key itself.
func T(lang Lang, key Key) string {
	msgs, ok := catalogue[key]
	if !ok {
		return string(key)
	}
	if msg, ok := msgs[lang]; ok {
		return msg
	}
	return msgs[Persian]
}
