// Package locales carries the three fixed message catalogs the form offers:
// Traditional Chinese (the default), English, and Vietnamese.
package locales

// Language identifies one of the supported locales.
type Language string

const (
	Chinese    Language = "zh"
	English    Language = "en"
	Vietnamese Language = "vi"
)

// All lists the selectable languages in display order.
var All = []Language{Chinese, English, Vietnamese}

// Valid reports whether l is a supported language.
func (l Language) Valid() bool {
	switch l {
	case Chinese, English, Vietnamese:
		return true
	}
	return false
}

// Catalog is one language's message set, keyed the way the form templates
// reference them.
type Catalog map[string]string

var catalogs = map[Language]Catalog{
	Chinese: {
		"welcome":            "請選擇語言",
		"worker_id":          "工號",
		"id_placeholder":     "例如: 14070",
		"leave_type":         "假別",
		"start_date":         "開始日期",
		"end_date":           "結束日期",
		"time":               "時間",
		"reason":             "請假原因",
		"reason_placeholder": "請簡述原因...",
		"submit":             "確認送出",
		"submitting":         "提交中...",
		"success_title":      "提交成功！",
		"success_desc":       "您的請假申請已送到後台審核。",
		"back":               "返回",
		"verifying":          "驗證中...",
		"hello":              "您好",
		"est_days":           "預估天數",
		"error_id_not_found": "找不到員工工號",
		"error_network":      "網路連線錯誤",
		"personal":           "事假",
		"sick":               "病假",
		"annual":             "特休",
		"menstrual":          "生理假",
		"bereavement":        "喪假",
	},
	English: {
		"welcome":            "Select Language",
		"worker_id":          "Worker ID",
		"id_placeholder":     "e.g., 14070",
		"leave_type":         "Leave Type",
		"start_date":         "Start Date",
		"end_date":           "End Date",
		"time":               "Time",
		"reason":             "Reason",
		"reason_placeholder": "Briefly describe reason...",
		"submit":             "Submit",
		"submitting":         "Submitting...",
		"success_title":      "Submitted Successfully!",
		"success_desc":       "Your application has been sent for approval.",
		"back":               "Back",
		"verifying":          "Verifying...",
		"hello":              "Hello",
		"est_days":           "Estimated Duration",
		"error_id_not_found": "Worker ID Not Found",
		"error_network":      "Network Error",
		"personal":           "Personal Leave",
		"sick":               "Sick Leave",
		"annual":             "Annual Leave",
		"menstrual":          "Menstrual Leave",
		"bereavement":        "Bereavement Leave",
	},
	Vietnamese: {
		"welcome":            "Chọn Ngôn Ngữ",
		"worker_id":          "Mã số nhân viên",
		"id_placeholder":     "Ví dụ: 14070",
		"leave_type":         "Loại nghỉ",
		"start_date":         "Ngày bắt đầu",
		"end_date":           "Ngày kết thúc",
		"time":               "Giờ",
		"reason":             "Lý do",
		"reason_placeholder": "Mô tả ngắn gọn...",
		"submit":             "Gửi đơn",
		"submitting":         "Đang gửi...",
		"success_title":      "Gửi thành công!",
		"success_desc":       "Đơn xin nghỉ của bạn đã được gửi để duyệt.",
		"back":               "Quay lại",
		"verifying":          "Đang kiểm tra...",
		"hello":              "Xin chào",
		"est_days":           "Thời gian dự kiến",
		"error_id_not_found": "Không tìm thấy mã nhân viên",
		"error_network":      "Lỗi kết nối",
		"personal":           "Nghỉ việc riêng (Personal)",
		"sick":               "Nghỉ ốm (Sick)",
		"annual":             "Nghỉ phép năm (Annual)",
		"menstrual":          "Nghỉ kinh nguyệt (Menstrual)",
		"bereavement":        "Nghỉ tang (Bereavement)",
	},
}

// Lookup returns the catalog for a language, falling back to Chinese (the
// original form's default) for anything unknown.
func Lookup(l Language) Catalog {
	if c, ok := catalogs[l]; ok {
		return c
	}
	return catalogs[Chinese]
}

// Message returns one message from a language's catalog, or the key itself
// when the key is unknown.
func Message(l Language, key string) string {
	if msg, ok := Lookup(l)[key]; ok {
		return msg
	}
	return key
}
