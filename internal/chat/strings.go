package chat

// User-facing text. The assistant speaks Vietnamese.
const (
	GreetingText = `Xin chào! Tôi là trợ lý AI chuyên về **pháp luật Việt Nam**.

Tôi có thể giúp bạn:

- Tra cứu văn bản pháp luật
- Giải thích điều khoản
- Tư vấn quy trình pháp lý
- Phân tích tài liệu bạn tải lên

Bạn cần hỗ trợ gì?`

	// ErrorText replaces the answer of a failed turn
	ErrorText = "Lỗi khi gọi API backend."

	// NoResponseText replaces a missing answer in a successful turn
	NoResponseText = "Không có phản hồi từ server."

	ComposingText = "Đang soạn câu trả lời..."
)

// QuickQuestions are offered while only the greeting is shown
var QuickQuestions = []string{
	"Quy định về thời gian làm việc",
	"Các loại hình doanh nghiệp",
	"Điều kiện hợp đồng lao động",
	"Quy trình thành lập công ty",
}
