package chat

import (
	"fmt"
	"strings"

	"github.com/tradesphere/antiscam/internal/domain/scamcheck"
)

// Canned Vietnamese replies for the chat pipeline.
const (
	HelpMessage = `🤖 HƯỚNG DẪN SỬ DỤNG

Gửi cho tôi:
📱 Số điện thoại - Kiểm tra SĐT lừa đảo
💳 Số tài khoản - Kiểm tra STK ngân hàng
💬 Tin nhắn/Email - Phân tích nội dung
❓ Câu hỏi - Tư vấn phòng chống lừa đảo

Ví dụ:
- 0123456789
- 1234567890
- "Bạn đã trúng thưởng 100 triệu..."

Gõ /help để xem hướng dẫn này.`

	WelcomeMessage = `🎉 Chào mừng bạn đến với Anti-Scam!

Tôi là trợ lý AI giúp bạn:
✅ Kiểm tra số điện thoại lừa đảo
✅ Tra cứu tài khoản ngân hàng
✅ Phân tích tin nhắn nghi ngờ
✅ Tư vấn phòng chống lừa đảo

💡 Gửi /help để xem hướng dẫn chi tiết.

Hãy gửi số điện thoại hoặc câu hỏi để bắt đầu! 🔍`

	ImageReply = `📸 Cảm ơn bạn đã gửi hình ảnh!

Tính năng phân tích hình ảnh đang được phát triển.
Hiện tại, bạn có thể:
- Gửi số điện thoại để kiểm tra
- Gửi số tài khoản để tra cứu
- Hỏi tôi về phòng chống lừa đảo`
)

// detailBaseURL is the public search page linked from warning messages.
const detailBaseURL = "https://tradesphere.com/search?q="

// recordsPerSource bounds how many records a warning message shows per
// source; chat messages have to stay short.
const recordsPerSource = 2

// RenderSearchResult formats an aggregate lookup result as a chat message.
func RenderSearchResult(result *scamcheck.AggregateResult) string {
	if !result.HasWarnings() {
		return fmt.Sprintf(`✅ KHÔNG TÌM THẤY CẢNH BÁO

Số/tài khoản "%s" chưa có báo cáo lừa đảo trong hệ thống.

⚠️ Lưu ý: Không có báo cáo ≠ An toàn 100%%
Luôn cẩn thận khi giao dịch tiền bạc!

💡 Gửi tin nhắn để tôi tư vấn thêm.`, result.Keyword)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🚨 PHÁT HIỆN CẢNH BÁO\n\nTừ khóa: %s\nTổng số báo cáo: %d\n\n", result.Keyword, result.TotalCount)

	for _, source := range result.Sources {
		if !source.Success || source.Count() == 0 {
			continue
		}
		fmt.Fprintf(&sb, "📌 %s: %d báo cáo\n", strings.ToUpper(source.Source), source.Count())

		shown := source.Records
		if len(shown) > recordsPerSource {
			shown = shown[:recordsPerSource]
		}
		for _, record := range shown {
			name := record.Name
			if name == "" {
				name = "N/A"
			}
			fmt.Fprintf(&sb, "  • %s\n", name)
			if record.ReportDate != "" {
				fmt.Fprintf(&sb, "    %s\n", record.ReportDate)
			}
		}
	}

	sb.WriteString("\n⚠️ Cảnh báo: Có thể là lừa đảo!")
	sb.WriteString("\n💻 Chi tiết: " + detailBaseURL + result.Keyword)
	return sb.String()
}
