package crawler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adminVNFixture = `
<html><body><div class="container">
  <div class="alert alert-danger text-center">
    Tìm thấy <strong>2</strong> cảnh báo cho <strong>0949654358</strong>
  </div>
  <div class="scam-card scam-header">
    <div class="scam-column">Tên</div>
    <div class="scam-column">Số tiền</div>
    <div class="scam-column">SĐT</div>
    <div class="scam-column">STK</div>
    <div class="scam-column">Ngân hàng</div>
    <div class="scam-column">Lượt xem</div>
    <div class="scam-column">Ngày</div>
  </div>
  <div class="scam-card">
    <div class="scam-column"><div class="limit">Nguyễn Văn A</div></div>
    <div class="scam-column">5.000.000 đ</div>
    <div class="scam-column">0949 654 358</div>
    <div class="scam-column">19036512345</div>
    <div class="scam-column">Techcombank</div>
    <div class="scam-column">120 lượt xem</div>
    <div class="scam-column">12/08/2026</div>
    <a class="stretched-link" href="https://admin.vn/scams/123"></a>
  </div>
  <div class="scam-card">
    <div class="scam-column"><div class="limit">Trần Thị B</div></div>
    <div class="scam-column">1.200.000 đ</div>
    <div class="scam-column">0912345678</div>
    <div class="scam-column">0071000123456</div>
    <div class="scam-column">Vietcombank</div>
    <div class="scam-column">34 lượt xem</div>
    <div class="scam-column">01/08/2026</div>
    <a class="stretched-link" href="https://admin.vn/scams/124"></a>
  </div>
</div></body></html>`

func TestExtractAdminVN(t *testing.T) {
	doc, err := parseDocument(adminVNFixture)
	require.NoError(t, err)

	total, records := extractAdminVN(doc, "0949654358")

	assert.Equal(t, "2", total)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "Nguyễn Văn A", first.Name)
	assert.Equal(t, "5.000.000 đ", first.Amount)
	assert.Equal(t, "0949654358", first.Phone, "spaces in phone numbers are stripped")
	assert.Equal(t, "19036512345", first.BankAccount)
	assert.Equal(t, "Techcombank", first.BankName)
	assert.Equal(t, "120", first.Views)
	assert.Equal(t, "12/08/2026", first.ReportDate)
	assert.Equal(t, "https://admin.vn/scams/123", first.DetailLink)

	assert.Equal(t, "Trần Thị B", records[1].Name)
}

func TestExtractAdminVNEmpty(t *testing.T) {
	doc, err := parseDocument(`<html><body><div class="container"></div></body></html>`)
	require.NoError(t, err)

	total, records := extractAdminVN(doc, "unknown")

	assert.Equal(t, "0", total)
	assert.Empty(t, records)
}

const checkScamVNFixture = `
<html><body><div class="pst">
  <h2 class="h1">Có 2 cảnh báo về "0949654358"</h2>
  <div class="ct">
    <div class="ct1"><a href="https://checkscam.vn/warn/1">Nguyễn Văn A</a></div>
    <div class="ct2">
      <span>Lượt xem 532</span>
      <span>2 tháng trước...</span>
    </div>
  </div>
  <div class="ct">
    <div class="ct1"><a href="https://checkscam.vn/warn/2">Trần Thị B</a></div>
    <div class="ct2">
      <span>Lượt xem 88</span>
      <span>1 tháng trước...</span>
    </div>
  </div>
  <div class="ct">
    <div class="ct1"><a href="https://checkscam.vn/warn/3">Kết quả khác</a></div>
    <div class="ct2"><span>Lượt xem 10</span></div>
  </div>
</div></body></html>`

func TestExtractCheckScamVN(t *testing.T) {
	doc, err := parseDocument(checkScamVNFixture)
	require.NoError(t, err)

	total, records := extractCheckScamVN(doc, "0949654358")

	assert.Equal(t, "2", total)
	require.Len(t, records, 2, "rows past the declared total are padding")

	first := records[0]
	assert.Equal(t, "Nguyễn Văn A", first.Name)
	assert.Equal(t, "https://checkscam.vn/warn/1", first.DetailLink)
	assert.Equal(t, "532", first.Views)
	assert.Equal(t, "2 tháng trước", first.ReportDate)
}

func TestExtractCheckScamVNNoHeading(t *testing.T) {
	doc, err := parseDocument(`<html><body><div class="pst"></div></body></html>`)
	require.NoError(t, err)

	total, records := extractCheckScamVN(doc, "x")

	assert.Equal(t, "0", total)
	assert.Empty(t, records)
}

const scamVNFixture = `
<html><body>
<table class="table">
  <tr class="rs">
    <td>1</td>
    <td><a href="/bao-cao/abc">Nguyễn Văn A</a></td>
    <td>
      <div class="sotaikhoan">
        <span class="hidden-info" data-type="tknganhang" data-value="19036512345">190***</span>
      </div>
      <div class="tennganhang"><span class="badge">Techcombank</span></div>
    </td>
  </tr>
  <tr class="rs">
    <td>2</td>
    <td><a href="https://scam.vn/bao-cao/def">Trần Thị B</a></td>
    <td>
      <div class="sotaikhoan">
        <span class="hidden-info" data-type="tknganhang" data-value="0071000123456">007***</span>
      </div>
      <div class="tennganhang"><span class="badge">Vietcombank</span></div>
    </td>
  </tr>
</table>
</body></html>`

func TestExtractScamVN(t *testing.T) {
	doc, err := parseDocument(scamVNFixture)
	require.NoError(t, err)

	total, records := extractScamVN(doc, "19036512345")

	assert.Equal(t, "2", total, "total tracks the row count")
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "Nguyễn Văn A", first.Name)
	assert.Equal(t, "https://scam.vn/bao-cao/abc", first.DetailLink, "relative links are absolutized")
	assert.Equal(t, "19036512345", first.BankAccount)
	assert.Equal(t, "Techcombank", first.BankName)

	assert.Equal(t, "https://scam.vn/bao-cao/def", records[1].DetailLink)
}

func TestExtractScamVNFallbackRows(t *testing.T) {
	// No tr.rs rows; any tr with at least three cells is treated as a result.
	fixture := `
<html><body>
<table>
  <tr><th>#</th><th>Tên</th><th>Tài khoản</th></tr>
  <tr>
    <td>1</td>
    <td><a href="/bao-cao/xyz">Lê Văn C</a></td>
    <td><div class="tennganhang"><span class="badge">ACB</span></div></td>
  </tr>
</table>
</body></html>`
	doc, err := parseDocument(fixture)
	require.NoError(t, err)

	total, records := extractScamVN(doc, "x")

	assert.Equal(t, "1", total)
	require.Len(t, records, 1)
	assert.Equal(t, "Lê Văn C", records[0].Name)
	assert.Equal(t, "ACB", records[0].BankName)
}

func TestExtractScamVNNoTable(t *testing.T) {
	doc, err := parseDocument(`<html><body><p>Không tìm thấy kết quả</p></body></html>`)
	require.NoError(t, err)

	total, records := extractScamVN(doc, "x")

	assert.Equal(t, "0", total)
	assert.Empty(t, records)
}

func TestDescriptorURLs(t *testing.T) {
	tests := []struct {
		name     string
		desc     PageDescriptor
		keyword  string
		expected string
	}{
		{"admin escapes keyword", AdminVNDescriptor(), "a b", "https://admin.vn/scams?keyword=a+b"},
		{"checkscam", CheckScamVNDescriptor(), "0949654358", "https://checkscam.vn/?qh_ss=0949654358"},
		{"scam", ScamVNDescriptor(), "0949654358", "https://scam.vn/tim-kiem?tu-khoa=0949654358"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.desc.BuildURL(tt.keyword))
		})
	}
}
