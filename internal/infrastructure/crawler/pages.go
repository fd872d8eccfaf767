package crawler

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/tradesphere/antiscam/internal/domain/scamcheck"
	"golang.org/x/net/html"
)

// Descriptors for the client-rendered sources. Field positions and class
// names follow the markup each site serves as of writing; a layout change
// surfaces as an empty (but successful) result, not an error.

// AdminVNDescriptor queries admin.vn's scam listing.
func AdminVNDescriptor() PageDescriptor {
	return PageDescriptor{
		ID: scamcheck.SourceAdminVN,
		BuildURL: func(keyword string) string {
			return "https://admin.vn/scams?keyword=" + url.QueryEscape(keyword)
		},
		WaitSelector: ".container",
		Settle:       true,
		Extract:      extractAdminVN,
	}
}

func extractAdminVN(doc *html.Node, keyword string) (string, []scamcheck.SourceRecord) {
	total := "0"

	// The alert banner carries two strongs: the count and the echoed keyword.
	if alert := findFirst(doc, func(n *html.Node) bool {
		return isElement(n, "div") && hasClass(n, "alert") && hasClass(n, "alert-danger") && hasClass(n, "text-center")
	}); alert != nil {
		if strongs := findAll(alert, func(n *html.Node) bool { return isElement(n, "strong") }); len(strongs) >= 2 {
			total = nodeText(strongs[0])
		}
	}

	var records []scamcheck.SourceRecord
	for _, card := range findAll(doc, tagClass("div", "scam-card")) {
		if hasClass(card, "scam-header") {
			continue
		}
		columns := findAll(card, tagClass("div", "scam-column"))
		if len(columns) < 7 {
			continue
		}

		rec := scamcheck.SourceRecord{
			Amount:      nodeText(columns[1]),
			Phone:       strings.ReplaceAll(nodeText(columns[2]), " ", ""),
			BankAccount: nodeText(columns[3]),
			BankName:    nodeText(columns[4]),
			Views:       strings.TrimSpace(strings.ReplaceAll(nodeText(columns[5]), "lượt xem", "")),
			ReportDate:  nodeText(columns[6]),
		}
		if nameDiv := findFirst(columns[0], tagClass("div", "limit")); nameDiv != nil {
			rec.Name = nodeText(nameDiv)
		}
		if link := findFirst(card, tagClass("a", "stretched-link")); link != nil {
			rec.DetailLink = attrVal(link, "href")
		}
		records = append(records, rec)
	}

	return total, records
}

var checkscamTotalPattern = regexp.MustCompile(`Có (\d+) cảnh báo`)

// CheckScamVNDescriptor queries checkscam.vn's warning listing.
func CheckScamVNDescriptor() PageDescriptor {
	return PageDescriptor{
		ID: scamcheck.SourceCheckScamVN,
		BuildURL: func(keyword string) string {
			return "https://checkscam.vn/?qh_ss=" + url.QueryEscape(keyword)
		},
		WaitSelector: ".pst",
		Settle:       true,
		Extract:      extractCheckScamVN,
	}
}

func extractCheckScamVN(doc *html.Node, keyword string) (string, []scamcheck.SourceRecord) {
	total := "0"
	if heading := findFirst(doc, tagClass("h2", "h1")); heading != nil {
		if m := checkscamTotalPattern.FindStringSubmatch(nodeText(heading)); m != nil {
			total = m[1]
		}
	}

	// The page pads its list with unrelated entries; trust the declared
	// total over the row count.
	maxItems, err := strconv.Atoi(total)
	cts := findAll(doc, tagClass("div", "ct"))
	if err != nil {
		maxItems = len(cts)
	}

	var records []scamcheck.SourceRecord
	for i, ct := range cts {
		if i >= maxItems {
			break
		}
		ct1 := findFirst(ct, tagClass("div", "ct1"))
		ct2 := findFirst(ct, tagClass("div", "ct2"))
		if ct1 == nil || ct2 == nil {
			continue
		}
		link := findFirst(ct1, func(n *html.Node) bool { return isElement(n, "a") })
		if link == nil {
			continue
		}

		rec := scamcheck.SourceRecord{
			Name:       nodeText(link),
			DetailLink: attrVal(link, "href"),
		}
		for _, span := range findAll(ct2, func(n *html.Node) bool { return isElement(n, "span") }) {
			text := nodeText(span)
			switch {
			case strings.Contains(text, "Lượt xem"):
				rec.Views = strings.TrimSpace(strings.ReplaceAll(text, "Lượt xem", ""))
			case strings.Contains(text, "tháng") || strings.Contains(text, "..."):
				rec.ReportDate = strings.TrimSpace(strings.ReplaceAll(text, "...", ""))
			}
		}
		records = append(records, rec)
	}

	return total, records
}

// ScamVNDescriptor queries scam.vn's internal search. The page has no
// reliable marker; results arrive over AJAX after load, so the descriptor
// leans on the settle delay and reports the row count as the total.
func ScamVNDescriptor() PageDescriptor {
	return PageDescriptor{
		ID: scamcheck.SourceScamVN,
		BuildURL: func(keyword string) string {
			return "https://scam.vn/tim-kiem?tu-khoa=" + url.QueryEscape(keyword)
		},
		WaitSelector: "",
		Settle:       true,
		Extract:      extractScamVN,
	}
}

func extractScamVN(doc *html.Node, keyword string) (string, []scamcheck.SourceRecord) {
	table := findFirst(doc, tagClass("table", "table"))
	if table == nil {
		table = findFirst(doc, func(n *html.Node) bool { return isElement(n, "table") })
	}
	if table == nil {
		return "0", nil
	}

	rows := findAll(table, tagClass("tr", "rs"))
	if len(rows) == 0 {
		for _, tr := range findAll(table, func(n *html.Node) bool { return isElement(n, "tr") }) {
			if len(findAll(tr, func(n *html.Node) bool { return isElement(n, "td") })) >= 3 {
				rows = append(rows, tr)
			}
		}
	}

	var records []scamcheck.SourceRecord
	for _, row := range rows {
		tds := findAll(row, func(n *html.Node) bool { return isElement(n, "td") })
		if len(tds) < 3 {
			continue
		}

		// First cell is the row number; name and account info follow.
		link := findFirst(tds[1], func(n *html.Node) bool { return isElement(n, "a") })
		if link == nil {
			continue
		}

		detail := attrVal(link, "href")
		if strings.HasPrefix(detail, "/") {
			detail = "https://scam.vn" + detail
		}
		rec := scamcheck.SourceRecord{
			Name:       nodeText(link),
			DetailLink: detail,
		}

		if accountDiv := findFirst(tds[2], tagClass("div", "sotaikhoan")); accountDiv != nil {
			for _, span := range findAll(accountDiv, tagClass("span", "hidden-info")) {
				if attrVal(span, "data-type") == "tknganhang" {
					rec.BankAccount = attrVal(span, "data-value")
				}
			}
		}
		if bankDiv := findFirst(tds[2], tagClass("div", "tennganhang")); bankDiv != nil {
			if badge := findFirst(bankDiv, tagClass("span", "badge")); badge != nil {
				rec.BankName = nodeText(badge)
			}
		}
		records = append(records, rec)
	}

	return strconv.Itoa(len(records)), records
}
