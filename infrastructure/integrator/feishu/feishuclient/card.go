package feishuclient

// Card is a Feishu interactive card. The structure mirrors the card JSON
// schema closely enough that it marshals directly into the webhook payload.
type Card struct {
	Config   CardConfig    `json:"config"`
	Header   CardHeader    `json:"header"`
	Elements []interface{} `json:"elements"`
}

type CardConfig struct {
	WideScreenMode bool `json:"wide_screen_mode"`
}

type CardHeader struct {
	Template string   `json:"template"`
	Title    CardText `json:"title"`
}

type CardText struct {
	Tag       string `json:"tag"`
	Content   string `json:"content"`
	Lines     int    `json:"lines,omitempty"`
	TextAlign string `json:"text_align,omitempty"`
}

type CardDiv struct {
	Tag  string   `json:"tag"`
	Text CardText `json:"text"`
}

type CardHr struct {
	Tag string `json:"tag"`
}

type CardColumn struct {
	Tag             string    `json:"tag"`
	Width           string    `json:"width"`
	Weight          int       `json:"weight"`
	HorizontalAlign string    `json:"horizontal_align"`
	Elements        []CardDiv `json:"elements"`
}

type CardColumnSet struct {
	Tag     string       `json:"tag"`
	Columns []CardColumn `json:"columns"`
}

// ReportRow is one account line in the daily balance report table.
type ReportRow struct {
	Name     string
	Balance  string
	YCost    string
	Cost7d   string
	DaysLeft string
	Ratio    string
}

// Column weights of the report table.
const (
	weightName  = 6
	weightMoney = 3
	weightDays  = 2
	weightRatio = 2
)

func column(content string, weight int, bold bool, align string) CardColumn {
	text := CardText{Tag: "plain_text", Content: content, Lines: 1, TextAlign: align}
	if bold {
		text = CardText{Tag: "lark_md", Content: "**" + content + "**", Lines: 1, TextAlign: align}
	}
	return CardColumn{
		Tag:             "column",
		Width:           "weighted",
		Weight:          weight,
		HorizontalAlign: align,
		Elements:        []CardDiv{{Tag: "div", Text: text}},
	}
}

func row(columns ...CardColumn) CardColumnSet {
	return CardColumnSet{Tag: "column_set", Columns: columns}
}

// BuildDailyBalanceCard renders the daily balance report: a status markdown
// block on top, then a table of per-account balances with numeric columns
// right-aligned. headerTemplate picks the card color (green/orange/red).
func BuildDailyBalanceCard(reportDate, statusMD string, rows []ReportRow, maxRows int, headerTemplate string) *Card {
	switch headerTemplate {
	case "green", "orange", "red":
	default:
		headerTemplate = "green"
	}

	var elements []interface{}

	if statusMD != "" {
		elements = append(elements, CardDiv{Tag: "div", Text: CardText{Tag: "lark_md", Content: statusMD}})
		elements = append(elements, CardHr{Tag: "hr"})
	}

	elements = append(elements, row(
		column("账户", weightName, true, "left"),
		column("余额", weightMoney, true, "right"),
		column("昨日消耗", weightMoney, true, "right"),
		column("7日消耗", weightMoney, true, "right"),
		column("可用天数", weightDays, true, "right"),
		column("倍率", weightRatio, true, "right"),
	))
	elements = append(elements, CardHr{Tag: "hr"})

	if maxRows > 0 && len(rows) > maxRows {
		rows = rows[:maxRows]
	}
	for _, r := range rows {
		elements = append(elements, row(
			column(shortenName(r.Name, 18), weightName, false, "left"),
			column(r.Balance, weightMoney, false, "right"),
			column(r.YCost, weightMoney, false, "right"),
			column(r.Cost7d, weightMoney, false, "right"),
			column(r.DaysLeft, weightDays, false, "right"),
			column(r.Ratio, weightRatio, false, "right"),
		))
	}

	return &Card{
		Config: CardConfig{WideScreenMode: true},
		Header: CardHeader{
			Template: headerTemplate,
			Title:    CardText{Tag: "plain_text", Content: "账户资金日报（" + reportDate + "）"},
		},
		Elements: elements,
	}
}

func shortenName(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-1]) + "…"
}
