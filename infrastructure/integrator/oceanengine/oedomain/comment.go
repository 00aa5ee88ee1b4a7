package oedomain

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Comment list ordering and filter values.
const (
	CommentOrderFieldCreateTime = "CREATE_TIME"
	CommentOrderDesc            = "DESC"

	CommentHideFilterNotHidden = "NOT_HIDE"
	CommentHideFilterHidden    = "HIDE"
	CommentHideFilterAll       = "ALL"
)

// FlexString decodes a field the platform serializes sometimes as a string
// and sometimes as a number.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*f = ""
		return nil
	}
	if len(s) >= 2 && s[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*f = FlexString(v)
		return nil
	}
	*f = FlexString(s)
	return nil
}

func (f FlexString) String() string { return string(f) }

// Int64 is a best-effort integer cast, tolerating values like "123.0".
// Returns 0, false for empty or non-integer input.
func (f FlexString) Int64() (int64, bool) {
	s := strings.TrimSpace(string(f))
	if s == "" {
		return 0, false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil && v == float64(int64(v)) {
		return int64(v), true
	}
	return 0, false
}

// Comment is one comment row from the comment list endpoint.
type Comment struct {
	CommentID  FlexString `json:"comment_id"`
	Text       string     `json:"text"`
	Content    string     `json:"content"`
	CreateTime FlexString `json:"create_time"`

	EmotionType string `json:"emotion_type"`
	HideStatus  string `json:"hide_status"`
	LevelType   string `json:"level_type"`

	IsReplied  *bool    `json:"is_replied"`
	ReplyCount *float64 `json:"reply_count"`
	LikeCount  *float64 `json:"like_count"`

	UserID     FlexString `json:"user_id"`
	AuthorID   FlexString `json:"author_id"`
	UserName   string     `json:"user_name"`
	AuthorName string     `json:"author_name"`

	AwemeID    FlexString `json:"aweme_id"`
	AwemeName  string     `json:"aweme_name"`
	AdID       FlexString `json:"ad_id"`
	AdName     string     `json:"ad_name"`
	CreativeID FlexString `json:"creative_id"`
	ItemID     FlexString `json:"item_id"`
	ItemTitle  string     `json:"item_title"`

	Raw json.RawMessage `json:"-"`
}

// EffectiveText tolerates the two body field names the endpoint has used.
func (c Comment) EffectiveText() string {
	if c.Text != "" {
		return c.Text
	}
	return c.Content
}

// ParseCreateTime interprets create_time, which arrives either as epoch
// seconds or as "2006-01-02 15:04:05" in the given location. Returns nil
// when the value is absent or unparseable.
func (c Comment) ParseCreateTime(loc *time.Location) *time.Time {
	s := strings.TrimSpace(string(c.CreateTime))
	if s == "" {
		return nil
	}
	if epoch, err := strconv.ParseInt(s, 10, 64); err == nil {
		t := time.Unix(epoch, 0).In(loc)
		return &t
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04:05", s, loc); err == nil {
		return &t
	}
	return nil
}

// CommentPage is the payload of one comment list page.
type CommentPage struct {
	CommentList []json.RawMessage `json:"comment_list"`
	PageInfo    *PageInfo         `json:"page_info"`
}

// HideResult is the payload of the comment hide endpoint. Only a success id
// list is documented; ids missing from it are treated as failed.
type HideResult struct {
	SuccessCommentIDs []FlexString    `json:"success_comment_ids"`
	RequestID         string          `json:"-"`
	Raw               json.RawMessage `json:"-"`
}

// SuccessIDs returns the numeric success ids.
func (h HideResult) SuccessIDs() []int64 {
	out := make([]int64, 0, len(h.SuccessCommentIDs))
	for _, s := range h.SuccessCommentIDs {
		if n, ok := s.Int64(); ok {
			out = append(out, n)
		}
	}
	return out
}
