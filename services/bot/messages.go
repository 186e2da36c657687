package bot

import (
	"encoding/json"
	"fmt"

	"github.com/chiehyu/popodoc/db/persondb"
	"github.com/chiehyu/popodoc/services/search"
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

var searchTypeLabels = map[search.SearchType]string{
	search.SearchTypeName:       "醫師",
	search.SearchTypeHospital:   "醫院",
	search.SearchTypeDepartment: "科別",
}

// composeSearchReply orders the outbound parts: summary text, result list,
// then the next-page control when more pages exist.
func composeSearchReply(criteria search.Criteria, people []persondb.Person, stats search.Stats) ([]messaging_api.MessageInterface, error) {
	resultList, err := personnelFlexMessage(people)
	if err != nil {
		return nil, err
	}

	messages := []messaging_api.MessageInterface{
		messaging_api.TextMessage{Text: searchSummary(criteria, stats)},
		resultList,
	}

	if stats.HasMore {
		nextPage, err := nextPageFlexMessage(stats.CurrentPage * search.PageSize)
		if err != nil {
			return nil, err
		}
		messages = append(messages, nextPage)
	}

	return messages, nil
}

func searchSummary(criteria search.Criteria, stats search.Stats) string {
	locationText := "全台"
	if criteria.City != "" {
		locationText = "在" + criteria.City
	}

	rangeStart := stats.CurrentPage*search.PageSize - (search.PageSize - 1)
	rangeEnd := min(int64(stats.CurrentPage*search.PageSize), stats.TotalCount)

	return fmt.Sprintf("查詢%s%s「%s」\n共有 %d 筆符合的結果\n目前顯示第 %d - %d 筆",
		locationText, searchTypeLabels[criteria.SearchType], criteria.SearchTerm,
		stats.TotalCount, rangeStart, rangeEnd)
}

func personnelFlexMessage(people []persondb.Person) (messaging_api.FlexMessage, error) {
	if len(people) == 0 {
		return flexMessage("找不到相關資料", noResultsBubble())
	}

	bubbles := make([]map[string]any, 0, len(people))
	for _, person := range people {
		bubbles = append(bubbles, personBubble(person))
	}

	return flexMessage(
		fmt.Sprintf("找到 %d 筆相關資料", len(people)),
		map[string]any{"type": "carousel", "contents": bubbles},
	)
}

func personBubble(person persondb.Person) map[string]any {
	return map[string]any{
		"type": "bubble",
		"header": map[string]any{
			"type":   "box",
			"layout": "vertical",
			"contents": []map[string]any{
				{
					"type":   "text",
					"text":   person.Name,
					"size":   "xl",
					"weight": "bold",
					"color":  "#4A4A4A",
				},
			},
			"backgroundColor": "#F0F8FF",
		},
		"body": map[string]any{
			"type":   "box",
			"layout": "vertical",
			"contents": []map[string]any{
				infoRow("縣市", person.City, false),
				infoRow("醫院", person.Hospital, true),
				infoRow("科別", person.Department, false),
				infoRow("學歷", person.Education, true),
			},
			"backgroundColor": "#FFFFFF",
		},
	}
}

func infoRow(label, value string, wrap bool) map[string]any {
	if value == "" {
		value = "未提供"
	}

	valueText := map[string]any{
		"type":  "text",
		"text":  value,
		"size":  "sm",
		"color": "#4A4A4A",
		"flex":  4,
	}
	if wrap {
		valueText["wrap"] = true
	}

	return map[string]any{
		"type":   "box",
		"layout": "horizontal",
		"contents": []map[string]any{
			{
				"type":  "text",
				"text":  label,
				"size":  "sm",
				"color": "#666666",
				"flex":  2,
			},
			valueText,
		},
		"spacing": "md",
		"margin":  "md",
	}
}

func noResultsBubble() map[string]any {
	return map[string]any{
		"type": "bubble",
		"body": map[string]any{
			"type":   "box",
			"layout": "vertical",
			"contents": []map[string]any{
				{
					"type":   "text",
					"text":   "找不到相關資料",
					"size":   "lg",
					"weight": "bold",
					"align":  "center",
					"color":  "#666666",
				},
			},
		},
	}
}

// nextPageFlexMessage carries the pagination protocol: the postback data
// string must round-trip through LINE unmodified and is decoded verbatim by
// the postback handler.
func nextPageFlexMessage(nextOffset int) (messaging_api.FlexMessage, error) {
	return flexMessage("還有更多結果", map[string]any{
		"type": "bubble",
		"body": map[string]any{
			"type":   "box",
			"layout": "vertical",
			"contents": []map[string]any{
				{
					"type": "button",
					"action": map[string]any{
						"type":        "postback",
						"label":       "下一頁",
						"data":        nextPagePayload(nextOffset),
						"displayText": "下一頁",
					},
					"style": "primary",
				},
			},
		},
	})
}

func nextPagePayload(offset int) string {
	return fmt.Sprintf("action=next_page&offset=%d", offset)
}

func helpFlexMessage() (messaging_api.FlexMessage, error) {
	return flexMessage("使用說明", map[string]any{
		"type": "bubble",
		"body": map[string]any{
			"type":   "box",
			"layout": "vertical",
			"contents": []map[string]any{
				{
					"type":   "text",
					"text":   "波波醫師查詢",
					"size":   "xl",
					"weight": "bold",
					"color":  "#4A4A4A",
				},
				{
					"type":   "text",
					"text":   "輸入醫師姓名、@醫院 醫院名稱或 @科別 科別名稱即可查詢，開頭加上縣市可縮小範圍。",
					"size":   "sm",
					"color":  "#666666",
					"wrap":   true,
					"margin": "md",
				},
				{
					"type":   "text",
					"text":   "範例：台北王小明、台北@醫院 台大醫院、@科別 牙科",
					"size":   "sm",
					"color":  "#666666",
					"wrap":   true,
					"margin": "md",
				},
			},
		},
	})
}

func flexMessage(altText string, contents map[string]any) (messaging_api.FlexMessage, error) {
	raw, err := json.Marshal(contents)
	if err != nil {
		return messaging_api.FlexMessage{}, err
	}

	container, err := messaging_api.UnmarshalFlexContainer(raw)
	if err != nil {
		return messaging_api.FlexMessage{}, err
	}

	return messaging_api.FlexMessage{AltText: altText, Contents: container}, nil
}
