package search

import "strings"

type SearchType string

const (
	SearchTypeName       SearchType = "name"
	SearchTypeHospital   SearchType = "hospital"
	SearchTypeDepartment SearchType = "department"
)

const hospitalMarker = "@醫院 "
const departmentMarker = "@科別 "

// cities recognized as a leading filter on a query. Order is the tie-break:
// the first matching prefix wins.
var cities = []string{
	"南投", "台中", "台北", "台南", "台東", "嘉義", "基隆",
	"宜蘭", "屏東", "彰化", "新北", "新竹", "桃園", "花蓮",
	"苗栗", "雲林", "高雄",
}

// Criteria is the structured interpretation of a free-text query. City is
// empty when no city filter applies.
type Criteria struct {
	SearchType SearchType `json:"search_type"`
	SearchTerm string     `json:"search_term"`
	City       string     `json:"city"`
}

// ParseCriteria interprets a raw chat message. Supported shapes:
//
//	[城市]@醫院 醫院名稱   e.g. 台北@醫院 台大醫院
//	[城市]@科別 科別名稱   e.g. 台北@科別 小兒科
//	[城市]醫師名稱        e.g. 台北王大明
//
// It never fails; an empty term is legal and matches every record of the
// selected filter class.
func ParseCriteria(message string) Criteria {
	criteria := Criteria{
		SearchType: SearchTypeName,
		SearchTerm: strings.TrimSpace(message),
	}

	for _, city := range cities {
		if strings.HasPrefix(criteria.SearchTerm, city) {
			criteria.City = city
			criteria.SearchTerm = strings.TrimSpace(strings.TrimPrefix(criteria.SearchTerm, city))
			break
		}
	}

	switch {
	case strings.HasPrefix(criteria.SearchTerm, hospitalMarker):
		criteria.SearchType = SearchTypeHospital
		criteria.SearchTerm = strings.TrimSpace(strings.TrimPrefix(criteria.SearchTerm, hospitalMarker))
	case strings.HasPrefix(criteria.SearchTerm, departmentMarker):
		criteria.SearchType = SearchTypeDepartment
		criteria.SearchTerm = strings.TrimSpace(strings.TrimPrefix(criteria.SearchTerm, departmentMarker))
	}

	return criteria
}
