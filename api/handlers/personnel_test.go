package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

var listPersonnelTestCases = []testCase{
	{
		name:             "NoFilters",
		queryParams:      map[string]string{},
		expectedStatus:   http.StatusOK,
		expectedDataSize: 4,
		expectedHeaders:  map[string]string{HeaderPaginationTotalCount: "4"},
	},
	{
		name:             "NameSubstringCaseInsensitive",
		queryParams:      map[string]string{"name": "王"},
		expectedStatus:   http.StatusOK,
		expectedDataSize: 2,
		expectedHeaders:  map[string]string{HeaderPaginationTotalCount: "2"},
	},
	{
		name:             "CityExactMatch",
		queryParams:      map[string]string{"city": "台北"},
		expectedStatus:   http.StatusOK,
		expectedDataSize: 2,
	},
	{
		name:             "CitySubstringDoesNotMatch",
		queryParams:      map[string]string{"city": "台"},
		expectedStatus:   http.StatusOK,
		expectedDataSize: 0,
		expectedHeaders:  map[string]string{HeaderPaginationTotalCount: "0"},
	},
	{
		name:             "HospitalSubstring",
		queryParams:      map[string]string{"hospital": "醫院"},
		expectedStatus:   http.StatusOK,
		expectedDataSize: 3,
	},
	{
		name:             "UniversityFilter",
		queryParams:      map[string]string{"university": "台灣大學"},
		expectedStatus:   http.StatusOK,
		expectedDataSize: 2,
	},
	{
		name:             "CombinedFilters",
		queryParams:      map[string]string{"city": "台北", "department": "牙科"},
		expectedStatus:   http.StatusOK,
		expectedDataSize: 1,
		expectedBody:     []string{"王小明"},
	},
	{
		name:             "SkipAndLimit",
		queryParams:      map[string]string{"skip": "1", "limit": "2"},
		expectedStatus:   http.StatusOK,
		expectedDataSize: 2,
		expectedHeaders:  map[string]string{HeaderPaginationTotalCount: "4"},
	},
	{
		name:           "NegativeSkip",
		queryParams:    map[string]string{"skip": "-1"},
		expectedStatus: http.StatusNotAcceptable,
	},
	{
		name:           "LimitTooLarge",
		queryParams:    map[string]string{"limit": "501"},
		expectedStatus: http.StatusNotAcceptable,
	},
	{
		name:             "LimitAtMaximum",
		queryParams:      map[string]string{"limit": "500"},
		expectedStatus:   http.StatusOK,
		expectedDataSize: 4,
		expectedHeaders:  map[string]string{HeaderPaginationTotalCount: "4"},
	},
	{
		name:           "FilterWithControlCharacter",
		queryParams:    map[string]string{"name": "王\x00"},
		expectedStatus: http.StatusNotAcceptable,
	},
}

func TestListPersonnel(t *testing.T) {
	assert := require.New(t)
	router, _ := setupTestServer(t, assert, testPeople)

	for _, tc := range listPersonnelTestCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := require.New(t)

			recorder := doRequest(t, router, http.MethodGet, "/api/personnel", tc.queryParams)
			assert.Equal(tc.expectedStatus, recorder.Code)

			if tc.expectedStatus == http.StatusOK {
				assert.Len(decodeDataSlice(t, recorder.Body.Bytes()), tc.expectedDataSize)
			}
			for _, expected := range tc.expectedBody {
				assert.Contains(recorder.Body.String(), expected)
			}
			for _, unexpected := range tc.unexpectedBody {
				assert.NotContains(recorder.Body.String(), unexpected)
			}
			for header, value := range tc.expectedHeaders {
				assert.Equal(value, recorder.Header().Get(header))
			}
		})
	}
}

func TestGetPersonnelByID(t *testing.T) {
	assert := require.New(t)
	router, _ := setupTestServer(t, assert, testPeople)

	recorder := doRequest(t, router, http.MethodGet, "/api/personnel/1", nil)
	assert.Equal(http.StatusOK, recorder.Code)
	assert.Contains(recorder.Body.String(), "王小明")
	assert.Contains(recorder.Body.String(), "台大醫院")
}

func TestGetPersonnelByIDNotFound(t *testing.T) {
	assert := require.New(t)
	router, _ := setupTestServer(t, assert, testPeople)

	recorder := doRequest(t, router, http.MethodGet, "/api/personnel/999", nil)
	assert.Equal(http.StatusNotFound, recorder.Code)
}

func TestGetPersonnelByIDNotAnInteger(t *testing.T) {
	assert := require.New(t)
	router, _ := setupTestServer(t, assert, testPeople)

	recorder := doRequest(t, router, http.MethodGet, "/api/personnel/abc", nil)
	assert.Equal(http.StatusUnprocessableEntity, recorder.Code)
}

func TestDistinctCities(t *testing.T) {
	assert := require.New(t)
	router, _ := setupTestServer(t, assert, testPeople)

	recorder := doRequest(t, router, http.MethodGet, "/api/personnel/cities", nil)
	assert.Equal(http.StatusOK, recorder.Code)
	assert.Len(decodeDataSlice(t, recorder.Body.Bytes()), 3)
}

func TestDistinctDepartmentsExcludeEmpty(t *testing.T) {
	assert := require.New(t)
	router, _ := setupTestServer(t, assert, testPeople)

	recorder := doRequest(t, router, http.MethodGet, "/api/personnel/departments", nil)
	assert.Equal(http.StatusOK, recorder.Code)
	// 林志明 has no department; only 牙科 and 小兒科 remain
	assert.Len(decodeDataSlice(t, recorder.Body.Bytes()), 2)
}

func TestDistinctUniversitiesExcludeEmpty(t *testing.T) {
	assert := require.New(t)
	router, _ := setupTestServer(t, assert, testPeople)

	recorder := doRequest(t, router, http.MethodGet, "/api/personnel/universities", nil)
	assert.Equal(http.StatusOK, recorder.Code)
	assert.Len(decodeDataSlice(t, recorder.Body.Bytes()), 2)
}
