package controllers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/medidetect/medidetect-backend/models"
)

// postReportForm drives CreateReport up to the validation step; no report
// is persisted because validation fails before any DB access.
func postReportForm(t *testing.T, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/reports", &body)
	c.Request.Header.Set("Content-Type", mw.FormDataContentType())
	c.Set("db", (*gorm.DB)(nil))
	c.Set("user_id", uuid.NewString())
	c.Set("role", "user")

	CreateReport(c)
	return w
}

func decodeErrors(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var resp struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Errors
}

func TestCreateReport_AggregatedValidationErrors(t *testing.T) {
	w := postReportForm(t, map[string]string{
		"patient_name": "",
		"age":          "200",
		"input_type":   "symptom",
		"symptoms":     `["Fatigue"]`,
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	errs := decodeErrors(t, w)
	assert.Contains(t, errs, "patient_name")
	assert.Contains(t, errs, "age")
}

func TestCreateReport_BloodWithoutValues(t *testing.T) {
	w := postReportForm(t, map[string]string{
		"patient_name": "John",
		"age":          "40",
		"input_type":   "blood",
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	errs := decodeErrors(t, w)
	assert.Contains(t, errs, "blood_values")
}

func TestCreateReport_MalformedBloodValuesJSON(t *testing.T) {
	w := postReportForm(t, map[string]string{
		"patient_name": "John",
		"age":          "40",
		"input_type":   "blood",
		"blood_values": "{not json",
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	errs := decodeErrors(t, w)
	assert.Contains(t, errs, "blood_values")
}

func TestCreateReport_DecodeErrorDoesNotShortCircuit(t *testing.T) {
	// A malformed blood_values body must not hide the other violations
	w := postReportForm(t, map[string]string{
		"patient_name": "",
		"age":          "200",
		"input_type":   "blood",
		"blood_values": "{not json",
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	errs := decodeErrors(t, w)
	assert.Contains(t, errs, "blood_values")
	assert.Contains(t, errs, "patient_name")
	assert.Contains(t, errs, "age")
}

func TestCreateReport_ImageWithoutFiles(t *testing.T) {
	w := postReportForm(t, map[string]string{
		"patient_name": "John",
		"age":          "40",
		"input_type":   "image",
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	errs := decodeErrors(t, w)
	assert.Contains(t, errs, "files")
}

// accessContext builds a gin context carrying the requester identity the
// report handlers read.
func accessContext(t *testing.T, userID, role string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set("user_id", userID)
	c.Set("role", role)
	return c
}

func TestCanAccessReport_Owner(t *testing.T) {
	owner := uuid.New()
	report := models.Report{ID: uuid.New(), UserID: owner}

	c := accessContext(t, owner.String(), "user")
	assert.True(t, canAccessReport(c, report))
}

func TestCanAccessReport_ForeignUserForbidden(t *testing.T) {
	report := models.Report{ID: uuid.New(), UserID: uuid.New()}

	c := accessContext(t, uuid.NewString(), "user")
	assert.False(t, canAccessReport(c, report),
		"get/delete on another user's report must be forbidden for non-admins")
}

func TestCanAccessReport_AdminSeesEverything(t *testing.T) {
	report := models.Report{ID: uuid.New(), UserID: uuid.New()}

	c := accessContext(t, uuid.NewString(), "admin")
	assert.True(t, canAccessReport(c, report))
}

func TestScopedToOwner(t *testing.T) {
	assert.False(t, scopedToOwner("admin"))
	assert.True(t, scopedToOwner("user"))
	assert.True(t, scopedToOwner(""))
}
