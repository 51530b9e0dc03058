package httpapi

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/joelkehle/homeassess/internal/homeassess"
	"github.com/joelkehle/homeassess/internal/report"
)

const testImage = "data:image/jpeg;base64,/9j/4AAQ"

const gatewayReply = `{
	"detectedHazards": [{"imageId": "img-1", "category": "fall_risk", "description": "Loose rug", "severity": 4, "location": {"room": "hallway"}}],
	"recommendations": [
		{"category": "grab_bars", "description": "Grab bars", "priority": 4, "estimatedCost": {"total": 1500}},
		{"category": "lighting", "description": "Motion lights", "priority": 3, "estimatedCost": {"total": 2500}}
	],
	"summary": {"overallSafetyScore": 61}
}`

type fakeGateway struct {
	text string
	err  error
}

func (f *fakeGateway) Generate(context.Context, homeassess.GenerateRequest) (string, error) {
	return f.text, f.err
}

type fakePDF struct {
	title    string
	markdown string
	err      error
}

func (f *fakePDF) Render(_ context.Context, title, markdown string) ([]byte, error) {
	f.title, f.markdown = title, markdown
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.7 fake"), nil
}

type fakeSender struct {
	to  []string
	got report.Email
	err error
}

func (f *fakeSender) Send(_ context.Context, to []string, e report.Email) (string, error) {
	f.to, f.got = to, e
	return "msg-123", f.err
}

type testDeps struct {
	gateway homeassess.Gateway
	pdf     report.PDFRenderer
	email   report.EmailSender
}

func newServerForTest(d testDeps) http.Handler {
	s := newServer(Options{
		Analyzer: homeassess.NewAnalyzer(d.gateway, nil, nil),
		PDF:      d.pdf,
		Email:    d.email,
	})
	s.now = func() time.Time { return time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC) }
	return s.routes()
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	blob, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(blob))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
	return out
}

func TestAssessRequiresImages(t *testing.T) {
	h := newServerForTest(testDeps{gateway: &fakeGateway{text: gatewayReply}})
	rr := postJSON(t, h, "/api/assess", map[string]any{"assessmentContext": map[string]any{"programType": "OAHMP"}})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if got := decode(t, rr)["error"]; got != msgNoImages {
		t.Fatalf("unexpected error %v", got)
	}
}

func TestAssessWithoutGateway(t *testing.T) {
	h := newServerForTest(testDeps{})
	rr := postJSON(t, h, "/api/assess", map[string]any{"images": []map[string]any{{"id": "img-1", "url": testImage}}})
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if got := decode(t, rr)["error"]; got != msgNotConfigured {
		t.Fatalf("unexpected error %v", got)
	}
}

func TestAssessRejectsUnknownProgram(t *testing.T) {
	h := newServerForTest(testDeps{gateway: &fakeGateway{text: gatewayReply}})
	rr := postJSON(t, h, "/api/assess", map[string]any{
		"images":            []map[string]any{{"url": testImage}},
		"assessmentContext": map[string]any{"programType": "HOA"},
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestAssessRejectsOutOfRangeDifficulty(t *testing.T) {
	gw := &fakeGateway{text: gatewayReply}
	h := newServerForTest(testDeps{gateway: gw})
	rr := postJSON(t, h, "/api/assess", map[string]any{
		"images": []map[string]any{{"url": testImage}},
		"fullAssessment": map[string]any{
			"adlAssessment": map[string]any{
				"bathing": map[string]any{"difficultyLevel": 9},
				"eating":  map[string]any{"difficultyLevel": -3},
			},
		},
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rr.Code, rr.Body.String())
	}
	if got, _ := decode(t, rr)["error"].(string); !strings.Contains(got, "difficulty level 9") {
		t.Fatalf("expected range message, got %q", got)
	}
}

func TestAssessReturnsEnrichedOutput(t *testing.T) {
	h := newServerForTest(testDeps{gateway: &fakeGateway{text: gatewayReply}})
	rr := postJSON(t, h, "/api/assess", map[string]any{
		"images":            []map[string]any{{"id": "img-1", "url": testImage, "room": "hallway"}},
		"assessmentContext": map[string]any{"programType": "OAHMP"},
		"fullAssessment": map[string]any{
			"adlAssessment": map[string]any{"bathing": map[string]any{"difficultyLevel": 3}},
		},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var out homeassess.AssessmentOutput
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Summary.CriticalIssuesCount != 1 {
		t.Fatalf("expected 1 critical issue, got %d", out.Summary.CriticalIssuesCount)
	}
	if out.DetectedHazards[0].ID != "hazard-1" || out.Recommendations[1].ID != "rec-2" {
		t.Fatalf("expected fallback ids, got %q %q", out.DetectedHazards[0].ID, out.Recommendations[1].ID)
	}
	if out.ADL == nil || out.ADL.TotalScore != 3 {
		t.Fatalf("expected ADL copied from request with recomputed score, got %+v", out.ADL)
	}
	for _, l := range out.Limitations {
		if strings.Contains(l, "exceed program budget cap") {
			t.Fatalf("unexpected budget notice: %s", l)
		}
	}
}

func TestAssessGatewayFailure(t *testing.T) {
	h := newServerForTest(testDeps{gateway: &fakeGateway{err: errors.New("upstream unavailable")}})
	rr := postJSON(t, h, "/api/assess", map[string]any{"images": []map[string]any{{"url": testImage}}})
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if got, _ := decode(t, rr)["error"].(string); !strings.Contains(got, "upstream unavailable") {
		t.Fatalf("expected gateway message, got %q", got)
	}
}

func TestAssessMalformedModelReply(t *testing.T) {
	h := newServerForTest(testDeps{gateway: &fakeGateway{text: "I could not analyze these images."}})
	rr := postJSON(t, h, "/api/assess", map[string]any{"images": []map[string]any{{"url": testImage}}})
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
}

func TestReportRequiresAssessment(t *testing.T) {
	h := newServerForTest(testDeps{pdf: &fakePDF{}})
	rr := postJSON(t, h, "/api/assessments/federal/report", map[string]any{"clientInfo": map[string]any{"name": "Jane"}})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	body := decode(t, rr)
	if body["success"] != false || body["error"] != msgNoAssessment {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestReportPDFAttachment(t *testing.T) {
	pdf := &fakePDF{}
	h := newServerForTest(testDeps{pdf: pdf})
	rr := postJSON(t, h, "/api/assessments/federal/report", map[string]any{
		"assessment":     map[string]any{"summary": map[string]any{"overallSafetyScore": 72}},
		"clientInfo":     map[string]any{"name": "Mary Johnson", "address": "456 Oak Lane"},
		"assessmentDate": "2025-01-05",
		"caseNumber":     "CT-2025-001",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if cd := rr.Header().Get("Content-Disposition"); cd != `attachment; filename="HomeAssessment_Mary_Johnson_2025-01-05.pdf"` {
		t.Fatalf("unexpected disposition %q", cd)
	}
	if !strings.Contains(pdf.markdown, "- Case Number: CT-2025-001") || !strings.Contains(pdf.markdown, "January 5, 2025") {
		t.Fatalf("report metadata missing from markdown: %s", pdf.markdown)
	}
	if pdf.title != "Home Safety Assessment - Mary Johnson" {
		t.Fatalf("unexpected title %q", pdf.title)
	}
}

func TestReportBufferFormat(t *testing.T) {
	h := newServerForTest(testDeps{pdf: &fakePDF{}})
	rr := postJSON(t, h, "/api/assessments/federal/report", map[string]any{
		"assessment": map[string]any{},
		"format":     "buffer",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var body struct {
		Success bool          `json:"success"`
		Data    bufferPayload `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	raw, err := base64.StdEncoding.DecodeString(body.Data.Base64)
	if err != nil || string(raw) != "%PDF-1.7 fake" {
		t.Fatalf("unexpected pdf payload %q (%v)", raw, err)
	}
	if body.Data.MIMEType != "application/pdf" || body.Data.Filename != "HomeAssessment_Assessment_2026-03-14.pdf" {
		t.Fatalf("unexpected payload %+v", body.Data)
	}
}

func TestReportRenderFailure(t *testing.T) {
	h := newServerForTest(testDeps{pdf: &fakePDF{err: &report.RenderError{Format: "pdf", Err: errors.New("chrome crashed")}}})
	rr := postJSON(t, h, "/api/assessments/federal/report", map[string]any{"assessment": map[string]any{}})
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if body := decode(t, rr); body["success"] != false {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestReportInvalidDate(t *testing.T) {
	h := newServerForTest(testDeps{pdf: &fakePDF{}})
	rr := postJSON(t, h, "/api/assessments/federal/report", map[string]any{"assessment": map[string]any{}, "assessmentDate": "last tuesday"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestCompleteValidation(t *testing.T) {
	h := newServerForTest(testDeps{gateway: &fakeGateway{text: gatewayReply}, pdf: &fakePDF{}})

	rr := postJSON(t, h, "/api/assessments/federal/complete", map[string]any{"client": map[string]any{"name": "Mary"}})
	if rr.Code != http.StatusBadRequest || decode(t, rr)["error"] != msgNoImages {
		t.Fatalf("expected missing images rejection, got %d %s", rr.Code, rr.Body.String())
	}

	rr = postJSON(t, h, "/api/assessments/federal/complete", map[string]any{"images": []map[string]any{{"url": testImage}}})
	if rr.Code != http.StatusBadRequest || decode(t, rr)["error"] != msgNoClientName {
		t.Fatalf("expected missing client rejection, got %d %s", rr.Code, rr.Body.String())
	}
}

func TestCompletePipeline(t *testing.T) {
	pdf := &fakePDF{}
	h := newServerForTest(testDeps{gateway: &fakeGateway{text: gatewayReply}, pdf: pdf})
	rr := postJSON(t, h, "/api/assessments/federal/complete", map[string]any{
		"images": []map[string]any{{"id": "img-1", "url": testImage, "room": "bathroom"}},
		"client": map[string]any{"name": "Mary Johnson", "age": 74, "recentFalls": true},
		"config": map[string]any{"programType": "OAHMP"},
		"report": map[string]any{"organizationName": "Central Texas AAA"},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var body struct {
		Success bool         `json:"success"`
		Data    completeData `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	md := body.Data.Metadata
	if !body.Success || md.ImageCount != 1 || md.HazardsFound != 1 || md.RecommendationsCount != 2 {
		t.Fatalf("unexpected metadata %+v", md)
	}
	if md.TotalCost != 4000 || !md.WithinBudget {
		t.Fatalf("expected $4000 within the default $5000 cap, got %+v", md)
	}
	if md.EstimatedCost != (homeassess.CostRange{Low: 3200, High: 4800}) {
		t.Fatalf("unexpected estimated cost %+v", md.EstimatedCost)
	}
	if !strings.HasPrefix(md.AssessmentID, "assess-") {
		t.Fatalf("unexpected id %q", md.AssessmentID)
	}
	if body.Data.PDF == nil || body.Data.PDF.Filename != "HomeAssessment_Mary_Johnson_2026-03-14.pdf" {
		t.Fatalf("unexpected pdf %+v", body.Data.PDF)
	}
	if !strings.Contains(pdf.markdown, "Prepared by Central Texas AAA") {
		t.Fatal("organization name missing from report")
	}
}

func TestCompleteWithoutPDF(t *testing.T) {
	h := newServerForTest(testDeps{gateway: &fakeGateway{text: gatewayReply}})
	rr := postJSON(t, h, "/api/assessments/federal/complete", map[string]any{
		"images": []map[string]any{{"url": testImage}},
		"client": map[string]any{"name": "Mary"},
		"report": map[string]any{"generatePdf": false},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	data := decode(t, rr)["data"].(map[string]any)
	if _, ok := data["pdf"]; ok {
		t.Fatal("expected no pdf when generatePdf=false")
	}
}

func TestCompleteOverBudget(t *testing.T) {
	h := newServerForTest(testDeps{gateway: &fakeGateway{text: gatewayReply}})
	rr := postJSON(t, h, "/api/assessments/federal/complete", map[string]any{
		"images": []map[string]any{{"url": testImage}},
		"client": map[string]any{"name": "Mary"},
		"config": map[string]any{"programType": "cdbg", "budgetCap": 3000},
		"report": map[string]any{"generatePdf": false},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var body struct {
		Data completeData `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.Metadata.WithinBudget {
		t.Fatal("expected over budget")
	}
	want := "Total recommended modifications ($4000) exceed program budget cap ($3000). Prioritization required."
	found := false
	for _, l := range body.Data.Assessment.Limitations {
		found = found || l == want
	}
	if !found {
		t.Fatalf("budget notice missing from %v", body.Data.Assessment.Limitations)
	}
}

func TestExportXLSX(t *testing.T) {
	h := newServerForTest(testDeps{})
	rr := postJSON(t, h, "/api/assessments/federal/export/xlsx", map[string]any{
		"assessment":     map[string]any{},
		"clientInfo":     map[string]any{"name": "Jane Doe"},
		"assessmentDate": "2026-02-01T09:30:00Z",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != report.XLSXMimeType {
		t.Fatalf("unexpected content type %q", ct)
	}
	if cd := rr.Header().Get("Content-Disposition"); !strings.Contains(cd, "HomeAssessment_Jane_Doe_2026-02-01.xlsx") {
		t.Fatalf("unexpected disposition %q", cd)
	}
	// xlsx files are zip archives.
	if !bytes.HasPrefix(rr.Body.Bytes(), []byte("PK")) {
		t.Fatal("expected zip payload")
	}
}

func TestExportEmailPreviewOnly(t *testing.T) {
	h := newServerForTest(testDeps{})
	rr := postJSON(t, h, "/api/assessments/federal/export/email", map[string]any{
		"assessment": map[string]any{},
		"clientInfo": map[string]any{"name": "Jane Doe"},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	data := decode(t, rr)["data"].(map[string]any)
	if data["subject"] != "Home Safety Assessment Report - Jane Doe" || data["sent"] != false {
		t.Fatalf("unexpected data %v", data)
	}
	if !strings.HasPrefix(data["mailto"].(string), "mailto:?subject=") {
		t.Fatalf("unexpected mailto %v", data["mailto"])
	}
}

func TestExportEmailSend(t *testing.T) {
	sender := &fakeSender{}
	h := newServerForTest(testDeps{email: sender})
	rr := postJSON(t, h, "/api/assessments/federal/export/email", map[string]any{
		"assessment": map[string]any{},
		"to":         []string{" caseworker@example.org ", ""},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	data := decode(t, rr)["data"].(map[string]any)
	if data["sent"] != true || data["messageId"] != "msg-123" {
		t.Fatalf("unexpected data %v", data)
	}
	if len(sender.to) != 1 || sender.to[0] != "caseworker@example.org" {
		t.Fatalf("unexpected recipients %v", sender.to)
	}
}

func TestExportEmailSendWithoutSender(t *testing.T) {
	h := newServerForTest(testDeps{})
	rr := postJSON(t, h, "/api/assessments/federal/export/email", map[string]any{
		"assessment": map[string]any{},
		"to":         []string{"caseworker@example.org"},
	})
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
}
