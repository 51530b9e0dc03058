package httpapi

import (
	"encoding/base64"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/joelkehle/homeassess/internal/homeassess"
	"github.com/joelkehle/homeassess/internal/intake"
	"github.com/joelkehle/homeassess/internal/report"
)

const formatBuffer = "buffer"

// reportRequest is shared by the PDF, workbook and email exports.
type reportRequest struct {
	Assessment *homeassess.AssessmentOutput `json:"assessment"`
	ClientInfo *struct {
		Name    string `json:"name"`
		Address string `json:"address"`
	} `json:"clientInfo"`
	AssessmentDate   string             `json:"assessmentDate"`
	AssessorName     string             `json:"assessorName"`
	OrganizationName string             `json:"organizationName"`
	ProgramType      intake.ProgramType `json:"programType"`
	CaseNumber       string             `json:"caseNumber"`
	BudgetCap        float64            `json:"budgetCap"`
	Format           string             `json:"format"`
	To               []string           `json:"to"`
}

func (req reportRequest) clientName() string {
	if req.ClientInfo == nil {
		return ""
	}
	return strings.TrimSpace(req.ClientInfo.Name)
}

func (s *Server) meta(req reportRequest) (report.Meta, error) {
	date, err := parseAssessmentDate(req.AssessmentDate)
	if err != nil {
		return report.Meta{}, err
	}
	m := report.Meta{
		AssessmentDate:   date,
		AssessorName:     req.AssessorName,
		OrganizationName: req.OrganizationName,
		ProgramType:      intake.ProgramType(strings.ToUpper(strings.TrimSpace(string(req.ProgramType)))),
		CaseNumber:       req.CaseNumber,
		BudgetCap:        req.BudgetCap,
	}
	if req.ClientInfo != nil {
		m.ClientName = req.ClientInfo.Name
		m.ClientAddress = req.ClientInfo.Address
	}
	return m.WithDefaults(s.now()), nil
}

// decodeReportRequest writes the failure response itself and reports
// whether the handler should continue.
func (s *Server) decodeReportRequest(w http.ResponseWriter, r *http.Request) (reportRequest, report.Meta, bool) {
	var req reportRequest
	if err := decodeBody(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, msgInvalidJSON)
		return req, report.Meta{}, false
	}
	if req.Assessment == nil {
		writeFailure(w, http.StatusBadRequest, msgNoAssessment)
		return req, report.Meta{}, false
	}
	meta, err := s.meta(req)
	if err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return req, report.Meta{}, false
	}
	return req, meta, true
}

type bufferPayload struct {
	Base64   string `json:"base64"`
	MIMEType string `json:"mimeType"`
	Filename string `json:"filename"`
}

func writeDocument(w http.ResponseWriter, format, mimeType, filename string, data []byte) {
	if format == formatBuffer {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data": bufferPayload{
				Base64:   base64.StdEncoding.EncodeToString(data),
				MIMEType: mimeType,
				Filename: filename,
			},
		})
		return
	}
	writeAttachment(w, mimeType, filename, data)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if !postOrDocs(w, r, reportDocs) {
		return
	}
	req, meta, ok := s.decodeReportRequest(w, r)
	if !ok {
		return
	}
	if s.pdf == nil {
		writeFailure(w, http.StatusServiceUnavailable, msgPDFUnavailable)
		return
	}
	pdf, err := s.pdf.Render(r.Context(), reportTitle(meta), report.BuildMarkdown(*req.Assessment, meta))
	if err != nil {
		s.logger.Error("render report pdf failed", zap.String("client", meta.ClientName), zap.Error(err))
		writeFailure(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeDocument(w, req.Format, "application/pdf", report.Filename(req.clientName(), meta.AssessmentDate, "pdf"), pdf)
}

func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	if !postOrDocs(w, r, xlsxDocs) {
		return
	}
	req, meta, ok := s.decodeReportRequest(w, r)
	if !ok {
		return
	}
	data, err := report.BuildWorkbook(*req.Assessment, meta)
	if err != nil {
		s.logger.Error("build workbook failed", zap.String("client", meta.ClientName), zap.Error(err))
		writeFailure(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeDocument(w, req.Format, report.XLSXMimeType, report.Filename(req.clientName(), meta.AssessmentDate, "xlsx"), data)
}

type emailData struct {
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	Mailto    string `json:"mailto"`
	Sent      bool   `json:"sent"`
	MessageID string `json:"messageId,omitempty"`
}

func (s *Server) handleExportEmail(w http.ResponseWriter, r *http.Request) {
	if !postOrDocs(w, r, emailDocs) {
		return
	}
	req, meta, ok := s.decodeReportRequest(w, r)
	if !ok {
		return
	}
	e := report.BuildEmail(*req.Assessment, meta)
	data := emailData{Subject: e.Subject, Body: e.Body, Mailto: report.MailtoURL(e)}

	var to []string
	for _, addr := range req.To {
		if addr = strings.TrimSpace(addr); addr != "" {
			to = append(to, addr)
		}
	}
	if len(to) > 0 {
		if s.email == nil {
			writeFailure(w, http.StatusServiceUnavailable, msgEmailUnavailable)
			return
		}
		id, err := s.email.Send(r.Context(), to, e)
		if err != nil {
			writeFailure(w, http.StatusBadGateway, err.Error())
			return
		}
		data.Sent = true
		data.MessageID = id
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": data})
}
