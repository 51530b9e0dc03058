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

func (s *Server) handleAssess(w http.ResponseWriter, r *http.Request) {
	if !postOrDocs(w, r, assessDocs) {
		return
	}
	var ws intake.WizardState
	if err := decodeBody(r, &ws); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}
	if len(ws.Images) == 0 {
		writeError(w, http.StatusBadRequest, msgNoImages)
		return
	}
	if !s.analyzer.Configured() {
		writeError(w, http.StatusInternalServerError, msgNotConfigured)
		return
	}
	in, err := intake.BuildAssessmentInput(ws)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	s.logger.Info("processing assessment",
		zap.Int("images", len(in.Images)),
		zap.Bool("adl", in.FullAssessment != nil && in.FullAssessment.ADLAssessment != nil),
		zap.Bool("iadl", in.FullAssessment != nil && in.FullAssessment.IADLAssessment != nil),
		zap.Bool("mobility", in.FullAssessment != nil && in.FullAssessment.MobilityAssessment != nil),
		zap.Bool("falls_risk", in.FullAssessment != nil && in.FullAssessment.FallsRiskAssessment != nil),
	)
	out, err := s.analyzer.Analyze(r.Context(), in)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, out)
}

type completeRequest struct {
	Images []intake.ImageRef `json:"images"`
	Client *struct {
		Name              string   `json:"name"`
		Address           string   `json:"address"`
		Age               *int     `json:"age"`
		LivesAlone        *bool    `json:"livesAlone"`
		MobilityAids      []string `json:"mobilityAids"`
		RecentFalls       *bool    `json:"recentFalls"`
		PrimaryConcerns   []string `json:"primaryConcerns"`
		MedicalConditions []string `json:"medicalConditions"`
	} `json:"client"`
	Property *intake.PropertyInfo      `json:"property"`
	Config   *intake.AssessmentContext `json:"config"`
	Report   *struct {
		AssessorName     string `json:"assessorName"`
		OrganizationName string `json:"organizationName"`
		CaseNumber       string `json:"caseNumber"`
		GeneratePDF      *bool  `json:"generatePdf"`
	} `json:"report"`
}

type pdfPayload struct {
	Base64   string `json:"base64"`
	Filename string `json:"filename"`
}

type completeData struct {
	Assessment homeassess.AssessmentOutput `json:"assessment"`
	PDF        *pdfPayload                 `json:"pdf,omitempty"`
	Metadata   homeassess.Metadata         `json:"metadata"`
}

func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	if !postOrDocs(w, r, completeDocs) {
		return
	}
	start := s.now()
	var req completeRequest
	if err := decodeBody(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}
	if len(req.Images) == 0 {
		writeFailure(w, http.StatusBadRequest, msgNoImages)
		return
	}
	if req.Client == nil || strings.TrimSpace(req.Client.Name) == "" {
		writeFailure(w, http.StatusBadRequest, msgNoClientName)
		return
	}
	if !s.analyzer.Configured() {
		writeFailure(w, http.StatusInternalServerError, msgNotConfigured)
		return
	}
	generatePDF := req.Report == nil || req.Report.GeneratePDF == nil || *req.Report.GeneratePDF
	if generatePDF && s.pdf == nil {
		writeFailure(w, http.StatusServiceUnavailable, msgPDFUnavailable)
		return
	}

	ws := intake.WizardState{
		Images: req.Images,
		SelfReportedInfo: &intake.SelfReportedInfo{
			Name:                     req.Client.Name,
			Address:                  req.Client.Address,
			Age:                      req.Client.Age,
			LivesAlone:               req.Client.LivesAlone,
			MobilityAids:             req.Client.MobilityAids,
			RecentFalls:              req.Client.RecentFalls,
			PrimaryConcerns:          req.Client.PrimaryConcerns,
			CurrentMedicalConditions: req.Client.MedicalConditions,
		},
		PropertyInfo: req.Property,
	}
	if req.Config != nil {
		ws.AssessmentContext = *req.Config
	}
	in, err := intake.BuildAssessmentInput(ws)
	if err != nil {
		writeFailure(w, statusFor(err), err.Error())
		return
	}

	s.logger.Info("starting complete assessment", zap.String("client", req.Client.Name), zap.Int("images", len(in.Images)))
	res, err := s.analyzer.Complete(r.Context(), in)
	if err != nil {
		writeFailure(w, statusFor(err), err.Error())
		return
	}

	data := completeData{Assessment: res.Assessment, Metadata: res.Metadata}
	if generatePDF {
		meta := report.Meta{
			ClientName:     req.Client.Name,
			ClientAddress:  req.Client.Address,
			AssessmentDate: s.now(),
			ProgramType:    in.AssessmentContext.ProgramType,
			BudgetCap:      in.AssessmentContext.BudgetCap,
		}
		if req.Report != nil {
			meta.AssessorName = req.Report.AssessorName
			meta.OrganizationName = req.Report.OrganizationName
			meta.CaseNumber = req.Report.CaseNumber
		}
		meta = meta.WithDefaults(s.now())
		pdf, err := s.pdf.Render(r.Context(), reportTitle(meta), report.BuildMarkdown(res.Assessment, meta))
		if err != nil {
			s.logger.Error("render complete assessment pdf failed", zap.String("assessment_id", res.Metadata.AssessmentID), zap.Error(err))
			writeFailure(w, http.StatusInternalServerError, err.Error())
			return
		}
		data.PDF = &pdfPayload{
			Base64:   base64.StdEncoding.EncodeToString(pdf),
			Filename: report.Filename(req.Client.Name, meta.AssessmentDate, "pdf"),
		}
		s.logger.Info("pdf generated", zap.String("assessment_id", res.Metadata.AssessmentID), zap.Int("bytes", len(pdf)))
	}

	// Processing time covers the whole request, PDF included.
	data.Metadata.ProcessingTimeMs = s.now().Sub(start).Milliseconds()
	s.logger.Info("complete assessment finished",
		zap.String("assessment_id", res.Metadata.AssessmentID),
		zap.Int64("processing_ms", data.Metadata.ProcessingTimeMs),
		zap.Float64("total_cost", res.Metadata.TotalCost),
		zap.Bool("within_budget", res.Metadata.WithinBudget),
	)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": data})
}

func reportTitle(meta report.Meta) string {
	return "Home Safety Assessment - " + meta.ClientName
}
