package httpapi

var imagesDoc = map[string]any{
	"type":        "array",
	"required":    true,
	"description": "Images to analyze",
	"items": map[string]any{
		"id":        "string (optional, defaults to img-{n})",
		"url":       "string (required) - URL or base64 data URI",
		"room":      "string (optional)",
		"userNotes": "string (optional)",
	},
}

var programTypeDoc = "OAHMP | CIL | AAA | CDBG | OTHER (default: OAHMP)"

var reportFieldsDoc = map[string]any{
	"assessment": map[string]any{
		"type":        "AssessmentOutput",
		"required":    true,
		"description": "The assessment returned by /api/assess or /api/assessments/federal/complete",
	},
	"clientInfo": map[string]any{
		"type":     "object",
		"required": false,
		"properties": map[string]any{
			"name":    "string - Client full name",
			"address": "string - Property address",
		},
	},
	"assessmentDate":   "string (ISO date) - Date of assessment",
	"assessorName":     "string - Name of assessor (default: AI-Assisted Assessment)",
	"organizationName": "string - AAA/CIL organization name (default: HOMEase AI)",
	"programType":      programTypeDoc,
	"caseNumber":       "string - Case/reference number",
	"budgetCap":        "number (default: 5000)",
}

func withFields(base map[string]any, extra map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

var assessDocs = map[string]any{
	"endpoint":    "/api/assess",
	"description": "Analyze home images and return the enriched assessment",
	"method":      "POST",
	"requestBody": map[string]any{
		"images": imagesDoc,
		"selfReportedInfo": map[string]any{
			"type":     "object",
			"required": false,
			"properties": map[string]any{
				"age":                      "number (optional)",
				"livesAlone":               "boolean (optional)",
				"mobilityAids":             "string[] (optional)",
				"recentFalls":              "boolean (optional)",
				"primaryConcerns":          "string[] (optional)",
				"currentMedicalConditions": "string[] (optional)",
			},
		},
		"propertyInfo": map[string]any{
			"type":     "object",
			"required": false,
			"properties": map[string]any{
				"type":      "string (optional)",
				"yearBuilt": "number (optional)",
				"stories":   "number (optional)",
			},
		},
		"assessmentContext": map[string]any{
			"type":     "object",
			"required": true,
			"properties": map[string]any{
				"programType":   programTypeDoc,
				"budgetCap":     "number (default: 5000)",
				"priorityAreas": "string[] (optional)",
			},
		},
		"fullAssessment": "object (optional) - ADL, IADL, mobility, falls risk, eligibility, demographics and property sections",
	},
	"responseBody": "AssessmentOutput with hazards, recommendations and summary",
}

var reportDocs = map[string]any{
	"endpoint":    "/api/assessments/federal/report",
	"description": "Generate a HUD OAHMP compliant PDF report from assessment data",
	"methods":     []string{"POST"},
	"requestBody": withFields(reportFieldsDoc, map[string]any{
		"format": map[string]any{
			"type":        "string",
			"enum":        []string{"pdf", formatBuffer},
			"default":     "pdf",
			"description": `"pdf" returns a downloadable file, "buffer" returns base64 JSON`,
		},
	}),
	"responseFormats": map[string]any{
		"pdf": "Direct PDF file download (Content-Type: application/pdf)",
		"buffer": map[string]any{
			"success": "boolean",
			"data": map[string]any{
				"base64":   "string - Base64 encoded PDF",
				"mimeType": "application/pdf",
				"filename": "string - Suggested filename",
			},
		},
	},
}

var completeDocs = map[string]any{
	"endpoint":    "/api/assessments/federal/complete",
	"description": "Complete assessment pipeline: analyze images and generate the PDF in one call",
	"methods":     []string{"POST"},
	"workflow": []string{
		"1. Validate inputs",
		"2. Analyze images",
		"3. Generate HUD OAHMP compliant PDF report",
		"4. Return assessment data, PDF and metadata",
	},
	"requestBody": map[string]any{
		"images": imagesDoc,
		"client": map[string]any{
			"type":     "object",
			"required": true,
			"properties": map[string]any{
				"name":              "string (required) - Client full name",
				"address":           "string (optional)",
				"age":               "number (optional)",
				"livesAlone":        "boolean (optional)",
				"mobilityAids":      "string[] (optional)",
				"recentFalls":       "boolean (optional)",
				"primaryConcerns":   "string[] (optional)",
				"medicalConditions": "string[] (optional)",
			},
		},
		"property": map[string]any{
			"type":     "object",
			"required": false,
			"properties": map[string]any{
				"type":      "string - single_family_detached, condo, etc.",
				"yearBuilt": "number",
				"stories":   "number",
			},
		},
		"config": map[string]any{
			"type":     "object",
			"required": false,
			"properties": map[string]any{
				"programType":   programTypeDoc,
				"budgetCap":     "number (default: 5000)",
				"priorityAreas": "string[] (optional)",
			},
		},
		"report": map[string]any{
			"type":     "object",
			"required": false,
			"properties": map[string]any{
				"assessorName":     "string (default: AI-Assisted Assessment)",
				"organizationName": "string (default: HOMEase AI)",
				"caseNumber":       "string (optional)",
				"generatePdf":      "boolean (default: true)",
			},
		},
	},
	"responseBody": map[string]any{
		"success": "boolean",
		"data": map[string]any{
			"assessment": "AssessmentOutput",
			"pdf": map[string]any{
				"base64":   "string - Base64 encoded PDF",
				"filename": "string - Suggested filename",
			},
			"metadata": map[string]any{
				"assessmentId":         "string",
				"processingTimeMs":     "number",
				"imageCount":           "number",
				"hazardsFound":         "number",
				"recommendationsCount": "number",
				"estimatedCost":        "{ low: number, high: number }",
				"totalCost":            "number",
				"withinBudget":         "boolean",
			},
		},
		"error": "string (if success=false)",
	},
}

var xlsxDocs = map[string]any{
	"endpoint":    "/api/assessments/federal/export/xlsx",
	"description": "Export assessment data as an Excel workbook",
	"methods":     []string{"POST"},
	"requestBody": withFields(reportFieldsDoc, map[string]any{
		"format": `"file" (default) or "buffer" for base64 JSON`,
	}),
	"sheets": []string{"Summary", "Hazards", "Recommendations", "Equipment", "ADL Assessment", "IADL Assessment", "Falls Risk", "Mobility"},
}

var emailDocs = map[string]any{
	"endpoint":    "/api/assessments/federal/export/email",
	"description": "Build a plaintext email summary, and send it when recipients are given",
	"methods":     []string{"POST"},
	"requestBody": withFields(reportFieldsDoc, map[string]any{
		"to": "string[] (optional) - recipients; requires RESEND_API_KEY",
	}),
	"responseBody": map[string]any{
		"success": "boolean",
		"data": map[string]any{
			"subject":   "string",
			"body":      "string",
			"mailto":    "string - mailto: link with subject and body",
			"sent":      "boolean",
			"messageId": "string (when sent)",
		},
	},
}
