package homeassess

import (
	"encoding/json"
	"sync"
)

// Schema is a declarative description of the JSON the model must return.
// It marshals as a JSON Schema document.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
}

func object(props map[string]*Schema) *Schema { return &Schema{Type: "object", Properties: props} }
func arrayOf(items *Schema) *Schema            { return &Schema{Type: "array", Items: items} }
func enumOf(values []string) *Schema           { return &Schema{Type: "string", Enum: values} }

var (
	str     = &Schema{Type: "string"}
	num     = &Schema{Type: "number"}
	integer = &Schema{Type: "integer"}
	boolean = &Schema{Type: "boolean"}
)

var ResponseSchema = sync.OnceValue(func() *Schema {
	return object(map[string]*Schema{
		"confidence": object(map[string]*Schema{
			"overall":         num,
			"imageQuality":    num,
			"hazardDetection": num,
			"recommendations": num,
		}),
		"detectedRooms": arrayOf(object(map[string]*Schema{
			"roomType":   enumOf(RoomTypes),
			"imageIds":   arrayOf(str),
			"confidence": num,
		})),
		"detectedHazards": arrayOf(object(map[string]*Schema{
			"id":          str,
			"imageId":     str,
			"category":    enumOf(HazardCategories),
			"description": str,
			"severity":    &Schema{Type: "integer", Description: "0 none to 4 critical"},
			"location": object(map[string]*Schema{
				"room":         str,
				"specificArea": str,
			}),
			"affectsADLs": arrayOf(str),
			"confidence":  num,
		})),
		"existingAccessibility": arrayOf(object(map[string]*Schema{
			"feature":   str,
			"imageId":   str,
			"location":  str,
			"condition": enumOf([]string{"good", "fair", "poor"}),
		})),
		"recommendations": arrayOf(object(map[string]*Schema{
			"id":                    str,
			"category":              enumOf(ModificationCategories),
			"subcategory":           str,
			"description":           str,
			"room":                  str,
			"specificLocation":      str,
			"addressesHazard":       str,
			"affectedADLs":          arrayOf(str),
			"affectedIADLs":         arrayOf(str),
			"fallsRiskReduction":    enumOf([]string{"none", "low", "moderate", "high"}),
			"priority":              &Schema{Type: "integer", Description: "1 low to 4 urgent"},
			"priorityJustification": str,
			"estimatedCost": object(map[string]*Schema{
				"materials": num,
				"labor":     num,
				"total":     num,
			}),
			"modificationType":            enumOf([]string{"maintenance", "rehabilitation"}),
			"requiresLicensedContractor":  boolean,
			"requiresPermit":              boolean,
			"requiresEnvironmentalReview": boolean,
			"specifications":              str,
			"productRecommendations":      arrayOf(str),
		})),
		"equipmentSuggestions": arrayOf(object(map[string]*Schema{
			"id":                   str,
			"category":             enumOf(EquipmentCategories),
			"name":                 str,
			"description":          str,
			"addressesADL":         arrayOf(str),
			"addressesIADL":        arrayOf(str),
			"reducesRisk":          str,
			"estimatedCost":        num,
			"requiresInstallation": boolean,
			"requiresTraining":     boolean,
			"priority":             integer,
		})),
		"summary": object(map[string]*Schema{
			"overallSafetyScore":  num,
			"criticalIssuesCount": integer,
			"primaryRiskAreas":    arrayOf(str),
			"estimatedTotalCost": object(map[string]*Schema{
				"low":  num,
				"high": num,
			}),
			"topThreeRecommendations": arrayOf(str),
		}),
		"limitations":                    arrayOf(str),
		"additionalPhotosNeeded":         arrayOf(str),
		"requiresProfessionalAssessment": boolean,
		"professionalAssessmentReason":   str,
	})
})

var schemaJSON = sync.OnceValue(func() string {
	data, err := json.MarshalIndent(ResponseSchema(), "", "  ")
	if err != nil {
		panic(err)
	}
	return string(data)
})

// SchemaJSON renders the response schema for inclusion in a request.
func SchemaJSON() string {
	return schemaJSON()
}
