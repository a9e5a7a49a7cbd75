package intelligence

import (
	"strings"

	"clinicbot/models"
)

var validIntents = map[models.Intent]bool{
	models.IntentGreeting:         true,
	models.IntentBookingRequest:   true,
	models.IntentCheckAppointment: true,
	models.IntentCancellation:     true,
	models.IntentReschedule:       true,
	models.IntentInvoiceAnalysis:  true,
	models.IntentLocationInquiry:  true,
	models.IntentGeneral:          true,
}

// managementPhrases are wordings the classifier tends to miss and file under
// general conversation. Users asking for the "management system" want their
// appointment list.
var managementPhrases = []string{
	"sistema de gestión",
	"sistema de gestion",
	"gestionar mis citas",
	"gestionar mi cita",
}

// Normalize clamps a raw classification result to the closed intent set and
// applies deterministic overrides the model is known to get wrong.
func Normalize(res *models.ClassifyResult, userText string) *models.ClassifyResult {
	if res == nil {
		return &models.ClassifyResult{Intent: models.IntentGeneral}
	}
	if !validIntents[res.Intent] {
		res.Intent = models.IntentGeneral
	}
	if res.Intent == models.IntentGeneral && mentionsManagement(userText) {
		res.Intent = models.IntentCheckAppointment
	}
	return res
}

func mentionsManagement(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range managementPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
