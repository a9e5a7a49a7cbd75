package intelligence

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	serviceRepo "clinicbot/database/repository/service"
	"clinicbot/models"
	"clinicbot/utils"

	genai "github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const classifyTimeout = 10 * time.Second

// GeminiClassifier implements Classifier on Gemini with a constrained JSON
// response schema, so the model cannot reply with free-form prose.
type GeminiClassifier struct {
	model    *genai.GenerativeModel
	services serviceRepo.ServiceRepository
	now      func() time.Time
}

func NewGeminiClassifier(apiKey string, services serviceRepo.ServiceRepository) *GeminiClassifier {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		panic(fmt.Sprintf("failed to create Gemini client: %v", err))
	}

	model := client.GenerativeModel("models/gemini-1.5-flash")
	model.SetTemperature(0.2)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = classifySchema()

	return &GeminiClassifier{model: model, services: services, now: time.Now}
}

func classifySchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"message": {Type: genai.TypeString},
			"intent": {
				Type: genai.TypeString,
				Enum: []string{
					string(models.IntentGreeting),
					string(models.IntentBookingRequest),
					string(models.IntentCheckAppointment),
					string(models.IntentCancellation),
					string(models.IntentReschedule),
					string(models.IntentInvoiceAnalysis),
					string(models.IntentLocationInquiry),
					string(models.IntentGeneral),
				},
			},
			"suggestedServiceIds": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeInteger},
			},
			"extractedInvoiceData": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"amount": {Type: genai.TypeNumber},
					"date":   {Type: genai.TypeString},
				},
			},
		},
		Required: []string{"message", "intent"},
	}
}

func (g *GeminiClassifier) Classify(ctx context.Context, req models.ClassifyRequest) (*models.ClassifyResult, error) {
	ctx, cancel := context.WithTimeout(ctx, classifyTimeout)
	defer cancel()

	system, err := g.systemPrompt(ctx)
	if err != nil {
		return nil, err
	}
	// The system prompt changes per call (today's date); concurrent sessions
	// must not write through the shared model.
	model := *g.model
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}

	var parts []genai.Part
	if len(req.History) > 0 {
		parts = append(parts, genai.Text("Turnos recientes del usuario:\n"+strings.Join(req.History, "\n")))
	}
	if req.Text != "" {
		parts = append(parts, genai.Text("Mensaje del usuario: "+req.Text))
	}
	if len(req.Image) > 0 {
		parts = append(parts, genai.ImageData("jpeg", req.Image))
		parts = append(parts, genai.Text("El usuario envió esta imagen. Si es un comprobante de pago, extrae monto y fecha."))
	}
	if len(parts) == 0 {
		return &models.ClassifyResult{Intent: models.IntentGeneral}, nil
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, fmt.Errorf("gemini classify error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}

	var result models.ClassifyResult
	if err := json.Unmarshal([]byte(sb.String()), &result); err != nil {
		utils.GetLogger().Warn("Gemini returned unparseable JSON", zap.Error(err))
		return &models.ClassifyResult{Intent: models.IntentGeneral}, nil
	}
	return Normalize(&result, req.Text), nil
}

// systemPrompt embeds the service catalogue and today's date so the model can
// resolve relative expressions like "mañana" and suggest real services.
func (g *GeminiClassifier) systemPrompt(ctx context.Context) (string, error) {
	services, err := g.services.ListServices(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load service catalogue: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("Eres el asistente virtual de una clínica de fisioterapia en Colombia. ")
	sb.WriteString("Clasifica cada mensaje del usuario en una intención y responde SOLO el JSON del esquema. ")
	sb.WriteString("Responde siempre en español, con calidez y brevedad.\n\n")

	sb.WriteString("Servicios disponibles:\n")
	for _, s := range services {
		fmt.Fprintf(&sb, "- [%d] %s (%d min, $%.0f COP)\n", s.ID, s.Name, s.DurationMin, s.Price)
	}

	now := g.now()
	fmt.Fprintf(&sb, "\nHOY es %s, %s. Usa esta fecha para interpretar expresiones relativas.\n",
		spanishWeekday(now.Weekday()), now.Format("2006-01-02"))
	return sb.String(), nil
}

func spanishWeekday(d time.Weekday) string {
	switch d {
	case time.Monday:
		return "lunes"
	case time.Tuesday:
		return "martes"
	case time.Wednesday:
		return "miércoles"
	case time.Thursday:
		return "jueves"
	case time.Friday:
		return "viernes"
	case time.Saturday:
		return "sábado"
	default:
		return "domingo"
	}
}
