package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/lifeline-ai/backend/internal/domain/entities"
	"github.com/lifeline-ai/backend/internal/domain/providers"
)

// FirstAidService selects ordered first-aid instructions for an emergency,
// generating them with the intelligence service when possible and falling
// back to the static template table.
type FirstAidService struct {
	intelligence providers.IntelligenceProvider
}

// NewFirstAidService creates a first-aid service. The intelligence provider
// may be nil, in which case only the template table is used.
func NewFirstAidService(intelligence providers.IntelligenceProvider) *FirstAidService {
	return &FirstAidService{intelligence: intelligence}
}

// InstructionsFor never fails and never returns an empty sequence. Whatever
// the source, every step gets a fresh unique id and steps are renumbered
// 1..N so the sequence invariant holds even for sloppy generated numbering.
func (s *FirstAidService) InstructionsFor(ctx context.Context, emergencyType entities.EmergencyType, severity entities.SeverityLevel) []entities.Instruction {
	if s.intelligence != nil {
		drafts, err := s.intelligence.GenerateInstructions(ctx, string(emergencyType), string(severity))
		if err == nil && len(drafts) > 0 {
			return numberDrafts(drafts)
		}
		if err != nil {
			log.Debug().Err(err).Msg("instruction generation failed, falling back to templates")
			recordFallbackMetric(ctx, "instructions", string(entities.SourceIntelligence))
		}
	}

	template, ok := instructionTemplates[emergencyType]
	if !ok {
		template = genericTemplate
	}
	return numberDrafts(template)
}

func numberDrafts(drafts []providers.InstructionDraft) []entities.Instruction {
	instructions := make([]entities.Instruction, 0, len(drafts))
	for i, draft := range drafts {
		instructions = append(instructions, entities.Instruction{
			ID:          uuid.NewString(),
			Step:        i + 1,
			Title:       draft.Title,
			Description: draft.Description,
			Duration:    draft.Duration,
		})
	}
	return instructions
}

func seconds(n int) *int { return &n }

// instructionTemplates is the static fallback table, keyed by emergency
// type. Unknown types get the generic sequence.
var instructionTemplates = map[entities.EmergencyType][]providers.InstructionDraft{
	entities.EmergencyCardiac: {
		{Title: "Call Emergency Services", Description: "Immediately call 911 or your local emergency number. This is a medical emergency.", Duration: seconds(0)},
		{Title: "Check Responsiveness", Description: "Check if the person is conscious and responsive. Gently shake their shoulders and ask if they're okay.", Duration: seconds(10)},
		{Title: "Start CPR if Needed", Description: "If the person is unresponsive and not breathing, begin CPR. Place hands on center of chest and push hard and fast (100-120 compressions per minute).", Duration: seconds(120)},
		{Title: "Use AED if Available", Description: "If an Automated External Defibrillator (AED) is available, follow its instructions immediately.", Duration: seconds(60)},
	},
	entities.EmergencyRespiratory: {
		{Title: "Assess Breathing", Description: "Check if the person is breathing. Look for chest movement and listen for breath sounds.", Duration: seconds(10)},
		{Title: "Clear Airway", Description: "If the person is choking, perform the Heimlich maneuver. Stand behind them, place hands above navel, and give quick upward thrusts.", Duration: seconds(30)},
		{Title: "Call Emergency Services", Description: "If breathing doesn't improve, call 911 immediately.", Duration: seconds(0)},
		{Title: "Monitor Condition", Description: "Continue monitoring breathing and consciousness until help arrives.", Duration: seconds(0)},
	},
	entities.EmergencyBleeding: {
		{Title: "Apply Direct Pressure", Description: "Use a clean cloth or bandage to apply firm, direct pressure to the wound.", Duration: seconds(300)},
		{Title: "Elevate the Injury", Description: "If possible, raise the injured area above the level of the heart to reduce blood flow.", Duration: seconds(0)},
		{Title: "Call Emergency Services", Description: "If bleeding is severe or doesn't stop, call 911 immediately.", Duration: seconds(0)},
		{Title: "Keep Pressure Until Help Arrives", Description: "Continue applying pressure. Do not remove the bandage even if it becomes soaked with blood.", Duration: seconds(0)},
	},
	entities.EmergencyFracture: {
		{Title: "Immobilize the Injury", Description: "Keep the injured area still. Do not try to realign bones or push a bone back in.", Duration: seconds(0)},
		{Title: "Apply Ice", Description: "Apply a cold pack or ice wrapped in cloth to reduce swelling and pain.", Duration: seconds(600)},
		{Title: "Seek Medical Attention", Description: "Go to the emergency room or call 911 if the fracture is severe or the person cannot move.", Duration: seconds(0)},
		{Title: "Monitor for Shock", Description: "Watch for signs of shock: pale skin, rapid pulse, dizziness. Keep the person calm and lying down.", Duration: seconds(0)},
	},
	entities.EmergencyBurn: {
		{Title: "Cool the Burn", Description: "Hold the burned area under cool (not cold) running water for 10-20 minutes, or apply a cool, wet compress.", Duration: seconds(1200)},
		{Title: "Remove Tight Items", Description: "Remove rings, bracelets, or tight clothing from the burned area before it swells.", Duration: seconds(30)},
		{Title: "Cover the Burn", Description: "Cover the burn with a sterile, non-adhesive bandage or clean cloth.", Duration: seconds(0)},
		{Title: "Seek Medical Attention", Description: "Call 911 for severe burns, or seek medical attention if the burn is larger than 3 inches or affects face, hands, or joints.", Duration: seconds(0)},
	},
}

var genericTemplate = []providers.InstructionDraft{
	{Title: "Assess the Situation", Description: "Carefully assess the emergency situation and ensure your own safety first.", Duration: seconds(30)},
	{Title: "Call Emergency Services", Description: "Call 911 or your local emergency number if the situation is serious.", Duration: seconds(0)},
	{Title: "Provide Basic Care", Description: "Provide basic first aid care while waiting for professional help to arrive.", Duration: seconds(0)},
	{Title: "Monitor the Person", Description: "Continue monitoring the person's condition and stay with them until help arrives.", Duration: seconds(0)},
}
