package core

import (
	"slices"

	"github.com/celerio/scout/schema"
)

var prescriptions = map[schema.Vector]schema.Prescription{
	schema.HealthyVector: {
		Status:         "No intervention needed",
		Recommendation: "Monitor for early warning signals.",
	},
	schema.MarketVector: {
		FractionalExecutive: "Fractional Product Strategist",
		Plan: []string{
			`Week 1-2: PMF Survey & Cohort Analysis - Segment by acquisition cohort, identify "Anti-Personas"`,
			"Week 3-4: ICP Matrix Workshop - Define Segment Attractiveness vs Competitive Strength",
			"Week 5-6: Pricing Model Audit - Evaluate unit economics, consider consumption-based pricing",
			"Week 7-8: Segment Pivot Test - Run hypothesis-driven experiments on new ICP segments",
			"Week 9-10: Value Progression Framework - Track Attention → Time → Reputation → Commitment",
			`Week 11-12: PMF Re-validation - Re-run Sean Ellis survey, target >40% "Very Disappointed"`,
		},
		KeyActions: []string{
			`Exclude "Bad Revenue" segments from GTM plan`,
			"Adjust pricing model if CAC payback >18 months",
			"Validate new segments before scaling marketing spend",
		},
	},
	schema.MotionVector: {
		FractionalExecutive: "Fractional Revenue Architect (CRO)",
		Plan: []string{
			"Week 1-2: Revenue Architecture Audit - Map Bowtie Model, identify leaky buckets",
			"Week 3-4: RevOps Digital Twin Setup - Automate Sales Velocity reporting, flag rotting deals",
			"Week 5-6: Sales Process Redesign - Implement SPICED framework, fix MQL→SQL handoff",
			"Week 7-8: Pipeline Velocity Optimization - Reduce cycle length, improve win rate",
			"Week 9-10: SDR/AE Ratio Calibration - Right-size outbound capacity",
			"Week 11-12: Tech Stack Optimization - Eliminate shelfware, restore critical tools if needed",
		},
		KeyActions: []string{
			"Deploy RevOps Digital Twin for automated reporting",
			`Implement "No Demo Without Discovery" gate`,
			`Create "Trust Packet" to reduce legal/procurement bottlenecks`,
		},
	},
	schema.MessagingVector: {
		FractionalExecutive: "Fractional CMO / Strategic Narrative Lead",
		Plan: []string{
			"Week 1-2: Strategic Narrative Workshop - Apply Andy Raskin framework (The Shift, Stakes, New Game)",
			"Week 3-4: Messaging Audit - NLP analysis of sales calls, identify lexicon gap",
			"Week 5-6: Website Overhaul - Rewrite homepage, deck, remove jargon",
			`Week 7-8: Value Prop Testing - A/B test "Outcome" vs "Feature" messaging`,
			"Week 9-10: Sales Enablement - Train team on SPICED framework",
			"Week 11-12: Messaging Validation - Measure demo-to-close rate improvement",
		},
		KeyActions: []string{
			`Rewrite core pitch using "Old Game vs New Game" framework`,
			"Replace feature-focused messaging with outcome-focused",
			`Address "Trust Deficit" with Constitutional AI positioning`,
		},
	},
}

// PrescriptionFor returns a copy of the remediation template for a primary vector.
// Unknown vectors get the healthy template.
func PrescriptionFor(v schema.Vector) schema.Prescription {
	p, ok := prescriptions[v]
	if !ok {
		p = prescriptions[schema.HealthyVector]
	}
	p.Plan = slices.Clone(p.Plan)
	p.KeyActions = slices.Clone(p.KeyActions)
	return p
}

// AllPrescriptions lists every template, failing vectors first in tie-break order.
func AllPrescriptions() []schema.VectorPrescription {
	order := append(slices.Clone(schema.VectorOrder), schema.HealthyVector)
	out := make([]schema.VectorPrescription, 0, len(order))
	for _, v := range order {
		out = append(out, schema.VectorPrescription{Vector: v, Prescription: PrescriptionFor(v)})
	}
	return out
}
