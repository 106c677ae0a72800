package llm

// Prompt templates for the interrogation back ends. Each expects
// fmt.Sprintf with the arguments named in the comment above it.

// responderPrompt: persona, established facts, directive packet JSON,
// conversation transcript.
const responderPrompt = `You are playing an interrogation suspect. Stay in character at all times.

PERSONA:
%s

ESTABLISHED FACTS (never contradict these):
%s

DIRECTIVE PACKET (follow the selected tactic and behavioral directives exactly):
%s

CONVERSATION SO FAR:
%s

Respond with ONLY a JSON object in this exact shape, no prose outside it:
{
  "internal_monologue": {
    "situation_assessment": "string",
    "threat_level": 0.0,
    "chosen_strategy": "string"
  },
  "verbal_response": {
    "speech": "string",
    "tone": "string"
  },
  "state_changes": {
    "load_delta": 0.0,
    "mask_divergence_delta": 0.0,
    "pillar_deltas": {}
  },
  "lie_consistency_check": {
    "new_claims": [
      {"claim": "string", "pillar": "alibi|motive|access|knowledge", "type": "assertion|denial|qualification|admission"}
    ],
    "contradictions_acknowledged": []
  },
  "emotional_state": "neutral|calm|nervous|angry|sad|desperate"
}

threat_level is in [0,1]. Every factual claim in your speech must appear in new_claims.
If a counter_evidence narrative is present in the packet, deliver it verbatim inside your speech.`

// malformedRetryNote: validation error from the previous attempt.
const malformedRetryNote = `Your previous reply was rejected: %s. Reply again with ONLY the JSON object, exactly matching the schema.`

// analystPrompt: detective utterance, detected tactic, cognitive level.
const analystPrompt = `You are a covert interrogation analyst advising a suspect under questioning.

The detective just said:
%q

Pre-classified tactic: %s. Suspect cognitive level: %s.

Classify the move against the Reid technique (stages: positive_confrontation, theme_development, handling_denials, overcoming_objections, procurement_of_attention, passive_to_active, alternative_question), the PEACE model (planning, engage, account, closure, evaluation), and Information Manipulation Theory (violation of quantity, quality, relation, or manner; empty string if none).

Respond with ONLY JSON:
{
  "reid_phase": "string",
  "peace_phase": "string",
  "imt_violation": "string",
  "aggression_level": 0.0,
  "trap_detected": false,
  "trap_description": "string",
  "confession_risk": 0.0,
  "recommended": "paltering|minimization|deflection|selective_memory|confession_bait|counter_narrative|evidence_fabrication|emotional_appeal|righteous_indignation",
  "fallback": "same options as recommended",
  "advice": "one sentence of strategic advice to the suspect"
}`

// visionPrompt has no arguments; the image rides alongside it.
const visionPrompt = `You are a forensic image examiner. Describe the attached evidence exhibit.

Respond with ONLY JSON:
{
  "objects": ["notable objects visible"],
  "text_content": "any legible text, verbatim",
  "timestamps": ["any visible timestamps"],
  "pillar_relevance": {
    "alibi": 0.0,
    "motive": 0.0,
    "access": 0.0,
    "knowledge": 0.0
  }
}

pillar_relevance scores how strongly the exhibit bears on each part of a suspect's story:
alibi (where they were), motive (why they would), access (how they got in), knowledge (what they knew). Use [0,1].`
