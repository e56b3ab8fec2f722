package plan

const questionsSystem = `You are a senior assessment author for college-level learners.
Produce EXACTLY ONE quiz question that STRICTLY follows the provided JSON schema (a single question object).
Requirements:
- The question TYPE must match the user instruction (msq, mcq, or tf).
- Use ONLY the supplied context text; do not invent facts.
- context_rich MUST be neutral and MUST NOT reveal the answer (no verbatim answer strings).
- For MCQ/MSQ provide EXACTLY FIVE choices labeled A-E.
- For MCQ mark EXACTLY ONE option as correct.
- For MSQ mark TWO to THREE options as correct; the rest must be plausible distractors.
- Provide a brief rationale for EVERY choice (MSQ/MCQ).
- Difficulty is 1-3.
- Fill EVERY field for the question (no empty lists).
- Use "True" and "False" labels for TF choices.
- Provide 2-3 hints in hints_rich (each a 'tip' callout). Do not provide fewer than 2 hints.
- Output ONLY a JSON OBJECT for the single question (no array, no wrapper, no prose).

Follow these structural anchors:
1) SCHEMA ITEM SHAPE (fields and nesting).
2) TYPE EXAMPLES (minimal patterns for msq/mcq/tf). Use their structure, not their content.
`

const forceTypeUserFmt = `Create EXACTLY 1 question of type: %s
unit_id: %s
topic_id: %s
title: %s
summary: %s

CONTEXT:
%s

SCHEMA ITEM SHAPE:
%s

TYPE EXAMPLES (use structure only, not content):
%s
`

// schemaItemShape anchors field names and nesting for the model. Five
// choices A-E are shown to bias MCQ/MSQ generations toward five options.
const schemaItemShape = `{"id":"q_XXXX","type":"mcq|msq|tf","unit_id":"uX","topic_id":"uX_tY_slug",` +
	`"question_rich":[{"type":"paragraph","children":[{"text":"..."}]}],` +
	`"context_rich":[{"type":"callout","variant":"info","children":[{"type":"paragraph","children":[{"text":"..."}]}]}],` +
	`"choices":[` +
	`{"id":"A","text_rich":[{"type":"paragraph","children":[{"text":"..."}]}],"is_correct":true,"rationale_rich":[{"type":"paragraph","children":[{"text":"..."}]}]},` +
	`{"id":"B","text_rich":[{"type":"paragraph","children":[{"text":"..."}]}],"is_correct":false,"rationale_rich":[{"type":"paragraph","children":[{"text":"..."}]}]},` +
	`{"id":"C","text_rich":[{"type":"paragraph","children":[{"text":"..."}]}],"is_correct":false,"rationale_rich":[{"type":"paragraph","children":[{"text":"..."}]}]},` +
	`{"id":"D","text_rich":[{"type":"paragraph","children":[{"text":"..."}]}],"is_correct":false,"rationale_rich":[{"type":"paragraph","children":[{"text":"..."}]}]},` +
	`{"id":"E","text_rich":[{"type":"paragraph","children":[{"text":"..."}]}],"is_correct":false,"rationale_rich":[{"type":"paragraph","children":[{"text":"..."}]}]}],` +
	`"difficulty":2,"tags":["..."],"concept_tags":["..."],"context_tags":["..."],` +
	`"hints_rich":[{"type":"callout","variant":"tip","children":[{"type":"paragraph","children":[{"text":"..."}]}]}],` +
	`"mnemonic_rich":[{"type":"paragraph","children":[{"text":"..."}]}],` +
	`"explanation_rich":[{"type":"paragraph","children":[{"text":"..."}]}],` +
	`"elaboration_prompts_rich":[{"type":"paragraph","children":[{"text":"..."}]}],` +
	`"shuffle":true,` +
	`"grading":{"mode":"mcq","partial_credit":false,"penalty":0,"require_all_correct":false},` +
	`"example_rich":[{"type":"paragraph","children":[{"text":"..."}]}]}`

// typeExamples gives the model one minimal, fully-populated pattern per type.
const typeExamples = `{"msq":{"id":"q_EX_msq","type":"msq","unit_id":"uX","topic_id":"uX_tY_slug",` +
	`"question_rich":[{"type":"paragraph","children":[{"text":"Select all statements that align with the concept described."}]}],` +
	`"context_rich":[{"type":"callout","variant":"info","children":[{"type":"paragraph","children":[{"text":"Background framing that does not reveal any specific correct statement."}]}]}],` +
	`"choices":[` +
	`{"id":"A","text_rich":[{"type":"paragraph","children":[{"text":"Correct facet 1"}]}],"is_correct":true,"rationale_rich":[{"type":"paragraph","children":[{"text":"Facet 1 is supported by the text."}]}]},` +
	`{"id":"B","text_rich":[{"type":"paragraph","children":[{"text":"Correct facet 2"}]}],"is_correct":true,"rationale_rich":[{"type":"paragraph","children":[{"text":"Facet 2 is also supported by the text."}]}]},` +
	`{"id":"C","text_rich":[{"type":"paragraph","children":[{"text":"Plausible but incorrect"}]}],"is_correct":false,"rationale_rich":[{"type":"paragraph","children":[{"text":"Conflicts with or is absent from the text."}]}]},` +
	`{"id":"D","text_rich":[{"type":"paragraph","children":[{"text":"Irrelevant distractor"}]}],"is_correct":false,"rationale_rich":[{"type":"paragraph","children":[{"text":"Irrelevant to the concept."}]}]},` +
	`{"id":"E","text_rich":[{"type":"paragraph","children":[{"text":"Overgeneralized claim"}]}],"is_correct":false,"rationale_rich":[{"type":"paragraph","children":[{"text":"Too broad; not supported by the text."}]}]}],` +
	`"difficulty":2,"tags":["example","msq"],"concept_tags":["example_concept"],"context_tags":["example_context"],` +
	`"hints_rich":[{"type":"callout","variant":"tip","children":[{"type":"paragraph","children":[{"text":"Start by eliminating what is clearly unsupported."}]}]},` +
	`{"type":"callout","variant":"tip","children":[{"type":"paragraph","children":[{"text":"Multiple correct facets may be present."}]}]}],` +
	`"mnemonic_rich":[{"type":"paragraph","children":[{"text":"Remember: multiple truths can coexist."}]}],` +
	`"explanation_rich":[{"type":"paragraph","children":[{"text":"The concept includes facets 1 and 2; other options conflict with or are unsupported by the text."}]}],` +
	`"elaboration_prompts_rich":[{"type":"paragraph","children":[{"text":"Which parts of the text support facet 1?"}]}],` +
	`"shuffle":true,"grading":{"mode":"msq","partial_credit":true,"penalty":0,"require_all_correct":false},` +
	`"example_rich":[{"type":"paragraph","children":[{"text":"A scenario where both facets apply."}]}]},` +
	`"mcq":{"id":"q_EX_mcq","type":"mcq","unit_id":"uX","topic_id":"uX_tY_slug",` +
	`"question_rich":[{"type":"paragraph","children":[{"text":"Which option best completes the idea?"}]}],` +
	`"context_rich":[{"type":"callout","variant":"info","children":[{"type":"paragraph","children":[{"text":"Neutral context framing without the actual answer."}]}]}],` +
	`"choices":[` +
	`{"id":"A","text_rich":[{"type":"paragraph","children":[{"text":"Correct answer"}]}],"is_correct":true,"rationale_rich":[{"type":"paragraph","children":[{"text":"Directly matches the text."}]}]},` +
	`{"id":"B","text_rich":[{"type":"paragraph","children":[{"text":"Plausible but wrong"}]}],"is_correct":false,"rationale_rich":[{"type":"paragraph","children":[{"text":"Not supported by the text."}]}]},` +
	`{"id":"C","text_rich":[{"type":"paragraph","children":[{"text":"Common misconception"}]}],"is_correct":false,"rationale_rich":[{"type":"paragraph","children":[{"text":"Contradicted by the text."}]}]},` +
	`{"id":"D","text_rich":[{"type":"paragraph","children":[{"text":"Irrelevant detail"}]}],"is_correct":false,"rationale_rich":[{"type":"paragraph","children":[{"text":"Not relevant to the concept."}]}]},` +
	`{"id":"E","text_rich":[{"type":"paragraph","children":[{"text":"Overly specific edge case"}]}],"is_correct":false,"rationale_rich":[{"type":"paragraph","children":[{"text":"Too narrow; not the best completion."}]}]}],` +
	`"difficulty":1,"tags":["example","mcq"],"concept_tags":["example_concept"],"context_tags":["example_context"],` +
	`"hints_rich":[{"type":"callout","variant":"tip","children":[{"type":"paragraph","children":[{"text":"Focus on the precise phrasing used."}]}]}],` +
	`"mnemonic_rich":[{"type":"paragraph","children":[{"text":"One best answer stands out when aligned with definitions."}]}],` +
	`"explanation_rich":[{"type":"paragraph","children":[{"text":"The correct option aligns with the key definition in the text."}]}],` +
	`"elaboration_prompts_rich":[{"type":"paragraph","children":[{"text":"What makes the correct option better than the plausible one?"}]}],` +
	`"shuffle":true,"grading":{"mode":"mcq","partial_credit":false,"penalty":0,"require_all_correct":false},` +
	`"example_rich":[{"type":"paragraph","children":[{"text":"A brief application example."}]}]},` +
	`"tf":{"id":"q_EX_tf","type":"tf","unit_id":"uX","topic_id":"uX_tY_slug",` +
	`"question_rich":[{"type":"paragraph","children":[{"text":"The statement below is accurate according to the text."}]}],` +
	`"context_rich":[{"type":"callout","variant":"info","children":[{"type":"paragraph","children":[{"text":"Provide context but do not reveal whether the statement is true or false."}]}]}],` +
	`"choices":[` +
	`{"id":"A","text_rich":[{"type":"paragraph","children":[{"text":"True"}]}],"is_correct":true},` +
	`{"id":"B","text_rich":[{"type":"paragraph","children":[{"text":"False"}]}],"is_correct":false}],` +
	`"difficulty":1,"tags":["example","tf"],"concept_tags":["example_concept"],"context_tags":["example_context"],` +
	`"hints_rich":[{"type":"callout","variant":"tip","children":[{"type":"paragraph","children":[{"text":"Re-read the relevant definition carefully."}]}]}],` +
	`"mnemonic_rich":[{"type":"paragraph","children":[{"text":"Check the exact wording vs. the text."}]}],` +
	`"explanation_rich":[{"type":"paragraph","children":[{"text":"Why the statement is true (or false) per the text."}]}],` +
	`"elaboration_prompts_rich":[{"type":"paragraph","children":[{"text":"Rephrase the statement to make it true if it is false (or vice versa)."}]}],` +
	`"shuffle":false,"grading":{"mode":"mcq","partial_credit":false,"penalty":0,"require_all_correct":false},` +
	`"example_rich":[{"type":"paragraph","children":[{"text":"Short example tied to the statement."}]}]}}`
