package aiextract

// BuildExtractionPrompt returns the extraction prompt for lab report text.
// The response contract is strict JSON; the client still recovers fenced
// or prefixed output.
func BuildExtractionPrompt(text string) string {
	return `You are a medical lab report extraction assistant. Extract every laboratory measurement from the report text below.

IMPORTANT INSTRUCTIONS:
- Extract EVERY measurement row. Do not skip, summarize, or omit any result.
- Ignore narrative commentary, interpretation text, and guideline sentences; only actual measured results count.
- "testDate" is the sample collection (draw) date, not the report or print date. Normalize to YYYY-MM-DD.
- Keep the unit exactly as printed. Reference range bounds are numbers; use null when a bound is absent.
- "confidence" is your 0.0-1.0 confidence that the row is a real measurement read correctly.

Return ONLY valid JSON with no markdown formatting, no code fences, no explanation - just the raw JSON object:

{
  "testDate": "YYYY-MM-DD",
  "markers": [
    {
      "marker": "",
      "value": 0,
      "unit": "",
      "referenceMin": null,
      "referenceMax": null,
      "confidence": 0
    }
  ]
}

REPORT TEXT:
` + text
}

// BuildContinuationPrompt asks the provider to continue a truncated response
// from the cut point.
func BuildContinuationPrompt(partial string) string {
	tail := partial
	if len(tail) > 400 {
		tail = tail[len(tail)-400:]
	}
	return `Your previous JSON output was cut off by the output-token limit. Continue EXACTLY from where it stopped, with no repetition and no preamble. The output ended with:

` + tail
}
