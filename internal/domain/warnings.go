package domain

// Warning codes form a closed set consumed by the review UI. Extraction never
// fails for low quality; it attaches one of these and sets NeedsReview.
const (
	WarnTextLayerEmpty       = "PDF_TEXT_LAYER_EMPTY"
	WarnTextExtractionFailed = "PDF_TEXT_EXTRACTION_FAILED"
	WarnOCRInitFailed        = "PDF_OCR_INIT_FAILED"
	WarnOCRPartial           = "PDF_OCR_PARTIAL"
	WarnLowConfidenceLocal   = "PDF_LOW_CONFIDENCE_LOCAL"
	WarnUnknownLayout        = "PDF_UNKNOWN_LAYOUT"
	WarnAITextInsufficient   = "PDF_AI_TEXT_ONLY_INSUFFICIENT"

	WarnAISkippedCostMode    = "PDF_AI_RESCUE_SKIPPED_COST_MODE"
	WarnAISkippedGoodEnough  = "PDF_AI_RESCUE_SKIPPED_GOOD_ENOUGH"
	WarnAIFailed             = "PDF_AI_RESCUE_FAILED"
	WarnAIUnavailable        = "PDF_AI_RESCUE_UNAVAILABLE"
	WarnAIRateLimited        = "PDF_AI_RESCUE_RATE_LIMITED"
	WarnAIResponseIncomplete = "PDF_AI_RESPONSE_POSSIBLY_INCOMPLETE"
)
