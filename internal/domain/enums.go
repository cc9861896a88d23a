package domain

// FileType represents the allowed file types for upload.
type FileType string

const (
	FileTypePDF FileType = "pdf"
	FileTypeJPG FileType = "jpg"
	FileTypePNG FileType = "png"
)

// AllowedFileTypes maps FileType to its MIME content type.
var AllowedFileTypes = map[FileType]string{
	FileTypePDF: "application/pdf",
	FileTypeJPG: "image/jpeg",
	FileTypePNG: "image/png",
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"jpg":  FileTypeJPG,
	"jpeg": FileTypeJPG,
	"png":  FileTypePNG,
}

// AllowedContentTypes is the set of sniffed MIME types accepted at upload.
var AllowedContentTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
}

// UserRole defines the account role hierarchy.
type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleMember UserRole = "member"
)

// FileStatus represents the lifecycle of an uploaded file.
type FileStatus string

const (
	FileStatusPending  FileStatus = "pending"
	FileStatusUploaded FileStatus = "uploaded"
	FileStatusFailed   FileStatus = "failed"
	FileStatusDeleted  FileStatus = "deleted"
)

// AbnormalFlag classifies a value against its reference range.
type AbnormalFlag string

const (
	AbnormalLow     AbnormalFlag = "low"
	AbnormalHigh    AbnormalFlag = "high"
	AbnormalNormal  AbnormalFlag = "normal"
	AbnormalUnknown AbnormalFlag = "unknown"
)

// ExtractionProvider says which path produced a draft.
type ExtractionProvider string

const (
	ProviderFallback ExtractionProvider = "fallback"
	ProviderAI       ExtractionProvider = "ai"
)

// ResolutionMethod says how a raw label was canonicalized.
type ResolutionMethod string

const (
	MethodOverride   ResolutionMethod = "override"
	MethodExactAlias ResolutionMethod = "exact_alias"
	MethodPattern    ResolutionMethod = "pattern"
	MethodTokenScore ResolutionMethod = "token_score"
	MethodUnknown    ResolutionMethod = "unknown"
)

// UnitSystem selects the unit convention for display conversion.
type UnitSystem string

const (
	UnitSystemEU UnitSystem = "eu"
	UnitSystemUS UnitSystem = "us"
)

// ResolveMode tunes how aggressive token-overlap canonicalization is.
type ResolveMode string

const (
	ResolveConservative ResolveMode = "conservative"
	ResolveBalanced     ResolveMode = "balanced"
	ResolveAggressive   ResolveMode = "aggressive"
)

// CostMode controls whether advisory AI rescue is offered.
type CostMode string

const (
	CostModeStandard     CostMode = "standard"
	CostModeUltraLowCost CostMode = "ultra_low_cost"
)

// RowSource tags where a marker row came from.
const (
	SourceLocal      = "local"
	SourceOCR        = "ocr"
	SourceAI         = "ai"
	SourceCalculated = "calculated"
)
