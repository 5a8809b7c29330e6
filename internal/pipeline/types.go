// Package pipeline implements the four-stage document processing pipeline.
// It provides the stage result contracts, the text-generation delegate
// abstraction, and the orchestrator that chains classification, extraction,
// validation, and routing with per-stage failure containment.
package pipeline

import (
	"encoding/json"
	"math"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Status tracks how far a document has progressed through the pipeline.
type Status string

// Job statuses in pipeline order. Partial and failed are absorbing.
const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusClassified Status = "classified"
	StatusExtracted  Status = "extracted"
	StatusValidated  Status = "validated"
	StatusCompleted  Status = "completed"
	StatusPartial    Status = "partial"
	StatusFailed     Status = "failed"
)

var statusRank = map[Status]int{
	StatusPending:    0,
	StatusProcessing: 1,
	StatusClassified: 2,
	StatusExtracted:  3,
	StatusValidated:  4,
	StatusCompleted:  5,
	StatusPartial:    5,
	StatusFailed:     5,
}

// Terminal reports whether the status ends a job's lifecycle.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusPartial || s == StatusFailed
}

// Rank returns the status position in pipeline order. Terminal statuses
// share the highest rank.
func (s Status) Rank() int {
	return statusRank[s]
}

// DocumentType identifies the kind of document a classification produced.
type DocumentType string

// Recognized document types.
const (
	TypeInvoice       DocumentType = "invoice"
	TypeContract      DocumentType = "contract"
	TypePurchaseOrder DocumentType = "purchase_order"
	TypeTechnicalSpec DocumentType = "technical_specification"
	TypeMixed         DocumentType = "mixed"
	TypeUnknown       DocumentType = "unknown"
)

var documentTypes = []DocumentType{
	TypeInvoice,
	TypeContract,
	TypePurchaseOrder,
	TypeTechnicalSpec,
	TypeMixed,
	TypeUnknown,
}

// ParseDocumentType normalizes a raw delegate value to a recognized type.
// Unrecognized values become TypeUnknown rather than failing the stage.
func ParseDocumentType(s string) DocumentType {
	v := DocumentType(s)
	if !slices.Contains(documentTypes, v) {
		return TypeUnknown
	}
	return v
}

// UnmarshalJSON normalizes unrecognized values to TypeUnknown.
func (t *DocumentType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = ParseDocumentType(raw)
	return nil
}

// Destination identifies the queue a routed document is delivered to.
type Destination string

// Routing destinations.
const (
	DestHighConfidence   Destination = "high_confidence_queue"
	DestManualReview     Destination = "manual_review_queue"
	DestRejected         Destination = "rejected_queue"
	DestSpecialistReview Destination = "specialist_review_queue"
)

// Confidence is a stage certainty score clamped to [0, 1]. Delegates are
// external collaborators: out-of-range values are clamped and non-numeric
// values normalize to 0.0 instead of failing the stage.
type Confidence float64

// Clamp bounds a raw score to [0, 1]. NaN normalizes to 0.
func Clamp(v float64) Confidence {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return Confidence(v)
}

// UnmarshalJSON accepts numbers and numeric strings; anything else becomes 0.0.
func (c *Confidence) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*c = Clamp(f)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			*c = Clamp(f)
			return nil
		}
	}

	*c = 0
	return nil
}

// ClassificationResult is the classification stage output.
type ClassificationResult struct {
	DocumentType     DocumentType         `json:"document_type"`
	Confidence       Confidence           `json:"confidence"`
	Reasoning        string               `json:"reasoning"`
	AlternativeTypes []map[string]float64 `json:"alternative_types,omitempty"`
}

// ExtractionResult is the extraction stage output.
type ExtractionResult struct {
	Fields           map[string]any `json:"fields"`
	Confidence       Confidence     `json:"confidence"`
	ExtractionMethod string         `json:"extraction_method"`
	Warnings         []string       `json:"warnings"`
}

// ValidationResult is the validation stage output.
type ValidationResult struct {
	IsValid       bool             `json:"is_valid"`
	Conflicts     []map[string]any `json:"conflicts"`
	MissingFields []string         `json:"missing_fields"`
	Confidence    Confidence       `json:"confidence"`
	Warnings      []string         `json:"warnings"`
}

// RoutingDecision is the routing stage output.
type RoutingDecision struct {
	Destination         Destination `json:"destination"`
	Reasoning           string      `json:"reasoning"`
	Confidence          Confidence  `json:"confidence"`
	RequiresHumanReview bool        `json:"requires_human_review"`
}

// Metadata carries upload details for one document.
type Metadata struct {
	SizeBytes  int64     `json:"size_bytes"`
	UploadTime time.Time `json:"upload_time"`
	StorageKey string    `json:"storage_key"`
}

// State holds one document's run through the pipeline. It is owned and
// mutated exclusively by that document's pipeline task; progress is
// published to observers through the orchestrator's notify callback.
// Each stage result is set exactly once by its stage and never mutated after.
type State struct {
	JobID          uuid.UUID             `json:"job_id"`
	Filename       string                `json:"filename"`
	Content        string                `json:"content"`
	Metadata       Metadata              `json:"metadata"`
	Status         Status                `json:"status"`
	Classification *ClassificationResult `json:"classification,omitempty"`
	Extraction     *ExtractionResult     `json:"extraction,omitempty"`
	Validation     *ValidationResult     `json:"validation,omitempty"`
	Routing        *RoutingDecision      `json:"routing,omitempty"`
	Errors         []string              `json:"errors"`
	StartTime      time.Time             `json:"start_time"`
	EndTime        *time.Time            `json:"end_time,omitempty"`
}
