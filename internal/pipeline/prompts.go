package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/docflow/docflow/pkg/formatting"
)

// Content preview bounds per stage. Prompts carry a bounded prefix of the
// document so delegate cost and latency stay predictable.
const (
	classifyPreviewLen = 2000
	extractPreviewLen  = 2500
	validatePreviewLen = 1500
)

var extractionFields = map[DocumentType]string{
	TypeInvoice:       "invoice_number, date, vendor, total_amount, items, tax",
	TypeContract:      "parties, effective_date, term, value, obligations",
	TypePurchaseOrder: "po_number, date, vendor, items, total, delivery_date",
	TypeTechnicalSpec: "product_name, version, specifications",
}

func classifyPrompt(content string, sizeBytes int64) string {
	var sb strings.Builder

	sb.WriteString("Analyze this document and classify it.\n\n")
	sb.WriteString("Document Content:\n")
	sb.WriteString(formatting.Truncate(content, classifyPreviewLen))
	fmt.Fprintf(&sb, "\n\nFile Info: %d bytes\n\n", sizeBytes)
	sb.WriteString(`Identify the document type from these options:
- invoice: Has invoice number, items, prices, totals
- contract: Has parties, terms, obligations, signatures
- purchase_order: Has PO number, vendor, items to purchase
- technical_specification: Has product specs, requirements
- mixed: Contains multiple document types
- unknown: Cannot determine type

Provide your analysis as VALID JSON with this exact structure:
{
    "document_type": "one of the types above",
    "confidence": 0.0 to 1.0,
    "reasoning": "explain your classification",
    "alternative_types": []
}

IMPORTANT: Return ONLY the JSON object, no other text.`)

	return sb.String()
}

func extractPrompt(content string, docType DocumentType) string {
	fields, ok := extractionFields[docType]
	if !ok {
		fields = "key_information"
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, "Extract data from this %s:\n\n", docType)
	sb.WriteString("Document:\n")
	sb.WriteString(formatting.Truncate(content, extractPreviewLen))
	fmt.Fprintf(&sb, "\n\nExtract these fields: %s\n\n", fields)
	sb.WriteString(`Return VALID JSON with this structure:
{
    "fields": {
        "field_name": "extracted_value"
    },
    "confidence": 0.0 to 1.0,
    "extraction_method": "ai_extraction",
    "warnings": ["list any issues"]
}

IMPORTANT: Return ONLY JSON, no other text.`)

	return sb.String()
}

func validatePrompt(content string, extraction *ExtractionResult) string {
	extracted, err := json.MarshalIndent(extraction.Fields, "", "  ")
	if err != nil {
		extracted = []byte("{}")
	}

	var sb strings.Builder

	sb.WriteString("Validate this extracted data:\n\n")
	fmt.Fprintf(&sb, "Extracted: %s\n", extracted)
	fmt.Fprintf(&sb, "Original: %s\n\n", formatting.Truncate(content, validatePreviewLen))
	sb.WriteString(`Check:
1. Do values match the document?
2. Are there any conflicts?
3. Are critical fields missing?
4. Is data logically consistent?

Return VALID JSON:
{
    "is_valid": true or false,
    "conflicts": [],
    "missing_fields": ["list missing"],
    "confidence": 0.0 to 1.0,
    "warnings": ["list warnings"]
}

ONLY return JSON.`)

	return sb.String()
}

func routePrompt(state *State, t Thresholds) string {
	var sb strings.Builder

	sb.WriteString("Route this document:\n\n")
	fmt.Fprintf(&sb, "Classification confidence: %v\n", state.Classification.Confidence)
	fmt.Fprintf(&sb, "Extraction confidence: %v\n", state.Extraction.Confidence)
	fmt.Fprintf(&sb, "Validation: %v\n", state.Validation.IsValid)
	fmt.Fprintf(&sb, "Thresholds: high=%v low=%v\n\n", t.High, t.Low)
	sb.WriteString(`Rules:
- both confidences above high threshold + valid -> high_confidence_queue
- between low and high -> manual_review_queue
- below low threshold or invalid -> specialist_review_queue

Return VALID JSON:
{
    "destination": "queue_name",
    "reasoning": "explain decision",
    "confidence": 0.0 to 1.0,
    "requires_human_review": true or false
}

ONLY JSON.`)

	return sb.String()
}
