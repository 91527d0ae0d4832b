// Package pipeline turns record batches into styled HTML documents.
//
// Stages, in order:
//   - Partition splits a record sequence into fixed-size batches
//   - Projector renders one batch as Markdown, one block per record
//   - GoldmarkConverter converts the Markdown to a standalone HTML document
//   - ExpandRecordMarkers turns record markers into record containers
//   - CSSInjection embeds the assembled stylesheet
//
// PDF generation is handled separately by the root json2pdf package using
// headless Chrome (go-rod). This separation keeps the pipeline focused on
// document structure and content, while PDF rendering handles page layout,
// margins, and browser-based rendering concerns.
package pipeline
